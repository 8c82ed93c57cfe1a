package statistics

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/digideal/paygate/internal/models"
	"github.com/digideal/paygate/pkg/types"
)

var ErrInvalidRequest = errors.New("invalid statistic request")

type StatisticType string

const (
	StatisticTypeDailyOrderCount    StatisticType = "daily_order_count"
	StatisticTypeDailyPaidRevenue   StatisticType = "daily_paid_revenue"
	StatisticTypeTotalPaidRevenue   StatisticType = "total_paid_revenue"
	StatisticTypeStatusCount        StatisticType = "status_count"
	StatisticTypePaymentStatusCount StatisticType = "payment_status_count"
)

var statisticTypes = []StatisticType{
	StatisticTypeDailyOrderCount,
	StatisticTypeDailyPaidRevenue,
	StatisticTypeTotalPaidRevenue,
	StatisticTypeStatusCount,
	StatisticTypePaymentStatusCount,
}

// FilterFields are the order columns statistics may be filtered on.
var FilterFields = []string{"currency", "status", "payment_status", "created_at"}

// paidStatuses count as revenue.
var paidStatuses = []types.PaymentStatus{types.PaymentStatusPaid}

type OrderStatisticDataItem struct {
	ID StatisticType `json:"id"`
}

type OrderStatisticRequest struct {
	Filters   []*types.CommonFilter     `json:"filters"`
	DataItems []*OrderStatisticDataItem `json:"data_items"`
}

func (r *OrderStatisticRequest) Validate() error {
	if r == nil || len(r.DataItems) == 0 {
		return fmt.Errorf("%w: no data items", ErrInvalidRequest)
	}
	for _, di := range r.DataItems {
		if di == nil || !lo.Contains(statisticTypes, di.ID) {
			return fmt.Errorf("%w: invalid data item", ErrInvalidRequest)
		}
	}
	for _, f := range r.Filters {
		if err := f.Validate(FilterFields); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}
	return nil
}

func (r *OrderStatisticRequest) where() clause.Where {
	if len(r.Filters) == 0 {
		return clause.Where{}
	}
	return clause.Where{Exprs: []clause.Expression{types.FiltersAnd(r.Filters)}}
}

type OrderStatisticResponseDataItem struct {
	Date  string          `json:"date,omitempty"`
	Label string          `json:"label,omitempty"`
	Value decimal.Decimal `json:"value" swaggertype:"string"`
}

type OrderStatisticResponse struct {
	DataItems map[StatisticType][]OrderStatisticResponseDataItem `json:"data_items"`
}

type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) orders(ctx context.Context, request *OrderStatisticRequest) *gorm.DB {
	q := s.db.WithContext(ctx).Table((models.Order{}).TableName())
	if w := request.where(); len(w.Exprs) > 0 {
		q = q.Where(w)
	}
	return q
}

func (s *Service) getDailyOrderCount(ctx context.Context, request *OrderStatisticRequest) ([]OrderStatisticResponseDataItem, error) {
	var results []OrderStatisticResponseDataItem
	q := s.orders(ctx, request).
		Select("TO_CHAR(created_at, 'YYYY-MM-DD') as date, count(*) as value").
		Group("TO_CHAR(created_at, 'YYYY-MM-DD')").
		Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}, Desc: true})
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDailyPaidRevenue(ctx context.Context, request *OrderStatisticRequest) ([]OrderStatisticResponseDataItem, error) {
	var results []OrderStatisticResponseDataItem
	q := s.orders(ctx, request).
		Select("TO_CHAR(created_at, 'YYYY-MM-DD') as date, currency as label, sum(total_amount) as value").
		Where("payment_status IN ?", paidStatuses).
		Group("TO_CHAR(created_at, 'YYYY-MM-DD')").
		Group("currency").
		Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}, Desc: true})
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getTotalPaidRevenue(ctx context.Context, request *OrderStatisticRequest) ([]OrderStatisticResponseDataItem, error) {
	var results []OrderStatisticResponseDataItem
	q := s.orders(ctx, request).
		Select("currency as label, sum(total_amount) as value").
		Where("payment_status IN ?", paidStatuses).
		Group("currency").
		Order("label")
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) countBy(ctx context.Context, request *OrderStatisticRequest, column string) ([]OrderStatisticResponseDataItem, error) {
	var results []OrderStatisticResponseDataItem
	q := s.orders(ctx, request).
		Select(column + " as label, count(*) as value").
		Group(column).
		Order("label")
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getOrderStatistic(ctx context.Context, request *OrderStatisticRequest, dataItem *OrderStatisticDataItem) ([]OrderStatisticResponseDataItem, error) {
	switch dataItem.ID {
	case StatisticTypeDailyOrderCount:
		return s.getDailyOrderCount(ctx, request)
	case StatisticTypeDailyPaidRevenue:
		return s.getDailyPaidRevenue(ctx, request)
	case StatisticTypeTotalPaidRevenue:
		return s.getTotalPaidRevenue(ctx, request)
	case StatisticTypeStatusCount:
		return s.countBy(ctx, request, "status")
	case StatisticTypePaymentStatusCount:
		return s.countBy(ctx, request, "payment_status")
	default:
		return nil, fmt.Errorf("%w: invalid data item id: %s", ErrInvalidRequest, dataItem.ID)
	}
}

// GetOrderStatistic computes the requested data items concurrently.
func (s *Service) GetOrderStatistic(ctx context.Context, request *OrderStatisticRequest) (*OrderStatisticResponse, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	errChan := make(chan error, len(request.DataItems))
	resChan := make(chan *lo.Entry[StatisticType, []OrderStatisticResponseDataItem], len(request.DataItems))

	for _, item := range request.DataItems {
		go func(di *OrderStatisticDataItem) {
			res, err := s.getOrderStatistic(ctx, request, di)
			if err != nil {
				errChan <- fmt.Errorf("%s: %w", di.ID, err)
				return
			}
			resChan <- &lo.Entry[StatisticType, []OrderStatisticResponseDataItem]{Key: di.ID, Value: res}
		}(item)
	}

	// every worker sends exactly once on one of the buffered channels
	results := make(map[StatisticType][]OrderStatisticResponseDataItem)
	for i := 0; i < len(request.DataItems); i++ {
		select {
		case err := <-errChan:
			return nil, err
		case entry := <-resChan:
			results[entry.Key] = entry.Value
		}
	}
	return &OrderStatisticResponse{DataItems: results}, nil
}

var Module = fx.Options(
	fx.Provide(New),
)

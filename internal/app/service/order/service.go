package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/digideal/paygate/internal/models"
	"github.com/digideal/paygate/pkg/logctx"
	"github.com/digideal/paygate/pkg/tool"
	"github.com/digideal/paygate/pkg/types"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidOrder       = errors.New("invalid order")
	ErrInvalidOrderStatus = errors.New("invalid order status")
)

// ScanFields are the columns admins may filter and sort on.
var ScanFields = []string{"id", "email", "telegram", "status", "payment_status", "payment_id", "currency", "total_amount", "created_at", "updated_at"}

type CreateOrderRequest struct {
	Email       string            `json:"email"`
	Telegram    string            `json:"telegram"`
	Items       []types.OrderItem `json:"items"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	Currency    types.Currency    `json:"currency"`
	Description string            `json:"description"`
}

// PaymentUpdate is the result of a verified gateway callback.
type PaymentUpdate struct {
	PaymentStatus types.PaymentStatus
	OrderStatus   types.OrderStatus
	PaymentID     string
}

type ScanOrdersRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanOrdersResponse struct {
	Items []*models.Order `json:"items"`
	Total int64           `json:"total"`
}

// Store is the order persistence boundary used by checkout, the webhook
// verifier and the admin API.
type Store interface {
	Create(ctx context.Context, req *CreateOrderRequest) (*models.Order, error)
	Get(ctx context.Context, id string) (*models.Order, error)
	// ApplyPayment overwrites the payment outcome of one order. It is the only
	// writer of payment_status and payment_id.
	ApplyPayment(ctx context.Context, id string, u PaymentUpdate) error
	// UpdateStatus changes the fulfilment status only.
	UpdateStatus(ctx context.Context, id string, status types.OrderStatus) (*models.Order, error)
	Scan(ctx context.Context, req *ScanOrdersRequest) (*ScanOrdersResponse, error)
}

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

func (s *Service) Create(ctx context.Context, req *CreateOrderRequest) (*models.Order, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", ErrInvalidOrder)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: no items", ErrInvalidOrder)
	}
	if !req.TotalAmount.IsPositive() {
		return nil, fmt.Errorf("%w: total amount must be positive", ErrInvalidOrder)
	}
	if !req.Currency.Supported() {
		return nil, fmt.Errorf("%w: unsupported currency %q", ErrInvalidOrder, req.Currency)
	}

	o := &models.Order{
		ID:            tool.GenerateUUIDV7(),
		Email:         lo.EmptyableToPtr(strings.TrimSpace(req.Email)),
		Telegram:      lo.EmptyableToPtr(strings.TrimSpace(req.Telegram)),
		Items:         datatypes.NewJSONType(req.Items),
		TotalAmount:   req.TotalAmount,
		Currency:      req.Currency,
		Description:   req.Description,
		Status:        types.OrderStatusPending,
		PaymentStatus: types.PaymentStatusPending,
	}
	if err := s.db.WithContext(ctx).Create(o).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("order_created", "order_id", o.ID, "amount", o.TotalAmount.String(), "currency", o.Currency)
	return o, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &o, nil
}

// ApplyPayment is a single-row overwrite keyed by id, so redelivering the same
// callback leaves the row unchanged. payment_id keeps the first non-empty value.
func (s *Service) ApplyPayment(ctx context.Context, id string, u PaymentUpdate) error {
	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"payment_status": u.PaymentStatus,
			"status":         u.OrderStatus,
			"payment_id":     gorm.Expr("CASE WHEN payment_id = '' THEN ? ELSE payment_id END", u.PaymentID),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update order payment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	return nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status types.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOrderStatus, status)
	}
	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	logctx.FromCtx(ctx, s.log).Infow("order_status_updated", "order_id", id, "status", status)
	return s.Get(ctx, id)
}

// Scan implements paginated/admin listing with filters
func (s *Service) Scan(ctx context.Context, req *ScanOrdersRequest) (*ScanOrdersResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	for _, f := range req.Filters {
		if err := f.Validate(ScanFields); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidOrder, err)
		}
	}
	if req.SortBy != "" && !lo.Contains(ScanFields, req.SortBy) {
		return nil, fmt.Errorf("%w: sort field not allowed: %q", ErrInvalidOrder, req.SortBy)
	}
	if req.Size <= 0 {
		req.Size = 20
	}
	if req.From < 0 {
		req.From = 0
	}
	if req.SortBy == "" {
		req.SortBy = "created_at"
	}

	tx := s.db.WithContext(ctx).Model(&models.Order{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{types.FiltersAnd(req.Filters)}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var rows []*models.Order
	q := tx.Limit(req.Size).Offset(req.From).
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: req.SortBy}, Desc: req.SortOrder != "asc"}}})
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return &ScanOrdersResponse{Items: rows, Total: total}, nil
}

package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/digideal/paygate/internal/app/service/order"
	"github.com/digideal/paygate/internal/models"
	"github.com/digideal/paygate/internal/platform/capitalist"
	"github.com/digideal/paygate/pkg/logctx"
	"github.com/digideal/paygate/pkg/metrics"
	"github.com/digideal/paygate/pkg/types"
)

var ErrOrderNotPayable = errors.New("order is not payable")

type CheckoutRequest struct {
	// OrderID retries payment of an existing order. When set, the other order
	// fields are ignored and the stored amount and currency are charged.
	OrderID     string            `json:"order_id" form:"order_id"`
	Email       string            `json:"email" form:"email"`
	Telegram    string            `json:"telegram" form:"telegram"`
	Items       []types.OrderItem `json:"items" form:"-"`
	TotalAmount decimal.Decimal   `json:"total_amount" form:"-" swaggertype:"string" example:"10.00"`
	Currency    types.Currency    `json:"currency" form:"currency" example:"USD"`
	Description string            `json:"description" form:"description"`
	Lang        string            `json:"lang" form:"lang" example:"ru"`
}

type CheckoutResponse struct {
	OrderID string                     `json:"order_id"`
	Retry   bool                       `json:"retry"`
	Payment *capitalist.PaymentRequest `json:"payment"`
}

type Service struct {
	orders  order.Store
	builder *capitalist.Builder
	log     *zap.SugaredLogger
}

func NewService(orders order.Store, builder *capitalist.Builder, log *zap.SugaredLogger) *Service {
	return &Service{orders: orders, builder: builder, log: log}
}

func defaultDescription(orderID string) string {
	return "Order " + orderID
}

// Checkout creates (or, with OrderID, reloads) an order and returns the
// signed gateway request for it.
func (s *Service) Checkout(ctx context.Context, req *CheckoutRequest) (*CheckoutResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", capitalist.ErrInvalidIntent)
	}
	var (
		resp *CheckoutResponse
		err  error
	)
	if req.OrderID != "" {
		resp, err = s.retry(ctx, req)
	} else {
		resp, err = s.create(ctx, req)
	}
	metrics.IncCounter(metrics.CheckoutResults, checkoutResult(resp, err))
	return resp, err
}

func checkoutResult(resp *CheckoutResponse, err error) string {
	switch {
	case err == nil && resp.Retry:
		return metrics.CheckoutResultRetried
	case err == nil:
		return metrics.CheckoutResultCreated
	case errors.Is(err, capitalist.ErrInvalidIntent), errors.Is(err, order.ErrInvalidOrder), errors.Is(err, order.ErrOrderNotFound):
		return metrics.CheckoutResultInvalid
	case errors.Is(err, ErrOrderNotPayable):
		return metrics.CheckoutResultNotPayable
	default:
		return metrics.CheckoutResultError
	}
}

func (s *Service) create(ctx context.Context, req *CheckoutRequest) (*CheckoutResponse, error) {
	description := strings.TrimSpace(req.Description)
	// validate everything the builder will check before the order exists
	if err := s.builder.Validate(capitalist.PaymentIntent{
		OperationID: "pending",
		Amount:      req.TotalAmount,
		Currency:    req.Currency,
		Description: lo.Ternary(description == "", defaultDescription("pending"), description),
		Lang:        req.Lang,
	}); err != nil {
		return nil, err
	}

	o, err := s.orders.Create(ctx, &order.CreateOrderRequest{
		Email:       req.Email,
		Telegram:    req.Telegram,
		Items:       req.Items,
		TotalAmount: req.TotalAmount.Round(2),
		Currency:    req.Currency,
		Description: description,
	})
	if err != nil {
		return nil, err
	}

	payment, err := s.build(o, req.Lang)
	if err != nil {
		return nil, err
	}
	logctx.FromCtx(ctx, s.log).Infow("checkout_created", "order_id", o.ID, "amount", payment.Amount, "currency", payment.Currency)
	return &CheckoutResponse{OrderID: o.ID, Payment: payment}, nil
}

func (s *Service) retry(ctx context.Context, req *CheckoutRequest) (*CheckoutResponse, error) {
	o, err := s.orders.Get(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if !o.Payable() {
		return nil, fmt.Errorf("%w: order %s is %s/%s", ErrOrderNotPayable, o.ID, o.Status, o.PaymentStatus)
	}
	payment, err := s.build(o, req.Lang)
	if err != nil {
		return nil, err
	}
	logctx.FromCtx(ctx, s.log).Infow("checkout_retried", "order_id", o.ID, "payment_status", o.PaymentStatus)
	return &CheckoutResponse{OrderID: o.ID, Retry: true, Payment: payment}, nil
}

func (s *Service) build(o *models.Order, lang string) (*capitalist.PaymentRequest, error) {
	description := o.Description
	if description == "" {
		description = defaultDescription(o.ID)
	}
	return s.builder.Build(capitalist.PaymentIntent{
		OperationID: o.ID,
		Amount:      o.TotalAmount,
		Currency:    o.Currency,
		Description: description,
		Email:       lo.FromPtr(o.Email),
		Lang:        lang,
	})
}

var Module = fx.Options(
	fx.Provide(NewService),
)

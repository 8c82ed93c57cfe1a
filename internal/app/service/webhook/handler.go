package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/digideal/paygate/internal/app/service/events"
	"github.com/digideal/paygate/internal/app/service/notifier"
	"github.com/digideal/paygate/internal/app/service/order"
	"github.com/digideal/paygate/internal/app/service/webhook_log"
	"github.com/digideal/paygate/internal/models"
	"github.com/digideal/paygate/internal/platform/capitalist"
	"github.com/digideal/paygate/pkg/config"
	"github.com/digideal/paygate/pkg/logctx"
	"github.com/digideal/paygate/pkg/metrics"
	"github.com/digideal/paygate/pkg/types"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrPersistence      = errors.New("failed to persist payment update")
)

const defaultSideEffectTimeout = 15 * time.Second

// Result describes an acknowledged callback.
type Result struct {
	OperationID   string              `json:"operation_id"`
	PaymentStatus types.PaymentStatus `json:"payment_status"`
	OrderStatus   types.OrderStatus   `json:"order_status"`
	PaymentID     string              `json:"payment_id,omitempty"`
	UnknownOrder  bool                `json:"unknown_order,omitempty"`
}

// Handler verifies gateway callbacks and applies them to orders.
type Handler struct {
	cfg      *config.Config
	signer   *capitalist.Signer
	orders   order.Store
	audit    webhook_log.Recorder
	events   events.Publisher
	notifier notifier.Notifier
	Logger   *zap.SugaredLogger

	// pending tracks side effects still running after their callback was acknowledged.
	pending sync.WaitGroup
}

func NewHandler(cfg *config.Config, signer *capitalist.Signer, orders order.Store, audit webhook_log.Recorder, pub events.Publisher, n notifier.Notifier, log *zap.SugaredLogger) *Handler {
	return &Handler{cfg: cfg, signer: signer, orders: orders, audit: audit, events: pub, notifier: n, Logger: log}
}

// Handle processes one callback. The signature is checked before anything is
// written to the order; a nil error means the gateway may be acknowledged.
func (h *Handler) Handle(ctx context.Context, raw map[string]string, traceID string) (res *Result, resErr error) {
	payload := capitalist.NewWebhookPayload(raw)
	log := logctx.FromCtx(ctx, h.Logger).With("operation_id", payload.OperationID, "gateway_status", payload.Status)

	dataBytes, _ := json.Marshal(raw)
	entry := func(status models.GatewayWebhookLogStatus) *models.GatewayWebhookLog {
		return &models.GatewayWebhookLog{
			ProviderID:    string(types.PaymentProviderCapitalist),
			TraceID:       traceID,
			OperationID:   payload.OperationID,
			GatewayStatus: payload.Status,
			ReceivedAt:    time.Now(),
			Data:          datatypes.JSON(dataBytes),
			Status:        status,
		}
	}
	h.audit.Save(ctx, entry(models.GatewayWebhookLogStatusReceived))

	verified := false
	defer func() {
		resMap := map[string]any{"result": res}
		status := models.GatewayWebhookLogStatusHandled
		switch {
		case resErr != nil && !verified:
			status = models.GatewayWebhookLogStatusRejected
		case resErr != nil:
			status = models.GatewayWebhookLogStatusHandleFailed
		}
		if resErr != nil {
			resMap["error"] = resErr.Error()
		}
		resBytes, _ := json.Marshal(resMap)
		e := entry(status)
		e.Result = func() *datatypes.JSON { j := datatypes.JSON(resBytes); return &j }()
		h.audit.Save(ctx, e)
	}()

	if !h.signer.VerifyWebhook(raw, payload.Sign) {
		log.Warnw("webhook_signature_mismatch",
			"merchant_address", payload.MerchantAddress,
			"currency", payload.Currency,
			"amount", payload.Amount,
			"payment_id", payload.PaymentID,
			"sign", payload.Sign,
		)
		metrics.IncCounter(metrics.WebhookResults, metrics.WebhookResultBadSignature)
		return nil, ErrInvalidSignature
	}
	verified = true

	paymentStatus, orderStatus := capitalist.MapStatus(payload.Status)
	res = &Result{
		OperationID:   payload.OperationID,
		PaymentStatus: paymentStatus,
		OrderStatus:   orderStatus,
		PaymentID:     payload.PaymentID,
	}

	persistCtx, cancel := context.WithTimeout(ctx, h.cfg.Webhook.PersistTimeout)
	err := h.orders.ApplyPayment(persistCtx, payload.OperationID, order.PaymentUpdate{
		PaymentStatus: paymentStatus,
		OrderStatus:   orderStatus,
		PaymentID:     payload.PaymentID,
	})
	cancel()
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		log.Warnw("webhook_unknown_order")
		metrics.IncCounter(metrics.WebhookResults, metrics.WebhookResultUnknownOrder)
		res.UnknownOrder = true
		return res, nil
	case err != nil:
		log.Errorw("webhook_persist_failed", "error", err)
		metrics.IncCounter(metrics.WebhookResults, metrics.WebhookResultPersistError)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	log.Infow("webhook_order_updated", "payment_status", paymentStatus, "order_status", orderStatus, "payment_id", payload.PaymentID)
	metrics.IncCounter(metrics.WebhookResults, metrics.WebhookResultAcknowledged)

	h.goAfterUpdate(ctx, log, payload, *res)
	return res, nil
}

// goAfterUpdate starts the side effects of a committed update without holding
// the acknowledgement. They keep the request's values (logger, trace id) but
// not its cancellation, and are bounded by webhook.side_effect_timeout.
func (h *Handler) goAfterUpdate(ctx context.Context, log *zap.SugaredLogger, p *capitalist.WebhookPayload, res Result) {
	timeout := h.cfg.Webhook.SideEffectTimeout
	if timeout <= 0 {
		timeout = defaultSideEffectTimeout
	}
	bgCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)

	h.pending.Add(1)
	go func() {
		defer h.pending.Done()
		defer cancel()
		h.afterUpdate(bgCtx, log, p, &res)
	}()
}

// Wait blocks until every started side effect has finished or ctx is done.
func (h *Handler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// afterUpdate runs the best-effort side effects of a committed update.
// Failures are logged and never change the acknowledgement.
func (h *Handler) afterUpdate(ctx context.Context, log *zap.SugaredLogger, p *capitalist.WebhookPayload, res *Result) {
	if err := h.events.PublishOrderPaymentUpdated(ctx, events.OrderPaymentUpdated{
		OrderID:       res.OperationID,
		PaymentStatus: res.PaymentStatus,
		OrderStatus:   res.OrderStatus,
		PaymentID:     res.PaymentID,
		Amount:        p.Amount,
		Currency:      p.Currency,
	}); err != nil {
		log.Warnw("webhook_event_publish_failed", "error", err)
	}

	if res.PaymentStatus != types.PaymentStatusPaid {
		return
	}
	if err := h.notifier.OrderPaid(ctx, notifier.OrderPaidNotice{
		OrderID:   res.OperationID,
		Amount:    p.Amount,
		Currency:  p.Currency,
		PaymentID: res.PaymentID,
	}); err != nil {
		log.Warnw("webhook_notify_failed", "error", err)
	}
}

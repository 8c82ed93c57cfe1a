package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/digideal/paygate/pkg/config"
	"github.com/digideal/paygate/pkg/logctx"
	"github.com/digideal/paygate/pkg/tool"
	"github.com/digideal/paygate/pkg/types"
)

const (
	EventTypeOrderPaymentUpdated = "order.payment.updated"
	eventVersion                 = 1
)

// OrderPaymentUpdated is emitted after a verified callback changed an order.
type OrderPaymentUpdated struct {
	EventID       string              `json:"event_id"`
	EventType     string              `json:"event_type"`
	EventVersion  int                 `json:"event_version"`
	OccurredAt    time.Time           `json:"occurred_at"`
	OrderID       string              `json:"order_id"`
	PaymentStatus types.PaymentStatus `json:"payment_status"`
	OrderStatus   types.OrderStatus   `json:"order_status"`
	PaymentID     string              `json:"payment_id,omitempty"`
	Amount        string              `json:"amount"`
	Currency      string              `json:"currency"`
}

type Publisher interface {
	PublishOrderPaymentUpdated(ctx context.Context, e OrderPaymentUpdated) error
}

// Nop drops every event. Used when no brokers are configured.
type Nop struct{}

func (Nop) PublishOrderPaymentUpdated(context.Context, OrderPaymentUpdated) error { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
	topic  string
	log    *zap.SugaredLogger
}

func NewKafkaPublisher(brokers []string, topic string, log *zap.SugaredLogger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		// one event per callback; do not wait for a batch to fill
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
	}
	return &KafkaPublisher{writer: writer, topic: topic, log: log}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// PublishOrderPaymentUpdated writes the event keyed by order id so that all
// updates of one order land on the same partition.
func (p *KafkaPublisher) PublishOrderPaymentUpdated(ctx context.Context, e OrderPaymentUpdated) error {
	if e.EventID == "" {
		e.EventID = tool.GenerateUUIDV7()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	e.EventType = EventTypeOrderPaymentUpdated
	e.EventVersion = eventVersion

	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", e.EventType, err)
	}

	log := logctx.FromCtx(ctx, p.log)
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(e.OrderID), Value: value}); err != nil {
		log.Errorw("order_event_publish_failed", "error", err, "topic", p.topic, "order_id", e.OrderID)
		return err
	}
	log.Infow("order_event_published", "topic", p.topic, "event_id", e.EventID, "order_id", e.OrderID, "payment_status", e.PaymentStatus)
	return nil
}

func New(lc fx.Lifecycle, cfg *config.Config, log *zap.SugaredLogger) Publisher {
	if len(cfg.Kafka.Brokers) == 0 {
		log.Infow("kafka publisher disabled")
		return Nop{}
	}
	p := NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return p.Close()
		},
	})
	return p
}

var Module = fx.Options(
	fx.Provide(New),
)

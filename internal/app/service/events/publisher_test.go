package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/digideal/paygate/pkg/config"
	"github.com/digideal/paygate/pkg/types"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_PublishOrderPaymentUpdated(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w, topic: "orders", log: zap.NewNop().Sugar()}

	err := p.PublishOrderPaymentUpdated(context.Background(), OrderPaymentUpdated{
		OrderID:       "order-123",
		PaymentStatus: types.PaymentStatusPaid,
		OrderStatus:   types.OrderStatusProcessing,
		Amount:        "10.00",
		Currency:      "USD",
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	require.Equal(t, "order-123", string(w.msgs[0].Key))

	var got OrderPaymentUpdated
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	require.Equal(t, EventTypeOrderPaymentUpdated, got.EventType)
	require.Equal(t, 1, got.EventVersion)
	require.NotEmpty(t, got.EventID)
	require.False(t, got.OccurredAt.IsZero())
	require.Equal(t, types.PaymentStatusPaid, got.PaymentStatus)
}

func TestKafkaPublisher_PropagatesWriteError(t *testing.T) {
	p := &KafkaPublisher{writer: &fakeWriter{err: errors.New("broker down")}, topic: "orders", log: zap.NewNop().Sugar()}
	err := p.PublishOrderPaymentUpdated(context.Background(), OrderPaymentUpdated{OrderID: "o"})
	require.ErrorContains(t, err, "broker down")
}

func TestNew_DisabledWithoutBrokers(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	p := New(lc, &config.Config{}, zap.NewNop().Sugar())
	require.IsType(t, Nop{}, p)
	require.NoError(t, p.PublishOrderPaymentUpdated(context.Background(), OrderPaymentUpdated{}))
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// HistogramBuckets are request latency buckets in milliseconds.
var HistogramBuckets = []float64{
	5, 10, 25, 50, 75, 100, 150, 200, 300, 500,
	750, 1000, 1500, 2000, 3000, 5000, 10000, 15000, 30000,
}

// Metric describes one prometheus collector. MetricCollector is filled in
// once the metric is registered.
type Metric struct {
	MetricCollector prometheus.Collector
	ID              string
	Name            string
	Description     string
	Type            string
	Args            []string
}

// NewMetric builds the collector for m.Type.
func NewMetric(m *Metric, subsystem string) prometheus.Collector {
	switch m.Type {
	case "counter_vec":
		return prometheus.NewCounterVec(
			prometheus.CounterOpts{Subsystem: subsystem, Name: m.Name, Help: m.Description},
			m.Args,
		)
	case "counter":
		return prometheus.NewCounter(
			prometheus.CounterOpts{Subsystem: subsystem, Name: m.Name, Help: m.Description},
		)
	case "gauge_vec":
		return prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Subsystem: subsystem, Name: m.Name, Help: m.Description},
			m.Args,
		)
	case "histogram_vec":
		return prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Subsystem: subsystem, Name: m.Name, Help: m.Description, Buckets: HistogramBuckets},
			m.Args,
		)
	case "summary_vec":
		return prometheus.NewSummaryVec(
			prometheus.SummaryOpts{Subsystem: subsystem, Name: m.Name, Help: m.Description},
			m.Args,
		)
	}
	return nil
}

// Webhook outcomes.
const (
	WebhookResultAcknowledged = "acknowledged"
	WebhookResultUnknownOrder = "unknown_order"
	WebhookResultBadSignature = "bad_signature"
	WebhookResultBadPayload   = "bad_payload"
	WebhookResultPersistError = "persist_error"
)

// Checkout outcomes.
const (
	CheckoutResultCreated    = "created"
	CheckoutResultRetried    = "retried"
	CheckoutResultInvalid    = "invalid"
	CheckoutResultNotPayable = "not_payable"
	CheckoutResultError      = "error"
)

var WebhookResults = &Metric{
	ID:          "webhookResults",
	Name:        "webhook_result_total",
	Description: "Gateway callbacks processed, partitioned by outcome.",
	Type:        "counter_vec",
	Args:        []string{"result"},
}

var CheckoutResults = &Metric{
	ID:          "checkoutResults",
	Name:        "checkout_total",
	Description: "Checkout attempts, partitioned by outcome.",
	Type:        "counter_vec",
	Args:        []string{"result"},
}

// BusinessMetrics are registered alongside the HTTP metrics.
var BusinessMetrics = []*Metric{WebhookResults, CheckoutResults}

// IncCounter increments a registered counter_vec. Unregistered metrics are
// ignored so services work without the HTTP middleware, e.g. in tests.
func IncCounter(m *Metric, labels ...string) {
	if cv, ok := m.MetricCollector.(*prometheus.CounterVec); ok {
		cv.WithLabelValues(labels...).Inc()
	}
}

const (
	RefererKey = "X-Referer"
)

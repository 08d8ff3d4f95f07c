// Package metrics collects and exposes Prometheus metrics for webhook
// processing outcomes.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the metrics interface consumed by the handler and usecase
// layers.
type Recorder interface {
	RecordReceived(eventType string)
	RecordProcessed(eventType string)
	RecordDuplicate(eventType string)
	RecordIgnored(eventType string)
	RecordSignatureFailure(endpoint string)
	RecordHandlerFailure(eventType string)
	RecordNotifyFailure()
}

// Collector implements Recorder on top of Prometheus counters.
type Collector struct {
	received         *prometheus.CounterVec
	processed        *prometheus.CounterVec
	duplicate        *prometheus.CounterVec
	ignored          *prometheus.CounterVec
	signatureFailure *prometheus.CounterVec
	handlerFailure   *prometheus.CounterVec
	notifyFailure    prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics on the given
// registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		received: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitcal_webhook_events_received_total",
			Help: "Signature-verified webhook events received, by type.",
		}, []string{"type"}),
		processed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitcal_webhook_events_processed_total",
			Help: "Webhook events fully processed and reserved, by type.",
		}, []string{"type"}),
		duplicate: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitcal_webhook_events_duplicate_total",
			Help: "Webhook events acknowledged as already processed, by type.",
		}, []string{"type"}),
		ignored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitcal_webhook_events_ignored_total",
			Help: "Webhook events of uninteresting types, by type.",
		}, []string{"type"}),
		signatureFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitcal_webhook_signature_failures_total",
			Help: "Webhook requests rejected at signature verification, by endpoint.",
		}, []string{"endpoint"}),
		handlerFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitcal_webhook_handler_failures_total",
			Help: "Webhook events whose reconciliation handler failed, by type.",
		}, []string{"type"}),
		notifyFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fitcal_webhook_notify_failures_total",
			Help: "Best-effort notification deliveries that failed.",
		}),
	}

	reg.MustRegister(
		c.received,
		c.processed,
		c.duplicate,
		c.ignored,
		c.signatureFailure,
		c.handlerFailure,
		c.notifyFailure,
	)

	return c
}

func (c *Collector) RecordReceived(eventType string) {
	c.received.WithLabelValues(eventType).Inc()
}

func (c *Collector) RecordProcessed(eventType string) {
	c.processed.WithLabelValues(eventType).Inc()
}

func (c *Collector) RecordDuplicate(eventType string) {
	c.duplicate.WithLabelValues(eventType).Inc()
}

func (c *Collector) RecordIgnored(eventType string) {
	c.ignored.WithLabelValues(eventType).Inc()
}

func (c *Collector) RecordSignatureFailure(endpoint string) {
	c.signatureFailure.WithLabelValues(endpoint).Inc()
}

func (c *Collector) RecordHandlerFailure(eventType string) {
	c.handlerFailure.WithLabelValues(eventType).Inc()
}

func (c *Collector) RecordNotifyFailure() {
	c.notifyFailure.Inc()
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

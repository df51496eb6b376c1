package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes recorded per handled event.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
	OutcomeIgnored  = "ignored"
)

type Collector struct {
	eventsTotal     *prometheus.CounterVec
	rejectionsTotal *prometheus.CounterVec
	handleDuration  *prometheus.HistogramVec
	metadataUpdates *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		eventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clerk_webhook_events_total",
				Help: "Verified Clerk webhook events by type and outcome",
			},
			[]string{"type", "outcome"},
		),

		rejectionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clerk_webhook_rejections_total",
				Help: "Webhook requests rejected before dispatch",
			},
			[]string{"reason"},
		),

		handleDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "clerk_webhook_handle_duration_seconds",
				Help:    "Time spent applying a verified event to the user store",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"type"},
		),

		metadataUpdates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clerk_metadata_updates_total",
				Help: "Public metadata write-backs to Clerk by status",
			},
			[]string{"status"},
		),
	}
}

func (c *Collector) RecordEvent(eventType, outcome string, took time.Duration) {
	c.eventsTotal.WithLabelValues(eventType, outcome).Inc()
	c.handleDuration.WithLabelValues(eventType).Observe(took.Seconds())
}

func (c *Collector) RecordRejection(reason string) {
	c.rejectionsTotal.WithLabelValues(reason).Inc()
}

func (c *Collector) RecordMetadataUpdate(err error) {
	status := "ok"
	if err != nil {
		status = "failed"
	}
	c.metadataUpdates.WithLabelValues(status).Inc()
}

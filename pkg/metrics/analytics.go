package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// AnalyticsMetrics records funnel consumer behavior.
type AnalyticsMetrics struct {
	processed *prometheus.CounterVec
	poison    *prometheus.CounterVec
}

// NewAnalyticsMetrics registers the analytics metrics on the provided registerer.
func NewAnalyticsMetrics(reg prometheus.Registerer) *AnalyticsMetrics {
	if reg == nil {
		return &AnalyticsMetrics{}
	}
	processed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "analytics_events_processed_total",
		Help: "Funnel events written to BigQuery, labeled by event type.",
	}, []string{"event_type"})
	poison := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "analytics_events_poison_total",
		Help: "Analytics messages acked without processing, labeled by reason.",
	}, []string{"reason"})
	reg.MustRegister(processed, poison)
	return &AnalyticsMetrics{processed: processed, poison: poison}
}

// IncProcessed increments the processed counter for the event type.
func (a *AnalyticsMetrics) IncProcessed(eventType string) {
	if a == nil || a.processed == nil {
		return
	}
	a.processed.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncPoison increments the dead-letter counter for the given reason.
func (a *AnalyticsMetrics) IncPoison(reason string) {
	if a == nil || a.poison == nil {
		return
	}
	a.poison.WithLabelValues(normalizeLabel(reason)).Inc()
}

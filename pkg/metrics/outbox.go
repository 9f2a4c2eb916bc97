package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OutboxMetrics records publisher behavior for the transactional outbox.
type OutboxMetrics struct {
	published    *prometheus.CounterVec
	retried      prometheus.Counter
	deadLettered *prometheus.CounterVec
	pollDuration prometheus.Histogram
}

// NewOutboxMetrics registers the outbox metrics on the provided registerer.
func NewOutboxMetrics(reg prometheus.Registerer) *OutboxMetrics {
	if reg == nil {
		return &OutboxMetrics{}
	}
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_published_total",
		Help: "Outbox events published, labeled by event type.",
	}, []string{"event_type"})
	retried := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "outbox_retried_total",
		Help: "Outbox publish attempts that failed and were left for retry.",
	})
	deadLettered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_dead_lettered_total",
		Help: "Outbox events moved to the DLQ, labeled by reason.",
	}, []string{"reason"})
	pollDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "outbox_poll_duration_seconds",
		Help:    "Duration of a single outbox poll cycle in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(published, retried, deadLettered, pollDuration)
	return &OutboxMetrics{
		published:    published,
		retried:      retried,
		deadLettered: deadLettered,
		pollDuration: pollDuration,
	}
}

// IncPublished increments the published counter for the event type.
func (o *OutboxMetrics) IncPublished(eventType string) {
	if o == nil || o.published == nil {
		return
	}
	o.published.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncRetried increments the retry counter.
func (o *OutboxMetrics) IncRetried() {
	if o == nil || o.retried == nil {
		return
	}
	o.retried.Inc()
}

// IncDeadLettered increments the DLQ counter for the given reason.
func (o *OutboxMetrics) IncDeadLettered(reason string) {
	if o == nil || o.deadLettered == nil {
		return
	}
	o.deadLettered.WithLabelValues(normalizeLabel(reason)).Inc()
}

// ObservePoll records the duration of one poll cycle.
func (o *OutboxMetrics) ObservePoll(duration time.Duration) {
	if o == nil || o.pollDuration == nil {
		return
	}
	o.pollDuration.Observe(duration.Seconds())
}

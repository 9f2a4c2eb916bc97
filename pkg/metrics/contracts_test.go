package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestContractMetricsCountsByIntentAndOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewContractMetrics(reg)

	m.IncTransition("confirm", "ok")
	m.IncTransition("confirm", "ok")
	m.IncTransition("sign", "already_locked")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	mf := findMetricFamily(mfs, "contract_transitions_total")
	if mf == nil {
		t.Fatal("contract_transitions_total not exported")
	}
	var confirmOK, signLocked float64
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), "intent", "confirm") && matchesLabel(metric.GetLabel(), "outcome", "ok") {
			confirmOK = metric.GetCounter().GetValue()
		}
		if matchesLabel(metric.GetLabel(), "intent", "sign") && matchesLabel(metric.GetLabel(), "outcome", "already_locked") {
			signLocked = metric.GetCounter().GetValue()
		}
	}
	if confirmOK != 2 {
		t.Fatalf("expected confirm/ok=2, got %f", confirmOK)
	}
	if signLocked != 1 {
		t.Fatalf("expected sign/already_locked=1, got %f", signLocked)
	}
}

func TestNilSafeCollectors(t *testing.T) {
	// Zero-value collectors must not panic.
	var cm *ContractMetrics
	cm.IncTransition("confirm", "ok")
	(&ContractMetrics{}).IncTransition("confirm", "ok")

	var om *OutboxMetrics
	om.IncPublished("contract_signed")
	om.IncRetried()
	om.IncDeadLettered("max_attempts")
	om.ObservePoll(time.Millisecond)
	(&OutboxMetrics{}).IncPublished("contract_signed")

	var hm *HTTPMetrics
	hm.ObserveRequest("/api/v1/contracts/{id}", "GET", 200, time.Millisecond)
	(&HTTPMetrics{}).ObserveRequest("/api/v1/contracts/{id}", "GET", 200, time.Millisecond)

	var cj *CronJobMetrics
	cj.ObserveDuration("job", time.Millisecond)
	cj.IncSuccess("job")
	cj.IncFailure("job")
}

func TestOutboxMetricsExports(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOutboxMetrics(reg)

	m.IncPublished("contract_confirmed")
	m.IncRetried()
	m.IncDeadLettered("non_retryable")
	m.ObservePoll(40 * time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "outbox_published_total", "event_type", "contract_confirmed"); err != nil {
		t.Fatalf("fetch published: %v", err)
	} else if got != 1 {
		t.Fatalf("expected published=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "outbox_dead_lettered_total", "reason", "non_retryable"); err != nil {
		t.Fatalf("fetch dlq: %v", err)
	} else if got != 1 {
		t.Fatalf("expected dead_lettered=1, got %f", got)
	}

	retried := findMetricFamily(mfs, "outbox_retried_total")
	if retried == nil || len(retried.GetMetric()) == 0 {
		t.Fatal("outbox_retried_total not exported")
	}
	if got := retried.GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Fatalf("expected retried=1, got %f", got)
	}

	poll := findMetricFamily(mfs, "outbox_poll_duration_seconds")
	if poll == nil || len(poll.GetMetric()) == 0 {
		t.Fatal("outbox_poll_duration_seconds not exported")
	}
	if sum := poll.GetMetric()[0].GetHistogram().GetSampleSum(); sum <= 0 {
		t.Fatalf("expected poll sum > 0, got %f", sum)
	}
}

func TestHTTPMetricsExports(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("/api/v1/contracts/{id}/confirm", "POST", 200, 15*time.Millisecond)
	m.ObserveRequest("/api/v1/contracts/{id}/confirm", "POST", 409, 5*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "http_requests_total", "status", "409"); err != nil {
		t.Fatalf("fetch requests: %v", err)
	} else if got != 1 {
		t.Fatalf("expected one 409, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "http_request_duration_seconds", "route", "/api/v1/contracts/{id}/confirm"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

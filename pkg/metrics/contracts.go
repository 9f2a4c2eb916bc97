package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ContractMetrics counts lifecycle transitions by intent and outcome.
type ContractMetrics struct {
	transitions *prometheus.CounterVec
}

// NewContractMetrics registers the contract metrics on the provided registerer.
func NewContractMetrics(reg prometheus.Registerer) *ContractMetrics {
	if reg == nil {
		return &ContractMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contract_transitions_total",
		Help: "Contract lifecycle intents by outcome.",
	}, []string{"intent", "outcome"})
	reg.MustRegister(transitions)
	return &ContractMetrics{transitions: transitions}
}

// IncTransition increments the counter for an intent and its outcome,
// e.g. ("confirm", "ok") or ("sign", "already_locked").
func (c *ContractMetrics) IncTransition(intent, outcome string) {
	if c == nil || c.transitions == nil {
		return
	}
	c.transitions.WithLabelValues(normalizeLabel(intent), normalizeLabel(outcome)).Inc()
}

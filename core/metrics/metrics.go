// Package metrics exposes Prometheus counters for message handling and
// delivery. A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gymbot"

// Dispatch outcomes.
const (
	OutcomeReplied      = "replied"
	OutcomeSilent       = "silent"
	OutcomeGreeting     = "greeting"
	OutcomeUnknown      = "unknown_command"
	OutcomeGroupIgnored = "group_ignored"
	OutcomeNotCommand   = "not_command"
	OutcomeUnauthorized = "unauthorized"
	OutcomeThrottled    = "throttled"
	OutcomeFailed       = "failed"
)

// Metrics holds the bot's collectors.
type Metrics struct {
	dispatch *prometheus.CounterVec
	delivery *prometheus.CounterVec
	records  *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		dispatch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Inbound messages by dispatch outcome.",
		}, []string{"outcome"}),
		delivery: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delivery_attempts_total",
			Help:      "Outbound delivery attempts by strategy and result.",
		}, []string{"strategy", "result"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_persisted_total",
			Help:      "Records written by feature.",
		}, []string{"feature"}),
	}
	reg.MustRegister(m.dispatch, m.delivery, m.records)
	return m
}

func (m *Metrics) Dispatch(outcome string) {
	if m == nil {
		return
	}
	m.dispatch.WithLabelValues(outcome).Inc()
}

func (m *Metrics) DeliveryAttempt(strategy string, ok bool) {
	if m == nil {
		return
	}
	result := "error"
	if ok {
		result = "ok"
	}
	m.delivery.WithLabelValues(strategy, result).Inc()
}

func (m *Metrics) RecordPersisted(feature string) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(feature).Inc()
}

// DispatchCounter returns the counter for one dispatch outcome. On a nil
// Metrics it returns an unregistered counter.
func (m *Metrics) DispatchCounter(outcome string) prometheus.Counter {
	if m == nil {
		return prometheus.NewCounter(prometheus.CounterOpts{Name: "gymbot_dispatch_unrecorded_total"})
	}
	return m.dispatch.WithLabelValues(outcome)
}

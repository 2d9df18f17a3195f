package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the service collectors. A nil *Metrics is valid and
// records nothing, which keeps usecase tests free of registries.
type Metrics struct {
	transitions   *prometheus.CounterVec
	overdueMarked prometheus.Counter
	schedules     *prometheus.CounterVec
	settled       prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "installment_transitions_total",
			Help: "Applied installment status transitions.",
		}, []string{"from", "to"}),
		overdueMarked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "installment_overdue_marked_total",
			Help: "Installments flipped to atrasado by the overdue sweep.",
		}),
		schedules: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "schedules_generated_total",
			Help: "Schedule generation calls by result (created, skipped).",
		}, []string{"result"}),
		settled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "loans_settled_total",
			Help: "Loans moved to liquidado.",
		}),
	}
	reg.MustRegister(m.transitions, m.overdueMarked, m.schedules, m.settled)
	return m
}

func (m *Metrics) Transition(from, to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) OverdueMarked(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.overdueMarked.Add(float64(n))
}

func (m *Metrics) Schedule(skipped bool) {
	if m == nil {
		return
	}
	result := "created"
	if skipped {
		result = "skipped"
	}
	m.schedules.WithLabelValues(result).Inc()
}

func (m *Metrics) Settled() {
	if m == nil {
		return
	}
	m.settled.Inc()
}

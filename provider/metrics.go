package provider

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/recallnet/recall-go/helper/metrics"
)

// Metrics represents the transaction pipeline metrics
type Metrics struct {
	// Transactions submitted
	submitted prometheus.Counter
	// Transactions confirmed committed
	committed prometheus.Counter
	// Transactions confirmed failed
	failed prometheus.Counter
	// Local await timeouts
	timeouts prometheus.Counter
}

func (m *Metrics) Register() {
	if m == nil {
		return
	}

	for _, c := range []prometheus.Counter{m.submitted, m.committed, m.failed, m.timeouts} {
		if c != nil {
			prometheus.MustRegister(c)
		}
	}
}

func (m *Metrics) SubmittedInc() {
	if m == nil {
		return
	}

	metrics.CounterInc(m.submitted)
}

func (m *Metrics) CommittedInc() {
	if m == nil {
		return
	}

	metrics.CounterInc(m.committed)
}

func (m *Metrics) FailedInc() {
	if m == nil {
		return
	}

	metrics.CounterInc(m.failed)
}

func (m *Metrics) TimeoutInc() {
	if m == nil {
		return
	}

	metrics.CounterInc(m.timeouts)
}

// GetPrometheusMetrics return the provider metrics instance
func GetPrometheusMetrics(namespace string, labelsWithValues ...string) *Metrics {
	constLabels := metrics.ParseLables(labelsWithValues...)

	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "provider",
			Name:        name,
			Help:        help,
			ConstLabels: constLabels,
		})
	}

	return &Metrics{
		submitted: counter("tx_submitted_total", "Number of transactions submitted."),
		committed: counter("tx_committed_total", "Number of transactions confirmed committed."),
		failed:    counter("tx_failed_total", "Number of transactions confirmed failed."),
		timeouts:  counter("tx_await_timeouts_total", "Number of local waits that timed out."),
	}
}

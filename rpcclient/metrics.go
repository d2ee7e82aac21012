package rpcclient

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/recallnet/recall-go/helper/metrics"
)

// Metrics represents the rpc client metrics
type Metrics struct {
	// Requests sent, including retries
	requests prometheus.Counter
	// Requests that exhausted retries or failed outright
	failures prometheus.Counter
	// Retry attempts on the read path
	retries prometheus.Counter
}

func (m *Metrics) Register() {
	if m == nil {
		return
	}

	if m.requests != nil {
		prometheus.MustRegister(m.requests)
	}

	if m.failures != nil {
		prometheus.MustRegister(m.failures)
	}

	if m.retries != nil {
		prometheus.MustRegister(m.retries)
	}
}

func (m *Metrics) RequestInc() {
	if m == nil {
		return
	}

	metrics.CounterInc(m.requests)
}

func (m *Metrics) FailureInc() {
	if m == nil {
		return
	}

	metrics.CounterInc(m.failures)
}

func (m *Metrics) RetryInc() {
	if m == nil {
		return
	}

	metrics.CounterInc(m.retries)
}

// GetPrometheusMetrics return the rpc client metrics instance
func GetPrometheusMetrics(namespace string, labelsWithValues ...string) *Metrics {
	constLabels := metrics.ParseLables(labelsWithValues...)

	return &Metrics{
		requests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "rpcclient",
			Name:        "requests_total",
			Help:        "Number of JSON-RPC requests sent.",
			ConstLabels: constLabels,
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "rpcclient",
			Name:        "failures_total",
			Help:        "Number of JSON-RPC requests that ultimately failed.",
			ConstLabels: constLabels,
		}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "rpcclient",
			Name:        "retries_total",
			Help:        "Number of read requests retried after transient errors.",
			ConstLabels: constLabels,
		}),
	}
}

package bucket

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/recallnet/recall-go/helper/metrics"
)

// Metrics represents the bucket machine metrics
type Metrics struct {
	// Bytes uploaded to the object API
	uploadedBytes prometheus.Counter
	// Bytes downloaded from the object API
	downloadedBytes prometheus.Counter
	// Gets answered before the object resolved
	notYetAvailable prometheus.Counter
}

func (m *Metrics) Register() {
	if m == nil {
		return
	}

	for _, c := range []prometheus.Counter{m.uploadedBytes, m.downloadedBytes, m.notYetAvailable} {
		if c != nil {
			prometheus.MustRegister(c)
		}
	}
}

func (m *Metrics) UploadedAdd(n float64) {
	if m == nil {
		return
	}

	metrics.AddCounter(m.uploadedBytes, n)
}

func (m *Metrics) DownloadedAdd(n float64) {
	if m == nil {
		return
	}

	metrics.AddCounter(m.downloadedBytes, n)
}

func (m *Metrics) NotYetAvailableInc() {
	if m == nil {
		return
	}

	metrics.CounterInc(m.notYetAvailable)
}

// GetPrometheusMetrics return the bucket metrics instance
func GetPrometheusMetrics(namespace string, labelsWithValues ...string) *Metrics {
	constLabels := metrics.ParseLables(labelsWithValues...)

	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "bucket",
			Name:        name,
			Help:        help,
			ConstLabels: constLabels,
		})
	}

	return &Metrics{
		uploadedBytes:   counter("uploaded_bytes_total", "Number of object bytes uploaded."),
		downloadedBytes: counter("downloaded_bytes_total", "Number of object bytes downloaded."),
		notYetAvailable: counter("not_yet_available_total", "Number of reads served before resolution."),
	}
}

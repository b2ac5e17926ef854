// Package metrics records the outcome of a merge run in Prometheus textfile
// collector format.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"hostsblock/pkg/blocklist"
)

const namespace = "hostsblock"

// Recorder holds the collectors for one run.
type Recorder struct {
	registry       *prometheus.Registry
	sourceHosts    *prometheus.GaugeVec
	sourceFailures *prometheus.CounterVec
	hostsTotal     prometheus.Gauge
	excluded       prometheus.Gauge
	lastSuccess    prometheus.Gauge
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		sourceHosts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "source_hosts",
			Help:      "Hosts extracted from each source in the last run.",
		}, []string{"source"}),
		sourceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_failures_total",
			Help:      "Sources that could not be fetched or parsed.",
		}, []string{"source", "reason"}),
		hostsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "hosts_total",
			Help:      "Unique hosts written to the hosts file.",
		}),
		excluded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "excluded_total",
			Help:      "Hosts removed because they are excluded.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
	}
	r.registry.MustRegister(r.sourceHosts, r.sourceFailures, r.hostsTotal, r.excluded, r.lastSuccess)
	return r
}

// Observe records per-source results. It is safe to call for failed runs.
func (r *Recorder) Observe(report blocklist.Report) {
	for _, source := range report.Sources {
		if source.Err != nil {
			r.sourceFailures.WithLabelValues(source.ID, failureReason(source.Err)).Inc()
			continue
		}
		r.sourceHosts.WithLabelValues(source.ID).Set(float64(source.Stats.Hosts))
	}
	r.hostsTotal.Set(float64(report.Unique))
	r.excluded.Set(float64(report.Excluded))
}

func failureReason(err error) string {
	var fetchErr *blocklist.FetchError
	if errors.As(err, &fetchErr) {
		return "fetch"
	}
	return "parse"
}

// MarkSuccess sets the last success timestamp.
func (r *Recorder) MarkSuccess(t time.Time) {
	r.lastSuccess.Set(float64(t.Unix()))
}

// Gatherer exposes the collected metrics.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes the metrics to path. An empty path is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.Gatherer()); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

package driver

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/san-kum/chemscene/internal/reaction"
)

// Metrics exposes resolution counters for a driver. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	Resolutions *prometheus.CounterVec
	Failures    prometheus.Counter
	Progress    prometheus.Gauge
	Duration    prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg when it is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chemscene",
			Subsystem: "driver",
			Name:      "resolutions_total",
			Help:      "Scene resolutions delivered, by view level.",
		}, []string{"view"}),
		Failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chemscene",
			Subsystem: "driver",
			Name:      "resolution_failures_total",
			Help:      "Resolutions that failed to fetch the reaction record.",
		}),
		Progress: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "chemscene",
			Subsystem: "driver",
			Name:      "progress",
			Help:      "Current reaction progress in [0, 1].",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "chemscene",
			Subsystem: "driver",
			Name:      "resolution_seconds",
			Help:      "Time spent fetching and resolving one frame.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Resolutions, m.Failures, m.Progress, m.Duration)
	}
	return m
}

func (m *Metrics) resolved(v reaction.ViewLevel, progress float64, took time.Duration) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(v.String()).Inc()
	m.Progress.Set(progress)
	m.Duration.Observe(took.Seconds())
}

func (m *Metrics) failed() {
	if m == nil {
		return
	}
	m.Failures.Inc()
}

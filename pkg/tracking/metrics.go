package tracking

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Lookup outcomes recorded by Metrics.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
	OutcomeCanceled = "canceled"
)

// Metrics collects lookup counters. A nil *Metrics records nothing.
type Metrics struct {
	lookups  *prometheus.CounterVec
	duration prometheus.Histogram
	retries  prometheus.Counter
}

// NewMetrics builds the lookup collectors and registers them on reg when reg
// is not nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tracksite",
			Subsystem: "tracking",
			Name:      "lookups_total",
			Help:      "Tracking lookups by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tracksite",
			Subsystem: "tracking",
			Name:      "lookup_duration_seconds",
			Help:      "Duration of tracking lookups including retries.",
			Buckets:   prometheus.DefBuckets,
		}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tracksite",
			Subsystem: "tracking",
			Name:      "retries_total",
			Help:      "Tracking lookup attempts retried after a failure.",
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.lookups, m.duration, m.retries} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
}

func (m *Metrics) retried() {
	if m == nil {
		return
	}
	m.retries.Inc()
}

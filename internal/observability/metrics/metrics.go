package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
)

// Metrics are the engine counters exported on the process registry.
type Metrics struct {
	Registry *prometheus.Registry

	AssessmentRuns     *prometheus.CounterVec
	AssessmentFailures *prometheus.CounterVec
	AssessmentDuration prometheus.Histogram
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		Registry: registry,
		AssessmentRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fiscal",
			Name:      "assessment_runs_total",
			Help:      "Assessment runs, by outcome.",
		}, []string{"outcome"}),
		AssessmentFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fiscal",
			Name:      "assessment_failures_total",
			Help:      "Assessment failures, by stage.",
		}, []string{"stage"}),
		AssessmentDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fiscal",
			Name:      "assessment_duration_seconds",
			Help:      "Wall time of one (partner, period) assessment.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	registry.MustRegister(m.AssessmentRuns, m.AssessmentFailures, m.AssessmentDuration)
	return m
}

var Module = fx.Module("metrics",
	fx.Provide(New),
)

package decision

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Odla19/DecissionsMaker/internal/ahp"
)

// Metrics tracks evaluation volume and judgment quality.
type Metrics struct {
	evaluations  *prometheus.CounterVec
	inconsistent *prometheus.CounterVec
	crRatio      prometheus.Histogram
	duration     prometheus.Histogram
}

// NewMetrics registers the evaluator's collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		evaluations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "decisions",
			Name:      "evaluations_total",
			Help:      "Decision problems evaluated, by comparison mode.",
		}, []string{"mode"}),
		inconsistent: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "decisions",
			Name:      "inconsistent_matrices_total",
			Help:      "Comparison matrices whose consistency ratio crossed the threshold.",
		}, []string{"level"}),
		crRatio: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "decisions",
			Name:      "consistency_ratio",
			Help:      "Consistency ratio of evaluated comparison matrices with three or more entities.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.075, 0.1, 0.15, 0.25, 0.5, 1},
		}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "decisions",
			Name:      "evaluation_duration_seconds",
			Help:      "Wall time of a full decision evaluation.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}),
	}
}

func (m *Metrics) observe(r *Result, seconds float64) {
	if m == nil {
		return
	}
	m.evaluations.WithLabelValues(string(r.Mode)).Inc()
	m.duration.Observe(seconds)
	m.observeConsistency("criteria", len(r.Criteria), r.CriteriaConsistency)
	if r.Mode != ModePrecision {
		return
	}
	for _, c := range r.Criteria {
		m.observeConsistency("alternatives", len(r.Alternatives), c.Consistency)
	}
}

func (m *Metrics) observeConsistency(level string, n int, c ahp.Consistency) {
	if n < 3 {
		return
	}
	m.crRatio.Observe(c.CR)
	if !c.IsConsistent {
		m.inconsistent.WithLabelValues(level).Inc()
	}
}

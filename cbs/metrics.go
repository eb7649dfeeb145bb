package cbs

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the planner's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	expansions prometheus.Counter
	branches   prometheus.Counter
	bypasses   *prometheus.CounterVec
	pruned     prometheus.Counter
	outcomes   *prometheus.CounterVec
	replanTime prometheus.Histogram
	treeSize   prometheus.Gauge
}

// NewMetrics creates the planner collectors and registers them with reg.
// A nil reg leaves them unregistered, which suits tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		expansions: f.NewCounter(prometheus.CounterOpts{
			Namespace: "cbsplan",
			Name:      "expansions_total",
			Help:      "Constraint-tree nodes popped from the frontier",
		}),
		branches: f.NewCounter(prometheus.CounterOpts{
			Namespace: "cbsplan",
			Name:      "branches_total",
			Help:      "Branching steps performed",
		}),
		bypasses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cbsplan",
			Name:      "bypass_attempts_total",
			Help:      "Bypass attempts by result",
		}, []string{"result"}),
		pruned: f.NewCounter(prometheus.CounterOpts{
			Namespace: "cbsplan",
			Name:      "pruned_children_total",
			Help:      "Children dropped because the oracle found no trajectory",
		}),
		outcomes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cbsplan",
			Name:      "solve_outcomes_total",
			Help:      "Terminal outcomes of Solve",
		}, []string{"result"}),
		replanTime: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cbsplan",
			Name:      "replan_duration_seconds",
			Help:      "Single-agent oracle call duration",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		treeSize: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "cbsplan",
			Name:      "tree_nodes",
			Help:      "Nodes in the constraint tree of the most recent planner",
		}),
	}
}

func (m *Metrics) expanded() {
	if m != nil {
		m.expansions.Inc()
	}
}

func (m *Metrics) branched() {
	if m != nil {
		m.branches.Inc()
	}
}

func (m *Metrics) bypass(accepted bool) {
	if m == nil {
		return
	}
	result := "rejected"
	if accepted {
		result = "accepted"
	}
	m.bypasses.WithLabelValues(result).Inc()
}

func (m *Metrics) prunedChild() {
	if m != nil {
		m.pruned.Inc()
	}
}

func (m *Metrics) outcome(result string) {
	if m != nil {
		m.outcomes.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) replanned(d time.Duration) {
	if m != nil {
		m.replanTime.Observe(d.Seconds())
	}
}

func (m *Metrics) nodes(n int) {
	if m != nil {
		m.treeSize.Set(float64(n))
	}
}

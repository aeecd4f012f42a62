// Package metrics holds the Prometheus instruments for scheduling runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all instruments. A nil *Metrics is valid and records nothing,
// so components can take one as an optional dependency.
type Metrics struct {
	// Run metrics
	Runs        *prometheus.CounterVec
	RunDuration *prometheus.HistogramVec
	RunErrors   *prometheus.CounterVec

	// Plan metrics
	Assignments prometheus.Counter
	Risks       *prometheus.CounterVec

	// Combinatorial solver metrics
	Fallbacks       *prometheus.CounterVec
	SolveDuration   *prometheus.HistogramVec
	SolveConfidence prometheus.Histogram
}

// NewMetrics creates the instruments and registers them with registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		Runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "staffplan_runs_total",
				Help: "Total number of scheduling runs",
			},
			[]string{"requested", "used", "success"},
		),
		RunDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "staffplan_run_duration_seconds",
				Help:    "Scheduling run duration in seconds",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"used"},
		),
		RunErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "staffplan_run_errors_total",
				Help: "Total number of failed scheduling runs by error kind",
			},
			[]string{"kind"},
		),
		Assignments: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "staffplan_assignments_total",
				Help: "Total number of committed assignments",
			},
		),
		Risks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "staffplan_risks_total",
				Help: "Total number of risk findings",
			},
			[]string{"category", "severity"},
		),
		Fallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "staffplan_solver_fallbacks_total",
				Help: "Total number of combinatorial solves replaced by the greedy solver",
			},
			[]string{"cause"},
		),
		SolveDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "staffplan_backend_solve_duration_seconds",
				Help:    "Combinatorial backend solve duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"backend"},
		),
		SolveConfidence: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "staffplan_backend_solution_confidence",
				Help:    "Confidence of combinatorial backend solutions",
				Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
			},
		),
	}
}

// NewRegistry creates a fresh registry with the staffplan instruments.
func NewRegistry() (*prometheus.Registry, *Metrics) {
	reg := prometheus.NewRegistry()
	return reg, NewMetrics(reg)
}

// HandlerFor returns the /metrics handler for a registry.
func HandlerFor(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// ObserveRun records a finished run.
func (m *Metrics) ObserveRun(requested, used string, success bool, d time.Duration) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(requested, used, boolLabel(success)).Inc()
	if success {
		m.RunDuration.WithLabelValues(used).Observe(d.Seconds())
	}
}

// ObserveError counts a failed run by error kind.
func (m *Metrics) ObserveError(kind string) {
	if m == nil {
		return
	}
	m.RunErrors.WithLabelValues(kind).Inc()
}

// ObservePlan counts the assignments of a successful plan.
func (m *Metrics) ObservePlan(assignments int) {
	if m == nil {
		return
	}
	m.Assignments.Add(float64(assignments))
}

// ObserveRisk counts a risk finding.
func (m *Metrics) ObserveRisk(category, severity string) {
	if m == nil {
		return
	}
	m.Risks.WithLabelValues(category, severity).Inc()
}

// ObserveFallback counts a combinatorial-to-greedy fallback.
func (m *Metrics) ObserveFallback(cause string) {
	if m == nil {
		return
	}
	m.Fallbacks.WithLabelValues(cause).Inc()
}

// ObserveSolve records a backend solve attempt that returned a solution.
func (m *Metrics) ObserveSolve(backend string, d time.Duration, confidence float64) {
	if m == nil {
		return
	}
	m.SolveDuration.WithLabelValues(backend).Observe(d.Seconds())
	m.SolveConfidence.Observe(confidence)
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

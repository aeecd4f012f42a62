package orchestration

import (
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/VladislavFirsov/staffplan/contracts"
	"github.com/VladislavFirsov/staffplan/internal/log"
	"github.com/VladislavFirsov/staffplan/internal/metrics"
	"github.com/VladislavFirsov/staffplan/internal/risk"
	"github.com/VladislavFirsov/staffplan/internal/solver"
)

// Combinatorial backend names accepted by CombinatorialOptions.Backend.
const (
	BackendAuto       = "auto"
	BackendExhaustive = "exhaustive"
	BackendAnnealing  = "annealing"
)

// CombinatorialOptions configures the optional combinatorial strategy.
type CombinatorialOptions struct {
	// Enabled false registers the strategy with an unavailable backend, so
	// requests for it are served by greedy.
	Enabled bool
	// Backend is one of auto, exhaustive, annealing. Empty means auto.
	Backend         string
	Timeout         time.Duration
	Weights         solver.Weights
	MinConfidence   float64
	Iterations      int
	Seed            uint64
	ExhaustiveLimit float64
}

// EngineOptions provides optional customization for engine assembly.
// The zero value yields a greedy-default engine with the standard risk thresholds.
type EngineOptions struct {
	DefaultStrategy contracts.StrategyName
	Combinatorial   CombinatorialOptions
	// Thresholds overrides the risk thresholds. If nil, uses risk.DefaultThresholds.
	Thresholds *risk.Thresholds

	Logger         *log.Logger
	Metrics        *metrics.Metrics
	TracerProvider trace.TracerProvider
}

// NewEngineWithDefaults creates an engine with all default components:
//   - DependencyResolver (orchestration)
//   - greedy and combinatorial solvers (solver)
//   - RiskEvaluator (risk)
func NewEngineWithDefaults(opts EngineOptions) contracts.Engine {
	thresholds := risk.DefaultThresholds()
	if opts.Thresholds != nil {
		thresholds = *opts.Thresholds
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Nop()
	}

	greedy := solver.NewGreedySolver()
	combinatorial := solver.NewCombinatorialSolver(NewBackend(opts.Combinatorial), solver.CombinatorialOptions{
		Weights:       opts.Combinatorial.Weights,
		Timeout:       opts.Combinatorial.Timeout,
		MinConfidence: opts.Combinatorial.MinConfidence,
		Fallback:      greedy,
		Logger:        logger.With("component", "solver"),
		Metrics:       opts.Metrics,
	})

	return NewEngine(EngineDeps{
		Resolver: NewDependencyResolver(),
		Solvers: map[contracts.StrategyName]contracts.Solver{
			contracts.StrategyGreedy:        greedy,
			contracts.StrategyCombinatorial: combinatorial,
		},
		DefaultStrategy: opts.DefaultStrategy,
		Evaluator:       risk.NewEvaluator(thresholds),
		Logger:          logger,
		Metrics:         opts.Metrics,
		TracerProvider:  opts.TracerProvider,
	})
}

// NewBackend builds the combinatorial backend selected by opts.
// Unknown names and a disabled capability yield an unavailable backend.
func NewBackend(opts CombinatorialOptions) solver.Backend {
	if !opts.Enabled {
		return solver.UnavailableBackend{Reason: "combinatorial solving disabled"}
	}

	switch opts.Backend {
	case BackendExhaustive:
		return solver.NewExhaustiveBackend(opts.ExhaustiveLimit)
	case BackendAnnealing:
		return solver.NewAnnealingBackend(opts.Iterations, opts.Seed)
	case BackendAuto, "":
		return solver.NewAutoBackend(
			solver.NewExhaustiveBackend(opts.ExhaustiveLimit),
			solver.NewAnnealingBackend(opts.Iterations, opts.Seed),
		)
	default:
		return solver.UnavailableBackend{Reason: "unknown backend " + opts.Backend}
	}
}

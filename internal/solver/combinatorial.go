package solver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/VladislavFirsov/staffplan/contracts"
	"github.com/VladislavFirsov/staffplan/internal/cost"
	"github.com/VladislavFirsov/staffplan/internal/log"
	"github.com/VladislavFirsov/staffplan/internal/metrics"
)

// DefaultMinConfidence is the confidence below which a backend solution is discarded.
const DefaultMinConfidence = 0.5

// Fallback causes, used as metric labels.
const (
	CauseUnavailable     = "unavailable"
	CauseTimeout         = "timeout"
	CauseBackendError    = "backend_error"
	CauseInvalidSolution = "invalid_solution"
	CauseCapacity        = "capacity"
	CauseLowConfidence   = "low_confidence"
)

// CombinatorialOptions configures NewCombinatorialSolver. Zero values select defaults.
type CombinatorialOptions struct {
	Weights       Weights
	Timeout       time.Duration
	MinConfidence float64
	// Fallback defaults to the greedy solver.
	Fallback contracts.Solver
	Logger   *log.Logger
	Metrics  *metrics.Metrics
}

// combinatorialSolver implements contracts.Solver on top of a Backend.
// CRITICAL: any backend failure is replaced by the fallback solver's result
// on an untouched ledger. The ledger is consumed only after a solution passed
// every check.
type combinatorialSolver struct {
	backend Backend
	opts    CombinatorialOptions
	limits  Limits
}

// NewCombinatorialSolver creates the optimizing strategy. backend may be nil,
// in which case every solve falls back.
func NewCombinatorialSolver(backend Backend, opts CombinatorialOptions) contracts.Solver {
	if opts.Weights == (Weights{}) {
		opts.Weights = DefaultWeights()
	}
	if opts.MinConfidence <= 0 {
		opts.MinConfidence = DefaultMinConfidence
	}
	if opts.Fallback == nil {
		opts.Fallback = NewGreedySolver()
	}
	if opts.Logger == nil {
		opts.Logger = log.Nop()
	}
	return &combinatorialSolver{backend: backend, opts: opts}
}

func (s *combinatorialSolver) Name() contracts.StrategyName {
	return contracts.StrategyCombinatorial
}

// WithLimits returns a copy of the solver normalized by the given budget and deadline.
func (s *combinatorialSolver) WithLimits(budget contracts.Money, deadline contracts.Days) contracts.Solver {
	bound := *s
	bound.limits = Limits{Budget: budget, Deadline: deadline}
	return &bound
}

// Solve formulates the problem, runs the backend under the configured timeout
// and commits the result, or falls back.
func (s *combinatorialSolver) Solve(ctx context.Context, ordered contracts.ExecutionOrder, workers []contracts.Worker, ledger contracts.CapacityLedger) (*contracts.Plan, error) {
	if ledger == nil {
		return nil, contracts.ErrInvalidInput
	}
	if s.backend == nil {
		return s.fallback(ctx, CauseUnavailable, contracts.ErrSolverUnavailable, ordered, workers, ledger)
	}

	problem := Formulate(ordered, workers, ledger, s.limits, s.opts.Weights)

	solveCtx := ctx
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		solveCtx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	sol, err := s.callBackend(solveCtx, problem)
	if err != nil {
		return s.fallback(ctx, causeOf(err), err, ordered, workers, ledger)
	}

	if err := problem.Check(sol); err != nil {
		cause := CauseInvalidSolution
		if isCapacityViolation(err) {
			cause = CauseCapacity
		}
		return s.fallback(ctx, cause, err, ordered, workers, ledger)
	}
	s.opts.Metrics.ObserveSolve(s.backend.Name(), time.Since(start), sol.Confidence)

	if sol.Confidence < s.opts.MinConfidence {
		err := fmt.Errorf("confidence %.3f below %.3f: %w", sol.Confidence, s.opts.MinConfidence, contracts.ErrLowConfidence)
		return s.fallback(ctx, CauseLowConfidence, err, ordered, workers, ledger)
	}

	return s.commit(ordered, workers, ledger, sol)
}

type backendResult struct {
	sol *Solution
	err error
}

// callBackend bounds the backend call by ctx even when the backend ignores it.
// An abandoned call runs to completion in its goroutine; problem is never
// mutated after Formulate, so it is safe to share.
func (s *combinatorialSolver) callBackend(ctx context.Context, problem *Problem) (*Solution, error) {
	done := make(chan backendResult, 1)
	go func() {
		sol, err := s.backend.Solve(ctx, problem)
		done <- backendResult{sol: sol, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err == nil && ctx.Err() != nil {
			// A late result is treated like no result.
			return nil, ctx.Err()
		}
		return r.sol, r.err
	}
}

// commit consumes capacity in execution order and scores each pair.
func (s *combinatorialSolver) commit(ordered contracts.ExecutionOrder, workers []contracts.Worker, ledger contracts.CapacityLedger, sol *Solution) (*contracts.Plan, error) {
	plan := &contracts.Plan{
		Assignments: make([]contracts.Assignment, 0, len(ordered)),
		Strategy:    contracts.StrategyCombinatorial,
	}
	for j, task := range ordered {
		w := workers[sol.Assignment[j]]
		// Invariant: Check already simulated these exact subtractions.
		if !ledger.TryConsume(w.ID, task.Hours) {
			return nil, fmt.Errorf("commit task %s on worker %s: %w", task.ID, w.ID, contracts.ErrInvalidSolution)
		}
		plan.Assignments = append(plan.Assignments, assignmentFor(w, task, cost.ScorePair(w, task)))
	}
	return plan, nil
}

// fallback delegates to the fallback solver and returns its outcome unchanged
// apart from the strategy bookkeeping.
func (s *combinatorialSolver) fallback(ctx context.Context, cause string, reason error, ordered contracts.ExecutionOrder, workers []contracts.Worker, ledger contracts.CapacityLedger) (*contracts.Plan, error) {
	backend := "none"
	if s.backend != nil {
		backend = s.backend.Name()
	}
	s.opts.Logger.WarnContext(ctx, "combinatorial solve replaced by fallback",
		"cause", cause,
		"backend", backend,
		"fallback", s.opts.Fallback.Name(),
		"reason", reason.Error(),
	)
	s.opts.Metrics.ObserveFallback(cause)

	plan, err := s.opts.Fallback.Solve(ctx, ordered, workers, ledger)
	if err != nil {
		return nil, err
	}
	plan.Strategy = s.opts.Fallback.Name()
	plan.FallbackReason = fmt.Sprintf("%s: %v", cause, reason)
	return plan, nil
}

func causeOf(err error) string {
	switch {
	case errors.Is(err, contracts.ErrSolverUnavailable):
		return CauseUnavailable
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return CauseTimeout
	case errors.Is(err, contracts.ErrInvalidSolution):
		return CauseInvalidSolution
	default:
		return CauseBackendError
	}
}

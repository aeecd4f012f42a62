package contracts

import "context"

// =============================================================================
// Scheduling Interfaces
// =============================================================================

// DependencyResolver builds the precedence graph and linearizes it.
type DependencyResolver interface {
	// BuildGraph constructs the dependency graph for a list of tasks.
	BuildGraph(tasks []Task) (*DependencyGraph, error)

	// Resolve returns tasks in execution order or a *CycleError.
	Resolve(tasks []Task) (ExecutionOrder, error)
}

// CapacityLedger tracks remaining hours per worker for one run.
type CapacityLedger interface {
	// Remaining returns the remaining hours for a worker (0 for unknown workers).
	Remaining(id WorkerID) Hours

	// Covers reports whether the worker could absorb hours without consuming them.
	Covers(id WorkerID, hours Hours) bool

	// TryConsume decrements the worker's remaining hours and returns true, or
	// returns false and leaves the ledger unchanged.
	TryConsume(id WorkerID, hours Hours) bool
}

// Solver is a pluggable assignment strategy.
type Solver interface {
	// Name returns the strategy implemented by the solver.
	Name() StrategyName

	// Solve assigns exactly one worker to every task in order, consuming capacity
	// from the ledger. Returns a *InfeasibleError when a task cannot be placed.
	Solve(ctx context.Context, ordered ExecutionOrder, workers []Worker, ledger CapacityLedger) (*Plan, error)
}

// LimitedSolver is a Solver whose objective is normalized by the run's budget
// and deadline. The engine binds the limits before every solve.
type LimitedSolver interface {
	Solver
	WithLimits(budget Money, deadline Days) Solver
}

// RiskEvaluator inspects a finished plan.
type RiskEvaluator interface {
	// Evaluate returns findings in fixed order: budget, timeline, skill, overallocation.
	Evaluate(plan *Plan, totals Totals, budget Money, deadline Days) []Risk
}

// =============================================================================
// Engine
// =============================================================================

// Engine runs a complete scheduling pipeline for one request.
type Engine interface {
	// RunSchedule validates the request, resolves dependencies, runs the selected
	// solver strategy, computes totals and evaluates risks.
	//
	// Returns error on:
	// - ErrValidation (*ValidationError): malformed request fields
	// - ErrCycle (*CycleError): dependency cycle
	// - ErrInfeasible (*InfeasibleError): a task no worker can absorb
	// - ErrInvalidInput: unknown strategy
	//
	// ctx bounds only the combinatorial backend; when it expires the greedy
	// fallback still runs to completion.
	//
	// No partial plan is returned with an error.
	RunSchedule(ctx context.Context, req ScheduleRequest) (*ScheduleResult, error)
}

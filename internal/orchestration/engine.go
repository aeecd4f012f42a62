package orchestration

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/VladislavFirsov/staffplan/contracts"
	"github.com/VladislavFirsov/staffplan/internal/cost"
	"github.com/VladislavFirsov/staffplan/internal/log"
	"github.com/VladislavFirsov/staffplan/internal/metrics"
	"github.com/VladislavFirsov/staffplan/internal/solver"
	"github.com/VladislavFirsov/staffplan/internal/telemetry"
)

// engine implements contracts.Engine as a strict sequential pipeline:
// validate, resolve, solve, summarize, evaluate.
//
// Thread-safety: the engine holds no per-run state. Every RunSchedule call
// owns a fresh ledger and plan, so concurrent calls never share mutable data.
type engine struct {
	resolver        contracts.DependencyResolver
	solvers         map[contracts.StrategyName]contracts.Solver
	defaultStrategy contracts.StrategyName
	evaluator       contracts.RiskEvaluator

	logger   *log.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	newRunID func() contracts.RunID
}

// EngineDeps contains all dependencies needed by the engine.
type EngineDeps struct {
	Resolver contracts.DependencyResolver
	// Solvers must contain a greedy solver. A missing combinatorial solver makes
	// combinatorial requests fall back to greedy.
	Solvers         map[contracts.StrategyName]contracts.Solver
	DefaultStrategy contracts.StrategyName
	Evaluator       contracts.RiskEvaluator

	// Optional.
	Logger         *log.Logger
	Metrics        *metrics.Metrics
	TracerProvider trace.TracerProvider
	NewRunID       func() contracts.RunID
}

// NewEngine creates a new Engine with the given dependencies.
func NewEngine(deps EngineDeps) contracts.Engine {
	e := &engine{
		resolver:        deps.Resolver,
		solvers:         deps.Solvers,
		defaultStrategy: deps.DefaultStrategy,
		evaluator:       deps.Evaluator,
		logger:          deps.Logger,
		metrics:         deps.Metrics,
		tracer:          telemetry.Tracer(deps.TracerProvider),
		newRunID:        deps.NewRunID,
	}
	if e.defaultStrategy == "" {
		e.defaultStrategy = contracts.StrategyGreedy
	}
	if e.logger == nil {
		e.logger = log.Nop()
	}
	if e.newRunID == nil {
		e.newRunID = func() contracts.RunID { return contracts.RunID(uuid.NewString()) }
	}
	return e
}

// RunSchedule runs the full pipeline for one request.
func (e *engine) RunSchedule(ctx context.Context, req contracts.ScheduleRequest) (*contracts.ScheduleResult, error) {
	start := time.Now()
	runID := e.newRunID()

	requested := req.Strategy
	if requested == "" {
		requested = e.defaultStrategy
	}

	ctx, span := telemetry.StartRunSpan(ctx, e.tracer, string(runID), requested.String())
	defer span.End()

	logger := e.logger.With("run_id", string(runID), "strategy_requested", requested.String())
	logger.InfoContext(ctx, "schedule run started",
		"workers", len(req.Workers),
		"tasks", len(req.Tasks),
		"budget", float64(req.Budget),
		"deadline_days", float64(req.DeadlineDays),
	)

	result, err := e.run(ctx, runID, requested, req, logger)
	if err != nil {
		telemetry.RecordError(span, err)
		logger.WithError(err).ErrorContext(ctx, "schedule run failed")
		e.metrics.ObserveError(log.ErrorKind(err))
		e.metrics.ObserveRun(requested.String(), "", false, time.Since(start))
		return nil, err
	}

	used := result.Plan.Strategy
	telemetry.RecordSuccess(span,
		attribute.String("strategy.used", used.String()),
		attribute.Int("assignments", len(result.Plan.Assignments)),
		attribute.Int("risks", len(result.Summary.Risks)),
	)
	e.metrics.ObserveRun(requested.String(), used.String(), true, time.Since(start))
	e.metrics.ObservePlan(len(result.Plan.Assignments))
	for _, r := range result.Summary.Risks {
		e.metrics.ObserveRisk(string(r.Category), r.Severity.String())
	}

	logger.InfoContext(ctx, "schedule run finished",
		"strategy_used", used.String(),
		"fallback_reason", result.Plan.FallbackReason,
		"assignments", len(result.Plan.Assignments),
		"total_cost", float64(result.Summary.TotalCost),
		"completion_days", float64(result.Summary.CompletionDays),
		"risks", len(result.Summary.Risks),
		"duration", time.Since(start),
	)
	return result, nil
}

func (e *engine) run(ctx context.Context, runID contracts.RunID, requested contracts.StrategyName, req contracts.ScheduleRequest, logger *log.Logger) (*contracts.ScheduleResult, error) {
	// 1. Validate
	if !requested.Valid() {
		return nil, fmt.Errorf("unknown strategy %q: %w", requested, contracts.ErrInvalidInput)
	}
	if err := contracts.ValidateRequest(req); err != nil {
		return nil, err
	}

	// 2. Resolve
	order, err := e.resolve(ctx, req.Tasks, logger)
	if err != nil {
		return nil, err
	}

	// 3. Solve on a run-owned ledger
	ledger := cost.NewLedger(req.Workers, req.DeadlineDays)
	plan, err := e.solve(ctx, requested, req, order, ledger)
	if err != nil {
		return nil, err
	}
	plan.RunID = runID
	plan.RequestedStrategy = requested

	// 4. Summarize and evaluate
	_, span := telemetry.StartStageSpan(ctx, e.tracer, "evaluate")
	totals := cost.Summarize(plan, req.Workers, req.Budget, req.DeadlineDays)
	risks := e.evaluator.Evaluate(plan, totals, req.Budget, req.DeadlineDays)
	telemetry.RecordSuccess(span, attribute.Int("risks", len(risks)))
	span.End()

	return &contracts.ScheduleResult{
		Plan:    plan,
		Summary: contracts.PlanSummary{Totals: totals, Risks: risks},
	}, nil
}

func (e *engine) resolve(ctx context.Context, tasks []contracts.Task, logger *log.Logger) (contracts.ExecutionOrder, error) {
	ctx, span := telemetry.StartStageSpan(ctx, e.tracer, "resolve")
	defer span.End()

	if logger.Enabled(ctx, log.LevelDebug) {
		if graph, err := e.resolver.BuildGraph(tasks); err == nil {
			for _, id := range graph.Order {
				if missing := graph.Nodes[id].Missing; len(missing) > 0 {
					logger.DebugContext(ctx, "ignoring unresolved dependencies", "task", string(id), "missing", missing)
				}
			}
		}
	}

	order, err := e.resolver.Resolve(tasks)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("resolve dependencies: %w", err)
	}
	telemetry.RecordSuccess(span, attribute.Int("tasks", len(order)))
	return order, nil
}

func (e *engine) solve(ctx context.Context, requested contracts.StrategyName, req contracts.ScheduleRequest, order contracts.ExecutionOrder, ledger contracts.CapacityLedger) (*contracts.Plan, error) {
	ctx, span := telemetry.StartStageSpan(ctx, e.tracer, "solve")
	defer span.End()

	s, fallbackReason := e.solverFor(requested)
	if s == nil {
		err := fmt.Errorf("no %s solver configured: %w", contracts.StrategyGreedy, contracts.ErrInvalidInput)
		telemetry.RecordError(span, err)
		return nil, err
	}
	if limited, ok := s.(contracts.LimitedSolver); ok {
		s = limited.WithLimits(req.Budget, req.DeadlineDays)
	}

	plan, err := s.Solve(ctx, order, req.Workers, ledger)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if fallbackReason != "" {
		plan.FallbackReason = fallbackReason
		e.metrics.ObserveFallback(solver.CauseUnavailable)
	}
	telemetry.RecordSuccess(span, attribute.String("strategy.used", plan.Strategy.String()))
	return plan, nil
}

// solverFor returns the solver for a strategy. A strategy without a registered
// solver is served by greedy, together with the reason.
func (e *engine) solverFor(strategy contracts.StrategyName) (contracts.Solver, string) {
	if s, ok := e.solvers[strategy]; ok && s != nil {
		return s, ""
	}
	greedy := e.solvers[contracts.StrategyGreedy]
	if greedy == nil {
		return nil, ""
	}
	return greedy, fmt.Sprintf("%s: no %s solver configured", solver.CauseUnavailable, strategy)
}

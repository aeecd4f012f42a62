package contracts

// Worker is an assignable resource. It is read-only for the duration of a run;
// remaining capacity lives in the run's ledger, never on the record.
type Worker struct {
	ID          WorkerID
	Rate        Money // per hour
	HoursPerDay Hours
	Skills      []string
}

// Task is a unit of required work.
type Task struct {
	ID             TaskID
	Hours          Hours
	Priority       int
	Deps           []TaskID
	RequiredSkills []string
}

// DependencyGraph is the precedence graph derived from task declarations.
// Built fresh per run.
type DependencyGraph struct {
	Nodes map[TaskID]*GraphNode
	// Order lists node IDs in input order.
	Order []TaskID
}

// GraphNode represents a task in the dependency graph.
type GraphNode struct {
	ID    TaskID
	Index int // position in the input
	// Deps holds dependencies present in the input, deduplicated, in declaration order.
	Deps []TaskID
	// Next holds dependents (forward edges), in input order.
	Next []TaskID
	// Missing holds declared dependencies that reference no task in the input.
	Missing []TaskID
	// Layer is 0 for tasks without present dependencies, otherwise 1 + max layer of Deps.
	// Only meaningful after a successful resolve.
	Layer int
}

// ExecutionOrder is a topological linearization of the dependency graph.
type ExecutionOrder []Task

// Assignment commits one worker to one task.
type Assignment struct {
	WorkerID   WorkerID
	TaskID     TaskID
	Hours      Hours
	Cost       Money
	SkillMatch int // percent, 0..100
	Amplitude  float64
}

// Plan is the ordered set of assignments produced by a solver run.
type Plan struct {
	RunID       RunID
	Assignments []Assignment
	// RequestedStrategy is what the caller asked for.
	RequestedStrategy StrategyName
	// Strategy is the strategy that actually produced the assignments.
	Strategy StrategyName
	// FallbackReason explains why the requested strategy was replaced. Empty when
	// Strategy == RequestedStrategy.
	FallbackReason string
}

// FellBack reports whether the plan was produced by a fallback strategy.
func (p *Plan) FellBack() bool {
	return p.FallbackReason != ""
}

// Risk is a non-authoritative annotation over a plan.
type Risk struct {
	Category RiskCategory
	Message  string
	Severity Severity
}

// Totals holds the aggregate figures derived from a plan.
type Totals struct {
	TotalCost          Money
	BudgetRemaining    Money
	BudgetUsagePercent float64
	CompletionDays     Days
	TimeBuffer         Days
	WorkerLoad         map[WorkerID]Hours
	TasksPerWorker     map[WorkerID]int
}

// PlanSummary is the derived, recomputable view of a plan.
type PlanSummary struct {
	Totals
	Risks []Risk
}

// ScheduleRequest is the single input of the engine.
type ScheduleRequest struct {
	Budget       Money
	DeadlineDays Days
	Workers      []Worker
	Tasks        []Task
	// Strategy selects the solver. Empty selects the engine default.
	Strategy StrategyName
}

// ScheduleResult is the engine output.
type ScheduleResult struct {
	Plan    *Plan
	Summary PlanSummary
}

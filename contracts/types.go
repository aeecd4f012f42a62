// Package contracts defines the core types and interfaces for the scheduling engine.
package contracts

// RunID uniquely identifies a single scheduling run.
type RunID string

// WorkerID uniquely identifies a worker within a run.
type WorkerID string

// TaskID uniquely identifies a task within a run.
type TaskID string

// Hours is an amount of work or capacity in hours.
type Hours float64

// Days is a duration measured in working days.
type Days float64

// Money is a monetary amount in the caller's currency.
type Money float64

// Severity grades a risk finding.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// RiskCategory names the check that produced a risk finding.
type RiskCategory string

const (
	RiskBudget         RiskCategory = "budget"
	RiskTimeline       RiskCategory = "timeline"
	RiskSkill          RiskCategory = "skill"
	RiskOverallocation RiskCategory = "overallocation"
)

// Priority bounds for tasks. 5 is the highest priority.
const (
	MinPriority = 1
	MaxPriority = 5
)

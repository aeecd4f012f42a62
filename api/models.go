// Package api provides the HTTP host for the scheduling engine.
package api

import (
	"math"

	"github.com/VladislavFirsov/staffplan/contracts"
	"github.com/VladislavFirsov/staffplan/internal/orchestration"
)

// ============================================================================
// Request DTOs
// ============================================================================

// ScheduleRequest is the request body for POST /api/v1/schedules.
type ScheduleRequest struct {
	Budget   float64     `json:"budget"`
	Deadline float64     `json:"deadline"`
	Strategy string      `json:"strategy,omitempty"`
	Workers  []WorkerDTO `json:"workers"`
	Tasks    []TaskDTO   `json:"tasks"`
}

// CompareRequest is the request body for POST /api/v1/schedules/compare.
// Empty Strategies compares greedy with combinatorial.
type CompareRequest struct {
	ScheduleRequest
	Strategies []string `json:"strategies,omitempty"`
}

// WorkerDTO represents a worker in the request.
type WorkerDTO struct {
	Name        string   `json:"name"`
	Rate        float64  `json:"rate"`
	HoursPerDay float64  `json:"hours_per_day"`
	Skills      []string `json:"skills,omitempty"`
}

// TaskDTO represents a task in the request.
type TaskDTO struct {
	Name           string   `json:"name"`
	Hours          float64  `json:"hours"`
	Priority       int      `json:"priority"`
	Dependencies   []string `json:"dependencies,omitempty"`
	RequiredSkills []string `json:"required_skills,omitempty"`
}

// ============================================================================
// Response DTOs
// ============================================================================

// ScheduleResponse is the response body for a successful run.
// Money is rounded to 2 decimals and days to 1 decimal.
type ScheduleResponse struct {
	RunID              string             `json:"run_id" yaml:"run_id"`
	StrategyRequested  string             `json:"strategy_requested" yaml:"strategy_requested"`
	StrategyUsed       string             `json:"strategy_used" yaml:"strategy_used"`
	FallbackReason     string             `json:"fallback_reason,omitempty" yaml:"fallback_reason,omitempty"`
	Assignments        []AssignmentDTO    `json:"assignments" yaml:"assignments"`
	TotalCost          float64            `json:"total_cost" yaml:"total_cost"`
	BudgetRemaining    float64            `json:"budget_remaining" yaml:"budget_remaining"`
	BudgetUsagePercent float64            `json:"budget_usage_percent" yaml:"budget_usage_percent"`
	CompletionTime     float64            `json:"completion_time" yaml:"completion_time"`
	TimeBuffer         float64            `json:"time_buffer" yaml:"time_buffer"`
	WorkerLoad         map[string]float64 `json:"worker_load" yaml:"worker_load"`
	Risks              []RiskDTO          `json:"risks" yaml:"risks"`
}

// AssignmentDTO represents one assignment.
type AssignmentDTO struct {
	Worker     string  `json:"worker" yaml:"worker"`
	Task       string  `json:"task" yaml:"task"`
	Hours      float64 `json:"hours" yaml:"hours"`
	Cost       float64 `json:"cost" yaml:"cost"`
	SkillMatch int     `json:"skill_match" yaml:"skill_match"`
	Amplitude  float64 `json:"amplitude" yaml:"amplitude"`
}

// RiskDTO represents one risk finding.
type RiskDTO struct {
	Category string `json:"category" yaml:"category"`
	Message  string `json:"message" yaml:"message"`
	Severity string `json:"severity" yaml:"severity"`
}

// CompareResponse is the response body for POST /api/v1/schedules/compare.
type CompareResponse struct {
	Results []CompareEntry `json:"results" yaml:"results"`
}

// CompareEntry holds either the result or the error of one strategy.
type CompareEntry struct {
	Strategy string            `json:"strategy" yaml:"strategy"`
	Result   *ScheduleResponse `json:"result,omitempty" yaml:"result,omitempty"`
	Error    *ErrorDTO         `json:"error,omitempty" yaml:"error,omitempty"`
}

// ErrorDTO represents an error in the response.
type ErrorDTO struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
	// Field and ID name the offending input, when known.
	Field string `json:"field,omitempty" yaml:"field,omitempty"`
	ID    string `json:"id,omitempty" yaml:"id,omitempty"`
}

// ============================================================================
// Converters: Request DTO → contracts
// ============================================================================

// ToScheduleRequest converts the DTO to an engine request.
func (r *ScheduleRequest) ToScheduleRequest() contracts.ScheduleRequest {
	req := contracts.ScheduleRequest{
		Budget:       contracts.Money(r.Budget),
		DeadlineDays: contracts.Days(r.Deadline),
		Strategy:     contracts.StrategyName(r.Strategy),
		Workers:      make([]contracts.Worker, len(r.Workers)),
		Tasks:        make([]contracts.Task, len(r.Tasks)),
	}
	for i, w := range r.Workers {
		req.Workers[i] = contracts.Worker{
			ID:          contracts.WorkerID(w.Name),
			Rate:        contracts.Money(w.Rate),
			HoursPerDay: contracts.Hours(w.HoursPerDay),
			Skills:      w.Skills,
		}
	}
	for i, t := range r.Tasks {
		task := contracts.Task{
			ID:             contracts.TaskID(t.Name),
			Hours:          contracts.Hours(t.Hours),
			Priority:       t.Priority,
			RequiredSkills: t.RequiredSkills,
		}
		if len(t.Dependencies) > 0 {
			task.Deps = make([]contracts.TaskID, len(t.Dependencies))
			for j, dep := range t.Dependencies {
				task.Deps[j] = contracts.TaskID(dep)
			}
		}
		req.Tasks[i] = task
	}
	return req
}

// ============================================================================
// Converters: contracts → Response DTO
// ============================================================================

// ResultToResponse converts an engine result to ScheduleResponse.
func ResultToResponse(res *contracts.ScheduleResult) *ScheduleResponse {
	plan := res.Plan
	resp := &ScheduleResponse{
		RunID:              string(plan.RunID),
		StrategyRequested:  plan.RequestedStrategy.String(),
		StrategyUsed:       plan.Strategy.String(),
		FallbackReason:     plan.FallbackReason,
		Assignments:        make([]AssignmentDTO, len(plan.Assignments)),
		TotalCost:          round(float64(res.Summary.TotalCost), 2),
		BudgetRemaining:    round(float64(res.Summary.BudgetRemaining), 2),
		BudgetUsagePercent: round(res.Summary.BudgetUsagePercent, 1),
		CompletionTime:     round(float64(res.Summary.CompletionDays), 1),
		TimeBuffer:         round(float64(res.Summary.TimeBuffer), 1),
		WorkerLoad:         make(map[string]float64, len(res.Summary.WorkerLoad)),
		Risks:              make([]RiskDTO, len(res.Summary.Risks)),
	}
	for i, a := range plan.Assignments {
		resp.Assignments[i] = AssignmentDTO{
			Worker:     string(a.WorkerID),
			Task:       string(a.TaskID),
			Hours:      float64(a.Hours),
			Cost:       round(float64(a.Cost), 2),
			SkillMatch: a.SkillMatch,
			Amplitude:  round(a.Amplitude, 4),
		}
	}
	for id, h := range res.Summary.WorkerLoad {
		resp.WorkerLoad[string(id)] = round(float64(h), 1)
	}
	for i, r := range res.Summary.Risks {
		resp.Risks[i] = RiskDTO{
			Category: string(r.Category),
			Message:  r.Message,
			Severity: r.Severity.String(),
		}
	}
	return resp
}

// ComparisonsToResponse converts per-strategy outcomes, keeping their order.
func ComparisonsToResponse(results []orchestration.Comparison) *CompareResponse {
	resp := &CompareResponse{Results: make([]CompareEntry, len(results))}
	for i, c := range results {
		entry := CompareEntry{Strategy: c.Strategy.String()}
		if c.Err != nil {
			entry.Error = ErrorToDTO(c.Err)
		} else {
			entry.Result = ResultToResponse(c.Result)
		}
		resp.Results[i] = entry
	}
	return resp
}

// round rounds half away from zero to the given number of decimals.
func round(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}

// Package risk annotates finished plans with budget, timeline, skill and
// allocation findings. Findings never feed back into assignment.
package risk

import (
	"fmt"
	"strings"

	"github.com/VladislavFirsov/staffplan/contracts"
)

// Thresholds configures the evaluator. All comparisons are strict.
type Thresholds struct {
	// Budget usage percent above which the finding is high / medium.
	BudgetHighPercent   float64
	BudgetMediumPercent float64
	// Remaining-time percent of the deadline below which the timeline is tight.
	TimelineBufferPercent float64
	// Skill match percent below which an assignment counts as a low match.
	LowSkillMatch int
	// Number of low matches at which the skill finding becomes high.
	LowSkillHighCount int
	// Tasks per worker above which the worker is overallocated.
	MaxTasksPerWorker int
}

// DefaultThresholds returns the standard 95/80/10/70/3/2 thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		BudgetHighPercent:     95,
		BudgetMediumPercent:   80,
		TimelineBufferPercent: 10,
		LowSkillMatch:         70,
		LowSkillHighCount:     3,
		MaxTasksPerWorker:     2,
	}
}

// evaluator implements contracts.RiskEvaluator.
// Pure: identical inputs always yield identical findings.
type evaluator struct {
	th Thresholds
}

// NewEvaluator creates a RiskEvaluator.
func NewEvaluator(th Thresholds) contracts.RiskEvaluator {
	return &evaluator{th: th}
}

// Evaluate returns findings in fixed order: budget, timeline, skill, overallocation.
// Each check is independent; none suppresses another.
func (e *evaluator) Evaluate(plan *contracts.Plan, totals contracts.Totals, budget contracts.Money, deadline contracts.Days) []contracts.Risk {
	risks := make([]contracts.Risk, 0, 4)

	if r, ok := e.budget(totals.TotalCost, budget); ok {
		risks = append(risks, r)
	}
	if r, ok := e.timeline(totals.CompletionDays, deadline); ok {
		risks = append(risks, r)
	}

	var assignments []contracts.Assignment
	if plan != nil {
		assignments = plan.Assignments
	}
	if r, ok := e.skill(assignments); ok {
		risks = append(risks, r)
	}
	if r, ok := e.overallocation(assignments); ok {
		risks = append(risks, r)
	}
	return risks
}

func (e *evaluator) budget(total, budget contracts.Money) (contracts.Risk, bool) {
	// Edge case: no budget to measure against
	if budget <= 0 {
		return contracts.Risk{}, false
	}
	usage := float64(total) / float64(budget) * 100

	switch {
	case usage > e.th.BudgetHighPercent:
		return contracts.Risk{
			Category: contracts.RiskBudget,
			Message:  fmt.Sprintf("Budget nearly exhausted (%.1f%% used)", usage),
			Severity: contracts.SeverityHigh,
		}, true
	case usage > e.th.BudgetMediumPercent:
		return contracts.Risk{
			Category: contracts.RiskBudget,
			Message:  fmt.Sprintf("Budget usage high (%.1f%% used)", usage),
			Severity: contracts.SeverityMedium,
		}, true
	}
	return contracts.Risk{}, false
}

func (e *evaluator) timeline(completion, deadline contracts.Days) (contracts.Risk, bool) {
	if deadline <= 0 {
		return contracts.Risk{}, false
	}
	if completion > deadline {
		return contracts.Risk{
			Category: contracts.RiskTimeline,
			Message:  fmt.Sprintf("Projected completion exceeds deadline by %.1f days", float64(completion-deadline)),
			Severity: contracts.SeverityHigh,
		}, true
	}

	buffer := float64(deadline-completion) / float64(deadline) * 100
	if buffer < e.th.TimelineBufferPercent {
		return contracts.Risk{
			Category: contracts.RiskTimeline,
			Message:  fmt.Sprintf("Tight timeline (only %.1f%% buffer)", buffer),
			Severity: contracts.SeverityMedium,
		}, true
	}
	return contracts.Risk{}, false
}

func (e *evaluator) skill(assignments []contracts.Assignment) (contracts.Risk, bool) {
	low := 0
	for _, a := range assignments {
		if a.SkillMatch < e.th.LowSkillMatch {
			low++
		}
	}
	if low == 0 {
		return contracts.Risk{}, false
	}

	severity := contracts.SeverityMedium
	if low >= e.th.LowSkillHighCount {
		severity = contracts.SeverityHigh
	}
	return contracts.Risk{
		Category: contracts.RiskSkill,
		Message:  fmt.Sprintf("%d assignments have low skill matches", low),
		Severity: severity,
	}, true
}

// overallocation names workers in order of their first assignment.
func (e *evaluator) overallocation(assignments []contracts.Assignment) (contracts.Risk, bool) {
	counts := make(map[contracts.WorkerID]int)
	var order []contracts.WorkerID
	for _, a := range assignments {
		if counts[a.WorkerID] == 0 {
			order = append(order, a.WorkerID)
		}
		counts[a.WorkerID]++
	}

	var names []string
	for _, id := range order {
		if counts[id] > e.th.MaxTasksPerWorker {
			names = append(names, string(id))
		}
	}
	if len(names) == 0 {
		return contracts.Risk{}, false
	}
	return contracts.Risk{
		Category: contracts.RiskOverallocation,
		Message:  fmt.Sprintf("Worker(s) %s assigned to too many tasks", strings.Join(names, ", ")),
		Severity: contracts.SeverityMedium,
	}, true
}

package solver

import (
	"errors"
	"fmt"
	"math"

	"github.com/VladislavFirsov/staffplan/contracts"
	"github.com/VladislavFirsov/staffplan/internal/cost"
)

// Weights balance the three objective terms. They need not sum to 1.
type Weights struct {
	Cost  float64
	Time  float64
	Skill float64
}

// DefaultWeights returns the 0.5/0.3/0.2 cost/time/skill split.
func DefaultWeights() Weights {
	return Weights{Cost: 0.5, Time: 0.3, Skill: 0.2}
}

// Limits are the per-run inputs the objective is normalized by.
type Limits struct {
	Budget   contracts.Money
	Deadline contracts.Days
}

// errCapacityExceeded distinguishes capacity violations from malformed solutions.
var errCapacityExceeded = fmt.Errorf("%w: worker capacity exceeded", contracts.ErrInvalidSolution)

// Problem is the binary assignment problem handed to a Backend:
// choose exactly one worker per task, keep each worker's summed hours within
// its capacity, minimize the summed coefficients.
type Problem struct {
	Tasks   []contracts.TaskID
	Workers []contracts.WorkerID
	// Hours is indexed by task, Capacity by worker.
	Hours    []contracts.Hours
	Capacity []contracts.Hours
	// Coefficients[j][i] is the cost of giving task j to worker i.
	Coefficients [][]float64
}

// Solution is a backend result.
type Solution struct {
	// Assignment[j] is the worker index chosen for task j.
	Assignment []int
	Objective  float64
	// Confidence in [0,1]. Exact backends report 1.
	Confidence float64
}

// Formulate builds the problem for ordered tasks against the ledger's current capacity.
//
//	c_ij = w.Cost  * rate_i*hours_j/budget
//	     + w.Time  * hours_j/(hoursPerDay_i*deadline)
//	     + w.Skill * (1 - skillMatch_ij/100) * priority_j/5
//
// Edge case: without a budget the cost term is normalized by the sum of each
// task's most expensive option; without a deadline the time term uses the
// worker's remaining capacity.
func Formulate(ordered contracts.ExecutionOrder, workers []contracts.Worker, ledger contracts.CapacityLedger, limits Limits, w Weights) *Problem {
	p := &Problem{
		Tasks:        make([]contracts.TaskID, len(ordered)),
		Workers:      make([]contracts.WorkerID, len(workers)),
		Hours:        make([]contracts.Hours, len(ordered)),
		Capacity:     make([]contracts.Hours, len(workers)),
		Coefficients: make([][]float64, len(ordered)),
	}
	for i, wk := range workers {
		p.Workers[i] = wk.ID
		p.Capacity[i] = ledger.Remaining(wk.ID)
	}

	budget := float64(limits.Budget)
	if budget <= 0 {
		budget = 0
		for _, t := range ordered {
			var most float64
			for _, wk := range workers {
				most = math.Max(most, float64(t.Hours)*float64(wk.Rate))
			}
			budget += most
		}
		if budget <= 0 {
			budget = 1
		}
	}

	for j, t := range ordered {
		p.Tasks[j] = t.ID
		p.Hours[j] = t.Hours
		row := make([]float64, len(workers))
		for i, wk := range workers {
			horizon := float64(wk.HoursPerDay) * float64(limits.Deadline)
			if horizon <= 0 {
				horizon = float64(p.Capacity[i])
			}
			timeTerm := 1.0
			if horizon > 0 {
				timeTerm = float64(t.Hours) / horizon
			}

			match := cost.SkillMatch(wk.Skills, t.RequiredSkills)
			row[i] = w.Cost*float64(wk.Rate)*float64(t.Hours)/budget +
				w.Time*timeTerm +
				w.Skill*(1-float64(match)/100)*float64(t.Priority)/contracts.MaxPriority
		}
		p.Coefficients[j] = row
	}
	return p
}

// NumTasks returns the number of tasks.
func (p *Problem) NumTasks() int { return len(p.Tasks) }

// NumWorkers returns the number of workers.
func (p *Problem) NumWorkers() int { return len(p.Workers) }

// SearchSpace returns workers^tasks, the number of unconstrained assignments.
func (p *Problem) SearchSpace() float64 {
	return math.Pow(float64(p.NumWorkers()), float64(p.NumTasks()))
}

// Objective sums the coefficients of an assignment.
func (p *Problem) Objective(assign []int) float64 {
	var sum float64
	for j, i := range assign {
		sum += p.Coefficients[j][i]
	}
	return sum
}

// LowerBound sums each task's cheapest coefficient, ignoring capacity.
func (p *Problem) LowerBound() float64 {
	var sum float64
	for _, row := range p.Coefficients {
		best := math.Inf(1)
		for _, c := range row {
			best = math.Min(best, c)
		}
		if !math.IsInf(best, 1) {
			sum += best
		}
	}
	return sum
}

// Confidence returns LowerBound/objective, clamped to [0,1]. A zero objective is fully confident.
func (p *Problem) Confidence(objective float64) float64 {
	if objective <= 0 {
		return 1
	}
	return math.Max(0, math.Min(1, p.LowerBound()/objective))
}

// Check verifies a solution's shape and that it respects every capacity.
// Capacity is simulated by subtraction in task order, the same arithmetic the
// ledger uses when the solution is committed.
func (p *Problem) Check(sol *Solution) error {
	if sol == nil {
		return fmt.Errorf("nil solution: %w", contracts.ErrInvalidSolution)
	}
	if len(sol.Assignment) != p.NumTasks() {
		return fmt.Errorf("got %d assignments for %d tasks: %w",
			len(sol.Assignment), p.NumTasks(), contracts.ErrInvalidSolution)
	}
	if math.IsNaN(sol.Confidence) || sol.Confidence < 0 || sol.Confidence > 1 {
		return fmt.Errorf("confidence %v out of range: %w", sol.Confidence, contracts.ErrInvalidSolution)
	}

	remaining := make([]contracts.Hours, len(p.Capacity))
	copy(remaining, p.Capacity)
	for j, i := range sol.Assignment {
		if i < 0 || i >= p.NumWorkers() {
			return fmt.Errorf("task %s assigned to worker index %d: %w", p.Tasks[j], i, contracts.ErrInvalidSolution)
		}
		if p.Hours[j] > remaining[i] {
			return fmt.Errorf("task %s on worker %s: %w", p.Tasks[j], p.Workers[i], errCapacityExceeded)
		}
		remaining[i] -= p.Hours[j]
	}
	return nil
}

// feasible reports whether assign passes Check's capacity rules.
func (p *Problem) feasible(assign []int) bool {
	return p.Check(&Solution{Assignment: assign}) == nil
}

func isCapacityViolation(err error) bool {
	return errors.Is(err, errCapacityExceeded)
}

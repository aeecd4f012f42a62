// Package solver implements the assignment strategies behind contracts.Solver.
package solver

import (
	"context"

	"github.com/VladislavFirsov/staffplan/contracts"
	"github.com/VladislavFirsov/staffplan/internal/cost"
)

// greedySolver implements contracts.Solver.
// For each task in execution order it picks the covering worker with the
// highest amplitude and commits immediately. No backtracking.
//
// Thread-safety: The solver is stateless; all run state lives in the ledger.
type greedySolver struct{}

// NewGreedySolver creates the default, always available solver.
func NewGreedySolver() contracts.Solver {
	return &greedySolver{}
}

func (g *greedySolver) Name() contracts.StrategyName {
	return contracts.StrategyGreedy
}

// Solve assigns one worker per task.
// Ties keep the earliest worker in input order. Returns *InfeasibleError for
// the first task no worker can cover; the ledger is then partially consumed
// and must be discarded along with the run.
//
// ctx is not consulted: greedy is the fallback of last resort and always runs
// to completion.
func (g *greedySolver) Solve(_ context.Context, ordered contracts.ExecutionOrder, workers []contracts.Worker, ledger contracts.CapacityLedger) (*contracts.Plan, error) {
	if ledger == nil {
		return nil, contracts.ErrInvalidInput
	}

	plan := &contracts.Plan{
		Assignments: make([]contracts.Assignment, 0, len(ordered)),
		Strategy:    contracts.StrategyGreedy,
	}

	for _, task := range ordered {
		best := -1
		var bestScore cost.Score

		for i := range workers {
			if !ledger.Covers(workers[i].ID, task.Hours) {
				continue
			}
			s := cost.ScorePair(workers[i], task)
			// Strict comparison: first worker of equal amplitude wins.
			if best < 0 || s.Amplitude > bestScore.Amplitude {
				best, bestScore = i, s
			}
		}

		if best < 0 || !ledger.TryConsume(workers[best].ID, task.Hours) {
			return nil, &contracts.InfeasibleError{TaskID: task.ID, Hours: task.Hours}
		}

		plan.Assignments = append(plan.Assignments, assignmentFor(workers[best], task, bestScore))
	}

	return plan, nil
}

func assignmentFor(w contracts.Worker, t contracts.Task, s cost.Score) contracts.Assignment {
	return contracts.Assignment{
		WorkerID:   w.ID,
		TaskID:     t.ID,
		Hours:      t.Hours,
		Cost:       s.Cost,
		SkillMatch: s.SkillMatch,
		Amplitude:  s.Amplitude,
	}
}

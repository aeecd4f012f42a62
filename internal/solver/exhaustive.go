package solver

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/VladislavFirsov/staffplan/contracts"
)

// DefaultExhaustiveLimit bounds workers^tasks for the exact backend.
const DefaultExhaustiveLimit = 1e6

// ctxCheckInterval is how many search nodes pass between context checks.
const ctxCheckInterval = 1024

// ExhaustiveBackend finds the optimal assignment by branch and bound.
// Problems whose unconstrained search space exceeds Limit are refused with
// ErrSolverUnavailable.
type ExhaustiveBackend struct {
	Limit float64
}

// NewExhaustiveBackend creates an exact backend. A non-positive limit uses DefaultExhaustiveLimit.
func NewExhaustiveBackend(limit float64) *ExhaustiveBackend {
	if limit <= 0 {
		limit = DefaultExhaustiveLimit
	}
	return &ExhaustiveBackend{Limit: limit}
}

func (b *ExhaustiveBackend) Name() string { return "exhaustive" }

// Solve returns the lowest-objective feasible assignment, preferring the
// first one found on ties. Confidence is always 1.
func (b *ExhaustiveBackend) Solve(ctx context.Context, p *Problem) (*Solution, error) {
	limit := b.Limit
	if limit <= 0 {
		limit = DefaultExhaustiveLimit
	}
	if space := p.SearchSpace(); space > limit {
		return nil, fmt.Errorf("search space %.0f exceeds limit %.0f: %w", space, limit, contracts.ErrSolverUnavailable)
	}

	s := newSearch(p)
	if err := s.run(ctx, 0, 0); err != nil {
		return nil, err
	}
	if s.best == nil {
		return nil, fmt.Errorf("no assignment satisfies capacity: %w", contracts.ErrInvalidSolution)
	}
	return &Solution{Assignment: s.best, Objective: s.bestObjective, Confidence: 1}, nil
}

type search struct {
	p         *Problem
	remaining []contracts.Hours
	current   []int
	// candidates[j] lists worker indices for task j, cheapest first.
	candidates [][]int
	// restBound[j] is the sum of cheapest coefficients of tasks j..end.
	restBound []float64

	best          []int
	bestObjective float64
	nodes         int
}

func newSearch(p *Problem) *search {
	s := &search{
		p:          p,
		remaining:  slices.Clone(p.Capacity),
		current:    make([]int, p.NumTasks()),
		candidates: make([][]int, p.NumTasks()),
		restBound:  make([]float64, p.NumTasks()+1),
	}
	for j := range p.Tasks {
		order := make([]int, p.NumWorkers())
		for i := range order {
			order[i] = i
		}
		row := p.Coefficients[j]
		slices.SortStableFunc(order, func(a, b int) int {
			return cmp.Compare(row[a], row[b])
		})
		s.candidates[j] = order
	}
	for j := p.NumTasks() - 1; j >= 0; j-- {
		cheapest := 0.0
		if len(s.candidates[j]) > 0 {
			cheapest = p.Coefficients[j][s.candidates[j][0]]
		}
		s.restBound[j] = s.restBound[j+1] + cheapest
	}
	return s
}

func (s *search) run(ctx context.Context, j int, objective float64) error {
	s.nodes++
	if s.nodes%ctxCheckInterval == 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	// Prune: even the cheapest completion cannot beat the incumbent.
	if s.best != nil && objective+s.restBound[j] >= s.bestObjective {
		return nil
	}
	if j == s.p.NumTasks() {
		s.best = slices.Clone(s.current)
		s.bestObjective = objective
		return nil
	}

	hours := s.p.Hours[j]
	for _, i := range s.candidates[j] {
		if hours > s.remaining[i] {
			continue
		}
		prev := s.remaining[i]
		s.remaining[i] = prev - hours
		s.current[j] = i
		err := s.run(ctx, j+1, objective+s.p.Coefficients[j][i])
		s.remaining[i] = prev
		if err != nil {
			return err
		}
	}
	return nil
}

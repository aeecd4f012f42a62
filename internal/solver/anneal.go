package solver

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/VladislavFirsov/staffplan/contracts"
)

// DefaultIterations is the annealing move budget.
const DefaultIterations = 20000

// AnnealingBackend searches approximately by simulated annealing over
// single-task reassignments. Infeasible states are allowed during the walk
// but penalized; only feasible states are ever returned.
type AnnealingBackend struct {
	Iterations int
	// NewRand returns the random source for one solve. Each call must return an
	// independent generator so concurrent runs never share one.
	NewRand func() *rand.Rand
}

// NewAnnealingBackend creates a backend whose runs are reproducible for a given seed.
func NewAnnealingBackend(iterations int, seed uint64) *AnnealingBackend {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &AnnealingBackend{
		Iterations: iterations,
		NewRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		},
	}
}

func (b *AnnealingBackend) Name() string { return "annealing" }

// Solve anneals from a cheapest-fit start. Returns ErrInvalidSolution when no
// feasible state was visited, or ctx.Err() when the context ends first.
func (b *AnnealingBackend) Solve(ctx context.Context, p *Problem) (*Solution, error) {
	if p.NumTasks() == 0 {
		return &Solution{Assignment: []int{}, Confidence: 1}, nil
	}
	if p.NumWorkers() == 0 {
		return nil, fmt.Errorf("no workers: %w", contracts.ErrInvalidSolution)
	}

	rng := b.NewRand()
	a := newAnnealState(p)

	var best []int
	bestObjective := math.Inf(1)
	record := func() {
		if a.overflow == 0 && a.objective < bestObjective && p.feasible(a.assign) {
			best = slices.Clone(a.assign)
			bestObjective = p.Objective(best)
		}
	}
	record()

	temp := a.initialTemperature()
	final := temp * 1e-3
	cooling := math.Pow(final/temp, 1/float64(max(b.Iterations, 1)))

	for step := 0; step < b.Iterations && p.NumWorkers() > 1; step++ {
		if step%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		j := rng.IntN(p.NumTasks())
		to := rng.IntN(p.NumWorkers())
		if to == a.assign[j] {
			continue
		}
		delta := a.delta(j, to)
		if delta <= 0 || rng.Float64() < math.Exp(-delta/temp) {
			a.move(j, to)
			record()
		}
		temp *= cooling
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if best == nil {
		return nil, fmt.Errorf("annealing found no feasible assignment: %w", contracts.ErrInvalidSolution)
	}
	return &Solution{
		Assignment: best,
		Objective:  bestObjective,
		Confidence: p.Confidence(bestObjective),
	}, nil
}

type annealState struct {
	p         *Problem
	assign    []int
	load      []float64
	objective float64
	overflow  float64
	penalty   float64
}

// newAnnealState places every task on its cheapest worker that still has room,
// or on its cheapest worker outright when none has.
func newAnnealState(p *Problem) *annealState {
	a := &annealState{
		p:      p,
		assign: make([]int, p.NumTasks()),
		load:   make([]float64, p.NumWorkers()),
	}

	var worst, hours float64
	for j, row := range p.Coefficients {
		pick, fit := 0, -1
		for i, c := range row {
			if c < row[pick] {
				pick = i
			}
			if float64(p.Capacity[i])-a.load[i] >= float64(p.Hours[j]) && (fit < 0 || c < row[fit]) {
				fit = i
			}
			worst = math.Max(worst, c)
		}
		if fit >= 0 {
			pick = fit
		}
		a.assign[j] = pick
		a.load[pick] += float64(p.Hours[j])
		a.objective += row[pick]
		hours += float64(p.Hours[j])
	}

	// Any unit of overflow outweighs the spread of every feasible objective.
	a.penalty = (1 + worst*float64(p.NumTasks())) / math.Max(hours, 1e-9) * 10
	for i := range a.load {
		a.overflow += math.Max(0, a.load[i]-float64(p.Capacity[i]))
	}
	return a
}

func (a *annealState) energy(objective, overflow float64) float64 {
	return objective + a.penalty*overflow
}

func (a *annealState) overflowAt(i int, load float64) float64 {
	return math.Max(0, load-float64(a.p.Capacity[i]))
}

// delta is the energy change of moving task j to worker to.
func (a *annealState) delta(j, to int) float64 {
	from := a.assign[j]
	h := float64(a.p.Hours[j])
	row := a.p.Coefficients[j]

	dObj := row[to] - row[from]
	dOver := a.overflowAt(from, a.load[from]-h) - a.overflowAt(from, a.load[from]) +
		a.overflowAt(to, a.load[to]+h) - a.overflowAt(to, a.load[to])
	return a.energy(dObj, dOver)
}

func (a *annealState) move(j, to int) {
	from := a.assign[j]
	h := float64(a.p.Hours[j])
	row := a.p.Coefficients[j]

	a.overflow -= a.overflowAt(from, a.load[from]) + a.overflowAt(to, a.load[to])
	a.load[from] -= h
	a.load[to] += h
	a.overflow += a.overflowAt(from, a.load[from]) + a.overflowAt(to, a.load[to])
	if a.overflow < 1e-9 {
		a.overflow = 0
	}
	a.objective += row[to] - row[from]
	a.assign[j] = to
}

func (a *annealState) initialTemperature() float64 {
	var spread float64
	for _, row := range a.p.Coefficients {
		lo, hi := slices.Min(row), slices.Max(row)
		spread = math.Max(spread, hi-lo)
	}
	if spread <= 0 {
		return 1
	}
	return spread
}

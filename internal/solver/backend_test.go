package solver

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladislavFirsov/staffplan/contracts"
	"github.com/VladislavFirsov/staffplan/internal/cost"
)

// myopicCase is a problem where committing the first task to its cheapest
// worker forces the second task onto the expensive one.
func myopicCase() (contracts.ExecutionOrder, []contracts.Worker) {
	workers := []contracts.Worker{
		{ID: "cheap", Rate: 10, HoursPerDay: 8},
		{ID: "pricey", Rate: 20, HoursPerDay: 8},
	}
	tasks := contracts.ExecutionOrder{
		{ID: "short", Hours: 4, Priority: 5},
		{ID: "long", Hours: 8, Priority: 1},
	}
	return tasks, workers
}

func myopicProblem() *Problem {
	tasks, workers := myopicCase()
	return Formulate(tasks, workers, cost.NewLedger(workers, 1), Limits{Budget: 1000, Deadline: 1}, DefaultWeights())
}

// bruteForce enumerates every assignment and returns the best feasible objective.
func bruteForce(p *Problem) float64 {
	best := math.Inf(1)
	assign := make([]int, p.NumTasks())
	var walk func(j int)
	walk = func(j int) {
		if j == p.NumTasks() {
			if p.feasible(assign) {
				best = math.Min(best, p.Objective(assign))
			}
			return
		}
		for i := 0; i < p.NumWorkers(); i++ {
			assign[j] = i
			walk(j + 1)
		}
	}
	walk(0)
	return best
}

func TestFormulate_Coefficients(t *testing.T) {
	p := myopicProblem()

	require.Equal(t, 2, p.NumTasks())
	require.Equal(t, 2, p.NumWorkers())
	assert.Equal(t, []contracts.Hours{8, 8}, p.Capacity)

	// short on cheap: 0.5*40/1000 + 0.3*4/8 + 0
	assert.InDelta(t, 0.02+0.15, p.Coefficients[0][0], 1e-12)
	// long on pricey: 0.5*160/1000 + 0.3*8/8 + 0
	assert.InDelta(t, 0.08+0.3, p.Coefficients[1][1], 1e-12)
}

func TestFormulate_SkillTerm(t *testing.T) {
	workers := []contracts.Worker{{ID: "w", Rate: 0.000001, HoursPerDay: 1000}}
	tasks := contracts.ExecutionOrder{{ID: "t", Hours: 1, Priority: 5, RequiredSkills: []string{"go"}}}
	p := Formulate(tasks, workers, cost.NewLedger(workers, 1), Limits{Budget: 1e9, Deadline: 1e9}, Weights{Skill: 1})

	assert.InDelta(t, 1.0, p.Coefficients[0][0], 1e-9)
}

func TestProblem_ConfidenceAndBound(t *testing.T) {
	p := myopicProblem()

	lb := p.LowerBound()
	assert.InDelta(t, (0.02+0.15)+(0.04+0.3), lb, 1e-12)
	assert.Equal(t, 1.0, p.Confidence(lb))
	assert.Equal(t, 1.0, p.Confidence(0))
	assert.InDelta(t, lb/(2*lb), p.Confidence(2*lb), 1e-12)
}

func TestProblem_Check(t *testing.T) {
	p := myopicProblem()

	tests := []struct {
		name         string
		sol          *Solution
		wantErr      bool
		wantCapacity bool
	}{
		{name: "valid", sol: &Solution{Assignment: []int{1, 0}, Confidence: 1}},
		{name: "nil", sol: nil, wantErr: true},
		{name: "short", sol: &Solution{Assignment: []int{0}}, wantErr: true},
		{name: "index out of range", sol: &Solution{Assignment: []int{0, 2}}, wantErr: true},
		{name: "confidence out of range", sol: &Solution{Assignment: []int{1, 0}, Confidence: 1.5}, wantErr: true},
		{name: "capacity", sol: &Solution{Assignment: []int{0, 0}}, wantErr: true, wantCapacity: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Check(tt.sol)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, contracts.ErrInvalidSolution)
			assert.Equal(t, tt.wantCapacity, isCapacityViolation(err))
		})
	}
}

func TestExhaustive_FindsOptimum(t *testing.T) {
	p := myopicProblem()

	sol, err := NewExhaustiveBackend(0).Solve(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, sol.Assignment)
	assert.Equal(t, 1.0, sol.Confidence)
	assert.InDelta(t, bruteForce(p), sol.Objective, 1e-12)
}

func TestExhaustive_MatchesBruteForce(t *testing.T) {
	workers := []contracts.Worker{
		{ID: "a", Rate: 35, HoursPerDay: 6, Skills: []string{"go"}},
		{ID: "b", Rate: 20, HoursPerDay: 4, Skills: []string{"sql"}},
		{ID: "c", Rate: 50, HoursPerDay: 8, Skills: []string{"go", "sql"}},
	}
	tasks := contracts.ExecutionOrder{
		{ID: "t1", Hours: 6, Priority: 5, RequiredSkills: []string{"go"}},
		{ID: "t2", Hours: 4, Priority: 2, RequiredSkills: []string{"sql"}},
		{ID: "t3", Hours: 5, Priority: 4, RequiredSkills: []string{"go", "sql"}},
		{ID: "t4", Hours: 3, Priority: 1},
		{ID: "t5", Hours: 2, Priority: 3, RequiredSkills: []string{"sql"}},
	}
	p := Formulate(tasks, workers, cost.NewLedger(workers, 2), Limits{Budget: 2000, Deadline: 2}, DefaultWeights())

	sol, err := NewExhaustiveBackend(0).Solve(context.Background(), p)
	require.NoError(t, err)
	require.NoError(t, p.Check(sol))
	assert.InDelta(t, bruteForce(p), sol.Objective, 1e-12)
}

func TestExhaustive_RefusesLargeProblems(t *testing.T) {
	p := &Problem{
		Tasks:   make([]contracts.TaskID, 10),
		Workers: make([]contracts.WorkerID, 10),
	}
	_, err := NewExhaustiveBackend(1e6).Solve(context.Background(), p)
	assert.ErrorIs(t, err, contracts.ErrSolverUnavailable)
}

func TestExhaustive_NoFeasibleAssignment(t *testing.T) {
	workers := []contracts.Worker{{ID: "a", Rate: 10, HoursPerDay: 1}}
	tasks := contracts.ExecutionOrder{{ID: "t", Hours: 5, Priority: 1}}
	p := Formulate(tasks, workers, cost.NewLedger(workers, 1), Limits{Budget: 100, Deadline: 1}, DefaultWeights())

	_, err := NewExhaustiveBackend(0).Solve(context.Background(), p)
	assert.ErrorIs(t, err, contracts.ErrInvalidSolution)
}

func TestAnnealing_FeasibleAndReproducible(t *testing.T) {
	workers := []contracts.Worker{
		{ID: "a", Rate: 35, HoursPerDay: 6, Skills: []string{"go"}},
		{ID: "b", Rate: 20, HoursPerDay: 4, Skills: []string{"sql"}},
		{ID: "c", Rate: 50, HoursPerDay: 8, Skills: []string{"go", "sql"}},
	}
	var tasks contracts.ExecutionOrder
	for i, h := range []contracts.Hours{6, 4, 5, 3, 2, 6, 1, 2} {
		tasks = append(tasks, contracts.Task{
			ID:       contracts.TaskID(string(rune('a' + i))),
			Hours:    h,
			Priority: i%5 + 1,
		})
	}
	p := Formulate(tasks, workers, cost.NewLedger(workers, 3), Limits{Budget: 5000, Deadline: 3}, DefaultWeights())

	first, err := NewAnnealingBackend(5000, 42).Solve(context.Background(), p)
	require.NoError(t, err)
	require.NoError(t, p.Check(first))
	assert.InDelta(t, p.Objective(first.Assignment), first.Objective, 1e-9)
	assert.GreaterOrEqual(t, first.Objective, bruteForce(p)-1e-12)
	assert.InDelta(t, p.Confidence(first.Objective), first.Confidence, 1e-12)

	second, err := NewAnnealingBackend(5000, 42).Solve(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, first.Assignment, second.Assignment)
}

func TestAnnealing_HonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAnnealingBackend(100, 1).Solve(ctx, myopicProblem())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnnealing_EmptyProblem(t *testing.T) {
	sol, err := NewAnnealingBackend(10, 1).Solve(context.Background(), &Problem{})
	require.NoError(t, err)
	assert.Empty(t, sol.Assignment)
	assert.Equal(t, 1.0, sol.Confidence)
}

func TestAutoBackend(t *testing.T) {
	p := myopicProblem()

	t.Run("exact when small", func(t *testing.T) {
		sol, err := NewAutoBackend(NewExhaustiveBackend(0), NewAnnealingBackend(100, 1)).Solve(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 0}, sol.Assignment)
	})

	t.Run("approximate when too large for exact", func(t *testing.T) {
		sol, err := NewAutoBackend(&ExhaustiveBackend{Limit: 1}, NewAnnealingBackend(100, 1)).Solve(context.Background(), p)
		require.NoError(t, err)
		assert.NoError(t, p.Check(sol))
	})

	t.Run("unavailable without parts", func(t *testing.T) {
		_, err := NewAutoBackend(&ExhaustiveBackend{Limit: 1}, nil).Solve(context.Background(), p)
		assert.ErrorIs(t, err, contracts.ErrSolverUnavailable)
	})
}

func TestUnavailableBackend(t *testing.T) {
	_, err := UnavailableBackend{Reason: "disabled by config"}.Solve(context.Background(), &Problem{})
	assert.ErrorIs(t, err, contracts.ErrSolverUnavailable)
	assert.Contains(t, err.Error(), "disabled by config")
}

package solver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladislavFirsov/staffplan/contracts"
	"github.com/VladislavFirsov/staffplan/internal/cost"
	"github.com/VladislavFirsov/staffplan/internal/metrics"
)

// stubBackend returns a fixed result.
type stubBackend struct {
	sol *Solution
	err error
}

func (b stubBackend) Name() string { return "stub" }

func (b stubBackend) Solve(context.Context, *Problem) (*Solution, error) {
	return b.sol, b.err
}

// blockingBackend waits for the context to end.
type blockingBackend struct{}

func (blockingBackend) Name() string { return "blocking" }

func (blockingBackend) Solve(ctx context.Context, _ *Problem) (*Solution, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// sleepyBackend ignores ctx and answers after a fixed delay.
type sleepyBackend struct {
	delay time.Duration
	sol   *Solution
}

func (sleepyBackend) Name() string { return "sleepy" }

func (b sleepyBackend) Solve(context.Context, *Problem) (*Solution, error) {
	time.Sleep(b.delay)
	return b.sol, nil
}

func greedyReference(t *testing.T, tasks contracts.ExecutionOrder, workers []contracts.Worker, deadline contracts.Days) (*contracts.Plan, *cost.Ledger) {
	t.Helper()
	plan, ledger, err := solveGreedy(t, tasks, workers, deadline)
	require.NoError(t, err)
	return plan, ledger
}

func TestCombinatorial_Name(t *testing.T) {
	s := NewCombinatorialSolver(nil, CombinatorialOptions{})
	assert.Equal(t, contracts.StrategyCombinatorial, s.Name())

	_, ok := s.(contracts.LimitedSolver)
	assert.True(t, ok, "combinatorial solver must accept run limits")
}

func TestCombinatorial_SolvesBeyondGreedy(t *testing.T) {
	tasks, workers := myopicCase()
	s := NewCombinatorialSolver(NewExhaustiveBackend(0), CombinatorialOptions{}).(contracts.LimitedSolver).WithLimits(1000, 1)

	ledger := cost.NewLedger(workers, 1)
	plan, err := s.Solve(context.Background(), tasks, workers, ledger)
	require.NoError(t, err)

	assert.Equal(t, contracts.StrategyCombinatorial, plan.Strategy)
	assert.False(t, plan.FellBack())
	require.Len(t, plan.Assignments, 2)
	assert.Equal(t, contracts.WorkerID("pricey"), plan.Assignments[0].WorkerID)
	assert.Equal(t, contracts.WorkerID("cheap"), plan.Assignments[1].WorkerID)

	// Assignments are scored exactly like greedy ones.
	want := cost.ScorePair(workers[1], tasks[0])
	assert.Equal(t, want.Cost, plan.Assignments[0].Cost)
	assert.Equal(t, want.Amplitude, plan.Assignments[0].Amplitude)
	assert.Equal(t, 100, plan.Assignments[0].SkillMatch)

	assert.Equal(t, contracts.Hours(0), ledger.Remaining("cheap"))
	assert.Equal(t, contracts.Hours(4), ledger.Remaining("pricey"))

	greedy, _ := greedyReference(t, tasks, workers, 1)
	var greedyCost, comboCost contracts.Money
	for i := range plan.Assignments {
		greedyCost += greedy.Assignments[i].Cost
		comboCost += plan.Assignments[i].Cost
	}
	assert.Less(t, comboCost, greedyCost)
}

func TestCombinatorial_FallbackMatchesGreedy(t *testing.T) {
	workers := []contracts.Worker{
		{ID: "a", Rate: 30, HoursPerDay: 8, Skills: []string{"go", "sql"}},
		{ID: "b", Rate: 25, HoursPerDay: 5, Skills: []string{"go"}},
	}
	tasks := contracts.ExecutionOrder{
		{ID: "t1", Hours: 12, Priority: 5, RequiredSkills: []string{"go"}},
		{ID: "t2", Hours: 8, Priority: 4, RequiredSkills: []string{"sql"}},
		{ID: "t3", Hours: 10, Priority: 2},
	}

	tests := []struct {
		name      string
		backend   Backend
		opts      CombinatorialOptions
		wantCause string
	}{
		{name: "nil backend", backend: nil, wantCause: CauseUnavailable},
		{name: "unavailable backend", backend: UnavailableBackend{}, wantCause: CauseUnavailable},
		{name: "backend error", backend: stubBackend{err: errors.New("solver crashed")}, wantCause: CauseBackendError},
		{name: "timeout", backend: blockingBackend{}, opts: CombinatorialOptions{Timeout: 10 * time.Millisecond}, wantCause: CauseTimeout},
		{
			name:      "timeout with backend ignoring ctx",
			backend:   sleepyBackend{delay: 300 * time.Millisecond, sol: &Solution{Assignment: []int{0, 0, 1}, Confidence: 1}},
			opts:      CombinatorialOptions{Timeout: 10 * time.Millisecond},
			wantCause: CauseTimeout,
		},
		{name: "wrong shape", backend: stubBackend{sol: &Solution{Assignment: []int{0}, Confidence: 1}}, wantCause: CauseInvalidSolution},
		{name: "capacity violated", backend: stubBackend{sol: &Solution{Assignment: []int{1, 1, 1}, Confidence: 1}}, wantCause: CauseCapacity},
		{name: "low confidence", backend: stubBackend{sol: &Solution{Assignment: []int{0, 0, 1}, Confidence: 0.1}}, wantCause: CauseLowConfidence},
		{
			name:      "confidence below custom threshold",
			backend:   stubBackend{sol: &Solution{Assignment: []int{0, 0, 1}, Confidence: 0.8}},
			opts:      CombinatorialOptions{MinConfidence: 0.9},
			wantCause: CauseLowConfidence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, m := metrics.NewRegistry()
			tt.opts.Metrics = m

			want, wantLedger := greedyReference(t, tasks, workers, 5)

			ledger := cost.NewLedger(workers, 5)
			plan, err := NewCombinatorialSolver(tt.backend, tt.opts).Solve(context.Background(), tasks, workers, ledger)
			require.NoError(t, err)

			assert.Equal(t, want.Assignments, plan.Assignments)
			assert.Equal(t, contracts.StrategyGreedy, plan.Strategy)
			assert.True(t, plan.FellBack())
			assert.Contains(t, plan.FallbackReason, tt.wantCause)
			for _, w := range workers {
				assert.Equal(t, wantLedger.Remaining(w.ID), ledger.Remaining(w.ID))
			}
			assert.Equal(t, 1.0, testutil.ToFloat64(m.Fallbacks.WithLabelValues(tt.wantCause)))
		})
	}
}

func TestCombinatorial_FallbackPropagatesInfeasible(t *testing.T) {
	workers := []contracts.Worker{{ID: "a", Rate: 10, HoursPerDay: 8}}
	tasks := contracts.ExecutionOrder{{ID: "big", Hours: 100, Priority: 3}}

	plan, err := NewCombinatorialSolver(NewExhaustiveBackend(0), CombinatorialOptions{}).
		Solve(context.Background(), tasks, workers, cost.NewLedger(workers, 10))

	assert.Nil(t, plan)
	var infeasible *contracts.InfeasibleError
	require.True(t, errors.As(err, &infeasible))
	assert.Equal(t, contracts.TaskID("big"), infeasible.TaskID)
}

func TestCombinatorial_AcceptedSolutionCountsNoFallback(t *testing.T) {
	tasks, workers := myopicCase()
	_, m := metrics.NewRegistry()

	s := NewCombinatorialSolver(NewAutoBackend(NewExhaustiveBackend(0), NewAnnealingBackend(100, 7)), CombinatorialOptions{Metrics: m})
	plan, err := s.Solve(context.Background(), tasks, workers, cost.NewLedger(workers, 1))
	require.NoError(t, err)

	assert.Equal(t, contracts.StrategyCombinatorial, plan.Strategy)
	assert.Equal(t, 0, testutil.CollectAndCount(m.Fallbacks))
	assert.Equal(t, 1, testutil.CollectAndCount(m.SolveDuration))
}

func TestCombinatorial_NilLedger(t *testing.T) {
	_, err := NewCombinatorialSolver(nil, CombinatorialOptions{}).Solve(context.Background(), nil, nil, nil)
	assert.ErrorIs(t, err, contracts.ErrInvalidInput)
}

func TestCombinatorial_TimeoutBoundsBackendIgnoringContext(t *testing.T) {
	workers := []contracts.Worker{{ID: "a", Rate: 30, HoursPerDay: 8}}
	tasks := contracts.ExecutionOrder{{ID: "t1", Hours: 4, Priority: 3}}
	backend := sleepyBackend{delay: 2 * time.Second, sol: &Solution{Assignment: []int{0}, Confidence: 1}}

	s := NewCombinatorialSolver(backend, CombinatorialOptions{Timeout: 20 * time.Millisecond})

	start := time.Now()
	plan, err := s.Solve(context.Background(), tasks, workers, cost.NewLedger(workers, 5))
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Less(t, elapsed, time.Second, "solve was not bounded by the timeout")
	assert.Equal(t, contracts.StrategyGreedy, plan.Strategy)
	assert.Contains(t, plan.FallbackReason, CauseTimeout)
}

func TestCombinatorial_CanceledParentStopsWaiting(t *testing.T) {
	workers := []contracts.Worker{{ID: "a", Rate: 30, HoursPerDay: 8}}
	tasks := contracts.ExecutionOrder{{ID: "t1", Hours: 4, Priority: 3}}
	backend := sleepyBackend{delay: 2 * time.Second, sol: &Solution{Assignment: []int{0}, Confidence: 1}}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	plan, err := NewCombinatorialSolver(backend, CombinatorialOptions{}).Solve(ctx, tasks, workers, cost.NewLedger(workers, 5))
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
	assert.Contains(t, plan.FallbackReason, CauseTimeout)
}

package orchestration

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladislavFirsov/staffplan/contracts"
	"github.com/VladislavFirsov/staffplan/internal/solver"
)

// countingEngine records how many runs it served.
type countingEngine struct {
	inner contracts.Engine
	runs  atomic.Int32
}

func (c *countingEngine) RunSchedule(ctx context.Context, req contracts.ScheduleRequest) (*contracts.ScheduleResult, error) {
	c.runs.Add(1)
	return c.inner.RunSchedule(ctx, req)
}

func TestCompare_DefaultStrategies(t *testing.T) {
	e := newTestEngine(t, solver.NewExhaustiveBackend(0), nil)

	got, err := Compare(context.Background(), e, teamRequest())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, contracts.StrategyGreedy, got[0].Strategy)
	assert.Equal(t, contracts.StrategyCombinatorial, got[1].Strategy)
	for _, c := range got {
		require.NoError(t, c.Err)
		assert.Equal(t, c.Strategy, c.Result.Plan.RequestedStrategy)
		assert.Len(t, c.Result.Plan.Assignments, 4)
	}
	assert.NotEqual(t, got[0].Result.Plan.RunID, got[1].Result.Plan.RunID)
}

func TestCompare_PreservesOrder(t *testing.T) {
	e := newTestEngine(t, nil, nil)
	strategies := []contracts.StrategyName{
		contracts.StrategyCombinatorial, contracts.StrategyGreedy, contracts.StrategyCombinatorial,
		contracts.StrategyGreedy, contracts.StrategyGreedy, contracts.StrategyCombinatorial,
	}

	got, err := Compare(context.Background(), e, scenarioA(), strategies...)
	require.NoError(t, err)
	require.Len(t, got, len(strategies))
	for i, c := range got {
		assert.Equal(t, strategies[i], c.Strategy, "position %d", i)
		require.NoError(t, c.Err)
	}
}

func TestCompare_UnknownStrategyRunsNothing(t *testing.T) {
	e := &countingEngine{inner: newTestEngine(t, nil, nil)}

	_, err := Compare(context.Background(), e, scenarioA(), contracts.StrategyGreedy, "simplex")
	assert.ErrorIs(t, err, contracts.ErrInvalidInput)
	assert.Zero(t, e.runs.Load())
}

func TestCompare_PerStrategyErrors(t *testing.T) {
	req := scenarioA()
	req.DeadlineDays = 2

	got, err := Compare(context.Background(), newTestEngine(t, nil, nil), req)
	require.NoError(t, err)
	for _, c := range got {
		assert.Nil(t, c.Result)
		assert.ErrorIs(t, c.Err, contracts.ErrInfeasible)
	}
}

func TestCompare_NilEngine(t *testing.T) {
	_, err := Compare(context.Background(), nil, scenarioA())
	assert.ErrorIs(t, err, contracts.ErrInvalidInput)
}

package orchestration

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/VladislavFirsov/staffplan/contracts"
)

// DefaultCompareParallelism bounds concurrent runs in Compare.
const DefaultCompareParallelism = 4

// Comparison is the outcome of one strategy in a Compare call.
// Exactly one of Result and Err is set.
type Comparison struct {
	Strategy contracts.StrategyName
	Result   *contracts.ScheduleResult
	Err      error
}

// Compare runs the same request once per strategy and returns the outcomes in
// the order the strategies were given. An empty list compares greedy with
// combinatorial.
//
// Each run is independent: a failing strategy is reported in its Comparison
// and never cancels the others. The returned error is non-nil only for an
// unknown strategy name, in which case nothing runs.
//
// Thread-safety: relies on the engine's per-run isolation; runs share only
// the read-only request.
func Compare(ctx context.Context, engine contracts.Engine, req contracts.ScheduleRequest, strategies ...contracts.StrategyName) ([]Comparison, error) {
	if engine == nil {
		return nil, contracts.ErrInvalidInput
	}
	if len(strategies) == 0 {
		strategies = []contracts.StrategyName{contracts.StrategyGreedy, contracts.StrategyCombinatorial}
	}
	for _, s := range strategies {
		if !s.Valid() {
			return nil, fmt.Errorf("unknown strategy %q: %w", s, contracts.ErrInvalidInput)
		}
	}

	out := make([]Comparison, len(strategies))
	var g errgroup.Group
	g.SetLimit(DefaultCompareParallelism)

	for i, s := range strategies {
		g.Go(func() error {
			r := req
			r.Strategy = s
			res, err := engine.RunSchedule(ctx, r)
			out[i] = Comparison{Strategy: s, Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return out, nil
}

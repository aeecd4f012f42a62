package solver

import (
	"context"
	"errors"
	"fmt"

	"github.com/VladislavFirsov/staffplan/contracts"
)

// Backend solves a formulated Problem. Implementations should honour ctx and
// report ErrSolverUnavailable when they cannot attempt the problem at all.
// The combinatorial solver stops waiting once ctx ends, whether or not the
// backend notices.
type Backend interface {
	Name() string
	Solve(ctx context.Context, p *Problem) (*Solution, error)
}

// =============================================================================
// Unavailable
// =============================================================================

// UnavailableBackend never solves. It stands in when the capability is disabled.
type UnavailableBackend struct {
	Reason string
}

func (b UnavailableBackend) Name() string { return "unavailable" }

func (b UnavailableBackend) Solve(context.Context, *Problem) (*Solution, error) {
	if b.Reason != "" {
		return nil, fmt.Errorf("%s: %w", b.Reason, contracts.ErrSolverUnavailable)
	}
	return nil, contracts.ErrSolverUnavailable
}

// =============================================================================
// Auto
// =============================================================================

// AutoBackend solves exactly when the exact backend accepts the problem and
// approximately otherwise.
type AutoBackend struct {
	Exact  *ExhaustiveBackend
	Approx *AnnealingBackend
}

// NewAutoBackend creates an AutoBackend from its two parts.
func NewAutoBackend(exact *ExhaustiveBackend, approx *AnnealingBackend) *AutoBackend {
	return &AutoBackend{Exact: exact, Approx: approx}
}

func (b *AutoBackend) Name() string { return "auto" }

func (b *AutoBackend) Solve(ctx context.Context, p *Problem) (*Solution, error) {
	if b.Exact != nil {
		sol, err := b.Exact.Solve(ctx, p)
		if err == nil || !errors.Is(err, contracts.ErrSolverUnavailable) || b.Approx == nil {
			return sol, err
		}
	}
	if b.Approx == nil {
		return nil, contracts.ErrSolverUnavailable
	}
	return b.Approx.Solve(ctx, p)
}

package contracts

import (
	"fmt"
	"strings"
)

// StrategyName identifies a solver strategy.
type StrategyName string

const (
	StrategyGreedy        StrategyName = "greedy"
	StrategyCombinatorial StrategyName = "combinatorial"
)

func (s StrategyName) String() string {
	return string(s)
}

// Valid reports whether s names a known strategy.
func (s StrategyName) Valid() bool {
	switch s {
	case StrategyGreedy, StrategyCombinatorial:
		return true
	default:
		return false
	}
}

// ParseStrategy parses a strategy name case-insensitively.
// An empty string parses to the empty StrategyName, meaning "engine default".
func ParseStrategy(s string) (StrategyName, error) {
	name := StrategyName(strings.ToLower(strings.TrimSpace(s)))
	if name == "" || name.Valid() {
		return name, nil
	}
	return "", fmt.Errorf("unknown strategy %q: %w", s, ErrInvalidInput)
}

func (s Severity) String() string {
	return string(s)
}

// Rank orders severities: low < medium < high. Unknown values rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	default:
		return 0
	}
}

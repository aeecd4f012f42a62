package cost

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/VladislavFirsov/staffplan/contracts"
)

func TestSkillMatch(t *testing.T) {
	tests := []struct {
		name     string
		have     []string
		required []string
		want     int
	}{
		{"no requirement is perfect", []string{"go"}, nil, 100},
		{"no requirement and no skills", nil, []string{}, 100},
		{"full match", []string{"python", "sql"}, []string{"python"}, 100},
		{"case insensitive", []string{"PyThOn"}, []string{"python"}, 100},
		{"whitespace trimmed", []string{" go "}, []string{"Go"}, 100},
		{"partial rounds down", []string{"go"}, []string{"go", "sql", "k8s"}, 33},
		{"two of three", []string{"go", "sql"}, []string{"go", "sql", "k8s"}, 66},
		{"none", []string{"java"}, []string{"go"}, 0},
		{"worker without skills", nil, []string{"go"}, 0},
		{"duplicate required tags count once", []string{"go"}, []string{"go", "GO", "sql"}, 50},
		{"blank required tags ignored", []string{"go"}, []string{"", "  "}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SkillMatch(tt.have, tt.required))
		})
	}
}

func TestScorePair_Formula(t *testing.T) {
	w := contracts.Worker{ID: "alice", Rate: 50, HoursPerDay: 8, Skills: []string{"python"}}
	task := contracts.Task{ID: "api", Hours: 40, Priority: 3, RequiredSkills: []string{"python", "sql"}}

	s := ScorePair(w, task)

	assert.Equal(t, contracts.Money(2000), s.Cost)
	assert.Equal(t, 50, s.SkillMatch)
	want := (1.0 / 2001.0) * math.Pow(0.5, 0.6)
	assert.InDelta(t, want, s.Amplitude, 1e-15)
}

func TestScorePair_NoRequiredSkills(t *testing.T) {
	task := contracts.Task{ID: "docs", Hours: 10, Priority: 5}
	for _, skills := range [][]string{nil, {"anything"}, {"go", "rust"}} {
		s := ScorePair(contracts.Worker{ID: "w", Rate: 10, HoursPerDay: 8, Skills: skills}, task)
		assert.Equal(t, 100, s.SkillMatch)
		assert.InDelta(t, 1.0/101.0, s.Amplitude, 1e-15)
	}
}

func TestScorePair_ZeroSkillMatchHasZeroAmplitude(t *testing.T) {
	s := ScorePair(
		contracts.Worker{ID: "w", Rate: 10, HoursPerDay: 8, Skills: []string{"java"}},
		contracts.Task{ID: "t", Hours: 1, Priority: 1, RequiredSkills: []string{"go"}},
	)
	assert.Equal(t, 0, s.SkillMatch)
	assert.Equal(t, 0.0, s.Amplitude)
}

// TestScorePair_MonotonicInRate: lowering the rate never lowers the amplitude.
func TestScorePair_MonotonicInRate(t *testing.T) {
	task := contracts.Task{ID: "t", Hours: 12, Priority: 4, RequiredSkills: []string{"go", "sql"}}
	prev := -1.0
	for rate := 200.0; rate >= 1; rate -= 7.5 {
		s := ScorePair(contracts.Worker{ID: "w", Rate: contracts.Money(rate), HoursPerDay: 8, Skills: []string{"go"}}, task)
		assert.GreaterOrEqual(t, s.Amplitude, prev, "rate %v", rate)
		prev = s.Amplitude
	}
}

// TestScorePair_MonotonicInSkill: more matched skills never lowers the amplitude.
func TestScorePair_MonotonicInSkill(t *testing.T) {
	task := contracts.Task{ID: "t", Hours: 12, Priority: 5, RequiredSkills: []string{"a", "b", "c", "d"}}
	prev := -1.0
	for n := 0; n <= 4; n++ {
		skills := []string{"a", "b", "c", "d"}[:n]
		s := ScorePair(contracts.Worker{ID: "w", Rate: 30, HoursPerDay: 8, Skills: skills}, task)
		assert.GreaterOrEqual(t, s.Amplitude, prev, "matched %d", n)
		prev = s.Amplitude
	}
}

// TestScorePair_PrioritySharpensPenalty: for a partial match a higher priority
// yields a lower amplitude.
func TestScorePair_PrioritySharpensPenalty(t *testing.T) {
	w := contracts.Worker{ID: "w", Rate: 30, HoursPerDay: 8, Skills: []string{"a"}}
	low := ScorePair(w, contracts.Task{ID: "t", Hours: 5, Priority: 1, RequiredSkills: []string{"a", "b"}})
	high := ScorePair(w, contracts.Task{ID: "t", Hours: 5, Priority: 5, RequiredSkills: []string{"a", "b"}})
	assert.Greater(t, low.Amplitude, high.Amplitude)
}

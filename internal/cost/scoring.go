package cost

import (
	"math"
	"strings"

	"github.com/VladislavFirsov/staffplan/contracts"
)

// Score is the match quality of a (worker, task) pair.
type Score struct {
	Amplitude  float64
	Cost       contracts.Money
	SkillMatch int // percent, rounded down
}

// ScorePair computes the amplitude for a worker/task pair.
//
//	cost      = hours * rate
//	amplitude = 1/(cost+1) * (skillMatch/100) ^ (priority/5)
//
// Lower cost or higher skill match never decreases the amplitude.
func ScorePair(worker contracts.Worker, task contracts.Task) Score {
	match := SkillMatch(worker.Skills, task.RequiredSkills)
	cost := contracts.Money(float64(task.Hours) * float64(worker.Rate))

	costFactor := 1.0 / (float64(cost) + 1)
	skillFactor := float64(match) / 100
	priorityFactor := float64(task.Priority) / contracts.MaxPriority

	return Score{
		Amplitude:  costFactor * math.Pow(skillFactor, priorityFactor),
		Cost:       cost,
		SkillMatch: match,
	}
}

// SkillMatch returns |have ∩ required| / |required| * 100, rounded down.
// An empty requirement is a perfect match. Tags compare case-insensitively.
func SkillMatch(have, required []string) int {
	req := SkillSet(required)
	if len(req) == 0 {
		return 100
	}
	owned := SkillSet(have)

	matched := 0
	for skill := range req {
		if owned[skill] {
			matched++
		}
	}
	return matched * 100 / len(req)
}

// SkillSet normalizes tags into a set. Blank tags are dropped.
func SkillSet(tags []string) map[string]bool {
	set := make(map[string]bool, len(tags))
	for _, tag := range tags {
		norm := strings.ToLower(strings.TrimSpace(tag))
		if norm == "" {
			continue
		}
		set[norm] = true
	}
	return set
}

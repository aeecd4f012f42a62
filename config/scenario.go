// Package config loads scenario files and engine settings for the staffplan hosts.
package config

import (
	"strings"

	"github.com/VladislavFirsov/staffplan/contracts"
)

// ScenarioConfig is one planning problem as written in a scenario file.
type ScenarioConfig struct {
	Name         string         `yaml:"name,omitempty" json:"name,omitempty"`
	Budget       float64        `yaml:"budget" json:"budget"`
	DeadlineDays float64        `yaml:"deadline" json:"deadline"`
	Strategy     string         `yaml:"strategy,omitempty" json:"strategy,omitempty"`
	Workers      []WorkerConfig `yaml:"workers" json:"workers"`
	Tasks        []TaskConfig   `yaml:"tasks" json:"tasks"`
}

// WorkerConfig describes one worker.
type WorkerConfig struct {
	Name        string   `yaml:"name" json:"name"`
	Rate        float64  `yaml:"rate" json:"rate"`
	HoursPerDay float64  `yaml:"hours_per_day" json:"hours_per_day"`
	Skills      []string `yaml:"skills,omitempty" json:"skills,omitempty"`
}

// TaskConfig describes one task.
type TaskConfig struct {
	Name           string   `yaml:"name" json:"name"`
	Hours          float64  `yaml:"hours" json:"hours"`
	Priority       int      `yaml:"priority" json:"priority"`
	Dependencies   []string `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
	RequiredSkills []string `yaml:"required_skills,omitempty" json:"required_skills,omitempty"`
}

// ToRequest converts the scenario to an engine request. Names are trimmed;
// the strategy is parsed leniently and an unparsable value is passed through
// so the engine reports it.
func (s *ScenarioConfig) ToRequest() contracts.ScheduleRequest {
	req := contracts.ScheduleRequest{
		Budget:       contracts.Money(s.Budget),
		DeadlineDays: contracts.Days(s.DeadlineDays),
		Workers:      make([]contracts.Worker, len(s.Workers)),
		Tasks:        make([]contracts.Task, len(s.Tasks)),
		Strategy:     contracts.StrategyName(strings.ToLower(strings.TrimSpace(s.Strategy))),
	}

	for i, w := range s.Workers {
		req.Workers[i] = contracts.Worker{
			ID:          contracts.WorkerID(strings.TrimSpace(w.Name)),
			Rate:        contracts.Money(w.Rate),
			HoursPerDay: contracts.Hours(w.HoursPerDay),
			Skills:      w.Skills,
		}
	}

	for i, t := range s.Tasks {
		deps := make([]contracts.TaskID, 0, len(t.Dependencies))
		for _, d := range t.Dependencies {
			deps = append(deps, contracts.TaskID(strings.TrimSpace(d)))
		}
		req.Tasks[i] = contracts.Task{
			ID:             contracts.TaskID(strings.TrimSpace(t.Name)),
			Hours:          contracts.Hours(t.Hours),
			Priority:       t.Priority,
			Deps:           deps,
			RequiredSkills: t.RequiredSkills,
		}
	}

	return req
}

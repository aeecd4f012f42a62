package cost

import (
	"github.com/VladislavFirsov/staffplan/contracts"
)

// Summarize derives the aggregate figures of a plan. It is pure: the same plan
// and inputs always produce the same totals.
//
// Completion time is the busiest worker's assigned hours divided by that
// worker's hours per day. Assignments naming unknown workers count toward cost
// but not toward completion time.
func Summarize(plan *contracts.Plan, workers []contracts.Worker, budget contracts.Money, deadline contracts.Days) contracts.Totals {
	totals := contracts.Totals{
		WorkerLoad:     make(map[contracts.WorkerID]contracts.Hours),
		TasksPerWorker: make(map[contracts.WorkerID]int),
	}

	if plan != nil {
		for _, a := range plan.Assignments {
			totals.TotalCost += a.Cost
			totals.WorkerLoad[a.WorkerID] += a.Hours
			totals.TasksPerWorker[a.WorkerID]++
		}
	}

	hoursPerDay := make(map[contracts.WorkerID]contracts.Hours, len(workers))
	for _, w := range workers {
		hoursPerDay[w.ID] = w.HoursPerDay
	}

	var completion contracts.Days
	for id, load := range totals.WorkerLoad {
		hpd, ok := hoursPerDay[id]
		if !ok || hpd <= 0 {
			continue
		}
		days := contracts.Days(float64(load) / float64(hpd))
		if days > completion {
			completion = days
		}
	}

	totals.CompletionDays = completion
	totals.BudgetRemaining = budget - totals.TotalCost
	totals.TimeBuffer = deadline - completion
	if budget > 0 {
		totals.BudgetUsagePercent = float64(totals.TotalCost) / float64(budget) * 100
	}

	return totals
}

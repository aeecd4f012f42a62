package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/VladislavFirsov/staffplan/api"
	"github.com/VladislavFirsov/staffplan/contracts"
)

// Output formats accepted by --format.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00BFFF"))
	noteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

	severityStyles = map[string]lipgloss.Style{
		"high":   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		"medium": lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		"low":    lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	}
)

// render writes v in the requested format. The table format is delegated
// to tableFn.
func render(w io.Writer, format string, v any, tableFn func(io.Writer) error) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case FormatTable, "":
		return tableFn(w)
	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
	}
}

// renderSchedule writes a human-readable plan: assignments, totals, risks.
func renderSchedule(w io.Writer, resp *api.ScheduleResponse) error {
	var b strings.Builder

	strategy := resp.StrategyUsed
	if resp.StrategyRequested != "" && resp.StrategyRequested != resp.StrategyUsed {
		strategy = fmt.Sprintf("%s (requested %s)", resp.StrategyUsed, resp.StrategyRequested)
	}
	fmt.Fprintf(&b, "%s %s\n", titleStyle.Render("Plan"), noteStyle.Render(resp.RunID))
	fmt.Fprintf(&b, "Strategy: %s\n", strategy)
	if resp.FallbackReason != "" {
		fmt.Fprintf(&b, "%s\n", noteStyle.Render("Fallback: "+resp.FallbackReason))
	}
	b.WriteString("\n")

	rows := make([][]string, 0, len(resp.Assignments))
	for _, a := range resp.Assignments {
		rows = append(rows, []string{
			a.Task,
			a.Worker,
			fmt.Sprintf("%.1f", a.Hours),
			fmt.Sprintf("%.2f", a.Cost),
			fmt.Sprintf("%d%%", a.SkillMatch),
		})
	}
	b.WriteString(newTable([]string{"Task", "Worker", "Hours", "Cost", "Skill"}, rows))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Total cost:       %.2f\n", resp.TotalCost)
	fmt.Fprintf(&b, "Budget remaining: %.2f (%.1f%% used)\n", resp.BudgetRemaining, resp.BudgetUsagePercent)
	fmt.Fprintf(&b, "Completion:       %.1f days\n", resp.CompletionTime)
	fmt.Fprintf(&b, "Time buffer:      %.1f days\n", resp.TimeBuffer)

	if len(resp.Risks) > 0 {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("Risks"))
		b.WriteString("\n")
		for _, r := range bySeverity(resp.Risks) {
			style, ok := severityStyles[r.Severity]
			if !ok {
				style = cellStyle
			}
			fmt.Fprintf(&b, "  %s %s\n", style.Render("["+r.Severity+"]"), r.Message)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// bySeverity returns risks ordered high to low. Equal severities keep the
// evaluator's category order.
func bySeverity(risks []api.RiskDTO) []api.RiskDTO {
	sorted := slices.Clone(risks)
	slices.SortStableFunc(sorted, func(a, b api.RiskDTO) int {
		return contracts.Severity(b.Severity).Rank() - contracts.Severity(a.Severity).Rank()
	})
	return sorted
}

// renderComparison writes one summary row per strategy.
func renderComparison(w io.Writer, resp *api.CompareResponse) error {
	rows := make([][]string, 0, len(resp.Results))
	for _, e := range resp.Results {
		if e.Error != nil {
			rows = append(rows, []string{e.Strategy, "-", "-", "-", "-", e.Error.Code + ": " + e.Error.Message})
			continue
		}
		r := e.Result
		rows = append(rows, []string{
			e.Strategy,
			r.StrategyUsed,
			fmt.Sprintf("%.2f", r.TotalCost),
			fmt.Sprintf("%.1f", r.CompletionTime),
			fmt.Sprintf("%d", len(r.Risks)),
			r.FallbackReason,
		})
	}

	out := newTable([]string{"Requested", "Used", "Cost", "Days", "Risks", "Note"}, rows)
	_, err := io.WriteString(w, out+"\n")
	return err
}

// planLines renders a plan as one line per assignment plus totals, in a
// stable form suitable for diffing.
func planLines(resp *api.ScheduleResponse) []string {
	lines := make([]string, 0, len(resp.Assignments)+4)
	for _, a := range resp.Assignments {
		lines = append(lines, fmt.Sprintf("%s -> %s (%.1fh, %.2f, skill %d%%)\n", a.Task, a.Worker, a.Hours, a.Cost, a.SkillMatch))
	}

	workers := make([]string, 0, len(resp.WorkerLoad))
	for id := range resp.WorkerLoad {
		workers = append(workers, id)
	}
	slices.Sort(workers)
	for _, id := range workers {
		lines = append(lines, fmt.Sprintf("load %s: %.1fh\n", id, resp.WorkerLoad[id]))
	}

	lines = append(lines,
		fmt.Sprintf("total cost: %.2f\n", resp.TotalCost),
		fmt.Sprintf("completion: %.1f days\n", resp.CompletionTime),
	)
	return lines
}

func newTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.Render()
}

package cmd

import (
	"fmt"
	"io"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/VladislavFirsov/staffplan/api"
	"github.com/VladislavFirsov/staffplan/contracts"
	"github.com/VladislavFirsov/staffplan/internal/orchestration"
)

type compareOptions struct {
	input      string
	strategies []string
	format     string
	diff       bool
}

func newCompareCommand(global *globalOptions) *cobra.Command {
	opts := &compareOptions{}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run several strategies on the same scenario",
		Long: `Run the scenario once per strategy, concurrently, and print the outcomes
side by side. A strategy that fails is reported in its row and does not
stop the others.

With --diff the plans of the first two successful strategies are printed
as a unified diff.

Example:
  staffplan compare --input team.yaml
  staffplan compare --input team.yaml --strategies greedy,combinatorial --diff`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompare(cmd, global, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "scenario file (required)")
	cmd.Flags().StringSliceVar(&opts.strategies, "strategies", nil, "strategies to run (default greedy,combinatorial)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", FormatTable, "output format (table, json, yaml)")
	cmd.Flags().BoolVar(&opts.diff, "diff", false, "print a unified diff of the first two successful plans")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runCompare(cmd *cobra.Command, global *globalOptions, opts *compareOptions) error {
	strategies := make([]contracts.StrategyName, 0, len(opts.strategies))
	for _, raw := range opts.strategies {
		s, err := contracts.ParseStrategy(raw)
		if err != nil {
			return err
		}
		if s == "" {
			return fmt.Errorf("empty strategy name: %w", contracts.ErrInvalidInput)
		}
		strategies = append(strategies, s)
	}

	rt, err := global.loadRuntime(cmd, nil)
	if err != nil {
		return err
	}
	defer rt.close()
	scenario, err := loadScenario(opts.input, rt.logger)
	if err != nil {
		return err
	}

	results, err := orchestration.Compare(cmd.Context(), rt.engine, scenario.ToRequest(), strategies...)
	if err != nil {
		return err
	}
	resp := api.ComparisonsToResponse(results)

	out := cmd.OutOrStdout()
	if err := render(out, opts.format, resp, func(w io.Writer) error {
		return renderComparison(w, resp)
	}); err != nil {
		return err
	}

	if !opts.diff {
		return nil
	}
	text, err := planDiff(resp)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, text)
	return err
}

// planDiff diffs the first two successful results. It returns an
// explanatory line when fewer than two strategies succeeded.
func planDiff(resp *api.CompareResponse) (string, error) {
	var ok []api.CompareEntry
	for _, e := range resp.Results {
		if e.Result != nil {
			ok = append(ok, e)
			if len(ok) == 2 {
				break
			}
		}
	}
	if len(ok) < 2 {
		return "\nnothing to diff: fewer than two strategies produced a plan\n", nil
	}

	diff := difflib.UnifiedDiff{
		A:        planLines(ok[0].Result),
		B:        planLines(ok[1].Result),
		FromFile: ok[0].Strategy,
		ToFile:   ok[1].Strategy,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diffing plans: %w", err)
	}
	if text == "" {
		return fmt.Sprintf("\n%s and %s produced identical plans\n", ok[0].Strategy, ok[1].Strategy), nil
	}
	return "\n" + text, nil
}

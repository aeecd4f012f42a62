package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/VladislavFirsov/staffplan/api"
)

type runOptions struct {
	input    string
	strategy string
	format   string
}

func newRunCommand(global *globalOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compute a plan for a scenario file",
		Long: `Load a scenario (YAML or JSON), run the scheduling engine once and print
the plan with its cost, completion time and risks.

Example:
  staffplan run --input team.yaml
  staffplan run --input team.yaml --strategy combinatorial --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSchedule(cmd, global, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "scenario file (required)")
	cmd.Flags().StringVarP(&opts.strategy, "strategy", "s", "", "override the scenario strategy (greedy, combinatorial)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", FormatTable, "output format (table, json, yaml)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runSchedule(cmd *cobra.Command, global *globalOptions, opts *runOptions) error {
	rt, err := global.loadRuntime(cmd, nil)
	if err != nil {
		return err
	}
	defer rt.close()
	scenario, err := loadScenario(opts.input, rt.logger)
	if err != nil {
		return err
	}

	req := scenario.ToRequest()
	if err := strategyOverride(&req, opts.strategy); err != nil {
		return err
	}

	res, err := rt.engine.RunSchedule(cmd.Context(), req)
	if err != nil {
		return err
	}

	resp := api.ResultToResponse(res)
	return render(cmd.OutOrStdout(), opts.format, resp, func(w io.Writer) error {
		return renderSchedule(w, resp)
	})
}

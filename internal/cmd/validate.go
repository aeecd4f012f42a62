package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VladislavFirsov/staffplan/config"
)

func newValidateCommand(global *globalOptions) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a scenario file without scheduling it",
		Long: `Parse and validate a scenario: field ranges, unique names, a known
strategy and an acyclic dependency graph. Unknown dependencies are
reported as warnings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if input == "" {
				return fmt.Errorf("--input is required")
			}
			// A broken engine config would fail every other command, so report it here too.
			if _, err := config.LoadEngineConfig(global.configPath); err != nil {
				return err
			}

			scenario, err := config.NewLoader().LoadFromFile(input)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			name := scenario.Name
			if name == "" {
				name = input
			}
			fmt.Fprintf(out, "%s OK: %d workers, %d tasks\n", name, len(scenario.Workers), len(scenario.Tasks))
			for _, w := range config.NewValidator().Warnings(scenario) {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "scenario file (required)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

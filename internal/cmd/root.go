// Package cmd implements the staffplan command line.
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/VladislavFirsov/staffplan/config"
	"github.com/VladislavFirsov/staffplan/contracts"
	"github.com/VladislavFirsov/staffplan/internal/log"
	"github.com/VladislavFirsov/staffplan/internal/metrics"
	"github.com/VladislavFirsov/staffplan/internal/orchestration"
	"github.com/VladislavFirsov/staffplan/internal/telemetry"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	logLevel   string
}

// NewRootCommand builds the command tree. Each call returns an independent tree.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "staffplan",
		Short: "Assign workers to dependent tasks under a budget and a deadline",
		Long: `staffplan resolves task dependencies, assigns exactly one worker to every task
within each worker's capacity, and reports cost, completion time and risks.

Two strategies are available: greedy (fast, always available) and combinatorial
(optimizing, falls back to greedy whenever it cannot produce a trusted plan).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "engine config file (default ./staffplan.yaml if present)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		newRunCommand(opts),
		newCompareCommand(opts),
		newValidateCommand(opts),
		newServeCommand(opts),
	)
	return root
}

// ExecuteContext runs the root command.
func ExecuteContext(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// runtime bundles what the subcommands need to run the engine.
type runtime struct {
	config *config.EngineConfig
	logger *log.Logger
	engine contracts.Engine
	// closeTracing flushes spans recorded by the engine.
	closeTracing telemetry.ShutdownFunc
}

// close flushes pending spans. Export failures are logged, not returned.
func (r *runtime) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.closeTracing(ctx); err != nil {
		r.logger.WithError(err).Warn("flushing spans failed")
	}
}

// loadRuntime reads the engine config and builds a logger writing to the
// command's stderr, a tracer provider per the trace settings, and an engine.
// m may be nil. Callers must close the runtime.
func (o *globalOptions) loadRuntime(cmd *cobra.Command, m *metrics.Metrics) (*runtime, error) {
	cfg, err := config.LoadEngineConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	lc := cfg.LoggerConfig()
	lc.Output = cmd.ErrOrStderr()
	logger := log.New(lc).With("command", cmd.Name())

	tp, shutdown, err := telemetry.NewProvider(cmd.Context(), cfg.TelemetryConfig())
	if err != nil {
		return nil, err
	}
	if cfg.Trace.Enabled {
		logger.Debug("exporting spans", "endpoint", cfg.Trace.Endpoint, "sample_rate", cfg.Trace.SampleRate)
	}

	return &runtime{
		config:       cfg,
		logger:       logger,
		engine:       orchestration.NewEngineWithDefaults(cfg.EngineOptions(logger, m, tp)),
		closeTracing: shutdown,
	}, nil
}

// loadScenario loads and validates a scenario file, logging non-fatal warnings.
func loadScenario(path string, logger *log.Logger) (*config.ScenarioConfig, error) {
	if path == "" {
		return nil, fmt.Errorf("--input is required")
	}
	scenario, err := config.NewLoader().LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	for _, w := range config.NewValidator().Warnings(scenario) {
		logger.Warn("scenario warning", "input", path, "warning", w)
	}
	return scenario, nil
}

// strategyOverride applies a --strategy flag value on top of the scenario's.
func strategyOverride(req *contracts.ScheduleRequest, flag string) error {
	if flag == "" {
		return nil
	}
	s, err := contracts.ParseStrategy(flag)
	if err != nil {
		return err
	}
	req.Strategy = s
	return nil
}

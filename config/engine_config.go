package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/trace"

	"github.com/VladislavFirsov/staffplan/contracts"
	"github.com/VladislavFirsov/staffplan/internal/log"
	"github.com/VladislavFirsov/staffplan/internal/metrics"
	"github.com/VladislavFirsov/staffplan/internal/orchestration"
	"github.com/VladislavFirsov/staffplan/internal/risk"
	"github.com/VladislavFirsov/staffplan/internal/solver"
	"github.com/VladislavFirsov/staffplan/internal/telemetry"
)

// EnvPrefix prefixes environment overrides, e.g. STAFFPLAN_COMBINATORIAL_ENABLED.
const EnvPrefix = "STAFFPLAN"

// EngineConfig holds the engine and host settings.
type EngineConfig struct {
	DefaultStrategy string              `mapstructure:"default_strategy"`
	Combinatorial   CombinatorialConfig `mapstructure:"combinatorial"`
	Risk            RiskConfig          `mapstructure:"risk"`
	Log             LogConfig           `mapstructure:"log"`
	Server          ServerConfig        `mapstructure:"server"`
	Trace           TraceConfig         `mapstructure:"trace"`
}

// CombinatorialConfig holds the optimizing strategy settings.
type CombinatorialConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Backend         string        `mapstructure:"backend"`
	Timeout         time.Duration `mapstructure:"timeout"`
	Weights         WeightsConfig `mapstructure:"weights"`
	MinConfidence   float64       `mapstructure:"min_confidence"`
	Iterations      int           `mapstructure:"iterations"`
	Seed            uint64        `mapstructure:"seed"`
	ExhaustiveLimit float64       `mapstructure:"exhaustive_limit"`
}

// WeightsConfig holds the objective weights.
type WeightsConfig struct {
	Cost  float64 `mapstructure:"cost"`
	Time  float64 `mapstructure:"time"`
	Skill float64 `mapstructure:"skill"`
}

// RiskConfig holds the risk thresholds.
type RiskConfig struct {
	BudgetHighPercent     float64 `mapstructure:"budget_high_percent"`
	BudgetMediumPercent   float64 `mapstructure:"budget_medium_percent"`
	TimelineBufferPercent float64 `mapstructure:"timeline_buffer_percent"`
	LowSkillMatch         int     `mapstructure:"low_skill_match"`
	LowSkillHighCount     int     `mapstructure:"low_skill_high_count"`
	MaxTasksPerWorker     int     `mapstructure:"max_tasks_per_worker"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	AddSource bool   `mapstructure:"add_source"`
}

// ServerConfig holds HTTP host settings.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

// TraceConfig holds span export settings. Spans leave the process only when
// Enabled is set and Endpoint names an OTLP/HTTP collector.
type TraceConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	Endpoint   string  `mapstructure:"endpoint"`
	Insecure   bool    `mapstructure:"insecure"`
	SampleRate float64 `mapstructure:"sample_rate"`
}

// LoadEngineConfig reads configuration from an optional YAML file and the
// environment. With an empty path, ./staffplan.yaml is used when present.
// A missing default file is not an error; a missing explicit file is.
func LoadEngineConfig(path string) (*EngineConfig, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Configure paths
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("staffplan")
		v.SetConfigType("yaml")
	}

	// Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading engine config: %w", err)
		}
	}

	var cfg EngineConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding engine config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultEngineConfig returns the configuration used when nothing is set.
func DefaultEngineConfig() *EngineConfig {
	th := risk.DefaultThresholds()
	w := solver.DefaultWeights()
	return &EngineConfig{
		DefaultStrategy: string(contracts.StrategyGreedy),
		Combinatorial: CombinatorialConfig{
			Enabled:         true,
			Backend:         orchestration.BackendAuto,
			Timeout:         5 * time.Second,
			Weights:         WeightsConfig{Cost: w.Cost, Time: w.Time, Skill: w.Skill},
			MinConfidence:   solver.DefaultMinConfidence,
			Iterations:      solver.DefaultIterations,
			Seed:            1,
			ExhaustiveLimit: solver.DefaultExhaustiveLimit,
		},
		Risk: RiskConfig{
			BudgetHighPercent:     th.BudgetHighPercent,
			BudgetMediumPercent:   th.BudgetMediumPercent,
			TimelineBufferPercent: th.TimelineBufferPercent,
			LowSkillMatch:         th.LowSkillMatch,
			LowSkillHighCount:     th.LowSkillHighCount,
			MaxTasksPerWorker:     th.MaxTasksPerWorker,
		},
		Log: LogConfig{Level: "info", Format: "json"},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			MaxBodyBytes: 4 << 20,
		},
		Trace: TraceConfig{SampleRate: 1},
	}
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	d := DefaultEngineConfig()

	v.SetDefault("default_strategy", d.DefaultStrategy)

	v.SetDefault("combinatorial.enabled", d.Combinatorial.Enabled)
	v.SetDefault("combinatorial.backend", d.Combinatorial.Backend)
	v.SetDefault("combinatorial.timeout", d.Combinatorial.Timeout)
	v.SetDefault("combinatorial.weights.cost", d.Combinatorial.Weights.Cost)
	v.SetDefault("combinatorial.weights.time", d.Combinatorial.Weights.Time)
	v.SetDefault("combinatorial.weights.skill", d.Combinatorial.Weights.Skill)
	v.SetDefault("combinatorial.min_confidence", d.Combinatorial.MinConfidence)
	v.SetDefault("combinatorial.iterations", d.Combinatorial.Iterations)
	v.SetDefault("combinatorial.seed", d.Combinatorial.Seed)
	v.SetDefault("combinatorial.exhaustive_limit", d.Combinatorial.ExhaustiveLimit)

	v.SetDefault("risk.budget_high_percent", d.Risk.BudgetHighPercent)
	v.SetDefault("risk.budget_medium_percent", d.Risk.BudgetMediumPercent)
	v.SetDefault("risk.timeline_buffer_percent", d.Risk.TimelineBufferPercent)
	v.SetDefault("risk.low_skill_match", d.Risk.LowSkillMatch)
	v.SetDefault("risk.low_skill_high_count", d.Risk.LowSkillHighCount)
	v.SetDefault("risk.max_tasks_per_worker", d.Risk.MaxTasksPerWorker)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.add_source", d.Log.AddSource)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.max_body_bytes", d.Server.MaxBodyBytes)

	v.SetDefault("trace.enabled", d.Trace.Enabled)
	v.SetDefault("trace.endpoint", d.Trace.Endpoint)
	v.SetDefault("trace.insecure", d.Trace.Insecure)
	v.SetDefault("trace.sample_rate", d.Trace.SampleRate)
}

// Validate checks ranges. Returns the first violation wrapped around a config sentinel.
func (c *EngineConfig) Validate() error {
	if _, err := contracts.ParseStrategy(c.DefaultStrategy); err != nil {
		return fmt.Errorf("default_strategy=%s: %w", c.DefaultStrategy, ErrUnknownStrategy)
	}

	cc := c.Combinatorial
	switch strings.ToLower(cc.Backend) {
	case "", orchestration.BackendAuto, orchestration.BackendExhaustive, orchestration.BackendAnnealing:
	default:
		return fmt.Errorf("combinatorial.backend=%s: %w", cc.Backend, ErrUnknownBackend)
	}
	w := cc.Weights
	if w.Cost < 0 || w.Time < 0 || w.Skill < 0 || w.Cost+w.Time+w.Skill == 0 {
		return ErrInvalidWeights
	}
	if cc.MinConfidence < 0 || cc.MinConfidence > 1 {
		return ErrInvalidConfidence
	}
	if cc.Timeout < 0 {
		return fmt.Errorf("combinatorial.timeout: %w", ErrNegativeValue)
	}
	if cc.Iterations < 0 {
		return fmt.Errorf("combinatorial.iterations: %w", ErrNegativeValue)
	}
	if cc.ExhaustiveLimit < 0 {
		return fmt.Errorf("combinatorial.exhaustive_limit: %w", ErrNegativeValue)
	}

	r := c.Risk
	if r.BudgetMediumPercent < 0 || r.BudgetHighPercent < r.BudgetMediumPercent {
		return fmt.Errorf("risk.budget_high_percent must be >= risk.budget_medium_percent >= 0: %w", ErrInvalidThreshold)
	}
	if r.TimelineBufferPercent < 0 || r.TimelineBufferPercent > 100 {
		return fmt.Errorf("risk.timeline_buffer_percent must be within [0, 100]: %w", ErrInvalidThreshold)
	}
	if r.LowSkillMatch < 0 || r.LowSkillMatch > 100 {
		return fmt.Errorf("risk.low_skill_match must be within [0, 100]: %w", ErrInvalidThreshold)
	}
	if r.LowSkillHighCount < 1 || r.MaxTasksPerWorker < 0 {
		return fmt.Errorf("risk counts out of range: %w", ErrInvalidThreshold)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level=%s: %w", c.Log.Level, ErrInvalidLogLevel)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "json", "text", "console":
	default:
		return fmt.Errorf("log.format=%s: %w", c.Log.Format, ErrInvalidLogFormat)
	}

	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("server: %w", ErrNegativeValue)
	}

	if c.Trace.SampleRate < 0 || c.Trace.SampleRate > 1 {
		return fmt.Errorf("trace.sample_rate must be within [0, 1]: %w", ErrInvalidTrace)
	}
	if c.Trace.Enabled && strings.TrimSpace(c.Trace.Endpoint) == "" {
		return fmt.Errorf("trace.endpoint is required when trace.enabled: %w", ErrInvalidTrace)
	}
	return nil
}

// Thresholds returns the risk thresholds.
func (c *EngineConfig) Thresholds() risk.Thresholds {
	return risk.Thresholds{
		BudgetHighPercent:     c.Risk.BudgetHighPercent,
		BudgetMediumPercent:   c.Risk.BudgetMediumPercent,
		TimelineBufferPercent: c.Risk.TimelineBufferPercent,
		LowSkillMatch:         c.Risk.LowSkillMatch,
		LowSkillHighCount:     c.Risk.LowSkillHighCount,
		MaxTasksPerWorker:     c.Risk.MaxTasksPerWorker,
	}
}

// TelemetryConfig returns the span export settings.
func (c *EngineConfig) TelemetryConfig() telemetry.Config {
	return telemetry.Config{
		Enabled:     c.Trace.Enabled,
		Endpoint:    strings.TrimSpace(c.Trace.Endpoint),
		Insecure:    c.Trace.Insecure,
		SampleRate:  c.Trace.SampleRate,
		ServiceName: "staffplan",
	}
}

// LoggerConfig returns the logger settings.
func (c *EngineConfig) LoggerConfig() log.Config {
	lc := log.DefaultConfig()
	lc.Level = log.ParseLevel(c.Log.Level)
	lc.Format = log.ParseFormat(c.Log.Format)
	lc.AddSource = c.Log.AddSource
	return lc
}

// EngineOptions converts the configuration into engine assembly options.
// logger, m and tp are passed through and may be nil.
func (c *EngineConfig) EngineOptions(logger *log.Logger, m *metrics.Metrics, tp trace.TracerProvider) orchestration.EngineOptions {
	th := c.Thresholds()
	cc := c.Combinatorial
	return orchestration.EngineOptions{
		DefaultStrategy: contracts.StrategyName(strings.ToLower(strings.TrimSpace(c.DefaultStrategy))),
		Combinatorial: orchestration.CombinatorialOptions{
			Enabled:         cc.Enabled,
			Backend:         strings.ToLower(cc.Backend),
			Timeout:         cc.Timeout,
			Weights:         solver.Weights{Cost: cc.Weights.Cost, Time: cc.Weights.Time, Skill: cc.Weights.Skill},
			MinConfidence:   cc.MinConfidence,
			Iterations:      cc.Iterations,
			Seed:            cc.Seed,
			ExhaustiveLimit: cc.ExhaustiveLimit,
		},
		Thresholds:     &th,
		Logger:         logger,
		Metrics:        m,
		TracerProvider: tp,
	}
}

// Package config loads cbsplan settings.
//
// Priority: defaults -> YAML file -> CBSPLAN_* environment variables.
//
//	cfg, err := config.NewLoader().
//	    WithConfigPath("cbsplan.yaml").
//	    Load()
package config

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/cbsplan/astar"
	"github.com/katalvlaran/cbsplan/cbs"
)

// Sentinel errors for configuration values.
var (
	// ErrBadOrder indicates an unknown frontier order.
	ErrBadOrder = errors.New("config: planner.order must be \"cost\" or \"conflicts\"")
	// ErrBadTieBreak indicates an unknown tie-break policy.
	ErrBadTieBreak = errors.New("config: planner.tie_break must be \"high-g\", \"low-g\" or \"random\"")
	// ErrNegative indicates a negative budget or count.
	ErrNegative = errors.New("config: value must be non-negative")
)

// Config is the complete cbsplan configuration.
type Config struct {
	Planner PlannerConfig `yaml:"planner" env:"PLANNER"`
	Log     LogConfig     `yaml:"log" env:"LOG"`
	Metrics MetricsConfig `yaml:"metrics" env:"METRICS"`
}

// PlannerConfig mirrors cbs.Options in file form.
type PlannerConfig struct {
	// Order: cost | conflicts
	Order string `yaml:"order" env:"ORDER"`
	// TieBreak: high-g | low-g | random
	TieBreak      string        `yaml:"tie_break" env:"TIE_BREAK"`
	Seed          int64         `yaml:"seed" env:"SEED"`
	UseCAT        bool          `yaml:"use_cat" env:"USE_CAT"`
	Bypass        bool          `yaml:"bypass" env:"BYPASS"`
	MaxBypasses   int           `yaml:"max_bypasses" env:"MAX_BYPASSES"`
	Parallel      bool          `yaml:"parallel" env:"PARALLEL"`
	MaxExpansions int           `yaml:"max_expansions" env:"MAX_EXPANSIONS"`
	OracleLimit   int           `yaml:"oracle_limit" env:"ORACLE_LIMIT"`
	TimeLimit     time.Duration `yaml:"time_limit" env:"TIME_LIMIT"`
}

// LogConfig selects the logger level and encoding.
type LogConfig struct {
	// Level: debug | info | warn | error
	Level string `yaml:"level" env:"LEVEL"`
	// Format: console | json
	Format string `yaml:"format" env:"FORMAT"`
}

// MetricsConfig controls the Prometheus dump printed after a run.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" env:"ENABLED"`
}

// DefaultConfig returns the configuration matching cbs.DefaultOptions with
// console logging at warn level.
func DefaultConfig() *Config {
	d := cbs.DefaultOptions()

	return &Config{
		Planner: PlannerConfig{
			Order:       d.Order.String(),
			TieBreak:    d.TieBreak.String(),
			Seed:        d.Seed,
			UseCAT:      d.UseCAT,
			Bypass:      d.Bypass,
			MaxBypasses: d.MaxBypasses,
			Parallel:    d.Parallel,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Validate checks every enumerated and numeric field.
func (c *Config) Validate() error {
	if _, err := parseOrder(c.Planner.Order); err != nil {
		return err
	}
	if _, err := parseTieBreak(c.Planner.TieBreak); err != nil {
		return err
	}
	p := c.Planner
	for _, f := range []struct {
		name string
		v    int64
	}{
		{"planner.max_bypasses", int64(p.MaxBypasses)},
		{"planner.max_expansions", int64(p.MaxExpansions)},
		{"planner.oracle_limit", int64(p.OracleLimit)},
		{"planner.time_limit", int64(p.TimeLimit)},
	} {
		if f.v < 0 {
			return fmt.Errorf("%w: %s=%d", ErrNegative, f.name, f.v)
		}
	}

	return nil
}

// PlannerOptions converts the planner section into cbs options. logger and
// metrics are attached as given; either may be nil.
func (c *Config) PlannerOptions(logger *zap.Logger, metrics *cbs.Metrics) ([]cbs.Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	order, _ := parseOrder(c.Planner.Order)
	tb, _ := parseTieBreak(c.Planner.TieBreak)
	if logger == nil {
		logger = zap.NewNop()
	}
	p := c.Planner

	return []cbs.Option{
		cbs.WithOrder(order),
		cbs.WithTieBreak(tb),
		cbs.WithSeed(p.Seed),
		cbs.WithCAT(p.UseCAT),
		cbs.WithBypass(p.Bypass),
		cbs.WithMaxBypasses(p.MaxBypasses),
		cbs.WithParallel(p.Parallel),
		cbs.WithMaxExpansions(p.MaxExpansions),
		cbs.WithOracleLimit(p.OracleLimit),
		cbs.WithTimeLimit(p.TimeLimit),
		cbs.WithLogger(logger),
		cbs.WithMetrics(metrics),
	}, nil
}

func parseOrder(s string) (cbs.Order, error) {
	switch s {
	case "", "cost":
		return cbs.CostFirst, nil
	case "conflicts":
		return cbs.ConflictsFirst, nil
	default:
		return cbs.CostFirst, fmt.Errorf("%w: got %q", ErrBadOrder, s)
	}
}

func parseTieBreak(s string) (astar.TieBreak, error) {
	switch s {
	case "", "high-g":
		return astar.PreferHighG, nil
	case "low-g":
		return astar.PreferLowG, nil
	case "random":
		return astar.Random, nil
	default:
		return astar.PreferHighG, fmt.Errorf("%w: got %q", ErrBadTieBreak, s)
	}
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/cbsplan/cbs"
	"github.com/katalvlaran/cbsplan/config"
	"github.com/katalvlaran/cbsplan/internal/logging"
	"github.com/katalvlaran/cbsplan/scenario"
)

// SolveOptions holds the solve flags that override the configuration.
type SolveOptions struct {
	Metrics       bool
	MaxExpansions int
	TimeLimit     time.Duration
}

// NewSolveCommand creates the solve command.
func NewSolveCommand(root *RootOptions) *cobra.Command {
	opts := &SolveOptions{}

	cmd := &cobra.Command{
		Use:   "solve <scenario.yaml>",
		Short: "Plan conflict-free trajectories for a scenario",
		Long: `Load a scenario, run Conflict-Based Search until a conflict-free plan is
found or a budget runs out, and print the plan.

Exit status is 0 when solved, 1 when there is no solution or a budget ran
out, and 2 when the scenario or configuration is invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "print Prometheus metrics to stderr after the run")
	cmd.Flags().IntVar(&opts.MaxExpansions, "max-expansions", 0, "constraint-tree expansion budget (0 = unbounded)")
	cmd.Flags().DurationVar(&opts.TimeLimit, "time-limit", 0, "wall-clock budget (0 = unbounded)")

	return cmd
}

func runSolve(cmd *cobra.Command, root *RootOptions, opts *SolveOptions, path string) error {
	out := &Formatter{Format: root.Output, Writer: cmd.OutOrStdout()}

	cfg, err := loadConfig(root)
	if err != nil {
		return fail(out, err)
	}
	if cmd.Flags().Changed("max-expansions") {
		cfg.Planner.MaxExpansions = opts.MaxExpansions
	}
	if cmd.Flags().Changed("time-limit") {
		cfg.Planner.TimeLimit = opts.TimeLimit
	}
	if opts.Metrics {
		cfg.Metrics.Enabled = true
	}

	log, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fail(out, WrapExitError(ExitCommandError, "logger", err))
	}
	defer func() { _ = log.Sync() }()

	f, err := scenario.Load(path)
	if err != nil {
		return fail(out, WrapExitError(ExitCommandError, "load scenario", err))
	}
	name := f.Name
	if name == "" {
		name = filepath.Base(path)
	}

	reg := prometheus.NewRegistry()
	var metrics *cbs.Metrics
	if cfg.Metrics.Enabled {
		metrics = cbs.NewMetrics(reg)
	}
	popts, err := cfg.PlannerOptions(log, metrics)
	if err != nil {
		return fail(out, WrapExitError(ExitCommandError, "configuration", err))
	}
	p, err := f.Build(popts...)
	if err != nil {
		return fail(out, WrapExitError(ExitCommandError, "build planner", err))
	}
	log.Info("solving",
		zap.String("scenario", name),
		zap.String("run_id", p.RunID()),
		zap.Int("agents", p.Agents()),
	)

	res, solveErr := p.Solve(cmd.Context())
	report := Report{Scenario: name, Stats: newStatsReport(res.Stats)}
	switch {
	case solveErr == nil:
		report.Result = "solved"
		report.Cost = res.Cost
		for i, t := range res.Paths {
			report.Agents = append(report.Agents, newAgentReport(f.Agents[i].Name, t))
		}
	case errors.Is(solveErr, cbs.ErrNoSolution):
		report.Result = "no_solution"
	case errors.Is(solveErr, cbs.ErrBudgetExhausted):
		report.Result = "budget_exhausted"
	case errors.Is(solveErr, context.Canceled), errors.Is(solveErr, context.DeadlineExceeded):
		report.Result = "cancelled"
	default:
		return fail(out, WrapExitError(ExitCommandError, "solve", solveErr))
	}
	log.Info("finished",
		zap.String("run_id", p.RunID()),
		zap.String("result", report.Result),
		zap.Duration("elapsed", res.Elapsed),
	)

	if err := out.Report(report); err != nil {
		return err
	}
	if metrics != nil {
		if err := writeMetrics(cmd.ErrOrStderr(), reg); err != nil {
			return WrapExitError(ExitCommandError, "metrics", err)
		}
	}
	if solveErr != nil {
		return WrapExitError(ExitFailure, report.Result, solveErr)
	}

	return nil
}

// loadConfig reads the configuration and applies the logging flags.
func loadConfig(root *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(root.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}
	if root.LogLevel != "" {
		cfg.Log.Level = root.LogLevel
	}
	if root.LogFormat != "" {
		cfg.Log.Format = root.LogFormat
	}

	return cfg, nil
}

// fail reports err on stdout in JSON mode and returns it for the exit code.
func fail(out *Formatter, err error) error {
	if out.Format == "json" {
		if werr := out.Error(err); werr != nil {
			return fmt.Errorf("%w (writing error: %v)", err, werr)
		}
	}
	return err
}

// writeMetrics dumps every gathered family in the text exposition format.
func writeMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

package cbs

import (
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/cbsplan/astar"
)

// Order selects the primary key of the frontier.
type Order int

const (
	// CostFirst orders by aggregate cost, then by conflict count.
	CostFirst Order = iota
	// ConflictsFirst orders by conflict count, then by aggregate cost.
	ConflictsFirst
)

// String returns "cost" or "conflicts".
func (o Order) String() string {
	if o == ConflictsFirst {
		return "conflicts"
	}

	return "cost"
}

// Options configures a Planner.
//
// Order          – frontier primary key (CostFirst by default).
// TieBreak       – oracle and frontier tie-break; astar.Random results depend on Seed.
// Seed           – seed of every random stream; 0 means a fixed default.
// UseCAT         – bias replanning away from other agents' segments.
// Bypass         – try equal-cost in-place replacement before branching.
// MaxBypasses    – bypasses allowed per CT node.
// Parallel       – replan the two children of a branch concurrently.
// MaxExpansions  – Solve budget in CT expansions; 0 means unbounded.
// OracleLimit    – A* expansion bound per oracle call; 0 means unbounded.
// TimeLimit      – Solve wall-clock budget; 0 means unbounded.
type Options struct {
	Order         Order
	TieBreak      astar.TieBreak
	Seed          int64
	UseCAT        bool
	Bypass        bool
	MaxBypasses   int
	Parallel      bool
	MaxExpansions int
	OracleLimit   int
	TimeLimit     time.Duration

	Logger  *zap.Logger
	Metrics *Metrics
}

// Option represents a functional option for configuring a Planner.
type Option func(*Options)

// DefaultOptions returns the planner defaults: cost-first frontier, high-g
// tie-break, CAT bias and bypass enabled with four bypasses per node,
// parallel branching, no budgets, a no-op logger and no metrics.
func DefaultOptions() Options {
	return Options{
		Order:       CostFirst,
		TieBreak:    astar.PreferHighG,
		UseCAT:      true,
		Bypass:      true,
		MaxBypasses: 4,
		Parallel:    true,
		Logger:      zap.NewNop(),
	}
}

// WithOptions replaces the whole option set.
func WithOptions(o Options) Option {
	return func(dst *Options) { *dst = o }
}

// WithOrder sets the frontier ordering.
func WithOrder(order Order) Option {
	return func(o *Options) { o.Order = order }
}

// WithTieBreak sets the tie-break policy.
func WithTieBreak(tb astar.TieBreak) Option {
	return func(o *Options) { o.TieBreak = tb }
}

// WithSeed sets the seed of all random streams.
func WithSeed(seed int64) Option {
	return func(o *Options) { o.Seed = seed }
}

// WithCAT enables or disables the conflict-avoidance table.
func WithCAT(on bool) Option {
	return func(o *Options) { o.UseCAT = on }
}

// WithBypass enables or disables bypass.
func WithBypass(on bool) Option {
	return func(o *Options) { o.Bypass = on }
}

// WithMaxBypasses bounds the bypasses performed on a single node.
// Panics on a negative value.
func WithMaxBypasses(n int) Option {
	if n < 0 {
		panic("cbs: MaxBypasses must be non-negative")
	}
	return func(o *Options) { o.MaxBypasses = n }
}

// WithParallel enables or disables concurrent child replanning.
func WithParallel(on bool) Option {
	return func(o *Options) { o.Parallel = on }
}

// WithMaxExpansions bounds Solve to n CT expansions.
func WithMaxExpansions(n int) Option {
	return func(o *Options) { o.MaxExpansions = n }
}

// WithOracleLimit bounds every A* call to n expansions.
func WithOracleLimit(n int) Option {
	return func(o *Options) { o.OracleLimit = n }
}

// WithTimeLimit bounds Solve by wall-clock time.
func WithTimeLimit(d time.Duration) Option {
	return func(o *Options) { o.TimeLimit = d }
}

// WithLogger sets the planner logger; nil restores the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithMetrics attaches planner metrics.
func WithMetrics(m *Metrics) Option {
	return func(o *Options) { o.Metrics = m }
}

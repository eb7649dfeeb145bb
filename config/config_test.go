package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cbsplan/astar"
	"github.com/katalvlaran/cbsplan/cbs"
	"github.com/katalvlaran/cbsplan/config"
)

func env(kv map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := kv[k]
		return v, ok
	}
}

func TestDefaultConfigMatchesPlannerDefaults(t *testing.T) {
	cfg, err := config.NewLoader().WithLookup(env(nil)).Load()
	require.NoError(t, err)

	opts, err := cfg.PlannerOptions(nil, nil)
	require.NoError(t, err)
	p := cbs.New[int](opts...)
	got := p.Options()
	want := cbs.DefaultOptions()
	require.Equal(t, want.Order, got.Order)
	require.Equal(t, want.TieBreak, got.TieBreak)
	require.Equal(t, want.UseCAT, got.UseCAT)
	require.Equal(t, want.Bypass, got.Bypass)
	require.Equal(t, want.MaxBypasses, got.MaxBypasses)
	require.Equal(t, want.Parallel, got.Parallel)
	require.NotNil(t, got.Logger)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cbsplan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
planner:
  order: conflicts
  tie_break: random
  seed: 7
  bypass: false
  max_expansions: 500
  time_limit: 2s
log:
  level: debug
  format: json
`), 0o600))

	cfg, err := config.NewLoader().
		WithConfigPath(path).
		WithLookup(env(map[string]string{
			"CBSPLAN_PLANNER_SEED":     "11",
			"CBSPLAN_PLANNER_PARALLEL": "false",
			"CBSPLAN_METRICS_ENABLED":  "true",
		})).
		Load()
	require.NoError(t, err)

	require.Equal(t, "conflicts", cfg.Planner.Order)
	require.Equal(t, int64(11), cfg.Planner.Seed, "environment wins over the file")
	require.False(t, cfg.Planner.Bypass)
	require.True(t, cfg.Planner.UseCAT, "untouched keys keep their defaults")
	require.False(t, cfg.Planner.Parallel)
	require.Equal(t, 500, cfg.Planner.MaxExpansions)
	require.Equal(t, 2*time.Second, cfg.Planner.TimeLimit)
	require.Equal(t, "debug", cfg.Log.Level)
	require.True(t, cfg.Metrics.Enabled)

	opts, err := cfg.PlannerOptions(nil, nil)
	require.NoError(t, err)
	got := cbs.New[int](opts...).Options()
	require.Equal(t, cbs.ConflictsFirst, got.Order)
	require.Equal(t, astar.Random, got.TieBreak)
	require.Equal(t, int64(11), got.Seed)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.NewLoader().
		WithConfigPath(filepath.Join(t.TempDir(), "absent.yaml")).
		WithLookup(env(nil)).
		Load()
	require.NoError(t, err)
	require.Equal(t, config.DefaultConfig(), cfg)
}

func TestLoad_Errors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want error
	}{
		{"BadOrder", map[string]string{"CBSPLAN_PLANNER_ORDER": "depth"}, config.ErrBadOrder},
		{"BadTieBreak", map[string]string{"CBSPLAN_PLANNER_TIE_BREAK": "coin"}, config.ErrBadTieBreak},
		{"NegativeBudget", map[string]string{"CBSPLAN_PLANNER_MAX_EXPANSIONS": "-1"}, config.ErrNegative},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.NewLoader().WithLookup(env(tc.env)).Load()
			require.ErrorIs(t, err, tc.want)
		})
	}

	_, err := config.NewLoader().WithLookup(env(map[string]string{"CBSPLAN_PLANNER_SEED": "x"})).Load()
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("planner: [\n"), 0o600))
	_, err = config.NewLoader().WithConfigPath(path).WithLookup(env(nil)).Load()
	require.Error(t, err)
}

func TestLoad_ProcessEnvironment(t *testing.T) {
	t.Setenv("CBSPLAN_LOG_LEVEL", "error")
	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, "error", cfg.Log.Level)
}

func TestValidate_ReportsFirstNegativeField(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Planner.MaxBypasses = -1
	cfg.Planner.MaxExpansions = -2
	cfg.Planner.TimeLimit = -time.Second

	for i := 0; i < 20; i++ {
		err := cfg.Validate()
		require.ErrorIs(t, err, config.ErrNegative)
		require.EqualError(t, err, "config: value must be non-negative: planner.max_bypasses=-1")
	}
}

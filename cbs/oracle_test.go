package cbs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cbsplan/cbs"
	"github.com/katalvlaran/cbsplan/gridworld"
)

func TestAStarOracle_Ladder(t *testing.T) {
	corridor := newWorld(t, gridworld.DefaultOptions(), "...")
	detour := newWorld(t, gridworld.DefaultOptions(), ".#.", "...")

	// Agent 1 parks on (1,0) for three ticks.
	cat := cbs.NewCAT(corridor.Time)
	cat.Insert(1, traj(st(1, 0, 0), st(1, 0, 1), st(1, 0, 2), st(1, 0, 3)))

	ladder := func(cutoff int) []cbs.EnvironmentContainer[state] {
		return []cbs.EnvironmentContainer[state]{
			{Name: "corridor", Env: corridor, Weight: 1, ConflictCutoff: cutoff},
			{Name: "detour", Env: detour, Weight: 1},
		}
	}
	req := func(cutoff int, c *cbs.CAT[state], cons ...cbs.Constraint[state]) cbs.PlanRequest[state] {
		return cbs.PlanRequest[state]{
			Agent:       0,
			Waypoints:   []state{st(0, 0, 0), st(2, 0, 0)},
			Ladder:      ladder(cutoff),
			Constraints: cons,
			CAT:         c,
		}
	}
	oracle := cbs.NewAStarOracle[state]()

	tests := []struct {
		name string
		req  cbs.PlanRequest[state]
		want int // number of states
	}{
		// The corridor route enters (1,0) and later leaves it: two collisions.
		{"CorridorOverCutoffFallsThrough", req(0, cat), 5},
		{"CorridorOneBelowCountFallsThrough", req(1, cat), 5},
		{"CorridorAtCutoff", req(2, cat), 3},
		{"NoCATTakesFirstRung", req(0, nil), 3},
		{"InfeasibleRungFallsThrough", req(5, nil, cbs.Constraint[state]{
			Agent: 0, From: st(1, 0, 0), To: st(1, 0, 30),
		}), 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := oracle.Plan(tc.req)
			require.True(t, ok)
			require.Len(t, got.States, tc.want)
			require.Equal(t, []int{0, tc.want - 1}, got.Waypoints)
			require.Equal(t, float64(tc.want-1), got.Cost)
		})
	}
}

func TestAStarOracle_Rejects(t *testing.T) {
	oracle := cbs.NewAStarOracle[state]()

	_, ok := oracle.Plan(cbs.PlanRequest[state]{Waypoints: []state{st(0, 0, 0)}})
	require.False(t, ok, "a single waypoint is not a route")

	_, ok = oracle.Plan(cbs.PlanRequest[state]{Waypoints: []state{st(0, 0, 0), st(1, 0, 0)}})
	require.False(t, ok, "an empty ladder cannot plan")

	blocked := newWorld(t, gridworld.DefaultOptions(), ".#.")
	_, ok = oracle.Plan(cbs.PlanRequest[state]{
		Waypoints: []state{st(0, 0, 0), st(2, 0, 0)},
		Ladder:    []cbs.EnvironmentContainer[state]{{Name: "blocked", Env: blocked, Weight: 1}},
	})
	require.False(t, ok)
}

func TestAStarOracle_LadderCanUndercutParent(t *testing.T) {
	open := newWorld(t, gridworld.DefaultOptions(), "...", "...")
	walled := newWorld(t, gridworld.DefaultOptions(), ".#.", ".#.", "...")

	cat := cbs.NewCAT(open.Time)
	cat.Insert(1, traj(st(1, 0, 0), st(1, 0, 1), st(1, 0, 2), st(1, 0, 3)))

	req := cbs.PlanRequest[state]{
		Agent:     0,
		Waypoints: []state{st(0, 0, 0), st(2, 0, 0)},
		Ladder: []cbs.EnvironmentContainer[state]{
			{Name: "open", Env: open, Weight: 1},
			{Name: "walled", Env: walled, Weight: 1},
		},
		CAT: cat,
	}
	oracle := cbs.NewAStarOracle[state]()

	// Unconstrained, the cheap straight route collides, so the walled rung wins.
	parent, ok := oracle.Plan(req)
	require.True(t, ok)
	require.Equal(t, 6.0, parent.Cost)

	// Forbidding (1,0) pushes the open rung onto a clean detour that is
	// cheaper than the walled route.
	req.Constraints = []cbs.Constraint[state]{{Agent: 0, From: st(1, 0, 0), To: st(1, 0, 30)}}
	child, ok := oracle.Plan(req)
	require.True(t, ok)
	require.Equal(t, 4.0, child.Cost)
	require.Less(t, child.Cost, parent.Cost)
}

func TestPlanner_MonotoneCost(t *testing.T) {
	w := newWorld(t, gridworld.DefaultOptions(), "...")
	single := agent("a", w, st(0, 0, 0), st(2, 0, 0))

	p := newPlanner(t, []cbs.Agent[state]{single})
	require.True(t, p.MonotoneCost())

	weighted := single
	weighted.Environments = []cbs.EnvironmentContainer[state]{{Name: "grid", Env: w, Weight: 1.5}}
	p = newPlanner(t, []cbs.Agent[state]{single, weighted})
	require.False(t, p.MonotoneCost())

	laddered := single
	laddered.Environments = append([]cbs.EnvironmentContainer[state]{{Name: "fast", Env: w, Weight: 1}}, single.Environments...)
	p = newPlanner(t, []cbs.Agent[state]{laddered})
	require.False(t, p.MonotoneCost())

	p = newPlanner(t, []cbs.Agent[state]{single})
	require.NoError(t, p.SetOracle(cbs.OracleFunc[state](func(cbs.PlanRequest[state]) (cbs.Trajectory[state], bool) {
		return cbs.Trajectory[state]{}, false
	})))
	require.False(t, p.MonotoneCost())
}

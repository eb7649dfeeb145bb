package cbs_test

import (
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cbsplan/cbs"
	"github.com/katalvlaran/cbsplan/gridworld"
)

type state = gridworld.State

// tb is the part of testing.TB the helpers need; *rapid.T satisfies it too.
type tb interface {
	require.TestingT
	Helper()
}

func st(x, y, t int) state { return state{X: x, Y: y, T: t} }

// newWorld builds a gridworld from '.'/'#' rows.
func newWorld(t tb, opts gridworld.Options, rows ...string) *gridworld.World {
	t.Helper()
	grid, err := gridworld.ParseRows(rows)
	require.NoError(t, err)
	w, err := gridworld.NewWorld(grid, opts)
	require.NoError(t, err)

	return w
}

// agent builds an agent with a single-container ladder.
func agent(name string, w *gridworld.World, wps ...state) cbs.Agent[state] {
	return cbs.Agent[state]{
		Name:      name,
		Waypoints: wps,
		Environments: []cbs.EnvironmentContainer[state]{
			{Name: "grid", Env: w, Weight: 1},
		},
	}
}

// newPlanner registers agents on a fresh planner.
func newPlanner(t tb, agents []cbs.Agent[state], opts ...cbs.Option) *cbs.Planner[state] {
	t.Helper()
	p := cbs.New[state](opts...)
	for i, a := range agents {
		idx, err := p.AddAgent(a)
		require.NoError(t, err)
		require.Equal(t, i, idx)
	}

	return p
}

// traj builds a single-leg trajectory with unit cost per step.
func traj(states ...state) cbs.Trajectory[state] {
	return cbs.Trajectory[state]{
		States:    states,
		Waypoints: []int{0, len(states) - 1},
		Cost:      float64(len(states) - 1),
	}
}

// requireTreeInvariants checks the single-agent delta on every feasible
// parent/child edge of p's tree, and monotone cost when p guarantees it.
func requireTreeInvariants(t tb, p *cbs.Planner[state]) {
	t.Helper()
	monotone := p.MonotoneCost()
	for i := 1; i < p.NodeCount(); i++ {
		n, ok := p.Node(i)
		require.True(t, ok)
		if !n.Satisfiable {
			continue
		}
		parent, ok := p.Node(n.Parent)
		require.True(t, ok)
		if monotone {
			require.GreaterOrEqual(t, n.Cost, parent.Cost-1e-9, "node %d cheaper than parent %d", i, n.Parent)
		}
		require.Equal(t, parent.Depth+1, n.Depth)

		var differ []int
		for a := range n.Paths {
			if !n.Paths[a].Equal(parent.Paths[a]) {
				differ = append(differ, a)
			}
		}
		if n.Bypasses == 0 {
			require.Equal(t, []int{n.Agent}, differ, "node %d must differ from its parent in agent %d only", i, n.Agent)
		}
	}
}

// requireConflictFree checks that no agent pair of a solved planner collides.
func requireConflictFree(t tb, p *cbs.Planner[state], env cbs.Collider[state]) {
	t.Helper()
	idx, ok := p.BestNode()
	require.True(t, ok)
	n, _ := p.Node(idx)
	for i := range n.Paths {
		for j := i + 1; j < len(n.Paths); j++ {
			c, found := cbs.FindConflict(env, i, n.Paths[i], j, n.Paths[j])
			require.False(t, found, "agents %d and %d collide: %+v", i, j, c)
		}
	}
}

func cbsFind(env cbs.Collider[state], a, b cbs.Trajectory[state]) (cbs.Conflict[state], bool) {
	return cbs.FindConflict(env, 0, a, 1, b)
}

func cbsCount(env cbs.Collider[state], a, b cbs.Trajectory[state]) int {
	return cbs.CountConflicts(env, a, b)
}

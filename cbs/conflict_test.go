package cbs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cbsplan/gridworld"
)

func TestFindConflict_EarliestWins(t *testing.T) {
	w := newWorld(t, gridworld.DefaultOptions(), "...", "...", "...")

	// Both agents enter (1,1) at t=1 and leave for (1,2) at t=2.
	a := traj(st(0, 1, 0), st(1, 1, 1), st(1, 2, 2))
	b := traj(st(1, 0, 0), st(1, 1, 1), st(1, 2, 2))

	c, ok := cbsFind(w, a, b)
	require.True(t, ok)
	require.Equal(t, 0.0, c.Time)
	require.Equal(t, 0, c.SegmentA)
	require.Equal(t, 0, c.SegmentB)
	require.Equal(t, 0, c.ConstraintA.Agent)
	require.Equal(t, st(1, 0, 0), c.ConstraintA.From, "A is kept out of B's segment")
	require.Equal(t, st(1, 1, 1), c.ConstraintA.To)
	require.Equal(t, 1, c.ConstraintB.Agent)
	require.Equal(t, st(0, 1, 0), c.ConstraintB.From)

	require.Equal(t, 2, cbsCount(w, a, b))
}

func TestFindConflict_NoOverlap(t *testing.T) {
	w := newWorld(t, gridworld.DefaultOptions(), "...", "...", "...")

	// Same cells, one tick apart: a following pattern, never simultaneous.
	a := traj(st(0, 0, 0), st(1, 0, 1), st(2, 0, 2))
	b := traj(st(0, 0, 1), st(1, 0, 2), st(2, 0, 3))
	_, ok := cbsFind(w, a, b)
	require.False(t, ok)
	require.Zero(t, cbsCount(w, a, b))
}

func TestFindConflict_FinishedAgentVanishes(t *testing.T) {
	w := newWorld(t, gridworld.DefaultOptions(), "...")

	// a stops at (1,0) at t=1; b passes through (1,0) at t=2.
	a := traj(st(0, 0, 0), st(1, 0, 1))
	b := traj(st(2, 0, 0), st(2, 0, 1), st(1, 0, 2), st(0, 0, 3))
	_, ok := cbsFind(w, a, b)
	require.False(t, ok)
}

func TestFindConflict_LateDeparture(t *testing.T) {
	w := newWorld(t, gridworld.DefaultOptions(), "...")

	// b departs from (1,0) at t=2, after a has crossed it.
	a := traj(st(0, 0, 0), st(1, 0, 1), st(2, 0, 2))
	b := traj(st(1, 0, 2), st(0, 0, 3))
	_, ok := cbsFind(w, a, b)
	require.False(t, ok)

	// Departing at t=1 from the cell a occupies collides.
	b = traj(st(1, 0, 1), st(0, 0, 2))
	c, ok := cbsFind(w, a, b)
	require.True(t, ok)
	require.Equal(t, 1.0, c.Time)
	require.Equal(t, 1, c.SegmentA)
	require.Equal(t, 0, c.SegmentB)
}

func TestFindConflict_Swap(t *testing.T) {
	w := newWorld(t, gridworld.DefaultOptions(), "..")
	a := traj(st(0, 0, 0), st(1, 0, 1))
	b := traj(st(1, 0, 0), st(0, 0, 1))
	_, ok := cbsFind(w, a, b)
	require.True(t, ok)
}

func TestFindConflict_DegenerateTrajectories(t *testing.T) {
	w := newWorld(t, gridworld.DefaultOptions(), "..")
	a := traj(st(0, 0, 0))
	b := traj(st(0, 0, 0), st(1, 0, 1))
	_, ok := cbsFind(w, a, b)
	require.False(t, ok)
}

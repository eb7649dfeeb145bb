package gridworld

import (
	"math"

	"github.com/katalvlaran/cbsplan/cbs"
)

var _ cbs.Environment[State] = (*World)(nil)

// Successors appends every free neighbour one tick later, plus a wait when
// AllowWait is set. Nothing is generated once s.T reaches the horizon.
func (w *World) Successors(s State, buf []State) []State {
	if s.T >= w.opts.Horizon {
		return buf
	}
	for _, d := range w.offsets {
		nx, ny := s.X+d[0], s.Y+d[1]
		if w.Free(nx, ny) {
			buf = append(buf, State{X: nx, Y: ny, T: s.T + 1})
		}
	}
	if w.opts.AllowWait {
		buf = append(buf, State{X: s.X, Y: s.Y, T: s.T + 1})
	}

	return buf
}

// Cost returns 1 for an orthogonal move, √2 for a diagonal one and WaitCost
// for a wait.
func (w *World) Cost(from, to State) float64 {
	dx, dy := to.X-from.X, to.Y-from.Y
	if dx == 0 && dy == 0 {
		return w.opts.WaitCost
	}

	return stepCost(dx, dy)
}

// Heuristic returns a lower bound on the cost from from to goal's cell,
// ignoring goal.T: the exact static distance with TrueDistance, otherwise
// Manhattan distance (Conn4) or octile distance (Conn8).
func (w *World) Heuristic(from, goal State) float64 {
	if w.opts.TrueDistance {
		if t, err := w.DistanceTable(goal.X, goal.Y); err == nil && w.InBounds(from.X, from.Y) {
			return t[w.index(from.X, from.Y)]
		}
	}
	dx, dy := abs(from.X-goal.X), abs(from.Y-goal.Y)
	if w.opts.Conn == Conn8 {
		lo, hi := min(dx, dy), max(dx, dy)
		return float64(hi-lo) + math.Sqrt2*float64(lo)
	}

	return float64(dx + dy)
}

// GoalTest reports whether s stands on goal's cell, at any tick.
func (w *World) GoalTest(s, goal State) bool { return s.X == goal.X && s.Y == goal.Y }

// Hash packs the cell index and tick; it is collision-free for grids and
// horizons below 2^32.
func (w *World) Hash(s State) uint64 {
	return uint64(uint32(s.T))<<32 | uint64(uint32(w.index(s.X, s.Y)))
}

// Time returns the tick of s.
func (w *World) Time(s State) float64 { return float64(s.T) }

// Collides reports whether two motions in the same tick clash: they end in
// the same cell, start in the same cell, or share a midpoint. The midpoint
// rule covers head-on swaps and crossing diagonals.
func (w *World) Collides(a0, a1, b0, b1 State) bool {
	switch {
	case a1.X == b1.X && a1.Y == b1.Y:
		return true
	case a0.X == b0.X && a0.Y == b0.Y:
		return true
	default:
		return a0.X+a1.X == b0.X+b1.X && a0.Y+a1.Y == b0.Y+b1.Y
	}
}

// Violates reports whether the motion from → to overlaps c's segment in
// time and collides with it.
func (w *World) Violates(from, to State, c cbs.Constraint[State]) bool {
	if !(from.T < c.To.T && c.From.T < to.T) {
		return false
	}

	return w.Collides(from, to, c.From, c.To)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}

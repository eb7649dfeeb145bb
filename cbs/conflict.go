package cbs

// Collider is the part of an Environment the conflict detector needs.
type Collider[S comparable] interface {
	Time(s S) float64
	Collides(a0, a1, b0, b1 S) bool
}

// sweep visits every pair of time-overlapping segments (i of a, j of b) whose
// motions collide, in increasing order of overlap start. visit returns false
// to stop early.
//
// Both trajectories are ordered by time and their segments tile disjoint
// intervals, so a two-pointer walk that advances the segment ending first
// meets every overlapping pair exactly once.
func sweep[S comparable](env Collider[S], a, b Trajectory[S], visit func(i, j int, at float64) bool) {
	na, nb := a.Segments(), b.Segments()
	var (
		i, j           int
		a0, a1, b0, b1 float64
	)
	for i < na && j < nb {
		a0, a1 = env.Time(a.States[i]), env.Time(a.States[i+1])
		b0, b1 = env.Time(b.States[j]), env.Time(b.States[j+1])
		if a0 < b1 && b0 < a1 &&
			env.Collides(a.States[i], a.States[i+1], b.States[j], b.States[j+1]) {
			if !visit(i, j, max(a0, b0)) {
				return
			}
		}
		switch {
		case a1 < b1:
			i++
		case b1 < a1:
			j++
		default:
			i++
			j++
		}
	}
}

// FindConflict returns the earliest collision between trajectory a of agent
// agentA and trajectory b of agent agentB, if any.
//
// Temporal overlap is tested before the spatial predicate; the predicate itself
// belongs to env.
//
// Complexity: O(len(a) + len(b)) predicate calls at most.
func FindConflict[S comparable](env Collider[S], agentA int, a Trajectory[S], agentB int, b Trajectory[S]) (Conflict[S], bool) {
	var (
		c     Conflict[S]
		found bool
	)
	sweep(env, a, b, func(i, j int, at float64) bool {
		c = Conflict[S]{
			A:           agentA,
			B:           agentB,
			ConstraintA: Constraint[S]{Agent: agentA, From: b.States[j], To: b.States[j+1]},
			ConstraintB: Constraint[S]{Agent: agentB, From: a.States[i], To: a.States[i+1]},
			WaypointA:   a.WaypointOf(i),
			WaypointB:   b.WaypointOf(j),
			SegmentA:    i,
			SegmentB:    j,
			Time:        at,
		}
		found = true
		return false
	})

	return c, found
}

// CountConflicts returns the number of colliding segment pairs between a and b.
func CountConflicts[S comparable](env Collider[S], a, b Trajectory[S]) int {
	var n int
	sweep(env, a, b, func(_, _ int, _ float64) bool {
		n++
		return true
	})

	return n
}

// scanNode checks every agent pair of paths and returns the globally earliest
// conflict, ordered by (time, lower agent, higher agent), together with the
// total number of colliding segment pairs.
//
// The pair loop runs in index order and only a strictly earlier time replaces
// the incumbent, so the result never depends on map or scheduling order.
func scanNode[S comparable](collider func(i, j int) Collider[S], paths []Trajectory[S]) (Conflict[S], int, bool) {
	var (
		best  Conflict[S]
		found bool
		total int
	)
	for i := 0; i < len(paths); i++ {
		for j := i + 1; j < len(paths); j++ {
			env := collider(i, j)
			first := true
			a, b := paths[i], paths[j]
			ai, bj := i, j
			sweep(env, a, b, func(si, sj int, at float64) bool {
				total++
				if first {
					first = false
					if !found || at < best.Time {
						best = Conflict[S]{
							A:           ai,
							B:           bj,
							ConstraintA: Constraint[S]{Agent: ai, From: b.States[sj], To: b.States[sj+1]},
							ConstraintB: Constraint[S]{Agent: bj, From: a.States[si], To: a.States[si+1]},
							WaypointA:   a.WaypointOf(si),
							WaypointB:   b.WaypointOf(sj),
							SegmentA:    si,
							SegmentB:    sj,
							Time:        at,
						}
						found = true
					}
				}
				return true
			})
		}
	}

	return best, total, found
}

// agentConflicts counts collisions between trajectory t, assigned to agent,
// and the trajectories of every other agent in paths.
func agentConflicts[S comparable](collider func(i, j int) Collider[S], paths []Trajectory[S], agent int, t Trajectory[S]) int {
	var n int
	for o := range paths {
		switch {
		case o < agent:
			n += CountConflicts(collider(o, agent), paths[o], t)
		case o > agent:
			n += CountConflicts(collider(agent, o), t, paths[o])
		}
	}

	return n
}

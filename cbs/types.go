package cbs

// Environment is the collaborator that defines motion, cost and collision for
// one agent. S is the environment's space-time state; the planner treats it as
// an opaque value and only reads its timestamp through Time.
type Environment[S comparable] interface {
	// Successors appends the states reachable from s in one action to buf.
	Successors(s S, buf []S) []S
	// Cost returns the non-negative cost of the action from → to.
	Cost(from, to S) float64
	// Heuristic estimates the remaining cost from s to goal. It must ignore
	// the goal's timestamp.
	Heuristic(from, goal S) float64
	// GoalTest reports whether s reaches goal (position match, any time).
	GoalTest(s, goal S) bool
	// Hash returns a stable identifier of s, including its timestamp.
	Hash(s S) uint64
	// Time returns the timestamp of s.
	Time(s S) float64
	// Collides is the spatial proximity predicate for two motion segments
	// a0→a1 and b0→b1 already known to overlap in time.
	Collides(a0, a1, b0, b1 S) bool
	// Violates reports whether the action from → to enters the forbidden
	// region described by c.
	Violates(from, to S, c Constraint[S]) bool
}

// Heuristic optionally overrides Environment.Heuristic inside a container.
type Heuristic[S comparable] interface {
	HCost(from, goal S) float64
}

// EnvironmentContainer pairs an environment with its search parameters.
//
// ConflictCutoff is the largest predicted conflict count (against the node's
// conflict-avoidance table) accepted from this environment before the oracle
// escalates to the next container of the agent's ladder.
// Weight is the A* heuristic weight; 0 means 1.
//
// A ladder of more than one container, like a weight above 1, gives up
// optimality in the same way the random tie-break mode gives up a fixed
// expansion order: root trajectories are no longer individually optimal, and
// a child may cost less than its parent (see Planner.MonotoneCost).
type EnvironmentContainer[S comparable] struct {
	Name           string
	Env            Environment[S]
	Heuristic      Heuristic[S]
	ConflictCutoff int
	Weight         float64
}

// Agent is one independently moving unit. Waypoints[0] is the departure state;
// the remaining waypoints are visited in order. Environments is the ladder
// tried by the oracle; its first entry also owns the collision predicate used
// for pairs in which this agent has the lower index.
type Agent[S comparable] struct {
	Name         string
	Waypoints    []S
	Environments []EnvironmentContainer[S]
}

// Trajectory is one agent's planned route through all of its waypoints.
//
// Waypoints[k] is the index in States where waypoint k was reached, so
// Waypoints[0] == 0. A Trajectory is never modified after the oracle builds it.
type Trajectory[S comparable] struct {
	States    []S
	Waypoints []int
	Cost      float64
}

// Segments returns the number of motion segments (len(States)-1, or 0).
func (t Trajectory[S]) Segments() int {
	if len(t.States) < 2 {
		return 0
	}

	return len(t.States) - 1
}

// WaypointOf returns the index of the waypoint leg that segment i belongs to,
// i.e. the last waypoint reached at or before States[i].
func (t Trajectory[S]) WaypointOf(i int) int {
	leg := 0
	for k, at := range t.Waypoints {
		if at > i {
			break
		}
		leg = k
	}

	return leg
}

// Equal reports whether t and o visit the same states in the same order.
func (t Trajectory[S]) Equal(o Trajectory[S]) bool {
	if len(t.States) != len(o.States) {
		return false
	}
	for i := range t.States {
		if t.States[i] != o.States[i] {
			return false
		}
	}

	return true
}

// Constraint forbids Agent from any action that collides with the motion
// segment From → To.
type Constraint[S comparable] struct {
	Agent    int
	From, To S
}

// Conflict is the earliest collision between agents A and B.
// ConstraintA keeps A out of B's segment and ConstraintB keeps B out of A's.
type Conflict[S comparable] struct {
	A, B        int
	ConstraintA Constraint[S]
	ConstraintB Constraint[S]
	WaypointA   int
	WaypointB   int
	SegmentA    int
	SegmentB    int
	Time        float64
}

// Node is one constraint-tree node.
//
// Parent is the arena index of the parent, -1 for the root. Only the node's own
// Constraint is stored; the effective set is collected along the parent chain.
// Agent is the agent replanned when the node was created (-1 for the root).
type Node[S comparable] struct {
	Parent      int
	Paths       []Trajectory[S]
	Constraint  Constraint[S]
	Constrained bool
	Agent       int
	Cost        float64
	Conflicts   int
	Satisfiable bool
	Depth       int
	Bypasses    int

	cat *CAT[S]
}

// CAT returns the node's conflict-avoidance table, nil when disabled.
func (n *Node[S]) CAT() *CAT[S] { return n.cat }

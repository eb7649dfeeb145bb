package cbs

import (
	"errors"
	"math/rand"

	"github.com/katalvlaran/cbsplan/astar"
)

// PlanRequest carries everything one replanning call may depend on. Nothing
// else is read by the oracle, so two requests can be served concurrently.
type PlanRequest[S comparable] struct {
	Agent       int
	Waypoints   []S
	Ladder      []EnvironmentContainer[S]
	Constraints []Constraint[S] // effective constraints of Agent only
	CAT         *CAT[S]         // nil disables conflict-avoidance bias
	TieBreak    astar.TieBreak
	Rand        *rand.Rand
	// MaxExpansions bounds each A* run; 0 means unbounded.
	MaxExpansions int
}

// Oracle plans one agent through all of its waypoints.
// ok is false when no trajectory satisfies the request's constraints.
type Oracle[S comparable] interface {
	Plan(req PlanRequest[S]) (t Trajectory[S], ok bool)
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc[S comparable] func(req PlanRequest[S]) (Trajectory[S], bool)

// Plan calls f(req).
func (f OracleFunc[S]) Plan(req PlanRequest[S]) (Trajectory[S], bool) { return f(req) }

// AStarOracle is the default oracle: one weighted A* search per ladder rung
// over (state, leg) pairs, so a single search visits every waypoint in order.
//
// The ladder is walked in order. A rung's trajectory is accepted when its
// predicted conflict count against the request CAT is at most the rung's
// ConflictCutoff; the last rung's trajectory is always accepted.
type AStarOracle[S comparable] struct{}

// NewAStarOracle returns the default oracle.
func NewAStarOracle[S comparable]() *AStarOracle[S] { return &AStarOracle[S]{} }

// Plan implements Oracle.
func (o *AStarOracle[S]) Plan(req PlanRequest[S]) (Trajectory[S], bool) {
	if len(req.Waypoints) < 2 || len(req.Ladder) == 0 {
		return Trajectory[S]{}, false
	}
	last := len(req.Ladder) - 1
	for k, ec := range req.Ladder {
		t, err := planRoute(ec, req)
		if err != nil {
			continue
		}
		if k == last || req.CAT == nil || predictedConflicts(ec.Env, req.CAT, req.Agent, t) <= ec.ConflictCutoff {
			return t, true
		}
	}

	return Trajectory[S]{}, false
}

// predictedConflicts sums the CAT collisions of every segment of t.
func predictedConflicts[S comparable](env Collider[S], cat *CAT[S], agent int, t Trajectory[S]) int {
	var n int
	for i := 0; i < t.Segments(); i++ {
		n += cat.Count(env, agent, t.States[i], t.States[i+1])
	}

	return n
}

// planRoute runs one A* search in container ec.
func planRoute[S comparable](ec EnvironmentContainer[S], req PlanRequest[S]) (Trajectory[S], error) {
	r := newRoute(ec, req.Waypoints)
	last := len(req.Waypoints) - 1

	opts := astar.DefaultOptions[routeState[S]]()
	opts.Weight = ec.Weight
	opts.TieBreak = req.TieBreak
	opts.Rand = req.Rand
	opts.MaxExpansions = req.MaxExpansions
	if len(req.Constraints) > 0 {
		cs := req.Constraints
		opts.Allowed = func(from, to routeState[S]) bool {
			for _, c := range cs {
				if ec.Env.Violates(from.S, to.S, c) {
					return false
				}
			}
			return true
		}
	}
	if req.CAT != nil {
		cat, agent := req.CAT, req.Agent
		opts.Conflicts = func(from, to routeState[S]) int {
			return cat.Count(ec.Env, agent, from.S, to.S)
		}
	}

	start := r.advance(routeState[S]{S: req.Waypoints[0]})
	res, err := astar.Search[routeState[S]](r, start, routeState[S]{S: req.Waypoints[last], Leg: last}, opts)
	if err != nil {
		return Trajectory[S]{}, err
	}
	if len(res.Path) == 0 {
		return Trajectory[S]{}, errors.New("cbs: empty route")
	}

	return r.trajectory(res), nil
}

// routeState is a state of the underlying environment tagged with the index
// of the last waypoint already reached.
type routeState[S comparable] struct {
	S   S
	Leg int
}

// route adapts an Environment to astar.Space over routeState.
type route[S comparable] struct {
	env  Environment[S]
	h    func(from, goal S) float64
	wps  []S
	rest []float64 // rest[k]: heuristic sum of legs k → k+1 → … → last
	sbuf []S
}

func newRoute[S comparable](ec EnvironmentContainer[S], wps []S) *route[S] {
	r := &route[S]{env: ec.Env, wps: wps, h: ec.Env.Heuristic}
	if ec.Heuristic != nil {
		r.h = ec.Heuristic.HCost
	}
	r.rest = make([]float64, len(wps))
	for k := len(wps) - 2; k >= 0; k-- {
		r.rest[k] = r.rest[k+1] + r.h(wps[k], wps[k+1])
	}

	return r
}

// advance moves s past every waypoint its position already satisfies.
func (r *route[S]) advance(s routeState[S]) routeState[S] {
	for s.Leg+1 < len(r.wps) && r.env.GoalTest(s.S, r.wps[s.Leg+1]) {
		s.Leg++
	}

	return s
}

func (r *route[S]) Successors(s routeState[S], buf []routeState[S]) []routeState[S] {
	r.sbuf = r.env.Successors(s.S, r.sbuf[:0])
	for _, n := range r.sbuf {
		buf = append(buf, r.advance(routeState[S]{S: n, Leg: s.Leg}))
	}

	return buf
}

func (r *route[S]) Cost(from, to routeState[S]) float64 { return r.env.Cost(from.S, to.S) }

func (r *route[S]) Heuristic(s, _ routeState[S]) float64 {
	if s.Leg+1 >= len(r.wps) {
		return 0
	}

	return r.h(s.S, r.wps[s.Leg+1]) + r.rest[s.Leg+1]
}

func (r *route[S]) GoalTest(s, goal routeState[S]) bool { return s.Leg == goal.Leg }

func (r *route[S]) Hash(s routeState[S]) uint64 {
	return r.env.Hash(s.S) ^ uint64(deriveSeed(int64(s.Leg), 0))
}

// trajectory converts an A* result into a Trajectory, recording where each
// waypoint was reached.
func (r *route[S]) trajectory(res astar.Result[routeState[S]]) Trajectory[S] {
	t := Trajectory[S]{
		States:    make([]S, len(res.Path)),
		Waypoints: make([]int, len(r.wps)),
		Cost:      res.Cost,
	}
	leg := 0
	for i, s := range res.Path {
		t.States[i] = s.S
		for ; leg < s.Leg; leg++ {
			t.Waypoints[leg+1] = i
		}
	}

	return t
}

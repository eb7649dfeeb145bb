package cbs

import "slices"

// Snapshot is the state published after every completed step.
//
// Node is the solution once Solved is set, otherwise the best queued node
// (-1 when none). Paths holds that node's trajectories; their state slices
// are never written after publication, so a Snapshot may be read freely.
type Snapshot[S comparable] struct {
	Node      int
	Cost      float64
	Conflicts int
	Solved    bool
	Done      bool
	Paths     []Trajectory[S]
	Stats     Stats
}

// publish copies the current best node into the snapshot. Called with stepMu held.
func (p *Planner[S]) publish() {
	s := Snapshot[S]{Node: -1, Stats: p.stats, Done: p.terminal.Terminal()}
	s.Stats.Nodes = len(p.tree.nodes)
	idx, ok := p.solved, p.solved >= 0
	if ok {
		s.Solved = true
	} else {
		idx, ok = p.open.peek()
	}
	if ok {
		n := p.tree.nodes[idx]
		s.Node, s.Cost, s.Conflicts = idx, n.Cost, n.Conflicts
		s.Paths = slices.Clone(n.Paths)
	}

	p.snapMu.Lock()
	p.snap = s
	p.snapMu.Unlock()
}

// Snapshot returns the most recently published state.
func (p *Planner[S]) Snapshot() Snapshot[S] {
	p.snapMu.RLock()
	defer p.snapMu.RUnlock()

	return p.snap
}

// Stats returns the counters as of the last completed step.
func (p *Planner[S]) Stats() Stats { return p.Snapshot().Stats }

// IsSolved reports whether a conflict-free node has been found.
func (p *Planner[S]) IsSolved() bool { return p.Snapshot().Solved }

// BestNode returns the index of the solution node; ok is false until solved.
func (p *Planner[S]) BestNode() (idx int, ok bool) {
	s := p.Snapshot()
	if !s.Solved {
		return -1, false
	}

	return s.Node, true
}

// AggregateCost returns the cost of the solution, or of the best queued node
// while the search is still running. It is 0 before the first step.
func (p *Planner[S]) AggregateCost() float64 { return p.Snapshot().Cost }

// Trajectory returns a copy of agent's states in the solution.
//
// Errors: ErrNotSolved before a solution exists; ErrAgentNotFound for an
// index outside the registered agents.
func (p *Planner[S]) Trajectory(agent int) ([]S, error) {
	s := p.Snapshot()
	if !s.Solved {
		return nil, ErrNotSolved
	}
	if agent < 0 || agent >= len(s.Paths) {
		return nil, ErrAgentNotFound
	}

	return slices.Clone(s.Paths[agent].States), nil
}

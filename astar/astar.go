package astar

import (
	"container/heap"
	"fmt"
	"math"
	"math/rand"
)

// eps is the tolerance used when comparing costs.
const eps = 1e-9

// defaultSeed seeds the random tie-break stream when Options.Rand is nil.
const defaultSeed int64 = 1

func fless(a, b float64) bool  { return a < b-eps }
func fequal(a, b float64) bool { return math.Abs(a-b) <= eps }

// Search runs weighted A* from start until a state satisfying goal is expanded.
//
// Preconditions (in order):
//  1. space must be non-nil (ErrNilSpace).
//  2. opts.Weight must be ≥ 1 (ErrBadWeight); a zero Weight is treated as 1.
//
// The start state is returned as a one-state path when it already satisfies goal.
func Search[S comparable](space Space[S], start, goal S, opts Options[S]) (Result[S], error) {
	if space == nil {
		return Result[S]{}, ErrNilSpace
	}
	if opts.Weight == 0 {
		opts.Weight = 1
	}
	if math.IsNaN(opts.Weight) || opts.Weight < 1 {
		return Result[S]{}, fmt.Errorf("%w: got %v", ErrBadWeight, opts.Weight)
	}
	r := &runner[S]{
		space: space,
		goal:  goal,
		opts:  opts,
		index: make(map[uint64][]int, 64),
	}
	if opts.TieBreak == Random {
		r.rng = opts.Rand
		if r.rng == nil {
			r.rng = rand.New(rand.NewSource(defaultSeed))
		}
	}

	return r.run(start)
}

// runner holds the mutable state of one search.
type runner[S comparable] struct {
	space Space[S]
	goal  S
	opts  Options[S]
	rng   *rand.Rand

	nodes []*node[S]     // every node ever generated, addressed by position
	index map[uint64][]int // state hash → positions in nodes
	open  openList[S]
	buf   []S

	expanded int
	touched  int
}

func (r *runner[S]) run(start S) (Result[S], error) {
	r.open.less = r.less
	heap.Init(&r.open)
	r.add(start, -1, 0, 0)

	var n *node[S]
	for r.open.Len() > 0 {
		if r.opts.MaxExpansions > 0 && r.expanded >= r.opts.MaxExpansions {
			return Result[S]{Expanded: r.expanded, Touched: r.touched}, ErrExpansionLimit
		}
		n = heap.Pop(&r.open).(*node[S])
		r.expanded++

		if r.space.GoalTest(n.state, r.goal) {
			return Result[S]{
				Path:     r.extract(n),
				Cost:     n.g,
				Expanded: r.expanded,
				Touched:  r.touched,
			}, nil
		}
		r.expand(n)
	}

	return Result[S]{Expanded: r.expanded, Touched: r.touched}, ErrNoPath
}

// expand generates and relaxes all successors of n.
func (r *runner[S]) expand(n *node[S]) {
	r.buf = r.space.Successors(n.state, r.buf[:0])
	var (
		s  S
		g  float64
		nc int
	)
	for _, s = range r.buf {
		r.touched++
		if r.opts.Allowed != nil && !r.opts.Allowed(n.state, s) {
			continue
		}
		g = n.g + r.space.Cost(n.state, s)
		nc = n.nc
		if r.opts.Conflicts != nil {
			nc += r.opts.Conflicts(n.state, s)
		}

		pos, seen := r.lookup(s)
		if !seen {
			r.add(s, n.pos, g, nc)
			continue
		}
		m := r.nodes[pos]
		if m.heapIdx >= 0 {
			// Still open: improve on a cheaper g, or on equal g with fewer conflicts.
			if fless(g, m.g) || (fequal(g, m.g) && nc < m.nc) {
				m.parent, m.g, m.nc = n.pos, g, nc
				m.f = g + r.opts.Weight*m.h
				heap.Fix(&r.open, m.heapIdx)
			}
			continue
		}
		// Closed: reopen only on a strictly cheaper g.
		if fless(g, m.g) {
			m.parent, m.g, m.nc = n.pos, g, nc
			m.f = g + r.opts.Weight*m.h
			heap.Push(&r.open, m)
		}
	}
}

// add creates a new node for s and pushes it on the open list.
func (r *runner[S]) add(s S, parent int, g float64, nc int) {
	h := r.space.Heuristic(s, r.goal)
	n := &node[S]{
		state:   s,
		parent:  parent,
		pos:     len(r.nodes),
		g:       g,
		h:       h,
		f:       g + r.opts.Weight*h,
		nc:      nc,
		heapIdx: -1,
	}
	if r.rng != nil {
		n.key = r.rng.Uint64()
	}
	r.nodes = append(r.nodes, n)
	h64 := r.space.Hash(s)
	r.index[h64] = append(r.index[h64], n.pos)
	heap.Push(&r.open, n)
}

// lookup finds the node of s. Hash only narrows the candidates; two distinct
// states sharing a hash stay separate nodes.
func (r *runner[S]) lookup(s S) (int, bool) {
	for _, pos := range r.index[r.space.Hash(s)] {
		if r.nodes[pos].state == s {
			return pos, true
		}
	}

	return 0, false
}

// extract walks parent links back to the start and returns the forward path.
func (r *runner[S]) extract(n *node[S]) []S {
	var depth int
	for at := n; at != nil; at = r.parentOf(at) {
		depth++
	}
	path := make([]S, depth)
	for at := n; at != nil; at = r.parentOf(at) {
		depth--
		path[depth] = at.state
	}

	return path
}

func (r *runner[S]) parentOf(n *node[S]) *node[S] {
	if n.parent < 0 {
		return nil
	}

	return r.nodes[n.parent]
}

// less orders the open list: f, then conflicts, then the tie-break policy,
// then insertion order.
func (r *runner[S]) less(a, b *node[S]) bool {
	if !fequal(a.f, b.f) {
		return a.f < b.f
	}
	if a.nc != b.nc {
		return a.nc < b.nc
	}
	switch r.opts.TieBreak {
	case PreferLowG:
		if !fequal(a.g, b.g) {
			return a.g < b.g
		}
	case Random:
		if !fequal(a.g, b.g) {
			return a.g > b.g
		}
		if a.key != b.key {
			return a.key < b.key
		}
	default:
		if !fequal(a.g, b.g) {
			return a.g > b.g
		}
	}

	return a.pos < b.pos
}

// node is a search node. pos is its stable position in runner.nodes;
// heapIdx is its position in the open list or -1 when closed.
type node[S comparable] struct {
	state   S
	parent  int
	pos     int
	g, h, f float64
	nc      int
	key     uint64
	heapIdx int
}

// openList is a min-heap of *node ordered by less.
type openList[S comparable] struct {
	items []*node[S]
	less  func(a, b *node[S]) bool
}

func (o openList[S]) Len() int           { return len(o.items) }
func (o openList[S]) Less(i, j int) bool { return o.less(o.items[i], o.items[j]) }
func (o openList[S]) Swap(i, j int) {
	o.items[i], o.items[j] = o.items[j], o.items[i]
	o.items[i].heapIdx = i
	o.items[j].heapIdx = j
}

func (o *openList[S]) Push(x any) {
	n := x.(*node[S])
	n.heapIdx = len(o.items)
	o.items = append(o.items, n)
}

func (o *openList[S]) Pop() any {
	old := o.items
	last := len(old) - 1
	n := old[last]
	old[last] = nil
	o.items = old[:last]
	n.heapIdx = -1

	return n
}

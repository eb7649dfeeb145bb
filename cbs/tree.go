package cbs

import (
	"container/heap"
	"math"
)

// eps is the tolerance used when comparing aggregate costs.
const eps = 1e-9

func fequal(a, b float64) bool { return math.Abs(a-b) <= eps }

// tree is the constraint-tree arena. Nodes are appended and never removed;
// Node.Parent indexes the same slice.
type tree[S comparable] struct {
	nodes []*Node[S]
}

// add appends n and returns its index.
func (t *tree[S]) add(n *Node[S]) int {
	t.nodes = append(t.nodes, n)

	return len(t.nodes) - 1
}

// constraintsFor collects the constraints on agent along the chain from idx
// to the root, nearest first.
//
// Complexity: O(depth).
func (t *tree[S]) constraintsFor(idx, agent int) []Constraint[S] {
	var out []Constraint[S]
	for at := idx; at >= 0; at = t.nodes[at].Parent {
		n := t.nodes[at]
		if n.Constrained && n.Constraint.Agent == agent {
			out = append(out, n.Constraint)
		}
	}

	return out
}

// frontierItem is one queued node; key breaks exact ties in random mode.
type frontierItem struct {
	idx int
	key uint64
}

// frontier is a min-heap of feasible node indices.
type frontier[S comparable] struct {
	items  []frontierItem
	tree   *tree[S]
	order  Order
	random bool
}

func (f *frontier[S]) Len() int      { return len(f.items) }
func (f *frontier[S]) Swap(i, j int) { f.items[i], f.items[j] = f.items[j], f.items[i] }

func (f *frontier[S]) Less(i, j int) bool {
	x, y := f.items[i], f.items[j]
	a, b := f.tree.nodes[x.idx], f.tree.nodes[y.idx]

	costEq := fequal(a.Cost, b.Cost)
	if f.order == ConflictsFirst {
		if a.Conflicts != b.Conflicts {
			return a.Conflicts < b.Conflicts
		}
		if !costEq {
			return a.Cost < b.Cost
		}
	} else {
		if !costEq {
			return a.Cost < b.Cost
		}
		if a.Conflicts != b.Conflicts {
			return a.Conflicts < b.Conflicts
		}
	}
	if f.random && x.key != y.key {
		return x.key < y.key
	}

	return x.idx < y.idx
}

func (f *frontier[S]) Push(x any) { f.items = append(f.items, x.(frontierItem)) }

func (f *frontier[S]) Pop() any {
	last := len(f.items) - 1
	it := f.items[last]
	f.items = f.items[:last]

	return it
}

func (f *frontier[S]) push(idx int, key uint64) { heap.Push(f, frontierItem{idx: idx, key: key}) }

func (f *frontier[S]) pop() int { return heap.Pop(f).(frontierItem).idx }

// peek returns the best queued index without removing it.
func (f *frontier[S]) peek() (int, bool) {
	if len(f.items) == 0 {
		return -1, false
	}

	return f.items[0].idx, true
}

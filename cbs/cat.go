package cbs

import (
	"math"

	"github.com/google/btree"
)

// catDegree is the B-tree degree used by every CAT.
const catDegree = 16

// catEntry is one trajectory segment in the table.
type catEntry[S comparable] struct {
	start, end float64
	agent      int
	seg        int
	from, to   S
}

func catLess[S comparable](a, b catEntry[S]) bool {
	if a.start != b.start {
		return a.start < b.start
	}
	if a.agent != b.agent {
		return a.agent < b.agent
	}

	return a.seg < b.seg
}

// CAT is a conflict-avoidance table: every segment of a node's trajectory set,
// indexed by [start, end) time interval.
//
// Entries are ordered by (start, agent, segment). An overlap query for [lo, hi)
// ascends from lo - maxSpan, since no entry starting earlier can still be
// active at lo, and filters end > lo.
//
// A CAT is not safe for concurrent mutation. Clone shares structure
// copy-on-write; taking the clone writes to the source, so clones of one CAT
// must be taken from a single goroutine.
type CAT[S comparable] struct {
	tree    *btree.BTreeG[catEntry[S]]
	clock   func(S) float64
	maxSpan float64
	spans   map[int][]catEntry[S] // agent → its entries, for Remove
}

// NewCAT returns an empty table reading timestamps through clock.
func NewCAT[S comparable](clock func(S) float64) *CAT[S] {
	return &CAT[S]{
		tree:  btree.NewG[catEntry[S]](catDegree, catLess[S]),
		clock: clock,
		spans: make(map[int][]catEntry[S]),
	}
}

// Len returns the number of segments in the table.
func (c *CAT[S]) Len() int {
	if c == nil {
		return 0
	}

	return c.tree.Len()
}

// Insert adds every segment of t under agent. Existing entries of agent are
// kept; use Replace to swap an agent's trajectory.
//
// Complexity: O(k log N) for k segments.
func (c *CAT[S]) Insert(agent int, t Trajectory[S]) {
	var e catEntry[S]
	for i := 0; i < t.Segments(); i++ {
		e = catEntry[S]{
			start: c.clock(t.States[i]),
			end:   c.clock(t.States[i+1]),
			agent: agent,
			seg:   i,
			from:  t.States[i],
			to:    t.States[i+1],
		}
		if span := e.end - e.start; span > c.maxSpan {
			c.maxSpan = span
		}
		c.tree.ReplaceOrInsert(e)
		c.spans[agent] = append(c.spans[agent], e)
	}
}

// Remove deletes every entry of agent.
func (c *CAT[S]) Remove(agent int) {
	for _, e := range c.spans[agent] {
		c.tree.Delete(e)
	}
	delete(c.spans, agent)
}

// Replace swaps agent's entries for the segments of t.
func (c *CAT[S]) Replace(agent int, t Trajectory[S]) {
	c.Remove(agent)
	c.Insert(agent, t)
}

// Clone returns an independent copy. A nil table clones to nil.
//
// Complexity: O(1) for the tree plus O(A) for the per-agent index.
func (c *CAT[S]) Clone() *CAT[S] {
	if c == nil {
		return nil
	}
	spans := make(map[int][]catEntry[S], len(c.spans))
	for a, es := range c.spans {
		spans[a] = es[:len(es):len(es)]
	}

	return &CAT[S]{
		tree:    c.tree.Clone(),
		clock:   c.clock,
		maxSpan: c.maxSpan,
		spans:   spans,
	}
}

// Overlapping calls visit for each entry whose interval intersects [lo, hi),
// in ascending start order, until visit returns false.
func (c *CAT[S]) Overlapping(lo, hi float64, visit func(agent int, from, to S) bool) {
	if c == nil || hi <= lo {
		return
	}
	pivot := catEntry[S]{start: lo - c.maxSpan, agent: math.MinInt}
	c.tree.AscendGreaterOrEqual(pivot, func(e catEntry[S]) bool {
		if e.start >= hi {
			return false
		}
		if e.end <= lo {
			return true
		}

		return visit(e.agent, e.from, e.to)
	})
}

// Count returns how many entries of agents other than agent collide with the
// motion from → to under env.
//
// Complexity: O(log N + m) for m entries active in the motion's time window.
func (c *CAT[S]) Count(env Collider[S], agent int, from, to S) int {
	if c == nil {
		return 0
	}
	lo, hi := env.Time(from), env.Time(to)
	var n int
	c.Overlapping(lo, hi, func(other int, f, t S) bool {
		if other != agent && env.Collides(from, to, f, t) {
			n++
		}
		return true
	})

	return n
}

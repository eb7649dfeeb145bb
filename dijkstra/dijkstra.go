package dijkstra

import (
	"container/heap"
	"fmt"
	"math"
)

// Dijkstra computes shortest distances from Options.Source to every vertex
// of g.
//
// Returns:
//
//   - dist: dist[v] is the minimum distance, +Inf if v is unreachable.
//   - err:  ErrNilGraph, ErrSourceRange or ErrNegativeWeight.
//
// Complexity:
//
//   - Time:  O((V + E) log V)
//   - Space: O(V + E)
func Dijkstra(g Graph, opts ...Option) ([]float64, error) {
	cfg := DefaultOptions(0)
	for _, opt := range opts {
		opt(&cfg)
	}
	if g == nil {
		return nil, ErrNilGraph
	}
	n := g.Order()
	if cfg.Source < 0 || cfg.Source >= n {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrSourceRange, cfg.Source, n)
	}

	r := &runner{
		g:       g,
		options: cfg,
		dist:    make([]float64, n),
		visited: make([]bool, n),
		pq:      make(nodePQ, 0, n),
	}
	r.init()
	if err := r.process(); err != nil {
		return nil, err
	}

	return r.dist, nil
}

// runner holds the mutable state for a single Dijkstra execution.
type runner struct {
	g       Graph
	options Options
	dist    []float64
	visited []bool
	pq      nodePQ
	buf     []Arc
}

// init sets every distance to +Inf and queues the source at 0.
func (r *runner) init() {
	for v := range r.dist {
		r.dist[v] = math.Inf(1)
	}
	r.dist[r.options.Source] = 0
	heap.Init(&r.pq)
	heap.Push(&r.pq, &nodeItem{id: r.options.Source, dist: 0})
}

// process pops vertices in distance order until the heap empties.
func (r *runner) process() error {
	for r.pq.Len() > 0 {
		item := heap.Pop(&r.pq).(*nodeItem)
		if r.visited[item.id] {
			continue
		}
		r.visited[item.id] = true
		if err := r.relax(item.id); err != nil {
			return err
		}
	}

	return nil
}

// relax improves the distances of u's neighbours. Assumes dist[u] is final.
func (r *runner) relax(u int) error {
	r.buf = r.g.Arcs(u, r.buf[:0])
	var nd float64
	for _, a := range r.buf {
		if a.Weight < 0 {
			return fmt.Errorf("%w: arc %d→%d weight=%v", ErrNegativeWeight, u, a.To, a.Weight)
		}
		nd = r.dist[u] + a.Weight
		if nd >= r.dist[a.To] {
			continue
		}
		r.dist[a.To] = nd
		// Lazy decrease-key: stale entries are skipped on pop via visited.
		heap.Push(&r.pq, &nodeItem{id: a.To, dist: nd})
	}

	return nil
}

// nodeItem is a vertex and its tentative distance.
type nodeItem struct {
	id   int
	dist float64
}

// nodePQ is a min-heap of *nodeItem ordered by dist, then id.
type nodePQ []*nodeItem

func (pq nodePQ) Len() int { return len(pq) }

func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].id < pq[j].id
}

func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodePQ) Push(x any) { *pq = append(*pq, x.(*nodeItem)) }

func (pq *nodePQ) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}

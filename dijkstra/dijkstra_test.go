// Package dijkstra_test contains unit tests for the Dijkstra implementation:
// validation, distances on undirected and directed graphs, unreachable
// vertices and degenerate graphs.
package dijkstra_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cbsplan/dijkstra"
)

// adj is an adjacency-list Graph used by the tests.
type adj [][]dijkstra.Arc

func (a adj) Order() int { return len(a) }

func (a adj) Arcs(v int, buf []dijkstra.Arc) []dijkstra.Arc { return append(buf, a[v]...) }

// undirected builds an adj with n vertices from (u, v, w) triples.
func undirected(n int, edges ...[3]float64) adj {
	g := make(adj, n)
	for _, e := range edges {
		u, v := int(e[0]), int(e[1])
		g[u] = append(g[u], dijkstra.Arc{To: v, Weight: e[2]})
		g[v] = append(g[v], dijkstra.Arc{To: u, Weight: e[2]})
	}

	return g
}

// ------------------------------------------------------------------------
// 1. Validation
// ------------------------------------------------------------------------

func TestDijkstra_NilGraph(t *testing.T) {
	_, err := dijkstra.Dijkstra(nil)
	require.ErrorIs(t, err, dijkstra.ErrNilGraph)
}

func TestDijkstra_SourceOutOfRange(t *testing.T) {
	g := undirected(2, [3]float64{0, 1, 1})
	for _, src := range []int{-1, 2} {
		_, err := dijkstra.Dijkstra(g, dijkstra.Source(src))
		require.ErrorIs(t, err, dijkstra.ErrSourceRange)
	}
}

func TestDijkstra_NegativeWeight(t *testing.T) {
	g := adj{{{To: 1, Weight: -2}}, nil}
	_, err := dijkstra.Dijkstra(g, dijkstra.Source(0))
	require.True(t, errors.Is(err, dijkstra.ErrNegativeWeight), "got %v", err)
}

// ------------------------------------------------------------------------
// 2. Distances
// ------------------------------------------------------------------------

func TestDijkstra_Triangle(t *testing.T) {
	// 0-1 (1), 1-2 (2), 0-2 (5)
	g := undirected(3, [3]float64{0, 1, 1}, [3]float64{1, 2, 2}, [3]float64{0, 2, 5})

	dist, err := dijkstra.Dijkstra(g, dijkstra.Source(0))
	require.NoError(t, err)
	require.Equal(t, []float64{0, 1, 3}, dist)

	dist, err = dijkstra.Dijkstra(g, dijkstra.Source(2))
	require.NoError(t, err)
	require.Equal(t, []float64{3, 2, 0}, dist)
}

func TestDijkstra_Directed(t *testing.T) {
	// 0→1 (2), 0→2 (1), 2→1 (1), 1→3 (3), 2→3 (5)
	g := adj{
		{{To: 1, Weight: 2}, {To: 2, Weight: 1}},
		{{To: 3, Weight: 3}},
		{{To: 1, Weight: 1}, {To: 3, Weight: 5}},
		nil,
	}
	dist, err := dijkstra.Dijkstra(g, dijkstra.Source(0))
	require.NoError(t, err)
	require.Equal(t, []float64{0, 2, 1, 5}, dist)

	// Nothing leaves 3.
	dist, err = dijkstra.Dijkstra(g, dijkstra.Source(3))
	require.NoError(t, err)
	require.True(t, math.IsInf(dist[0], 1))
}

func TestDijkstra_Unreachable(t *testing.T) {
	g := undirected(3, [3]float64{0, 1, 1})
	dist, err := dijkstra.Dijkstra(g, dijkstra.Source(0))
	require.NoError(t, err)
	require.Equal(t, 1.0, dist[1])
	require.True(t, math.IsInf(dist[2], 1))
}

func TestDijkstra_SingleVertexSelfLoop(t *testing.T) {
	g := adj{{{To: 0, Weight: 3}}}
	dist, err := dijkstra.Dijkstra(g, dijkstra.Source(0))
	require.NoError(t, err)
	require.Equal(t, []float64{0}, dist)
}

func TestDijkstra_ZeroWeightArcs(t *testing.T) {
	// Chain 0-1-2 where 0-1 is free.
	g := undirected(3, [3]float64{0, 1, 0}, [3]float64{1, 2, 1})
	dist, err := dijkstra.Dijkstra(g, dijkstra.Source(0))
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0, 1}, dist)
}

// Package dijkstra defines core types and configuration options
// for Dijkstra's shortest-path algorithm on indexed graphs.
//
// Vertices are the integers 0..Order()-1 and edges are reported by Arcs, so
// any structure with a dense numbering (a grid, an adjacency list) can be
// searched without building an intermediate graph.
//
// Options:
//
//	– Source: index of the starting vertex (0 ≤ Source < Order()).
//
// Errors (sentinel):
//
//	– ErrNilGraph        if the provided graph is nil.
//	– ErrSourceRange     if the source index is outside the graph.
//	– ErrNegativeWeight  if a negative arc weight is met during relaxation.
package dijkstra

import "errors"

// Sentinel errors returned by the Dijkstra implementation.
var (
	// ErrNilGraph indicates that a nil Graph was passed to Dijkstra.
	ErrNilGraph = errors.New("dijkstra: graph is nil")

	// ErrSourceRange indicates a source index outside [0, Order()).
	ErrSourceRange = errors.New("dijkstra: source vertex out of range")

	// ErrNegativeWeight indicates that a negative arc weight was detected.
	ErrNegativeWeight = errors.New("dijkstra: negative edge weight encountered")
)

// Arc is one outgoing edge.
type Arc struct {
	To     int
	Weight float64
}

// Graph is a directed graph over the vertices 0..Order()-1.
type Graph interface {
	// Order returns the number of vertices.
	Order() int
	// Arcs appends the outgoing arcs of v to buf and returns it.
	Arcs(v int, buf []Arc) []Arc
}

// Options configures the behavior of the Dijkstra algorithm.
type Options struct {
	Source int // Index of the source vertex
}

// Option represents a functional option for configuring Dijkstra.
type Option func(*Options)

// Source sets the Source field of Options.
func Source(v int) Option {
	return func(o *Options) {
		o.Source = v
	}
}

// DefaultOptions returns an Options struct for the given source vertex.
// The source is validated in Dijkstra.
func DefaultOptions(source int) Options {
	return Options{Source: source}
}

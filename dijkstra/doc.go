// Package dijkstra computes single-source shortest distances on graphs with
// non-negative arc weights.
//
// Overview:
//
//   - Vertices are dense integer indices; a Graph reports its order and the
//     outgoing arcs of each vertex.
//   - Dijkstra fills a distance slice in O((V + E) log V) using a lazy
//     decrease-key min-heap.
//
// When to use:
//
//   - Exact distance tables used as admissible (and consistent) A*
//     heuristics. Running Dijkstra from a goal over the reverse graph gives
//     h*(v) for every v at once; on symmetric graphs such as occupancy grids
//     the graph is its own reverse.
//
// Ties between equal distances are broken by the lower vertex index.
//
// Error handling (sentinel errors):
//
//   - ErrNilGraph:        a nil Graph.
//   - ErrSourceRange:     Source outside [0, Order()).
//   - ErrNegativeWeight:  a negative arc met during relaxation.
//
// API reference:
//
//	func Dijkstra(g Graph, opts ...Option) (dist []float64, err error)
package dijkstra

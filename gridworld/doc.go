// Package gridworld is the reference environment for package cbs: agents
// move on a 2D occupancy grid in discrete ticks.
//
// What:
//
//   - World wraps a rectangular [][]int grid; cells with value ≥
//     ObstacleThreshold are obstacles.
//   - State is (X, Y, T). Every successor is one tick later: a move to a free
//     neighbour (Conn4 or Conn8) or, with AllowWait, a wait.
//   - Costs: 1 per orthogonal move, √2 per diagonal move, WaitCost per wait.
//   - World implements cbs.Environment[State] and dijkstra.Graph.
//
// Collision rule:
//
// Two motions in the same tick collide when they end in the same cell, start
// in the same cell, or have the same midpoint (swaps and crossing diagonals).
// A constraint forbids every motion that overlaps its segment in time and
// collides with it, which is exactly the rule used to detect the conflict.
//
// Heuristics:
//
//   - Manhattan (Conn4) or octile (Conn8) distance by default.
//   - With TrueDistance, the exact obstacle-aware distance from a table
//     computed by package dijkstra once per goal cell.
//
// Both ignore time and are admissible because waiting never shortens a route.
//
// Complexity:
//
//   - NewWorld: O(W×H).
//   - Successors, Cost, Heuristic, Collides: O(1) (first TrueDistance lookup
//     per goal: O(W×H×log(W×H))).
//
// Errors:
//
//   - ErrEmptyGrid, ErrNonRectangular: invalid grids.
//   - ErrBadWaitCost, ErrBadHorizon: invalid options.
//   - ErrOutOfBounds, ErrBlocked: returned by Check for unusable states.
package gridworld

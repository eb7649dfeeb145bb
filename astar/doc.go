// Package astar provides a weighted A* search over an implicit state space,
// used as the single-agent oracle of the cbs planner.
//
// Overview:
//
//   - The space is described by the Space interface: successor generation,
//     edge cost, a heuristic estimate to a goal, a goal test and a stable hash.
//     Hash buckets the node table and == settles identity, so a hash
//     collision costs a longer scan, never a merged node.
//   - Nodes are ordered by f = g + Weight·h. With Weight == 1 and an admissible
//     heuristic the returned path is cost-optimal; larger weights trade
//     optimality for speed.
//   - Closed nodes are reopened when a strictly cheaper g is discovered, which
//     keeps results optimal for admissible but inconsistent heuristics.
//
// Tie-breaking among equal f:
//
//   - Conflicts (optional): a per-edge annotation accumulated along each
//     branch. Lower accumulated counts win. This only reorders equal-f nodes
//     and never changes cost or admissibility.
//   - TieBreak: PreferHighG (default, deeper nodes first), PreferLowG, or
//     Random (higher g first, then a random key drawn from Options.Rand).
//   - Finally insertion order, so every non-random run is deterministic.
//
// Edge filtering:
//
//   - Options.Allowed rejects individual transitions. The cbs planner uses it
//     to apply constraints without the space knowing about them.
//
// Errors (sentinel):
//
//   - ErrNilSpace        if the space is nil.
//   - ErrBadWeight       if Weight < 1 or NaN.
//   - ErrNoPath          if the open list empties before reaching the goal.
//   - ErrExpansionLimit  if MaxExpansions is positive and was reached.
//
// Complexity:
//
//   - Time:  O(E log V) heap operations in the explored region.
//   - Space: O(V) for the node table and the open list.
package astar

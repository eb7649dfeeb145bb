// Package cbsplan plans collision-free trajectories for many agents that
// share space over time, using Conflict-Based Search (CBS).
//
// 🚀 What is cbsplan?
//
//	A deterministic, concurrency-aware multi-agent planner:
//		• cbs/       – constraint tree, conflict detection, conflict-avoidance
//		               table, bypass, step-wise driver, metrics & snapshots
//		• astar/     – weighted single-agent A* used as the replanning oracle
//		• gridworld/ – reference environment: occupancy grid + discrete time
//		• dijkstra/  – static distance tables for exact grid heuristics
//		• scenario/  – YAML scenarios → ready-to-run planners
//		• config/    – defaults → YAML → CBSPLAN_* environment
//
// ✨ Why cbsplan?
//
//   - Generic over the state type: any Environment[S] plugs in
//   - Reproducible: every random stream derives from one seed
//   - Incremental: ExpandOneStep drives the search one node at a time and
//     published snapshots can be read while a step runs
//
// Quick ASCII example (two agents must cross the centre cell):
//
//	    . b .
//	    a . A
//	    . B .
//
// one of them waits a tick; the plan costs 5 instead of 4.
//
//	go install github.com/katalvlaran/cbsplan/cmd/cbsplan@latest
//	cbsplan solve scenario.yaml
package cbsplan

// Package cbs implements Conflict-Based Search for multi-agent trajectories in
// space-time.
//
// Each agent is first planned alone. The planner then searches a constraint
// tree (CT): every node holds one trajectory per agent, and a node whose
// trajectories collide is split on its earliest conflict into two children,
// each forbidding one of the two agents from the other's segment and
// replanning only that agent.
//
// Components:
//
//   - Trajectory, Constraint, Conflict, Node – the data model (types.go).
//   - FindConflict / CountConflicts – an interval sweep over two trajectories;
//     the spatial predicate is Environment.Collides.
//   - CAT – a B-tree of [start, end) segment intervals used to bias the oracle
//     towards equal-cost trajectories that collide less.
//   - Oracle – single-agent planning through all waypoints. AStarOracle runs
//     package astar over (state, leg) pairs and walks the agent's environment
//     ladder.
//   - Bypass – equal-cost replacement of one trajectory inside a node,
//     bounded by Options.MaxBypasses per node.
//   - Planner – the arena, the frontier and the ExpandOneStep / Solve driver.
//
// Frontier order:
//
//	CostFirst:      (cost, conflicts, tie key, node index)
//	ConflictsFirst: (conflicts, cost, tie key, node index)
//
// The tie key is 0 unless Options.TieBreak is astar.Random, in which case it
// is drawn from a stream seeded by Options.Seed.
//
// Determinism: with a non-random tie-break, identical agents and options give
// an identical expansion order and identical trajectories, whether or not
// children are replanned in parallel. Random streams are derived from
// (seed, node index, agent) so the random mode is reproducible per seed too.
//
// Concurrency: ExpandOneStep is not reentrant. IsSolved, BestNode,
// AggregateCost, Trajectory and Snapshot read a copy published after each
// step and may be called from any goroutine.
//
// Costs: a child's cost is parent cost - old trajectory cost + new trajectory
// cost. Children never cost less than their parent as long as the oracle is
// optimal: one environment per agent at weight 1. Environment ladders and
// weighted environments are a documented exception, reported by
// Planner.MonotoneCost.
//
// Errors:
//
//   - ErrMalformedAgent, ErrPlanningStarted – registration.
//   - ErrNoAgents, ErrStepInProgress – stepping.
//   - ErrNotSolved, ErrAgentNotFound – querying.
//   - ErrNoSolution, ErrBudgetExhausted – Solve only; ExpandOneStep reports an
//     empty frontier as StepNoSolution.
//
// A child whose agent cannot be replanned is kept in the arena with
// Satisfiable == false and never queued.
package cbs

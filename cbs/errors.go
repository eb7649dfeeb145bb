package cbs

import "errors"

// Sentinel errors for planner registration and querying.
var (
	// ErrMalformedAgent indicates an agent with fewer than two waypoints,
	// an empty environment ladder, a nil environment or a weight below 1.
	ErrMalformedAgent = errors.New("cbs: malformed agent")

	// ErrPlanningStarted indicates an AddAgent or SetOracle call after the
	// first expansion step.
	ErrPlanningStarted = errors.New("cbs: planning already started")

	// ErrNoAgents indicates an expansion step on a planner without agents.
	ErrNoAgents = errors.New("cbs: no agents registered")

	// ErrStepInProgress indicates a concurrent ExpandOneStep call.
	ErrStepInProgress = errors.New("cbs: expansion step already in progress")

	// ErrNotSolved indicates a solution query before the planner solved the problem.
	ErrNotSolved = errors.New("cbs: problem not solved")

	// ErrAgentNotFound indicates an agent index outside the registered range.
	ErrAgentNotFound = errors.New("cbs: agent not found")

	// ErrNoSolution indicates that the frontier emptied without a conflict-free node.
	ErrNoSolution = errors.New("cbs: no solution")

	// ErrBudgetExhausted indicates that Solve hit MaxExpansions or TimeLimit.
	ErrBudgetExhausted = errors.New("cbs: search budget exhausted")

	// ErrNilOracle indicates a nil oracle passed to SetOracle.
	ErrNilOracle = errors.New("cbs: oracle is nil")
)

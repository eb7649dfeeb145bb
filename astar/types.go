package astar

import (
	"errors"
	"math/rand"
)

// Sentinel errors returned by Search.
var (
	// ErrNilSpace indicates that a nil Space was passed to Search.
	ErrNilSpace = errors.New("astar: space is nil")

	// ErrBadWeight indicates a heuristic weight below 1 (or NaN).
	ErrBadWeight = errors.New("astar: weight must be >= 1")

	// ErrNoPath indicates that the goal is unreachable under the given options.
	ErrNoPath = errors.New("astar: no path to goal")

	// ErrExpansionLimit indicates that MaxExpansions was reached before the goal.
	ErrExpansionLimit = errors.New("astar: expansion limit reached")
)

// Space is the implicit graph searched by A*.
type Space[S comparable] interface {
	// Successors appends the successors of s to buf and returns it.
	Successors(s S, buf []S) []S
	// Cost returns the non-negative edge cost of from → to.
	Cost(from, to S) float64
	// Heuristic estimates the remaining cost from s to goal.
	Heuristic(s, goal S) float64
	// GoalTest reports whether s satisfies goal.
	GoalTest(s, goal S) bool
	// Hash buckets states in the node table. Equal states must hash equally;
	// distinct states may collide, at the cost of a longer bucket scan.
	Hash(s S) uint64
}

// TieBreak selects how nodes with equal f (and equal conflict annotation) are ordered.
type TieBreak int

const (
	// PreferHighG expands deeper nodes first.
	PreferHighG TieBreak = iota
	// PreferLowG expands shallower nodes first.
	PreferLowG
	// Random prefers higher g, then a random key drawn from Options.Rand.
	// Results are reproducible only for a fixed seed.
	Random
)

// String implements fmt.Stringer.
func (t TieBreak) String() string {
	switch t {
	case PreferHighG:
		return "high-g"
	case PreferLowG:
		return "low-g"
	case Random:
		return "random"
	default:
		return "unknown"
	}
}

// Options configures a single Search call.
//
// Weight        – heuristic weight (f = g + Weight·h). Must be ≥ 1. Default 1.
// TieBreak      – ordering among equal-f nodes. Default PreferHighG.
// Rand          – random source for TieBreak == Random. Nil uses a fixed default seed.
// Allowed       – optional transition filter; false rejects from → to.
// Conflicts     – optional per-transition annotation; lower accumulated sums win ties.
// MaxExpansions – stop with ErrExpansionLimit after this many expansions (0 = unbounded).
type Options[S comparable] struct {
	Weight        float64
	TieBreak      TieBreak
	Rand          *rand.Rand
	Allowed       func(from, to S) bool
	Conflicts     func(from, to S) int
	MaxExpansions int
}

// DefaultOptions returns Options with Weight=1, PreferHighG and no filters.
func DefaultOptions[S comparable]() Options[S] {
	return Options[S]{
		Weight:   1,
		TieBreak: PreferHighG,
	}
}

// Result is the outcome of a successful Search.
type Result[S comparable] struct {
	// Path holds the states from start to the first goal state, inclusive.
	Path []S
	// Cost is the sum of edge costs along Path.
	Cost float64
	// Expanded counts nodes removed from the open list.
	Expanded int
	// Touched counts generated successors (including filtered ones).
	Touched int
}

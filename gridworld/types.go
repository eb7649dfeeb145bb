// Package gridworld defines core types, options, and sentinel errors
// for the gridworld reference environment.
package gridworld

import (
	"errors"
	"fmt"
)

// Sentinel errors for gridworld operations.
var (
	// ErrEmptyGrid indicates input grid has no rows or no columns.
	ErrEmptyGrid = errors.New("gridworld: input grid must have at least one row and one column")
	// ErrNonRectangular indicates rows of differing lengths.
	ErrNonRectangular = errors.New("gridworld: all rows must have the same length")
	// ErrBadWaitCost indicates a negative WaitCost.
	ErrBadWaitCost = errors.New("gridworld: wait cost must be non-negative")
	// ErrBadHorizon indicates a negative Horizon.
	ErrBadHorizon = errors.New("gridworld: horizon must be non-negative")
	// ErrOutOfBounds indicates a state outside the grid.
	ErrOutOfBounds = errors.New("gridworld: cell out of bounds")
	// ErrBlocked indicates a state on an obstacle cell.
	ErrBlocked = errors.New("gridworld: cell is blocked")
	// ErrBadCell indicates an unknown character in a text grid.
	ErrBadCell = errors.New("gridworld: unknown cell character")
)

// Connectivity selects neighbor connectivity: orthogonal (Conn4) or including diagonals (Conn8).
type Connectivity int

const (
	// Conn4 uses 4-directional connectivity: N, E, S, W.
	Conn4 Connectivity = iota
	// Conn8 uses 8-directional connectivity: N, NE, E, SE, S, SW, W, NW.
	Conn8
)

// String returns "4" or "8".
func (c Connectivity) String() string {
	if c == Conn8 {
		return "8"
	}

	return "4"
}

// State is a cell at a discrete tick.
type State struct {
	X, Y int // Cell coordinates, row-major (Y is the row)
	T    int // Tick; every move or wait advances it by one
}

// String formats s as "(x,y)@t".
func (s State) String() string { return fmt.Sprintf("(%d,%d)@%d", s.X, s.Y, s.T) }

// Options contains tunable parameters for a World.
type Options struct {
	// ObstacleThreshold is the minimum cell value considered blocked.
	ObstacleThreshold int
	// Conn chooses 4- or 8-directional movement.
	Conn Connectivity
	// AllowWait adds a stay-in-place successor.
	AllowWait bool
	// WaitCost is the cost of one wait tick.
	WaitCost float64
	// Horizon is the last tick a successor may reach; 0 means automatic
	// (4 × cells, enough for any detour a constraint can force on small maps).
	Horizon int
	// TrueDistance replaces the Manhattan/octile heuristic with exact static
	// distances computed by Dijkstra from each goal cell.
	TrueDistance bool
}

// DefaultOptions returns Options with default settings:
// ObstacleThreshold=1, Conn4, waiting allowed at cost 1, automatic horizon,
// geometric heuristic.
func DefaultOptions() Options {
	return Options{
		ObstacleThreshold: 1,
		Conn:              Conn4,
		AllowWait:         true,
		WaitCost:          1,
	}
}

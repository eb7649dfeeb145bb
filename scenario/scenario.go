// Package scenario reads multi-agent planning problems on a gridworld from
// YAML and turns them into cbs planners.
//
// A scenario names an occupancy grid, one or more environments (movement
// rules over that grid) and the agents with their waypoints:
//
//	name: crossing
//	grid:
//	  - "..."
//	  - "..."
//	  - "..."
//	environments:
//	  - name: grid
//	    allow_wait: true
//	agents:
//	  - name: a
//	    waypoints: [[0, 1], [2, 1]]
//	  - name: b
//	    waypoints: [[1, 0], [1, 2]]
//
// Waypoints are [x, y] or [x, y, t]; t is the departure tick and only
// matters for the first waypoint. An agent's ladder lists environment names
// in the order the planner should try them; it defaults to every environment
// in file order.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/cbsplan/gridworld"
)

// Sentinel errors for scenario validation.
var (
	// ErrNoGrid indicates a missing or empty grid.
	ErrNoGrid = errors.New("scenario: grid must have at least one row")
	// ErrNoAgents indicates a scenario without agents.
	ErrNoAgents = errors.New("scenario: at least one agent is required")
	// ErrDuplicateName indicates two agents or two environments sharing a name.
	ErrDuplicateName = errors.New("scenario: duplicate name")
	// ErrUnknownEnvironment indicates a ladder entry naming no environment.
	ErrUnknownEnvironment = errors.New("scenario: unknown environment")
	// ErrBadEnvironment indicates an invalid environment field.
	ErrBadEnvironment = errors.New("scenario: invalid environment")
	// ErrBadWaypoint indicates a malformed, out-of-bounds or blocked waypoint.
	ErrBadWaypoint = errors.New("scenario: invalid waypoint")
	// ErrUnreachable indicates consecutive waypoints in disconnected regions
	// of every environment on the agent's ladder.
	ErrUnreachable = errors.New("scenario: waypoint unreachable")
)

// DefaultEnvironment is the name of the environment synthesized when a file
// lists none.
const DefaultEnvironment = "grid"

// File is the decoded YAML document.
type File struct {
	Name         string        `yaml:"name"`
	Grid         []string      `yaml:"grid"`
	Environments []Environment `yaml:"environments"`
	Agents       []Agent       `yaml:"agents"`
}

// Environment describes one rung of an agent's ladder. Zero values select the
// gridworld defaults; AllowWait is a pointer so "false" is distinguishable
// from "absent".
type Environment struct {
	Name           string  `yaml:"name"`
	Connectivity   int     `yaml:"connectivity"` // 4 or 8
	AllowWait      *bool   `yaml:"allow_wait"`
	WaitCost       float64 `yaml:"wait_cost"`
	Horizon        int     `yaml:"horizon"`
	ConflictCutoff int     `yaml:"conflict_cutoff"`
	Weight         float64 `yaml:"weight"`
	TrueDistance   bool    `yaml:"true_distance"`
}

// Agent is one agent entry.
type Agent struct {
	Name      string   `yaml:"name"`
	Waypoints [][]int  `yaml:"waypoints"`
	Ladder    []string `yaml:"ladder"`
}

// Load reads and validates the scenario at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: read %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes and validates a scenario. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("scenario: decode: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	return &f, nil
}

// applyDefaults fills the environment list and every ladder.
func (f *File) applyDefaults() {
	if len(f.Environments) == 0 {
		f.Environments = []Environment{{Name: DefaultEnvironment}}
	}
	for i := range f.Environments {
		e := &f.Environments[i]
		if e.Connectivity == 0 {
			e.Connectivity = 4
		}
		if e.Weight == 0 {
			e.Weight = 1
		}
		if e.WaitCost == 0 {
			e.WaitCost = 1
		}
		if e.AllowWait == nil {
			on := true
			e.AllowWait = &on
		}
	}
	for i := range f.Agents {
		if len(f.Agents[i].Ladder) > 0 {
			continue
		}
		for _, e := range f.Environments {
			f.Agents[i].Ladder = append(f.Agents[i].Ladder, e.Name)
		}
	}
}

// Validate fills defaults, then checks names, environment fields, ladders and
// every waypoint against the grid.
func (f *File) Validate() error {
	f.applyDefaults()
	if len(f.Grid) == 0 {
		return ErrNoGrid
	}
	if len(f.Agents) == 0 {
		return ErrNoAgents
	}
	worlds, err := f.worlds()
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(f.Agents))
	for i, a := range f.Agents {
		if seen[a.Name] {
			return fmt.Errorf("%w: agent %q", ErrDuplicateName, a.Name)
		}
		seen[a.Name] = true
		if len(a.Waypoints) < 2 {
			return fmt.Errorf("%w: agent %q needs at least two waypoints", ErrBadWaypoint, a.Name)
		}
		for _, name := range a.Ladder {
			if _, ok := worlds[name]; !ok {
				return fmt.Errorf("%w: agent %q ladder names %q", ErrUnknownEnvironment, a.Name, name)
			}
		}
		w := worlds[a.Ladder[0]]
		var prev gridworld.State
		for k, wp := range a.Waypoints {
			s, err := toState(wp)
			if err != nil {
				return fmt.Errorf("%w: agent %d (%q) waypoint %d: %v", ErrBadWaypoint, i, a.Name, k, err)
			}
			if err := w.Check(s); err != nil {
				return fmt.Errorf("%w: agent %d (%q) waypoint %d: %w", ErrBadWaypoint, i, a.Name, k, err)
			}
			if k > 0 && !connected(worlds, a.Ladder, prev, s) {
				return fmt.Errorf("%w: agent %q waypoint %d %v from %v", ErrUnreachable, a.Name, k, s, prev)
			}
			prev = s
		}
	}

	return nil
}

// connected reports whether some rung of ladder links a and b.
func connected(worlds map[string]*gridworld.World, ladder []string, a, b gridworld.State) bool {
	for _, name := range ladder {
		if worlds[name].Connected(a, b) {
			return true
		}
	}

	return false
}

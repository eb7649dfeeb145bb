package scenario

import (
	"fmt"

	"github.com/katalvlaran/cbsplan/cbs"
	"github.com/katalvlaran/cbsplan/gridworld"
)

// toState converts [x, y] or [x, y, t].
func toState(wp []int) (gridworld.State, error) {
	switch len(wp) {
	case 2:
		return gridworld.State{X: wp[0], Y: wp[1]}, nil
	case 3:
		return gridworld.State{X: wp[0], Y: wp[1], T: wp[2]}, nil
	default:
		return gridworld.State{}, fmt.Errorf("want [x, y] or [x, y, t], got %v", wp)
	}
}

// worlds builds one gridworld per environment over the shared grid.
func (f *File) worlds() (map[string]*gridworld.World, error) {
	grid, err := gridworld.ParseRows(f.Grid)
	if err != nil {
		return nil, fmt.Errorf("scenario: grid: %w", err)
	}

	out := make(map[string]*gridworld.World, len(f.Environments))
	for _, e := range f.Environments {
		if _, dup := out[e.Name]; dup {
			return nil, fmt.Errorf("%w: environment %q", ErrDuplicateName, e.Name)
		}
		opts := gridworld.DefaultOptions()
		switch e.Connectivity {
		case 4:
			opts.Conn = gridworld.Conn4
		case 8:
			opts.Conn = gridworld.Conn8
		default:
			return nil, fmt.Errorf("%w: %q connectivity %d", ErrBadEnvironment, e.Name, e.Connectivity)
		}
		if e.Weight < 1 {
			return nil, fmt.Errorf("%w: %q weight %v < 1", ErrBadEnvironment, e.Name, e.Weight)
		}
		if e.ConflictCutoff < 0 {
			return nil, fmt.Errorf("%w: %q conflict_cutoff %d < 0", ErrBadEnvironment, e.Name, e.ConflictCutoff)
		}
		if e.AllowWait != nil {
			opts.AllowWait = *e.AllowWait
		}
		opts.WaitCost = e.WaitCost
		opts.Horizon = e.Horizon
		opts.TrueDistance = e.TrueDistance

		w, err := gridworld.NewWorld(grid, opts)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrBadEnvironment, e.Name, err)
		}
		out[e.Name] = w
	}

	return out, nil
}

// PlannerAgents converts the agents into cbs agents in file order.
func (f *File) PlannerAgents() ([]cbs.Agent[gridworld.State], error) {
	worlds, err := f.worlds()
	if err != nil {
		return nil, err
	}
	byName := make(map[string]Environment, len(f.Environments))
	for _, e := range f.Environments {
		byName[e.Name] = e
	}

	agents := make([]cbs.Agent[gridworld.State], len(f.Agents))
	for i, a := range f.Agents {
		out := cbs.Agent[gridworld.State]{Name: a.Name}
		for _, wp := range a.Waypoints {
			s, err := toState(wp)
			if err != nil {
				return nil, fmt.Errorf("%w: agent %q: %v", ErrBadWaypoint, a.Name, err)
			}
			out.Waypoints = append(out.Waypoints, s)
		}
		for _, name := range a.Ladder {
			w, ok := worlds[name]
			if !ok {
				return nil, fmt.Errorf("%w: agent %q ladder names %q", ErrUnknownEnvironment, a.Name, name)
			}
			e := byName[name]
			out.Environments = append(out.Environments, cbs.EnvironmentContainer[gridworld.State]{
				Name:           name,
				Env:            w,
				ConflictCutoff: e.ConflictCutoff,
				Weight:         e.Weight,
			})
		}
		agents[i] = out
	}

	return agents, nil
}

// Build returns a planner with every agent registered.
func (f *File) Build(opts ...cbs.Option) (*cbs.Planner[gridworld.State], error) {
	agents, err := f.PlannerAgents()
	if err != nil {
		return nil, err
	}
	p := cbs.New[gridworld.State](opts...)
	for _, a := range agents {
		if _, err := p.AddAgent(a); err != nil {
			return nil, fmt.Errorf("scenario: agent %q: %w", a.Name, err)
		}
	}

	return p, nil
}

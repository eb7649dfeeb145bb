package cbs

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/cbsplan/astar"
)

const tracerName = "github.com/katalvlaran/cbsplan/cbs"

// Step is the outcome of one ExpandOneStep call.
type Step int

const (
	// StepNone is returned together with an error.
	StepNone Step = iota
	// StepSolved: a conflict-free node was found. Terminal.
	StepSolved
	// StepNoSolution: the frontier is empty. Terminal.
	StepNoSolution
	// StepBypassed: the popped node was repaired in place and re-queued.
	StepBypassed
	// StepBranched: the popped node produced up to two children.
	StepBranched
)

// String returns the lower-case step name.
func (s Step) String() string {
	switch s {
	case StepSolved:
		return "solved"
	case StepNoSolution:
		return "no-solution"
	case StepBypassed:
		return "bypassed"
	case StepBranched:
		return "branched"
	default:
		return "none"
	}
}

// Terminal reports whether s ends the search.
func (s Step) Terminal() bool { return s == StepSolved || s == StepNoSolution }

// Stats counts planner activity.
type Stats struct {
	Expansions     int
	Branches       int
	Bypasses       int
	BypassRejected int
	Pruned         int
	OracleCalls    int
	Nodes          int
	MaxDepth       int
}

// Result is what Solve returns on success.
type Result[S comparable] struct {
	RunID   string
	Node    int
	Cost    float64
	Paths   []Trajectory[S]
	Stats   Stats
	Elapsed time.Duration
}

// Planner runs Conflict-Based Search over a fixed set of agents.
//
// Agents are registered with AddAgent before the first ExpandOneStep. Each
// ExpandOneStep call is one unit of work; calls must not overlap, and an
// overlapping call fails with ErrStepInProgress. Read accessors (IsSolved,
// BestNode, AggregateCost, Trajectory, Snapshot) may run concurrently with a
// step: they read a copy published at the end of every step.
type Planner[S comparable] struct {
	opts   Options
	log    *zap.Logger
	runID  string
	oracle Oracle[S]
	agents []Agent[S]

	stepMu   sync.Mutex
	started  bool
	terminal Step
	tree     tree[S]
	open     *frontier[S]
	policy   *rand.Rand // frontier tie keys
	solved   int
	stats    Stats
	order    []int // popped node indices

	snapMu sync.RWMutex
	snap   Snapshot[S]
}

// New returns a Planner configured by opts applied over DefaultOptions.
func New[S comparable](opts ...Option) *Planner[S] {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	p := &Planner[S]{
		opts:   o,
		runID:  uuid.NewString(),
		oracle: NewAStarOracle[S](),
		policy: rngFromSeed(o.Seed),
		solved: -1,
	}
	p.log = o.Logger.With(zap.String("run_id", p.runID))
	p.open = &frontier[S]{
		tree:   &p.tree,
		order:  o.Order,
		random: o.TieBreak == astar.Random,
	}
	p.snap.Node = -1

	return p
}

// RunID returns the identifier attached to this planner's logs and spans.
func (p *Planner[S]) RunID() string { return p.runID }

// Options returns the effective configuration.
func (p *Planner[S]) Options() Options { return p.opts }

// AddAgent registers a and returns its index.
//
// Errors: ErrPlanningStarted after the first step; ErrMalformedAgent when a
// has fewer than two waypoints, no environment, a nil environment or a
// weight below 1.
func (p *Planner[S]) AddAgent(a Agent[S]) (int, error) {
	p.stepMu.Lock()
	defer p.stepMu.Unlock()
	if p.started {
		return -1, ErrPlanningStarted
	}
	if len(a.Waypoints) < 2 {
		return -1, fmt.Errorf("%w: agent %q has %d waypoints, need at least 2", ErrMalformedAgent, a.Name, len(a.Waypoints))
	}
	if len(a.Environments) == 0 {
		return -1, fmt.Errorf("%w: agent %q has no environment", ErrMalformedAgent, a.Name)
	}
	for k, ec := range a.Environments {
		if ec.Env == nil {
			return -1, fmt.Errorf("%w: agent %q environment %d is nil", ErrMalformedAgent, a.Name, k)
		}
		if ec.Weight != 0 && !(ec.Weight >= 1) {
			return -1, fmt.Errorf("%w: agent %q environment %q weight %v", ErrMalformedAgent, a.Name, ec.Name, ec.Weight)
		}
	}
	a.Waypoints = slices.Clone(a.Waypoints)
	a.Environments = slices.Clone(a.Environments)
	p.agents = append(p.agents, a)

	return len(p.agents) - 1, nil
}

// SetOracle replaces the default A* oracle. It must be called before the
// first step.
func (p *Planner[S]) SetOracle(o Oracle[S]) error {
	if o == nil {
		return ErrNilOracle
	}
	p.stepMu.Lock()
	defer p.stepMu.Unlock()
	if p.started {
		return ErrPlanningStarted
	}
	p.oracle = o

	return nil
}

// Agents returns the number of registered agents.
func (p *Planner[S]) Agents() int {
	p.stepMu.Lock()
	defer p.stepMu.Unlock()

	return len(p.agents)
}

// MonotoneCost reports whether no child can cost less than its parent: the
// default oracle plans every agent in a single environment with weight 1.
// A ladder of several environments, or a weighted one, breaks this. The
// oracle may then reject a cheap rung at the root because of predicted
// conflicts and accept it in a child where the added constraint pushed the
// cheap route clear of them, so a child can undercut its parent and the
// first solution found is not necessarily the cheapest.
func (p *Planner[S]) MonotoneCost() bool {
	p.stepMu.Lock()
	defer p.stepMu.Unlock()

	if _, ok := p.oracle.(*AStarOracle[S]); !ok {
		return false
	}
	for _, a := range p.agents {
		if len(a.Environments) != 1 || a.Environments[0].Weight > 1 {
			return false
		}
	}

	return true
}

// ExpandOneStep performs one unit of search: create the root on the first
// call, then pop the best node and either accept it, bypass its earliest
// conflict or branch on it. Once a terminal step is reached every later call
// returns it again.
func (p *Planner[S]) ExpandOneStep() (Step, error) {
	return p.expand(context.Background())
}

func (p *Planner[S]) expand(ctx context.Context) (Step, error) {
	if !p.stepMu.TryLock() {
		return StepNone, ErrStepInProgress
	}
	defer p.stepMu.Unlock()

	if len(p.agents) == 0 {
		return StepNone, ErrNoAgents
	}
	if p.terminal.Terminal() {
		return p.terminal, nil
	}
	if !p.started {
		p.started = true
		if !p.plantRoot() {
			return p.finish(StepNoSolution), nil
		}
	}
	if p.open.Len() == 0 {
		return p.finish(StepNoSolution), nil
	}

	idx := p.open.pop()
	n := p.tree.nodes[idx]
	p.order = append(p.order, idx)
	p.stats.Expansions++
	p.opts.Metrics.expanded()

	c, _, found := scanNode(p.collider, n.Paths)
	if !found {
		p.solved = idx
		return p.finish(StepSolved), nil
	}
	p.log.Debug("conflict",
		zap.Int("node", idx),
		zap.Int("agent_a", c.A),
		zap.Int("agent_b", c.B),
		zap.Float64("time", c.Time),
		zap.Int("conflicts", n.Conflicts),
	)

	if p.opts.Bypass && n.Bypasses < p.opts.MaxBypasses && p.bypass(idx, c) {
		p.open.push(idx, p.tieKey())
		p.publish()
		return StepBypassed, nil
	}

	p.branch(ctx, idx, c)
	p.publish()

	return StepBranched, nil
}

// plantRoot plans every agent alone, feeding each trajectory into the root
// CAT before planning the next, and queues the root. It reports false when
// some agent has no trajectory at all.
func (p *Planner[S]) plantRoot() bool {
	root := &Node[S]{
		Parent:      -1,
		Agent:       -1,
		Paths:       make([]Trajectory[S], len(p.agents)),
		Satisfiable: true,
	}
	if p.opts.UseCAT {
		root.cat = NewCAT(p.agents[0].Environments[0].Env.Time)
	}
	idx := p.tree.add(root)
	for i := range p.agents {
		t, ok := p.plan(i, nil, root.cat, streamRNG(p.opts.Seed, idx, i))
		p.stats.OracleCalls++
		if !ok {
			root.Satisfiable = false
			p.log.Info("agent has no trajectory", zap.Int("agent", i), zap.String("name", p.agents[i].Name))
			return false
		}
		root.Paths[i] = t
		root.Cost += t.Cost
		if root.cat != nil {
			root.cat.Insert(i, t)
		}
	}
	_, root.Conflicts, _ = scanNode(p.collider, root.Paths)
	p.open.push(idx, p.tieKey())
	p.stats.Nodes = len(p.tree.nodes)
	p.log.Debug("root planned", zap.Float64("cost", root.Cost), zap.Int("conflicts", root.Conflicts))

	return true
}

// branch creates one child per agent of c and queues the feasible ones.
//
// Child indices, constraint sets and CAT clones are prepared sequentially so
// the concurrent part touches only its own child.
func (p *Planner[S]) branch(ctx context.Context, idx int, c Conflict[S]) {
	_, span := otel.Tracer(tracerName).Start(ctx, "cbs.branch",
		trace.WithAttributes(
			attribute.Int("cbs.node", idx),
			attribute.Int("cbs.agent_a", c.A),
			attribute.Int("cbs.agent_b", c.B),
		),
	)
	defer span.End()

	parent := p.tree.nodes[idx]
	var (
		agents   = [2]int{c.A, c.B}
		cons     = [2]Constraint[S]{c.ConstraintA, c.ConstraintB}
		children [2]*Node[S]
		childIdx [2]int
		sets     [2][]Constraint[S]
		paths    [2]Trajectory[S]
		ok       [2]bool
	)
	for k := range children {
		children[k] = &Node[S]{
			Parent:      idx,
			Paths:       slices.Clone(parent.Paths),
			Constraint:  cons[k],
			Constrained: true,
			Agent:       agents[k],
			Depth:       parent.Depth + 1,
		}
		childIdx[k] = p.tree.add(children[k])
		if parent.cat != nil {
			children[k].cat = parent.cat.Clone()
			children[k].cat.Remove(agents[k])
		}
		sets[k] = p.tree.constraintsFor(childIdx[k], agents[k])
	}

	replan := func(k int) {
		rng := streamRNG(p.opts.Seed, childIdx[k], agents[k])
		paths[k], ok[k] = p.plan(agents[k], sets[k], children[k].cat, rng)
	}
	if p.opts.Parallel {
		var g errgroup.Group
		for k := range children {
			g.Go(func() error {
				replan(k)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for k := range children {
			replan(k)
		}
	}

	p.stats.Branches++
	p.stats.OracleCalls += len(children)
	p.opts.Metrics.branched()
	for k, child := range children {
		a := agents[k]
		if !ok[k] {
			p.stats.Pruned++
			p.opts.Metrics.prunedChild()
			p.log.Debug("child pruned", zap.Int("node", childIdx[k]), zap.Int("agent", a))
			continue
		}
		old := parent.Paths[a]
		child.Paths[a] = paths[k]
		child.Cost = parent.Cost - old.Cost + paths[k].Cost
		child.Conflicts = parent.Conflicts -
			agentConflicts(p.collider, parent.Paths, a, old) +
			agentConflicts(p.collider, child.Paths, a, paths[k])
		child.Satisfiable = true
		if child.cat != nil {
			child.cat.Insert(a, paths[k])
		}
		p.open.push(childIdx[k], p.tieKey())
		if child.Depth > p.stats.MaxDepth {
			p.stats.MaxDepth = child.Depth
		}
	}
	p.stats.Nodes = len(p.tree.nodes)
	span.SetAttributes(attribute.Int("cbs.pruned", p.stats.Pruned))
}

// plan calls the oracle for agent under cons.
func (p *Planner[S]) plan(agent int, cons []Constraint[S], cat *CAT[S], rng *rand.Rand) (Trajectory[S], bool) {
	a := p.agents[agent]
	req := PlanRequest[S]{
		Agent:         agent,
		Waypoints:     a.Waypoints,
		Ladder:        a.Environments,
		Constraints:   cons,
		CAT:           cat,
		TieBreak:      p.opts.TieBreak,
		MaxExpansions: p.opts.OracleLimit,
	}
	if p.opts.TieBreak == astar.Random {
		req.Rand = rng
	}
	start := time.Now()
	t, ok := p.oracle.Plan(req)
	p.opts.Metrics.replanned(time.Since(start))

	return t, ok
}

// collider returns the collision predicate for the pair (i, j): the first
// environment of the lower-indexed agent.
func (p *Planner[S]) collider(i, j int) Collider[S] {
	return p.agents[min(i, j)].Environments[0].Env
}

func (p *Planner[S]) tieKey() uint64 {
	if !p.open.random {
		return 0
	}

	return p.policy.Uint64()
}

// finish records a terminal step and publishes the final snapshot.
func (p *Planner[S]) finish(s Step) Step {
	p.terminal = s
	p.publish()
	p.opts.Metrics.nodes(len(p.tree.nodes))
	if s == StepSolved {
		n := p.tree.nodes[p.solved]
		p.log.Info("solved",
			zap.Int("node", p.solved),
			zap.Float64("cost", n.Cost),
			zap.Int("expansions", p.stats.Expansions),
			zap.Int("nodes", len(p.tree.nodes)),
		)
	} else {
		p.log.Info("no solution",
			zap.Int("expansions", p.stats.Expansions),
			zap.Int("nodes", len(p.tree.nodes)),
		)
	}

	return s
}

// Solve runs ExpandOneStep until a terminal step, ctx is done or a budget in
// Options runs out.
//
// Errors: ctx.Err(); ErrBudgetExhausted; ErrNoSolution; any ExpandOneStep error.
func (p *Planner[S]) Solve(ctx context.Context) (Result[S], error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "cbs.Solve",
		trace.WithAttributes(
			attribute.String("cbs.run_id", p.runID),
			attribute.Int("cbs.agents", p.Agents()),
			attribute.String("cbs.order", p.opts.Order.String()),
		),
	)
	defer span.End()

	start := time.Now()
	res, err := p.solve(ctx, start)
	res.Elapsed = time.Since(start)
	span.SetAttributes(
		attribute.Int("cbs.expansions", res.Stats.Expansions),
		attribute.Int("cbs.nodes", res.Stats.Nodes),
		attribute.Int64("duration_ms", res.Elapsed.Milliseconds()),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return res, err
}

func (p *Planner[S]) solve(ctx context.Context, start time.Time) (Result[S], error) {
	res := Result[S]{RunID: p.runID, Node: -1}
	for {
		snap := p.Snapshot()
		res.Stats = snap.Stats
		if err := ctx.Err(); err != nil {
			p.opts.Metrics.outcome("cancelled")
			return res, err
		}
		if p.opts.MaxExpansions > 0 && snap.Stats.Expansions >= p.opts.MaxExpansions {
			p.opts.Metrics.outcome("budget")
			return res, fmt.Errorf("%w: %d expansions", ErrBudgetExhausted, snap.Stats.Expansions)
		}
		if p.opts.TimeLimit > 0 && time.Since(start) >= p.opts.TimeLimit {
			p.opts.Metrics.outcome("budget")
			return res, fmt.Errorf("%w: time limit %s", ErrBudgetExhausted, p.opts.TimeLimit)
		}

		step, err := p.expand(ctx)
		if err != nil {
			return res, err
		}
		switch step {
		case StepSolved:
			snap = p.Snapshot()
			p.opts.Metrics.outcome("solved")
			res.Node, res.Cost, res.Paths, res.Stats = snap.Node, snap.Cost, snap.Paths, snap.Stats
			return res, nil
		case StepNoSolution:
			p.opts.Metrics.outcome("no_solution")
			res.Stats = p.Snapshot().Stats
			return res, ErrNoSolution
		}
	}
}

// NodeCount returns the number of constraint-tree nodes, infeasible ones
// included. It waits for an in-flight step.
func (p *Planner[S]) NodeCount() int {
	p.stepMu.Lock()
	defer p.stepMu.Unlock()

	return len(p.tree.nodes)
}

// Node returns a shallow copy of node i. It waits for an in-flight step.
func (p *Planner[S]) Node(i int) (Node[S], bool) {
	p.stepMu.Lock()
	defer p.stepMu.Unlock()
	if i < 0 || i >= len(p.tree.nodes) {
		return Node[S]{}, false
	}
	n := *p.tree.nodes[i]
	n.Paths = slices.Clone(n.Paths)

	return n, true
}

// Constraints returns the effective constraint set of agent at node i.
func (p *Planner[S]) Constraints(i, agent int) []Constraint[S] {
	p.stepMu.Lock()
	defer p.stepMu.Unlock()
	if i < 0 || i >= len(p.tree.nodes) {
		return nil
	}

	return p.tree.constraintsFor(i, agent)
}

// ExpansionOrder returns the indices of popped nodes in pop order. A node
// re-queued after a bypass appears once per pop.
func (p *Planner[S]) ExpansionOrder() []int {
	p.stepMu.Lock()
	defer p.stepMu.Unlock()

	return slices.Clone(p.order)
}

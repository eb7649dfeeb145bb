package cbs

import "go.uber.org/zap"

// bypass asks the oracle for another trajectory of agent c.A under node idx's
// existing constraints and swaps it in when it has the same cost, differs from
// the current one and does not add conflicts against the other agents.
//
// The node keeps its index, parent, constraint and cost. Its conflict count,
// CAT entries and bypass counter are updated.
func (p *Planner[S]) bypass(idx int, c Conflict[S]) bool {
	n := p.tree.nodes[idx]
	a := c.A
	cur := n.Paths[a]

	seed := deriveSeed(p.opts.Seed, uint64(n.Bypasses)+1)
	t, ok := p.plan(a, p.tree.constraintsFor(idx, a), n.cat, streamRNG(seed, idx, a))
	p.stats.OracleCalls++

	accepted := ok && fequal(t.Cost, cur.Cost) && !t.Equal(cur)
	var before, after int
	if accepted {
		before = agentConflicts(p.collider, n.Paths, a, cur)
		after = agentConflicts(p.collider, n.Paths, a, t)
		accepted = after <= before
	}
	p.opts.Metrics.bypass(accepted)
	if !accepted {
		p.stats.BypassRejected++
		return false
	}

	// Cost is equal within eps; keep the stored cost so the node's aggregate
	// does not drift.
	t.Cost = cur.Cost
	n.Paths[a] = t
	n.Conflicts += after - before
	n.Bypasses++
	if n.cat != nil {
		n.cat.Replace(a, t)
	}
	p.stats.Bypasses++
	p.log.Debug("bypass",
		zap.Int("node", idx),
		zap.Int("agent", a),
		zap.Int("conflicts_before", before),
		zap.Int("conflicts_after", after),
	)

	return true
}

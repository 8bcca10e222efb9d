package community

// ModularityGain is the Newman-Girvan modularity objective used by Louvain.
type ModularityGain struct{}

// Name implements Objective.
func (ModularityGain) Name() string { return "modularity" }

// Gain returns the modularity change of inserting detached node i into c.
func (ModularityGain) Gain(st *State, i, c int, kIn float64) float64 {
	two := st.Total()
	return (kIn - st.Strength(i)*st.CommunityTotal(c)/two) / (two / 2)
}

// Quality returns the modularity of the current assignment.
func (ModularityGain) Quality(st *State) float64 {
	two := st.Total()
	if two == 0 {
		return 0
	}
	q := 0.0
	st.Active(func(c int) {
		share := st.CommunityTotal(c) / two
		q += st.CommunityInternal(c)/two - share*share
	})
	return q
}

// MapEquation is the two-level map equation objective used by Infomap.
// Quality is the negated description length in bits.
type MapEquation struct{}

// Name implements Objective.
func (MapEquation) Name() string { return "map_equation" }

// Gain returns the reduction in description length from inserting detached
// node i into c, compared with leaving it as its own module.
func (MapEquation) Gain(st *State, i, c int, kIn float64) float64 {
	two := st.Total()
	p := func(w float64) float64 { return plogp(w / two) }

	k := st.Strength(i)
	nodeExit := k - 2*st.SelfWeight(i)
	tot := st.CommunityTotal(c)
	exitC := tot - st.CommunityInternal(c)
	rest := st.ExitTotal()

	before := p(rest+nodeExit) -
		2*p(nodeExit) - 2*p(exitC) +
		p(nodeExit+k) + p(exitC+tot)

	exitAfter := exitC + nodeExit - 2*kIn
	after := p(rest-exitC+exitAfter) -
		2*p(exitAfter) +
		p(exitAfter+tot+k)

	return before - after
}

// Quality returns the negated description length of the assignment.
func (m MapEquation) Quality(st *State) float64 {
	return -m.Codelength(st)
}

// Codelength returns the description length in bits per step.
func (MapEquation) Codelength(st *State) float64 {
	two := st.Total()
	if two == 0 {
		return 0
	}
	p := func(w float64) float64 { return plogp(w / two) }

	exitTerms, moduleTerms := 0.0, 0.0
	st.Active(func(c int) {
		exit := st.CommunityTotal(c) - st.CommunityInternal(c)
		exitTerms += p(exit)
		moduleTerms += p(exit + st.CommunityTotal(c))
	})
	return p(st.ExitTotal()) - 2*exitTerms + st.NodeEntropy() + moduleTerms
}

// LabelMajority scores a community by the weight of links into it. Run
// without aggregation it is asynchronous label propagation.
type LabelMajority struct{}

// Name implements Objective.
func (LabelMajority) Name() string { return "label_majority" }

// Gain implements Objective.
func (LabelMajority) Gain(_ *State, _, _ int, kIn float64) float64 {
	return kIn
}

// Quality returns the fraction of edge weight inside communities.
func (LabelMajority) Quality(st *State) float64 {
	two := st.Total()
	if two == 0 {
		return 0
	}
	in := 0.0
	st.Active(func(c int) {
		in += st.CommunityInternal(c)
	})
	return in / two
}

package community

import (
	"math"
	"slices"

	"github.com/dd0wney/cluso-netstat/pkg/graph"
	"github.com/dd0wney/cluso-netstat/pkg/sampling"
)

// gainEpsilon absorbs floating point noise when comparing gains; a move
// must beat staying by more than this.
const gainEpsilon = 1e-12

// Objective scores candidate moves for the engine. Gain is evaluated with
// the moving node detached from every community, so staying put is scored
// exactly like any other candidate.
type Objective interface {
	Name() string

	// Gain scores inserting detached node i into community c, to which it
	// is linked by total weight kIn.
	Gain(st *State, i, c int, kIn float64) float64

	// Quality scores the whole assignment; higher is better.
	Quality(st *State) float64
}

// State is the community bookkeeping of one engine level.
type State struct {
	lg   *levelGraph
	comm []int
	tot  []float64 // summed strength per community
	in   []float64 // twice the internal weight per community
	exit float64   // sum over communities of tot - in

	links   []float64
	touched []int
}

func newState(lg *levelGraph) *State {
	st := &State{
		lg:    lg,
		comm:  make([]int, lg.n),
		tot:   make([]float64, lg.n),
		in:    make([]float64, lg.n),
		links: make([]float64, lg.n),
	}
	for i := 0; i < lg.n; i++ {
		st.comm[i] = i
		st.tot[i] = lg.strength[i]
		st.in[i] = 2 * lg.self[i]
		st.exit += st.tot[i] - st.in[i]
	}
	return st
}

// NodeCount returns the number of nodes at this level.
func (st *State) NodeCount() int { return st.lg.n }

// Total returns the summed strength of all nodes (2m).
func (st *State) Total() float64 { return st.lg.total }

// Strength returns the weighted degree of node i.
func (st *State) Strength(i int) float64 { return st.lg.strength[i] }

// SelfWeight returns the weight folded inside node i.
func (st *State) SelfWeight(i int) float64 { return st.lg.self[i] }

// CommunityTotal returns the summed strength of community c.
func (st *State) CommunityTotal(c int) float64 { return st.tot[c] }

// CommunityInternal returns twice the internal weight of community c.
func (st *State) CommunityInternal(c int) float64 { return st.in[c] }

// ExitTotal returns the weight leaving communities, summed over all of them.
func (st *State) ExitTotal() float64 { return st.exit }

// NodeEntropy returns the entropy of the stationary node distribution.
func (st *State) NodeEntropy() float64 { return st.lg.nodeEntropy }

// Active calls fn for every non-empty community.
func (st *State) Active(fn func(c int)) {
	for c, t := range st.tot {
		if t > 0 || st.in[c] > 0 {
			fn(c)
		}
	}
}

func (st *State) remove(i, c int, kIn float64) {
	before := st.tot[c] - st.in[c]
	st.tot[c] -= st.lg.strength[i]
	st.in[c] -= 2*kIn + 2*st.lg.self[i]
	st.exit += (st.tot[c] - st.in[c]) - before
}

func (st *State) insert(i, c int, kIn float64) {
	before := st.tot[c] - st.in[c]
	st.tot[c] += st.lg.strength[i]
	st.in[c] += 2*kIn + 2*st.lg.self[i]
	st.exit += (st.tot[c] - st.in[c]) - before
}

// collect accumulates the link weight from node i into each neighboring
// community. touched ends up sorted by community id.
func (st *State) collect(i int) {
	st.touched = st.touched[:0]
	nbrs, weights := st.lg.row(i)
	for k, j := range nbrs {
		c := st.comm[j]
		if st.links[c] == 0 {
			st.touched = append(st.touched, c)
		}
		st.links[c] += weights[k]
	}
	slices.Sort(st.touched)
}

func (st *State) release() {
	for _, c := range st.touched {
		st.links[c] = 0
	}
}

// TieBreak chooses among candidate communities with equal best gain.
type TieBreak int

const (
	// TieLowestID keeps the lowest community id.
	TieLowestID TieBreak = iota
	// TieRandom picks uniformly through the engine's controller.
	TieRandom
)

// Engine runs the two-phase local-move / aggregate procedure shared by
// every detector. Phase one moves single nodes to the neighboring
// community with the best Gain until a pass makes no move; phase two
// collapses communities into nodes and repeats on the smaller graph.
type Engine struct {
	Objective Objective

	// Aggregate enables phase two. Without it the engine stops after one level.
	Aggregate bool

	// MaxPasses caps local-move passes per level.
	MaxPasses int

	// MaxLevels caps aggregation levels.
	MaxLevels int

	// Tolerance is the minimum quality improvement that keeps a level.
	Tolerance float64

	TieBreak TieBreak

	// Rand shuffles the visiting order each pass and drives TieRandom.
	// Nil keeps ascending order and lowest-id ties.
	Rand *sampling.Controller
}

// LevelStats summarizes one engine level.
type LevelStats struct {
	Level       int     `json:"level" yaml:"level"`
	Nodes       int     `json:"nodes" yaml:"nodes"`
	Communities int     `json:"communities" yaml:"communities"`
	Passes      int     `json:"passes" yaml:"passes"`
	Moves       int     `json:"moves" yaml:"moves"`
	Quality     float64 `json:"quality" yaml:"quality"`
	Converged   bool    `json:"converged" yaml:"converged"`
}

// Outcome is the raw result of an engine run.
type Outcome struct {
	// Labels holds a dense community label per store position.
	Labels    []int
	Levels    []LevelStats
	Quality   float64
	Passes    int
	Converged bool
}

// Run detects communities in g.
func (e *Engine) Run(g *graph.Graph) (*Outcome, error) {
	n := g.NodeCount()
	if n == 0 {
		return nil, graph.ErrEmptyGraph
	}

	labels := make([]int, n)
	for i := range labels {
		labels[i] = i
	}

	lg := fromGraph(g)
	out := &Outcome{Labels: labels, Converged: true}
	out.Quality = e.Objective.Quality(newState(lg))
	if lg.total == 0 {
		return out, nil
	}

	maxLevels := e.MaxLevels
	if maxLevels <= 0 || !e.Aggregate {
		maxLevels = 1
	}

	for level := 0; level < maxLevels; level++ {
		st := newState(lg)
		passes, moves, converged := e.moveNodes(st)
		quality := e.Objective.Quality(st)

		out.Passes += passes
		if !converged {
			out.Converged = false
		}

		dense, k := renumber(st.comm)
		out.Levels = append(out.Levels, LevelStats{
			Level:       level,
			Nodes:       lg.n,
			Communities: k,
			Passes:      passes,
			Moves:       moves,
			Quality:     quality,
			Converged:   converged,
		})

		if moves == 0 {
			break
		}
		if e.Aggregate && quality-out.Quality <= e.Tolerance {
			// not worth keeping; labels stay at the previous level
			break
		}

		for i, l := range out.Labels {
			out.Labels[i] = dense[l]
		}
		out.Quality = quality

		if !e.Aggregate || k == lg.n {
			break
		}
		lg = lg.aggregate(dense, k)
	}

	out.Labels, _ = renumber(out.Labels)
	return out, nil
}

func (e *Engine) moveNodes(st *State) (passes, moves int, converged bool) {
	order := make([]int, st.lg.n)
	for i := range order {
		order[i] = i
	}

	maxPasses := e.MaxPasses
	if maxPasses <= 0 {
		maxPasses = math.MaxInt32
	}

	var ties []int
	for passes = 1; passes <= maxPasses; passes++ {
		if e.Rand != nil {
			e.Rand.Shuffle(order)
		}

		moved := 0
		for _, i := range order {
			var ok bool
			ties, ok = e.moveNode(st, i, ties)
			if ok {
				moved++
			}
		}
		moves += moved
		if moved == 0 {
			return passes, moves, true
		}
	}
	return maxPasses, moves, false
}

func (e *Engine) moveNode(st *State, i int, ties []int) ([]int, bool) {
	old := st.comm[i]
	st.collect(i)
	defer st.release()

	st.remove(i, old, st.links[old])

	best := old
	bestGain := e.Objective.Gain(st, i, old, st.links[old])
	ties = ties[:0]

	for _, c := range st.touched {
		if c == old {
			continue
		}
		gain := e.Objective.Gain(st, i, c, st.links[c])
		switch {
		case gain > bestGain+gainEpsilon:
			best, bestGain = c, gain
			ties = append(ties[:0], c)
		case best != old && math.Abs(gain-bestGain) <= gainEpsilon:
			ties = append(ties, c)
		}
	}

	if e.TieBreak == TieRandom && e.Rand != nil && len(ties) > 1 {
		best = ties[e.Rand.Intn(len(ties))]
	}

	st.insert(i, best, st.links[best])
	st.comm[i] = best
	return ties, best != old
}

package community

import (
	"github.com/dd0wney/cluso-netstat/pkg/graph"
	"github.com/dd0wney/cluso-netstat/pkg/sampling"
)

// LouvainOptions configures Louvain.
type LouvainOptions struct {
	MaxPasses int
	MaxLevels int
	Tolerance float64

	// Rand shuffles the visiting order; nil visits in store order.
	Rand *sampling.Controller
}

// DefaultLouvainOptions returns the options used by the analysis pipeline.
func DefaultLouvainOptions() LouvainOptions {
	return LouvainOptions{
		MaxPasses: 100,
		MaxLevels: 32,
		Tolerance: 1e-7,
	}
}

// Louvain maximizes modularity by local moves and community aggregation.
func Louvain(g *graph.Graph, opts LouvainOptions) (*Result, error) {
	e := &Engine{
		Objective: ModularityGain{},
		Aggregate: true,
		MaxPasses: opts.MaxPasses,
		MaxLevels: opts.MaxLevels,
		Tolerance: opts.Tolerance,
		TieBreak:  TieLowestID,
		Rand:      opts.Rand,
	}

	out, err := e.Run(g)
	if err != nil {
		return nil, err
	}
	return finish(g, AlgorithmLouvain, out, fromLabels(g, out.Labels))
}

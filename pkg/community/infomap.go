package community

import (
	"github.com/dd0wney/cluso-netstat/pkg/graph"
	"github.com/dd0wney/cluso-netstat/pkg/sampling"
)

// InfomapOptions configures Infomap.
type InfomapOptions struct {
	MaxPasses int
	MaxLevels int
	Tolerance float64
	Rand      *sampling.Controller
}

// DefaultInfomapOptions returns the options used by the analysis pipeline.
func DefaultInfomapOptions() InfomapOptions {
	return InfomapOptions{
		MaxPasses: 100,
		MaxLevels: 32,
		Tolerance: 1e-10,
	}
}

// Infomap minimizes the two-level map equation of an undirected random
// walk. Result.Quality is the codelength in bits. When no partition beats
// a single module, every node lands in one community.
func Infomap(g *graph.Graph, opts InfomapOptions) (*Result, error) {
	e := &Engine{
		Objective: MapEquation{},
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

	// engine quality is the negated codelength
	out.Quality = -out.Quality

	if g.EdgeCount() == 0 {
		return finish(g, AlgorithmInfomap, out, fromLabels(g, out.Labels))
	}

	oneModule := fromGraph(g).nodeEntropy
	if out.Quality >= oneModule-gainEpsilon {
		out.Quality = oneModule
		return finish(g, AlgorithmInfomap, out, Whole(g))
	}
	return finish(g, AlgorithmInfomap, out, fromLabels(g, out.Labels))
}

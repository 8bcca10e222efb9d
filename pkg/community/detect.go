package community

import (
	"fmt"

	"github.com/dd0wney/cluso-netstat/pkg/graph"
	"github.com/dd0wney/cluso-netstat/pkg/sampling"
)

// Algorithm names a community detection strategy.
type Algorithm string

const (
	AlgorithmLouvain          Algorithm = "louvain"
	AlgorithmLabelPropagation Algorithm = "label_propagation"
	AlgorithmInfomap          Algorithm = "infomap"
)

// Algorithms lists every registered strategy in report order.
func Algorithms() []Algorithm {
	return []Algorithm{AlgorithmLouvain, AlgorithmLabelPropagation, AlgorithmInfomap}
}

// Result is the outcome of one detection run.
type Result struct {
	Algorithm Algorithm
	Partition *Partition

	// Modularity of Partition on the input graph, for every algorithm.
	Modularity float64

	// Quality is the objective's own score: modularity for Louvain,
	// codelength in bits for Infomap, intra-community edge fraction for
	// label propagation.
	Quality float64

	Levels    []LevelStats
	Passes    int
	Converged bool

	// Warnings carries non-fatal conditions such as *NonConvergenceWarning.
	Warnings []error
}

// Options is the union of tunables accepted by Detect.
type Options struct {
	MaxPasses     int
	MaxLevels     int
	MaxIterations int
	Tolerance     float64
	Rand          *sampling.Controller
}

// Detect runs the named algorithm.
func Detect(g *graph.Graph, alg Algorithm, opts Options) (*Result, error) {
	switch alg {
	case AlgorithmLouvain:
		return Louvain(g, LouvainOptions{
			MaxPasses: opts.MaxPasses,
			MaxLevels: opts.MaxLevels,
			Tolerance: opts.Tolerance,
			Rand:      opts.Rand,
		})
	case AlgorithmLabelPropagation:
		return LabelPropagation(g, LabelPropagationOptions{
			MaxIterations: opts.MaxIterations,
			Rand:          opts.Rand,
		})
	case AlgorithmInfomap:
		return Infomap(g, InfomapOptions{
			MaxPasses: opts.MaxPasses,
			MaxLevels: opts.MaxLevels,
			Tolerance: opts.Tolerance,
			Rand:      opts.Rand,
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, alg)
	}
}

// finish turns an engine outcome into a Result.
func finish(g *graph.Graph, alg Algorithm, out *Outcome, p *Partition) (*Result, error) {
	score, err := Modularity(g, p)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Algorithm:  alg,
		Partition:  p,
		Modularity: score.Score,
		Quality:    out.Quality,
		Levels:     out.Levels,
		Passes:     out.Passes,
		Converged:  out.Converged,
	}
	if !out.Converged {
		res.Warnings = append(res.Warnings, &NonConvergenceWarning{
			Algorithm:  string(alg),
			Iterations: out.Passes,
		})
	}
	return res, nil
}

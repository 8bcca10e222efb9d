package community

import (
	"github.com/dd0wney/cluso-netstat/pkg/graph"
	"github.com/dd0wney/cluso-netstat/pkg/sampling"
)

// LabelPropagationOptions configures LabelPropagation.
type LabelPropagationOptions struct {
	MaxIterations int

	// Rand shuffles the visiting order and breaks ties between equally
	// frequent labels. Nil visits in store order and keeps the lowest label.
	Rand *sampling.Controller
}

// DefaultLabelPropagationOptions returns the options used by the analysis pipeline.
func DefaultLabelPropagationOptions() LabelPropagationOptions {
	return LabelPropagationOptions{MaxIterations: 100}
}

// LabelPropagation assigns each node the most frequent label among its
// neighbors until no label changes. A node keeps its label when it is
// among the most frequent. Hitting MaxIterations is reported through
// Result.Warnings.
func LabelPropagation(g *graph.Graph, opts LabelPropagationOptions) (*Result, error) {
	e := &Engine{
		Objective: LabelMajority{},
		MaxPasses: opts.MaxIterations,
		TieBreak:  TieRandom,
		Rand:      opts.Rand,
	}

	out, err := e.Run(g)
	if err != nil {
		return nil, err
	}
	return finish(g, AlgorithmLabelPropagation, out, fromLabels(g, out.Labels))
}

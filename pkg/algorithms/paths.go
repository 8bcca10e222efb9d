package algorithms

import (
	"fmt"

	"github.com/dd0wney/cluso-netstat/pkg/graph"
	"github.com/dd0wney/cluso-netstat/pkg/parallel"
	"github.com/dd0wney/cluso-netstat/pkg/sampling"
)

// PathEstimator estimates average shortest path length and diameter from
// BFS runs rooted at a uniform sample of source nodes.
//
// Estimates are approximations: their error is unbounded in general but
// small on networks whose per-node eccentricity varies little. Graphs with
// at most ExactThreshold nodes are measured from every node instead, which
// makes the result exact.
type PathEstimator struct {
	SampleSize     int // sources drawn when sampling
	ExactThreshold int // node count at or below which every node is a source
	Workers        int // parallel BFS fan-out; <= 1 runs sequentially
}

// PathStats is the aggregate of a set of BFS runs.
type PathStats struct {
	Sources           int     `json:"sources" yaml:"sources"`
	Pairs             int64   `json:"pairs" yaml:"pairs"`
	TotalDistance     int64   `json:"total_distance" yaml:"total_distance"`
	AveragePathLength float64 `json:"average_path_length" yaml:"average_path_length"`
	MaxEccentricity   int     `json:"max_eccentricity" yaml:"max_eccentricity"`
	Exact             bool    `json:"exact" yaml:"exact"`
	Connected         bool    `json:"connected" yaml:"connected"`
}

// Estimate runs BFS from the selected sources and aggregates the distances.
// Pairs counts reached ordered (source, target) pairs excluding the source
// itself, so disconnected graphs contribute only reachable pairs.
func (pe PathEstimator) Estimate(g *graph.Graph, rng *sampling.Controller) (*PathStats, error) {
	n := g.NodeCount()
	if n == 0 {
		return nil, graph.ErrEmptyGraph
	}

	exact := n <= pe.ExactThreshold || pe.SampleSize >= n
	var sources []int
	if exact {
		sources = make([]int, n)
		for i := range sources {
			sources[i] = i
		}
	} else {
		if rng == nil {
			return nil, ErrNoSampler
		}
		sources = rng.Sample(n, pe.SampleSize)
	}

	summaries := make([]bfsSummary, len(sources))
	run := func(lo, hi int) {
		s := newBFSScratch(n)
		for k := lo; k < hi; k++ {
			summaries[k] = s.run(g, sources[k])
			s.reset()
		}
	}

	if pe.Workers > 1 && len(sources) > 1 {
		pool, err := parallel.NewWorkerPool(pe.Workers)
		if err != nil {
			return nil, err
		}
		defer pool.Close()
		if err := pool.ForEachChunk(len(sources), run); err != nil {
			return nil, fmt.Errorf("path sampling: %w", err)
		}
	} else {
		run(0, len(sources))
	}

	// Summaries are merged in source order so the result does not depend
	// on the worker count.
	stats := &PathStats{Sources: len(sources), Exact: exact, Connected: true}
	for _, sum := range summaries {
		stats.Pairs += int64(sum.reached - 1)
		stats.TotalDistance += sum.totalHop
		if sum.maxHop > stats.MaxEccentricity {
			stats.MaxEccentricity = sum.maxHop
		}
		if sum.reached != n {
			stats.Connected = false
		}
	}
	if stats.Pairs > 0 {
		stats.AveragePathLength = float64(stats.TotalDistance) / float64(stats.Pairs)
	}

	return stats, nil
}

// AveragePathLength estimates the mean hop distance over reachable pairs.
// Returns 0 when no pair is reachable.
func (pe PathEstimator) AveragePathLength(g *graph.Graph, rng *sampling.Controller) (float64, error) {
	stats, err := pe.Estimate(g, rng)
	if err != nil {
		return 0, err
	}
	return stats.AveragePathLength, nil
}

// Diameter estimates the diameter as the largest sampled eccentricity.
// The graph must be connected.
func (pe PathEstimator) Diameter(g *graph.Graph, rng *sampling.Controller) (int, error) {
	stats, err := pe.Estimate(g, rng)
	if err != nil {
		return 0, err
	}
	if !stats.Connected {
		return 0, fmt.Errorf("diameter: %w", graph.ErrDisconnectedGraph)
	}
	return stats.MaxEccentricity, nil
}

// EstimateAveragePathLength samples min(sampleSize, n) sources sequentially.
func EstimateAveragePathLength(g *graph.Graph, sampleSize int, rng *sampling.Controller) (float64, error) {
	return PathEstimator{SampleSize: sampleSize}.AveragePathLength(g, rng)
}

// EstimateDiameter samples min(sampleSize, n) sources sequentially.
func EstimateDiameter(g *graph.Graph, sampleSize int, rng *sampling.Controller) (int, error) {
	return PathEstimator{SampleSize: sampleSize}.Diameter(g, rng)
}

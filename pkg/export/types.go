// Package export renders analysis results and ships them to sinks.
package export

import (
	"slices"
	"time"

	"github.com/dd0wney/cluso-netstat/pkg/algorithms"
	"github.com/dd0wney/cluso-netstat/pkg/community"
	"github.com/dd0wney/cluso-netstat/pkg/graph"
)

// Report is the summary of one analysis run.
type Report struct {
	RunID       string    `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Seed        uint64    `json:"seed" yaml:"seed"`

	Input       InputSummary                  `json:"input" yaml:"input"`
	Graph       GraphSummary                  `json:"graph" yaml:"graph"`
	Degrees     algorithms.DegreeDistribution `json:"degrees" yaml:"degrees"`
	Paths       PathSummary                   `json:"paths" yaml:"paths"`
	Eigenvector EigenvectorSummary            `json:"eigenvector" yaml:"eigenvector"`
	Rankings    Rankings                      `json:"rankings" yaml:"rankings"`
	Communities []CommunitySummary            `json:"communities" yaml:"communities"`

	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// InputSummary describes the edge list the graph was built from.
type InputSummary struct {
	Path       string `json:"path,omitempty" yaml:"path,omitempty"`
	Lines      int    `json:"lines" yaml:"lines"`
	SelfLoops  int    `json:"self_loops" yaml:"self_loops"`
	Duplicates int    `json:"duplicates" yaml:"duplicates"`
	TopNodes   int    `json:"top_nodes" yaml:"top_nodes"`
}

// GraphSummary holds whole-graph statistics.
type GraphSummary struct {
	Nodes                 int     `json:"nodes" yaml:"nodes"`
	Edges                 int     `json:"edges" yaml:"edges"`
	Density               float64 `json:"density" yaml:"density"`
	AverageClustering     float64 `json:"average_clustering" yaml:"average_clustering"`
	Components            int     `json:"components" yaml:"components"`
	LargestComponentNodes int     `json:"largest_component_nodes" yaml:"largest_component_nodes"`
}

// PathSummary holds the sampled path estimates.
type PathSummary struct {
	Sources           int     `json:"sources" yaml:"sources"`
	Exact             bool    `json:"exact" yaml:"exact"`
	AveragePathLength float64 `json:"average_path_length" yaml:"average_path_length"`
	DiameterSources   int     `json:"diameter_sources" yaml:"diameter_sources"`
	Diameter          int     `json:"diameter" yaml:"diameter"`
	// OnLargestComponent is set when estimates were restricted to it.
	OnLargestComponent bool `json:"on_largest_component" yaml:"on_largest_component"`
}

// EigenvectorSummary records how power iteration ended.
type EigenvectorSummary struct {
	Iterations int     `json:"iterations" yaml:"iterations"`
	Converged  bool    `json:"converged" yaml:"converged"`
	Delta      float64 `json:"delta" yaml:"delta"`
}

// Rankings holds the top-N tables.
type Rankings struct {
	Degree      []algorithms.RankedNode `json:"degree" yaml:"degree"`
	Eigenvector []algorithms.RankedNode `json:"eigenvector" yaml:"eigenvector"`
	Clustering  []algorithms.RankedNode `json:"clustering" yaml:"clustering"`
}

// CommunitySummary describes one detection run.
type CommunitySummary struct {
	Algorithm   string                 `json:"algorithm" yaml:"algorithm"`
	Communities int                    `json:"communities" yaml:"communities"`
	Sizes       []int                  `json:"sizes" yaml:"sizes"`
	Largest     int                    `json:"largest" yaml:"largest"`
	Modularity  float64                `json:"modularity" yaml:"modularity"`
	Quality     float64                `json:"quality" yaml:"quality"`
	Passes      int                    `json:"passes" yaml:"passes"`
	Converged   bool                   `json:"converged" yaml:"converged"`
	Levels      []community.LevelStats `json:"levels,omitempty" yaml:"levels,omitempty"`
	Warnings    []string               `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// SummarizeCommunities condenses a detection result.
func SummarizeCommunities(res *community.Result) CommunitySummary {
	sizes := res.Partition.Sizes()
	s := CommunitySummary{
		Algorithm:   string(res.Algorithm),
		Communities: res.Partition.Len(),
		Sizes:       sizes,
		Modularity:  res.Modularity,
		Quality:     res.Quality,
		Passes:      res.Passes,
		Converged:   res.Converged,
		Levels:      res.Levels,
	}
	if len(sizes) > 0 {
		s.Largest = slices.Max(sizes)
	}
	for _, w := range res.Warnings {
		s.Warnings = append(s.Warnings, w.Error())
	}
	return s
}

// Best returns the summary with the highest modularity, or nil.
func (r *Report) Best() *CommunitySummary {
	var best *CommunitySummary
	for i := range r.Communities {
		if best == nil || r.Communities[i].Modularity > best.Modularity {
			best = &r.Communities[i]
		}
	}
	return best
}

// NodeAnnotation is the per-node export row.
type NodeAnnotation struct {
	NodeID           int64          `json:"node_id" yaml:"node_id"`
	Degree           int            `json:"degree" yaml:"degree"`
	DegreeCentrality float64        `json:"degree_centrality" yaml:"degree_centrality"`
	Eigenvector      float64        `json:"eigenvector" yaml:"eigenvector"`
	Clustering       float64        `json:"clustering" yaml:"clustering"`
	Communities      map[string]int `json:"communities" yaml:"communities"`
}

// Annotations are per-node results keyed by node id, in store order.
type Annotations struct {
	RunID      string           `json:"run_id" yaml:"run_id"`
	Algorithms []string         `json:"algorithms" yaml:"algorithms"`
	Nodes      []NodeAnnotation `json:"nodes" yaml:"nodes"`

	index map[int64]int
}

// NewAnnotations starts one row per node of g.
func NewAnnotations(runID string, g *graph.Graph) *Annotations {
	a := &Annotations{
		RunID: runID,
		Nodes: make([]NodeAnnotation, g.NodeCount()),
		index: make(map[int64]int, g.NodeCount()),
	}
	for i := range a.Nodes {
		id := g.NodeAt(i)
		a.Nodes[i] = NodeAnnotation{
			NodeID:      id,
			Degree:      g.DegreeAt(i),
			Communities: make(map[string]int),
		}
		a.index[id] = i
	}
	return a
}

// Centrality kinds accepted by SetCentrality.
const (
	CentralityDegree      = "degree"
	CentralityEigenvector = "eigenvector"
	CentralityClustering  = "clustering"
)

// SetCentrality copies one score table into the rows.
func (a *Annotations) SetCentrality(kind string, table algorithms.CentralityTable) {
	for id, score := range table.Map() {
		i, ok := a.index[id]
		if !ok {
			continue
		}
		switch kind {
		case CentralityDegree:
			a.Nodes[i].DegreeCentrality = score
		case CentralityEigenvector:
			a.Nodes[i].Eigenvector = score
		case CentralityClustering:
			a.Nodes[i].Clustering = score
		}
	}
}

// SetPartition records every node's community index under the algorithm name.
func (a *Annotations) SetPartition(algorithm string, p *community.Partition) {
	if !slices.Contains(a.Algorithms, algorithm) {
		a.Algorithms = append(a.Algorithms, algorithm)
	}
	for id, c := range p.Membership() {
		if i, ok := a.index[id]; ok {
			a.Nodes[i].Communities[algorithm] = c
		}
	}
}

// Lookup returns the row of one node.
func (a *Annotations) Lookup(id int64) (NodeAnnotation, bool) {
	i, ok := a.index[id]
	if !ok {
		return NodeAnnotation{}, false
	}
	return a.Nodes[i], true
}

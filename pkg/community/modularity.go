package community

import (
	"github.com/dd0wney/cluso-netstat/pkg/graph"
)

// ModularityScore is Newman-Girvan modularity together with the partition
// it was computed against.
type ModularityScore struct {
	Score     float64
	Partition *Partition
}

// Modularity computes Q = Σ_c [e_c/m − (tot_c/2m)²], where e_c counts edges
// inside community c and tot_c sums the degrees of its members. The
// partition must cover exactly the graph's node set. A graph without edges
// scores 0.
func Modularity(g *graph.Graph, p *Partition) (*ModularityScore, error) {
	labels, err := labelsFor(g, p)
	if err != nil {
		return nil, err
	}

	m := float64(g.EdgeCount())
	if m == 0 {
		return &ModularityScore{Partition: p}, nil
	}

	internal := make([]float64, p.Len())
	tot := make([]float64, p.Len())
	for i := 0; i < g.NodeCount(); i++ {
		c := labels[i]
		tot[c] += float64(g.DegreeAt(i))
		for _, j := range g.NeighborIndices(i) {
			if int(j) > i && labels[j] == c {
				internal[c]++
			}
		}
	}

	q := 0.0
	for c := range tot {
		share := tot[c] / (2 * m)
		q += internal[c]/m - share*share
	}
	return &ModularityScore{Score: q, Partition: p}, nil
}

// ModularityOf builds a partition from explicit communities and scores it.
func ModularityOf(g *graph.Graph, communities [][]int64) (*ModularityScore, error) {
	p, err := NewPartition(communities)
	if err != nil {
		return nil, err
	}
	return Modularity(g, p)
}

// labelsFor maps every store position to its community index.
func labelsFor(g *graph.Graph, p *Partition) ([]int, error) {
	mismatch := &MismatchError{Op: "Modularity"}

	labels := make([]int, g.NodeCount())
	for i := range labels {
		id := g.NodeAt(i)
		c, ok := p.CommunityOf(id)
		if !ok {
			mismatch.Missing = appendCapped(mismatch.Missing, id)
			continue
		}
		labels[i] = c
	}

	for _, members := range p.communities {
		for _, id := range members {
			if !g.HasNode(id) {
				mismatch.Unknown = appendCapped(mismatch.Unknown, id)
			}
		}
	}

	if len(mismatch.Missing) > 0 || len(mismatch.Unknown) > 0 {
		return nil, mismatch
	}
	return labels, nil
}

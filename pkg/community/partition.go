package community

import (
	"sort"

	"github.com/dd0wney/cluso-netstat/pkg/graph"
)

// Partition assigns every node to exactly one community. Communities are
// identified only by their index. A Partition is immutable; accessors
// return copies.
type Partition struct {
	communities [][]int64
	membership  map[int64]int
}

// NewPartition builds a partition from explicit communities, keeping their
// order. Empty communities and nodes listed twice are rejected.
func NewPartition(communities [][]int64) (*Partition, error) {
	p := &Partition{
		communities: make([][]int64, len(communities)),
		membership:  make(map[int64]int),
	}

	mismatch := &MismatchError{Op: "NewPartition"}
	for c, members := range communities {
		if len(members) == 0 {
			mismatch.Empty++
			continue
		}
		p.communities[c] = append([]int64(nil), members...)
		for _, id := range members {
			if _, dup := p.membership[id]; dup {
				mismatch.Duplicate = appendCapped(mismatch.Duplicate, id)
				continue
			}
			p.membership[id] = c
		}
	}

	if mismatch.Empty > 0 || len(mismatch.Duplicate) > 0 {
		return nil, mismatch
	}
	return p, nil
}

// fromLabels groups store positions by label. Communities are ordered by
// size descending, then by their lowest member position; members keep
// store order.
func fromLabels(g *graph.Graph, labels []int) *Partition {
	groups := make(map[int][]int)
	firstSeen := make([]int, 0)
	for i, l := range labels {
		if _, ok := groups[l]; !ok {
			firstSeen = append(firstSeen, l)
		}
		groups[l] = append(groups[l], i)
	}

	// firstSeen is already ordered by lowest member position
	sort.SliceStable(firstSeen, func(a, b int) bool {
		return len(groups[firstSeen[a]]) > len(groups[firstSeen[b]])
	})

	p := &Partition{
		communities: make([][]int64, len(firstSeen)),
		membership:  make(map[int64]int, len(labels)),
	}
	for c, l := range firstSeen {
		members := make([]int64, len(groups[l]))
		for k, i := range groups[l] {
			id := g.NodeAt(i)
			members[k] = id
			p.membership[id] = c
		}
		p.communities[c] = members
	}
	return p
}

// Singletons places every node in its own community.
func Singletons(g *graph.Graph) *Partition {
	labels := make([]int, g.NodeCount())
	for i := range labels {
		labels[i] = i
	}
	return fromLabels(g, labels)
}

// Whole places every node in one community.
func Whole(g *graph.Graph) *Partition {
	return fromLabels(g, make([]int, g.NodeCount()))
}

// Len returns the number of communities.
func (p *Partition) Len() int {
	return len(p.communities)
}

// NodeCount returns the number of assigned nodes.
func (p *Partition) NodeCount() int {
	return len(p.membership)
}

// Community returns the members of community c.
func (p *Partition) Community(c int) []int64 {
	return append([]int64(nil), p.communities[c]...)
}

// Communities returns every community.
func (p *Partition) Communities() [][]int64 {
	out := make([][]int64, len(p.communities))
	for c := range p.communities {
		out[c] = p.Community(c)
	}
	return out
}

// CommunityOf returns the community index of a node.
func (p *Partition) CommunityOf(id int64) (int, bool) {
	c, ok := p.membership[id]
	return c, ok
}

// Membership returns a node -> community index map, the form exporters
// annotate nodes with.
func (p *Partition) Membership() map[int64]int {
	out := make(map[int64]int, len(p.membership))
	for id, c := range p.membership {
		out[id] = c
	}
	return out
}

// Sizes returns the cardinality of every community.
func (p *Partition) Sizes() []int {
	out := make([]int, len(p.communities))
	for c, members := range p.communities {
		out[c] = len(members)
	}
	return out
}

// Largest returns the biggest community, first one on ties.
func (p *Partition) Largest() []int64 {
	best := -1
	for c, members := range p.communities {
		if best < 0 || len(members) > len(p.communities[best]) {
			best = c
		}
	}
	if best < 0 {
		return nil
	}
	return p.Community(best)
}

// SameCommunity reports whether two nodes share a community.
func (p *Partition) SameCommunity(a, b int64) bool {
	ca, okA := p.membership[a]
	cb, okB := p.membership[b]
	return okA && okB && ca == cb
}

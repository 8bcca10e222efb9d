package graph

import (
	gonumgraph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// InducedSubgraph builds a new store containing the given nodes and every
// edge of g between them. Node order follows the order of the argument.
func (g *Graph) InducedSubgraph(nodes []int64) (*Graph, error) {
	keep := make(map[int32]bool, len(nodes))
	for _, id := range nodes {
		i, ok := g.index[id]
		if !ok {
			return nil, NodeNotFoundError("InducedSubgraph", id)
		}
		if keep[i] {
			return nil, malformed("InducedSubgraph", id, "duplicate node")
		}
		keep[i] = true
	}

	edges := make([]Edge, 0)
	for _, id := range nodes {
		i := g.index[id]
		for _, j := range g.NeighborIndices(int(i)) {
			if j > i && keep[j] {
				edges = append(edges, Edge{U: g.ids[i], V: g.ids[j]})
			}
		}
	}

	return New(nodes, edges)
}

// ToGonum copies the store into a gonum undirected graph keyed by node ID.
func (g *Graph) ToGonum() gonumgraph.Undirected {
	out := simple.NewUndirectedGraph()
	for _, id := range g.ids {
		out.AddNode(simple.Node(id))
	}
	for _, e := range g.Edges() {
		out.SetEdge(simple.Edge{F: simple.Node(e.U), T: simple.Node(e.V)})
	}
	return out
}

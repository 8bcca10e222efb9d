// Package graph provides the immutable adjacency store every analysis runs on.
//
// A Graph is built once from a declared node set and an undirected edge set
// and never changes afterwards, so it can be shared by reference across any
// number of concurrent readers. Nodes keep their external int64 identifiers;
// internally each node also has a dense position 0..n-1 which algorithms use
// to index label and score arrays.
package graph

import "sort"

// Edge is an undirected edge between two declared nodes.
type Edge struct {
	U int64
	V int64
}

// Graph is a compressed sparse row adjacency of a simple undirected graph.
type Graph struct {
	ids     []int64         // position -> node ID
	index   map[int64]int32 // node ID -> position
	offsets []int           // neighbors of i are adj[offsets[i]:offsets[i+1]]
	adj     []int32
	edges   int
}

// New builds a Graph from a node set and an edge set.
// Duplicate node IDs, edges touching undeclared nodes, self-loops and
// parallel edges are rejected with ErrMalformedGraph.
func New(nodes []int64, edges []Edge) (*Graph, error) {
	g := &Graph{
		ids:   make([]int64, len(nodes)),
		index: make(map[int64]int32, len(nodes)),
	}
	copy(g.ids, nodes)

	for i, id := range nodes {
		if _, dup := g.index[id]; dup {
			return nil, malformed("New", id, "duplicate node")
		}
		g.index[id] = int32(i)
	}

	degree := make([]int, len(nodes))
	for _, e := range edges {
		u, ok := g.index[e.U]
		if !ok {
			return nil, malformed("New", e.U, "edge endpoint not in node set")
		}
		v, ok := g.index[e.V]
		if !ok {
			return nil, malformed("New", e.V, "edge endpoint not in node set")
		}
		if u == v {
			return nil, malformed("New", e.U, "self-loop")
		}
		degree[u]++
		degree[v]++
	}

	g.offsets = make([]int, len(nodes)+1)
	for i, d := range degree {
		g.offsets[i+1] = g.offsets[i] + d
	}

	g.adj = make([]int32, g.offsets[len(nodes)])
	fill := make([]int, len(nodes))
	copy(fill, g.offsets[:len(nodes)])
	for _, e := range edges {
		u, v := g.index[e.U], g.index[e.V]
		g.adj[fill[u]] = v
		fill[u]++
		g.adj[fill[v]] = u
		fill[v]++
	}

	// Sorted rows give a deterministic neighbor order and make the
	// parallel edge check a linear scan.
	for i := range nodes {
		row := g.adj[g.offsets[i]:g.offsets[i+1]]
		sort.Slice(row, func(a, b int) bool { return row[a] < row[b] })
		for k := 1; k < len(row); k++ {
			if row[k] == row[k-1] {
				return nil, malformed("New", g.ids[i], "parallel edge")
			}
		}
	}

	g.edges = len(edges)
	return g, nil
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.ids)
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	return g.edges
}

// Nodes returns a copy of the node IDs in store order.
func (g *Graph) Nodes() []int64 {
	out := make([]int64, len(g.ids))
	copy(out, g.ids)
	return out
}

// Degree returns the degree of a node.
func (g *Graph) Degree(id int64) (int, error) {
	i, ok := g.index[id]
	if !ok {
		return 0, NodeNotFoundError("Degree", id)
	}
	return g.DegreeAt(int(i)), nil
}

// Neighbors returns the neighbors of a node in store order.
func (g *Graph) Neighbors(id int64) ([]int64, error) {
	i, ok := g.index[id]
	if !ok {
		return nil, NodeNotFoundError("Neighbors", id)
	}
	row := g.NeighborIndices(int(i))
	out := make([]int64, len(row))
	for k, j := range row {
		out[k] = g.ids[j]
	}
	return out, nil
}

// HasNode reports whether the node is in the store.
func (g *Graph) HasNode(id int64) bool {
	_, ok := g.index[id]
	return ok
}

// IndexOf returns the dense position of a node.
func (g *Graph) IndexOf(id int64) (int, bool) {
	i, ok := g.index[id]
	return int(i), ok
}

// NodeAt returns the node ID stored at position i.
func (g *Graph) NodeAt(i int) int64 {
	return g.ids[i]
}

// DegreeAt returns the degree of the node at position i.
func (g *Graph) DegreeAt(i int) int {
	return g.offsets[i+1] - g.offsets[i]
}

// NeighborIndices returns the positions adjacent to position i.
// The returned slice aliases the store and must not be modified.
func (g *Graph) NeighborIndices(i int) []int32 {
	return g.adj[g.offsets[i]:g.offsets[i+1]]
}

// Degrees returns the degree of every node in store order.
func (g *Graph) Degrees() []int {
	out := make([]int, len(g.ids))
	for i := range out {
		out[i] = g.DegreeAt(i)
	}
	return out
}

// HasEdgeAt reports whether positions i and j are adjacent.
func (g *Graph) HasEdgeAt(i, j int) bool {
	row := g.NeighborIndices(i)
	k := sort.Search(len(row), func(k int) bool { return row[k] >= int32(j) })
	return k < len(row) && row[k] == int32(j)
}

// Edges returns every undirected edge once, lower position first.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for i := range g.ids {
		for _, j := range g.NeighborIndices(i) {
			if int(j) > i {
				out = append(out, Edge{U: g.ids[i], V: g.ids[j]})
			}
		}
	}
	return out
}

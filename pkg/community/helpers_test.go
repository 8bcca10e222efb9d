package community

import (
	"testing"

	"github.com/dd0wney/cluso-netstat/pkg/graph"
)

// buildGraph creates a graph on nodes 0..n-1 with the given edges
func buildGraph(t *testing.T, n int, edges [][2]int64) *graph.Graph {
	t.Helper()

	nodes := make([]int64, n)
	for i := range nodes {
		nodes[i] = int64(i)
	}
	es := make([]graph.Edge, len(edges))
	for i, e := range edges {
		es[i] = graph.Edge{U: e[0], V: e[1]}
	}

	g, err := graph.New(nodes, es)
	if err != nil {
		t.Fatalf("Failed to build graph: %v", err)
	}
	return g
}

// twoTriangles is 0-1-2 and 3-4-5 with no cross edges
func twoTriangles(t *testing.T) *graph.Graph {
	return buildGraph(t, 6, [][2]int64{{0, 1}, {1, 2}, {2, 0}, {3, 4}, {4, 5}, {5, 3}})
}

// bridgedTriangles joins the two triangles with the edge 2-3
func bridgedTriangles(t *testing.T) *graph.Graph {
	return buildGraph(t, 6, [][2]int64{{0, 1}, {1, 2}, {2, 0}, {2, 3}, {3, 4}, {4, 5}, {5, 3}})
}

func pathGraph(t *testing.T, n int) *graph.Graph {
	t.Helper()
	edges := make([][2]int64, 0, n)
	for i := 0; i+1 < n; i++ {
		edges = append(edges, [2]int64{int64(i), int64(i + 1)})
	}
	return buildGraph(t, n, edges)
}

func completeGraph(t *testing.T, n int) *graph.Graph {
	t.Helper()
	edges := make([][2]int64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			edges = append(edges, [2]int64{int64(i), int64(j)})
		}
	}
	return buildGraph(t, n, edges)
}

// cliqueRing builds k cliques of size s, consecutive cliques joined by one edge
func cliqueRing(t *testing.T, k, s int) *graph.Graph {
	t.Helper()
	edges := make([][2]int64, 0)
	for c := 0; c < k; c++ {
		base := int64(c * s)
		for i := int64(0); i < int64(s); i++ {
			for j := i + 1; j < int64(s); j++ {
				edges = append(edges, [2]int64{base + i, base + j})
			}
		}
		next := int64(((c + 1) % k) * s)
		if k > 1 {
			edges = append(edges, [2]int64{base, next + 1})
		}
	}
	return buildGraph(t, k*s, edges)
}

// randomGraph builds a simple graph from an edge mask
func randomGraph(n int, mask []bool) *graph.Graph {
	nodes := make([]int64, n)
	for i := range nodes {
		nodes[i] = int64(i)
	}
	edges := make([]graph.Edge, 0)
	k := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if k < len(mask) && mask[k] {
				edges = append(edges, graph.Edge{U: int64(i), V: int64(j)})
			}
			k++
		}
	}
	g, _ := graph.New(nodes, edges)
	return g
}

// covers reports whether p assigns every node of g exactly once
func covers(g *graph.Graph, p *Partition) bool {
	seen := make(map[int64]bool)
	for _, members := range p.Communities() {
		if len(members) == 0 {
			return false
		}
		for _, id := range members {
			if seen[id] || !g.HasNode(id) {
				return false
			}
			seen[id] = true
		}
	}
	return len(seen) == g.NodeCount()
}

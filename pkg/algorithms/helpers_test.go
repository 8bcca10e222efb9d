package algorithms

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

func pathGraph(t *testing.T, n int) *graph.Graph {
	t.Helper()
	edges := make([][2]int64, 0, n)
	for i := 0; i+1 < n; i++ {
		edges = append(edges, [2]int64{int64(i), int64(i + 1)})
	}
	return buildGraph(t, n, edges)
}

func cycleGraph(t *testing.T, n int) *graph.Graph {
	t.Helper()
	edges := make([][2]int64, 0, n)
	for i := 0; i < n; i++ {
		edges = append(edges, [2]int64{int64(i), int64((i + 1) % n)})
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

// randomGraph builds a simple graph from a seed-free edge mask
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

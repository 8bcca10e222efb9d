package algorithms

import (
	"fmt"

	"github.com/dd0wney/cluso-netstat/pkg/graph"
)

// bfsScratch holds reusable BFS buffers indexed by node position.
type bfsScratch struct {
	dist  []int32
	queue []int32
}

func newBFSScratch(n int) *bfsScratch {
	s := &bfsScratch{
		dist:  make([]int32, n),
		queue: make([]int32, 0, n),
	}
	for i := range s.dist {
		s.dist[i] = -1
	}
	return s
}

// bfsSummary aggregates one BFS run.
type bfsSummary struct {
	reached  int   // nodes reached, source included
	totalHop int64 // sum of distances to reached nodes
	maxHop   int   // eccentricity within the reached set
}

// run performs BFS from src and leaves distances in s.dist until reset.
func (s *bfsScratch) run(g *graph.Graph, src int) bfsSummary {
	s.queue = s.queue[:0]
	s.queue = append(s.queue, int32(src))
	s.dist[src] = 0

	var sum bfsSummary
	for head := 0; head < len(s.queue); head++ {
		v := s.queue[head]
		d := s.dist[v]
		sum.totalHop += int64(d)
		if int(d) > sum.maxHop {
			sum.maxHop = int(d)
		}
		for _, w := range g.NeighborIndices(int(v)) {
			if s.dist[w] < 0 {
				s.dist[w] = d + 1
				s.queue = append(s.queue, w)
			}
		}
	}
	sum.reached = len(s.queue)
	return sum
}

// reset clears only the entries touched by the last run.
func (s *bfsScratch) reset() {
	for _, v := range s.queue {
		s.dist[v] = -1
	}
	s.queue = s.queue[:0]
}

// ConnectedComponents labels every node with exactly one component.
// Components are listed in order of discovery over store order and each
// component lists its nodes in BFS order.
func ConnectedComponents(g *graph.Graph) [][]int64 {
	n := g.NodeCount()
	visited := make([]bool, n)
	queue := make([]int32, 0, n)
	components := make([][]int64, 0)

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}

		queue = queue[:0]
		queue = append(queue, int32(start))
		visited[start] = true

		for head := 0; head < len(queue); head++ {
			for _, w := range g.NeighborIndices(int(queue[head])) {
				if !visited[w] {
					visited[w] = true
					queue = append(queue, w)
				}
			}
		}

		component := make([]int64, len(queue))
		for i, v := range queue {
			component[i] = g.NodeAt(int(v))
		}
		components = append(components, component)
	}

	return components
}

// LargestComponent returns the node-induced subgraph of the biggest
// connected component. Ties go to the component discovered first.
func LargestComponent(g *graph.Graph) (*graph.Graph, error) {
	if g.NodeCount() == 0 {
		return nil, graph.ErrEmptyGraph
	}

	var largest []int64
	for _, c := range ConnectedComponents(g) {
		if len(c) > len(largest) {
			largest = c
		}
	}
	if len(largest) == g.NodeCount() {
		return g, nil
	}
	return g.InducedSubgraph(largest)
}

// IsConnected reports whether every node is reachable from every other.
// The empty graph is not connected.
func IsConnected(g *graph.Graph) bool {
	if g.NodeCount() == 0 {
		return false
	}
	s := newBFSScratch(g.NodeCount())
	return s.run(g, 0).reached == g.NodeCount()
}

// ShortestPathLengths returns BFS hop distances from source.
func ShortestPathLengths(g *graph.Graph, source int64) (DistanceTable, error) {
	src, ok := g.IndexOf(source)
	if !ok {
		return nil, graph.NodeNotFoundError("ShortestPathLengths", source)
	}

	s := newBFSScratch(g.NodeCount())
	s.run(g, src)

	distances := make(DistanceTable, len(s.queue))
	for _, v := range s.queue {
		distances[g.NodeAt(int(v))] = int(s.dist[v])
	}
	return distances, nil
}

// Eccentricity returns the largest hop distance from node. The graph must be
// connected; restrict to a component first otherwise.
func Eccentricity(g *graph.Graph, node int64) (int, error) {
	src, ok := g.IndexOf(node)
	if !ok {
		return 0, graph.NodeNotFoundError("Eccentricity", node)
	}

	s := newBFSScratch(g.NodeCount())
	sum := s.run(g, src)
	if sum.reached != g.NodeCount() {
		return 0, fmt.Errorf("eccentricity of node %d: reached %d of %d nodes: %w",
			node, sum.reached, g.NodeCount(), graph.ErrDisconnectedGraph)
	}
	return sum.maxHop, nil
}

package community

import (
	"math"
	"slices"

	"github.com/dd0wney/cluso-netstat/pkg/graph"
)

// levelGraph is the weighted graph one engine level operates on. Level 0
// mirrors the input graph with unit weights; each aggregation collapses
// communities into single nodes carrying their internal weight in self.
type levelGraph struct {
	n        int
	offsets  []int
	nbrs     []int32
	weights  []float64
	self     []float64 // weight of edges folded inside the node
	strength []float64 // sum of incident weights, self counted twice
	total    float64   // sum of strengths, i.e. 2m

	// nodeEntropy is H(p) of the stationary distribution over the original
	// nodes; aggregation carries it unchanged.
	nodeEntropy float64
}

func fromGraph(g *graph.Graph) *levelGraph {
	n := g.NodeCount()
	lg := &levelGraph{
		n:        n,
		offsets:  make([]int, n+1),
		self:     make([]float64, n),
		strength: make([]float64, n),
	}

	for i := 0; i < n; i++ {
		row := g.NeighborIndices(i)
		lg.nbrs = append(lg.nbrs, row...)
		for range row {
			lg.weights = append(lg.weights, 1)
		}
		lg.offsets[i+1] = len(lg.nbrs)
		lg.strength[i] = float64(len(row))
		lg.total += lg.strength[i]
	}

	if lg.total > 0 {
		for _, k := range lg.strength {
			lg.nodeEntropy -= plogp(k / lg.total)
		}
	}
	return lg
}

func (lg *levelGraph) row(i int) ([]int32, []float64) {
	lo, hi := lg.offsets[i], lg.offsets[i+1]
	return lg.nbrs[lo:hi], lg.weights[lo:hi]
}

// renumber maps community labels onto 0..k-1 in order of first appearance.
func renumber(comm []int) ([]int, int) {
	ids := make(map[int]int)
	dense := make([]int, len(comm))
	for i, c := range comm {
		id, ok := ids[c]
		if !ok {
			id = len(ids)
			ids[c] = id
		}
		dense[i] = id
	}
	return dense, len(ids)
}

// aggregate collapses every community of lg into one node. comm must be
// dense over 0..k-1.
func (lg *levelGraph) aggregate(comm []int, k int) *levelGraph {
	next := &levelGraph{
		n:           k,
		offsets:     make([]int, k+1),
		self:        make([]float64, k),
		strength:    make([]float64, k),
		total:       lg.total,
		nodeEntropy: lg.nodeEntropy,
	}

	rows := make([]map[int32]float64, k)
	for c := range rows {
		rows[c] = make(map[int32]float64)
	}

	for i := 0; i < lg.n; i++ {
		ci := comm[i]
		next.self[ci] += lg.self[i]
		next.strength[ci] += lg.strength[i]

		nbrs, weights := lg.row(i)
		for k, j := range nbrs {
			cj := comm[j]
			if cj == ci {
				// seen once from each endpoint
				next.self[ci] += weights[k] / 2
				continue
			}
			rows[ci][int32(cj)] += weights[k]
		}
	}

	for c := 0; c < k; c++ {
		keys := make([]int32, 0, len(rows[c]))
		for j := range rows[c] {
			keys = append(keys, j)
		}
		slices.Sort(keys)
		for _, j := range keys {
			next.nbrs = append(next.nbrs, j)
			next.weights = append(next.weights, rows[c][j])
		}
		next.offsets[c+1] = len(next.nbrs)
	}
	return next
}

func plogp(p float64) float64 {
	if p <= 0 {
		return 0
	}
	return p * math.Log2(p)
}

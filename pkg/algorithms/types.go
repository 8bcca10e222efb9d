package algorithms

import (
	"errors"
	"sort"
)

var (
	// ErrConvergence is returned when power iteration exhausts its iteration
	// budget. The accompanying result still carries the last vector.
	ErrConvergence = errors.New("iteration did not converge")

	// ErrNoSampler is returned when a sampled estimate needs randomness but
	// no sampling controller was supplied.
	ErrNoSampler = errors.New("sampling controller required")
)

// DistanceTable maps reached nodes to their hop distance from a BFS source.
// Unreached nodes are absent; the source itself maps to 0.
type DistanceTable map[int64]int

// CentralityTable maps each node to a real-valued score. It is immutable
// once computed; accessors return copies.
type CentralityTable struct {
	order  []int64
	scores map[int64]float64
}

func newCentralityTable(order []int64, values []float64) CentralityTable {
	scores := make(map[int64]float64, len(order))
	for i, id := range order {
		scores[id] = values[i]
	}
	return CentralityTable{order: order, scores: scores}
}

// Score returns the score of a node.
func (t CentralityTable) Score(id int64) (float64, bool) {
	s, ok := t.scores[id]
	return s, ok
}

// Len returns the number of scored nodes.
func (t CentralityTable) Len() int {
	return len(t.order)
}

// Nodes returns the scored nodes in store order.
func (t CentralityTable) Nodes() []int64 {
	out := make([]int64, len(t.order))
	copy(out, t.order)
	return out
}

// Values returns the scores in store order.
func (t CentralityTable) Values() []float64 {
	out := make([]float64, len(t.order))
	for i, id := range t.order {
		out[i] = t.scores[id]
	}
	return out
}

// Map returns a copy of the table as a plain map.
func (t CentralityTable) Map() map[int64]float64 {
	out := make(map[int64]float64, len(t.scores))
	for id, s := range t.scores {
		out[id] = s
	}
	return out
}

// Top returns the n highest scoring nodes.
func (t CentralityTable) Top(n int) []RankedNode {
	return TopN(t, n)
}

// RankedNode represents a node with its score
type RankedNode struct {
	NodeID int64   `json:"node_id" yaml:"node_id"`
	Score  float64 `json:"score" yaml:"score"`
}

func sortRanked(nodes []RankedNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Score != nodes[j].Score {
			return nodes[i].Score > nodes[j].Score
		}
		return nodes[i].NodeID < nodes[j].NodeID
	})
}

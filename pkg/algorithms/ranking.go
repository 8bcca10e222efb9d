package algorithms

import "container/heap"

// rankedNodeHeap implements a min-heap for RankedNode by score.
// We use a min-heap to efficiently find top N elements:
// - Keep at most N elements in the heap
// - The weakest element is at the root
// - When adding a new element, if heap is full and new beats the root, replace it
// Time complexity: O(n log k) where n is total nodes and k is desired top count
type rankedNodeHeap []RankedNode

func (h rankedNodeHeap) Len() int { return len(h) }

// Less orders by score, and on equal scores the larger node ID is weaker.
func (h rankedNodeHeap) Less(i, j int) bool { return weaker(h[i], h[j]) }
func (h rankedNodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *rankedNodeHeap) Push(x any) {
	*h = append(*h, x.(RankedNode))
}

func (h *rankedNodeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

func weaker(a, b RankedNode) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.NodeID > b.NodeID
}

// TopN returns the n highest scoring nodes, highest first. Equal scores are
// ordered by ascending node ID so rankings are reproducible.
func TopN(table CentralityTable, n int) []RankedNode {
	if n <= 0 {
		return nil
	}

	h := make(rankedNodeHeap, 0, n)
	heap.Init(&h)

	for _, id := range table.order {
		rn := RankedNode{NodeID: id, Score: table.scores[id]}

		if h.Len() < n {
			heap.Push(&h, rn)
		} else if weaker(h[0], rn) {
			h[0] = rn
			heap.Fix(&h, 0)
		}
	}

	result := make([]RankedNode, h.Len())
	for i := h.Len() - 1; i >= 0; i-- {
		result[i] = heap.Pop(&h).(RankedNode)
	}

	sortRanked(result)
	return result
}

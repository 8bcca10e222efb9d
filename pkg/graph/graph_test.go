package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func path5(t *testing.T) *Graph {
	t.Helper()
	g, err := New([]int64{0, 1, 2, 3, 4}, []Edge{{0, 1}, {1, 2}, {2, 3}, {3, 4}})
	require.NoError(t, err)
	return g
}

func TestNew_Counts(t *testing.T) {
	g := path5(t)

	assert.Equal(t, 5, g.NodeCount())
	assert.Equal(t, 4, g.EdgeCount())
	assert.Equal(t, []int{1, 2, 2, 2, 1}, g.Degrees())
}

func TestNew_SymmetricAdjacency(t *testing.T) {
	g, err := New([]int64{10, 20, 30}, []Edge{{10, 20}, {30, 20}})
	require.NoError(t, err)

	for _, id := range g.Nodes() {
		nbrs, err := g.Neighbors(id)
		require.NoError(t, err)
		for _, n := range nbrs {
			back, err := g.Neighbors(n)
			require.NoError(t, err)
			assert.Contains(t, back, id, "adjacency must be symmetric")
		}
	}

	nbrs, err := g.Neighbors(20)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 30}, nbrs)
}

func TestNew_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		nodes []int64
		edges []Edge
	}{
		{"unknown endpoint", []int64{1, 2}, []Edge{{1, 3}}},
		{"self loop", []int64{1, 2}, []Edge{{1, 1}}},
		{"parallel edge", []int64{1, 2}, []Edge{{1, 2}, {2, 1}}},
		{"duplicate node", []int64{1, 1}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.nodes, tt.edges)
			require.Error(t, err)
			assert.True(t, IsMalformed(err))

			var gerr *Error
			assert.True(t, errors.As(err, &gerr))
			assert.Equal(t, "New", gerr.Op)
		})
	}
}

func TestDegree_UnknownNode(t *testing.T) {
	g := path5(t)

	_, err := g.Degree(99)
	assert.True(t, IsNotFound(err))

	_, err = g.Neighbors(99)
	assert.True(t, IsNotFound(err))
}

func TestHasEdgeAt(t *testing.T) {
	g := path5(t)

	assert.True(t, g.HasEdgeAt(0, 1))
	assert.True(t, g.HasEdgeAt(1, 0))
	assert.False(t, g.HasEdgeAt(0, 2))
}

func TestInducedSubgraph(t *testing.T) {
	g := path5(t)

	sub, err := g.InducedSubgraph([]int64{1, 2, 4})
	require.NoError(t, err)

	assert.Equal(t, 3, sub.NodeCount())
	assert.Equal(t, 1, sub.EdgeCount())
	assert.Equal(t, []int64{1, 2, 4}, sub.Nodes())

	// The parent store is untouched
	assert.Equal(t, 4, g.EdgeCount())

	_, err = g.InducedSubgraph([]int64{1, 42})
	assert.True(t, IsNotFound(err))
}

func TestEdges_RoundTrip(t *testing.T) {
	g := path5(t)

	rebuilt, err := New(g.Nodes(), g.Edges())
	require.NoError(t, err)
	assert.Equal(t, g.Degrees(), rebuilt.Degrees())
}

func TestToGonum(t *testing.T) {
	g := path5(t)

	gg := g.ToGonum()
	assert.Equal(t, 5, gg.Nodes().Len())
	assert.True(t, gg.HasEdgeBetween(0, 1))
	assert.False(t, gg.HasEdgeBetween(0, 4))
}

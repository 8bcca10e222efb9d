package community

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPartition(t *testing.T) {
	p, err := NewPartition([][]int64{{4, 5}, {1, 2, 3}})
	require.NoError(t, err)

	assert.Equal(t, 2, p.Len())
	assert.Equal(t, 5, p.NodeCount())
	assert.Equal(t, []int{2, 3}, p.Sizes())
	assert.Equal(t, []int64{1, 2, 3}, p.Largest())

	c, ok := p.CommunityOf(5)
	assert.True(t, ok)
	assert.Equal(t, 0, c)
	_, ok = p.CommunityOf(9)
	assert.False(t, ok)

	assert.True(t, p.SameCommunity(1, 3))
	assert.False(t, p.SameCommunity(1, 4))
}

func TestNewPartition_Rejects(t *testing.T) {
	tests := []struct {
		name        string
		communities [][]int64
	}{
		{"duplicate across communities", [][]int64{{1, 2}, {2, 3}}},
		{"duplicate within community", [][]int64{{1, 1}}},
		{"empty community", [][]int64{{1}, {}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPartition(tt.communities)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrPartitionMismatch))

			var mismatch *MismatchError
			assert.True(t, errors.As(err, &mismatch))
		})
	}
}

// TestPartition_Immutable tests that accessors hand out copies
func TestPartition_Immutable(t *testing.T) {
	p, err := NewPartition([][]int64{{1, 2}})
	require.NoError(t, err)

	members := p.Community(0)
	members[0] = 99
	all := p.Communities()
	all[0][1] = 98
	p.Membership()[1] = 7

	assert.Equal(t, []int64{1, 2}, p.Community(0))
	c, _ := p.CommunityOf(1)
	assert.Equal(t, 0, c)
}

// TestFromLabels_CanonicalOrder tests size-descending order with position ties
func TestFromLabels_CanonicalOrder(t *testing.T) {
	g := buildGraph(t, 7, nil)

	p := fromLabels(g, []int{9, 4, 9, 4, 7, 7, 7})
	assert.Equal(t, [][]int64{{4, 5, 6}, {0, 2}, {1, 3}}, p.Communities())

	assert.Equal(t, 7, Singletons(g).Len())
	assert.Equal(t, 1, Whole(g).Len())
	assert.True(t, covers(g, Whole(g)))
}

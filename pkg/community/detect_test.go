package community

import (
	"errors"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-netstat/pkg/graph"
	"github.com/dd0wney/cluso-netstat/pkg/sampling"
)

// TestDetect_TwoTriangles runs every algorithm on two disjoint triangles
func TestDetect_TwoTriangles(t *testing.T) {
	g := twoTriangles(t)

	whole, err := Modularity(g, Whole(g))
	require.NoError(t, err)

	for _, alg := range Algorithms() {
		t.Run(string(alg), func(t *testing.T) {
			res, err := Detect(g, alg, Options{MaxPasses: 100, MaxLevels: 10, MaxIterations: 100})
			require.NoError(t, err)

			assert.Equal(t, alg, res.Algorithm)
			assert.Equal(t, [][]int64{{0, 1, 2}, {3, 4, 5}}, res.Partition.Communities())
			assert.InDelta(t, 0.5, res.Modularity, 1e-12)
			assert.Greater(t, res.Modularity, whole.Score)
			assert.True(t, res.Converged)
			assert.Empty(t, res.Warnings)
		})
	}
}

func TestDetect_UnknownAlgorithm(t *testing.T) {
	_, err := Detect(twoTriangles(t), "walktrap", Options{})
	assert.True(t, errors.Is(err, ErrUnknownAlgorithm))
}

func TestDetect_EmptyGraph(t *testing.T) {
	g := buildGraph(t, 0, nil)

	for _, alg := range Algorithms() {
		_, err := Detect(g, alg, Options{})
		assert.True(t, errors.Is(err, graph.ErrEmptyGraph), "algorithm %s", alg)
	}
}

// TestDetect_NoEdges tests that edgeless graphs return one community per node
func TestDetect_NoEdges(t *testing.T) {
	g := buildGraph(t, 4, nil)

	for _, alg := range Algorithms() {
		res, err := Detect(g, alg, Options{MaxIterations: 10})
		require.NoError(t, err)
		assert.Equal(t, 4, res.Partition.Len(), "algorithm %s", alg)
		assert.Equal(t, 0.0, res.Modularity)
		assert.True(t, res.Converged)
	}
}

// TestLouvain_PathOfFive tests that the path is split rather than merged
func TestLouvain_PathOfFive(t *testing.T) {
	g := pathGraph(t, 5)

	res, err := Louvain(g, DefaultLouvainOptions())
	require.NoError(t, err)

	assert.Greater(t, res.Partition.Len(), 1)
	assert.Greater(t, res.Modularity, 0.0)
	assert.Equal(t, [][]int64{{0, 1, 2}, {3, 4}}, res.Partition.Communities())
	assert.InDelta(t, res.Modularity, res.Quality, 1e-12)
}

func TestLouvain_BridgedTriangles(t *testing.T) {
	g := bridgedTriangles(t)

	res, err := Louvain(g, DefaultLouvainOptions())
	require.NoError(t, err)

	assert.Equal(t, [][]int64{{0, 1, 2}, {3, 4, 5}}, res.Partition.Communities())
	assert.InDelta(t, 2*(3.0/7.0-0.25), res.Modularity, 1e-12)
}

func TestLouvain_CliqueRing(t *testing.T) {
	g := cliqueRing(t, 4, 5)

	res, err := Louvain(g, DefaultLouvainOptions())
	require.NoError(t, err)

	assert.Equal(t, 4, res.Partition.Len())
	assert.Equal(t, []int{5, 5, 5, 5}, res.Partition.Sizes())
	for _, members := range res.Partition.Communities() {
		// members of one clique share id / 5
		for _, id := range members {
			assert.Equal(t, members[0]/5, id/5)
		}
	}
}

// TestLouvain_SeedStable tests that a fixed seed reproduces the partition
func TestLouvain_SeedStable(t *testing.T) {
	g := cliqueRing(t, 6, 4)

	opts := DefaultLouvainOptions()
	opts.Rand = sampling.New(7)
	a, err := Louvain(g, opts)
	require.NoError(t, err)

	opts.Rand = sampling.New(7)
	b, err := Louvain(g, opts)
	require.NoError(t, err)

	assert.Equal(t, a.Partition.Communities(), b.Partition.Communities())
	assert.Equal(t, a.Modularity, b.Modularity)
}

func TestLabelPropagation_SeedStable(t *testing.T) {
	g := cliqueRing(t, 5, 4)

	a, err := LabelPropagation(g, LabelPropagationOptions{MaxIterations: 100, Rand: sampling.New(3)})
	require.NoError(t, err)
	b, err := LabelPropagation(g, LabelPropagationOptions{MaxIterations: 100, Rand: sampling.New(3)})
	require.NoError(t, err)

	assert.Equal(t, a.Partition.Communities(), b.Partition.Communities())
	assert.True(t, covers(g, a.Partition))
}

// TestLabelPropagation_IterationCap tests the warning path
func TestLabelPropagation_IterationCap(t *testing.T) {
	g := twoTriangles(t)

	res, err := LabelPropagation(g, LabelPropagationOptions{MaxIterations: 1})
	require.NoError(t, err, "hitting the cap is not an error")

	assert.False(t, res.Converged)
	assert.Equal(t, 1, res.Passes)
	require.Len(t, res.Warnings, 1)
	assert.True(t, errors.Is(res.Warnings[0], ErrNonConvergence))

	var warning *NonConvergenceWarning
	require.True(t, errors.As(res.Warnings[0], &warning))
	assert.Equal(t, string(AlgorithmLabelPropagation), warning.Algorithm)
	assert.True(t, covers(g, res.Partition))
}

func TestInfomap_TwoTriangles(t *testing.T) {
	g := twoTriangles(t)

	res, err := Infomap(g, DefaultInfomapOptions())
	require.NoError(t, err)

	// log2(6) bits of node entropy minus one bit of module entropy
	assert.InDelta(t, math.Log2(6)-1, res.Quality, 1e-9)
	assert.Equal(t, 2, res.Partition.Len())
}

// TestInfomap_CompleteGraphSingleModule tests the one-module fallback
func TestInfomap_CompleteGraphSingleModule(t *testing.T) {
	g := completeGraph(t, 5)

	res, err := Infomap(g, DefaultInfomapOptions())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Partition.Len())
	assert.InDelta(t, math.Log2(5), res.Quality, 1e-9)
	assert.InDelta(t, 0.0, res.Modularity, 1e-12)
}

// TestDetect_Properties checks coverage and monotonicity on random graphs
func TestDetect_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40

	properties := gopter.NewProperties(parameters)

	properties.Property("every algorithm covers the node set", prop.ForAll(
		func(n int, mask []bool, seed uint64) bool {
			g := randomGraph(n, mask)
			for _, alg := range Algorithms() {
				res, err := Detect(g, alg, Options{
					MaxPasses:     50,
					MaxLevels:     10,
					MaxIterations: 50,
					Rand:          sampling.New(seed),
				})
				if err != nil || !covers(g, res.Partition) {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 18),
		gen.SliceOfN(153, gen.Bool()),
		gen.UInt64(),
	))

	properties.Property("louvain never scores below singletons", prop.ForAll(
		func(n int, mask []bool) bool {
			g := randomGraph(n, mask)
			res, err := Louvain(g, DefaultLouvainOptions())
			if err != nil {
				return false
			}
			base, err := Modularity(g, Singletons(g))
			if err != nil {
				return false
			}
			return res.Modularity >= base.Score-1e-12 &&
				math.Abs(res.Modularity-gonumQ(g, res.Partition)) < 1e-9 || g.EdgeCount() == 0
		},
		gen.IntRange(2, 18),
		gen.SliceOfN(153, gen.Bool()),
	))

	properties.TestingRun(t)
}

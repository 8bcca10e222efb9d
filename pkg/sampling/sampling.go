// Package sampling provides the explicit, seedable source of randomness that
// every randomized step of an analysis draws from: path-length source
// sampling, community detection visiting orders and random tie-breaks.
//
// A Controller is not safe for concurrent use. Draw samples before fanning
// work out to goroutines.
package sampling

import (
	"math/rand/v2"
	"slices"
)

// Controller wraps a seeded PCG generator.
type Controller struct {
	seed uint64
	rng  *rand.Rand
}

// New creates a controller whose sequence is fully determined by seed.
func New(seed uint64) *Controller {
	return &Controller{
		seed: seed,
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Seed returns the seed the controller was created with.
func (c *Controller) Seed() uint64 {
	return c.seed
}

// Intn returns a uniform integer in [0, n). n must be positive.
func (c *Controller) Intn(n int) int {
	return c.rng.IntN(n)
}

// Float64 returns a uniform float in [0, 1).
func (c *Controller) Float64() float64 {
	return c.rng.Float64()
}

// Shuffle permutes order in place.
func (c *Controller) Shuffle(order []int) {
	c.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
}

// Permutation returns a uniformly random ordering of 0..n-1.
func (c *Controller) Permutation(n int) []int {
	return c.rng.Perm(n)
}

// Sample returns min(k, n) distinct positions drawn uniformly from 0..n-1,
// in ascending order. When k >= n every position is returned.
func (c *Controller) Sample(n, k int) []int {
	if k >= n {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	if k <= 0 {
		return []int{}
	}

	// Floyd's algorithm: k draws, no rejection loop, O(k) memory.
	chosen := make(map[int]struct{}, k)
	for j := n - k; j < n; j++ {
		t := c.rng.IntN(j + 1)
		if _, taken := chosen[t]; taken {
			chosen[j] = struct{}{}
		} else {
			chosen[t] = struct{}{}
		}
	}

	out := make([]int, 0, k)
	for i := range chosen {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

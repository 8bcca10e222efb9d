package algorithms

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestDensity(t *testing.T) {
	tests := []struct {
		name string
		n    int
		fn   func(t *testing.T, n int) float64
		want float64
	}{
		{"path of 5", 5, func(t *testing.T, n int) float64 { return Density(pathGraph(t, n)) }, 0.4},
		{"complete K4", 4, func(t *testing.T, n int) float64 { return Density(completeGraph(t, n)) }, 1.0},
		{"single node", 1, func(t *testing.T, n int) float64 { return Density(buildGraph(t, n, nil)) }, 0},
		{"empty", 0, func(t *testing.T, n int) float64 { return Density(buildGraph(t, n, nil)) }, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(t, tt.n); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Density = %f, want %f", got, tt.want)
			}
		})
	}
}

// TestClusteringCoefficient_Triangle tests a complete triangle
func TestClusteringCoefficient_Triangle(t *testing.T) {
	g := completeGraph(t, 3)

	coefficients := ClusteringCoefficients(g)
	for _, id := range coefficients.Nodes() {
		if c, _ := coefficients.Score(id); math.Abs(c-1.0) > 1e-12 {
			t.Errorf("Node %d: expected 1.0, got %f", id, c)
		}
	}

	if avg := AverageClusteringCoefficient(g); math.Abs(avg-1.0) > 1e-12 {
		t.Errorf("Expected average 1.0, got %f", avg)
	}
}

// TestClusteringCoefficient_Mixed tests a triangle with a pendant node
func TestClusteringCoefficient_Mixed(t *testing.T) {
	// 0-1-2 triangle, 3 hangs off 2
	g := buildGraph(t, 4, [][2]int64{{0, 1}, {1, 2}, {2, 0}, {2, 3}})

	coefficients := ClusteringCoefficients(g)
	want := map[int64]float64{0: 1, 1: 1, 2: 1.0 / 3.0, 3: 0}
	for id, w := range want {
		if c, _ := coefficients.Score(id); math.Abs(c-w) > 1e-12 {
			t.Errorf("Node %d: expected %f, got %f", id, w, c)
		}
	}

	wantAvg := (1 + 1 + 1.0/3.0 + 0) / 4
	if avg := AverageClusteringCoefficient(g); math.Abs(avg-wantAvg) > 1e-12 {
		t.Errorf("Expected average %f, got %f", wantAvg, avg)
	}
}

func TestClusteringCoefficient_Path(t *testing.T) {
	if avg := AverageClusteringCoefficient(pathGraph(t, 5)); avg != 0 {
		t.Errorf("Path has no triangles, got %f", avg)
	}
	if avg := AverageClusteringCoefficient(buildGraph(t, 0, nil)); avg != 0 {
		t.Errorf("Empty graph should be 0, got %f", avg)
	}
}

func TestDegreeCentrality(t *testing.T) {
	g := pathGraph(t, 5)

	dc := DegreeCentrality(g)
	want := map[int64]float64{0: 0.25, 1: 0.5, 2: 0.5, 3: 0.5, 4: 0.25}
	for id, w := range want {
		if c, _ := dc.Score(id); math.Abs(c-w) > 1e-12 {
			t.Errorf("Node %d: expected %f, got %f", id, w, c)
		}
	}

	single := DegreeCentrality(buildGraph(t, 1, nil))
	if c, ok := single.Score(0); !ok || c != 0 {
		t.Errorf("Single node centrality should be 0, got %f", c)
	}
}

func TestDegreeDistribution(t *testing.T) {
	g := pathGraph(t, 5)

	dist := ComputeDegreeDistribution(g)
	if len(dist.Histogram) != 2 {
		t.Fatalf("Expected 2 degree buckets, got %d", len(dist.Histogram))
	}
	if dist.Histogram[0] != (DegreeCount{Degree: 1, Nodes: 2}) || dist.Histogram[1] != (DegreeCount{Degree: 2, Nodes: 3}) {
		t.Errorf("Unexpected histogram %v", dist.Histogram)
	}
	if math.Abs(dist.Mean-1.6) > 1e-12 {
		t.Errorf("Expected mean 1.6, got %f", dist.Mean)
	}
	if dist.Min != 1 || dist.Max != 2 {
		t.Errorf("Expected min 1 max 2, got %d %d", dist.Min, dist.Max)
	}

	empty := ComputeDegreeDistribution(buildGraph(t, 0, nil))
	if len(empty.Histogram) != 0 {
		t.Error("Empty graph should have empty histogram")
	}
}

// TestStructureBounds checks that density and average clustering stay in
// [0,1] for arbitrary simple graphs with at least two nodes
func TestStructureBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("density and clustering within [0,1]", prop.ForAll(
		func(n int, mask []bool) bool {
			g := randomGraph(n, mask)
			d := Density(g)
			c := AverageClusteringCoefficient(g)
			return d >= 0 && d <= 1 && c >= 0 && c <= 1
		},
		gen.IntRange(2, 20),
		gen.SliceOfN(190, gen.Bool()),
	))

	properties.Property("components partition the node set", prop.ForAll(
		func(n int, mask []bool) bool {
			g := randomGraph(n, mask)
			seen := make(map[int64]bool)
			for _, c := range ConnectedComponents(g) {
				for _, id := range c {
					if seen[id] {
						return false
					}
					seen[id] = true
				}
			}
			return len(seen) == n
		},
		gen.IntRange(1, 20),
		gen.SliceOfN(190, gen.Bool()),
	))

	properties.TestingRun(t)
}

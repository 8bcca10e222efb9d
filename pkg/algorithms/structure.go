package algorithms

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/dd0wney/cluso-netstat/pkg/graph"
)

// Density returns 2|E| / (|V|(|V|-1)), or 0 when |V| <= 1.
func Density(g *graph.Graph) float64 {
	n := g.NodeCount()
	if n <= 1 {
		return 0
	}
	return 2 * float64(g.EdgeCount()) / (float64(n) * float64(n-1))
}

// ClusteringCoefficients computes local clustering coefficient for all nodes
// Measures how close a node's neighbors are to being a complete graph.
// Nodes with degree < 2 score 0.
func ClusteringCoefficients(g *graph.Graph) CentralityTable {
	n := g.NodeCount()
	values := make([]float64, n)

	// mark[j] == i+1 while j is a neighbor of the node being scored
	mark := make([]int, n)

	for i := 0; i < n; i++ {
		row := g.NeighborIndices(i)
		k := len(row)
		if k < 2 {
			continue
		}

		for _, j := range row {
			mark[j] = i + 1
		}

		// Each link among neighbors is seen from both of its endpoints
		seen := 0
		for _, j := range row {
			for _, w := range g.NeighborIndices(int(j)) {
				if mark[w] == i+1 {
					seen++
				}
			}
		}
		links := seen / 2

		values[i] = 2 * float64(links) / (float64(k) * float64(k-1))
	}

	return newCentralityTable(g.Nodes(), values)
}

// AverageClusteringCoefficient is the unweighted mean of the local
// coefficients over all nodes, 0 for the empty graph.
func AverageClusteringCoefficient(g *graph.Graph) float64 {
	if g.NodeCount() == 0 {
		return 0
	}
	return stat.Mean(ClusteringCoefficients(g).Values(), nil)
}

// DegreeCentrality computes degree / (|V|-1) for all nodes, 0 when |V| <= 1.
func DegreeCentrality(g *graph.Graph) CentralityTable {
	n := g.NodeCount()
	values := make([]float64, n)
	if n > 1 {
		for i := range values {
			values[i] = float64(g.DegreeAt(i))
		}
		floats.Scale(1/float64(n-1), values)
	}
	return newCentralityTable(g.Nodes(), values)
}

// DegreeCount is one bar of a degree histogram.
type DegreeCount struct {
	Degree int `json:"degree" yaml:"degree"`
	Nodes  int `json:"nodes" yaml:"nodes"`
}

// DegreeDistribution summarizes the degree sequence of a graph.
type DegreeDistribution struct {
	Histogram []DegreeCount `json:"histogram" yaml:"histogram"` // ascending by degree
	Mean      float64       `json:"mean" yaml:"mean"`
	StdDev    float64       `json:"std_dev" yaml:"std_dev"` // sample standard deviation
	Min       int           `json:"min" yaml:"min"`
	Max       int           `json:"max" yaml:"max"`
}

// ComputeDegreeDistribution returns the exact degree histogram and summary
// statistics. Binning for display is left to the renderer.
func ComputeDegreeDistribution(g *graph.Graph) *DegreeDistribution {
	n := g.NodeCount()
	dist := &DegreeDistribution{Histogram: []DegreeCount{}}
	if n == 0 {
		return dist
	}

	degrees := make([]float64, n)
	counts := make(map[int]int)
	dist.Min = g.DegreeAt(0)
	for i := 0; i < n; i++ {
		d := g.DegreeAt(i)
		degrees[i] = float64(d)
		counts[d]++
		if d < dist.Min {
			dist.Min = d
		}
		if d > dist.Max {
			dist.Max = d
		}
	}

	dist.Mean, dist.StdDev = stat.MeanStdDev(degrees, nil)
	if n == 1 {
		dist.StdDev = 0
	}

	for d, c := range counts {
		dist.Histogram = append(dist.Histogram, DegreeCount{Degree: d, Nodes: c})
	}
	sort.Slice(dist.Histogram, func(i, j int) bool {
		return dist.Histogram[i].Degree < dist.Histogram[j].Degree
	})

	return dist
}

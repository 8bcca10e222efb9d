// Package loader turns SNAP-style edge lists into a graph store.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/exp/mmap"

	"github.com/dd0wney/cluso-netstat/pkg/graph"
)

// ErrParse is returned for lines that are not an integer pair.
var ErrParse = errors.New("malformed edge list line")

// maxLineBytes bounds a single input line.
const maxLineBytes = 1 << 20

// EdgeList is a cleaned undirected edge list: no self-loops, no repeated
// pairs in either orientation. Nodes are listed in order of first
// appearance.
type EdgeList struct {
	Nodes []int64
	Edges []graph.Edge

	Lines      int // data lines read
	SelfLoops  int // lines dropped as self-loops
	Duplicates int // lines dropped as repeated pairs
}

// ReadEdgeList parses whitespace-separated node pairs, one per line.
// Blank lines and lines starting with '#' or '%' are skipped; columns past
// the second are ignored.
func ReadEdgeList(r io.Reader) (*EdgeList, error) {
	el := &EdgeList{}
	seenNode := make(map[int64]bool)
	seenEdge := make(map[graph.Edge]bool)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || line[0] == '%' {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: %w: %q", lineNo, ErrParse, line)
		}
		u, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: %v", lineNo, ErrParse, err)
		}
		v, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: %v", lineNo, ErrParse, err)
		}
		el.Lines++

		for _, id := range [2]int64{u, v} {
			if !seenNode[id] {
				seenNode[id] = true
				el.Nodes = append(el.Nodes, id)
			}
		}

		if u == v {
			el.SelfLoops++
			continue
		}
		key := graph.Edge{U: min(u, v), V: max(u, v)}
		if seenEdge[key] {
			el.Duplicates++
			continue
		}
		seenEdge[key] = true
		el.Edges = append(el.Edges, key)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read edge list: %w", err)
	}

	return el, nil
}

// ReadEdgeListFile memory-maps path and parses it.
func ReadEdgeListFile(path string) (*EdgeList, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to map %s: %w", path, err)
	}
	defer reader.Close()

	el, err := ReadEdgeList(io.NewSectionReader(reader, 0, int64(reader.Len())))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return el, nil
}

// Degrees counts the degree of every node.
func (el *EdgeList) Degrees() map[int64]int {
	deg := make(map[int64]int, len(el.Nodes))
	for _, id := range el.Nodes {
		deg[id] = 0
	}
	for _, e := range el.Edges {
		deg[e.U]++
		deg[e.V]++
	}
	return deg
}

// TopNByDegree returns the n highest-degree nodes, ties broken by ascending
// id, in that order. n <= 0 or n >= len(Nodes) returns every node in
// first-appearance order.
func (el *EdgeList) TopNByDegree(n int) []int64 {
	if n <= 0 || n >= len(el.Nodes) {
		return append([]int64(nil), el.Nodes...)
	}

	deg := el.Degrees()
	ranked := append([]int64(nil), el.Nodes...)
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if deg[a] != deg[b] {
			return deg[a] > deg[b]
		}
		return a < b
	})
	return ranked[:n]
}

// Build constructs the graph store, keeping only the top n nodes by degree
// and the edges among them when n > 0.
func (el *EdgeList) Build(n int) (*graph.Graph, error) {
	g, err := graph.New(el.Nodes, el.Edges)
	if err != nil {
		return nil, err
	}
	if n <= 0 || n >= len(el.Nodes) {
		return g, nil
	}
	return g.InducedSubgraph(el.TopNByDegree(n))
}

// Load reads path and builds its graph, filtered to the top n nodes by degree.
func Load(path string, n int) (*graph.Graph, *EdgeList, error) {
	el, err := ReadEdgeListFile(path)
	if err != nil {
		return nil, nil, err
	}
	g, err := el.Build(n)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, el, nil
}

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-netstat/pkg/algorithms"
	"github.com/dd0wney/cluso-netstat/pkg/export"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 1).
			MarginRight(2)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Width(22)

	bestStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)
)

func row(label string, value any) string {
	return labelStyle.Render(label) + fmt.Sprint(value)
}

func box(title string, rows ...string) string {
	return boxStyle.Render(headerStyle.Render(title) + "\n" + strings.Join(rows, "\n"))
}

func graphBox(r *export.Report) string {
	return box("Graph",
		row("nodes", r.Graph.Nodes),
		row("edges", r.Graph.Edges),
		row("density", fmt.Sprintf("%.6g", r.Graph.Density)),
		row("avg clustering", fmt.Sprintf("%.4f", r.Graph.AverageClustering)),
		row("components", r.Graph.Components),
		row("largest component", r.Graph.LargestComponentNodes),
	)
}

func pathBox(r *export.Report) string {
	mode := "sampled"
	if r.Paths.Exact {
		mode = "exact"
	}
	return box("Paths",
		row("avg path length", fmt.Sprintf("%.4f (%s, %d sources)", r.Paths.AveragePathLength, mode, r.Paths.Sources)),
		row("diameter", fmt.Sprintf("%d (%d sources)", r.Paths.Diameter, r.Paths.DiameterSources)),
		row("degree mean/std", fmt.Sprintf("%.2f / %.2f", r.Degrees.Mean, r.Degrees.StdDev)),
		row("degree min/max", fmt.Sprintf("%d / %d", r.Degrees.Min, r.Degrees.Max)),
	)
}

func rankingBox(title string, ranked []algorithms.RankedNode) string {
	rows := make([]string, 0, len(ranked))
	for i, rn := range ranked {
		rows = append(rows, row(fmt.Sprintf("%d. node %d", i+1, rn.NodeID), fmt.Sprintf("%.5f", rn.Score)))
	}
	if len(rows) == 0 {
		rows = append(rows, "none")
	}
	return box(title, rows...)
}

func communityTable(r *export.Report) string {
	best := r.Best()
	lines := []string{headerStyle.Render(fmt.Sprintf("%-18s %11s %9s %11s %10s %7s",
		"algorithm", "communities", "largest", "modularity", "quality", "passes"))}
	for i := range r.Communities {
		c := &r.Communities[i]
		line := fmt.Sprintf("%-18s %11d %9d %11.4f %10.4f %7d",
			c.Algorithm, c.Communities, c.Largest, c.Modularity, c.Quality, c.Passes)
		if c == best {
			line = bestStyle.Render(line + "  *")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func warnings(r *export.Report) string {
	if len(r.Warnings) == 0 {
		return ""
	}
	lines := make([]string, 0, len(r.Warnings))
	for _, w := range r.Warnings {
		lines = append(lines, warnStyle.Render("! "+w))
	}
	return "\n" + strings.Join(lines, "\n")
}

func header(r *export.Report) string {
	return titleStyle.Render(fmt.Sprintf("netstat run %s (seed %d)", r.RunID, r.Seed))
}

func renderStats(w io.Writer, r *export.Report) error {
	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left,
		header(r),
		lipgloss.JoinHorizontal(lipgloss.Top, graphBox(r), pathBox(r)),
	)+warnings(r))
	return err
}

func renderCommunities(w io.Writer, r *export.Report) error {
	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left,
		header(r),
		communityTable(r),
	)+warnings(r))
	return err
}

func renderReport(w io.Writer, r *export.Report) error {
	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left,
		header(r),
		lipgloss.JoinHorizontal(lipgloss.Top, graphBox(r), pathBox(r)),
		lipgloss.JoinHorizontal(lipgloss.Top,
			rankingBox("Top degree", r.Rankings.Degree),
			rankingBox("Top eigenvector", r.Rankings.Eigenvector),
		),
		communityTable(r),
	)+warnings(r))
	return err
}

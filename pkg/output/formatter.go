package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/ritzau/bfs-visualizer/pkg/bfs"
)

// PrintTraversal prints every step of a traversal followed by a summary.
func PrintTraversal(w io.Writer, graphName string, res *bfs.Result) {
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)
	faint := color.New(color.Faint)

	bold.Fprintf(w, "Breadth-First Search - %s\n", graphName)
	bold.Fprintln(w, strings.Repeat("=", 23+len(graphName)))
	fmt.Fprintln(w)

	for _, step := range res.Steps {
		label := cyan
		switch step.Action {
		case bfs.ActionFound:
			label = green
		case bfs.ActionNotFound:
			label = red
		case bfs.ActionStart:
			label = yellow
		}

		label.Fprintf(w, "Step %d [%s]", step.Step, step.Action)
		fmt.Fprintf(w, " %s\n", step.Description)
		if current, ok := step.Current(); ok {
			fmt.Fprintf(w, "    Current:  %s\n", current)
		}
		if len(step.ExpandedNodes) > 0 {
			fmt.Fprintf(w, "    Expanded: %s\n", strings.Join(step.ExpandedNodes, ", "))
		}
		faint.Fprintf(w, "    Visited:  %s\n", strings.Join(step.Visited, ", "))
		faint.Fprintf(w, "    Queue:    %s\n", formatQueue(step.Queue))
		fmt.Fprintln(w)
	}

	if !res.Found {
		red.Fprintf(w, "No path found after %d steps\n", res.TotalSteps)
		return
	}

	green.Fprintf(w, "✓ Path found: %s\n", strings.Join(res.Path, " → "))
	fmt.Fprintf(w, "  Edges: %d\n", res.Path.Edges())
	fmt.Fprintf(w, "  Steps: %d\n", res.TotalSteps)
	fmt.Fprintf(w, "  Cost:  %g\n", res.PathCost)
}

func formatQueue(queue []bfs.Path) string {
	if len(queue) == 0 {
		return "(empty)"
	}
	parts := make([]string, len(queue))
	for i, p := range queue {
		parts[i] = "[" + strings.Join(p, " ") + "]"
	}
	return strings.Join(parts, " ")
}

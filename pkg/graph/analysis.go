package graph

import (
	"fmt"
	"slices"

	gonumgraph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"
)

// Components returns the connected components of the graph. Nodes inside a
// component follow declaration order, and components are ordered by their
// first node.
func (g *Graph) Components() [][]string {
	raw := topo.ConnectedComponents(g.undirected)

	components := make([][]string, 0, len(raw))
	for _, cc := range raw {
		ids := make([]int64, 0, len(cc))
		for _, n := range cc {
			ids = append(ids, n.ID())
		}
		slices.Sort(ids)

		component := make([]string, 0, len(ids))
		for _, id := range ids {
			component = append(component, g.nodes[id])
		}
		components = append(components, component)
	}

	slices.SortFunc(components, func(a, b []string) int {
		return int(g.index[a[0]] - g.index[b[0]])
	})
	return components
}

// HopDistance returns the number of edges on a shortest unweighted path from
// a to b. The boolean is false when b is unreachable from a.
func (g *Graph) HopDistance(a, b string) (int, bool, error) {
	from, ok := g.index[a]
	if !ok {
		return 0, false, fmt.Errorf("%w: %q", ErrUnknownNode, a)
	}
	to, ok := g.index[b]
	if !ok {
		return 0, false, fmt.Errorf("%w: %q", ErrUnknownNode, b)
	}

	var bf traverse.BreadthFirst
	depth := -1
	bf.Walk(g.undirected, g.undirected.Node(from), func(n gonumgraph.Node, d int) bool {
		if n.ID() == to {
			depth = d
			return true
		}
		return false
	})
	if depth < 0 {
		return 0, false, nil
	}
	return depth, true, nil
}

// HopDistances returns the unweighted distance from a to every node reachable
// from it, a included at distance 0.
func (g *Graph) HopDistances(a string) (map[string]int, error) {
	from, ok := g.index[a]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, a)
	}

	distances := make(map[string]int)
	var bf traverse.BreadthFirst
	bf.Walk(g.undirected, g.undirected.Node(from), func(n gonumgraph.Node, d int) bool {
		distances[g.nodes[n.ID()]] = d
		return false
	})
	return distances, nil
}

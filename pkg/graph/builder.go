package graph

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/graph/simple"
)

type nodeDecl struct {
	id        string
	neighbors []string
}

type weightDecl struct {
	a, b   string
	weight float64
}

// Builder collects node and weight declarations and produces an immutable Graph.
// Declaration order is preserved: nodes keep the order they were added in and
// each node keeps the neighbor order it was declared with.
type Builder struct {
	nodes   []nodeDecl
	weights []weightDecl
}

// NewBuilder creates an empty builder
func NewBuilder() *Builder {
	return &Builder{}
}

// AddNode declares a node with its ordered neighbor list.
func (b *Builder) AddNode(id string, neighbors ...string) *Builder {
	b.nodes = append(b.nodes, nodeDecl{id: id, neighbors: slices.Clone(neighbors)})
	return b
}

// SetWeight declares the weight of the undirected edge from-to.
func (b *Builder) SetWeight(from, to string, weight float64) *Builder {
	b.weights = append(b.weights, weightDecl{a: from, b: to, weight: weight})
	return b
}

// Build validates the declarations and returns the frozen graph.
// All validation problems are reported together, each wrapping ErrInvalidGraph.
func (b *Builder) Build() (*Graph, error) {
	g := &Graph{
		nodes:      make([]string, 0, len(b.nodes)),
		index:      make(map[string]int64, len(b.nodes)),
		adjacency:  make(map[string][]string, len(b.nodes)),
		weights:    make(map[pairKey]float64, len(b.weights)),
		undirected: simple.NewUndirectedGraph(),
	}

	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidGraph, fmt.Sprintf(format, args...)))
	}

	// Pass 1: register nodes
	for _, n := range b.nodes {
		if n.id == "" {
			invalid("empty node id")
			continue
		}
		if _, dup := g.index[n.id]; dup {
			invalid("duplicate node %q", n.id)
			continue
		}
		id := int64(len(g.nodes))
		g.index[n.id] = id
		g.nodes = append(g.nodes, n.id)
		g.undirected.AddNode(simple.Node(id))
	}

	// Pass 2: adjacency lists
	seenEdge := make(map[pairKey]bool)
	for _, n := range b.nodes {
		if _, ok := g.index[n.id]; !ok || g.adjacency[n.id] != nil {
			continue
		}
		list := make([]string, 0, len(n.neighbors))
		for _, nb := range n.neighbors {
			switch {
			case nb == n.id:
				invalid("self-loop on %q", n.id)
				continue
			case !g.HasNode(nb):
				invalid("node %q lists undeclared neighbor %q", n.id, nb)
				continue
			case slices.Contains(list, nb):
				invalid("node %q lists neighbor %q twice", n.id, nb)
				continue
			}
			list = append(list, nb)

			key := makePairKey(n.id, nb)
			if !seenEdge[key] {
				seenEdge[key] = true
				g.edges = append(g.edges, [2]string{n.id, nb})
				g.undirected.SetEdge(simple.Edge{
					F: simple.Node(g.index[n.id]),
					T: simple.Node(g.index[nb]),
				})
			}
		}
		g.adjacency[n.id] = list
	}

	// Pass 3: symmetry
	for _, id := range g.nodes {
		for _, nb := range g.adjacency[id] {
			if !slices.Contains(g.adjacency[nb], id) {
				invalid("edge %q-%q is not declared by %q", id, nb, nb)
			}
		}
	}

	// Pass 4: weights
	for _, w := range b.weights {
		if !g.HasNode(w.a) || !g.HasNode(w.b) || !g.Adjacent(w.a, w.b) {
			invalid("weight declared for non-edge %q-%q", w.a, w.b)
			continue
		}
		if w.weight <= 0 {
			invalid("weight %g on %q-%q is not positive", w.weight, w.a, w.b)
			continue
		}
		g.weights[makePairKey(w.a, w.b)] = w.weight
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return g, nil
}

package graph

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/graph/simple"
)

// Sentinel errors returned by graph lookups and construction.
var (
	// ErrUnknownNode is returned when a node id is not part of the graph.
	ErrUnknownNode = errors.New("graph: unknown node")

	// ErrUnknownEdge is returned when two nodes are not adjacent.
	ErrUnknownEdge = errors.New("graph: unknown edge")

	// ErrInvalidGraph is returned by Build when the declared structure is inconsistent.
	ErrInvalidGraph = errors.New("graph: invalid graph")
)

// DefaultWeight is the weight reported for an edge without a declared weight.
const DefaultWeight = 1.0

// pairKey identifies an unordered node pair
type pairKey struct {
	a, b string
}

func makePairKey(a, b string) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// Graph is an immutable undirected graph with ordered adjacency lists and
// optional edge weights. Neighbor order is the declaration order and drives
// expansion order in traversals.
//
// A Graph is safe for concurrent use by multiple readers; nothing mutates it
// after Build returns.
type Graph struct {
	nodes     []string            // declaration order
	index     map[string]int64    // node id -> gonum node id
	adjacency map[string][]string // node id -> ordered neighbors
	weights   map[pairKey]float64
	edges     [][2]string // each undirected edge once, declaration order

	// undirected mirrors the adjacency for gonum based analysis
	undirected *simple.UndirectedGraph
}

// Edge is an undirected edge together with its effective weight.
type Edge struct {
	A      string  `json:"a"`
	B      string  `json:"b"`
	Weight float64 `json:"weight"`
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Nodes returns the node ids in declaration order.
func (g *Graph) Nodes() []string {
	return slices.Clone(g.nodes)
}

// HasNode reports whether id is a node of the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Neighbors returns the ordered neighbors of id.
func (g *Graph) Neighbors(id string) ([]string, error) {
	neighbors, ok := g.adjacency[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	return slices.Clone(neighbors), nil
}

// Adjacent reports whether a and b share an edge.
func (g *Graph) Adjacent(a, b string) bool {
	return slices.Contains(g.adjacency[a], b)
}

// Weight returns the declared weight of the edge a-b, or DefaultWeight when
// the edge exists without one.
func (g *Graph) Weight(a, b string) (float64, error) {
	if !g.HasNode(a) {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNode, a)
	}
	if !g.HasNode(b) {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNode, b)
	}
	if !g.Adjacent(a, b) {
		return 0, fmt.Errorf("%w: %q-%q", ErrUnknownEdge, a, b)
	}
	if w, ok := g.weights[makePairKey(a, b)]; ok {
		return w, nil
	}
	return DefaultWeight, nil
}

// Edges returns every undirected edge once, in declaration order, with its
// effective weight.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		w, ok := g.weights[makePairKey(e[0], e[1])]
		if !ok {
			w = DefaultWeight
		}
		edges = append(edges, Edge{A: e[0], B: e[1], Weight: w})
	}
	return edges
}

// Adjacency returns a copy of the ordered adjacency lists.
func (g *Graph) Adjacency() map[string][]string {
	out := make(map[string][]string, len(g.adjacency))
	for id, neighbors := range g.adjacency {
		out[id] = slices.Clone(neighbors)
	}
	return out
}

// PathWeight sums the edge weights along path. A path with fewer than two
// nodes weighs 0.
func (g *Graph) PathWeight(path []string) (float64, error) {
	total := 0.0
	for i := 1; i < len(path); i++ {
		w, err := g.Weight(path[i-1], path[i])
		if err != nil {
			return 0, err
		}
		total += w
	}
	return total, nil
}

// FromEdges builds a graph from a node list and edge pairs. Each edge appends
// to both endpoints' neighbor lists, so neighbor order follows edge order.
func FromEdges(nodes []string, edges [][2]string) (*Graph, error) {
	neighbors := make(map[string][]string, len(nodes))
	for _, e := range edges {
		neighbors[e[0]] = append(neighbors[e[0]], e[1])
		neighbors[e[1]] = append(neighbors[e[1]], e[0])
	}

	b := NewBuilder()
	for _, n := range nodes {
		b.AddNode(n, neighbors[n]...)
	}
	return b.Build()
}

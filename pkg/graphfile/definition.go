package graphfile

import (
	"errors"
	"fmt"

	"github.com/ritzau/bfs-visualizer/pkg/graph"
)

// ErrInvalidDefinition is returned when a definition's defaults do not fit its graph.
var ErrInvalidDefinition = errors.New("graphfile: invalid definition")

// Definition is the on-disk description of a graph. The same shape is read
// from TOML, YAML, JSON and HCL.
type Definition struct {
	Name    string      `koanf:"name" hcl:"name,optional"`
	Start   string      `koanf:"start" hcl:"start,optional"`
	Goal    string      `koanf:"goal" hcl:"goal,optional"`
	Nodes   []NodeDef   `koanf:"nodes" hcl:"node,block"`
	Weights []WeightDef `koanf:"weights" hcl:"weight,block"`
}

// NodeDef declares one node and its neighbors in expansion order.
type NodeDef struct {
	ID        string   `koanf:"id" hcl:"id,label"`
	Neighbors []string `koanf:"neighbors" hcl:"neighbors,optional"`
}

// WeightDef declares the weight of one undirected edge.
type WeightDef struct {
	A     string  `koanf:"a" hcl:"a"`
	B     string  `koanf:"b" hcl:"b"`
	Value float64 `koanf:"value" hcl:"value"`
}

// Source is a loaded graph together with its default search endpoints.
type Source struct {
	Name  string
	Path  string // empty for the built-in graph
	Start string
	Goal  string
	Graph *graph.Graph
}

// Build validates the definition and freezes it into a Source.
// Missing start/goal default to the first and last declared node.
func (d *Definition) Build() (*Source, error) {
	b := graph.NewBuilder()
	for _, n := range d.Nodes {
		b.AddNode(n.ID, n.Neighbors...)
	}
	for _, w := range d.Weights {
		b.SetWeight(w.A, w.B, w.Value)
	}

	g, err := b.Build()
	if err != nil {
		return nil, err
	}
	if g.Len() == 0 {
		return nil, fmt.Errorf("%w: no nodes declared", ErrInvalidDefinition)
	}

	src := &Source{
		Name:  d.Name,
		Start: d.Start,
		Goal:  d.Goal,
		Graph: g,
	}
	nodes := g.Nodes()
	if src.Start == "" {
		src.Start = nodes[0]
	}
	if src.Goal == "" {
		src.Goal = nodes[len(nodes)-1]
	}
	if !g.HasNode(src.Start) {
		return nil, fmt.Errorf("%w: start %q is not a node", ErrInvalidDefinition, src.Start)
	}
	if !g.HasNode(src.Goal) {
		return nil, fmt.Errorf("%w: goal %q is not a node", ErrInvalidDefinition, src.Goal)
	}
	return src, nil
}

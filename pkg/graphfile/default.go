package graphfile

// classroom is the ten node graph used in the BFS lesson: start A, goal J.
var classroom = Definition{
	Name:  "classroom",
	Start: "A",
	Goal:  "J",
	Nodes: []NodeDef{
		{ID: "A", Neighbors: []string{"B", "C"}},
		{ID: "B", Neighbors: []string{"A", "D", "E"}},
		{ID: "C", Neighbors: []string{"A", "F", "G"}},
		{ID: "D", Neighbors: []string{"B", "H"}},
		{ID: "E", Neighbors: []string{"B", "H"}},
		{ID: "F", Neighbors: []string{"C", "I"}},
		{ID: "G", Neighbors: []string{"C", "I"}},
		{ID: "H", Neighbors: []string{"D", "E", "J"}},
		{ID: "I", Neighbors: []string{"F", "G", "J"}},
		{ID: "J", Neighbors: []string{"H", "I"}},
	},
	Weights: []WeightDef{
		{A: "A", B: "B", Value: 2}, {A: "A", B: "C", Value: 1},
		{A: "B", B: "D", Value: 2}, {A: "B", B: "E", Value: 4},
		{A: "C", B: "F", Value: 5}, {A: "C", B: "G", Value: 1},
		{A: "D", B: "H", Value: 1}, {A: "E", B: "H", Value: 1},
		{A: "F", B: "I", Value: 2}, {A: "G", B: "I", Value: 3},
		{A: "H", B: "J", Value: 3}, {A: "I", B: "J", Value: 2},
	},
}

// Default returns the built-in classroom graph. It panics only if the
// built-in declaration itself is broken.
func Default() *Source {
	src, err := classroom.Build()
	if err != nil {
		panic("graphfile: built-in graph is invalid: " + err.Error())
	}
	return src
}

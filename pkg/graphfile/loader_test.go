package graphfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritzau/bfs-visualizer/pkg/graph"
)

const triangleTOML = `
name = "triangle"
start = "X"
goal = "Z"

[[nodes]]
id = "X"
neighbors = ["Y", "Z"]

[[nodes]]
id = "Y"
neighbors = ["X", "Z"]

[[nodes]]
id = "Z"
neighbors = ["Y", "X"]

[[weights]]
a = "X"
b = "Y"
value = 4
`

const triangleYAML = `
name: triangle
start: X
goal: Z
nodes:
  - id: X
    neighbors: [Y, Z]
  - id: Y
    neighbors: [X, Z]
  - id: Z
    neighbors: [Y, X]
weights:
  - {a: X, b: Y, value: 4}
`

const triangleJSON = `{
  "name": "triangle",
  "start": "X",
  "goal": "Z",
  "nodes": [
    {"id": "X", "neighbors": ["Y", "Z"]},
    {"id": "Y", "neighbors": ["X", "Z"]},
    {"id": "Z", "neighbors": ["Y", "X"]}
  ],
  "weights": [{"a": "X", "b": "Y", "value": 4}]
}`

const triangleHCL = `
name  = "triangle"
start = "X"
goal  = "Z"

node "X" {
  neighbors = ["Y", "Z"]
}

node "Y" {
  neighbors = ["X", "Z"]
}

node "Z" {
  neighbors = ["Y", "X"]
}

weight {
  a     = "X"
  b     = "Y"
  value = 4
}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		file    string
		content string
	}{
		{"triangle.toml", triangleTOML},
		{"triangle.yaml", triangleYAML},
		{"triangle.yml", triangleYAML},
		{"triangle.json", triangleJSON},
		{"triangle.hcl", triangleHCL},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)

			src, err := Load(path)
			require.NoError(t, err)

			assert.Equal(t, "triangle", src.Name)
			assert.Equal(t, path, src.Path)
			assert.Equal(t, "X", src.Start)
			assert.Equal(t, "Z", src.Goal)
			assert.Equal(t, []string{"X", "Y", "Z"}, src.Graph.Nodes())

			nz, err := src.Graph.Neighbors("Z")
			require.NoError(t, err)
			assert.Equal(t, []string{"Y", "X"}, nz)

			w, err := src.Graph.Weight("Y", "X")
			require.NoError(t, err)
			assert.Equal(t, 4.0, w)

			w, err = src.Graph.Weight("X", "Z")
			require.NoError(t, err)
			assert.Equal(t, graph.DefaultWeight, w)
		})
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeFile(t, "graph.ini", "nodes=1")

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadRejectsAsymmetricGraph(t *testing.T) {
	path := writeFile(t, "bad.toml", `
[[nodes]]
id = "A"
neighbors = ["B"]

[[nodes]]
id = "B"
neighbors = []
`)

	_, err := Load(path)
	assert.ErrorIs(t, err, graph.ErrInvalidGraph)
}

func TestLoadRejectsUnknownStart(t *testing.T) {
	path := writeFile(t, "bad.json", `{"start": "Q", "nodes": [{"id": "A"}]}`)

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidDefinition)
}

func TestLoadDefaultsNameAndEndpoints(t *testing.T) {
	path := writeFile(t, "chain.yaml", `
nodes:
  - {id: P, neighbors: [Q]}
  - {id: Q, neighbors: [P, R]}
  - {id: R, neighbors: [Q]}
`)

	src, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "chain", src.Name)
	assert.Equal(t, "P", src.Start)
	assert.Equal(t, "R", src.Goal)
}

func TestEmptyDefinition(t *testing.T) {
	_, err := (&Definition{}).Build()
	assert.ErrorIs(t, err, ErrInvalidDefinition)
}

func TestDefault(t *testing.T) {
	src := Default()

	assert.Equal(t, "classroom", src.Name)
	assert.Equal(t, "A", src.Start)
	assert.Equal(t, "J", src.Goal)
	assert.Equal(t, 10, src.Graph.Len())
	assert.Len(t, src.Graph.Edges(), 12)
	assert.Len(t, src.Graph.Components(), 1)

	w, err := src.Graph.Weight("C", "F")
	require.NoError(t, err)
	assert.Equal(t, 5.0, w)
}

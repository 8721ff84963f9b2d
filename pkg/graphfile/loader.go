package graphfile

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ritzau/bfs-visualizer/pkg/logging"
)

// ErrUnsupportedFormat is returned for files whose extension has no decoder.
var ErrUnsupportedFormat = errors.New("graphfile: unsupported format")

// Load reads a graph definition from path. The decoder is picked from the
// file extension: .toml, .yaml/.yml, .json or .hcl.
func Load(path string) (*Source, error) {
	def, err := Decode(path)
	if err != nil {
		return nil, err
	}

	src, err := def.Build()
	if err != nil {
		return nil, fmt.Errorf("building graph from %s: %w", path, err)
	}
	src.Path = path
	if src.Name == "" {
		src.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	logging.Debug("loaded graph definition", "path", path, "nodes", src.Graph.Len(), "start", src.Start, "goal", src.Goal)
	return src, nil
}

// Decode reads the raw definition from path without validating it.
func Decode(path string) (*Definition, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return decodeKoanf(path, toml.Parser())
	case ".yaml", ".yml":
		return decodeKoanf(path, yaml.Parser())
	case ".json":
		return decodeKoanf(path, json.Parser())
	case ".hcl":
		return decodeHCL(path)
	default:
		return nil, fmt.Errorf("%w: %q (%s)", ErrUnsupportedFormat, ext, path)
	}
}

func decodeKoanf(path string, parser koanf.Parser) (*Definition, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("reading graph definition %s: %w", path, err)
	}

	var def Definition
	if err := k.Unmarshal("", &def); err != nil {
		return nil, fmt.Errorf("decoding graph definition %s: %w", path, err)
	}
	return &def, nil
}

func decodeHCL(path string) (*Definition, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL graph definition %s: %s", path, diags.Error())
	}

	var def Definition
	diags = gohcl.DecodeBody(f.Body, nil, &def)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL graph definition %s: %s", path, diags.Error())
	}
	return &def, nil
}

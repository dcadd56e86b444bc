package folio

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ManifestNode is one node of a room manifest. Vectors are [x, y, z]; a missing
// scale means unit scale.
type ManifestNode struct {
	Name     string            `yaml:"name" toml:"name"`
	Kind     string            `yaml:"kind" toml:"kind"`
	Position []float32         `yaml:"position" toml:"position"`
	Rotation []float32         `yaml:"rotation" toml:"rotation"`
	Scale    []float32         `yaml:"scale" toml:"scale"`
	Size     []float32         `yaml:"size" toml:"size"`
	Texture  string            `yaml:"texture" toml:"texture"`
	Hidden   bool              `yaml:"hidden" toml:"hidden"`
	Tags     map[string]string `yaml:"tags" toml:"tags"`
	Children []ManifestNode    `yaml:"children" toml:"children"`
}

// Format is a serialization format for configs and manifests.
type Format uint8

const (
	FormatYAML Format = iota
	FormatTOML
)

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return 0, fmt.Errorf("folio: unsupported file type %q", path)
	}
}

func decode(data []byte, format Format, v any) error {
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		return dec.Decode(v)
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(v)
	default:
		return fmt.Errorf("folio: unknown format %d", format)
	}
}

// DecodeManifest parses a room manifest and builds its node tree.
func DecodeManifest(data []byte, format Format) (*Node, error) {
	var m ManifestNode
	if err := decode(data, format, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return m.Build()
}

// LoadManifest reads and builds a room manifest from disk.
func LoadManifest(path string) (*Node, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %q: %w", path, err)
	}
	root, err := DecodeManifest(data, format)
	if err != nil {
		return nil, fmt.Errorf("manifest %q: %w", path, err)
	}
	return root, nil
}

// Build converts the manifest node and its children into nodes.
func (s ManifestNode) Build() (*Node, error) {
	var n *Node
	switch strings.ToLower(s.Kind) {
	case "", "group":
		n = NewGroup(s.Name)
	case "mesh":
		size, err := vec3(s.Size, mgl32.Vec3{1, 1, 1})
		if err != nil {
			return nil, fmt.Errorf("node %q size: %w", s.Name, err)
		}
		n = NewMesh(s.Name, size)
	default:
		return nil, fmt.Errorf("node %q: unknown kind %q", s.Name, s.Kind)
	}

	var err error
	if n.Position, err = vec3(s.Position, mgl32.Vec3{}); err != nil {
		return nil, fmt.Errorf("node %q position: %w", s.Name, err)
	}
	if n.Rotation, err = vec3(s.Rotation, mgl32.Vec3{}); err != nil {
		return nil, fmt.Errorf("node %q rotation: %w", s.Name, err)
	}
	if n.Scale, err = vec3(s.Scale, mgl32.Vec3{1, 1, 1}); err != nil {
		return nil, fmt.Errorf("node %q scale: %w", s.Name, err)
	}
	n.Texture = s.Texture
	n.Visible = !s.Hidden
	for k, v := range s.Tags {
		n.SetTag(k, v)
	}

	for _, cs := range s.Children {
		child, err := cs.Build()
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}

func vec3(v []float32, def mgl32.Vec3) (mgl32.Vec3, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 1:
		return mgl32.Vec3{v[0], v[0], v[0]}, nil
	case 3:
		return mgl32.Vec3{v[0], v[1], v[2]}, nil
	default:
		return def, fmt.Errorf("want 1 or 3 components, got %d", len(v))
	}
}

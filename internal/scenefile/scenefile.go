// Package scenefile loads declarative scene descriptions from YAML.
//
// A file names the window title, the device scale factor and a list of
// top-level nodes:
//
//	title: Settings
//	scale_factor: 2
//	nodes:
//	  - name: ok
//	    type: label
//	    text: OK
//	    x: 10
//	    y: 10
//	    width: 80
//	    height: 24
//	    attrs:
//	      accessibility: button
//	      focusable: "true"
//
// Attribute values go through arbor.ApplyAttributes, so values that cannot be
// interpreted fall back to defaults rather than failing the load.
package scenefile

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/phanxgames/arbor"
)

// ErrUnknownType is returned for a node whose type is not element, text,
// label or image.
var ErrUnknownType = errors.New("scenefile: unknown node type")

// File is a parsed scene description.
type File struct {
	Title       string  `yaml:"title"`
	ScaleFactor float64 `yaml:"scale_factor"`
	Nodes       []Node  `yaml:"nodes"`
}

// Node describes one element and its subtree.
type Node struct {
	Name         string            `yaml:"name"`
	Type         string            `yaml:"type"`
	X            float64           `yaml:"x"`
	Y            float64           `yaml:"y"`
	Width        float64           `yaml:"width"`
	Height       float64           `yaml:"height"`
	Layer        int16             `yaml:"layer"`
	Z            int               `yaml:"z"`
	Interactable *bool             `yaml:"interactable"`
	Visible      *bool             `yaml:"visible"`
	Text         string            `yaml:"text"`
	Attrs        map[string]string `yaml:"attrs"`
	Children     []Node            `yaml:"children"`
}

// Parse decodes a scene description. Unknown fields are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("scenefile: %w", err)
	}
	return &f, nil
}

// Load reads and parses the scene description at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenefile: %w", err)
	}
	return Parse(data)
}

// NewScene creates a scene titled and scaled per the file and builds the
// file's nodes under its root. opts are applied after the file's own
// settings, so they win.
func (f *File) NewScene(logger *slog.Logger, opts ...arbor.Option) (*arbor.Scene, error) {
	base := []arbor.Option{arbor.WithTitle(f.Title), arbor.WithLogger(logger)}
	if f.ScaleFactor > 0 {
		base = append(base, arbor.WithScaleFactor(f.ScaleFactor))
	}
	s := arbor.NewScene(append(base, opts...)...)
	if err := f.Build(s.Root(), logger); err != nil {
		return nil, err
	}
	return s, nil
}

// Build appends the file's nodes to parent. Unknown node types abort the
// build; unresolved attributes are logged and skipped.
func (f *File) Build(parent *arbor.Node, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	for i := range f.Nodes {
		n, err := f.Nodes[i].build(logger)
		if err != nil {
			return err
		}
		parent.AddChild(n)
	}
	return nil
}

func (d *Node) build(logger *slog.Logger) (*arbor.Node, error) {
	var n *arbor.Node
	switch strings.ToLower(d.Type) {
	case "", "element", "rect":
		n = arbor.NewElement(d.Name)
	case "text":
		n = arbor.NewText(d.Text)
		if d.Name != "" {
			n.Name = d.Name
		}
	case "label":
		n = arbor.NewLabel(d.Name, d.Text)
	case "image":
		n = arbor.NewImage(d.Name)
	default:
		return nil, fmt.Errorf("%w: %q on %q", ErrUnknownType, d.Type, d.Name)
	}

	n.SetPosition(d.X, d.Y)
	n.SetSize(d.Width, d.Height)
	n.Layer = d.Layer
	if d.Z != 0 {
		n.SetZIndex(d.Z)
	}
	n.Interactable = d.Interactable == nil || *d.Interactable
	if d.Visible != nil {
		n.Visible = *d.Visible
	}
	if len(d.Attrs) > 0 {
		// Unresolved attributes are already logged by ApplyAttributes and the
		// node keeps its defaults.
		_ = arbor.ApplyAttributes(n, d.Attrs, logger)
	}

	for i := range d.Children {
		child, err := d.Children[i].build(logger)
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}

// Find returns the first node named name in a depth-first walk under root.
func Find(root *arbor.Node, name string) *arbor.Node {
	if root == nil {
		return nil
	}
	if root.Name == name {
		return root
	}
	for _, c := range root.Children() {
		if n := Find(c, name); n != nil {
			return n
		}
	}
	return nil
}

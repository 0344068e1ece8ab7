package document

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/layout"
)

// =============================================================================
// Layout - Layout Output
// =============================================================================

// Layout is the serialized result of a layout run. It is what the CLI
// writes next to its input, what the server returns, and what the caches
// store. A Layout can seed a later run as its prior layout.
type Layout struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	Algorithm string    `json:"algorithm" bson:"algorithm"`
	Vertices  []Vertex  `json:"vertices" bson:"vertices"`
	Edges     []Edge    `json:"edges" bson:"edges"`
	Loops     int       `json:"loops,omitempty" bson:"loops,omitempty"` // Self-loop edges left undrawn
	CreatedAt time.Time `json:"created_at,omitzero" bson:"created_at,omitempty"`
}

// Vertex is a positioned vertex.
type Vertex struct {
	ID string  `json:"id" bson:"id"`
	X  float64 `json:"x" bson:"x"`
	Y  float64 `json:"y" bson:"y"`
}

// Edge is a drawn edge. Shape is a path code string such as "ML" or "MCC"
// and Points holds one control point per code.
type Edge struct {
	Source string       `json:"source" bson:"source"`
	Target string       `json:"target" bson:"target"`
	Shape  string       `json:"shape" bson:"shape"`
	Points [][2]float64 `json:"points" bson:"points"`
}

// FromGraphLayout converts a computed layout into its document form.
func FromGraphLayout(g *layout.GraphLayout[string]) *Layout {
	ids := g.VertexIDs()
	pos := g.Positions()
	doc := &Layout{
		Algorithm: g.Algorithm(),
		Vertices:  make([]Vertex, len(ids)),
		Edges:     make([]Edge, g.EdgeCount()),
		Loops:     g.Loops(),
	}
	for i, id := range ids {
		doc.Vertices[i] = Vertex{ID: id, X: pos[i].X, Y: pos[i].Y}
	}

	shapes := g.EdgeShapes()
	sources, targets := g.Sources(), g.Targets()
	for i := range doc.Edges {
		points := g.EdgePoints(i)
		pts := make([][2]float64, len(points))
		for j, p := range points {
			pts[j] = [2]float64{p.X, p.Y}
		}
		doc.Edges[i] = Edge{
			Source: ids[sources[i]],
			Target: ids[targets[i]],
			Shape:  shapes[i],
			Points: pts,
		}
	}
	return doc
}

// VertexIDs implements layout.VertexSource.
func (l *Layout) VertexIDs() []string {
	ids := make([]string, len(l.Vertices))
	for i, v := range l.Vertices {
		ids[i] = v.ID
	}
	return ids
}

// VertexCoordinates implements layout.VertexSource. Every vertex of a
// stored layout is known.
func (l *Layout) VertexCoordinates() layout.Coordinates {
	pos := make([]r2.Vec, len(l.Vertices))
	for i, v := range l.Vertices {
		pos[i] = r2.Vec{X: v.X, Y: v.Y}
	}
	return layout.KnownCoordinates(pos)
}

var _ layout.VertexSource[string] = (*Layout)(nil)

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l *Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout and checks that
// vertex IDs are unique and edges reference them.
func UnmarshalLayout(data []byte) (*Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	seen := make(map[string]bool, len(l.Vertices))
	for _, v := range l.Vertices {
		if seen[v.ID] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "layout lists vertex %q twice", v.ID)
		}
		seen[v.ID] = true
	}
	for i, e := range l.Edges {
		if !seen[e.Source] || !seen[e.Target] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "layout edge %d references an unknown vertex", i)
		}
	}
	return &l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l *Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}

// OutputPath returns the default layout path for a graph file:
// "graph.yaml" becomes "graph.layout.json".
func OutputPath(graphPath string) string {
	if _, err := FormatFromPath(graphPath); err == nil {
		graphPath = strings.TrimSuffix(graphPath, filepath.Ext(graphPath))
	}
	return graphPath + ".layout.json"
}

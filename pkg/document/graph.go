package document

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/layout"
)

// =============================================================================
// Graph - Layout Input
// =============================================================================

// Graph is the input document for a layout run.
//
// Edges are given either as pairs or as parallel sources/targets lists,
// never both. Vertices lists IDs that should be laid out even when no edge
// touches them. Coordinates pins vertices by ID; a null entry leaves the
// vertex unknown so the algorithm places it.
//
//	{
//	  "edges": [["a", "b"], ["b", "c"]],
//	  "vertices": ["d"],
//	  "coordinates": {"a": [0, 0], "b": null},
//	  "algorithm": {"name": "eades", "seed": 7, "curved": true}
//	}
type Graph struct {
	Edges       [][]string           `json:"edges,omitempty" yaml:"edges,omitempty" toml:"edges,omitempty"`
	Sources     []string             `json:"sources,omitempty" yaml:"sources,omitempty" toml:"sources,omitempty"`
	Targets     []string             `json:"targets,omitempty" yaml:"targets,omitempty" toml:"targets,omitempty"`
	Vertices    []string             `json:"vertices,omitempty" yaml:"vertices,omitempty" toml:"vertices,omitempty"`
	Coordinates map[string][]float64 `json:"coordinates,omitempty" yaml:"coordinates,omitempty" toml:"coordinates,omitempty"`
	Algorithm   *AlgorithmOptions    `json:"algorithm,omitempty" yaml:"algorithm,omitempty" toml:"algorithm,omitempty"`
}

// AlgorithmOptions overrides the configured layout for a single document.
// Zero values defer to the configuration.
type AlgorithmOptions struct {
	Name       string   `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Seed       *uint64  `json:"seed,omitempty" yaml:"seed,omitempty" toml:"seed,omitempty"`
	Iterations int      `json:"iterations,omitempty" yaml:"iterations,omitempty" toml:"iterations,omitempty"`
	Curved     bool     `json:"curved,omitempty" yaml:"curved,omitempty" toml:"curved,omitempty"`
	Curvature  *float64 `json:"curvature,omitempty" yaml:"curvature,omitempty" toml:"curvature,omitempty"`
}

// =============================================================================
// Decoding
// =============================================================================

// DecodeGraph reads a graph document in the given format and validates it.
func DecodeGraph(r io.Reader, format Format) (*Graph, error) {
	var g Graph
	var err error
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(&g)
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(&g)
		if err == io.EOF {
			err = nil
		}
	case FormatTOML:
		var md toml.MetaData
		md, err = toml.NewDecoder(r).Decode(&g)
		if err == nil {
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "decode toml: unknown key %q", undecoded[0].String())
			}
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", format)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &g, nil
}

// UnmarshalGraph decodes a graph document from bytes.
func UnmarshalGraph(data []byte, format Format) (*Graph, error) {
	return DecodeGraph(bytes.NewReader(data), format)
}

// ReadGraphFile reads a graph document, choosing the decoder by extension.
func ReadGraphFile(path string) (*Graph, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return DecodeGraph(f, format)
}

// =============================================================================
// Validation & Conversion
// =============================================================================

// Validate checks the document's shape. Errors carry INVALID_INPUT.
func (g *Graph) Validate() error {
	if len(g.Edges) > 0 && (len(g.Sources) > 0 || len(g.Targets) > 0) {
		return errors.New(errors.ErrCodeInvalidInput, "edges and sources/targets are mutually exclusive")
	}
	if len(g.Sources) != len(g.Targets) {
		return errors.New(errors.ErrCodeInvalidInput, "sources has %d entries, targets has %d", len(g.Sources), len(g.Targets))
	}
	for i, e := range g.Edges {
		if len(e) != 2 {
			return errors.New(errors.ErrCodeInvalidInput, "edge %d: expected [source, target], got %d values", i, len(e))
		}
	}
	for id, xy := range g.Coordinates {
		if xy == nil {
			continue
		}
		if len(xy) != 2 {
			return errors.New(errors.ErrCodeInvalidInput, "coordinates %q: expected [x, y], got %d values", id, len(xy))
		}
		if math.IsNaN(xy[0]) || math.IsInf(xy[0], 0) || math.IsNaN(xy[1]) || math.IsInf(xy[1], 0) {
			return errors.New(errors.ErrCodeInvalidInput, "coordinates %q: values must be finite", id)
		}
	}
	return nil
}

// Pairs returns the edges as (source, target) pairs regardless of which
// form the document used.
func (g *Graph) Pairs() [][2]string {
	if len(g.Edges) > 0 {
		pairs := make([][2]string, len(g.Edges))
		for i, e := range g.Edges {
			pairs[i] = [2]string{e[0], e[1]}
		}
		return pairs
	}
	pairs := make([][2]string, len(g.Sources))
	for i := range g.Sources {
		pairs[i] = [2]string{g.Sources[i], g.Targets[i]}
	}
	return pairs
}

// Request builds a coordinator request. Algorithm and Prior are left for
// the caller. Coordinates naming a vertex that is neither an edge endpoint
// nor listed in Vertices are rejected.
func (g *Graph) Request() (layout.Request[string], error) {
	pairs := g.Pairs()
	req := layout.Request[string]{Edges: pairs, ExtraIDs: g.Vertices}
	if len(g.Coordinates) == 0 {
		return req, nil
	}

	ids, _ := layout.Induce(pairs, g.Vertices)
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	coords := layout.NewCoordinates(len(ids))
	names := make([]string, 0, len(g.Coordinates))
	for id := range g.Coordinates {
		names = append(names, id)
	}
	sort.Strings(names)
	for _, id := range names {
		i, ok := index[id]
		if !ok {
			return layout.Request[string]{}, errors.New(errors.ErrCodeInvalidInput, "coordinates given for unknown vertex %q", id)
		}
		if xy := g.Coordinates[id]; xy != nil {
			coords.Set(i, r2.Vec{X: xy[0], Y: xy[1]})
		}
	}
	req.Coordinates = &coords
	return req, nil
}

// Canonical returns a deterministic JSON encoding used for cache keys.
func (g *Graph) Canonical() []byte {
	data, _ := json.Marshal(g)
	return data
}

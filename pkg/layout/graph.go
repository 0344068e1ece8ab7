package layout

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/observability"
)

// VertexSource is anything that can supply positions for named vertices,
// typically a previous layout being refined.
type VertexSource[ID cmp.Ordered] interface {
	VertexIDs() []ID
	VertexCoordinates() Coordinates
}

// Request describes one graph layout call.
//
// Edges are given either as Edges or as parallel Sources and Targets.
type Request[ID cmp.Ordered] struct {
	Edges   [][2]ID
	Sources []ID
	Targets []ID

	// ExtraIDs adds vertices that may not appear in any edge. They are
	// appended after the vertices induced from the edges.
	ExtraIDs []ID

	// Prior supplies positions for vertices it shares with this graph.
	Prior VertexSource[ID]

	// Coordinates supplies positions by vertex index. Only cells left
	// unknown after merging Prior are taken from it.
	Coordinates *Coordinates

	// Algorithm computes the layout. Nil means NewFruchtermanReingold().
	Algorithm Algorithm
}

// Graph computes a layout for the graph described by req.
//
// Vertex identifiers are the sorted unique values found in the edges,
// followed by any new ExtraIDs in the order given. Known positions are
// gathered from Prior first and then from Coordinates, the algorithm fills
// in the rest, and the result is checked so that no vertex is left without
// a position.
func Graph[ID cmp.Ordered](ctx context.Context, req Request[ID]) (*GraphLayout[ID], error) {
	pairs, err := normalizeEdges(req)
	if err != nil {
		return nil, err
	}
	ids, edges := Induce(pairs, req.ExtraIDs)

	coords := NewCoordinates(len(ids))
	if req.Prior != nil {
		if err := mergePrior(coords, ids, req.Prior); err != nil {
			return nil, err
		}
	}
	if req.Coordinates != nil {
		if err := coords.Fill(*req.Coordinates); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "explicit coordinates")
		}
	}

	alg := req.Algorithm
	if alg == nil {
		alg = NewFruchtermanReingold()
	}
	name := Name(alg)

	logger := log.FromContext(ctx)
	logger.Debug("graph layout", "algorithm", name, "vertices", len(ids), "edges", len(edges), "known", len(ids)-coords.UnknownCount())

	start := time.Now()
	observability.Layout().OnLayoutStart(ctx, name, len(ids), len(edges))
	res, err := alg.Layout(ctx, coords.Clone(), slices.Clone(edges))
	if err == nil {
		err = checkResult(res, len(ids), len(edges))
	}
	observability.Layout().OnLayoutComplete(ctx, name, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	logger.Debug("graph layout complete", "algorithm", name, "duration", time.Since(start).Round(time.Microsecond))

	offsets, _, _ := pathOffsets(res.Paths.Shapes)
	return &GraphLayout[ID]{
		ids:       ids,
		pos:       res.Coordinates.Positions(),
		edges:     edges,
		shapes:    slices.Clone(res.Paths.Shapes),
		points:    slices.Clone(res.Paths.Points),
		offsets:   offsets,
		loops:     res.Paths.Loops,
		algorithm: name,
	}, nil
}

func normalizeEdges[ID cmp.Ordered](req Request[ID]) ([][2]ID, error) {
	if req.Edges != nil {
		if req.Sources != nil || req.Targets != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "specify either edges or sources and targets, not both")
		}
		return req.Edges, nil
	}
	if err := errors.RequireLength("targets", len(req.Targets), len(req.Sources)); err != nil {
		return nil, err
	}
	pairs := make([][2]ID, len(req.Sources))
	for i := range req.Sources {
		pairs[i] = [2]ID{req.Sources[i], req.Targets[i]}
	}
	return pairs, nil
}

// Induce builds the canonical vertex list for a set of edges and rewrites
// the edges as indices into it. The list holds the sorted unique endpoint
// identifiers followed by those extra identifiers not already present, in
// their given order.
func Induce[ID cmp.Ordered](pairs [][2]ID, extra []ID) ([]ID, []Edge) {
	ids := make([]ID, 0, 2*len(pairs)+len(extra))
	for _, p := range pairs {
		ids = append(ids, p[0], p[1])
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	index := make(map[ID]int, len(ids)+len(extra))
	for i, id := range ids {
		index[id] = i
	}
	for _, id := range extra {
		if _, ok := index[id]; !ok {
			index[id] = len(ids)
			ids = append(ids, id)
		}
	}

	edges := make([]Edge, len(pairs))
	for i, p := range pairs {
		edges[i] = Edge{Source: index[p[0]], Target: index[p[1]]}
	}
	return ids, edges
}

func mergePrior[ID cmp.Ordered](coords Coordinates, ids []ID, prior VertexSource[ID]) error {
	priorIDs := prior.VertexIDs()
	priorCoords := prior.VertexCoordinates()
	if err := errors.RequireLength("prior coordinates", priorCoords.Len(), len(priorIDs)); err != nil {
		return err
	}

	index := make(map[ID]int, len(priorIDs))
	for i, id := range priorIDs {
		index[id] = i
	}
	for i, id := range ids {
		j, ok := index[id]
		if !ok {
			continue
		}
		if p, known := priorCoords.At(j); known {
			coords.Set(i, p)
		}
	}
	return nil
}

func checkResult(res Result, vertices, edges int) error {
	if n := res.Coordinates.Len(); n != vertices {
		return errors.New(errors.ErrCodeInternal, "layout returned %d vertex coordinates, want %d", n, vertices)
	}
	if n := res.Coordinates.UnknownCount(); n > 0 {
		return errors.New(errors.ErrCodeInternal, "layout returned unknown vertex coordinates for %d vertices", n)
	}
	for i, p := range res.Coordinates.pos {
		if err := errors.RequireFinite("vertex coordinates", p.X, p.Y); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "layout returned a non-finite position for vertex %d", i)
		}
	}
	if n := len(res.Paths.Shapes); n != edges {
		return errors.New(errors.ErrCodeInternal, "layout returned %d edge shapes, want %d", n, edges)
	}
	_, total, err := pathOffsets(res.Paths.Shapes)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "layout returned invalid edge shapes")
	}
	if total != len(res.Paths.Points) {
		return errors.New(errors.ErrCodeInternal,
			"edge shapes consume %d points but layout returned %d", total, len(res.Paths.Points))
	}
	return nil
}

// GraphLayout is a computed graph layout. It is immutable; accessors
// return copies.
type GraphLayout[ID cmp.Ordered] struct {
	ids       []ID
	pos       []r2.Vec
	edges     []Edge
	shapes    []string
	points    []r2.Vec
	offsets   []int
	loops     int
	algorithm string
}

// Algorithm returns the name of the algorithm that produced the layout.
func (g *GraphLayout[ID]) Algorithm() string { return g.algorithm }

// VertexCount returns the number of vertices.
func (g *GraphLayout[ID]) VertexCount() int { return len(g.ids) }

// VertexIDs returns the vertex identifiers in index order.
func (g *GraphLayout[ID]) VertexIDs() []ID { return slices.Clone(g.ids) }

// VertexCoordinates returns the vertex positions as a fully known table.
func (g *GraphLayout[ID]) VertexCoordinates() Coordinates { return KnownCoordinates(g.pos) }

// Positions returns the vertex positions in index order.
func (g *GraphLayout[ID]) Positions() []r2.Vec { return slices.Clone(g.pos) }

// EdgeCount returns the number of edges.
func (g *GraphLayout[ID]) EdgeCount() int { return len(g.edges) }

// Edges returns the edges as vertex index pairs.
func (g *GraphLayout[ID]) Edges() []Edge { return slices.Clone(g.edges) }

// Sources returns the source vertex index of every edge.
func (g *GraphLayout[ID]) Sources() []int {
	out := make([]int, len(g.edges))
	for i, e := range g.edges {
		out[i] = e.Source
	}
	return out
}

// Targets returns the target vertex index of every edge.
func (g *GraphLayout[ID]) Targets() []int {
	out := make([]int, len(g.edges))
	for i, e := range g.edges {
		out[i] = e.Target
	}
	return out
}

// EdgeShapes returns the shape codes of every edge.
func (g *GraphLayout[ID]) EdgeShapes() []string { return slices.Clone(g.shapes) }

// EdgePath returns the path points for all edges, in shape-code order.
func (g *GraphLayout[ID]) EdgePath() []r2.Vec { return slices.Clone(g.points) }

// EdgePoints returns the path points of edge i.
func (g *GraphLayout[ID]) EdgePoints(i int) []r2.Vec {
	end := len(g.points)
	if i+1 < len(g.offsets) {
		end = g.offsets[i+1]
	}
	return slices.Clone(g.points[g.offsets[i]:end])
}

// Loops returns the number of self-loop edges, which are not drawable.
func (g *GraphLayout[ID]) Loops() int { return g.loops }

// VertexMatrix returns the positions as a V×2 matrix, or nil when empty.
func (g *GraphLayout[ID]) VertexMatrix() *mat.Dense { return vecMatrix(g.pos) }

// EdgeCoordinateMatrix returns the edge path points as an N×2 matrix, or nil
// when there are none.
func (g *GraphLayout[ID]) EdgeCoordinateMatrix() *mat.Dense { return vecMatrix(g.points) }

func vecMatrix(v []r2.Vec) *mat.Dense {
	if len(v) == 0 {
		return nil
	}
	m := mat.NewDense(len(v), 2, nil)
	for i, p := range v {
		m.Set(i, 0, p.X)
		m.Set(i, 1, p.Y)
	}
	return m
}

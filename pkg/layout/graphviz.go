package layout

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/graphviz"
)

// GraphViz delegates vertex and edge layout to Graphviz.
//
// Supplied positions are ignored. Edges come back as cubic B-spline paths
// ("M" followed by one "C" per three control points). Vertices that Graphviz
// does not report stay unknown.
type GraphViz struct {
	Engine graphviz.Engine // nil means the dot executable on PATH
}

// Name implements the optional naming interface used by [Name].
func (*GraphViz) Name() string { return "graphviz" }

// Layout implements Algorithm.
func (a *GraphViz) Layout(ctx context.Context, coords Coordinates, edges []Edge) (Result, error) {
	if err := checkEdges(coords.Len(), edges); err != nil {
		return Result{}, err
	}
	engine := a.Engine
	if engine == nil {
		engine = &graphviz.Exec{}
	}

	pairs := make([][2]int, len(edges))
	for i, e := range edges {
		pairs[i] = [2]int{e.Source, e.Target}
	}
	out, err := engine.Plain(ctx, graphviz.DOT(coords.Len(), pairs))
	if len(out.Stderr) > 0 {
		log.FromContext(ctx).Warn("graphviz", "stderr", strings.TrimSpace(string(out.Stderr)))
	}
	if err != nil {
		return Result{}, err
	}

	plain, err := graphviz.ParsePlainBytes(out.Stdout)
	if err != nil {
		return Result{}, err
	}
	return fromPlain(plain, coords.Len(), edges)
}

// fromPlain maps plain records back onto vertex and edge indices. Edge records
// are grouped by tail in dot's output, so each is matched to an input edge by
// its endpoints; parallel edges are consumed in input order.
func fromPlain(p *graphviz.Plain, vertices int, edges []Edge) (Result, error) {
	coords := NewCoordinates(vertices)
	for _, n := range p.Nodes {
		v, err := plainVertex(n.Name, vertices)
		if err != nil {
			return Result{}, err
		}
		coords.Set(v, r2.Vec{X: n.X, Y: n.Y})
	}

	if len(p.Edges) != len(edges) {
		return Result{}, errors.New(errors.ErrCodeExternalProcess,
			"graphviz reported %d edges, want %d", len(p.Edges), len(edges))
	}
	pending := make(map[Edge][]int, len(edges))
	for i, e := range edges {
		pending[e] = append(pending[e], i)
	}

	records := make([]graphviz.PlainEdge, len(edges))
	for _, rec := range p.Edges {
		tail, err := plainVertex(rec.Tail, vertices)
		if err != nil {
			return Result{}, err
		}
		head, err := plainVertex(rec.Head, vertices)
		if err != nil {
			return Result{}, err
		}
		key := Edge{Source: tail, Target: head}
		queue := pending[key]
		if len(queue) == 0 {
			return Result{}, errors.New(errors.ErrCodeExternalProcess,
				"graphviz reported unexpected edge %s -> %s", rec.Tail, rec.Head)
		}
		records[queue[0]] = rec
		pending[key] = queue[1:]
	}

	paths := Paths{Shapes: make([]string, len(edges))}
	for i, rec := range records {
		paths.Shapes[i] = rec.Shape()
		for _, pt := range rec.Points {
			paths.Points = append(paths.Points, r2.Vec{X: pt[0], Y: pt[1]})
		}
	}
	return Result{Coordinates: coords, Paths: paths}, nil
}

func plainVertex(name string, vertices int) (int, error) {
	v, err := strconv.Atoi(name)
	if err != nil || v < 0 || v >= vertices {
		return 0, errors.New(errors.ErrCodeExternalProcess, "graphviz reported unknown node %q", name)
	}
	return v, nil
}

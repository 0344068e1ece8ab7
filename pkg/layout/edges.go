package layout

import (
	"context"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/stacklayout/pkg/errors"
)

// Shape codes. Each code consumes a fixed number of path points.
const (
	ShapeMove      = 'M' // 1 point
	ShapeLine      = 'L' // 1 point
	ShapeQuadratic = 'Q' // 2 points
	ShapeCubic     = 'C' // 3 points
)

// Edge is a directed pair of vertex indices.
type Edge struct {
	Source int
	Target int
}

// IsLoop reports whether the edge starts and ends at the same vertex.
func (e Edge) IsLoop() bool { return e.Source == e.Target }

// Paths holds the drawable geometry for a set of edges.
type Paths struct {
	// Shapes holds one string of shape codes per edge.
	Shapes []string
	// Points holds the path points for all edges, consumed in shape-code order.
	Points []r2.Vec
	// Loops counts self-loop edges, which are left as zero-length paths.
	Loops int
}

// EdgeShaper computes edge paths from final vertex positions.
type EdgeShaper interface {
	Shape(ctx context.Context, pos []r2.Vec, edges []Edge) (Paths, error)
}

// StraightEdges draws each edge as a single line segment.
type StraightEdges struct{}

// Shape implements EdgeShaper.
func (StraightEdges) Shape(ctx context.Context, pos []r2.Vec, edges []Edge) (Paths, error) {
	if err := checkEdges(len(pos), edges); err != nil {
		return Paths{}, err
	}

	p := Paths{
		Shapes: make([]string, len(edges)),
		Points: make([]r2.Vec, 0, 2*len(edges)),
		Loops:  warnLoops(ctx, edges),
	}
	for i, e := range edges {
		p.Shapes[i] = "ML"
		p.Points = append(p.Points, pos[e.Source], pos[e.Target])
	}
	return p, nil
}

// DefaultCurvature is the curvature used by NewCurvedEdges.
const DefaultCurvature = 0.15

// CurvedEdges draws each edge as a quadratic curve bending to the left of
// the source to target direction. Curvature scales the control point offset
// relative to the edge length.
type CurvedEdges struct {
	Curvature float64
}

// NewCurvedEdges returns a CurvedEdges with DefaultCurvature.
func NewCurvedEdges() CurvedEdges { return CurvedEdges{Curvature: DefaultCurvature} }

// Shape implements EdgeShaper.
func (c CurvedEdges) Shape(ctx context.Context, pos []r2.Vec, edges []Edge) (Paths, error) {
	if err := checkEdges(len(pos), edges); err != nil {
		return Paths{}, err
	}

	p := Paths{
		Shapes: make([]string, len(edges)),
		Points: make([]r2.Vec, 0, 3*len(edges)),
		Loops:  warnLoops(ctx, edges),
	}
	for i, e := range edges {
		s, t := pos[e.Source], pos[e.Target]
		d := r2.Sub(t, s)
		offset := r2.Scale(c.Curvature, r2.Vec{X: -d.Y, Y: d.X})
		mid := r2.Add(r2.Scale(0.5, r2.Add(s, t)), offset)

		p.Shapes[i] = "MQ"
		p.Points = append(p.Points, s, mid, t)
	}
	return p, nil
}

func warnLoops(ctx context.Context, edges []Edge) int {
	loops := 0
	for _, e := range edges {
		if e.IsLoop() {
			loops++
		}
	}
	if loops > 0 {
		log.FromContext(ctx).Warn("graph contains loop edges that will not be displayed", "loops", loops)
	}
	return loops
}

func checkEdges(vertices int, edges []Edge) error {
	for i, e := range edges {
		if e.Source < 0 || e.Source >= vertices || e.Target < 0 || e.Target >= vertices {
			return errors.New(errors.ErrCodeInvalidInput,
				"edge %d (%d -> %d) references a vertex outside [0, %d)", i, e.Source, e.Target, vertices)
		}
	}
	return nil
}

// pointsPerCode returns how many path points a shape code consumes.
func pointsPerCode(code rune) (int, bool) {
	switch code {
	case ShapeMove, ShapeLine:
		return 1, true
	case ShapeQuadratic:
		return 2, true
	case ShapeCubic:
		return 3, true
	}
	return 0, false
}

// pathOffsets returns, for each shape, the index of its first point in a
// flat point list, plus the total number of points the shapes consume.
func pathOffsets(shapes []string) ([]int, int, error) {
	offsets := make([]int, len(shapes))
	total := 0
	for i, s := range shapes {
		offsets[i] = total
		for _, code := range s {
			n, ok := pointsPerCode(code)
			if !ok {
				return nil, 0, errors.New(errors.ErrCodeInvalidInput, "edge %d: unknown shape code %q", i, code)
			}
			total += n
		}
	}
	return offsets, total, nil
}

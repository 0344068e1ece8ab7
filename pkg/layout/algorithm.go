package layout

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// Algorithm computes vertex positions and edge paths.
//
// Implementations receive a table that may mix known and unknown cells and
// must return a table of the same length with every cell known. Known input
// cells must come back unchanged unless the algorithm documents that it
// ignores supplied positions.
type Algorithm interface {
	Layout(ctx context.Context, coords Coordinates, edges []Edge) (Result, error)
}

// Result is the output of an Algorithm.
type Result struct {
	Coordinates Coordinates
	Paths       Paths
}

// Name returns a short name for a, used in logs and documents.
func Name(a Algorithm) string {
	if n, ok := a.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", a)
}

// Random places unknown vertices uniformly at random in [-1, 1] x [-1, 1].
type Random struct {
	Seed  uint64
	Edges EdgeShaper // nil means StraightEdges
}

// NewRandom returns a Random layout with DefaultSeed.
func NewRandom() *Random { return &Random{Seed: DefaultSeed} }

// Name implements the optional naming interface used by [Name].
func (*Random) Name() string { return "random" }

// Layout implements Algorithm.
func (a *Random) Layout(ctx context.Context, coords Coordinates, edges []Edge) (Result, error) {
	pos, _ := materialize(coords, newRand(a.Seed))
	return finish(ctx, a.Edges, pos, edges)
}

// finish shapes the edges and packages pos as a fully known result.
func finish(ctx context.Context, shaper EdgeShaper, pos []r2.Vec, edges []Edge) (Result, error) {
	if shaper == nil {
		shaper = StraightEdges{}
	}
	paths, err := shaper.Shape(ctx, pos, edges)
	if err != nil {
		return Result{}, err
	}
	return Result{Coordinates: KnownCoordinates(pos), Paths: paths}, nil
}

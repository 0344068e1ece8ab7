package layout

import (
	"context"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Eades is the spring embedder of Eades (1984).
//
// Every vertex pair repels with force C3/d². Every edge pulls its endpoints
// together with force C1·ln(d/C2). Net forces are scaled by C4 and applied
// for Iterations rounds. Only vertices that were unknown on input move.
type Eades struct {
	C1, C2, C3, C4 float64
	Iterations     int
	Seed           uint64
	Edges          EdgeShaper // nil means StraightEdges
}

// NewEades returns an Eades layout with the constants from the paper.
func NewEades() *Eades {
	return &Eades{C1: 2, C2: 1, C3: 1, C4: 0.1, Iterations: 100, Seed: DefaultSeed}
}

// Name implements the optional naming interface used by [Name].
func (*Eades) Name() string { return "eades" }

// Layout implements Algorithm.
func (a *Eades) Layout(ctx context.Context, coords Coordinates, edges []Edge) (Result, error) {
	if err := checkEdges(coords.Len(), edges); err != nil {
		return Result{}, err
	}
	pos, free := materialize(coords, newRand(a.Seed))
	offsets := make([]r2.Vec, len(pos))

	for range a.Iterations {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		clear(offsets)

		for i := range pos {
			for j := i + 1; j < len(pos); j++ {
				delta, d := separation(pos[i], pos[j])
				if d == 0 {
					continue
				}
				f := r2.Scale(a.C3/(d*d), delta)
				offsets[i] = r2.Add(offsets[i], f)
				offsets[j] = r2.Sub(offsets[j], f)
			}
		}

		for _, e := range edges {
			delta, d := separation(pos[e.Target], pos[e.Source])
			if d == 0 {
				continue
			}
			f := r2.Scale(a.C1*math.Log(d/a.C2), delta)
			offsets[e.Source] = r2.Add(offsets[e.Source], f)
			offsets[e.Target] = r2.Sub(offsets[e.Target], f)
		}

		for i := range pos {
			if free[i] {
				pos[i] = r2.Add(pos[i], r2.Scale(a.C4, offsets[i]))
			}
		}
	}

	return finish(ctx, a.Edges, pos, edges)
}

// separation returns the unit vector pointing from b to a and the distance
// between them. The vector is zero when the points coincide.
func separation(a, b r2.Vec) (r2.Vec, float64) {
	delta := r2.Sub(a, b)
	d := r2.Norm(delta)
	if d == 0 {
		return r2.Vec{}, 0
	}
	return r2.Scale(1/d, delta), d
}

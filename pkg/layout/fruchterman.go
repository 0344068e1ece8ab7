package layout

import (
	"context"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/stacklayout/pkg/errors"
)

// FruchtermanReingold is the force-directed layout of Fruchterman and
// Reingold (1991) with a linear cooling schedule.
//
// With k = sqrt(Area/V), vertex pairs repel with force k²/d and edges
// attract with force d²/k. Each round the net displacement of a vertex is
// rescaled so its length never exceeds the current temperature. The
// temperature starts at Temperature and falls linearly towards zero over
// Iterations rounds; zero itself is never reached. Only vertices that were
// unknown on input move.
type FruchtermanReingold struct {
	Area        float64
	Temperature float64
	Iterations  int
	Seed        uint64
	Edges       EdgeShaper // nil means StraightEdges

	// Trace, when set, is called after each round with the round number,
	// its temperature and the displacement applied to every vertex.
	Trace func(iteration int, temperature float64, displacement []r2.Vec)
}

// NewFruchtermanReingold returns a layout with the constants used by default.
func NewFruchtermanReingold() *FruchtermanReingold {
	return &FruchtermanReingold{Area: 1, Temperature: 0.1, Iterations: 50, Seed: DefaultSeed}
}

// Name implements the optional naming interface used by [Name].
func (*FruchtermanReingold) Name() string { return "fruchterman-reingold" }

// Layout implements Algorithm.
func (a *FruchtermanReingold) Layout(ctx context.Context, coords Coordinates, edges []Edge) (Result, error) {
	if err := checkEdges(coords.Len(), edges); err != nil {
		return Result{}, err
	}
	pos, free := materialize(coords, newRand(a.Seed))
	if len(pos) == 0 {
		return finish(ctx, a.Edges, pos, edges)
	}
	if err := errors.RequirePositive("area", a.Area); err != nil {
		return Result{}, err
	}

	k := math.Sqrt(a.Area / float64(len(pos)))
	offsets := make([]r2.Vec, len(pos))

	for iter, t := range temperatures(a.Temperature, a.Iterations) {
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
				f := r2.Scale(k*k/d, delta)
				offsets[i] = r2.Add(offsets[i], f)
				offsets[j] = r2.Sub(offsets[j], f)
			}
		}

		for _, e := range edges {
			delta, d := separation(pos[e.Target], pos[e.Source])
			if d == 0 {
				continue
			}
			f := r2.Scale(d*d/k, delta)
			offsets[e.Source] = r2.Add(offsets[e.Source], f)
			offsets[e.Target] = r2.Sub(offsets[e.Target], f)
		}

		for i := range offsets {
			if !free[i] {
				offsets[i] = r2.Vec{}
				continue
			}
			offsets[i] = limit(offsets[i], t)
			pos[i] = r2.Add(pos[i], offsets[i])
		}

		if a.Trace != nil {
			a.Trace(iter, t, offsets)
		}
	}

	return finish(ctx, a.Edges, pos, edges)
}

// temperatures returns n values falling linearly from start towards zero,
// excluding zero itself.
func temperatures(start float64, n int) []float64 {
	out := make([]float64, max(n, 0))
	for i := range out {
		out[i] = start - start*float64(i)/float64(n)
	}
	return out
}

// limit rescales v to length min(|v|, t), preserving its direction.
func limit(v r2.Vec, t float64) r2.Vec {
	n := r2.Norm(v)
	if n == 0 {
		return v
	}
	return r2.Scale(math.Min(t, n)/n, v)
}

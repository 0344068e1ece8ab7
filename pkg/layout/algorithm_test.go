package layout

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/stacklayout/pkg/errors"
)

// pathGraph returns n vertices chained 0 -> 1 -> ... -> n-1.
func pathGraph(n int) []Edge {
	edges := make([]Edge, 0, n)
	for i := 0; i+1 < n; i++ {
		edges = append(edges, Edge{i, i + 1})
	}
	return edges
}

func TestAlgorithmsReturnCompleteCoordinates(t *testing.T) {
	algorithms := map[string]Algorithm{
		"random":   NewRandom(),
		"eades":    NewEades(),
		"fr":       NewFruchtermanReingold(),
		"buchheim": NewBuchheim(),
	}
	graphs := map[string]struct {
		vertices int
		edges    []Edge
	}{
		"single": {1, nil},
		"path":   {6, pathGraph(6)},
		"star":   {5, []Edge{{0, 1}, {0, 2}, {0, 3}, {0, 4}}},
	}

	for an, alg := range algorithms {
		for gn, g := range graphs {
			t.Run(an+"/"+gn, func(t *testing.T) {
				res, err := alg.Layout(context.Background(), NewCoordinates(g.vertices), g.edges)
				require.NoError(t, err)
				require.Equal(t, g.vertices, res.Coordinates.Len())
				require.True(t, res.Coordinates.Complete())
				for _, p := range res.Coordinates.Positions() {
					require.False(t, math.IsNaN(p.X) || math.IsNaN(p.Y))
				}
				require.Len(t, res.Paths.Shapes, len(g.edges))
			})
		}
	}
}

func TestAlgorithmsKeepKnownVertices(t *testing.T) {
	fixed := map[int]r2.Vec{0: {X: 10, Y: -3}, 3: {X: 0.25, Y: 0.125}}

	for name, alg := range map[string]Algorithm{
		"random": NewRandom(),
		"eades":  NewEades(),
		"fr":     NewFruchtermanReingold(),
	} {
		t.Run(name, func(t *testing.T) {
			c := NewCoordinates(5)
			for i, p := range fixed {
				c.Set(i, p)
			}
			res, err := alg.Layout(context.Background(), c, pathGraph(5))
			require.NoError(t, err)
			for i, p := range fixed {
				got, ok := res.Coordinates.At(i)
				require.True(t, ok)
				require.Equal(t, math.Float64bits(p.X), math.Float64bits(got.X))
				require.Equal(t, math.Float64bits(p.Y), math.Float64bits(got.Y))
			}
		})
	}
}

func TestAlgorithmsAreReproducible(t *testing.T) {
	for name, mk := range map[string]func() Algorithm{
		"random": func() Algorithm { return NewRandom() },
		"eades":  func() Algorithm { return NewEades() },
		"fr":     func() Algorithm { return NewFruchtermanReingold() },
	} {
		t.Run(name, func(t *testing.T) {
			a, err := mk().Layout(context.Background(), NewCoordinates(8), pathGraph(8))
			require.NoError(t, err)
			b, err := mk().Layout(context.Background(), NewCoordinates(8), pathGraph(8))
			require.NoError(t, err)
			require.Equal(t, a.Coordinates.Positions(), b.Coordinates.Positions())
		})
	}

	a, _ := (&Random{Seed: 1}).Layout(context.Background(), NewCoordinates(4), nil)
	b, _ := (&Random{Seed: 2}).Layout(context.Background(), NewCoordinates(4), nil)
	require.NotEqual(t, a.Coordinates.Positions(), b.Coordinates.Positions())
}

func TestRandomUsesEdgeShaper(t *testing.T) {
	alg := &Random{Seed: DefaultSeed, Edges: NewCurvedEdges()}
	res, err := alg.Layout(context.Background(), NewCoordinates(2), []Edge{{0, 1}})
	require.NoError(t, err)
	require.Equal(t, []string{"MQ"}, res.Paths.Shapes)
}

func TestFruchtermanReingoldTemperatureClamp(t *testing.T) {
	var rounds int
	alg := NewFruchtermanReingold()
	alg.Iterations = 30
	alg.Temperature = 0.3
	alg.Trace = func(iter int, temp float64, disp []r2.Vec) {
		require.Equal(t, rounds, iter)
		rounds++
		for i, d := range disp {
			require.LessOrEqual(t, r2.Norm(d), temp+1e-12, "round %d vertex %d", iter, i)
		}
	}

	edges := []Edge{{0, 1}, {1, 2}, {2, 0}, {2, 3}, {3, 4}, {4, 5}, {5, 3}}
	_, err := alg.Layout(context.Background(), NewCoordinates(6), edges)
	require.NoError(t, err)
	require.Equal(t, 30, rounds)
}

func TestTemperatures(t *testing.T) {
	got := temperatures(0.1, 4)
	require.Len(t, got, 4)
	for i, want := range []float64{0.1, 0.075, 0.05, 0.025} {
		require.InDelta(t, want, got[i], 1e-15)
	}
	require.Empty(t, temperatures(1, 0))
}

func TestLimitPreservesDirection(t *testing.T) {
	v := limit(r2.Vec{X: 3, Y: 4}, 1)
	require.InDelta(t, 0.6, v.X, 1e-12)
	require.InDelta(t, 0.8, v.Y, 1e-12)

	require.Equal(t, r2.Vec{X: 0.1, Y: 0}, limit(r2.Vec{X: 0.1}, 1))
	require.Equal(t, r2.Vec{}, limit(r2.Vec{}, 1))
}

func TestForceLayoutsHandleCoincidentVertices(t *testing.T) {
	c := NewCoordinates(3)
	c.Set(0, r2.Vec{X: 1, Y: 1})
	c.Set(1, r2.Vec{X: 1, Y: 1})

	for name, alg := range map[string]Algorithm{"eades": NewEades(), "fr": NewFruchtermanReingold()} {
		t.Run(name, func(t *testing.T) {
			res, err := alg.Layout(context.Background(), c.Clone(), []Edge{{0, 1}, {1, 2}, {2, 2}})
			require.NoError(t, err)
			for _, p := range res.Coordinates.Positions() {
				require.False(t, math.IsNaN(p.X) || math.IsNaN(p.Y))
			}
		})
	}
}

func TestEadesSeparatesVertices(t *testing.T) {
	c := NewCoordinates(2)
	c.Set(0, r2.Vec{})
	res, err := NewEades().Layout(context.Background(), c, nil)
	require.NoError(t, err)

	// Without edges only repulsion acts, so vertex 1 drifts away from 0.
	start, _ := materialize(c, newRand(DefaultSeed))
	p, _ := res.Coordinates.At(1)
	require.Greater(t, r2.Norm(p), r2.Norm(start[1]))
}

func TestFruchtermanReingoldRejectsBadArea(t *testing.T) {
	alg := NewFruchtermanReingold()
	alg.Area = 0
	_, err := alg.Layout(context.Background(), NewCoordinates(2), nil)
	require.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestLayoutHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for name, alg := range map[string]Algorithm{"eades": NewEades(), "fr": NewFruchtermanReingold()} {
		t.Run(name, func(t *testing.T) {
			_, err := alg.Layout(ctx, NewCoordinates(3), pathGraph(3))
			require.ErrorIs(t, err, context.Canceled)
		})
	}
}

func TestName(t *testing.T) {
	require.Equal(t, "fruchterman-reingold", Name(NewFruchtermanReingold()))
	require.Equal(t, "graphviz", Name(&GraphViz{}))
	require.Equal(t, "layout.stubAlgorithm", Name(stubAlgorithm{}))
}

type stubAlgorithm struct {
	result Result
	err    error
}

func (s stubAlgorithm) Layout(context.Context, Coordinates, []Edge) (Result, error) {
	return s.result, s.err
}

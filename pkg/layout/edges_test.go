package layout

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/stacklayout/pkg/errors"
)

func captureLogs() (context.Context, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	return log.WithContext(context.Background(), logger), &buf
}

func TestStraightEdgesLoop(t *testing.T) {
	ctx, logs := captureLogs()
	pos := []r2.Vec{{X: 3, Y: 4}}

	p, err := StraightEdges{}.Shape(ctx, pos, []Edge{{0, 0}})
	require.NoError(t, err)
	require.Equal(t, 1, p.Loops)
	require.Equal(t, []string{"ML"}, p.Shapes)
	require.Len(t, p.Points, 2)
	require.Equal(t, p.Points[0], p.Points[1], "loop path must have zero length")
	require.Equal(t, 1, strings.Count(logs.String(), "loop edges"))
	require.Contains(t, logs.String(), "loops=1")
}

func TestStraightEdges(t *testing.T) {
	ctx, logs := captureLogs()
	pos := []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 2}, {X: -1, Y: 5}}

	p, err := StraightEdges{}.Shape(ctx, pos, []Edge{{0, 1}, {2, 0}})
	require.NoError(t, err)
	require.Zero(t, p.Loops)
	require.Empty(t, logs.String())
	require.Equal(t, []string{"ML", "ML"}, p.Shapes)
	require.Equal(t, []r2.Vec{pos[0], pos[1], pos[2], pos[0]}, p.Points)
}

func TestCurvedEdges(t *testing.T) {
	ctx := context.Background()
	pos := []r2.Vec{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 1, Y: 1}}

	p, err := NewCurvedEdges().Shape(ctx, pos, []Edge{{0, 1}, {2, 0}})
	require.NoError(t, err)
	require.Equal(t, []string{"MQ", "MQ"}, p.Shapes)
	require.Len(t, p.Points, 6)

	// (0,0) -> (4,0): midpoint (2,0) offset by rot90((4,0)) * 0.15 = (0, 0.6).
	require.Equal(t, pos[0], p.Points[0])
	require.InDelta(t, 2, p.Points[1].X, 1e-12)
	require.InDelta(t, 0.6, p.Points[1].Y, 1e-12)
	require.Equal(t, pos[1], p.Points[2])

	for i := 0; i < len(p.Points); i += 3 {
		s, m, e := p.Points[i], p.Points[i+1], p.Points[i+2]
		cross := r2.Cross(r2.Sub(e, s), r2.Sub(m, s))
		require.NotZero(t, cross, "middle point of edge %d lies on the chord", i/3)
	}
}

func TestCurvedEdgesZeroCurvature(t *testing.T) {
	pos := []r2.Vec{{X: 0, Y: 0}, {X: 2, Y: 2}}
	p, err := CurvedEdges{}.Shape(context.Background(), pos, []Edge{{0, 1}})
	require.NoError(t, err)
	require.Equal(t, r2.Vec{X: 1, Y: 1}, p.Points[1])
}

func TestCurvedEdgesLoop(t *testing.T) {
	ctx, logs := captureLogs()
	p, err := NewCurvedEdges().Shape(ctx, []r2.Vec{{X: 1, Y: 1}}, []Edge{{0, 0}, {0, 0}})
	require.NoError(t, err)
	require.Equal(t, 2, p.Loops)
	require.Contains(t, logs.String(), "loops=2")
}

func TestShapeRejectsOutOfRangeEdges(t *testing.T) {
	_, err := StraightEdges{}.Shape(context.Background(), []r2.Vec{{}}, []Edge{{0, 1}})
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestPathOffsets(t *testing.T) {
	offsets, total, err := pathOffsets([]string{"ML", "MQ", "MCC", ""})
	require.NoError(t, err)
	require.Equal(t, []int{0, 2, 5, 12}, offsets)
	require.Equal(t, 12, total)

	_, _, err = pathOffsets([]string{"MZ"})
	require.Error(t, err)
}

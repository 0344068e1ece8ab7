package region

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/units"
)

var parent = Rect{XMin: 100, XMax: 700, YMin: 50, YMax: 450}

func gutter(v float64) *units.Length {
	l := units.Px(v)
	return &l
}

func TestResolveBounds(t *testing.T) {
	tests := []struct {
		name   string
		bounds []units.Length
	}{
		{"pixels", []units.Length{units.Px(10), units.Px(200), units.Px(5), units.Px(100)}},
		{"negative wraps", []units.Length{units.Px(10), units.Px(-10), units.Px(20), units.Px(-20)}},
		{"percent", []units.Length{units.Percent(10), units.Percent(90), units.Percent(25), units.Percent(75)}},
		{"negative percent", []units.Length{units.Percent(-50), units.Percent(-1), units.Percent(0), units.Percent(-25)}},
		{"mixed", []units.Length{units.MustParse("1in"), units.Px(-0.5), units.Percent(10), units.MustParse("-72pt")}},
	}

	direct := func(min, max float64, l units.Length) float64 {
		v, err := units.Default.Convert(l, max-min)
		require.NoError(t, err)
		if v < 0 {
			return max + v
		}
		return min + v
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(parent, Spec{Bounds: tt.bounds})
			require.NoError(t, err)
			want := Rect{
				XMin: direct(parent.XMin, parent.XMax, tt.bounds[0]),
				XMax: direct(parent.XMin, parent.XMax, tt.bounds[1]),
				YMin: direct(parent.YMin, parent.YMax, tt.bounds[2]),
				YMax: direct(parent.YMin, parent.YMax, tt.bounds[3]),
			}
			require.Equal(t, want, got)
		})
	}
}

func TestResolveRect(t *testing.T) {
	got, err := Resolve(parent, Spec{Rect: []units.Length{
		units.Px(-110), units.Percent(25), units.Px(100), units.Percent(50),
	}})
	require.NoError(t, err)
	require.Equal(t, Rect{XMin: 590, XMax: 690, YMin: 150, YMax: 350}, got)
}

func TestResolveCorner(t *testing.T) {
	p := Rect{XMin: 0, XMax: 600, YMin: 0, YMax: 400}
	tests := []struct {
		pos  string
		want Rect
	}{
		{Top, Rect{250, 350, 10, 60}},
		{TopRight, Rect{490, 590, 10, 60}},
		{Right, Rect{490, 590, 175, 225}},
		{BottomRight, Rect{490, 590, 340, 390}},
		{Bottom, Rect{250, 350, 340, 390}},
		{BottomLeft, Rect{10, 110, 340, 390}},
		{Left, Rect{10, 110, 175, 225}},
		{TopLeft, Rect{10, 110, 10, 60}},
	}

	for _, tt := range tests {
		t.Run(tt.pos, func(t *testing.T) {
			got, err := Resolve(p, Spec{Corner: &Corner{
				Position: tt.pos,
				Inset:    units.Px(10),
				Width:    units.Px(100),
				Height:   units.Percent(12.5),
			}})
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestResolveGridTiles(t *testing.T) {
	for _, dims := range [][2]int{{1, 1}, {2, 3}, {4, 4}, {3, 7}} {
		m, n := dims[0], dims[1]
		t.Run(fmt.Sprintf("%dx%d", m, n), func(t *testing.T) {
			var area float64
			cells := make([]Rect, 0, m*n)
			for c := 0; c < m*n; c++ {
				r, err := Resolve(parent, Spec{Grid: []int{m, n, c}, Gutter: gutter(0)})
				require.NoError(t, err)
				require.GreaterOrEqual(t, r.XMin, parent.XMin-1e-9)
				require.LessOrEqual(t, r.XMax, parent.XMax+1e-9)
				require.GreaterOrEqual(t, r.YMin, parent.YMin-1e-9)
				require.LessOrEqual(t, r.YMax, parent.YMax+1e-9)
				area += r.Width() * r.Height()
				cells = append(cells, r)
			}
			require.InDelta(t, parent.Width()*parent.Height(), area, 1e-6)

			// Disjoint interiors plus full area means an exact tiling.
			for i := range cells {
				for j := i + 1; j < len(cells); j++ {
					a, b := cells[i], cells[j]
					ox := min(a.XMax, b.XMax) - max(a.XMin, b.XMin)
					oy := min(a.YMax, b.YMax) - max(a.YMin, b.YMin)
					require.False(t, ox > 1e-9 && oy > 1e-9, "cells %d and %d overlap", i, j)
				}
			}
		})
	}
}

func TestResolveGridAddressing(t *testing.T) {
	p := Rect{XMin: 0, XMax: 300, YMin: 0, YMax: 200}

	byIndex, err := Resolve(p, Spec{Grid: []int{2, 3, 4}, Gutter: gutter(5)})
	require.NoError(t, err)
	byCell, err := Resolve(p, Spec{Grid: []int{2, 3, 1, 1}, Gutter: gutter(5)})
	require.NoError(t, err)
	require.Equal(t, byIndex, byCell)
	require.Equal(t, Rect{105, 195, 105, 195}, byCell)

	span, err := Resolve(p, Spec{Grid: []int{2, 3, 0, 2, 1, 2}, Gutter: gutter(5)})
	require.NoError(t, err)
	require.Equal(t, Rect{105, 295, 5, 195}, span)
}

func TestResolveDefaultGutter(t *testing.T) {
	got, err := Resolve(parent, Spec{})
	require.NoError(t, err)
	require.Equal(t, Rect{140, 660, 90, 410}, got)

	got, err = Resolve(parent, Spec{Gutter: gutter(0)})
	require.NoError(t, err)
	require.Equal(t, parent, got)
}

func TestResolvePrecedence(t *testing.T) {
	got, err := Resolve(parent, Spec{
		Bounds: []units.Length{units.Px(0), units.Px(10), units.Px(0), units.Px(10)},
		Rect:   []units.Length{units.Px(50), units.Px(50), units.Px(1), units.Px(1)},
		Grid:   []int{1, 1, 0},
	})
	require.NoError(t, err)
	require.Equal(t, Rect{100, 110, 50, 60}, got)
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
	}{
		{"short bounds", Spec{Bounds: []units.Length{units.Px(1), units.Px(2)}}},
		{"long rect", Spec{Rect: make([]units.Length, 5)}},
		{"bad corner", Spec{Corner: &Corner{Position: "middle"}}},
		{"grid length", Spec{Grid: []int{2, 2}}},
		{"grid zero rows", Spec{Grid: []int{0, 2, 0}}},
		{"grid index", Spec{Grid: []int{2, 2, 4}}},
		{"grid negative index", Spec{Grid: []int{2, 2, -1}}},
		{"grid span", Spec{Grid: []int{2, 2, 1, 2, 0, 1}}},
		{"percent inset", Spec{Corner: &Corner{Position: Top, Inset: units.Percent(5)}}},
		{"percent gutter", Spec{Gutter: func() *units.Length { l := units.Percent(5); return &l }()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(parent, tt.spec)
			require.Error(t, err)
			require.True(t, errors.Is(err, errors.ErrCodeInvalidRegion), "code = %s", errors.GetCode(err))
		})
	}
}

func TestResolveConverter(t *testing.T) {
	half := units.ConverterFunc(func(l units.Length, _ float64) (float64, error) { return l.Value / 2, nil })
	got, err := Resolve(parent, Spec{
		Bounds:    []units.Length{units.Px(20), units.Px(-20), units.Px(20), units.Px(-20)},
		Converter: half,
	})
	require.NoError(t, err)
	require.Equal(t, Rect{110, 690, 60, 440}, got)
}

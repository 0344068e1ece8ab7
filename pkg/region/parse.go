package region

import (
	"strconv"
	"strings"

	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/units"
)

var corners = []string{Top, TopRight, Right, BottomRight, Bottom, BottomLeft, Left, TopLeft}

// ParseRect parses "xmin,xmax,ymin,ymax" in pixels.
func ParseRect(s string) (Rect, error) {
	parts := splitList(s)
	if err := errors.RequireLength("rect", len(parts), 4); err != nil {
		return Rect{}, err
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return Rect{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "rect value %q", p)
		}
		v[i] = f
	}
	if err := errors.RequireFinite("rect", v[:]...); err != nil {
		return Rect{}, err
	}
	return Rect{XMin: v[0], XMax: v[1], YMin: v[2], YMax: v[3]}, nil
}

// ParseLengths parses a comma separated list of dimensions, as used for
// bounds ("10,-10,10%,-10%") and rect ("0,0,50%,50%") placements.
func ParseLengths(s string) ([]units.Length, error) {
	parts := splitList(s)
	out := make([]units.Length, 0, len(parts))
	for _, p := range parts {
		l, err := units.Parse(p)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// ParseCorner parses "position:inset:width:height", for example
// "top-right:10:30%:40px".
func ParseCorner(s string) (*Corner, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 4 {
		return nil, errors.New(errors.ErrCodeInvalidRegion,
			"corner must be position:inset:width:height, received %q", s)
	}
	pos := strings.ToLower(strings.TrimSpace(parts[0]))
	if err := errors.RequireOneOf("corner", pos, corners...); err != nil {
		return nil, err
	}

	var dims [3]units.Length
	for i, p := range parts[1:] {
		l, err := units.Parse(p)
		if err != nil {
			return nil, err
		}
		dims[i] = l
	}
	return &Corner{Position: pos, Inset: dims[0], Width: dims[1], Height: dims[2]}, nil
}

// ParseGrid parses "MxN:n", "MxN:i,j" or "MxN:i,rowspan,j,colspan".
func ParseGrid(s string) ([]int, error) {
	shape, cells, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidRegion, "grid must be MxN:cell, received %q", s)
	}
	rows, cols, ok := strings.Cut(strings.ToLower(shape), "x")
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidRegion, "grid shape must be MxN, received %q", shape)
	}

	fields := append([]string{rows, cols}, splitList(cells)...)
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRegion, err, "grid value %q", f)
		}
		out[i] = n
	}
	switch len(out) {
	case 3, 4, 6:
		return out, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidRegion, "grid must address a cell, a (row, col) pair or a span, received %q", s)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

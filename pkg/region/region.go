package region

import (
	"github.com/matzehuels/stacklayout/pkg/errors"
	"github.com/matzehuels/stacklayout/pkg/units"
)

// DefaultGutter is the padding used when Spec.Gutter is nil.
var DefaultGutter = units.Px(40)

// Corner positions accepted by [Corner].
const (
	Top         = "top"
	TopRight    = "top-right"
	Right       = "right"
	BottomRight = "bottom-right"
	Bottom      = "bottom"
	BottomLeft  = "bottom-left"
	Left        = "left"
	TopLeft     = "top-left"
)

// Rect is an axis-aligned rectangle in CSS pixels.
type Rect struct {
	XMin, XMax float64
	YMin, YMax float64
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 { return r.XMax - r.XMin }

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 { return r.YMax - r.YMin }

// Corner places a Width x Height rectangle Inset pixels from one of the
// eight named corners or edges of the parent.
type Corner struct {
	Position string
	Inset    units.Length
	Width    units.Length
	Height   units.Length
}

// Spec selects how the target rectangle is placed inside the parent.
//
// At most one placement is honoured, in the order Bounds, Rect, Corner,
// Grid. When none is set the parent is shrunk by the gutter.
type Spec struct {
	// Bounds holds (x1, x2, y1, y2). Negative values are offsets from the
	// far edge of the parent.
	Bounds []units.Length

	// Rect holds (x, y, width, height). x and y follow the Bounds rule.
	Rect []units.Length

	Corner *Corner

	// Grid holds (M, N, n), (M, N, i, j) or (M, N, i, rowspan, j, colspan)
	// addressing cells of an M-row by N-column grid in row-major order.
	Grid []int

	// Gutter pads grid cells and the default placement. Nil means DefaultGutter.
	Gutter *units.Length

	// Converter resolves dimensions. Nil means units.Default.
	Converter units.Converter
}

// Resolve computes the target rectangle for spec within parent.
func Resolve(parent Rect, spec Spec) (Rect, error) {
	conv := spec.Converter
	if conv == nil {
		conv = units.Default
	}

	gutterLen := DefaultGutter
	if spec.Gutter != nil {
		gutterLen = *spec.Gutter
	}
	gutter, err := conv.Convert(gutterLen, units.NoReference)
	if err != nil {
		return Rect{}, errors.Wrap(errors.ErrCodeInvalidRegion, err, "gutter")
	}

	switch {
	case spec.Bounds != nil:
		return resolveBounds(parent, spec.Bounds, conv)
	case spec.Rect != nil:
		return resolveRect(parent, spec.Rect, conv)
	case spec.Corner != nil:
		return resolveCorner(parent, *spec.Corner, conv)
	case spec.Grid != nil:
		return resolveGrid(parent, spec.Grid, gutter)
	}

	return Rect{
		XMin: parent.XMin + gutter,
		XMax: parent.XMax - gutter,
		YMin: parent.YMin + gutter,
		YMax: parent.YMax - gutter,
	}, nil
}

// offset converts value against the [min, max] span. Negative results are
// measured back from max.
func offset(conv units.Converter, min, max float64, value units.Length) (float64, error) {
	v, err := conv.Convert(value, max-min)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidRegion, err, "convert %s", value)
	}
	if v < 0 {
		return max + v, nil
	}
	return min + v, nil
}

func resolveBounds(parent Rect, bounds []units.Length, conv units.Converter) (Rect, error) {
	if len(bounds) != 4 {
		return Rect{}, errors.New(errors.ErrCodeInvalidRegion,
			"bounds must be an (xmin, xmax, ymin, ymax) tuple, received %d values", len(bounds))
	}

	var out [4]float64
	for i, b := range bounds {
		lo, hi := parent.XMin, parent.XMax
		if i >= 2 {
			lo, hi = parent.YMin, parent.YMax
		}
		v, err := offset(conv, lo, hi, b)
		if err != nil {
			return Rect{}, err
		}
		out[i] = v
	}
	return Rect{XMin: out[0], XMax: out[1], YMin: out[2], YMax: out[3]}, nil
}

func resolveRect(parent Rect, rect []units.Length, conv units.Converter) (Rect, error) {
	if len(rect) != 4 {
		return Rect{}, errors.New(errors.ErrCodeInvalidRegion,
			"rect must be an (x, y, width, height) tuple, received %d values", len(rect))
	}

	x, err := offset(conv, parent.XMin, parent.XMax, rect[0])
	if err != nil {
		return Rect{}, err
	}
	y, err := offset(conv, parent.YMin, parent.YMax, rect[1])
	if err != nil {
		return Rect{}, err
	}
	w, h, err := size(conv, parent, rect[2], rect[3])
	if err != nil {
		return Rect{}, err
	}
	return Rect{XMin: x, XMax: x + w, YMin: y, YMax: y + h}, nil
}

func size(conv units.Converter, parent Rect, width, height units.Length) (float64, float64, error) {
	w, err := conv.Convert(width, parent.Width())
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeInvalidRegion, err, "width")
	}
	h, err := conv.Convert(height, parent.Height())
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeInvalidRegion, err, "height")
	}
	return w, h, nil
}

func resolveCorner(parent Rect, c Corner, conv units.Converter) (Rect, error) {
	inset, err := conv.Convert(c.Inset, units.NoReference)
	if err != nil {
		return Rect{}, errors.Wrap(errors.ErrCodeInvalidRegion, err, "inset")
	}
	w, h, err := size(conv, parent, c.Width, c.Height)
	if err != nil {
		return Rect{}, err
	}

	xmin, xmax, ymin, ymax := parent.XMin, parent.XMax, parent.YMin, parent.YMax
	centerX := func() (float64, float64) { return (xmin + xmax - w) / 2, (xmin + xmax + w) / 2 }
	centerY := func() (float64, float64) { return (ymin + ymax - h) / 2, (ymin + ymax + h) / 2 }

	var r Rect
	switch c.Position {
	case Top:
		r.XMin, r.XMax = centerX()
		r.YMin, r.YMax = ymin+inset, ymin+inset+h
	case TopRight:
		r.XMin, r.XMax = xmax-w-inset, xmax-inset
		r.YMin, r.YMax = ymin+inset, ymin+inset+h
	case Right:
		r.XMin, r.XMax = xmax-w-inset, xmax-inset
		r.YMin, r.YMax = centerY()
	case BottomRight:
		r.XMin, r.XMax = xmax-w-inset, xmax-inset
		r.YMin, r.YMax = ymax-inset-h, ymax-inset
	case Bottom:
		r.XMin, r.XMax = centerX()
		r.YMin, r.YMax = ymax-inset-h, ymax-inset
	case BottomLeft:
		r.XMin, r.XMax = xmin+inset, xmin+inset+w
		r.YMin, r.YMax = ymax-inset-h, ymax-inset
	case Left:
		r.XMin, r.XMax = xmin+inset, xmin+inset+w
		r.YMin, r.YMax = centerY()
	case TopLeft:
		r.XMin, r.XMax = xmin+inset, xmin+inset+w
		r.YMin, r.YMax = ymin+inset, ymin+inset+h
	default:
		return Rect{}, errors.New(errors.ErrCodeInvalidRegion, "unrecognized corner %q", c.Position)
	}
	return r, nil
}

func resolveGrid(parent Rect, grid []int, gutter float64) (Rect, error) {
	var m, n, i, rowspan, j, colspan int
	switch len(grid) {
	case 3:
		m, n = grid[0], grid[1]
		if n <= 0 {
			return Rect{}, errors.New(errors.ErrCodeInvalidRegion, "grid must have at least one column")
		}
		i, j = grid[2]/n, grid[2]%n
		rowspan, colspan = 1, 1
		if grid[2] < 0 {
			return Rect{}, errors.New(errors.ErrCodeInvalidRegion, "grid cell %d out of range", grid[2])
		}
	case 4:
		m, n, i, j = grid[0], grid[1], grid[2], grid[3]
		rowspan, colspan = 1, 1
	case 6:
		m, n, i, rowspan, j, colspan = grid[0], grid[1], grid[2], grid[3], grid[4], grid[5]
	default:
		return Rect{}, errors.New(errors.ErrCodeInvalidRegion,
			"grid must have 3, 4 or 6 values, received %d", len(grid))
	}

	if m <= 0 || n <= 0 {
		return Rect{}, errors.New(errors.ErrCodeInvalidRegion, "grid dimensions must be positive, received %dx%d", m, n)
	}
	if rowspan <= 0 || colspan <= 0 {
		return Rect{}, errors.New(errors.ErrCodeInvalidRegion, "grid spans must be positive")
	}
	if i < 0 || j < 0 || i+rowspan > m || j+colspan > n {
		return Rect{}, errors.New(errors.ErrCodeInvalidRegion,
			"grid cells rows [%d, %d) cols [%d, %d) fall outside a %dx%d grid", i, i+rowspan, j, j+colspan, m, n)
	}

	cellWidth := parent.Width() / float64(n)
	cellHeight := parent.Height() / float64(m)

	return Rect{
		XMin: parent.XMin + float64(j)*cellWidth + gutter,
		XMax: parent.XMin + float64(j+colspan)*cellWidth - gutter,
		YMin: parent.YMin + float64(i)*cellHeight + gutter,
		YMax: parent.YMin + float64(i+rowspan)*cellHeight - gutter,
	}, nil
}

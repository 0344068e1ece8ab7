// Package region resolves rectangles inside a parent rectangle.
//
// A placement is described by a [Spec]. Exactly one strategy is honoured,
// checked in this order:
//
//   - Bounds: explicit (x1, x2, y1, y2) edges
//   - Rect: an (x, y, width, height) box
//   - Corner: a box pinned to one of eight corners or edges
//   - Grid: one or more cells of an M x N grid
//
// With no strategy the parent is shrunk by the gutter.
//
// Dimensions are [units.Length] values. Percentages are taken against the
// parent width for horizontal values and the parent height for vertical
// ones. Negative bounds and rect offsets count back from the far edge, so
// "-10" on x means ten pixels left of XMax:
//
//	parent := region.Rect{XMax: 600, YMax: 400}
//	r, _ := region.Resolve(parent, region.Spec{
//	    Bounds: []units.Length{units.Px(10), units.Px(-10), units.Percent(10), units.Percent(-10)},
//	})
//	// r == Rect{10, 590, 40, 360}
//
// All failures carry the INVALID_REGION code from pkg/errors.
package region

package layout

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/stacklayout/pkg/errors"
)

// DefaultSeed seeds the generator used to place unknown vertices.
const DefaultSeed uint64 = 1234

// Coordinates is a table of optional vertex positions addressed by vertex
// index. A cell is either known (a concrete point) or unknown, in which case
// a layout algorithm is expected to compute it.
//
// The zero value is an empty table.
type Coordinates struct {
	pos   []r2.Vec
	known []bool
}

// NewCoordinates returns a table of n unknown cells.
func NewCoordinates(n int) Coordinates {
	return Coordinates{pos: make([]r2.Vec, n), known: make([]bool, n)}
}

// KnownCoordinates returns a table in which every cell is known.
func KnownCoordinates(pos []r2.Vec) Coordinates {
	c := NewCoordinates(len(pos))
	copy(c.pos, pos)
	for i := range c.known {
		c.known[i] = true
	}
	return c
}

// MaskedCoordinates builds a table from positions and a parallel known mask.
func MaskedCoordinates(pos []r2.Vec, known []bool) (Coordinates, error) {
	if err := errors.RequireLength("known", len(known), len(pos)); err != nil {
		return Coordinates{}, err
	}
	c := NewCoordinates(len(pos))
	copy(c.pos, pos)
	copy(c.known, known)
	return c, nil
}

// Len returns the number of cells.
func (c Coordinates) Len() int { return len(c.pos) }

// At returns the point at i and whether it is known.
func (c Coordinates) At(i int) (r2.Vec, bool) {
	return c.pos[i], c.known[i]
}

// Known reports whether cell i holds a concrete point.
func (c Coordinates) Known(i int) bool { return c.known[i] }

// Set stores a known point at i.
func (c Coordinates) Set(i int, p r2.Vec) {
	c.pos[i] = p
	c.known[i] = true
}

// Unset marks cell i unknown.
func (c Coordinates) Unset(i int) {
	c.pos[i] = r2.Vec{}
	c.known[i] = false
}

// UnknownCount returns how many cells are still unknown.
func (c Coordinates) UnknownCount() int {
	n := 0
	for _, k := range c.known {
		if !k {
			n++
		}
	}
	return n
}

// Complete reports whether every cell is known.
func (c Coordinates) Complete() bool { return c.UnknownCount() == 0 }

// Clone returns an independent copy.
func (c Coordinates) Clone() Coordinates {
	out, _ := MaskedCoordinates(c.pos, c.known)
	return out
}

// Positions returns a copy of the points. Unknown cells read as the origin.
func (c Coordinates) Positions() []r2.Vec {
	out := make([]r2.Vec, len(c.pos))
	copy(out, c.pos)
	return out
}

// Mask returns a copy of the known flags.
func (c Coordinates) Mask() []bool {
	out := make([]bool, len(c.known))
	copy(out, c.known)
	return out
}

// Fill copies known cells of src into cells of c that are still unknown.
// Cells already known in c are left alone. The tables must be the same length.
func (c Coordinates) Fill(src Coordinates) error {
	if err := errors.RequireLength("coordinates", src.Len(), c.Len()); err != nil {
		return err
	}
	for i := range c.pos {
		if !c.known[i] && src.known[i] {
			c.Set(i, src.pos[i])
		}
	}
	return nil
}

// newRand returns the generator used for initial placement.
func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// materialize returns a position for every cell, drawing unknown cells
// uniformly from [-1, 1] x [-1, 1]. The returned mask marks the cells that
// may move, i.e. those that were unknown on input.
func materialize(c Coordinates, rng *rand.Rand) (pos []r2.Vec, free []bool) {
	pos = c.Positions()
	free = make([]bool, len(pos))
	for i := range pos {
		if c.known[i] {
			continue
		}
		free[i] = true
		pos[i] = r2.Vec{X: rng.Float64()*2 - 1, Y: rng.Float64()*2 - 1}
	}
	return pos, free
}

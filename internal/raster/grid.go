// Package raster provides the typed raster abstraction used by every
// pipeline stage: float grids with shape checks, boolean masks, and the
// pixel-to-geographic transform attached to each tile.
package raster

import "github.com/rotisserie/eris"

// Grid is a rectangular raster of float64 samples in row-major order.
type Grid struct {
	Width  int
	Height int
	Data   []float64
}

// NewGrid allocates a zeroed grid of the given shape.
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Data:   make([]float64, width*height),
	}
}

// NewGridFrom wraps existing data in a grid, validating the shape.
func NewGridFrom(width, height int, data []float64) (*Grid, error) {
	if len(data) != width*height {
		return nil, eris.Errorf("raster: data length %d does not match %dx%d", len(data), width, height)
	}
	return &Grid{Width: width, Height: height, Data: data}, nil
}

// At returns the sample at column x, row y. No bounds checking beyond the
// underlying slice.
func (g *Grid) At(x, y int) float64 {
	return g.Data[y*g.Width+x]
}

// Set writes the sample at column x, row y.
func (g *Grid) Set(x, y int, v float64) {
	g.Data[y*g.Width+x] = v
}

// SameShape reports whether the two grids have identical dimensions.
func (g *Grid) SameShape(o *Grid) bool {
	return o != nil && g.Width == o.Width && g.Height == o.Height
}

// Scale divides every sample by factor, returning a new grid. Used to
// convert raw digital numbers to fractional reflectance.
func (g *Grid) Scale(factor float64) *Grid {
	out := NewGrid(g.Width, g.Height)
	for i, v := range g.Data {
		out.Data[i] = v / factor
	}
	return out
}

// Mask is a boolean raster with the same addressing as Grid.
type Mask struct {
	Width  int
	Height int
	Bits   []bool
}

// NewMask allocates an all-false mask of the given shape.
func NewMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		Bits:   make([]bool, width*height),
	}
}

// NewFullMask allocates an all-true mask of the given shape.
func NewFullMask(width, height int) *Mask {
	m := NewMask(width, height)
	for i := range m.Bits {
		m.Bits[i] = true
	}
	return m
}

// At returns the bit at column x, row y. Out-of-bounds coordinates are
// treated as false so morphology and tracing can probe past the edge.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Bits[y*m.Width+x]
}

// Set writes the bit at column x, row y.
func (m *Mask) Set(x, y int, v bool) {
	m.Bits[y*m.Width+x] = v
}

// Count returns the number of true bits.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the mask.
func (m *Mask) Clone() *Mask {
	out := NewMask(m.Width, m.Height)
	copy(out.Bits, m.Bits)
	return out
}

// And intersects the mask with another in place.
func (m *Mask) And(o *Mask) error {
	if m.Width != o.Width || m.Height != o.Height {
		return eris.Errorf("raster: mask shapes %dx%d and %dx%d differ", m.Width, m.Height, o.Width, o.Height)
	}
	for i := range m.Bits {
		m.Bits[i] = m.Bits[i] && o.Bits[i]
	}
	return nil
}

// Package contour extracts closed polygon boundaries from a binary mask,
// converts them to geographic coordinates, and applies the geometric
// candidate filters.
package contour

import (
	"github.com/KrisEhl/social-sports/internal/model"
	"github.com/KrisEhl/social-sports/internal/raster"
)

// Components holds the connected foreground regions of a binary mask.
// Labels are 1-based; 0 marks background.
type Components struct {
	Width  int
	Height int
	Labels []int
	// Boundaries holds one outer boundary ring per component, indexed by
	// label-1, traced clockwise in pixel coordinates.
	Boundaries [][]model.Pixel
}

// moore is the 8-neighborhood in clockwise order starting west.
var moore = [8]model.Pixel{
	{X: -1, Y: 0},
	{X: -1, Y: -1},
	{X: 0, Y: -1},
	{X: 1, Y: -1},
	{X: 1, Y: 0},
	{X: 1, Y: 1},
	{X: 0, Y: 1},
	{X: -1, Y: 1},
}

// FindComponents labels 8-connected foreground regions and traces each
// region's outer boundary with Moore neighbor tracing. Interior holes are
// ignored; only external contours are produced.
func FindComponents(m *raster.Mask) *Components {
	c := &Components{
		Width:  m.Width,
		Height: m.Height,
		Labels: make([]int, m.Width*m.Height),
	}

	next := 0
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if !m.At(x, y) || c.Labels[y*m.Width+x] != 0 {
				continue
			}
			next++
			c.flood(m, x, y, next)
			c.Boundaries = append(c.Boundaries, traceBoundary(m, model.Pixel{X: x, Y: y}))
		}
	}
	return c
}

// flood labels the 8-connected component containing (x, y).
func (c *Components) flood(m *raster.Mask, x, y, label int) {
	stack := []model.Pixel{{X: x, Y: y}}
	c.Labels[y*c.Width+x] = label
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range moore {
			nx, ny := p.X+d.X, p.Y+d.Y
			if !m.At(nx, ny) {
				continue
			}
			idx := ny*c.Width + nx
			if c.Labels[idx] != 0 {
				continue
			}
			c.Labels[idx] = label
			stack = append(stack, model.Pixel{X: nx, Y: ny})
		}
	}
}

// ComponentMask returns a mask selecting the pixels of one component.
func (c *Components) ComponentMask(label int) *raster.Mask {
	m := raster.NewMask(c.Width, c.Height)
	for i, l := range c.Labels {
		m.Bits[i] = l == label
	}
	return m
}

// traceBoundary walks the outer boundary of the component containing
// start, which must be its row-major first foreground pixel (entered from
// the west). Termination uses Jacob's stopping criterion: the walk ends
// when the start pixel is re-entered from the original backtrack
// direction.
func traceBoundary(m *raster.Mask, start model.Pixel) []model.Pixel {
	boundary := []model.Pixel{start}
	backtrack := model.Pixel{X: start.X - 1, Y: start.Y}

	cur := start
	// Hard cap against pathological inputs: a boundary can visit each
	// pixel at most four times.
	limit := 4 * m.Width * m.Height

	for step := 0; step < limit; step++ {
		next, nextBacktrack, found := clockwiseNeighbor(m, cur, backtrack)
		if !found {
			// Isolated pixel.
			return boundary
		}
		if next == start && nextBacktrack == (model.Pixel{X: start.X - 1, Y: start.Y}) {
			return boundary
		}
		boundary = append(boundary, next)
		cur = next
		backtrack = nextBacktrack
	}
	return boundary
}

// clockwiseNeighbor scans the Moore neighborhood of cur clockwise,
// starting from the backtrack position, and returns the first foreground
// neighbor along with the background pixel examined just before it.
func clockwiseNeighbor(m *raster.Mask, cur, backtrack model.Pixel) (next, nextBacktrack model.Pixel, found bool) {
	startDir := 0
	for i, d := range moore {
		if cur.X+d.X == backtrack.X && cur.Y+d.Y == backtrack.Y {
			startDir = i
			break
		}
	}

	prev := backtrack
	for i := 1; i <= len(moore); i++ {
		d := moore[(startDir+i)%len(moore)]
		p := model.Pixel{X: cur.X + d.X, Y: cur.Y + d.Y}
		if m.At(p.X, p.Y) {
			return p, prev, true
		}
		prev = p
	}
	return model.Pixel{}, model.Pixel{}, false
}

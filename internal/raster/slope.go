package raster

import "math"

// Slope derives a per-pixel slope raster in degrees from an elevation
// grid. Gradients are central differences in grid units; spacingMeters is
// the ground distance per pixel and must be supplied by the caller since
// it depends on resolution and latitude. Edge pixels use one-sided
// differences.
func Slope(dem *Grid, spacingMeters float64) *Grid {
	out := NewGrid(dem.Width, dem.Height)
	if spacingMeters <= 0 {
		return out
	}

	for y := 0; y < dem.Height; y++ {
		for x := 0; x < dem.Width; x++ {
			dx := gradient(dem, x, y, 1, 0)
			dy := gradient(dem, x, y, 0, 1)
			riseRun := math.Sqrt(dx*dx+dy*dy) / spacingMeters
			out.Set(x, y, math.Atan(riseRun)*180/math.Pi)
		}
	}
	return out
}

// gradient returns the central-difference derivative at (x, y) along the
// (sx, sy) axis, falling back to one-sided differences at the borders.
func gradient(g *Grid, x, y, sx, sy int) float64 {
	x0, y0 := x-sx, y-sy
	x1, y1 := x+sx, y+sy

	lo := x0 >= 0 && y0 >= 0 && x0 < g.Width && y0 < g.Height
	hi := x1 >= 0 && y1 >= 0 && x1 < g.Width && y1 < g.Height

	switch {
	case lo && hi:
		return (g.At(x1, y1) - g.At(x0, y0)) / 2
	case hi:
		return g.At(x1, y1) - g.At(x, y)
	case lo:
		return g.At(x, y) - g.At(x0, y0)
	default:
		return 0
	}
}

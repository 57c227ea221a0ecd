// Package elevation computes zonal slope and height statistics over
// candidate footprints and applies the elevation filter.
package elevation

import (
	"math"

	"github.com/KrisEhl/social-sports/internal/model"
	"github.com/KrisEhl/social-sports/internal/raster"
)

// FootprintMask rasterizes a closed pixel-space ring into a mask of the
// tile grid: a pixel belongs to the footprint when its center lies inside
// the ring (even-odd rule) or when it is a boundary pixel itself.
func FootprintMask(ring []model.Pixel, width, height int) *raster.Mask {
	m := raster.NewMask(width, height)
	if len(ring) == 0 {
		return m
	}

	minX, maxX := ring[0].X, ring[0].X
	minY, maxY := ring[0].Y, ring[0].Y
	for _, p := range ring {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}
	minX = max(minX, 0)
	minY = max(minY, 0)
	maxX = min(maxX, width-1)
	maxY = min(maxY, height-1)

	// Boundary pixels always belong to the footprint.
	for _, p := range ring {
		if p.X >= 0 && p.Y >= 0 && p.X < width && p.Y < height {
			m.Set(p.X, p.Y, true)
		}
	}

	n := len(ring)
	for y := minY; y <= maxY; y++ {
		cy := float64(y)
		for x := minX; x <= maxX; x++ {
			if m.At(x, y) {
				continue
			}
			if insideEvenOdd(float64(x), cy, ring, n) {
				m.Set(x, y, true)
			}
		}
	}
	return m
}

// insideEvenOdd runs the even-odd crossing test for point (px, py)
// against the ring treated as a closed polygon of pixel coordinates.
func insideEvenOdd(px, py float64, ring []model.Pixel, n int) bool {
	inside := false
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		xi, yi := float64(ring[i].X), float64(ring[i].Y)
		xj, yj := float64(ring[j].X), float64(ring[j].Y)
		if (yi > py) == (yj > py) {
			continue
		}
		crossX := xi + (py-yi)/(yj-yi)*(xj-xi)
		if px < crossX {
			inside = !inside
		}
	}
	return inside
}

// Stats holds the zonal elevation statistics for one footprint.
type Stats struct {
	MeanSlopeDeg float64
	MeanHeightM  float64
	ValidPixels  int
}

// ComputeStats restricts the slope and elevation grids to the footprint
// intersected with the valid-pixel mask and returns the means. ok is
// false when the footprint covers zero valid elevation pixels; the
// statistics are undefined in that case and carry NaN.
func ComputeStats(dem, slope *raster.Grid, footprint, valid *raster.Mask) (Stats, bool) {
	region := footprint
	if valid != nil {
		region = footprint.Clone()
		if err := region.And(valid); err != nil {
			return Stats{MeanSlopeDeg: math.NaN(), MeanHeightM: math.NaN()}, false
		}
	}

	meanH, okH := raster.MaskedMean(dem, region)
	meanS, okS := raster.MaskedMean(slope, region)
	if !okH || !okS {
		return Stats{MeanSlopeDeg: math.NaN(), MeanHeightM: math.NaN()}, false
	}
	return Stats{
		MeanSlopeDeg: meanS,
		MeanHeightM:  meanH,
		ValidPixels:  region.Count(),
	}, true
}

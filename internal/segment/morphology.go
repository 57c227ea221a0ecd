package segment

import (
	"github.com/KrisEhl/social-sports/internal/raster"
)

// MorphConfig holds the structuring-element sizes for the cleanup chain.
// The sizes are design constants tuned for ~10 m Sentinel-2 resolution,
// not derived from image content.
type MorphConfig struct {
	CloseSize       int `yaml:"close_size" mapstructure:"close_size"`
	CloseIterations int `yaml:"close_iterations" mapstructure:"close_iterations"`
	OpenSize        int `yaml:"open_size" mapstructure:"open_size"`
	ErodeSize       int `yaml:"erode_size" mapstructure:"erode_size"`
}

// DefaultMorphConfig returns the default cleanup chain: closing 5x5 to
// fill interior holes, opening 3x3 to drop isolated noise, and a final
// 3x3 erosion to disconnect adjoining structures.
func DefaultMorphConfig() MorphConfig {
	return MorphConfig{
		CloseSize:       5,
		CloseIterations: 2,
		OpenSize:        3,
		ErodeSize:       3,
	}
}

// Dilate grows foreground regions by a size x size square element.
func Dilate(m *raster.Mask, size int) *raster.Mask {
	return applyElement(m, size, true)
}

// Erode shrinks foreground regions by a size x size square element.
func Erode(m *raster.Mask, size int) *raster.Mask {
	return applyElement(m, size, false)
}

// Close fills small interior holes: dilate then erode, repeated.
func Close(m *raster.Mask, size, iterations int) *raster.Mask {
	out := m
	for i := 0; i < iterations; i++ {
		out = Erode(Dilate(out, size), size)
	}
	return out
}

// Open removes isolated noise pixels: erode then dilate.
func Open(m *raster.Mask, size int) *raster.Mask {
	return Dilate(Erode(m, size), size)
}

// Apply runs the full segmentation: Otsu binarization followed by the
// morphological cleanup chain. The returned mask feeds contour
// extraction. An empty or constant score region yields an empty mask.
func Apply(score *raster.Grid, valid *raster.Mask, cfg MorphConfig) *raster.Mask {
	threshold, ok := OtsuThreshold(score, valid)
	if !ok {
		return raster.NewMask(score.Width, score.Height)
	}

	m := Binarize(score, threshold, valid)
	if cfg.CloseSize > 1 && cfg.CloseIterations > 0 {
		m = Close(m, cfg.CloseSize, cfg.CloseIterations)
	}
	if cfg.OpenSize > 1 {
		m = Open(m, cfg.OpenSize)
	}
	if cfg.ErodeSize > 1 {
		m = Erode(m, cfg.ErodeSize)
	}
	return m
}

// applyElement computes per-pixel dilation (any=true) or erosion
// (any=false) with a square structuring element. size is the full side
// length; even sizes are centered like an odd element biased toward the
// top-left, matching the usual discrete convention.
func applyElement(m *raster.Mask, size int, dilate bool) *raster.Mask {
	if size <= 1 {
		return m.Clone()
	}
	r0 := -(size - 1) / 2
	r1 := size / 2

	out := raster.NewMask(m.Width, m.Height)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			v := !dilate
			for dy := r0; dy <= r1 && v != dilate; dy++ {
				for dx := r0; dx <= r1; dx++ {
					if m.At(x+dx, y+dy) == dilate {
						v = dilate
						break
					}
				}
			}
			out.Set(x, y, v)
		}
	}
	return out
}

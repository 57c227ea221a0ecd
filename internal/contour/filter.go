package contour

import (
	"github.com/rotisserie/eris"

	"github.com/KrisEhl/social-sports/internal/model"
	"github.com/KrisEhl/social-sports/internal/raster"
)

// FilterConfig bounds the geometric candidate filters.
type FilterConfig struct {
	MinAreaM2      float64 `yaml:"min_area_m2" mapstructure:"min_area_m2"`
	MaxAreaM2      float64 `yaml:"max_area_m2" mapstructure:"max_area_m2"`
	MaxAspectRatio float64 `yaml:"max_aspect_ratio" mapstructure:"max_aspect_ratio"`
}

// DefaultFilterConfig returns the rooftop-scale defaults: 400-10000 m²
// footprints with aspect ratio at most 4.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		MinAreaM2:      400,
		MaxAreaM2:      10000,
		MaxAspectRatio: 4.0,
	}
}

// Validate rejects inverted or non-positive bounds. A bad filter window
// silently corrupts every downstream result, so this is startup-fatal.
func (c FilterConfig) Validate() error {
	if c.MinAreaM2 <= 0 {
		return eris.New("contour: min_area_m2 must be > 0")
	}
	if c.MaxAreaM2 < c.MinAreaM2 {
		return eris.Errorf("contour: max_area_m2 %.0f must be >= min_area_m2 %.0f", c.MaxAreaM2, c.MinAreaM2)
	}
	if c.MaxAspectRatio < 1 {
		return eris.New("contour: max_aspect_ratio must be >= 1")
	}
	return nil
}

// BuildCandidates converts every component boundary to a geographic
// polygon and applies the geometric filters. Malformed boundaries
// (degenerate or self-intersecting) are counted and dropped without
// affecting siblings. The geometric filter runs before the elevation
// filter; both are conjunctive so the order only affects which rejection
// counter a doubly-bad candidate lands in.
func BuildCandidates(comps *Components, gt raster.GeoTransform, cfg FilterConfig, rej *model.RejectionCounts) []model.Candidate {
	var out []model.Candidate
	for i, ring := range comps.Boundaries {
		poly, err := RingToPolygon(ring, gt)
		if err != nil {
			rej.Vertices++
			continue
		}
		if SelfIntersects(poly) {
			rej.Vertices++
			continue
		}

		area := PlanarAreaM2(poly)
		if area < cfg.MinAreaM2 || area > cfg.MaxAreaM2 {
			rej.Area++
			continue
		}

		aspect := AspectRatio(poly)
		if aspect > cfg.MaxAspectRatio {
			rej.Aspect++
			continue
		}

		out = append(out, model.Candidate{
			Seq:         i,
			Geometry:    poly,
			PixelRing:   ring,
			AreaM2:      area,
			AspectRatio: aspect,
		})
	}
	return out
}

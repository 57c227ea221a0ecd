package elevation

import "github.com/rotisserie/eris"

// FilterConfig bounds the elevation filter.
type FilterConfig struct {
	MaxSlopeDeg float64 `yaml:"max_slope_deg" mapstructure:"max_slope_deg"`
	MinHeightM  float64 `yaml:"min_height_m" mapstructure:"min_height_m"`
}

// Validate rejects nonsensical elevation bounds at startup.
func (c FilterConfig) Validate() error {
	if c.MaxSlopeDeg <= 0 || c.MaxSlopeDeg > 90 {
		return eris.Errorf("elevation: max_slope_deg %.1f must be in (0, 90]", c.MaxSlopeDeg)
	}
	if c.MinHeightM < 0 {
		return eris.Errorf("elevation: min_height_m %.1f must be >= 0", c.MinHeightM)
	}
	return nil
}

// Rejection reasons reported by Check.
const (
	RejectNone   = ""
	RejectSlope  = "slope"
	RejectHeight = "height"
	RejectNoData = "no_data"
)

// Check applies the elevation filter to one footprint's statistics.
// A footprint with zero valid elevation pixels fails: suitability cannot
// be assessed, so the candidate is rejected rather than passed through.
func Check(s Stats, ok bool, cfg FilterConfig) (bool, string) {
	if !ok {
		return false, RejectNoData
	}
	if s.MeanSlopeDeg > cfg.MaxSlopeDeg {
		return false, RejectSlope
	}
	if s.MeanHeightM < cfg.MinHeightM {
		return false, RejectHeight
	}
	return true, RejectNone
}

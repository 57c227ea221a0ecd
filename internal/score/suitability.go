package score

import (
	"math"

	"github.com/KrisEhl/social-sports/internal/model"
)

// Suitability computes the weighted composite score in [0,1] for a
// candidate that already carries its NDVI, area, slope, and height
// attributes. Deterministic: same inputs and profile always produce the
// same score.
//
// Sub-scores, each independently clamped to [0,1]:
//   - NDVI rewards a vegetation index near zero,
//   - size rewards area up to the reference cap,
//   - slope rewards flatness relative to the filter ceiling,
//   - height rewards taller structures up to the reference cap.
func Suitability(c model.Candidate, p Profile) float64 {
	sNDVI := clamp01(1 - 2*math.Abs(c.NDVIMean))
	sSize := clamp01(c.AreaM2 / p.SizeRefM2)
	sSlope := clamp01(1 - c.SlopeDeg/p.Elevation.MaxSlopeDeg)
	sHeight := clamp01(c.HeightM / p.HeightRefM)

	return p.Weights.NDVI*sNDVI +
		p.Weights.Size*sSize +
		p.Weights.Slope*sSlope +
		p.Weights.Height*sHeight
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

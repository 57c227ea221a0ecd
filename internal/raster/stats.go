package raster

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MaskedMean returns the mean of grid samples where the mask is true. The
// second return value is false when the region has zero valid pixels; the
// mean is undefined in that case and callers must treat the region as
// unassessable rather than dividing by zero.
func MaskedMean(g *Grid, m *Mask) (float64, bool) {
	vals := MaskedValues(g, m)
	if len(vals) == 0 {
		return 0, false
	}
	return stat.Mean(vals, nil), true
}

// MaskedMinMax returns the minimum and maximum over valid samples. ok is
// false when no sample is valid.
func MaskedMinMax(g *Grid, m *Mask) (min, max float64, ok bool) {
	vals := MaskedValues(g, m)
	if len(vals) == 0 {
		return 0, 0, false
	}
	return floats.Min(vals), floats.Max(vals), true
}

// MaskedValues collects the samples where the mask is true. A nil mask
// selects every sample.
func MaskedValues(g *Grid, m *Mask) []float64 {
	if m == nil {
		vals := make([]float64, len(g.Data))
		copy(vals, g.Data)
		return vals
	}
	var vals []float64
	for i, v := range g.Data {
		if m.Bits[i] {
			vals = append(vals, v)
		}
	}
	return vals
}

package raster

import (
	"github.com/rotisserie/eris"
)

// DefaultEpsilon is the additive denominator term that keeps the NDVI
// division defined when both bands are zero.
const DefaultEpsilon = 1e-8

// Luminance weights for the intensity raster (ITU-R BT.601).
const (
	redWeight   = 0.299
	greenWeight = 0.587
	blueWeight  = 0.114
)

// NDVI computes the normalized difference vegetation index
// (NIR - RED) / (NIR + RED + eps). Output is not clamped; values may sit
// slightly outside [-1, 1] because of the epsilon term. Invalid input
// samples propagate as-is, callers mask them upstream.
func NDVI(red, nir *Grid, eps float64) (*Grid, error) {
	if !red.SameShape(nir) {
		return nil, eris.Errorf("raster: NDVI band shapes differ (%dx%d vs %dx%d)",
			red.Width, red.Height, nir.Width, nir.Height)
	}
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	out := NewGrid(red.Width, red.Height)
	for i := range out.Data {
		r := red.Data[i]
		n := nir.Data[i]
		out.Data[i] = (n - r) / (n + r + eps)
	}
	return out, nil
}

// Intensity fuses the visible bands into a single brightness raster using
// fixed luminance weights.
func Intensity(red, green, blue *Grid) (*Grid, error) {
	if !red.SameShape(green) || !red.SameShape(blue) {
		return nil, eris.New("raster: intensity band shapes differ")
	}
	out := NewGrid(red.Width, red.Height)
	for i := range out.Data {
		out.Data[i] = redWeight*red.Data[i] + greenWeight*green.Data[i] + blueWeight*blue.Data[i]
	}
	return out, nil
}

// SurfaceScore fuses brightness and vegetation into the per-pixel
// candidate score: intensity (min-max normalized over valid pixels)
// multiplied by one minus the NDVI term mapped onto [0,1]. High scores
// mark bright, low-vegetation pixels, the signature of bare roofs and
// hard courts. Masked pixels score zero.
func SurfaceScore(intensity, ndvi *Grid, valid *Mask) (*Grid, error) {
	if !intensity.SameShape(ndvi) {
		return nil, eris.New("raster: surface score input shapes differ")
	}
	if valid != nil && (valid.Width != intensity.Width || valid.Height != intensity.Height) {
		return nil, eris.New("raster: surface score mask shape differs")
	}

	min, max, ok := MaskedMinMax(intensity, valid)
	out := NewGrid(intensity.Width, intensity.Height)
	if !ok {
		return out, nil
	}
	span := max - min + DefaultEpsilon

	for i := range out.Data {
		if valid != nil && !valid.Bits[i] {
			continue
		}
		norm := (intensity.Data[i] - min) / span
		veg := (ndvi.Data[i] + 1) / 2
		if veg < 0 {
			veg = 0
		} else if veg > 1 {
			veg = 1
		}
		out.Data[i] = norm * (1 - veg)
	}
	return out, nil
}

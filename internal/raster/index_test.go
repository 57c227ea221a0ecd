package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gridOf(t *testing.T, width, height int, vals ...float64) *Grid {
	t.Helper()
	g, err := NewGridFrom(width, height, vals)
	require.NoError(t, err)
	return g
}

func TestNDVI_KnownValues(t *testing.T) {
	red := gridOf(t, 2, 2, 0.1, 0.3, 0.5, 0.0)
	nir := gridOf(t, 2, 2, 0.5, 0.3, 0.1, 0.0)

	ndvi, err := NDVI(red, nir, DefaultEpsilon)
	require.NoError(t, err)

	// (0.5-0.1)/(0.5+0.1) = 0.666...
	assert.InDelta(t, 0.6667, ndvi.At(0, 0), 0.001)
	// Equal bands give zero.
	assert.InDelta(t, 0.0, ndvi.At(1, 0), 0.001)
	// Symmetric negative case.
	assert.InDelta(t, -0.6667, ndvi.At(0, 1), 0.001)
	// Both zero: epsilon keeps the division defined.
	assert.InDelta(t, 0.0, ndvi.At(1, 1), 0.001)
}

func TestNDVI_BoundedForPositiveReflectance(t *testing.T) {
	red := gridOf(t, 3, 1, 0.0, 0.9, 0.05)
	nir := gridOf(t, 3, 1, 0.9, 0.0, 0.8)

	ndvi, err := NDVI(red, nir, DefaultEpsilon)
	require.NoError(t, err)

	for _, v := range ndvi.Data {
		assert.LessOrEqual(t, v, 1.0)
		assert.GreaterOrEqual(t, v, -1.0)
	}
}

func TestNDVI_ShapeMismatch(t *testing.T) {
	red := NewGrid(2, 2)
	nir := NewGrid(3, 2)

	_, err := NDVI(red, nir, DefaultEpsilon)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "shapes differ")
}

func TestIntensity_LuminanceWeights(t *testing.T) {
	red := gridOf(t, 1, 1, 1.0)
	green := gridOf(t, 1, 1, 1.0)
	blue := gridOf(t, 1, 1, 1.0)

	out, err := Intensity(red, green, blue)
	require.NoError(t, err)
	// Weights sum to 1, so uniform white maps to 1.
	assert.InDelta(t, 1.0, out.At(0, 0), 1e-9)

	out, err = Intensity(gridOf(t, 1, 1, 1.0), gridOf(t, 1, 1, 0.0), gridOf(t, 1, 1, 0.0))
	require.NoError(t, err)
	assert.InDelta(t, 0.299, out.At(0, 0), 1e-9)
}

func TestSurfaceScore_BrightBareBeatsVegetation(t *testing.T) {
	// Pixel 0: bright and bare. Pixel 1: dark and vegetated.
	intensity := gridOf(t, 2, 1, 0.8, 0.2)
	ndvi := gridOf(t, 2, 1, -0.1, 0.7)

	score, err := SurfaceScore(intensity, ndvi, nil)
	require.NoError(t, err)

	assert.Greater(t, score.At(0, 0), score.At(1, 0))
	assert.GreaterOrEqual(t, score.At(1, 0), 0.0)
	assert.LessOrEqual(t, score.At(0, 0), 1.0)
}

func TestSurfaceScore_MaskedPixelsScoreZero(t *testing.T) {
	intensity := gridOf(t, 2, 1, 0.9, 0.1)
	ndvi := gridOf(t, 2, 1, -0.5, -0.5)
	valid := NewMask(2, 1)
	valid.Set(1, 0, true)

	score, err := SurfaceScore(intensity, ndvi, valid)
	require.NoError(t, err)

	assert.Equal(t, 0.0, score.At(0, 0))
}

func TestSurfaceScore_AllMasked(t *testing.T) {
	intensity := gridOf(t, 2, 1, 0.9, 0.1)
	ndvi := gridOf(t, 2, 1, 0.0, 0.0)

	score, err := SurfaceScore(intensity, ndvi, NewMask(2, 1))
	require.NoError(t, err)

	for _, v := range score.Data {
		assert.Equal(t, 0.0, v)
	}
}

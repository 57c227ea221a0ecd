package raster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlope_FlatSurface(t *testing.T) {
	dem := NewGrid(5, 5)
	for i := range dem.Data {
		dem.Data[i] = 42.0
	}

	slope := Slope(dem, 10)
	for _, v := range slope.Data {
		assert.Equal(t, 0.0, v)
	}
}

func TestSlope_UniformRamp(t *testing.T) {
	// 1 m rise per 10 m run along x: slope = atan(0.1) ≈ 5.71°.
	dem := NewGrid(5, 5)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			dem.Set(x, y, float64(x))
		}
	}

	slope := Slope(dem, 10)
	want := math.Atan(0.1) * 180 / math.Pi
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			assert.InDelta(t, want, slope.At(x, y), 1e-9)
		}
	}
}

func TestSlope_EdgeUsesOneSidedDifference(t *testing.T) {
	dem, err := NewGridFrom(3, 1, []float64{0, 5, 20})
	require.NoError(t, err)

	slope := Slope(dem, 10)
	// Left edge: forward difference (5-0)/10.
	assert.InDelta(t, math.Atan(0.5)*180/math.Pi, slope.At(0, 0), 1e-9)
	// Right edge: backward difference (20-5)/10.
	assert.InDelta(t, math.Atan(1.5)*180/math.Pi, slope.At(2, 0), 1e-9)
}

func TestSlope_ZeroSpacingIsFlat(t *testing.T) {
	dem, err := NewGridFrom(2, 1, []float64{0, 100})
	require.NoError(t, err)

	slope := Slope(dem, 0)
	assert.Equal(t, 0.0, slope.At(0, 0))
	assert.Equal(t, 0.0, slope.At(1, 0))
}

func TestMaskedMean(t *testing.T) {
	g, err := NewGridFrom(2, 2, []float64{1, 2, 3, 100})
	require.NoError(t, err)
	m := NewFullMask(2, 2)
	m.Set(1, 1, false)

	mean, ok := MaskedMean(g, m)
	require.True(t, ok)
	assert.InDelta(t, 2.0, mean, 1e-9)

	_, ok = MaskedMean(g, NewMask(2, 2))
	assert.False(t, ok)
}

func TestMaskedMinMax(t *testing.T) {
	g, err := NewGridFrom(2, 2, []float64{5, -1, 3, 9})
	require.NoError(t, err)

	min, max, ok := MaskedMinMax(g, nil)
	require.True(t, ok)
	assert.Equal(t, -1.0, min)
	assert.Equal(t, 9.0, max)
}

package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KrisEhl/social-sports/internal/raster"
)

func TestOtsuThreshold_BimodalSeparation(t *testing.T) {
	// Half the pixels near 0.1, half near 0.9: the threshold must land
	// between the modes.
	score := raster.NewGrid(10, 10)
	for i := range score.Data {
		if i%2 == 0 {
			score.Data[i] = 0.1
		} else {
			score.Data[i] = 0.9
		}
	}

	threshold, ok := OtsuThreshold(score, nil)
	require.True(t, ok)
	assert.Greater(t, threshold, 0.1)
	assert.Less(t, threshold, 0.9)
}

func TestOtsuThreshold_ConstantRegion(t *testing.T) {
	score := raster.NewGrid(4, 4)
	for i := range score.Data {
		score.Data[i] = 0.5
	}

	_, ok := OtsuThreshold(score, nil)
	assert.False(t, ok)
}

func TestOtsuThreshold_EmptyValidRegion(t *testing.T) {
	score := raster.NewGrid(4, 4)
	_, ok := OtsuThreshold(score, raster.NewMask(4, 4))
	assert.False(t, ok)
}

func TestOtsuThreshold_IgnoresMaskedPixels(t *testing.T) {
	// Without the mask the outlier at 100 would stretch the histogram so
	// far that the two real modes collapse into one bin.
	score := raster.NewGrid(10, 1)
	for i := range score.Data {
		if i < 5 {
			score.Data[i] = 0.1
		} else {
			score.Data[i] = 0.9
		}
	}
	score.Data[9] = 100
	valid := raster.NewFullMask(10, 1)
	valid.Set(9, 0, false)

	threshold, ok := OtsuThreshold(score, valid)
	require.True(t, ok)
	assert.Less(t, threshold, 0.9)
}

func TestBinarize_StrictlyAbove(t *testing.T) {
	score, err := raster.NewGridFrom(3, 1, []float64{0.2, 0.5, 0.8})
	require.NoError(t, err)

	m := Binarize(score, 0.5, nil)
	assert.False(t, m.At(0, 0))
	assert.False(t, m.At(1, 0))
	assert.True(t, m.At(2, 0))
}

func TestBinarize_RespectsValidMask(t *testing.T) {
	score, err := raster.NewGridFrom(2, 1, []float64{0.9, 0.9})
	require.NoError(t, err)
	valid := raster.NewMask(2, 1)
	valid.Set(0, 0, true)

	m := Binarize(score, 0.5, valid)
	assert.True(t, m.At(0, 0))
	assert.False(t, m.At(1, 0))
}

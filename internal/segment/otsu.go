// Package segment binarizes the candidate-score raster and cleans the
// resulting mask with morphological operations.
package segment

import (
	"gonum.org/v1/gonum/floats"

	"github.com/KrisEhl/social-sports/internal/raster"
)

const histogramBins = 256

// OtsuThreshold picks the global binarization threshold that maximizes
// between-class variance over a 256-bin histogram of the score raster,
// restricted to valid pixels. The returned threshold is in score units.
// ok is false when the valid region is empty or constant, in which case
// no threshold separates two classes.
func OtsuThreshold(score *raster.Grid, valid *raster.Mask) (float64, bool) {
	vals := raster.MaskedValues(score, valid)
	if len(vals) == 0 {
		return 0, false
	}

	min := floats.Min(vals)
	max := floats.Max(vals)
	if max <= min {
		return 0, false
	}

	var hist [histogramBins]float64
	scale := float64(histogramBins-1) / (max - min)
	for _, v := range vals {
		bin := int((v - min) * scale)
		if bin < 0 {
			bin = 0
		} else if bin >= histogramBins {
			bin = histogramBins - 1
		}
		hist[bin]++
	}

	total := float64(len(vals))
	var sumAll float64
	for i, c := range hist {
		sumAll += float64(i) * c
	}

	var sumBg, weightBg float64
	bestVar := -1.0
	bestBin := 0
	for i := 0; i < histogramBins; i++ {
		weightBg += hist[i]
		if weightBg == 0 {
			continue
		}
		weightFg := total - weightBg
		if weightFg == 0 {
			break
		}
		sumBg += float64(i) * hist[i]

		meanBg := sumBg / weightBg
		meanFg := (sumAll - sumBg) / weightFg
		diff := meanBg - meanFg
		betweenVar := weightBg * weightFg * diff * diff
		if betweenVar > bestVar {
			bestVar = betweenVar
			bestBin = i
		}
	}

	return min + (float64(bestBin)/float64(histogramBins-1))*(max-min), true
}

// Binarize maps the score raster onto a foreground mask: valid pixels
// strictly above the threshold become foreground.
func Binarize(score *raster.Grid, threshold float64, valid *raster.Mask) *raster.Mask {
	out := raster.NewMask(score.Width, score.Height)
	for i, v := range score.Data {
		if valid != nil && !valid.Bits[i] {
			continue
		}
		out.Bits[i] = v > threshold
	}
	return out
}

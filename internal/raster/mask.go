package raster

// DefaultSCLRejects lists the scene classification codes excluded from
// analysis: no-data, saturated/defective, cloud shadow, cloud medium and
// high probability, thin cirrus, and snow.
func DefaultSCLRejects() []uint8 {
	return []uint8{
		SCLNoData,
		SCLSaturated,
		SCLCloudShadow,
		SCLCloudMedium,
		SCLCloudHigh,
		SCLThinCirrus,
		SCLSnow,
	}
}

// ValidMask builds the per-pixel valid mask from the scene classification
// layer: a pixel is valid unless its SCL code is in the reject set. A nil
// or empty SCL layer yields an all-valid mask.
func ValidMask(width, height int, scl []uint8, rejects []uint8) *Mask {
	if len(scl) != width*height {
		return NewFullMask(width, height)
	}
	rejectSet := make(map[uint8]bool, len(rejects))
	for _, c := range rejects {
		rejectSet[c] = true
	}
	m := NewMask(width, height)
	for i, code := range scl {
		m.Bits[i] = !rejectSet[code]
	}
	return m
}

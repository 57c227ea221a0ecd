package imagery

import (
	"bytes"
	"image"

	"github.com/rotisserie/eris"
	"golang.org/x/image/tiff"

	"github.com/KrisEhl/social-sports/internal/raster"
)

// DecodeTIFFGrid decodes a single-band grayscale TIFF response into a
// float grid. The Process API returns UINT8 or INT16 sample types for the
// evalscripts in this package, which decode to 8- or 16-bit grayscale.
func DecodeTIFFGrid(data []byte) (*raster.Grid, error) {
	img, err := tiff.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, eris.Wrap(err, "imagery: decode TIFF")
	}

	b := img.Bounds()
	grid := raster.NewGrid(b.Dx(), b.Dy())

	switch im := img.(type) {
	case *image.Gray:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				grid.Set(x, y, float64(im.GrayAt(b.Min.X+x, b.Min.Y+y).Y))
			}
		}
	case *image.Gray16:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				grid.Set(x, y, float64(im.Gray16At(b.Min.X+x, b.Min.Y+y).Y))
			}
		}
	default:
		return nil, eris.Errorf("imagery: unsupported TIFF pixel format %T", img)
	}

	return grid, nil
}

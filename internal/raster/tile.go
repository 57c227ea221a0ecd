package raster

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/KrisEhl/social-sports/internal/model"
)

// Band names follow the Sentinel-2 band identifiers.
type Band string

// Bands consumed by the pipeline.
const (
	BandBlue  Band = "B02"
	BandGreen Band = "B03"
	BandRed   Band = "B04"
	BandNIR   Band = "B08"
)

// Scene classification (SCL) codes from the Sentinel-2 L2A product.
const (
	SCLNoData       = 0
	SCLSaturated    = 1
	SCLDarkArea     = 2
	SCLCloudShadow  = 3
	SCLVegetation   = 4
	SCLNotVegetated = 5
	SCLWater        = 6
	SCLUnclassified = 7
	SCLCloudMedium  = 8
	SCLCloudHigh    = 9
	SCLThinCirrus   = 10
	SCLSnow         = 11
)

// metersPerDegree is the approximate ground distance of one degree of
// latitude at mid-latitudes.
const metersPerDegree = 111320.0

// Tile is one rectangular unit of raster coverage: per-band reflectance
// grids, the scene classification layer, an optional co-registered DEM,
// and the pixel-to-geographic transform. Bands are attached at
// construction time with shape validation, so band misalignment fails
// loudly instead of corrupting downstream statistics.
type Tile struct {
	Bounds model.BBox
	CRS    string
	Width  int
	Height int

	bands map[Band]*Grid
	scl   []uint8
	dem   *Grid
}

// NewTile creates an empty tile with the given footprint and grid shape.
func NewTile(bounds model.BBox, width, height int) (*Tile, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, eris.Errorf("raster: invalid tile shape %dx%d", width, height)
	}
	return &Tile{
		Bounds: bounds,
		CRS:    "EPSG:4326",
		Width:  width,
		Height: height,
		bands:  make(map[Band]*Grid),
	}, nil
}

// SetBand attaches a reflectance grid, rejecting shape mismatches.
func (t *Tile) SetBand(b Band, g *Grid) error {
	if g.Width != t.Width || g.Height != t.Height {
		return eris.Errorf("raster: band %s shape %dx%d does not match tile %dx%d",
			b, g.Width, g.Height, t.Width, t.Height)
	}
	t.bands[b] = g
	return nil
}

// Band returns the named reflectance grid.
func (t *Tile) Band(b Band) (*Grid, error) {
	g, ok := t.bands[b]
	if !ok {
		return nil, eris.Errorf("raster: tile has no band %s", b)
	}
	return g, nil
}

// SetSCL attaches the scene classification layer.
func (t *Tile) SetSCL(codes []uint8) error {
	if len(codes) != t.Width*t.Height {
		return eris.Errorf("raster: SCL length %d does not match tile %dx%d", len(codes), t.Width, t.Height)
	}
	t.scl = codes
	return nil
}

// SCL returns the scene classification layer, or nil if absent.
func (t *Tile) SCL() []uint8 {
	return t.scl
}

// SetDEM attaches the co-registered elevation grid.
func (t *Tile) SetDEM(g *Grid) error {
	if g.Width != t.Width || g.Height != t.Height {
		return eris.Errorf("raster: DEM shape %dx%d does not match tile %dx%d",
			g.Width, g.Height, t.Width, t.Height)
	}
	t.dem = g
	return nil
}

// DEM returns the elevation grid, or nil if the tile has none.
func (t *Tile) DEM() *Grid {
	return t.dem
}

// Transform returns the pixel-to-geographic mapping for this tile.
func (t *Tile) Transform() GeoTransform {
	return GeoTransform{Bounds: t.Bounds, Width: t.Width, Height: t.Height}
}

// GeoTransform maps pixel coordinates to WGS84 coordinates for a tile.
type GeoTransform struct {
	Bounds model.BBox
	Width  int
	Height int
}

// LonLat converts a pixel position to longitude/latitude. Fractional
// pixel positions are valid; integer pixel coordinates map to the pixel's
// top-left corner, matching the contract of the upstream transform.
func (gt GeoTransform) LonLat(px, py float64) (lon, lat float64) {
	lon = gt.Bounds.West + (px/float64(gt.Width))*(gt.Bounds.East-gt.Bounds.West)
	lat = gt.Bounds.North - (py/float64(gt.Height))*(gt.Bounds.North-gt.Bounds.South)
	return lon, lat
}

// PixelSpacingMeters returns the approximate ground distance covered by
// one pixel in the x and y directions. The x spacing shrinks with the
// cosine of the tile's mean latitude.
func (gt GeoTransform) PixelSpacingMeters() (mx, my float64) {
	_, midLat := gt.Bounds.Center()
	mx = (gt.Bounds.East - gt.Bounds.West) * metersPerDegree * math.Cos(midLat*math.Pi/180) / float64(gt.Width)
	my = (gt.Bounds.North - gt.Bounds.South) * metersPerDegree / float64(gt.Height)
	return mx, my
}

// MeanPixelSpacingMeters averages the x and y ground spacing.
func (gt GeoTransform) MeanPixelSpacingMeters() float64 {
	mx, my := gt.PixelSpacingMeters()
	return (mx + my) / 2
}

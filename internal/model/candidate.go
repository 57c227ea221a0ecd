// Package model holds the shared types passed between pipeline stages.
package model

import (
	"github.com/twpayne/go-geom"
)

// Pixel is a raster grid coordinate (column, row).
type Pixel struct {
	X int
	Y int
}

// Candidate is one connected surface region that survived segmentation.
// Geometry is fixed at creation; attribute fields are attached by the
// elevation and suitability stages.
type Candidate struct {
	// ID is a deterministic UUID derived from the candidate geometry,
	// assigned when the ranked result set is assembled.
	ID string

	// TileIndex and Seq identify where in the run the candidate was
	// extracted. Together they form the stable secondary sort key.
	TileIndex int
	Seq       int

	// Geometry is the closed WGS84 ring (lon/lat order).
	Geometry *geom.Polygon

	// PixelRing is the boundary in tile pixel coordinates, kept so the
	// elevation stage can rasterize the footprint without re-projecting.
	PixelRing []Pixel

	AreaM2      float64
	AspectRatio float64
	NDVIMean    float64
	SlopeDeg    float64
	HeightM     float64

	// SuitabilityScore is in [0,1], set by the suitability scorer.
	SuitabilityScore float64

	SourceDatasets []string
}

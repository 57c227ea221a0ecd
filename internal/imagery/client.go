// Package imagery fetches Sentinel-2 reflectance tiles and Copernicus DEM
// rasters from the Copernicus Data Space Process API. The pipeline only
// depends on the Client interface, so every stage downstream of the fetch
// is testable without the network.
package imagery

import (
	"context"

	"github.com/KrisEhl/social-sports/internal/model"
	"github.com/KrisEhl/social-sports/internal/raster"
)

// Source dataset identifiers attached to exported candidates.
const (
	SourceSentinel2 = "S2_L2A"
	SourceDEM       = "COP_DEM_10m"
)

// Client provides analysis-ready tiles for a bounding box: visible and
// near-infrared reflectance bands (raw digital numbers), the scene
// classification layer, and a co-registered elevation grid.
type Client interface {
	FetchTile(ctx context.Context, bounds model.BBox) (*raster.Tile, error)
}

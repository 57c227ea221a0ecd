// Package detect orchestrates the per-tile detection pipeline and merges
// tile results into the ranked candidate set.
package detect

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/KrisEhl/social-sports/internal/model"
)

// cityBounds maps known city and district names to their WGS84 bounding
// boxes.
var cityBounds = map[string]model.BBox{
	// Berlin
	"berlin":                {West: 13.088, South: 52.338, East: 13.761, North: 52.675},
	"berlin_mitte":          {West: 13.35, South: 52.49, East: 13.45, North: 52.54},
	"berlin_charlottenburg": {West: 13.23, South: 52.48, East: 13.35, North: 52.55},
	"berlin_friedrichshain": {West: 13.42, South: 52.50, East: 13.48, North: 52.54},
	"berlin_kreuzberg":      {West: 13.38, South: 52.48, East: 13.43, North: 52.51},
	"berlin_neukoelln":      {West: 13.40, South: 52.43, East: 13.50, North: 52.49},
	"berlin_pankow":         {West: 13.37, South: 52.54, East: 13.46, North: 52.62},
	"berlin_spandau":        {West: 13.15, South: 52.52, East: 13.26, North: 52.58},
	"berlin_steglitz":       {West: 13.30, South: 52.42, East: 13.38, North: 52.47},

	// Düsseldorf
	"duesseldorf":            {West: 6.685, South: 51.125, East: 6.950, North: 51.330},
	"duesseldorf_altstadt":   {West: 6.76, South: 51.22, East: 6.78, North: 51.23},
	"duesseldorf_stadtmitte": {West: 6.77, South: 51.22, East: 6.80, North: 51.24},
	"duesseldorf_pempelfort": {West: 6.78, South: 51.23, East: 6.82, North: 51.25},
	"duesseldorf_oberkassel": {West: 6.73, South: 51.22, East: 6.76, North: 51.25},
	"duesseldorf_bilk":       {West: 6.77, South: 51.21, East: 6.80, North: 51.22},
	"duesseldorf_unterrath":  {West: 6.79, South: 51.26, East: 6.84, North: 51.29},
	"duesseldorf_benrath":    {West: 6.87, South: 51.15, East: 6.92, North: 51.18},
}

// CityBounds returns the bounding box for a known city name.
func CityBounds(name string) (model.BBox, error) {
	b, ok := cityBounds[name]
	if !ok {
		return model.BBox{}, eris.Errorf("detect: unknown city %q", name)
	}
	return b, nil
}

// Cities returns the known city names in sorted order.
func Cities() []string {
	names := make([]string, 0, len(cityBounds))
	for name := range cityBounds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TileGrid splits a bounding box into tiles of at most sizeDeg degrees
// per side, clipped to the box. Tiles are ordered south to north, west to
// east, so the grid is deterministic for a given box and size.
func TileGrid(b model.BBox, sizeDeg float64) []model.BBox {
	var tiles []model.BBox
	for lat := b.South; lat < b.North; lat += sizeDeg {
		for lon := b.West; lon < b.East; lon += sizeDeg {
			tiles = append(tiles, model.BBox{
				West:  lon,
				South: lat,
				East:  minF(lon+sizeDeg, b.East),
				North: minF(lat+sizeDeg, b.North),
			})
		}
	}
	return tiles
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

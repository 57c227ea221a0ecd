// Package export serializes the ranked result set: GeoJSON for the
// dashboard and map viewers, shapefile for GIS tooling, and a YAML run
// report for operators.
package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/KrisEhl/social-sports/internal/model"
)

// WriteGeoJSON encodes the ranked candidates as a GeoJSON
// FeatureCollection. Each feature carries the polygon ring in WGS84
// lon/lat plus the flat attribute record. An empty result produces a
// collection with zero features, which is valid output.
func WriteGeoJSON(w io.Writer, result *model.Result) error {
	fc := geojson.FeatureCollection{Features: []*geojson.Feature{}}
	for _, c := range result.Candidates {
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       c.ID,
			Geometry: c.Geometry,
			Properties: map[string]interface{}{
				"id":                c.ID,
				"area_m2":           c.AreaM2,
				"aspect_ratio":      c.AspectRatio,
				"ndvi_mean":         c.NDVIMean,
				"slope_deg":         c.SlopeDeg,
				"mean_height_m":     c.HeightM,
				"suitability_score": c.SuitabilityScore,
				"source_datasets":   c.SourceDatasets,
			},
		})
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(&fc); err != nil {
		return eris.Wrap(err, "export: encode GeoJSON")
	}
	return nil
}

// WriteGeoJSONFile writes the feature collection to the given path.
func WriteGeoJSONFile(path string, result *model.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	if err := WriteGeoJSON(f, result); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "export: close %s", path)
	}
	return nil
}

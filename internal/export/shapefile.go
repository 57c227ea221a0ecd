package export

import (
	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"

	"github.com/KrisEhl/social-sports/internal/model"
)

// shapefile attribute schema for candidate polygons.
var shapeFields = []shp.Field{
	shp.StringField("ID", 36),
	shp.FloatField("AREA_M2", 12, 2),
	shp.FloatField("ASPECT", 8, 3),
	shp.FloatField("NDVI_MEAN", 8, 4),
	shp.FloatField("SLOPE_DEG", 8, 3),
	shp.FloatField("HEIGHT_M", 10, 2),
	shp.FloatField("SCORE", 8, 5),
}

// WriteShapefile serializes the ranked candidates as an ESRI shapefile
// with the same attribute record as the GeoJSON export. An empty result
// produces an empty but valid shapefile.
func WriteShapefile(path string, result *model.Result) error {
	w, err := shp.Create(path, shp.POLYGON)
	if err != nil {
		return eris.Wrapf(err, "export: create shapefile %s", path)
	}
	defer w.Close() //nolint:errcheck

	if err := w.SetFields(shapeFields); err != nil {
		return eris.Wrap(err, "export: set shapefile fields")
	}

	for row, c := range result.Candidates {
		flat := c.Geometry.LinearRing(0).FlatCoords()
		points := make([]shp.Point, 0, len(flat)/2)
		for i := 0; i+1 < len(flat); i += 2 {
			points = append(points, shp.Point{X: flat[i], Y: flat[i+1]})
		}
		poly := (*shp.Polygon)(shp.NewPolyLine([][]shp.Point{points}))
		w.Write(poly)

		attrs := []interface{}{
			c.ID,
			c.AreaM2,
			c.AspectRatio,
			c.NDVIMean,
			c.SlopeDeg,
			c.HeightM,
			c.SuitabilityScore,
		}
		for field, value := range attrs {
			if err := w.WriteAttribute(row, field, value); err != nil {
				return eris.Wrapf(err, "export: write shapefile attribute %d", field)
			}
		}
	}

	return nil
}

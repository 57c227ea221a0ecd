package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/KrisEhl/social-sports/internal/model"
)

func sampleCandidate(id string, score float64) model.Candidate {
	poly := geom.NewPolygonFlat(geom.XY, []float64{
		13.40, 52.50,
		13.41, 52.50,
		13.41, 52.51,
		13.40, 52.51,
		13.40, 52.50,
	}, []int{10}).SetSRID(4326)
	return model.Candidate{
		ID:               id,
		Geometry:         poly,
		AreaM2:           2000,
		AspectRatio:      1.5,
		NDVIMean:         0.05,
		SlopeDeg:         2.0,
		HeightM:          20,
		SuitabilityScore: score,
		SourceDatasets:   []string{"S2_L2A", "COP_DEM_10m"},
	}
}

func TestWriteGeoJSON_Features(t *testing.T) {
	result := &model.Result{
		Profile: "rooftop",
		Candidates: []model.Candidate{
			sampleCandidate("a1", 0.9),
			sampleCandidate("b2", 0.7),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteGeoJSON(&buf, result))

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Type     string `json:"type"`
			Geometry struct {
				Type        string         `json:"type"`
				Coordinates [][][2]float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fc))

	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 2)

	f := fc.Features[0]
	assert.Equal(t, "Feature", f.Type)
	assert.Equal(t, "Polygon", f.Geometry.Type)
	require.Len(t, f.Geometry.Coordinates, 1)
	assert.Len(t, f.Geometry.Coordinates[0], 5)

	assert.Equal(t, "a1", f.Properties["id"])
	assert.InDelta(t, 2000.0, f.Properties["area_m2"].(float64), 1e-9)
	assert.InDelta(t, 0.9, f.Properties["suitability_score"].(float64), 1e-9)
	assert.InDelta(t, 20.0, f.Properties["mean_height_m"].(float64), 1e-9)
	assert.ElementsMatch(t, []any{"S2_L2A", "COP_DEM_10m"}, f.Properties["source_datasets"])
}

func TestWriteGeoJSON_EmptyResultIsValidCollection(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGeoJSON(&buf, &model.Result{Profile: "rooftop"}))

	var fc struct {
		Type     string `json:"type"`
		Features []any  `json:"features"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.NotNil(t, fc.Features)
	assert.Empty(t, fc.Features)
}

func TestWriteGeoJSONFile(t *testing.T) {
	path := t.TempDir() + "/out.geojson"
	result := &model.Result{Candidates: []model.Candidate{sampleCandidate("x", 0.5)}}

	require.NoError(t, WriteGeoJSONFile(path, result))
	assert.FileExists(t, path)
}

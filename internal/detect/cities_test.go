package detect

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KrisEhl/social-sports/internal/model"
)

func TestCityBounds(t *testing.T) {
	b, err := CityBounds("berlin")
	require.NoError(t, err)
	assert.NoError(t, b.Validate())
	assert.InDelta(t, 13.088, b.West, 1e-9)

	_, err = CityBounds("atlantis")
	assert.Error(t, err)
}

func TestCities_SortedAndValid(t *testing.T) {
	names := Cities()
	require.NotEmpty(t, names)
	assert.True(t, sort.StringsAreSorted(names))
	assert.Contains(t, names, "duesseldorf_bilk")

	for _, name := range names {
		b, err := CityBounds(name)
		require.NoError(t, err)
		assert.NoError(t, b.Validate(), "city %s", name)
	}
}

func TestTileGrid_SplitsAndClips(t *testing.T) {
	b := model.BBox{West: 13.0, South: 52.0, East: 13.12, North: 52.07}
	tiles := TileGrid(b, 0.05)

	// 3 columns x 2 rows.
	require.Len(t, tiles, 6)

	// South-to-north, west-to-east ordering.
	assert.InDelta(t, 13.0, tiles[0].West, 1e-9)
	assert.InDelta(t, 52.0, tiles[0].South, 1e-9)
	assert.InDelta(t, 13.05, tiles[0].East, 1e-9)
	assert.InDelta(t, 52.05, tiles[0].North, 1e-9)
	assert.InDelta(t, 13.05, tiles[1].West, 1e-9)
	assert.InDelta(t, 52.0, tiles[1].South, 1e-9)

	// The last column and row clip to the box.
	last := tiles[5]
	assert.InDelta(t, 13.12, last.East, 1e-9)
	assert.InDelta(t, 52.07, last.North, 1e-9)

	for _, tile := range tiles {
		assert.NoError(t, tile.Validate())
		assert.LessOrEqual(t, tile.East, b.East)
		assert.LessOrEqual(t, tile.North, b.North)
	}
}

func TestTileGrid_SingleTile(t *testing.T) {
	b := model.BBox{West: 13.0, South: 52.0, East: 13.02, North: 52.02}
	tiles := TileGrid(b, 0.05)
	require.Len(t, tiles, 1)
	assert.Equal(t, b, tiles[0])
}

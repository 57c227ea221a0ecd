package detect

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KrisEhl/social-sports/internal/config"
	"github.com/KrisEhl/social-sports/internal/model"
	"github.com/KrisEhl/social-sports/internal/raster"
	"github.com/KrisEhl/social-sports/internal/score"
)

const sceneSize = 64

// sceneDeg spans sceneSize pixels of ~10 m ground distance near the
// equator, so areas come out in round numbers.
const sceneDeg = float64(sceneSize) * 10.0 / 111320.0

// scene builds synthetic tiles: a vegetated background with optional
// bright flat blocks standing on the DEM. Reflectance values are digital
// numbers at the 1/10000 product scale.
type scene struct {
	red, green, blue, nir *raster.Grid
	dem                   *raster.Grid
	scl                   []uint8
}

func vegetatedScene() *scene {
	s := &scene{
		red:   raster.NewGrid(sceneSize, sceneSize),
		green: raster.NewGrid(sceneSize, sceneSize),
		blue:  raster.NewGrid(sceneSize, sceneSize),
		nir:   raster.NewGrid(sceneSize, sceneSize),
		dem:   raster.NewGrid(sceneSize, sceneSize),
		scl:   make([]uint8, sceneSize*sceneSize),
	}
	for i := range s.scl {
		s.red.Data[i] = 500
		s.green.Data[i] = 1000
		s.blue.Data[i] = 500
		s.nir.Data[i] = 5000
		s.scl[i] = raster.SCLVegetation
	}
	return s
}

// addBlock places a bright bare block with the given uniform height.
func (s *scene) addBlock(x0, y0, x1, y1 int, heightM float64) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			s.red.Set(x, y, 3000)
			s.green.Set(x, y, 3000)
			s.blue.Set(x, y, 3000)
			s.nir.Set(x, y, 3000)
			s.dem.Set(x, y, heightM)
			s.scl[y*sceneSize+x] = raster.SCLNotVegetated
		}
	}
}

// addRampBlock places a bright block whose height rises by risePerPx
// meters per pixel along x, starting at baseM.
func (s *scene) addRampBlock(x0, y0, x1, y1 int, baseM, risePerPx float64) {
	s.addBlock(x0, y0, x1, y1, baseM)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			s.dem.Set(x, y, baseM+risePerPx*float64(x-x0))
		}
	}
}

func (s *scene) tile(t *testing.T, bounds model.BBox) *raster.Tile {
	t.Helper()
	tile, err := raster.NewTile(bounds, sceneSize, sceneSize)
	require.NoError(t, err)
	require.NoError(t, tile.SetBand(raster.BandRed, s.red))
	require.NoError(t, tile.SetBand(raster.BandGreen, s.green))
	require.NoError(t, tile.SetBand(raster.BandBlue, s.blue))
	require.NoError(t, tile.SetBand(raster.BandNIR, s.nir))
	require.NoError(t, tile.SetSCL(s.scl))
	require.NoError(t, tile.SetDEM(s.dem))
	return tile
}

// fakeClient serves tiles from a function keyed on the requested bounds.
type fakeClient struct {
	fetch func(model.BBox) (*raster.Tile, error)
}

func (f *fakeClient) FetchTile(_ context.Context, bounds model.BBox) (*raster.Tile, error) {
	return f.fetch(bounds)
}

func testDetectConfig() config.DetectConfig {
	return config.DetectConfig{
		Profile:          "rooftop",
		TileSizeDeg:      sceneDeg,
		Concurrency:      2,
		TopK:             500,
		Epsilon:          raster.DefaultEpsilon,
		ReflectanceScale: 10000,
		SCLRejects:       []int{0, 1, 3, 8, 9, 10, 11},
		CloseSize:        5,
		CloseIterations:  2,
		OpenSize:         3,
		ErodeSize:        3,
	}
}

func sceneBounds() model.BBox {
	return model.BBox{West: 0, South: 0, East: sceneDeg, North: sceneDeg}
}

func TestProcessTile_DetectsBrightFlatBlock(t *testing.T) {
	s := vegetatedScene()
	// 6x6 block at 20 m: erosion trims it to 4x4, leaving a ~900 m²
	// footprint polygon.
	s.addBlock(10, 10, 15, 15, 20)

	p := &Pipeline{
		Client:  &fakeClient{fetch: func(bounds model.BBox) (*raster.Tile, error) { return s.tile(t, bounds), nil }},
		Cfg:     testDetectConfig(),
		Profile: score.RooftopProfile(),
	}

	cands, rej, err := p.ProcessTile(context.Background(), 0, sceneBounds())
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Zero(t, rej.Total())

	c := cands[0]
	assert.Equal(t, 0, c.TileIndex)
	assert.InDelta(t, 900, c.AreaM2, 30)
	assert.InDelta(t, 0.0, c.NDVIMean, 0.01)
	assert.InDelta(t, 0.0, c.SlopeDeg, 0.1)
	assert.InDelta(t, 20.0, c.HeightM, 0.5)
	assert.Equal(t, []string{"S2_L2A", "COP_DEM_10m"}, c.SourceDatasets)
	assert.NotEmpty(t, c.PixelRing)
	require.NotNil(t, c.Geometry)

	// ndvi 1.0, size 900/1000, slope 1.0, height 20/50 weighted 3/3/3/1.
	assert.InDelta(t, 0.91, c.SuitabilityScore, 0.02)
}

func TestProcessTile_VegetatedTileHasNoCandidates(t *testing.T) {
	p := &Pipeline{
		Client: &fakeClient{fetch: func(bounds model.BBox) (*raster.Tile, error) {
			return vegetatedScene().tile(t, bounds), nil
		}},
		Cfg:     testDetectConfig(),
		Profile: score.RooftopProfile(),
	}

	cands, rej, err := p.ProcessTile(context.Background(), 0, sceneBounds())
	require.NoError(t, err)
	assert.Empty(t, cands)
	assert.Zero(t, rej.Total())
}

func TestProcessTile_SlopedBlockRejected(t *testing.T) {
	s := vegetatedScene()
	// 3 m rise per 10 m pixel: ~16.7° mean slope, over the 10° ceiling.
	s.addRampBlock(10, 10, 15, 15, 20, 3)

	p := &Pipeline{
		Client:  &fakeClient{fetch: func(bounds model.BBox) (*raster.Tile, error) { return s.tile(t, bounds), nil }},
		Cfg:     testDetectConfig(),
		Profile: score.RooftopProfile(),
	}

	cands, rej, err := p.ProcessTile(context.Background(), 0, sceneBounds())
	require.NoError(t, err)
	assert.Empty(t, cands)
	assert.Equal(t, 1, rej.Slope)
}

func TestProcessTile_LowBlockRejected(t *testing.T) {
	s := vegetatedScene()
	s.addBlock(10, 10, 15, 15, 5) // below the 10 m floor

	p := &Pipeline{
		Client:  &fakeClient{fetch: func(bounds model.BBox) (*raster.Tile, error) { return s.tile(t, bounds), nil }},
		Cfg:     testDetectConfig(),
		Profile: score.RooftopProfile(),
	}

	cands, rej, err := p.ProcessTile(context.Background(), 0, sceneBounds())
	require.NoError(t, err)
	assert.Empty(t, cands)
	assert.Equal(t, 1, rej.Height)
}

func TestProcessTile_CalisthenicsProfileStricter(t *testing.T) {
	s := vegetatedScene()
	// 14 m terrain clears the rooftop floor but not the 15 m
	// calisthenics floor.
	s.addBlock(10, 10, 15, 15, 14)

	roof := &Pipeline{
		Client:  &fakeClient{fetch: func(bounds model.BBox) (*raster.Tile, error) { return s.tile(t, bounds), nil }},
		Cfg:     testDetectConfig(),
		Profile: score.RooftopProfile(),
	}
	cands, _, err := roof.ProcessTile(context.Background(), 0, sceneBounds())
	require.NoError(t, err)
	assert.Len(t, cands, 1)

	cali := &Pipeline{
		Client:  roof.Client,
		Cfg:     testDetectConfig(),
		Profile: score.CalisthenicsProfile(),
	}
	cands, rej, err := cali.ProcessTile(context.Background(), 0, sceneBounds())
	require.NoError(t, err)
	assert.Empty(t, cands)
	assert.Equal(t, 1, rej.Height)
}

func TestProcessTile_FetchErrorIsTileFatal(t *testing.T) {
	p := &Pipeline{
		Client: &fakeClient{fetch: func(bounds model.BBox) (*raster.Tile, error) {
			return nil, eris.New("provider down")
		}},
		Cfg:     testDetectConfig(),
		Profile: score.RooftopProfile(),
	}

	_, _, err := p.ProcessTile(context.Background(), 3, sceneBounds())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tile 3")
}

func TestProcessTile_MissingDEMFails(t *testing.T) {
	p := &Pipeline{
		Client: &fakeClient{fetch: func(bounds model.BBox) (*raster.Tile, error) {
			s := vegetatedScene()
			tile, err := raster.NewTile(bounds, sceneSize, sceneSize)
			require.NoError(t, err)
			require.NoError(t, tile.SetBand(raster.BandRed, s.red))
			require.NoError(t, tile.SetBand(raster.BandGreen, s.green))
			require.NoError(t, tile.SetBand(raster.BandBlue, s.blue))
			require.NoError(t, tile.SetBand(raster.BandNIR, s.nir))
			require.NoError(t, tile.SetSCL(s.scl))
			return tile, nil
		}},
		Cfg:     testDetectConfig(),
		Profile: score.RooftopProfile(),
	}

	_, _, err := p.ProcessTile(context.Background(), 0, sceneBounds())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "elevation")
}

package detect

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/KrisEhl/social-sports/internal/config"
	"github.com/KrisEhl/social-sports/internal/contour"
	"github.com/KrisEhl/social-sports/internal/elevation"
	"github.com/KrisEhl/social-sports/internal/imagery"
	"github.com/KrisEhl/social-sports/internal/model"
	"github.com/KrisEhl/social-sports/internal/raster"
	"github.com/KrisEhl/social-sports/internal/score"
	"github.com/KrisEhl/social-sports/internal/segment"
)

// Pipeline runs the detection stages for individual tiles. Each stage is
// a pure function of its input rasters; the pipeline only sequences them
// and threads the configuration through.
type Pipeline struct {
	Client  imagery.Client
	Cfg     config.DetectConfig
	Profile score.Profile
}

// ProcessTile runs the full per-tile pipeline: fetch, preprocess, score,
// segment, extract, filter, and score suitability. The returned
// candidates all satisfy every filter predicate. Errors are tile-fatal:
// the caller skips the tile and continues the run.
func (p *Pipeline) ProcessTile(ctx context.Context, tileIndex int, bounds model.BBox) ([]model.Candidate, model.RejectionCounts, error) {
	var rej model.RejectionCounts

	tile, err := p.Client.FetchTile(ctx, bounds)
	if err != nil {
		return nil, rej, eris.Wrapf(err, "detect: fetch tile %d", tileIndex)
	}

	red, err := tile.Band(raster.BandRed)
	if err != nil {
		return nil, rej, err
	}
	green, err := tile.Band(raster.BandGreen)
	if err != nil {
		return nil, rej, err
	}
	blue, err := tile.Band(raster.BandBlue)
	if err != nil {
		return nil, rej, err
	}
	nir, err := tile.Band(raster.BandNIR)
	if err != nil {
		return nil, rej, err
	}
	if tile.DEM() == nil {
		return nil, rej, eris.Errorf("detect: tile %d has no elevation data", tileIndex)
	}

	// Band scaling: digital numbers to fractional reflectance.
	red = red.Scale(p.Cfg.ReflectanceScale)
	green = green.Scale(p.Cfg.ReflectanceScale)
	blue = blue.Scale(p.Cfg.ReflectanceScale)
	nir = nir.Scale(p.Cfg.ReflectanceScale)

	valid := raster.ValidMask(tile.Width, tile.Height, tile.SCL(), p.Cfg.SCLRejectCodes())

	ndvi, err := raster.NDVI(red, nir, p.Cfg.Epsilon)
	if err != nil {
		return nil, rej, err
	}
	intensity, err := raster.Intensity(red, green, blue)
	if err != nil {
		return nil, rej, err
	}
	surface, err := raster.SurfaceScore(intensity, ndvi, valid)
	if err != nil {
		return nil, rej, err
	}

	mask := segment.Apply(surface, valid, segment.MorphConfig{
		CloseSize:       p.Cfg.CloseSize,
		CloseIterations: p.Cfg.CloseIterations,
		OpenSize:        p.Cfg.OpenSize,
		ErodeSize:       p.Cfg.ErodeSize,
	})

	gt := tile.Transform()
	comps := contour.FindComponents(mask)
	candidates := contour.BuildCandidates(comps, gt, p.Profile.Geometry, &rej)

	slope := raster.Slope(tile.DEM(), gt.MeanPixelSpacingMeters())

	var out []model.Candidate
	for _, c := range candidates {
		// Mean NDVI over the component footprint, valid pixels only.
		compMask := comps.ComponentMask(c.Seq + 1)
		region := compMask.Clone()
		if err := region.And(valid); err != nil {
			return nil, rej, err
		}
		ndviMean, ok := raster.MaskedMean(ndvi, region)
		if !ok {
			rej.NoData++
			continue
		}

		footprint := elevation.FootprintMask(c.PixelRing, tile.Width, tile.Height)
		stats, ok := elevation.ComputeStats(tile.DEM(), slope, footprint, valid)
		if pass, reason := elevation.Check(stats, ok, p.Profile.Elevation); !pass {
			switch reason {
			case elevation.RejectSlope:
				rej.Slope++
			case elevation.RejectHeight:
				rej.Height++
			default:
				rej.NoData++
			}
			continue
		}

		c.TileIndex = tileIndex
		c.NDVIMean = ndviMean
		c.SlopeDeg = stats.MeanSlopeDeg
		c.HeightM = stats.MeanHeightM
		c.SourceDatasets = []string{imagery.SourceSentinel2, imagery.SourceDEM}
		c.SuitabilityScore = score.Suitability(c, p.Profile)
		out = append(out, c)
	}

	zap.L().Debug("tile processed",
		zap.Int("tile", tileIndex),
		zap.Int("components", len(comps.Boundaries)),
		zap.Int("candidates", len(out)),
		zap.Int("rejected", rej.Total()),
	)
	return out, rej, nil
}

package detect

import (
	"context"
	"encoding/binary"
	"math"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KrisEhl/social-sports/internal/model"
)

// candidateNamespace seeds the deterministic candidate UUIDs so identical
// runs on identical input produce identical identifiers.
var candidateNamespace = uuid.MustParse("7b0d9c6e-4a1f-4f7e-9f1a-2b8c5d3e6a90")

// Run processes every tile of the bounding box concurrently and merges
// the surviving candidates into one globally ranked, truncated result.
//
// Tiles share no mutable state; the only shared resource is the
// rate-limited imagery client. A tile whose fetch or processing fails is
// logged and skipped, never fatal. The top-K cut happens strictly after
// all tiles resolve: truncating per tile before the merge would bias the
// result toward smaller tiles.
func (p *Pipeline) Run(ctx context.Context, bounds model.BBox) (*model.Result, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}

	tiles := TileGrid(bounds, p.Cfg.TileSizeDeg)
	zap.L().Info("starting detection run",
		zap.String("profile", p.Profile.Name),
		zap.Int("tiles", len(tiles)),
		zap.Int("concurrency", p.Cfg.Concurrency),
	)

	perTile := make([][]model.Candidate, len(tiles))
	stats := make([]model.TileStats, len(tiles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Cfg.Concurrency)

	for i, tb := range tiles {
		g.Go(func() error {
			log := zap.L().With(zap.Int("tile", i))

			candidates, rej, err := p.ProcessTile(gctx, i, tb)
			if err != nil {
				log.Warn("tile skipped", zap.Error(err))
				stats[i] = model.TileStats{
					Index:  i,
					BBox:   tb,
					Status: model.TileStatusSkipped,
					Error:  err.Error(),
				}
				return nil // skip, don't abort the run
			}

			perTile[i] = candidates
			stats[i] = model.TileStats{
				Index:      i,
				BBox:       tb,
				Status:     model.TileStatusOK,
				Candidates: len(candidates),
				Rejections: rej,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Merge in tile order so the secondary sort key (insertion order) is
	// identical across runs.
	var merged []model.Candidate
	for _, candidates := range perTile {
		merged = append(merged, candidates...)
	}

	sort.SliceStable(merged, func(a, b int) bool {
		return merged[a].SuitabilityScore > merged[b].SuitabilityScore
	})
	if p.Cfg.TopK > 0 && len(merged) > p.Cfg.TopK {
		merged = merged[:p.Cfg.TopK]
	}

	for i := range merged {
		merged[i].ID = candidateID(merged[i])
	}

	result := &model.Result{
		Profile:    p.Profile.Name,
		Candidates: merged,
		Tiles:      stats,
	}
	zap.L().Info("detection run complete",
		zap.Int("candidates", len(merged)),
		zap.Ints("skipped_tiles", result.SkippedTiles()),
	)
	return result, nil
}

// candidateID derives a stable UUID from the candidate's ring geometry.
func candidateID(c model.Candidate) string {
	flat := c.Geometry.FlatCoords()
	buf := make([]byte, 8*len(flat))
	for i, v := range flat {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	return uuid.NewSHA1(candidateNamespace, buf).String()
}

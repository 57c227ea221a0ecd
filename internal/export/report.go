package export

import (
	"os"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/KrisEhl/social-sports/internal/model"
)

// RunReport summarizes a detection run for operators: which tiles were
// processed, which were skipped and why, and how many candidates each
// filter removed.
type RunReport struct {
	Profile      string            `yaml:"profile"`
	GeneratedAt  time.Time         `yaml:"generated_at"`
	Candidates   int               `yaml:"candidates"`
	TilesTotal   int               `yaml:"tiles_total"`
	TilesSkipped []int             `yaml:"tiles_skipped,omitempty"`
	Tiles        []model.TileStats `yaml:"tiles"`
}

// NewRunReport builds a report from the result.
func NewRunReport(result *model.Result, now time.Time) RunReport {
	return RunReport{
		Profile:      result.Profile,
		GeneratedAt:  now.UTC(),
		Candidates:   len(result.Candidates),
		TilesTotal:   len(result.Tiles),
		TilesSkipped: result.SkippedTiles(),
		Tiles:        result.Tiles,
	}
}

// WriteReport serializes the run report as YAML.
func WriteReport(path string, report RunReport) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return eris.Wrap(err, "export: marshal run report")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "export: write run report %s", path)
	}
	return nil
}

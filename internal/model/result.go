package model

// RejectionCounts tracks how many candidates each filter predicate removed
// within a single tile.
type RejectionCounts struct {
	Area     int `json:"area" yaml:"area"`
	Aspect   int `json:"aspect" yaml:"aspect"`
	Vertices int `json:"vertices" yaml:"vertices"`
	Slope    int `json:"slope" yaml:"slope"`
	Height   int `json:"height" yaml:"height"`
	NoData   int `json:"no_data" yaml:"no_data"`
}

// Total returns the sum of all rejection counts.
func (r RejectionCounts) Total() int {
	return r.Area + r.Aspect + r.Vertices + r.Slope + r.Height + r.NoData
}

// Tile processing status values.
const (
	TileStatusOK      = "ok"
	TileStatusSkipped = "skipped"
)

// TileStats summarizes the outcome of one processed tile.
type TileStats struct {
	Index      int             `json:"index" yaml:"index"`
	BBox       BBox            `json:"bbox" yaml:"bbox"`
	Status     string          `json:"status" yaml:"status"`
	Error      string          `json:"error,omitempty" yaml:"error,omitempty"`
	Candidates int             `json:"candidates" yaml:"candidates"`
	Rejections RejectionCounts `json:"rejections" yaml:"rejections"`
}

// Result is the terminal artifact of a detection run: the ranked candidate
// set plus per-tile accounting. Immutable after creation.
type Result struct {
	Profile    string
	Candidates []Candidate
	Tiles      []TileStats
}

// SkippedTiles returns the indices of tiles that were skipped.
func (r *Result) SkippedTiles() []int {
	var skipped []int
	for _, t := range r.Tiles {
		if t.Status == TileStatusSkipped {
			skipped = append(skipped, t.Index)
		}
	}
	return skipped
}

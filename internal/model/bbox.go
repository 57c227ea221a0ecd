package model

import "github.com/rotisserie/eris"

// BBox is a geographic bounding box in WGS84 degrees.
type BBox struct {
	West  float64 `json:"west" yaml:"west"`
	South float64 `json:"south" yaml:"south"`
	East  float64 `json:"east" yaml:"east"`
	North float64 `json:"north" yaml:"north"`
}

// Validate checks that the box is non-degenerate and within WGS84 range.
func (b BBox) Validate() error {
	if b.West >= b.East {
		return eris.Errorf("bbox: west %.4f must be < east %.4f", b.West, b.East)
	}
	if b.South >= b.North {
		return eris.Errorf("bbox: south %.4f must be < north %.4f", b.South, b.North)
	}
	if b.West < -180 || b.East > 180 || b.South < -90 || b.North > 90 {
		return eris.Errorf("bbox: out of WGS84 range [%.4f %.4f %.4f %.4f]", b.West, b.South, b.East, b.North)
	}
	return nil
}

// Center returns the midpoint (lon, lat) of the box.
func (b BBox) Center() (lon, lat float64) {
	return (b.West + b.East) / 2, (b.South + b.North) / 2
}

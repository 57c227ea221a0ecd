// Package score computes the weighted suitability score and defines the
// named detection profiles that bundle filter thresholds and weights.
package score

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/KrisEhl/social-sports/internal/contour"
	"github.com/KrisEhl/social-sports/internal/elevation"
)

// Weights are the suitability sub-score weights. They must sum to 1.0.
type Weights struct {
	NDVI   float64 `yaml:"ndvi" mapstructure:"ndvi"`
	Size   float64 `yaml:"size" mapstructure:"size"`
	Slope  float64 `yaml:"slope" mapstructure:"slope"`
	Height float64 `yaml:"height" mapstructure:"height"`
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.NDVI + w.Size + w.Slope + w.Height
}

// Profile is one named detection configuration. The rooftop and
// calisthenics variants carry different thresholds and stay separate
// profiles, never merged.
type Profile struct {
	Name string `yaml:"name" mapstructure:"name"`

	Geometry  contour.FilterConfig   `yaml:"geometry" mapstructure:"geometry"`
	Elevation elevation.FilterConfig `yaml:"elevation" mapstructure:"elevation"`
	Weights   Weights                `yaml:"weights" mapstructure:"weights"`

	// SizeRefM2 and HeightRefM are the normalization caps for the size
	// and height sub-scores; both saturate at 1.0 above the reference.
	SizeRefM2  float64 `yaml:"size_ref_m2" mapstructure:"size_ref_m2"`
	HeightRefM float64 `yaml:"height_ref_m" mapstructure:"height_ref_m"`
}

// RooftopProfile targets flat building roofs: generous height floor,
// moderate slope tolerance.
func RooftopProfile() Profile {
	return Profile{
		Name:     "rooftop",
		Geometry: contour.DefaultFilterConfig(),
		Elevation: elevation.FilterConfig{
			MaxSlopeDeg: 10,
			MinHeightM:  10,
		},
		Weights: Weights{
			NDVI:   0.3,
			Size:   0.3,
			Slope:  0.3,
			Height: 0.1,
		},
		SizeRefM2:  1000,
		HeightRefM: 50,
	}
}

// CalisthenicsProfile targets ground-level sports surfaces: stricter
// flatness, taller surroundings accepted from 15 m terrain upward.
func CalisthenicsProfile() Profile {
	return Profile{
		Name:     "calisthenics",
		Geometry: contour.DefaultFilterConfig(),
		Elevation: elevation.FilterConfig{
			MaxSlopeDeg: 5,
			MinHeightM:  15,
		},
		Weights: Weights{
			NDVI:   0.3,
			Size:   0.3,
			Slope:  0.3,
			Height: 0.1,
		},
		SizeRefM2:  1000,
		HeightRefM: 50,
	}
}

// BuiltinProfiles returns the built-in profile set keyed by name.
func BuiltinProfiles() map[string]Profile {
	return map[string]Profile{
		"rooftop":      RooftopProfile(),
		"calisthenics": CalisthenicsProfile(),
	}
}

// weightTolerance allows floating-point slack when checking that weights
// sum to one.
const weightTolerance = 1e-6

// Validate checks the profile for internal consistency. An invalid
// profile silently corrupts every downstream result, so validation
// failures are fatal at startup.
func (p Profile) Validate() error {
	var errs []string

	if p.Name == "" {
		errs = append(errs, "name must not be empty")
	}

	for name, w := range map[string]float64{
		"ndvi":   p.Weights.NDVI,
		"size":   p.Weights.Size,
		"slope":  p.Weights.Slope,
		"height": p.Weights.Height,
	} {
		if w < 0 {
			errs = append(errs, fmt.Sprintf("%s weight must be >= 0", name))
		}
	}
	if math.Abs(p.Weights.Sum()-1.0) > weightTolerance {
		errs = append(errs, fmt.Sprintf("weights must sum to 1.0, got %.4f", p.Weights.Sum()))
	}

	if err := p.Geometry.Validate(); err != nil {
		errs = append(errs, err.Error())
	}
	if err := p.Elevation.Validate(); err != nil {
		errs = append(errs, err.Error())
	}

	if p.SizeRefM2 <= 0 {
		errs = append(errs, "size_ref_m2 must be > 0")
	}
	if p.HeightRefM <= 0 {
		errs = append(errs, "height_ref_m must be > 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("score: profile %q validation failed: %s", p.Name, strings.Join(errs, "; "))
	}
	return nil
}

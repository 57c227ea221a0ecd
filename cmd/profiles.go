package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/KrisEhl/social-sports/internal/score"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List available detection profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles, err := score.LoadProfiles(cfg.Detect.ProfilesPath)
		if err != nil {
			return err
		}

		names := make([]string, 0, len(profiles))
		for name := range profiles {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			p := profiles[name]
			fmt.Printf("%-16s area %.0f-%.0f m², aspect <= %.1f, slope <= %.1f°, height >= %.1f m, weights %.2f/%.2f/%.2f/%.2f\n",
				name,
				p.Geometry.MinAreaM2, p.Geometry.MaxAreaM2, p.Geometry.MaxAspectRatio,
				p.Elevation.MaxSlopeDeg, p.Elevation.MinHeightM,
				p.Weights.NDVI, p.Weights.Size, p.Weights.Slope, p.Weights.Height,
			)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}

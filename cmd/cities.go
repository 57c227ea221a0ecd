package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KrisEhl/social-sports/internal/detect"
)

var citiesCmd = &cobra.Command{
	Use:   "cities",
	Short: "List known city and district bounding boxes",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range detect.Cities() {
			b, err := detect.CityBounds(name)
			if err != nil {
				return err
			}
			fmt.Printf("%-24s [%.3f, %.3f, %.3f, %.3f]\n", name, b.West, b.South, b.East, b.North)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(citiesCmd)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KrisEhl/social-sports/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "sportscan",
	Short: "Satellite surface-candidate detection for sports infrastructure",
	Long:  "Analyzes Sentinel-2 imagery and Copernicus DEM tiles to locate flat rooftops and field areas suitable for new sports infrastructure, ranks them by suitability, and exports GeoJSON for urban planners.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KrisEhl/social-sports/internal/detect"
	"github.com/KrisEhl/social-sports/internal/export"
	"github.com/KrisEhl/social-sports/internal/imagery"
	"github.com/KrisEhl/social-sports/internal/model"
	"github.com/KrisEhl/social-sports/internal/score"
)

var (
	detectCity    string
	detectBBox    string
	detectProfile string
	detectOut     string
	detectShp     string
	detectReport  string
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Run candidate surface detection for a city or bounding box",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		bounds, err := resolveBounds()
		if err != nil {
			return err
		}

		profiles, err := score.LoadProfiles(cfg.Detect.ProfilesPath)
		if err != nil {
			return err
		}
		profileName := detectProfile
		if profileName == "" {
			profileName = cfg.Detect.Profile
		}
		profile, ok := profiles[profileName]
		if !ok {
			return eris.Errorf("unknown profile %q", profileName)
		}

		pipeline := &detect.Pipeline{
			Client:  imagery.NewSentinelHub(cfg.Imagery),
			Cfg:     cfg.Detect,
			Profile: profile,
		}

		result, err := pipeline.Run(ctx, bounds)
		if err != nil {
			return eris.Wrap(err, "detection run")
		}

		outPath := detectOut
		if outPath == "" {
			outPath = cfg.Export.GeoJSONPath
		}
		if err := export.WriteGeoJSONFile(outPath, result); err != nil {
			return err
		}
		zap.L().Info("wrote GeoJSON", zap.String("path", outPath))

		shpPath := detectShp
		if shpPath == "" {
			shpPath = cfg.Export.ShapefilePath
		}
		if shpPath != "" {
			if err := export.WriteShapefile(shpPath, result); err != nil {
				return err
			}
			zap.L().Info("wrote shapefile", zap.String("path", shpPath))
		}

		reportPath := detectReport
		if reportPath == "" {
			reportPath = cfg.Export.ReportPath
		}
		if reportPath != "" {
			report := export.NewRunReport(result, time.Now())
			if err := export.WriteReport(reportPath, report); err != nil {
				return err
			}
			zap.L().Info("wrote run report", zap.String("path", reportPath))
		}

		return nil
	},
}

func init() {
	detectCmd.Flags().StringVar(&detectCity, "city", "", "named city or district to analyze")
	detectCmd.Flags().StringVar(&detectBBox, "bbox", "", "explicit bounding box west,south,east,north")
	detectCmd.Flags().StringVar(&detectProfile, "profile", "", "detection profile (default from config)")
	detectCmd.Flags().StringVar(&detectOut, "out", "", "GeoJSON output path")
	detectCmd.Flags().StringVar(&detectShp, "shp", "", "optional shapefile output path")
	detectCmd.Flags().StringVar(&detectReport, "report", "", "run report output path")
	rootCmd.AddCommand(detectCmd)
}

// resolveBounds picks the run's bounding box from --city or --bbox.
func resolveBounds() (model.BBox, error) {
	switch {
	case detectCity != "" && detectBBox != "":
		return model.BBox{}, eris.New("--city and --bbox are mutually exclusive")
	case detectCity != "":
		return detect.CityBounds(detectCity)
	case detectBBox != "":
		return parseBBox(detectBBox)
	default:
		return model.BBox{}, eris.New("one of --city or --bbox is required")
	}
}

// parseBBox parses "west,south,east,north".
func parseBBox(s string) (model.BBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return model.BBox{}, eris.Errorf("bbox %q must have 4 comma-separated values", s)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return model.BBox{}, eris.Wrapf(err, "bbox component %q", p)
		}
		vals[i] = v
	}
	b := model.BBox{West: vals[0], South: vals[1], East: vals[2], North: vals[3]}
	if err := b.Validate(); err != nil {
		return model.BBox{}, err
	}
	return b, nil
}

// Package config loads the application configuration from file and
// environment and initializes the global logger. Every stage receives its
// configuration explicitly; no stage reads ambient global state.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Imagery ImageryConfig `yaml:"imagery" mapstructure:"imagery"`
	Detect  DetectConfig  `yaml:"detect" mapstructure:"detect"`
	Export  ExportConfig  `yaml:"export" mapstructure:"export"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// ImageryConfig configures the Copernicus Data Space imagery client.
type ImageryConfig struct {
	AuthURL       string `yaml:"auth_url" mapstructure:"auth_url"`
	ProcessURL    string `yaml:"process_url" mapstructure:"process_url"`
	ClientID      string `yaml:"client_id" mapstructure:"client_id"`
	Username      string `yaml:"username" mapstructure:"username"`
	Password      string `yaml:"password" mapstructure:"password"`
	TimeoutSecs   int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries    int    `yaml:"max_retries" mapstructure:"max_retries"`
	RatePerSec    int    `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	Burst         int    `yaml:"burst" mapstructure:"burst"`
	TileSizePx    int    `yaml:"tile_size_px" mapstructure:"tile_size_px"`
	MaxCloudCover int    `yaml:"max_cloud_cover" mapstructure:"max_cloud_cover"`
	LookbackDays  int    `yaml:"lookback_days" mapstructure:"lookback_days"`
}

// DetectConfig configures the detection pipeline.
type DetectConfig struct {
	Profile          string  `yaml:"profile" mapstructure:"profile"`
	ProfilesPath     string  `yaml:"profiles_path" mapstructure:"profiles_path"`
	TileSizeDeg      float64 `yaml:"tile_size_deg" mapstructure:"tile_size_deg"`
	Concurrency      int     `yaml:"concurrency" mapstructure:"concurrency"`
	TopK             int     `yaml:"top_k" mapstructure:"top_k"`
	Epsilon          float64 `yaml:"epsilon" mapstructure:"epsilon"`
	ReflectanceScale float64 `yaml:"reflectance_scale" mapstructure:"reflectance_scale"`
	SCLRejects       []int   `yaml:"scl_rejects" mapstructure:"scl_rejects"`

	// Morphological structuring-element sizes. Design constants tuned
	// for ~10 m Sentinel-2 resolution.
	CloseSize       int `yaml:"close_size" mapstructure:"close_size"`
	CloseIterations int `yaml:"close_iterations" mapstructure:"close_iterations"`
	OpenSize        int `yaml:"open_size" mapstructure:"open_size"`
	ErodeSize       int `yaml:"erode_size" mapstructure:"erode_size"`
}

// ExportConfig configures result serialization.
type ExportConfig struct {
	GeoJSONPath   string `yaml:"geojson_path" mapstructure:"geojson_path"`
	ShapefilePath string `yaml:"shapefile_path" mapstructure:"shapefile_path"`
	ReportPath    string `yaml:"report_path" mapstructure:"report_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SPORTSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("imagery.auth_url", "https://identity.dataspace.copernicus.eu/auth/realms/CDSE/protocol/openid-connect/token")
	v.SetDefault("imagery.process_url", "https://sh.dataspace.copernicus.eu/api/v1/process")
	v.SetDefault("imagery.client_id", "cdse-public")
	v.SetDefault("imagery.timeout_secs", 120)
	v.SetDefault("imagery.max_retries", 3)
	v.SetDefault("imagery.rate_per_sec", 2)
	v.SetDefault("imagery.burst", 2)
	v.SetDefault("imagery.tile_size_px", 1024)
	v.SetDefault("imagery.max_cloud_cover", 30)
	v.SetDefault("imagery.lookback_days", 180)
	v.SetDefault("detect.profile", "rooftop")
	v.SetDefault("detect.tile_size_deg", 0.05)
	v.SetDefault("detect.concurrency", 4)
	v.SetDefault("detect.top_k", 500)
	v.SetDefault("detect.epsilon", 1e-8)
	v.SetDefault("detect.reflectance_scale", 10000)
	v.SetDefault("detect.scl_rejects", []int{0, 1, 3, 8, 9, 10, 11})
	v.SetDefault("detect.close_size", 5)
	v.SetDefault("detect.close_iterations", 2)
	v.SetDefault("detect.open_size", 3)
	v.SetDefault("detect.erode_size", 3)
	v.SetDefault("export.geojson_path", "candidates.geojson")
	v.SetDefault("export.report_path", "run_report.yaml")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Detect.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects detection settings that would corrupt a whole run.
// Configuration errors are the only startup-fatal error class.
func (c DetectConfig) Validate() error {
	if c.TileSizeDeg <= 0 {
		return eris.New("config: detect.tile_size_deg must be > 0")
	}
	if c.Concurrency <= 0 {
		return eris.New("config: detect.concurrency must be > 0")
	}
	if c.TopK < 0 {
		return eris.New("config: detect.top_k must be >= 0")
	}
	if c.ReflectanceScale <= 0 {
		return eris.New("config: detect.reflectance_scale must be > 0")
	}
	for _, code := range c.SCLRejects {
		if code < 0 || code > 11 {
			return eris.Errorf("config: detect.scl_rejects code %d out of range [0, 11]", code)
		}
	}
	return nil
}

// SCLRejectCodes converts the configured reject codes to the raster type.
func (c DetectConfig) SCLRejectCodes() []uint8 {
	codes := make([]uint8, len(c.SCLRejects))
	for i, v := range c.SCLRejects {
		codes[i] = uint8(v)
	}
	return codes
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

package config

// Config holds pdfsift configuration.
// Loaded from ./config.yaml or ~/.pdfsift/config.yaml, overridable via
// PDFSIFT_* environment variables.
type Config struct {
	// Workers is the fan-out width for page-level and document-level jobs.
	Workers int `mapstructure:"workers" yaml:"workers"`

	// MaxPages caps how many pages the raster pipeline processes per
	// document. 0 means all pages. Text extraction is never capped.
	MaxPages int `mapstructure:"max_pages" yaml:"max_pages"`

	// RasterThreshold is the edge-density cutoff above which a textless
	// document is classified as raster.
	RasterThreshold float64 `mapstructure:"raster_threshold" yaml:"raster_threshold"`

	// EdgeLowThreshold and EdgeHighThreshold are the weak/strong gradient
	// magnitude cutoffs for the edge detector.
	EdgeLowThreshold  int `mapstructure:"edge_low_threshold" yaml:"edge_low_threshold"`
	EdgeHighThreshold int `mapstructure:"edge_high_threshold" yaml:"edge_high_threshold"`

	// ThresholdBlockSize is the neighborhood size for adaptive
	// binarization. Must be odd.
	ThresholdBlockSize int `mapstructure:"threshold_block_size" yaml:"threshold_block_size"`

	// ThresholdC is the constant subtracted from the neighborhood mean
	// during adaptive binarization.
	ThresholdC int `mapstructure:"threshold_c" yaml:"threshold_c"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// DefaultConfig returns configuration with sensible defaults.
// The classification thresholds (0.95 density, 100/200 edge cutoffs) and
// binarization parameters (11/2) are load-bearing: results are only
// comparable across runs if they match.
func DefaultConfig() *Config {
	return &Config{
		Workers:            4,
		MaxPages:           0,
		RasterThreshold:    0.95,
		EdgeLowThreshold:   100,
		EdgeHighThreshold:  200,
		ThresholdBlockSize: 11,
		ThresholdC:         2,
		LogLevel:           "info",
	}
}

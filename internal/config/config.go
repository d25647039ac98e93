// Package config handles loading and hot-reloading pdfsift configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a new config manager and loads initial config.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{
		callbacks: make([]func(*Config), 0),
	}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile string) error {
	defaults := DefaultConfig()
	viper.SetDefault("workers", defaults.Workers)
	viper.SetDefault("max_pages", defaults.MaxPages)
	viper.SetDefault("raster_threshold", defaults.RasterThreshold)
	viper.SetDefault("edge_low_threshold", defaults.EdgeLowThreshold)
	viper.SetDefault("edge_high_threshold", defaults.EdgeHighThreshold)
	viper.SetDefault("threshold_block_size", defaults.ThresholdBlockSize)
	viper.SetDefault("threshold_c", defaults.ThresholdC)
	viper.SetDefault("log_level", defaults.LogLevel)

	// Environment variables with PDFSIFT_ prefix
	viper.SetEnvPrefix("PDFSIFT")
	viper.AutomaticEnv()

	// Config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.pdfsift")
	}

	// Try to read config file (not required)
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	if c.MaxPages < 0 {
		return fmt.Errorf("max_pages must be >= 0, got %d", c.MaxPages)
	}
	if c.ThresholdBlockSize < 3 || c.ThresholdBlockSize%2 == 0 {
		return fmt.Errorf("threshold_block_size must be odd and >= 3, got %d", c.ThresholdBlockSize)
	}
	if c.RasterThreshold < 0 || c.RasterThreshold > 1 {
		return fmt.Errorf("raster_threshold must be in [0,1], got %v", c.RasterThreshold)
	}
	if c.EdgeLowThreshold < 0 || c.EdgeLowThreshold > 255 ||
		c.EdgeHighThreshold < 0 || c.EdgeHighThreshold > 255 {
		return fmt.Errorf("edge thresholds must be in [0,255], got %d/%d",
			c.EdgeLowThreshold, c.EdgeHighThreshold)
	}
	if c.EdgeLowThreshold > c.EdgeHighThreshold {
		return fmt.Errorf("edge_low_threshold %d exceeds edge_high_threshold %d",
			c.EdgeLowThreshold, c.EdgeHighThreshold)
	}
	return nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration.
func (cm *Manager) WatchConfig() {
	viper.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	viper.WatchConfig()
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# pdfsift configuration
# Changing classification thresholds changes how documents are typed;
# results will not be comparable with previous runs.

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/sohonetlabs/swift-sum/pkg/segmented"
	"github.com/sohonetlabs/swift-sum/pkg/units"
)

// Output formats.
const (
	FormatRows = "rows" // "path digest"
	FormatTag  = "tag"  // "MD5 (path) = digest"
)

// Config defines configuration for the swift-sum CLI.
type Config struct {
	SegmentSize int64  `yaml:"segment_size"`
	ReadSize    int64  `yaml:"read_size"`
	Workers     int    `yaml:"workers"`
	Format      string `yaml:"format"`
	Verbose     bool   `yaml:"verbose"`
	Progress    bool   `yaml:"progress"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		SegmentSize: segmented.DefaultSegmentSize,
		ReadSize:    segmented.DefaultReadSize,
		Workers:     1,
		Format:      FormatRows,
	}
}

// yamlConfig is used for YAML unmarshaling with string sizes.
type yamlConfig struct {
	SegmentSize string `yaml:"segment_size"`
	ReadSize    string `yaml:"read_size"`
	Workers     int    `yaml:"workers"`
	Format      string `yaml:"format"`
	Verbose     bool   `yaml:"verbose"`
	Progress    bool   `yaml:"progress"`
}

// ResolveSize parses a size option: a human-readable string via units.Parse,
// falling back to a bare integer byte count.
func ResolveSize(s string) (int64, error) {
	n, err := units.Parse(s)
	if err == nil {
		return n, nil
	}
	if raw, ierr := strconv.ParseInt(s, 10, 64); ierr == nil {
		return raw, nil
	}
	return 0, err
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.SegmentSize != "" {
		size, err := ResolveSize(yc.SegmentSize)
		if err != nil {
			return Config{}, fmt.Errorf("parse segment_size: %w", err)
		}
		cfg.SegmentSize = size
	}
	if yc.ReadSize != "" {
		size, err := ResolveSize(yc.ReadSize)
		if err != nil {
			return Config{}, fmt.Errorf("parse read_size: %w", err)
		}
		cfg.ReadSize = size
	}
	if yc.Workers != 0 {
		cfg.Workers = yc.Workers
	}
	if yc.Format != "" {
		cfg.Format = yc.Format
	}
	cfg.Verbose = yc.Verbose
	cfg.Progress = yc.Progress

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the SWIFT_SUM_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("SWIFT_SUM_SEGMENT_SIZE"); v != "" {
		size, err := ResolveSize(v)
		if err != nil {
			return fmt.Errorf("parse SWIFT_SUM_SEGMENT_SIZE: %w", err)
		}
		c.SegmentSize = size
	}
	if v := os.Getenv("SWIFT_SUM_READ_SIZE"); v != "" {
		size, err := ResolveSize(v)
		if err != nil {
			return fmt.Errorf("parse SWIFT_SUM_READ_SIZE: %w", err)
		}
		c.ReadSize = size
	}
	if v := os.Getenv("SWIFT_SUM_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse SWIFT_SUM_WORKERS: %w", err)
		}
		c.Workers = n
	}
	if v := os.Getenv("SWIFT_SUM_FORMAT"); v != "" {
		c.Format = v
	}
	if v := os.Getenv("SWIFT_SUM_VERBOSE"); v != "" {
		c.Verbose = v == "true" || v == "1"
	}
	if v := os.Getenv("SWIFT_SUM_PROGRESS"); v != "" {
		c.Progress = v == "true" || v == "1"
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.SegmentSize <= 0 {
		return errors.New("config: segment size must be positive")
	}
	if c.ReadSize <= 0 {
		return errors.New("config: read size must be positive")
	}
	if c.Workers <= 0 {
		return errors.New("config: workers must be positive")
	}
	if c.Format != FormatRows && c.Format != FormatTag {
		return fmt.Errorf("config: unknown format %q", c.Format)
	}
	return nil
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored.
func (c Config) Merge(override Config) Config {
	if override.SegmentSize != 0 {
		c.SegmentSize = override.SegmentSize
	}
	if override.ReadSize != 0 {
		c.ReadSize = override.ReadSize
	}
	if override.Workers != 0 {
		c.Workers = override.Workers
	}
	if override.Format != "" {
		c.Format = override.Format
	}
	if override.Verbose {
		c.Verbose = override.Verbose
	}
	if override.Progress {
		c.Progress = override.Progress
	}
	return c
}

// Package config loads weft.json, the project configuration consumed by
// the weft command.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "weft.json"

	// DefaultAddress is the default serve address.
	DefaultAddress = ":8080"

	// DefaultHistorySize is the default frame retention.
	DefaultHistorySize = 128

	// DefaultLogLevel is the default slog level name.
	DefaultLogLevel = "info"
)

// Config is the weft.json schema.
type Config struct {
	// Name is the project name, used as the default page title.
	Name string `json:"name,omitempty"`

	// Address is the serve listen address.
	Address string `json:"address,omitempty"`

	// ClientScript is the feed client script path injected into the
	// snapshot page.
	ClientScript string `json:"clientScript,omitempty"`

	// HistorySize is how many patch frames the engine retains for
	// replay.
	HistorySize int `json:"historySize,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel,omitempty"`

	// Metrics enables the /metrics endpoint.
	Metrics bool `json:"metrics,omitempty"`

	// Archive configures long-term frame storage.
	Archive ArchiveConfig `json:"archive,omitempty"`
}

// ArchiveConfig selects where frames are archived past the in-memory
// history.
type ArchiveConfig struct {
	// S3Bucket enables S3 archival when set.
	S3Bucket string `json:"s3Bucket,omitempty"`

	// S3Prefix prefixes every archive object key.
	S3Prefix string `json:"s3Prefix,omitempty"`

	// S3Region overrides the region from the AWS environment.
	S3Region string `json:"s3Region,omitempty"`
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	return &Config{
		Address:     DefaultAddress,
		HistorySize: DefaultHistorySize,
		LogLevel:    DefaultLogLevel,
	}
}

// applyDefaults fills unset fields in place.
func (c *Config) applyDefaults() {
	if c.Address == "" {
		c.Address = DefaultAddress
	}
	if c.HistorySize <= 0 {
		c.HistorySize = DefaultHistorySize
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// Validate reports configuration errors.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	if c.HistorySize < 0 {
		return fmt.Errorf("config: negative history size %d", c.HistorySize)
	}
	return nil
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Find walks up from dir looking for weft.json. Returns the config and
// the directory containing it.
func Find(dir string) (*Config, string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, "", err
	}
	for {
		path := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			c, err := Load(path)
			if err != nil {
				return nil, "", err
			}
			return c, dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, "", fmt.Errorf("config: no %s found from %s upward", ConfigFileName, dir)
		}
		dir = parent
	}
}

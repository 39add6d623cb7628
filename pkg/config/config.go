// Package config provides configuration management for pxget.
// It handles loading, validating and saving the YAML settings file and resolves
// the download cache root from the environment, the settings file and the
// built-in default, in that order.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"

	"github.com/glorpus-work/pxget/pkg/errors"
	"github.com/glorpus-work/pxget/pkg/fsutil"
)

// Config represents the application configuration.
type Config struct {
	// Version is the schema version of the settings file.
	Version string `yaml:"version"`

	// General settings
	Settings Settings `yaml:"settings"`

	// Hooks run after transfers complete.
	Hooks Hooks `yaml:"hooks,omitempty"`
}

// Settings represents general application settings.
type Settings struct {
	// Cache settings
	DataDir string `yaml:"data_dir,omitempty"`

	// Network settings
	Timeout       time.Duration `yaml:"timeout"`
	MaxReconnects int           `yaml:"max_reconnects"`
	MaxDepth      int           `yaml:"max_depth"`

	// Download settings
	Extract     bool   `yaml:"extract"`
	MetricsFile string `yaml:"metrics_file,omitempty"`

	// Output settings
	OutputFormat string `yaml:"output_format"` // text, json
	LogLevel     string `yaml:"log_level"`     // debug, info, warn, error
}

// Hooks names tengo scripts run on download events.
type Hooks struct {
	PostDownload string `yaml:"post_download,omitempty"`
}

// Default configuration values.
const (
	// SchemaVersion is written to new settings files.
	SchemaVersion = "1.0"

	// SupportedSchemas is the version constraint a loaded file must satisfy.
	SupportedSchemas = ">= 1.0, < 2.0"

	// DefaultTimeout is the per-operation network timeout.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxReconnects is the number of attempts per FTP operation.
	DefaultMaxReconnects = 10

	// DefaultMaxDepth bounds remote listings below the project root.
	DefaultMaxDepth = 4

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: SchemaVersion,
		Settings: Settings{
			Timeout:       DefaultTimeout,
			MaxReconnects: DefaultMaxReconnects,
			MaxDepth:      DefaultMaxDepth,
			OutputFormat:  "text",
			LogLevel:      "info",
		},
	}
}

// LoadConfig loads configuration from a file. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	// Keys absent from the file keep their default, so max_depth: 0 stays 0.
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrConfigValidation, err)
	}

	return config, nil
}

// SaveConfig saves configuration to a file, replacing it atomically.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	if err := fsutil.EnsureFileDir(path); err != nil {
		return errors.Wrap(errors.ErrConfigDirectory, err.Error())
	}

	data, err := c.ToYAML()
	if err != nil {
		return err
	}

	if err := fsutil.WriteFileAtomic(path, data, fsutil.FileModeDefault); err != nil {
		return errors.Wrap(errors.ErrConfigFileCreate, err.Error())
	}
	return nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	var b strings.Builder
	encoder := yaml.NewEncoder(&b)
	encoder.SetIndent(YAMLIndent)
	if err := encoder.Encode(c); err != nil {
		return nil, errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	if err := encoder.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	return []byte(b.String()), nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	if err := validateVersion(c.Version); err != nil {
		return err
	}
	return validateSettings(c.Settings)
}

func validateVersion(v string) error {
	parsed, err := version.NewVersion(v)
	if err != nil {
		return fmt.Errorf("invalid schema version %q: %w", v, err)
	}
	constraint, err := version.NewConstraint(SupportedSchemas)
	if err != nil {
		return err
	}
	if !constraint.Check(parsed) {
		return fmt.Errorf("schema version %s is not supported (want %s)", v, SupportedSchemas)
	}
	return nil
}

func validateSettings(s Settings) error {
	if s.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	if s.MaxReconnects < 1 {
		return fmt.Errorf("max_reconnects must be at least 1")
	}
	if s.MaxDepth < -1 {
		return fmt.Errorf("max_depth must be -1 (unbounded) or greater")
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[s.OutputFormat] {
		return fmt.Errorf("invalid output format: %s (must be one of: text, json)", s.OutputFormat)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(s.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", s.LogLevel)
	}
	return nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := fsutil.GetConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Settings.Timeout == 0 {
		c.Settings.Timeout = defaults.Settings.Timeout
	}
	if c.Settings.MaxReconnects == 0 {
		c.Settings.MaxReconnects = defaults.Settings.MaxReconnects
	}
	if c.Settings.OutputFormat == "" {
		c.Settings.OutputFormat = defaults.Settings.OutputFormat
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
}

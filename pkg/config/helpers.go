package config

import (
	"fmt"
	"strconv"
	"time"
)

// Keys lists the settings reachable through SetValue and GetValue, in display order.
var Keys = []string{
	"data_dir",
	"timeout",
	"max_reconnects",
	"max_depth",
	"extract",
	"metrics_file",
	"output_format",
	"log_level",
	"post_download",
}

// SetValue sets a configuration value by key. The config is validated after
// the change and left untouched when the new value is rejected.
func (c *Config) SetValue(key, value string) error {
	updated := *c
	s := &updated.Settings

	switch key {
	case "data_dir":
		s.DataDir = value
	case "timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %s", key, value)
		}
		s.Timeout = d
	case "max_reconnects":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %s", key, value)
		}
		s.MaxReconnects = n
	case "max_depth":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %s", key, value)
		}
		s.MaxDepth = n
	case "extract":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value for %s: %s", key, value)
		}
		s.Extract = b
	case "metrics_file":
		s.MetricsFile = value
	case "output_format":
		s.OutputFormat = value
	case "log_level":
		s.LogLevel = value
	case "post_download":
		updated.Hooks.PostDownload = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	if err := updated.Validate(); err != nil {
		return err
	}
	*c = updated
	return nil
}

// GetValue returns the value for key as a string.
func (c *Config) GetValue(key string) (string, error) {
	s := c.Settings
	switch key {
	case "data_dir":
		return s.DataDir, nil
	case "timeout":
		return s.Timeout.String(), nil
	case "max_reconnects":
		return strconv.Itoa(s.MaxReconnects), nil
	case "max_depth":
		return strconv.Itoa(s.MaxDepth), nil
	case "extract":
		return strconv.FormatBool(s.Extract), nil
	case "metrics_file":
		return s.MetricsFile, nil
	case "output_format":
		return s.OutputFormat, nil
	case "log_level":
		return s.LogLevel, nil
	case "post_download":
		return c.Hooks.PostDownload, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// ToMap returns every known key with its current value.
// This is useful for displaying the configuration.
func (c *Config) ToMap() map[string]string {
	result := make(map[string]string, len(Keys))
	for _, key := range Keys {
		v, _ := c.GetValue(key)
		result[key] = v
	}
	return result
}

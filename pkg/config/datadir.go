package config

import (
	"fmt"
	"os"

	"github.com/glorpus-work/pxget/pkg/errors"
	"github.com/glorpus-work/pxget/pkg/fsutil"
)

// DataDir resolves the download cache root: the PXGET_DATA_DIR environment
// variable, then settings.data_dir, then ~/.pxget. A leading ~ is expanded
// and the result is absolute. The directory is not created.
func (c *Config) DataDir() (string, error) {
	dir, _, err := c.resolveDataDir()
	return dir, err
}

// EnsureDataDir resolves the cache root and makes sure it exists. The default
// location is created on demand; an explicitly configured one must already exist.
func (c *Config) EnsureDataDir() (string, error) {
	dir, explicit, err := c.resolveDataDir()
	if err != nil {
		return "", err
	}
	if explicit {
		if !fsutil.Exists(dir) {
			return "", fmt.Errorf("%w: %s", errors.ErrDataDirMissing, dir)
		}
		return dir, nil
	}
	if err := fsutil.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("%w: %w", errors.ErrLocalPath, err)
	}
	return dir, nil
}

func (c *Config) resolveDataDir() (string, bool, error) {
	if dir := os.Getenv(fsutil.DataDirEnv); dir != "" {
		expanded, err := fsutil.ExpandPath(dir)
		return expanded, true, err
	}
	if c != nil && c.Settings.DataDir != "" {
		expanded, err := fsutil.ExpandPath(c.Settings.DataDir)
		return expanded, true, err
	}
	dir, err := fsutil.GetDefaultDataDir()
	if err != nil {
		return "", false, err
	}
	expanded, err := fsutil.ExpandPath(dir)
	return expanded, false, err
}

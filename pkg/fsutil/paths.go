package fsutil

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

const (
	// AppName is the name of the application used in paths
	AppName = "pxget"
	// DataDirEnv overrides the download cache root.
	DataDirEnv = "PXGET_DATA_DIR"
)

// GetConfigDir returns the platform-specific configuration directory, e.g.
// ~/.config/pxget on Linux.
func GetConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, AppName), nil
}

// GetDefaultDataDir returns ~/.pxget.
func GetDefaultDataDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "."+AppName), nil
}

// ExpandPath expands a leading ~ and makes the path absolute.
func ExpandPath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(expanded)
}

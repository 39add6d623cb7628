package cache

import (
	"fmt"
	"strings"

	"github.com/glorpus-work/pxget/internal/logger"
)

// Operation wraps a Manager with human-readable reporting for the CLI.
type Operation struct {
	manager Manager
}

// NewOperation creates a new cache operation instance.
func NewOperation(manager Manager) *Operation {
	return &Operation{
		manager: manager,
	}
}

// Clean cleans the cache based on the provided options.
func (op *Operation) Clean(options CleanOptions) (string, error) {
	logger.Debug("Cleaning cache", logger.Fields{
		"all":      options.All,
		"metadata": options.Metadata,
		"data":     options.Data,
		"projects": options.Projects,
	})

	result, err := op.manager.Clean(options)
	if err != nil {
		return "", fmt.Errorf("failed to clean cache: %w", err)
	}

	if result.TotalFreed == 0 {
		return "No files were removed from the cache.", nil
	}

	msg := fmt.Sprintf("Successfully cleaned %d project(s). Freed %s of disk space.",
		result.Projects, FormatBytes(result.TotalFreed))
	if result.MetadataFreed > 0 {
		msg += fmt.Sprintf("\n- Metadata: %s", FormatBytes(result.MetadataFreed))
	}
	if result.DataFreed > 0 {
		msg += fmt.Sprintf("\n- Data: %s", FormatBytes(result.DataFreed))
	}
	return msg, nil
}

// GetInfo returns information about the cache.
func (op *Operation) GetInfo() (string, error) {
	info, err := op.manager.GetInfo()
	if err != nil {
		return "", fmt.Errorf("failed to get cache info: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Cache Information:
  Directory:    %s
  Total Size:   %s
  Data:         %s (%d files)
  Metadata:     %s
  Projects:     %d`,
		info.Directory,
		FormatBytes(info.TotalSize),
		FormatBytes(info.DataSize),
		info.DataFiles,
		FormatBytes(info.MetadataSize),
		len(info.Projects),
	)
	return b.String(), nil
}

// GetDirectory returns the cache directory path.
func (op *Operation) GetDirectory() string {
	return op.manager.GetDirectory()
}

// FormatBytes converts bytes to a human-readable string.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	units := []string{"K", "M", "G", "T", "P", "E"}
	if exp < len(units) {
		return fmt.Sprintf("%.1f %sB", float64(bytes)/float64(div), units[exp])
	}
	return fmt.Sprintf("%d B", bytes)
}

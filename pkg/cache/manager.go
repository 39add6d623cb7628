package cache

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/glorpus-work/pxget/pkg/errors"
	"github.com/glorpus-work/pxget/pkg/fsutil"
)

// DefaultManager implements the Manager interface over a data root that holds
// one directory per project.
type DefaultManager struct {
	directory string
}

// NewManager creates a new cache manager.
func NewManager(directory string) *DefaultManager {
	return &DefaultManager{
		directory: directory,
	}
}

// IsSidecar reports whether name is a cached metadata file.
func IsSidecar(name string) bool {
	return strings.HasPrefix(filepath.Base(name), ".")
}

// Clean removes cached files according to the specified options.
func (cm *DefaultManager) Clean(options CleanOptions) (*CleanResult, error) {
	result := &CleanResult{}

	// Default to cleaning metadata only; data is never removed implicitly.
	if !options.All && !options.Metadata && !options.Data {
		options.Metadata = true
	}
	if options.All {
		options.Metadata = true
		options.Data = true
	}

	projects, err := cm.projectDirs(options.Projects)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCacheClean, err)
	}

	for _, project := range projects {
		dir := filepath.Join(cm.directory, project)
		metadata, data, err := cleanProject(dir, options.Metadata, options.Data)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to clean project %s", project)
		}
		if metadata+data > 0 {
			result.Projects++
		}
		result.MetadataFreed += metadata
		result.DataFreed += data
	}
	result.TotalFreed = result.MetadataFreed + result.DataFreed

	return result, nil
}

// GetInfo returns information about the cache.
func (cm *DefaultManager) GetInfo() (*Info, error) {
	info := &Info{
		Directory: cm.directory,
		Projects:  []ProjectInfo{},
	}

	projects, err := cm.projectDirs(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCacheInfo, err)
	}

	for _, project := range projects {
		p, err := projectInfo(filepath.Join(cm.directory, project))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCacheInfo, err)
		}
		p.Identifier = project
		info.Projects = append(info.Projects, p)
		info.MetadataSize += p.MetadataSize
		info.DataSize += p.DataSize
		info.DataFiles += p.DataFiles
	}
	info.TotalSize = info.MetadataSize + info.DataSize

	return info, nil
}

// GetDirectory returns the cache directory path.
func (cm *DefaultManager) GetDirectory() string {
	return cm.directory
}

// SetDirectory sets the cache directory path.
func (cm *DefaultManager) SetDirectory(dir string) error {
	if dir == "" {
		return ErrCacheDirectory
	}
	cm.directory = dir
	return nil
}

// projectDirs lists the project directories under the root, restricted to
// only when it is non-empty.
func (cm *DefaultManager) projectDirs(only []string) ([]string, error) {
	entries, err := os.ReadDir(cm.directory)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, e := range entries {
		if !e.IsDir() || IsSidecar(e.Name()) {
			continue
		}
		if len(only) > 0 && !slices.Contains(only, e.Name()) {
			continue
		}
		dirs = append(dirs, e.Name())
	}
	slices.Sort(dirs)
	return dirs, nil
}

// cleanProject removes sidecars and/or data files from a project directory and
// returns the bytes freed for each.
func cleanProject(dir string, metadata, data bool) (metadataFreed, dataFreed int64, err error) {
	if data {
		metadataSize, dataSize, _, err := getDirSizeAndFiles(dir)
		if err != nil {
			return 0, 0, err
		}
		if err := os.RemoveAll(dir); err != nil {
			return 0, 0, errors.Wrapf(err, "failed to remove directory %s", dir)
		}
		// Removing the directory takes the sidecars with it.
		return metadataSize, dataSize, nil
	}
	if !metadata {
		return 0, 0, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, 0, err
	}
	for _, e := range entries {
		if e.IsDir() || !IsSidecar(e.Name()) {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			return 0, 0, err
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return 0, 0, errors.Wrapf(err, "failed to remove %s", e.Name())
		}
		metadataFreed += fi.Size()
	}
	return metadataFreed, 0, nil
}

func projectInfo(dir string) (ProjectInfo, error) {
	p := ProjectInfo{Sidecars: []string{}}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return p, err
	}
	for _, e := range entries {
		if !e.IsDir() && IsSidecar(e.Name()) {
			p.Sidecars = append(p.Sidecars, e.Name())
		}
	}
	p.MetadataSize, p.DataSize, p.DataFiles, err = getDirSizeAndFiles(dir)
	return p, err
}

// getDirSizeAndFiles calculates the size of a project directory, split into
// top-level sidecars and everything else.
// Returns:
//   - metadata: total size of sidecar files in bytes
//   - data: total size of downloaded files in bytes
//   - count: number of downloaded files
//   - err: any error that occurred during the operation
func getDirSizeAndFiles(dir string) (metadata, data int64, count int, err error) {
	if !fsutil.Exists(dir) {
		return 0, 0, 0, nil
	}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		if filepath.Dir(path) == dir && IsSidecar(d.Name()) {
			metadata += fi.Size()
			return nil
		}
		data += fi.Size()
		count++
		return nil
	})
	if err != nil {
		err = errors.Wrapf(err, "error walking directory %s", dir)
	}
	return metadata, data, count, err
}

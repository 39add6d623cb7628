// Package archive unpacks downloaded project files such as zip bundles,
// tarballs and gzipped peak lists.
package archive

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"

	"github.com/glorpus-work/pxget/internal/logger"
	"github.com/glorpus-work/pxget/pkg/fsutil"
)

// ErrNotArchive is returned for files that are neither archived nor compressed.
var ErrNotArchive = fmt.Errorf("not an archive or compressed file")

// Manager handles archive extraction.
type Manager struct{}

// NewManager creates a new Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// Extract unpacks the file at path next to itself and returns the result.
// Archives are extracted into a directory named after the file without its
// archive extension; single compressed files are decompressed to the file
// name without the compression extension.
func (am *Manager) Extract(ctx context.Context, path string) (string, error) {
	format, err := identify(ctx, path)
	if err != nil {
		return "", err
	}

	dest := trimExtension(path, format.Extension())
	switch f := format.(type) {
	case archives.Extractor:
		logger.Debug("extracting archive", logger.Fields{"path": path, "dest": dest})
		return dest, am.ExtractAll(ctx, path, dest)
	case archives.Decompressor:
		logger.Debug("decompressing file", logger.Fields{"path": path, "dest": dest})
		return dest, decompress(f, path, dest)
	default:
		return "", fmt.Errorf("%w: %s", ErrNotArchive, path)
	}
}

// ExtractAll extracts all files from an archive to the specified destination directory.
func (am *Manager) ExtractAll(ctx context.Context, archivePath, destDir string) error {
	fsys, err := archives.FileSystem(ctx, archivePath, nil)
	if err != nil {
		return fmt.Errorf("failed to open archive file: %w", err)
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	if err := fsutil.EnsureDir(destDir); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	return fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		return am.extractEntry(fsys, path, destDir, d)
	})
}

func identify(ctx context.Context, path string) (archives.Format, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	format, _, err := archives.Identify(ctx, filepath.Base(path), file)
	if stderrors.Is(err, archives.NoMatch) {
		return nil, fmt.Errorf("%w: %s", ErrNotArchive, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to identify %s: %w", path, err)
	}
	return format, nil
}

func trimExtension(path, ext string) string {
	base := filepath.Base(path)
	if ext != "" && len(base) > len(ext) && strings.EqualFold(base[len(base)-len(ext):], ext) {
		return path[:len(path)-len(ext)]
	}
	return path + ".extracted"
}

func decompress(dec archives.Decompressor, path, dest string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = src.Close() }()

	rc, err := dec.OpenReader(src)
	if err != nil {
		return fmt.Errorf("failed to decompress %s: %w", path, err)
	}
	defer func() { _ = rc.Close() }()

	dst, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dest, err)
	}
	if _, err := io.Copy(dst, rc); err != nil {
		_ = dst.Close()
		return fmt.Errorf("failed to decompress %s: %w", path, err)
	}
	return dst.Close()
}

// extractEntry processes a single archive entry and writes it to destDir.
func (am *Manager) extractEntry(fsys fs.FS, path, destDir string, d fs.DirEntry) error {
	if path == "." {
		return nil
	}

	targetPath := filepath.Join(destDir, filepath.FromSlash(path))

	if d.IsDir() {
		return fsutil.EnsureDir(targetPath)
	}

	info, err := d.Info()
	if err != nil {
		return fmt.Errorf("failed to get file info for %s: %w", path, err)
	}

	if !info.Mode().IsRegular() {
		logger.Debug("skipping archive entry", logger.Fields{"path": path, "mode": info.Mode().String()})
		return nil
	}

	return am.writeRegularFile(fsys, path, targetPath, info)
}

// writeRegularFile writes a regular file from the archive entry to targetPath and preserves metadata.
func (am *Manager) writeRegularFile(fsys fs.FS, path, targetPath string, info fs.FileInfo) error {
	srcFile, err := fsys.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", path, err)
	}
	defer func() { _ = srcFile.Close() }()

	if err := fsutil.EnsureFileDir(targetPath); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", path, err)
	}

	dstFile, err := fsutil.CreateFilePerm(targetPath, info.Mode().Perm()|0o200)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", targetPath, err)
	}
	defer func() { _ = dstFile.Close() }()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy file %s: %w", path, err)
	}

	if err := os.Chtimes(targetPath, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("failed to set modification time for %s: %w", targetPath, err)
	}
	return nil
}

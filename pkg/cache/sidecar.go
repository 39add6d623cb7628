package cache

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/glorpus-work/pxget/internal/logger"
	"github.com/glorpus-work/pxget/pkg/errors"
	"github.com/glorpus-work/pxget/pkg/fsutil"
)

// Result is a cache lookup that either holds a value or does not.
type Result[T any] struct {
	Value   T
	Present bool
}

// Lines is a sidecar holding newline-delimited relative paths.
type Lines struct {
	path string
}

// NewLines returns a sidecar backed by path. Nothing is read until Load.
func NewLines(path string) *Lines {
	return &Lines{path: path}
}

// Path returns the sidecar location.
func (l *Lines) Path() string { return l.path }

// Load returns the cached lines. With fetch set the cache is bypassed and the
// result is always absent.
func (l *Lines) Load(fetch bool) (Result[[]string], error) {
	data, ok, err := readSidecar(l.path, fetch)
	if err != nil || !ok {
		return Result[[]string]{}, err
	}
	lines := []string{}
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimRight(line, "\r"); line != "" {
			lines = append(lines, line)
		}
	}
	return Result[[]string]{Value: lines, Present: true}, nil
}

// Store replaces the cached lines.
func (l *Lines) Store(lines []string) error {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return writeSidecar(l.path, []byte(b.String()))
}

// Invalidate removes the sidecar. Missing sidecars are not an error.
func (l *Lines) Invalidate() error {
	return removeSidecar(l.path)
}

// ReadThrough returns the cached lines unless fetch is set or none are cached,
// in which case fill is called and its result stored.
func (l *Lines) ReadThrough(ctx context.Context, fetch bool, fill func(context.Context) ([]string, error)) ([]string, error) {
	cached, err := l.Load(fetch)
	if err != nil {
		return nil, err
	}
	if cached.Present {
		return cached.Value, nil
	}
	lines, err := fill(ctx)
	if err != nil {
		return nil, err
	}
	if err := l.Store(lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// Blob is a sidecar holding an opaque metadata document (JSON, XML or CSV).
type Blob struct {
	path string
}

// NewBlob returns a sidecar backed by path.
func NewBlob(path string) *Blob {
	return &Blob{path: path}
}

// Path returns the sidecar location.
func (b *Blob) Path() string { return b.path }

// Load returns the cached document, or an absent result when fetch is set.
func (b *Blob) Load(fetch bool) (Result[[]byte], error) {
	data, ok, err := readSidecar(b.path, fetch)
	if err != nil || !ok {
		return Result[[]byte]{}, err
	}
	return Result[[]byte]{Value: data, Present: true}, nil
}

// Store replaces the cached document.
func (b *Blob) Store(data []byte) error {
	return writeSidecar(b.path, data)
}

// Invalidate removes the sidecar.
func (b *Blob) Invalidate() error {
	return removeSidecar(b.path)
}

// ReadThrough serves the cached document unless fetch is set. A fill that
// never got a response falls back to an existing cached copy. HTTP errors
// are returned.
func (b *Blob) ReadThrough(ctx context.Context, fetch bool, fill func(context.Context) ([]byte, error)) ([]byte, error) {
	cached, err := b.Load(false)
	if err != nil {
		return nil, err
	}
	if cached.Present && !fetch {
		return cached.Value, nil
	}

	data, err := fill(ctx)
	if err != nil {
		var fetchErr *errors.MetadataFetchError
		if cached.Present && stderrors.As(err, &fetchErr) && fetchErr.StatusCode == 0 {
			logger.Warn("using cached metadata", logger.Fields{"path": b.path, "error": err.Error()})
			return cached.Value, nil
		}
		return nil, err
	}
	if err := b.Store(data); err != nil {
		return nil, err
	}
	return data, nil
}

func readSidecar(path string, fetch bool) ([]byte, bool, error) {
	if fetch {
		return nil, false, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w %s: %w", ErrSidecarRead, path, err)
	}
	return data, true, nil
}

func writeSidecar(path string, data []byte) error {
	if err := fsutil.WriteFileAtomic(path, data, SidecarPerm); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrLocalPath, err)
	}
	return nil
}

func removeSidecar(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %w", errors.ErrLocalPath, err)
	}
	return nil
}

// Package project ties a repository backend to its local project directory.
package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/glorpus-work/pxget/internal/logger"
	"github.com/glorpus-work/pxget/pkg/cache"
	"github.com/glorpus-work/pxget/pkg/errors"
	"github.com/glorpus-work/pxget/pkg/fsutil"
	"github.com/glorpus-work/pxget/pkg/repository"
	"github.com/glorpus-work/pxget/pkg/transfer"
)

// Options controls how a handle uses its cached listings.
type Options struct {
	// Fetch ignores the listing sidecars on the first lookup and rewrites them.
	Fetch bool
	// MaxDepth bounds the remote walk; see transfer.Walk.
	MaxDepth int
}

// Handle is an opened project: a backend plus its listing cache.
type Handle struct {
	backend   repository.Backend
	opts      Options
	files     *cache.Lines
	dirs      *cache.Lines
	refreshed bool
}

// Open prepares the backend's project directory and returns a handle on it.
func Open(_ context.Context, backend repository.Backend, opts Options) (*Handle, error) {
	local := backend.Local()
	if err := fsutil.EnsureDir(local); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrLocalPath, local, err)
	}
	return &Handle{
		backend: backend,
		opts:    opts,
		files:   cache.NewLines(filepath.Join(local, cache.RemoteFilesName)),
		dirs:    cache.NewLines(filepath.Join(local, cache.RemoteDirsName)),
	}, nil
}

// ID returns the repository-native accession.
func (h *Handle) ID() string { return h.backend.ID() }

// Kind returns the hosting repository.
func (h *Handle) Kind() repository.Kind { return h.backend.Kind() }

// Local returns the project directory.
func (h *Handle) Local() string { return h.backend.Local() }

// Backend returns the repository backend behind the handle.
func (h *Handle) Backend() repository.Backend { return h.backend }

// fetch reports whether the sidecars must be bypassed. A handle refreshes
// its listing at most once.
func (h *Handle) fetch() bool {
	return h.opts.Fetch && !h.refreshed
}

// fill lists the remote tree and stores the sidecar that is not being read
// through, so one walk refreshes both.
func (h *Handle) fill(sibling *cache.Lines, pick func(transfer.Listing) ([]string, []string)) func(context.Context) ([]string, error) {
	return func(ctx context.Context) ([]string, error) {
		logger.Debug("listing remote project", logger.Fields{"id": h.ID(), "max_depth": h.opts.MaxDepth})
		listing, err := h.backend.List(ctx, h.opts.MaxDepth)
		if err != nil {
			return nil, err
		}
		mine, other := pick(listing)
		if err := sibling.Store(other); err != nil {
			return nil, err
		}
		h.refreshed = true
		return mine, nil
	}
}

// RemoteFiles returns the remote files matching glob, sorted.
func (h *Handle) RemoteFiles(ctx context.Context, glob string) ([]string, error) {
	files, err := h.files.ReadThrough(ctx, h.fetch(), h.fill(h.dirs, func(l transfer.Listing) ([]string, []string) {
		return l.Files, l.Dirs
	}))
	if err != nil {
		return nil, err
	}
	return filterGlob(files, glob), nil
}

// RemoteDirs returns the remote directories matching glob, sorted.
func (h *Handle) RemoteDirs(ctx context.Context, glob string) ([]string, error) {
	dirs, err := h.dirs.ReadThrough(ctx, h.fetch(), h.fill(h.files, func(l transfer.Listing) ([]string, []string) {
		return l.Dirs, l.Files
	}))
	if err != nil {
		return nil, err
	}
	return filterGlob(dirs, glob), nil
}

// Invalidate drops the cached listings.
func (h *Handle) Invalidate() error {
	if err := h.files.Invalidate(); err != nil {
		return err
	}
	return h.dirs.Invalidate()
}

// Match expands names and glob patterns against the remote files. Exact
// names are kept as given; each pattern contributes its matches in order.
// Names and patterns with no match are returned in missing.
func (h *Handle) Match(ctx context.Context, patterns []string) (files, missing []string, err error) {
	all, err := h.RemoteFiles(ctx, "")
	if err != nil {
		return nil, nil, err
	}
	known := make(map[string]struct{}, len(all))
	for _, f := range all {
		known[f] = struct{}{}
	}
	seen := map[string]struct{}{}
	add := func(f string) {
		if _, ok := seen[f]; !ok {
			seen[f] = struct{}{}
			files = append(files, f)
		}
	}
	for _, p := range patterns {
		if _, ok := known[p]; ok {
			add(p)
			continue
		}
		if !isGlob(p) {
			missing = append(missing, p)
			continue
		}
		matched := filterGlob(all, p)
		if len(matched) == 0 {
			missing = append(missing, p)
		}
		for _, f := range matched {
			add(f)
		}
	}
	return files, missing, nil
}

// Download fetches files into the project directory and returns their local
// paths. Every file must be a known remote file. With no files the whole
// project is downloaded.
func (h *Handle) Download(ctx context.Context, files []string, opts transfer.DownloadOptions) ([]string, error) {
	all, err := h.RemoteFiles(ctx, "")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		files = all
	}

	known := make(map[string]struct{}, len(all))
	for _, f := range all {
		known[f] = struct{}{}
	}
	var missing []string
	for _, f := range files {
		if _, ok := known[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, &errors.NotFoundError{Names: missing}
	}
	if len(files) == 0 {
		return []string{}, nil
	}
	return h.backend.Download(ctx, files, opts)
}

// Metadata returns the project's descriptive metadata.
func (h *Handle) Metadata(ctx context.Context) (repository.Metadata, error) {
	return h.backend.Metadata(ctx)
}

// FileInfo returns the repository's raw per-file metadata.
func (h *Handle) FileInfo(ctx context.Context) ([]byte, error) {
	return h.backend.FileInfo(ctx)
}

// LocalFiles returns the downloaded files matching glob, relative to the
// project directory and sorted. Sidecars are hidden.
func (h *Handle) LocalFiles(glob string) ([]string, error) {
	files, _, err := h.walkLocal(glob)
	return files, err
}

// LocalDirs returns the local directories matching glob, sorted.
func (h *Handle) LocalDirs(glob string) ([]string, error) {
	_, dirs, err := h.walkLocal(glob)
	return dirs, err
}

func (h *Handle) walkLocal(glob string) (files, dirs []string, err error) {
	root := h.Local()
	files, dirs = []string{}, []string{}
	err = filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if filepath.Dir(p) == root && cache.IsSidecar(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !MatchGlob(glob, rel) {
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, rel)
		} else {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", errors.ErrLocalPath, root, err)
	}
	sort.Strings(files)
	sort.Strings(dirs)
	return files, dirs, nil
}

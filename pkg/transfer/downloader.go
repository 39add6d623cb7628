package transfer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/glorpus-work/pxget/internal/logger"
	"github.com/glorpus-work/pxget/pkg/errors"
	"github.com/glorpus-work/pxget/pkg/fsutil"
)

// DownloadOptions controls a download batch.
type DownloadOptions struct {
	// Force truncates existing local files instead of resuming or skipping them.
	Force bool
	// Silent suppresses the progress display.
	Silent bool
	// Progress receives the progress display; os.Stderr when nil.
	Progress io.Writer
}

// Download fetches each remote path (relative to the connection root) into
// destDir, keeping the relative layout, and returns the absolute local paths in
// input order. Files already complete locally are skipped unless Force is set;
// partial files are resumed from their current length. On failure the files
// finished so far stay on disk.
func Download(ctx context.Context, conn *Connection, paths []string, destDir string, opts DownloadOptions) ([]string, error) {
	dest, err := filepath.Abs(destDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrLocalPath, err)
	}
	if opts.Progress == nil {
		opts.Progress = os.Stderr
	}

	targets := make([]string, len(paths))
	for i, remote := range paths {
		if targets[i], err = localTarget(dest, remote); err != nil {
			return nil, err
		}
	}

	local := make([]string, 0, len(paths))
	for i, remote := range paths {
		target := targets[i]
		label := fmt.Sprintf("[%d/%d] %s", i+1, len(paths), remote)
		if err := downloadFile(ctx, conn, remote, target, label, opts); err != nil {
			return nil, err
		}
		local = append(local, target)
	}
	return local, nil
}

func downloadFile(ctx context.Context, conn *Connection, remote, target, label string, opts DownloadOptions) error {
	if err := fsutil.EnsureFileDir(target); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrLocalPath, err)
	}
	_, statErr := os.Stat(target)
	existed := statErr == nil

	flags := os.O_WRONLY | os.O_CREATE | os.O_APPEND
	if opts.Force {
		flags |= os.O_TRUNC
	}
	file, err := os.OpenFile(target, flags, fsutil.FileModeDefault)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrLocalPath, err)
	}
	defer func() { _ = file.Close() }()

	var remoteSize int64
	err = conn.WithReconnect(ctx, "SIZE "+remote, func(sc ServerConn) error {
		var err error
		remoteSize, err = sc.FileSize(remote)
		return err
	})
	if err != nil {
		if !existed {
			_ = os.Remove(target)
		}
		return err
	}

	localSize, err := fileSize(file)
	if err != nil {
		return err
	}
	if !opts.Force && localSize == remoteSize {
		conn.hooks.emit(Event{Phase: PhaseFileSkip, Path: remote, Local: target, Bytes: remoteSize})
		logger.Debug("already downloaded", logger.Fields{"path": remote, "size": remoteSize})
		return nil
	}

	conn.hooks.emit(Event{Phase: PhaseFileStart, Path: remote, Local: target, Bytes: localSize})
	logger.Debug("downloading", logger.Fields{"path": remote, "offset": localSize, "size": remoteSize})

	var bar *progressBar
	if !opts.Silent {
		bar = newProgressBar(opts.Progress, label, remoteSize, localSize)
	}

	var transferred int64
	err = conn.WithReconnect(ctx, "RETR "+remote, func(sc ServerConn) error {
		offset, err := fileSize(file)
		if err != nil {
			return err
		}
		if offset > remoteSize {
			// Remote file shrank since the partial copy was made; start over.
			if err := file.Truncate(0); err != nil {
				return fmt.Errorf("%w: %v", errors.ErrLocalPath, err)
			}
			offset = 0
		}
		if offset == remoteSize && remoteSize > 0 {
			return nil
		}

		resp, err := sc.RetrFrom(remote, uint64(offset))
		if err != nil {
			return err
		}
		var w io.Writer = file
		if bar != nil {
			bar.done = offset
			w = io.MultiWriter(file, bar)
		}
		n, copyErr := io.Copy(w, resp)
		transferred += n
		closeErr := resp.Close()
		if copyErr != nil {
			return copyErr
		}
		return closeErr
	})
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	conn.hooks.emit(Event{Phase: PhaseFileDone, Path: remote, Local: target, Bytes: transferred})
	return nil
}

// localTarget maps a remote relative path below dest. Absolute paths and
// paths climbing out of dest are rejected.
func localTarget(dest, remote string) (string, error) {
	clean := path.Clean(remote)
	if path.IsAbs(clean) || clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q is not below %s", errors.ErrLocalPath, remote, dest)
	}
	return filepath.Join(dest, filepath.FromSlash(clean)), nil
}

func fileSize(f *os.File) (int64, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errors.ErrLocalPath, err)
	}
	return info.Size(), nil
}

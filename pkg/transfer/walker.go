package transfer

import (
	"context"
	"path"
	"sort"

	"github.com/jlaffaye/ftp"

	"github.com/glorpus-work/pxget/internal/logger"
)

// Unbounded disables the depth limit of Walk.
const Unbounded = -1

// Listing holds forward-slash paths relative to the walked root.
type Listing struct {
	Files []string
	Dirs  []string
}

// Walk lists files and directories under root, which is relative to the
// connection root. Depth 0 lists root's direct children only; directories
// deeper than maxDepth are reported but not entered. Both slices are sorted.
func Walk(ctx context.Context, conn *Connection, root string, maxDepth int) (Listing, error) {
	files, dirs, err := walkLevel(ctx, conn, root, "", 0, maxDepth)
	if err != nil {
		return Listing{}, err
	}
	sort.Strings(files)
	sort.Strings(dirs)
	return Listing{Files: files, Dirs: dirs}, nil
}

func walkLevel(ctx context.Context, conn *Connection, root, prefix string, depth, maxDepth int) ([]string, []string, error) {
	target := joinRemote(root, prefix)

	var entries []*ftp.Entry
	err := conn.WithReconnect(ctx, "LIST "+target, func(sc ServerConn) error {
		var err error
		entries, err = sc.List(target)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	conn.hooks.emit(Event{Phase: PhaseList, Path: target, Bytes: int64(len(entries))})
	logger.Debug("listed directory", logger.Fields{"path": target, "entries": len(entries)})

	files := []string{}
	dirs := []string{}
	for _, entry := range entries {
		name := path.Base(entry.Name)
		if name == "." || name == ".." || name == "/" {
			continue
		}
		rel := joinRemote(prefix, name)
		if !isDir(entry) {
			files = append(files, rel)
			continue
		}

		dirs = append(dirs, rel)
		if maxDepth >= 0 && depth >= maxDepth {
			continue
		}
		subFiles, subDirs, err := walkLevel(ctx, conn, root, rel, depth+1, maxDepth)
		if err != nil {
			return nil, nil, err
		}
		files = append(files, subFiles...)
		dirs = append(dirs, subDirs...)
	}
	return files, dirs, nil
}

// isDir follows the LIST type character: 'd' and 'l' are both treated as directories.
func isDir(entry *ftp.Entry) bool {
	return entry.Type == ftp.EntryTypeFolder || entry.Type == ftp.EntryTypeLink
}

func joinRemote(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" && p != "." {
			nonEmpty = append(nonEmpty, p)
		}
	}
	if len(nonEmpty) == 0 {
		return ""
	}
	return path.Join(nonEmpty...)
}

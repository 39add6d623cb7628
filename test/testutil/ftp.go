package testutil

import (
	"context"
	"io"
	"net/textproto"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/jlaffaye/ftp"
	"go.uber.org/mock/gomock"

	"github.com/glorpus-work/pxget/pkg/transfer"
	mock_transfer "github.com/glorpus-work/pxget/pkg/transfer/mocks"
)

// FakeFTP is an anonymous FTP server holding one project tree below Root.
// Directories are implied by the file paths.
type FakeFTP struct {
	Root  string
	Files map[string]string

	mu        sync.Mutex
	dials     int
	changed   []string
	retrieved []string
}

// NewFakeFTP creates a server whose root directory is root.
func NewFakeFTP(root string, files map[string]string) *FakeFTP {
	return &FakeFTP{Root: root, Files: files}
}

// Options returns connection options that dial this server without backoff.
func (f *FakeFTP) Options(ctrl *gomock.Controller) []transfer.Option {
	sc := f.session(ctrl)
	dial := func(context.Context, string, time.Duration) (transfer.ServerConn, error) {
		f.mu.Lock()
		f.dials++
		f.mu.Unlock()
		return sc, nil
	}
	return []transfer.Option{transfer.WithDialer(dial), transfer.WithBackoff(0)}
}

// Dials returns the number of connections opened.
func (f *FakeFTP) Dials() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dials
}

// ChangedDirs returns every directory the client tried to enter.
func (f *FakeFTP) ChangedDirs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.changed...)
}

// Retrieved returns every path passed to RETR.
func (f *FakeFTP) Retrieved() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.retrieved...)
}

func (f *FakeFTP) session(ctrl *gomock.Controller) *mock_transfer.MockServerConn {
	sc := mock_transfer.NewMockServerConn(ctrl)
	sc.EXPECT().Login("anonymous", "anonymous").Return(nil).AnyTimes()
	sc.EXPECT().Quit().Return(nil).AnyTimes()
	sc.EXPECT().ChangeDir(gomock.Any()).DoAndReturn(func(dir string) error {
		f.mu.Lock()
		f.changed = append(f.changed, dir)
		f.mu.Unlock()
		if dir != f.Root {
			return notFound()
		}
		return nil
	}).AnyTimes()
	sc.EXPECT().List(gomock.Any()).DoAndReturn(func(dir string) ([]*ftp.Entry, error) {
		return f.list(dir), nil
	}).AnyTimes()
	sc.EXPECT().FileSize(gomock.Any()).DoAndReturn(func(name string) (int64, error) {
		content, ok := f.Files[name]
		if !ok {
			return 0, notFound()
		}
		return int64(len(content)), nil
	}).AnyTimes()
	sc.EXPECT().RetrFrom(gomock.Any(), gomock.Any()).DoAndReturn(func(name string, offset uint64) (io.ReadCloser, error) {
		f.mu.Lock()
		f.retrieved = append(f.retrieved, name)
		f.mu.Unlock()
		content, ok := f.Files[name]
		if !ok {
			return nil, notFound()
		}
		return io.NopCloser(strings.NewReader(content[offset:])), nil
	}).AnyTimes()
	return sc
}

// list returns the direct children of dir, relative to Root.
func (f *FakeFTP) list(dir string) []*ftp.Entry {
	prefix := ""
	if dir != "" {
		prefix = dir + "/"
	}
	seen := map[string]bool{}
	var entries []*ftp.Entry
	for name, content := range f.Files {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		rest := strings.TrimPrefix(name, prefix)
		child, _, nested := strings.Cut(rest, "/")
		if seen[child] {
			continue
		}
		seen[child] = true
		if nested {
			entries = append(entries, &ftp.Entry{Name: path.Base(child), Type: ftp.EntryTypeFolder})
		} else {
			entries = append(entries, &ftp.Entry{Name: child, Type: ftp.EntryTypeFile, Size: uint64(len(content))})
		}
	}
	return entries
}

func notFound() error {
	return &textproto.Error{Code: ftp.StatusFileUnavailable, Msg: "No such file or directory"}
}

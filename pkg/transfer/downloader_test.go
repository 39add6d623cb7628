package transfer_test

import (
	"bytes"
	"context"
	"io"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/glorpus-work/pxget/pkg/errors"
	"github.com/glorpus-work/pxget/pkg/transfer"
	mock_transfer "github.com/glorpus-work/pxget/pkg/transfer/mocks"
)

const payload = "0123456789abcdefghijklmnopqrstuv"

// flakyReader returns its data and then fails instead of reporting EOF.
type flakyReader struct {
	data []byte
	err  error
}

func (r *flakyReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, r.err
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

// serveFile answers SIZE and RETR for name and records every RETR offset.
func serveFile(sc *mock_transfer.MockServerConn, name, content string, offsets *[]uint64) {
	sc.EXPECT().FileSize(name).Return(int64(len(content)), nil).AnyTimes()
	sc.EXPECT().RetrFrom(name, gomock.Any()).DoAndReturn(func(_ string, offset uint64) (io.ReadCloser, error) {
		*offsets = append(*offsets, offset)
		return io.NopCloser(strings.NewReader(content[offset:])), nil
	}).AnyTimes()
}

func writeLocal(t *testing.T, path, content string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func readLocal(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestDownload_FreshFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	sc := newSession(ctrl)
	var offsets []uint64
	serveFile(sc, "sub/a.raw", payload, &offsets)
	conn := newConnection(t, &dialCounter{conn: sc})

	dest := t.TempDir()
	progress := &bytes.Buffer{}
	paths, err := transfer.Download(context.Background(), conn, []string{"sub/a.raw"}, dest,
		transfer.DownloadOptions{Progress: progress})
	require.NoError(t, err)

	want := filepath.Join(dest, "sub", "a.raw")
	assert.Equal(t, []string{want}, paths)
	assert.Equal(t, payload, readLocal(t, want))
	assert.Equal(t, []uint64{0}, offsets)
	assert.Contains(t, progress.String(), "[1/1] sub/a.raw")
}

func TestDownload_SkipsCompleteFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	sc := newSession(ctrl)
	sc.EXPECT().FileSize("a.raw").Return(int64(len(payload)), nil)
	sc.EXPECT().RetrFrom(gomock.Any(), gomock.Any()).Times(0)

	var skipped []string
	conn := newConnection(t, &dialCounter{conn: sc}, transfer.WithHooks(transfer.Hooks{
		OnEvent: func(e transfer.Event) {
			if e.Phase == transfer.PhaseFileSkip {
				skipped = append(skipped, e.Path)
			}
		},
	}))

	dest := t.TempDir()
	local := filepath.Join(dest, "a.raw")
	old := time.Now().Add(-time.Hour).Truncate(time.Second)
	writeLocal(t, local, payload, old)

	_, err := transfer.Download(context.Background(), conn, []string{"a.raw"}, dest, transfer.DownloadOptions{Silent: true})
	require.NoError(t, err)

	info, err := os.Stat(local)
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), info.Size())
	assert.True(t, info.ModTime().Equal(old), "a complete file must not be touched")
	assert.Equal(t, []string{"a.raw"}, skipped)
}

func TestDownload_ResumesPartialFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	sc := newSession(ctrl)
	var offsets []uint64
	serveFile(sc, "a.raw", payload, &offsets)
	conn := newConnection(t, &dialCounter{conn: sc})

	dest := t.TempDir()
	local := filepath.Join(dest, "a.raw")
	writeLocal(t, local, payload[:5], time.Now())

	_, err := transfer.Download(context.Background(), conn, []string{"a.raw"}, dest, transfer.DownloadOptions{Silent: true})
	require.NoError(t, err)

	assert.Equal(t, []uint64{5}, offsets)
	assert.Equal(t, payload, readLocal(t, local))
}

func TestDownload_ForceRefetches(t *testing.T) {
	ctrl := gomock.NewController(t)
	sc := newSession(ctrl)
	var offsets []uint64
	serveFile(sc, "a.raw", payload, &offsets)
	conn := newConnection(t, &dialCounter{conn: sc})

	dest := t.TempDir()
	local := filepath.Join(dest, "a.raw")
	old := time.Now().Add(-time.Hour).Truncate(time.Second)
	writeLocal(t, local, payload, old)

	_, err := transfer.Download(context.Background(), conn, []string{"a.raw"}, dest,
		transfer.DownloadOptions{Force: true, Silent: true})
	require.NoError(t, err)

	info, err := os.Stat(local)
	require.NoError(t, err)
	assert.Equal(t, []uint64{0}, offsets)
	assert.Equal(t, int64(len(payload)), info.Size())
	assert.False(t, info.ModTime().Equal(old))
	assert.Equal(t, payload, readLocal(t, local))
}

func TestDownload_ResumesAfterDroppedConnection(t *testing.T) {
	ctrl := gomock.NewController(t)
	sc := newSession(ctrl)
	sc.EXPECT().FileSize("a.raw").Return(int64(len(payload)), nil)

	var offsets []uint64
	sc.EXPECT().RetrFrom("a.raw", gomock.Any()).DoAndReturn(func(_ string, offset uint64) (io.ReadCloser, error) {
		offsets = append(offsets, offset)
		if len(offsets) == 1 {
			return io.NopCloser(&flakyReader{data: []byte(payload[:6]), err: io.ErrUnexpectedEOF}), nil
		}
		return io.NopCloser(strings.NewReader(payload[offset:])), nil
	}).Times(2)

	d := &dialCounter{conn: sc}
	conn := newConnection(t, d)
	dest := t.TempDir()

	paths, err := transfer.Download(context.Background(), conn, []string{"a.raw"}, dest, transfer.DownloadOptions{Silent: true})
	require.NoError(t, err)

	assert.Equal(t, []uint64{0, 6}, offsets, "the retry resumes from the last written byte")
	assert.Equal(t, payload, readLocal(t, paths[0]))
	assert.Equal(t, 2, d.dials)
}

func TestDownload_FailureKeepsEarlierFiles(t *testing.T) {
	ctrl := gomock.NewController(t)
	sc := newSession(ctrl)
	var offsets []uint64
	serveFile(sc, "first.raw", payload, &offsets)
	sc.EXPECT().FileSize("second.raw").Return(int64(len(payload)), nil).AnyTimes()
	sc.EXPECT().RetrFrom("second.raw", gomock.Any()).Return(nil, io.ErrUnexpectedEOF).Times(2)

	conn := newConnection(t, &dialCounter{conn: sc}, transfer.WithMaxReconnects(2))
	dest := t.TempDir()

	paths, err := transfer.Download(context.Background(), conn, []string{"first.raw", "second.raw"}, dest,
		transfer.DownloadOptions{Silent: true})

	assert.Nil(t, paths)
	assert.ErrorIs(t, err, errors.ErrTransfer)
	assert.Equal(t, payload, readLocal(t, filepath.Join(dest, "first.raw")))
}

func TestDownload_MissingRemoteFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	sc := newSession(ctrl)
	sc.EXPECT().FileSize("nope.raw").Return(int64(0), &textproto.Error{Code: 550, Msg: "No such file"})
	conn := newConnection(t, &dialCounter{conn: sc})
	dest := t.TempDir()

	_, err := transfer.Download(context.Background(), conn, []string{"nope.raw"}, dest, transfer.DownloadOptions{Silent: true})

	assert.ErrorIs(t, err, errors.ErrRemoteNotFound)
	assert.NoFileExists(t, filepath.Join(dest, "nope.raw"))
}

func TestDownload_RejectsPathsOutsideDest(t *testing.T) {
	for _, remote := range []string{"../../.bashrc", "MSV000087408/../../../.bashrc", "/etc/passwd", ".."} {
		t.Run(remote, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			sc := mock_transfer.NewMockServerConn(ctrl)
			d := &dialCounter{conn: sc}
			conn := newConnection(t, d)
			dest := t.TempDir()

			paths, err := transfer.Download(context.Background(), conn, []string{"a.raw", remote}, dest,
				transfer.DownloadOptions{Silent: true})

			assert.Nil(t, paths)
			assert.ErrorIs(t, err, errors.ErrLocalPath)
			assert.Zero(t, d.dials, "nothing is fetched when any target is rejected")
			assert.NoFileExists(t, filepath.Join(dest, "a.raw"))
		})
	}
}

func TestDownload_CleansNestedPaths(t *testing.T) {
	ctrl := gomock.NewController(t)
	sc := newSession(ctrl)
	var offsets []uint64
	serveFile(sc, "peak/../README.txt", payload, &offsets)
	conn := newConnection(t, &dialCounter{conn: sc})
	dest := t.TempDir()

	paths, err := transfer.Download(context.Background(), conn, []string{"peak/../README.txt"}, dest,
		transfer.DownloadOptions{Silent: true})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dest, "README.txt")}, paths)
}

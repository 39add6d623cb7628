package project_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/glorpus-work/pxget/pkg/http"
	"github.com/glorpus-work/pxget/pkg/project"
	"github.com/glorpus-work/pxget/pkg/repository"
	"github.com/glorpus-work/pxget/pkg/transfer"
	"github.com/glorpus-work/pxget/test/testutil"
)

func setURL(t *testing.T, target *string, value string) {
	t.Helper()
	old := *target
	*target = value
	t.Cleanup(func() { *target = old })
}

// findProject resolves id against the fake services and opens its handle.
func findProject(t *testing.T, id string, ftp *testutil.FakeFTP) *project.Handle {
	t.Helper()
	ctrl := gomock.NewController(t)
	backend, err := repository.Find(context.Background(), id, repository.FindOptions{Options: repository.Options{
		CacheRoot:     t.TempDir(),
		Timeout:       5 * time.Second,
		MaxReconnects: 2,
		HTTP:          http.NewClient(5 * time.Second),
		Connection:    ftp.Options(ctrl),
	}})
	require.NoError(t, err)

	h, err := project.Open(context.Background(), backend, project.Options{MaxDepth: transfer.Unbounded})
	require.NoError(t, err)
	return h
}

func TestWorkflow_PrideProject(t *testing.T) {
	ts := testutil.NewTestServer(t, map[string]testutil.Route{
		"/cgi/GetDataset":                {Body: testutil.Fixture(t, "federator-PXD000001.json")},
		"/projects/files-path/PXD000001": {Body: testutil.Fixture(t, "pride-files-path-PXD000001.json")},
	})
	setURL(t, &repository.ProteomeCentralURL, ts.URL+"/cgi/GetDataset")
	setURL(t, &repository.PrideFilesPathURL, ts.URL+"/projects/files-path/")

	ftp := testutil.NewFakeFTP("/pride-archive/2012/03/PXD000001", map[string]string{
		"README.txt":                  "readme",
		"F063721.dat":                 "mascot",
		"generated/PRIDE_Exp_1.mgf.gz": "mgf",
	})
	h := findProject(t, "pxd000001", ftp)
	assert.Equal(t, repository.KindPride, h.Kind())

	files, err := h.RemoteFiles(context.Background(), "")
	require.NoError(t, err)
	assert.Contains(t, files, "README.txt")
	dirs, err := h.RemoteDirs(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"generated"}, dirs)

	paths, err := h.Download(context.Background(), []string{"README.txt"}, transfer.DownloadOptions{Silent: true})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(h.Local(), "README.txt")}, paths)
	assert.Equal(t, "PXD000001", filepath.Base(h.Local()))
	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, "readme", string(data))
}

func TestWorkflow_MassiveProject(t *testing.T) {
	ftp := testutil.NewFakeFTP("/MSV000087408", map[string]string{
		"README.txt":                     "readme",
		"ccms_parameters/params.xml":     "<parameters/>",
		"ccms_statistics/statistics.tsv": "stats",
		"peak/Exp1_PolZeta.mzML":         "peak",
	})
	h := findProject(t, "MSV000087408", ftp)
	assert.Equal(t, repository.KindMassive, h.Kind())

	dirs, err := h.RemoteDirs(context.Background(), "")
	require.NoError(t, err)
	assert.Contains(t, dirs, "ccms_statistics")
	files, err := h.RemoteFiles(context.Background(), "")
	require.NoError(t, err)
	assert.Contains(t, files, "ccms_statistics/statistics.tsv")

	want := filepath.Join(h.Local(), "ccms_statistics", "statistics.tsv")
	paths, err := h.Download(context.Background(), []string{"ccms_statistics/statistics.tsv"}, transfer.DownloadOptions{Silent: true})
	require.NoError(t, err)
	assert.Equal(t, []string{want}, paths)

	old := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(want, old, old))
	before, err := os.Stat(want)
	require.NoError(t, err)

	_, err = h.Download(context.Background(), []string{"ccms_statistics/statistics.tsv"}, transfer.DownloadOptions{Silent: true})
	require.NoError(t, err)
	after, err := os.Stat(want)
	require.NoError(t, err)
	assert.Equal(t, before.Size(), after.Size())
	assert.True(t, before.ModTime().Equal(after.ModTime()), "a complete file is not rewritten")
	assert.Equal(t, []string{"ccms_statistics/statistics.tsv"}, ftp.Retrieved())
}

func openLive(t *testing.T, id string) *project.Handle {
	t.Helper()
	backend, err := repository.Find(context.Background(), id, repository.FindOptions{Options: repository.Options{
		CacheRoot:     t.TempDir(),
		Timeout:       60 * time.Second,
		MaxReconnects: 3,
	}})
	require.NoError(t, err)
	h, err := project.Open(context.Background(), backend, project.Options{MaxDepth: transfer.Unbounded})
	require.NoError(t, err)
	return h
}

func TestWorkflow_PrideProject_Network(t *testing.T) {
	testutil.RequireNetwork(t)
	h := openLive(t, "PXD000001")
	assert.Equal(t, repository.KindPride, h.Kind())

	files, err := h.RemoteFiles(context.Background(), "")
	require.NoError(t, err)
	assert.Contains(t, files, "README.txt")

	paths, err := h.Download(context.Background(), []string{"README.txt"}, transfer.DownloadOptions{Silent: true})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(h.Local(), "README.txt")}, paths)
	assert.FileExists(t, paths[0])
}

func TestWorkflow_MassiveProject_Network(t *testing.T) {
	testutil.RequireNetwork(t)
	h := openLive(t, "MSV000087408")
	assert.Equal(t, repository.KindMassive, h.Kind())

	dirs, err := h.RemoteDirs(context.Background(), "")
	require.NoError(t, err)
	assert.Contains(t, dirs, "ccms_statistics")
	files, err := h.RemoteFiles(context.Background(), "")
	require.NoError(t, err)
	assert.Contains(t, files, "ccms_statistics/statistics.tsv")

	paths, err := h.Download(context.Background(), []string{"ccms_statistics/statistics.tsv"}, transfer.DownloadOptions{Silent: true})
	require.NoError(t, err)
	before, err := os.Stat(paths[0])
	require.NoError(t, err)

	_, err = h.Download(context.Background(), []string{"ccms_statistics/statistics.tsv"}, transfer.DownloadOptions{Silent: true})
	require.NoError(t, err)
	after, err := os.Stat(paths[0])
	require.NoError(t, err)
	assert.Equal(t, before.Size(), after.Size())
	assert.True(t, before.ModTime().Equal(after.ModTime()))
}

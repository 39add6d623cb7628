package cache_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/pxget/pkg/cache"
)

// setupTestCache lays out two projects with data files and sidecars.
func setupTestCache(t *testing.T, root string) {
	t.Helper()
	files := map[string]string{
		"PXD000001/README.txt":                  "readme-data",
		"PXD000001/generated/PRIDE_Exp.mgf.gz":  "spectra",
		"PXD000001/" + cache.RemoteFilesName:    "README.txt\ngenerated/PRIDE_Exp.mgf.gz\n",
		"MSV000087408/ccms_peak/a.mzML":         "peaks",
		"MSV000087408/" + cache.RemoteDirsName:  "ccms_peak\n",
		"MSV000087408/" + cache.RemoteFilesName: "ccms_peak/a.mzML\n",
	}
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestSetDirectory(t *testing.T) {
	tests := []struct {
		name        string
		directory   string
		expectError bool
	}{
		{
			name:      "valid directory",
			directory: t.TempDir(),
		},
		{
			name:        "empty directory",
			directory:   "",
			expectError: true,
		},
		{
			name:      "non-existent directory",
			directory: filepath.Join(t.TempDir(), "nonexistent"),
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mgr := cache.NewManager(t.TempDir())

			err := mgr.SetDirectory(testCase.directory)

			if testCase.expectError {
				require.ErrorIs(t, err, cache.ErrCacheDirectory)
			} else {
				require.NoError(t, err)
				assert.Equal(t, testCase.directory, mgr.GetDirectory())
			}
		})
	}
}

func TestCleanDefaultsToMetadata(t *testing.T) {
	tempDir := t.TempDir()
	setupTestCache(t, tempDir)
	mgr := cache.NewManager(tempDir)

	result, err := mgr.Clean(cache.CleanOptions{})
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(tempDir, "PXD000001", cache.RemoteFilesName))
	assert.NoFileExists(t, filepath.Join(tempDir, "MSV000087408", cache.RemoteDirsName))
	assert.FileExists(t, filepath.Join(tempDir, "PXD000001", "README.txt"))
	assert.FileExists(t, filepath.Join(tempDir, "MSV000087408", "ccms_peak", "a.mzML"))

	assert.Positive(t, result.MetadataFreed)
	assert.Equal(t, int64(0), result.DataFreed)
	assert.Equal(t, result.MetadataFreed, result.TotalFreed)
	assert.Equal(t, 2, result.Projects)
}

func TestCleanAll(t *testing.T) {
	tempDir := t.TempDir()
	setupTestCache(t, tempDir)
	mgr := cache.NewManager(tempDir)

	result, err := mgr.Clean(cache.CleanOptions{All: true})
	require.NoError(t, err)

	assert.NoDirExists(t, filepath.Join(tempDir, "PXD000001"))
	assert.NoDirExists(t, filepath.Join(tempDir, "MSV000087408"))
	assert.Equal(t, int64(len("readme-data")+len("spectra")+len("peaks")), result.DataFreed)
	assert.Equal(t, result.MetadataFreed+result.DataFreed, result.TotalFreed)
}

func TestCleanSelectedProject(t *testing.T) {
	tempDir := t.TempDir()
	setupTestCache(t, tempDir)
	mgr := cache.NewManager(tempDir)

	result, err := mgr.Clean(cache.CleanOptions{Data: true, Projects: []string{"PXD000001"}})
	require.NoError(t, err)

	assert.NoDirExists(t, filepath.Join(tempDir, "PXD000001"))
	assert.FileExists(t, filepath.Join(tempDir, "MSV000087408", cache.RemoteFilesName))
	assert.Equal(t, 1, result.Projects)
}

func TestCleanNonExistentDirectory(t *testing.T) {
	mgr := cache.NewManager(filepath.Join(t.TempDir(), "missing"))

	result, err := mgr.Clean(cache.CleanOptions{All: true})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.TotalFreed)
}

func TestGetInfo(t *testing.T) {
	tempDir := t.TempDir()
	setupTestCache(t, tempDir)
	mgr := cache.NewManager(tempDir)

	info, err := mgr.GetInfo()
	require.NoError(t, err)

	assert.Equal(t, tempDir, info.Directory)
	require.Len(t, info.Projects, 2)
	assert.Equal(t, "MSV000087408", info.Projects[0].Identifier)
	assert.Equal(t, "PXD000001", info.Projects[1].Identifier)
	assert.Equal(t, []string{cache.RemoteDirsName, cache.RemoteFilesName}, info.Projects[0].Sidecars)
	assert.Equal(t, 2, info.Projects[1].DataFiles)
	assert.Equal(t, 3, info.DataFiles)
	assert.Equal(t, info.DataSize+info.MetadataSize, info.TotalSize)
}

func TestOperation_Messages(t *testing.T) {
	tempDir := t.TempDir()
	setupTestCache(t, tempDir)
	op := cache.NewOperation(cache.NewManager(tempDir))

	summary, err := op.GetInfo()
	require.NoError(t, err)
	assert.Contains(t, summary, "Directory:    "+tempDir)
	assert.Contains(t, summary, "Projects:     2")

	msg, err := op.Clean(cache.CleanOptions{})
	require.NoError(t, err)
	assert.Contains(t, msg, "Successfully cleaned 2 project(s)")
	assert.Contains(t, msg, "- Metadata:")

	msg, err = op.Clean(cache.CleanOptions{})
	require.NoError(t, err)
	assert.Equal(t, "No files were removed from the cache.", msg)
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cache.FormatBytes(tt.in))
	}
}

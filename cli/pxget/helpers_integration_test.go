//go:build integration

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/pxget/pkg/cache"
	"github.com/glorpus-work/pxget/test/testutil"
)

// env is an isolated pxget installation: a config file and a data directory.
type env struct {
	cfgPath string
	dataDir string
}

func newEnv(t *testing.T) env {
	t.Helper()
	root := t.TempDir()
	e := env{
		cfgPath: filepath.Join(root, "config.yaml"),
		dataDir: filepath.Join(root, "data"),
	}
	require.NoError(t, os.MkdirAll(e.dataDir, 0o755))

	yamlContent := `version: "1.0"
settings:
  data_dir: ` + e.dataDir + `
  timeout: 5s
  max_reconnects: 2
  max_depth: 4
`
	require.NoError(t, os.WriteFile(e.cfgPath, []byte(yamlContent), 0o600))
	t.Setenv("PXGET_DATA_DIR", "")
	return e
}

// run executes pxget with args and returns what it wrote to stdout and stderr.
func (e env) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", e.cfgPath, "--no-color"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// seedListing writes the listing sidecars of a project so no network is needed.
func (e env) seedListing(t *testing.T, id string, files, dirs []string) string {
	t.Helper()
	dir := filepath.Join(e.dataDir, id)
	require.NoError(t, cache.NewLines(filepath.Join(dir, cache.RemoteFilesName)).Store(files))
	require.NoError(t, cache.NewLines(filepath.Join(dir, cache.RemoteDirsName)).Store(dirs))
	return dir
}

func (e env) seedFile(t *testing.T, id, rel, content string) string {
	t.Helper()
	path := filepath.Join(e.dataDir, id, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (e env) seedFixture(t *testing.T, id, sidecar, fixture string) {
	t.Helper()
	e.seedFile(t, id, sidecar, testutil.Fixture(t, fixture))
}

func lines(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

package hooks_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/pxget/pkg/hooks"
)

func TestAddAndRemoveHook(t *testing.T) {
	manager := hooks.NewHookManager()

	assert.ErrorIs(t, manager.AddHook(hooks.Hook{Content: "x := 1"}), hooks.ErrHookTypeEmpty)
	assert.ErrorIs(t, manager.RemoveHook(""), hooks.ErrHookTypeEmpty)

	assert.False(t, manager.HasHook(hooks.PostDownload))
	require.NoError(t, manager.AddHook(hooks.Hook{Type: hooks.PostDownload, Content: `// noop`}))
	assert.True(t, manager.HasHook(hooks.PostDownload))
	require.NoError(t, manager.Execute(hooks.PostDownload, hooks.HookContext{}))

	require.NoError(t, manager.RemoveHook(hooks.PostDownload))
	assert.False(t, manager.HasHook(hooks.PostDownload))
}

func writeScript(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadHookFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		hookType hooks.HookType
		path     string
		wantHook bool
		wantErr  error
	}{
		{name: "empty path", hookType: hooks.PostDownload},
		{
			name:     "tengo script",
			hookType: hooks.PostDownload,
			path:     writeScript(t, dir, "post.tengo", `x := 1`),
			wantHook: true,
		},
		{
			name:     "wrong extension",
			hookType: hooks.PostDownload,
			path:     writeScript(t, dir, "post.sh", `echo hi`),
			wantErr:  hooks.ErrHookLoad,
		},
		{
			name:     "missing file",
			hookType: hooks.PostDownload,
			path:     filepath.Join(dir, "missing.tengo"),
			wantErr:  hooks.ErrHookLoad,
		},
		{
			name:     "unsupported type",
			hookType: hooks.HookType("pre-download"),
			path:     filepath.Join(dir, "post.tengo"),
			wantErr:  hooks.ErrHookLoad,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager := hooks.NewHookManager()
			err := hooks.LoadHookFile(manager, tt.hookType, tt.path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHook, manager.HasHook(hooks.PostDownload))
		})
	}
}

func TestRunPostDownload(t *testing.T) {
	dir := t.TempDir()
	small := writeScript(t, dir, "a.raw", "abcd")
	empty := writeScript(t, dir, "b.raw", "")

	manager := hooks.NewHookManager()
	require.NoError(t, manager.AddHook(hooks.Hook{Type: hooks.PostDownload, Content: `
		text := import("text")
		err := ""
		if identifier != "PXD000001" {
			err = "wrong identifier " + identifier
		}
		if text.has_suffix(remotePath, ".raw") && size == 0 {
			err = "empty raw file: " + remotePath
		}
	`}))

	err := hooks.RunPostDownload(manager, "PXD000001", []string{"raw/a.raw"}, []string{small})
	require.NoError(t, err)

	err = hooks.RunPostDownload(manager, "PXD000001", []string{"raw/a.raw", "raw/b.raw"}, []string{small, empty})
	require.Error(t, err)
	assert.ErrorIs(t, err, hooks.ErrHookScript)
	assert.Contains(t, err.Error(), "empty raw file: raw/b.raw")
}

func TestRunPostDownload_NoHook(t *testing.T) {
	err := hooks.RunPostDownload(hooks.NewHookManager(), "PXD000001", []string{"gone"}, []string{"/does/not/exist"})
	assert.NoError(t, err)
}

func TestHookTemplate(t *testing.T) {
	assert.Contains(t, hooks.HookTemplate(hooks.PostDownload), "Post-download hook")
	assert.Contains(t, hooks.HookTemplate(hooks.HookType("unknown")), "Unknown hook type")
}

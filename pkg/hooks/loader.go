package hooks

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/glorpus-work/pxget/pkg/errors"
	"github.com/glorpus-work/pxget/pkg/fsutil"
)

// HookFileExtension is the extension of hook scripts.
const HookFileExtension = ".tengo"

// LoadHookFile registers the script at path as hookType. An empty path is a no-op.
func LoadHookFile(manager HookManager, hookType HookType, path string) error {
	if path == "" {
		return nil
	}
	if hookType != PostDownload {
		return ErrUnsupportedHookType(string(hookType))
	}
	expanded, err := fsutil.ExpandPath(path)
	if err != nil {
		return errors.Wrapf(ErrHookLoad, "%s: %v", path, err)
	}
	if ext := filepath.Ext(expanded); !strings.EqualFold(ext, HookFileExtension) {
		return errors.Wrapf(ErrHookLoad, "%s: expected a %s script", path, HookFileExtension)
	}
	content, err := os.ReadFile(expanded)
	if err != nil {
		return errors.Wrapf(ErrHookLoad, "error reading hook file %s: %v", expanded, err)
	}
	return manager.AddHook(Hook{Type: hookType, Content: string(content)})
}

// HookTemplate generates a template for a hook script.
func HookTemplate(hookType HookType) string {
	switch hookType {
	case PostDownload:
		return `// Post-download hook
// This script runs once for every downloaded file
// Available variables:
// - identifier: string - the project accession
// - remotePath: string - path of the file inside the project
// - localPath: string - absolute path of the downloaded file
// - size: int - size of the local file in bytes
// Set err to a non-empty string to fail the download.

// Example: reject empty raw files
/*
text := import("text")
err := ""
if text.has_suffix(remotePath, ".raw") && size == 0 {
    err = "empty raw file: " + remotePath
}
*/`

	default:
		return "// Unknown hook type: " + string(hookType)
	}
}

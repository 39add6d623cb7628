package hooks

// HookType represents the type of hook.
type HookType string

// Supported hook types.
const (
	// PostDownload runs once for every file a download batch returns.
	PostDownload HookType = "post-download"
)

// Hook represents a hook script with its type and content.
type Hook struct {
	Type    HookType
	Content string
}

// HookContext contains information passed to hooks.
type HookContext struct {
	Identifier string
	RemotePath string
	LocalPath  string
	Size       int64
	Vars       map[string]interface{}
}

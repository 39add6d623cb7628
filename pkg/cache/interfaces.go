package cache

// Manager defines the interface for operations on the download cache root.
type Manager interface {
	Clean(options CleanOptions) (*CleanResult, error)
	GetInfo() (*Info, error)
	GetDirectory() string
	SetDirectory(dir string) error
}

// CleanOptions specifies what to clean from the cache. Projects narrows the
// clean to the named project directories; when empty every project is affected.
type CleanOptions struct {
	All      bool
	Metadata bool
	Data     bool
	Projects []string
}

// CleanResult contains information about what was cleaned.
type CleanResult struct {
	TotalFreed    int64
	MetadataFreed int64
	DataFreed     int64
	Projects      int
}

// ProjectInfo summarises one project directory.
type ProjectInfo struct {
	Identifier   string
	DataSize     int64
	DataFiles    int
	MetadataSize int64
	Sidecars     []string
}

// Info represents cache information.
type Info struct {
	Directory    string
	TotalSize    int64
	MetadataSize int64
	DataSize     int64
	DataFiles    int
	Projects     []ProjectInfo
}

//go:generate mockgen -destination=mocks/repository.go . Backend
package repository

import (
	"context"
	"path/filepath"
	"time"

	"github.com/glorpus-work/pxget/pkg/http"
	"github.com/glorpus-work/pxget/pkg/transfer"
)

// Kind names a hosting repository.
type Kind string

const (
	KindPride   Kind = "PRIDE"
	KindMassive Kind = "MassIVE"
)

// Location is the resolved FTP root of a project.
type Location struct {
	Kind Kind
	ID   string
	URL  string
}

// Metadata holds the descriptive fields a repository publishes for a project.
// Fields a repository does not provide are left empty.
type Metadata struct {
	Title                    string
	Description              string
	SampleProcessingProtocol string
	DataProcessingProtocol   string
	DOI                      string
}

// Backend is one supported hosting repository serving a single project.
type Backend interface {
	// ID is the repository-native accession, which may differ from the one
	// the user asked for.
	ID() string
	Kind() Kind
	// Local is the project directory holding downloads and sidecars.
	Local() string
	Location(ctx context.Context) (Location, error)
	// List enumerates the project tree. maxDepth follows transfer.Walk.
	List(ctx context.Context, maxDepth int) (transfer.Listing, error)
	Download(ctx context.Context, paths []string, opts transfer.DownloadOptions) ([]string, error)
	Metadata(ctx context.Context) (Metadata, error)
	// FileInfo returns the repository's raw per-file metadata document.
	FileInfo(ctx context.Context) ([]byte, error)
}

// Options configures a backend.
type Options struct {
	// Local overrides the project directory. When empty it is CacheRoot/<ID>.
	Local     string
	CacheRoot string
	// Fetch bypasses cached metadata and listings.
	Fetch         bool
	Timeout       time.Duration
	MaxReconnects int
	// HTTP queries the metadata services; a resty client is built when nil.
	HTTP http.Client
	// Connection is appended to the options of every FTP connection.
	Connection []transfer.Option
}

func (o Options) localDir(id string) string {
	if o.Local != "" {
		return o.Local
	}
	return filepath.Join(o.CacheRoot, id)
}

func (o Options) httpClient() http.Client {
	if o.HTTP != nil {
		return o.HTTP
	}
	return http.NewClient(o.Timeout)
}

func (o Options) connect(rawURL string) (*transfer.Connection, error) {
	opts := []transfer.Option{
		transfer.WithTimeout(o.Timeout),
		transfer.WithMaxReconnects(o.MaxReconnects),
	}
	return transfer.NewConnection(rawURL, append(opts, o.Connection...)...)
}

package repository

import (
	"context"

	"github.com/glorpus-work/pxget/pkg/transfer"
)

// ftpBackend is the part of a Backend needed to reach its FTP root.
type ftpBackend interface {
	Location(ctx context.Context) (Location, error)
	Local() string
	options() Options
}

func (p *PrideBackend) options() Options   { return p.opts }
func (m *MassiveBackend) options() Options { return m.opts }

// walkLocation lists the backend's FTP root over one fresh connection.
func walkLocation(ctx context.Context, b ftpBackend, maxDepth int) (transfer.Listing, error) {
	loc, err := b.Location(ctx)
	if err != nil {
		return transfer.Listing{}, err
	}
	conn, err := b.options().connect(loc.URL)
	if err != nil {
		return transfer.Listing{}, err
	}
	defer conn.Close()
	return transfer.Walk(ctx, conn, "", maxDepth)
}

// downloadLocation fetches paths from the backend's FTP root into its local directory.
func downloadLocation(ctx context.Context, b ftpBackend, paths []string, opts transfer.DownloadOptions) ([]string, error) {
	loc, err := b.Location(ctx)
	if err != nil {
		return nil, err
	}
	conn, err := b.options().connect(loc.URL)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	return transfer.Download(ctx, conn, paths, b.Local(), opts)
}

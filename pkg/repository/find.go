package repository

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/glorpus-work/pxget/internal/logger"
	"github.com/glorpus-work/pxget/pkg/accession"
	"github.com/glorpus-work/pxget/pkg/errors"
	"github.com/glorpus-work/pxget/pkg/fsutil"
)

// FindOptions selects and configures the backend returned by Find.
type FindOptions struct {
	Options
	// Repo forces "pride" or "massive" (case-insensitive). Empty means detect.
	Repo string
}

// Find returns the backend serving identifier and creates its local directory.
//
// An explicit Repo wins. Otherwise MSV/RMS accessions go to MassIVE without a
// network call and PXD/PRD accessions are resolved through the federator,
// falling back to PRIDE when the federator answers with an HTTP error.
// Network failures are returned.
func Find(ctx context.Context, identifier string, opts FindOptions) (Backend, error) {
	backend, err := find(ctx, identifier, opts)
	if err != nil {
		return nil, err
	}
	if err := fsutil.EnsureDir(backend.Local()); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrLocalPath, err)
	}
	return backend, nil
}

func find(ctx context.Context, identifier string, opts FindOptions) (Backend, error) {
	id := strings.ToUpper(strings.TrimSpace(identifier))

	switch strings.ToLower(opts.Repo) {
	case "":
	case "pride":
		return NewPride(id, opts.Options)
	case "massive":
		return NewMassive(id, opts.Options)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownRepository, opts.Repo)
	}

	if accession.HasMassivePrefix(id) {
		return NewMassive(id, opts.Options)
	}
	if !accession.HasProteomeXchangePrefix(id) {
		return nil, fmt.Errorf("%w: %q", errors.ErrMalformedIdentifier, identifier)
	}

	ident, err := accession.ParsePride(id)
	if err != nil {
		return nil, err
	}

	opts.HTTP = opts.httpClient()
	candidate, err := NewResolver(opts.HTTP).Resolve(ctx, ident.Value)
	var fetchErr *errors.MetadataFetchError
	if stderrors.As(err, &fetchErr) && fetchErr.StatusCode != 0 {
		logger.Warn("ProteomeXchange lookup failed, trying PRIDE", logger.Fields{"id": ident.Value, "error": err.Error()})
		return NewPride(ident.Value, opts.Options)
	}
	if err != nil {
		return nil, err
	}

	if candidate.Kind == KindMassive {
		return NewMassive(candidate.ID, opts.Options)
	}
	return NewPride(candidate.ID, opts.Options)
}

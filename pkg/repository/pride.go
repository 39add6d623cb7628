package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/glorpus-work/pxget/internal/logger"
	"github.com/glorpus-work/pxget/pkg/accession"
	"github.com/glorpus-work/pxget/pkg/cache"
	"github.com/glorpus-work/pxget/pkg/http"
	"github.com/glorpus-work/pxget/pkg/transfer"
)

// PRIDE Archive REST endpoints.
var (
	PrideProjectURL   = "https://www.ebi.ac.uk/pride/ws/archive/v3/projects/"
	PrideFilesPathURL = "https://www.ebi.ac.uk/pride/ws/archive/v3/projects/files-path/"
	PrideAllURL       = "https://www.ebi.ac.uk/pride/ws/archive/v3/projects/all"
)

// prideURLFixes are applied cumulatively until a candidate FTP URL answers.
var prideURLFixes = [][2]string{
	{"", ""},
	{"/data/", "-"},
	{"pride.", ""},
}

// PrideBackend serves a project hosted by PRIDE Archive. The FTP location is
// looked up through the files-path endpoint.
type PrideBackend struct {
	id    string
	local string
	opts  Options
	http  http.Client

	metadata      *cache.Blob
	filesMetadata *cache.Blob
	location      *Location
}

// NewPride validates id and prepares a PRIDE backend. No network call is made.
func NewPride(id string, opts Options) (*PrideBackend, error) {
	ident, err := accession.ParsePride(id)
	if err != nil {
		return nil, err
	}
	local := opts.localDir(ident.Value)
	return &PrideBackend{
		id:            ident.Value,
		local:         local,
		opts:          opts,
		http:          opts.httpClient(),
		metadata:      cache.NewBlob(filepath.Join(local, cache.PrideMetadataName)),
		filesMetadata: cache.NewBlob(filepath.Join(local, cache.PrideFilesMetadataName)),
	}, nil
}

func (p *PrideBackend) ID() string    { return p.id }
func (p *PrideBackend) Kind() Kind    { return KindPride }
func (p *PrideBackend) Local() string { return p.local }

// Location resolves the FTP URL of the project, probing each URL fix in turn.
func (p *PrideBackend) Location(ctx context.Context) (Location, error) {
	if p.location != nil {
		return *p.location, nil
	}

	raw, err := p.FileInfo(ctx)
	if err != nil {
		return Location{}, err
	}
	var paths struct {
		FTP string `json:"ftp"`
	}
	if err := json.Unmarshal(raw, &paths); err != nil {
		return Location{}, Wrapf(err, "decode %s", cache.PrideFilesMetadataName)
	}
	if paths.FTP == "" {
		return Location{}, fmt.Errorf("%w %s", ErrNoFTPLocation, p.id)
	}

	candidate := strings.ReplaceAll(paths.FTP, "/generated", "")
	var lastErr error
	for _, fix := range prideURLFixes {
		if fix[0] != "" {
			candidate = strings.ReplaceAll(candidate, fix[0], fix[1])
		}
		if lastErr = p.probe(ctx, candidate); lastErr == nil {
			p.location = &Location{Kind: KindPride, ID: p.id, URL: candidate}
			return *p.location, nil
		}
		logger.Debug("PRIDE FTP candidate rejected", logger.Fields{"url": candidate, "error": lastErr.Error()})
	}
	return Location{}, lastErr
}

func (p *PrideBackend) probe(ctx context.Context, rawURL string) error {
	conn, err := p.opts.connect(rawURL)
	if err != nil {
		return err
	}
	defer conn.Close()
	return conn.Connect(ctx)
}

// List walks the project FTP directory.
func (p *PrideBackend) List(ctx context.Context, maxDepth int) (transfer.Listing, error) {
	return walkLocation(ctx, p, maxDepth)
}

// Download fetches paths into the project directory.
func (p *PrideBackend) Download(ctx context.Context, paths []string, opts transfer.DownloadOptions) ([]string, error) {
	return downloadLocation(ctx, p, paths, opts)
}

// Metadata returns the descriptive fields of the project record.
func (p *PrideBackend) Metadata(ctx context.Context) (Metadata, error) {
	raw, err := p.metadata.ReadThrough(ctx, p.opts.Fetch, func(ctx context.Context) ([]byte, error) {
		return p.http.GetBytes(ctx, PrideProjectURL+p.id, nil)
	})
	if err != nil {
		return Metadata{}, err
	}

	var record struct {
		Title                    string `json:"title"`
		ProjectDescription       string `json:"projectDescription"`
		SampleProcessingProtocol string `json:"sampleProcessingProtocol"`
		DataProcessingProtocol   string `json:"dataProcessingProtocol"`
		DOI                      string `json:"doi"`
	}
	if err := json.Unmarshal(raw, &record); err != nil {
		return Metadata{}, Wrapf(err, "decode %s", cache.PrideMetadataName)
	}
	return Metadata{
		Title:                    record.Title,
		Description:              record.ProjectDescription,
		SampleProcessingProtocol: record.SampleProcessingProtocol,
		DataProcessingProtocol:   record.DataProcessingProtocol,
		DOI:                      record.DOI,
	}, nil
}

// FileInfo returns the files-path document, cached in .pride-files-metadata.
func (p *PrideBackend) FileInfo(ctx context.Context) ([]byte, error) {
	return p.filesMetadata.ReadThrough(ctx, p.opts.Fetch, func(ctx context.Context) ([]byte, error) {
		return p.http.GetBytes(ctx, PrideFilesPathURL+p.id, nil)
	})
}

// ListPrideProjects returns every public PRIDE accession, sorted.
func ListPrideProjects(ctx context.Context, client http.Client) ([]string, error) {
	var entries []struct {
		Accession string `json:"accession"`
	}
	if err := client.GetJSON(ctx, PrideAllURL, nil, &entries); err != nil {
		return nil, err
	}

	accessions := make([]string, 0, len(entries))
	for _, e := range entries {
		accessions = append(accessions, e.Accession)
	}
	return filterAccessions(accessions, prideProjectPattern.MatchString), nil
}

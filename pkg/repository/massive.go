package repository

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/net/html/charset"

	"github.com/glorpus-work/pxget/internal/logger"
	"github.com/glorpus-work/pxget/pkg/accession"
	"github.com/glorpus-work/pxget/pkg/cache"
	"github.com/glorpus-work/pxget/pkg/errors"
	"github.com/glorpus-work/pxget/pkg/http"
	"github.com/glorpus-work/pxget/pkg/transfer"
)

// MassIVE endpoints.
var (
	MassiveFTPURL      = "ftp://massive.ucsd.edu/"
	MassiveFileInfoURL = "https://gnps-datasetcache.ucsd.edu/datasette/database/filename.csv"
	MassiveDatasetsURL = "https://massive.ucsd.edu/ProteoSAFe/datasets_json.jsp"
)

// MassiveParamsPath is the dataset parameter file, relative to the project root.
const MassiveParamsPath = "ccms_parameters/params.xml"

// MassiveBackend serves a project hosted by MassIVE. The FTP location is
// derived from the accession, so Location never touches the network.
type MassiveBackend struct {
	id    string
	local string
	opts  Options
	http  http.Client

	fileInfo *cache.Blob
}

// NewMassive validates id and prepares a MassIVE backend.
func NewMassive(id string, opts Options) (*MassiveBackend, error) {
	ident, err := accession.ParseMassive(id)
	if err != nil {
		return nil, err
	}
	local := opts.localDir(ident.Value)
	return &MassiveBackend{
		id:       ident.Value,
		local:    local,
		opts:     opts,
		http:     opts.httpClient(),
		fileInfo: cache.NewBlob(filepath.Join(local, cache.MassiveFileInfoName)),
	}, nil
}

func (m *MassiveBackend) ID() string    { return m.id }
func (m *MassiveBackend) Kind() Kind    { return KindMassive }
func (m *MassiveBackend) Local() string { return m.local }

// Location returns ftp://massive.ucsd.edu/<ID>.
func (m *MassiveBackend) Location(context.Context) (Location, error) {
	return Location{Kind: KindMassive, ID: m.id, URL: MassiveFTPURL + m.id}, nil
}

// List walks the project's FTP directory.
func (m *MassiveBackend) List(ctx context.Context, maxDepth int) (transfer.Listing, error) {
	return walkLocation(ctx, m, maxDepth)
}

// Download fetches paths into the project directory.
func (m *MassiveBackend) Download(ctx context.Context, paths []string, opts transfer.DownloadOptions) ([]string, error) {
	return downloadLocation(ctx, m, paths, opts)
}

// FileInfo returns the GNPS dataset cache CSV describing the project files.
func (m *MassiveBackend) FileInfo(ctx context.Context) ([]byte, error) {
	return m.fileInfo.ReadThrough(ctx, m.opts.Fetch, func(ctx context.Context) ([]byte, error) {
		return m.http.GetBytes(ctx, MassiveFileInfoURL, map[string]string{
			"_stream":        "on",
			"_sort":          "filepath",
			"dataset__exact": m.id,
			"_size":          "max",
		})
	})
}

// Metadata reads the title and description from ccms_parameters/params.xml,
// downloading it first unless a copy is already present.
func (m *MassiveBackend) Metadata(ctx context.Context) (Metadata, error) {
	local := filepath.Join(m.local, filepath.FromSlash(MassiveParamsPath))
	cached := fileExists(local)

	if !cached || m.opts.Fetch {
		_, err := m.Download(ctx, []string{MassiveParamsPath}, transfer.DownloadOptions{Force: m.opts.Fetch, Silent: true})
		if err != nil {
			if !cached {
				return Metadata{}, err
			}
			logger.Warn("using cached metadata", logger.Fields{"path": local, "error": err.Error()})
		}
	}

	f, err := os.Open(local)
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: %w", errors.ErrLocalPath, err)
	}
	defer func() { _ = f.Close() }()
	return parseParams(f)
}

func parseParams(r io.Reader) (Metadata, error) {
	var doc struct {
		Parameters []struct {
			Name  string `xml:"name,attr"`
			Value string `xml:",chardata"`
		} `xml:"parameter"`
	}
	decoder := xml.NewDecoder(r)
	// params.xml is declared as ISO-8859-1.
	decoder.CharsetReader = charset.NewReaderLabel
	if err := decoder.Decode(&doc); err != nil {
		return Metadata{}, Wrap(err, "parse "+MassiveParamsPath)
	}

	var md Metadata
	for _, p := range doc.Parameters {
		switch p.Name {
		case "dataset.title":
			md.Title = p.Value
		case "desc":
			md.Description = p.Value
		}
	}
	return md, nil
}

// ListMassiveProjects returns every public MassIVE accession, sorted.
func ListMassiveProjects(ctx context.Context, client http.Client) ([]string, error) {
	var body struct {
		Datasets []struct {
			Dataset string `json:"dataset"`
		} `json:"datasets"`
	}
	if err := client.GetJSON(ctx, MassiveDatasetsURL, nil, &body); err != nil {
		return nil, err
	}

	accessions := make([]string, 0, len(body.Datasets))
	for _, d := range body.Datasets {
		accessions = append(accessions, d.Dataset)
	}
	return filterAccessions(accessions, accession.HasMassivePrefix), nil
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

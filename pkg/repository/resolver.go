package repository

import (
	"context"
	"net/url"

	"github.com/glorpus-work/pxget/internal/logger"
	"github.com/glorpus-work/pxget/pkg/errors"
	"github.com/glorpus-work/pxget/pkg/http"
)

// ProteomeCentralURL is the ProteomeXchange federator dataset endpoint.
var ProteomeCentralURL = "http://proteomecentral.proteomexchange.org/cgi/GetDataset"

// datasetFTPLink is the fullDatasetLinks entry naming the FTP location.
const datasetFTPLink = "Dataset FTP location"

// Partner repositories announced through the identifiers list, by PSI-MS CV accession.
var repositoryCV = map[string]string{
	"MS:1002487": string(KindMassive),
	"MS:1002632": "jPOST",
	"MS:1002836": "iProx",
	"MS:1002872": "Panorama",
}

// Partner repositories recognised from the FTP host of the dataset link.
var repositoryFTPHosts = map[string]Kind{
	"ftp.pride.ebi.ac.uk": KindPride,
	"massive.ucsd.edu":    KindMassive,
}

// supportedOrder is the preference among repositories hosting the same dataset.
var supportedOrder = []Kind{KindPride, KindMassive}

// Candidate is the repository chosen to serve a ProteomeXchange dataset.
type Candidate struct {
	Kind Kind
	ID   string
}

// Resolver asks the ProteomeXchange federator where a dataset lives.
type Resolver struct {
	client http.Client
}

// NewResolver creates a resolver querying through client.
func NewResolver(client http.Client) *Resolver {
	return &Resolver{client: client}
}

type federatorTerm struct {
	Accession string `json:"accession"`
	Name      string `json:"name"`
	Value     string `json:"value"`
}

type federatorDataset struct {
	Identifiers      []federatorTerm `json:"identifiers"`
	FullDatasetLinks []federatorTerm `json:"fullDatasetLinks"`
}

// Resolve returns the preferred supported repository for a PXD/PRD accession.
// A repository-native accession that differs from id is logged and returned.
func (r *Resolver) Resolve(ctx context.Context, id string) (Candidate, error) {
	var dataset federatorDataset
	err := r.client.GetJSON(ctx, ProteomeCentralURL, map[string]string{
		"ID":         id,
		"outputMode": "JSON",
		"test":       "no",
	}, &dataset)
	if err != nil {
		return Candidate{}, err
	}

	found := map[string]string{}
	var order []string
	add := func(repo, repoID string) {
		if _, ok := found[repo]; !ok {
			order = append(order, repo)
		}
		found[repo] = repoID
	}

	for _, term := range dataset.Identifiers {
		if repo, ok := repositoryCV[term.Accession]; ok {
			add(repo, term.Value)
		}
	}
	for _, link := range dataset.FullDatasetLinks {
		if link.Name != datasetFTPLink {
			continue
		}
		u, err := url.Parse(link.Value)
		if err != nil {
			continue
		}
		if repositoryFTPHosts[u.Host] == KindPride {
			add(string(KindPride), id)
		}
	}

	if len(found) == 0 {
		return Candidate{}, &errors.UnsupportedRepositoryError{ID: id}
	}

	for _, kind := range supportedOrder {
		repoID, ok := found[string(kind)]
		if !ok {
			continue
		}
		if repoID != id {
			logger.Warn("repository ID differs from the requested ID", logger.Fields{
				"repository": kind,
				"id":         repoID,
				"requested":  id,
			})
		}
		return Candidate{Kind: kind, ID: repoID}, nil
	}
	return Candidate{}, &errors.UnsupportedRepositoryError{ID: id, Found: order}
}

package repository_test

import (
	"context"
	stderrors "errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/pxget/pkg/errors"
	"github.com/glorpus-work/pxget/pkg/http"
	"github.com/glorpus-work/pxget/pkg/repository"
	"github.com/glorpus-work/pxget/test/testutil"
)

func federator(t *testing.T, body string) *testutil.TestServer {
	t.Helper()
	ts := testutil.NewTestServer(t, map[string]testutil.Route{
		"/cgi/GetDataset": {Body: body},
	})
	setURL(t, &repository.ProteomeCentralURL, ts.URL+"/cgi/GetDataset")
	return ts
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		body    string
		want    repository.Candidate
		wantLog string
	}{
		{
			name: "PRIDE from the FTP link",
			id:   "PXD000001",
			body: "federator-PXD000001.json",
			want: repository.Candidate{Kind: repository.KindPride, ID: "PXD000001"},
		},
		{
			name:    "MassIVE accession from the identifiers",
			id:      "PXD025981",
			body:    "federator-PXD025981.json",
			want:    repository.Candidate{Kind: repository.KindMassive, ID: "MSV000087408"},
			wantLog: "repository ID differs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := federator(t, testutil.Fixture(t, tt.body))
			logs := testutil.CaptureLogs(t)

			got, err := repository.NewResolver(http.NewClient(5*time.Second)).Resolve(context.Background(), tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			query, err := url.ParseQuery(ts.Query("/cgi/GetDataset"))
			require.NoError(t, err)
			assert.Equal(t, tt.id, query.Get("ID"))
			assert.Equal(t, "JSON", query.Get("outputMode"))
			assert.Equal(t, "no", query.Get("test"))

			if tt.wantLog != "" {
				assert.Contains(t, logs.String(), tt.wantLog)
			} else {
				assert.NotContains(t, logs.String(), "repository ID differs")
			}
		})
	}
}

func TestResolve_PrefersPride(t *testing.T) {
	federator(t, `{
		"identifiers": [{"accession": "MS:1002487", "value": "MSV000011111"}],
		"fullDatasetLinks": [{"name": "Dataset FTP location", "value": "ftp://ftp.pride.ebi.ac.uk/pride/data/archive/2020/01/PXD011111"}]
	}`)

	got, err := repository.NewResolver(http.NewClient(5*time.Second)).Resolve(context.Background(), "PXD011111")
	require.NoError(t, err)
	assert.Equal(t, repository.Candidate{Kind: repository.KindPride, ID: "PXD011111"}, got)
}

func TestResolve_Unsupported(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantFound []string
		wantMsg   string
	}{
		{
			name:      "only unsupported partners",
			body:      testutil.Fixture(t, "federator-jpost.json"),
			wantFound: []string{"jPOST"},
			wantMsg:   "PXD011111 was found in jPOST",
		},
		{
			name:    "no partner at all",
			body:    `{"identifiers": [], "fullDatasetLinks": []}`,
			wantMsg: "no supported ProteomeXchange partner repository was found for PXD011111",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			federator(t, tt.body)

			_, err := repository.NewResolver(http.NewClient(5*time.Second)).Resolve(context.Background(), "PXD011111")
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrUnsupportedRepository)

			var unsupported *errors.UnsupportedRepositoryError
			require.True(t, stderrors.As(err, &unsupported))
			assert.Equal(t, tt.wantFound, unsupported.Found)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

package http

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/pxget/pkg/errors"
)

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PXD000001", r.URL.Query().Get("ID"))
		assert.Equal(t, "JSON", r.URL.Query().Get("outputMode"))
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"title": "TMT spikes"}`))
	}))
	defer server.Close()

	client := NewClient(5 * time.Second)
	var out struct {
		Title string `json:"title"`
	}
	err := client.GetJSON(context.Background(), server.URL, map[string]string{"ID": "PXD000001", "outputMode": "JSON"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "TMT spikes", out.Title)
}

func TestGet_StatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "not found", status: http.StatusNotFound, body: "no such dataset"},
		{name: "server error", status: http.StatusInternalServerError, body: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(5 * time.Second)
			client.client.SetRetryCount(0)
			_, err := client.GetBytes(context.Background(), server.URL, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrMetadataFetch)

			var mfe *errors.MetadataFetchError
			require.True(t, stderrors.As(err, &mfe))
			assert.Equal(t, tt.status, mfe.StatusCode)
			assert.Equal(t, tt.body, mfe.Body)
		})
	}
}

func TestGetJSON_InvalidBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer server.Close()

	var out map[string]any
	err := NewClient(time.Second).GetJSON(context.Background(), server.URL, nil, &out)
	assert.ErrorIs(t, err, errors.ErrMetadataFetch)
}

func TestGet_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(time.Second)
	client.client.SetRetryCount(0)
	_, err := client.GetBytes(context.Background(), url, nil)

	var mfe *errors.MetadataFetchError
	require.True(t, stderrors.As(err, &mfe))
	assert.Zero(t, mfe.StatusCode)
	assert.Error(t, mfe.Err)
}

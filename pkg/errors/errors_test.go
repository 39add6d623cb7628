package errors

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		msg      string
		expected string
	}{
		{name: "wrap nil error", err: nil, msg: "context", expected: ""},
		{name: "wrap standard error", err: errors.New("original error"), msg: "context", expected: "context: original error"},
		{name: "wrap with empty message", err: errors.New("original error"), msg: "", expected: ": original error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Wrap(tt.err, tt.msg)
			if tt.err == nil {
				assert.NoError(t, result)
				return
			}
			assert.EqualError(t, result, tt.expected)
			assert.ErrorIs(t, result, tt.err)
		})
	}
}

func TestWrapf(t *testing.T) {
	orig := errors.New("original error")
	assert.Nil(t, Wrapf(nil, "listing %s", "x"))

	err := Wrapf(orig, "failed to process %s in %d attempts", "file.txt", 3)
	assert.EqualError(t, err, "failed to process file.txt in 3 attempts: original error")
	assert.ErrorIs(t, err, orig)
}

func TestTransferError(t *testing.T) {
	err := Wrap(&TransferError{Op: "RETR README.txt", Attempts: 10, Err: io.ErrUnexpectedEOF}, "download")

	assert.ErrorIs(t, err, ErrTransfer)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Contains(t, err.Error(), "after 10 attempt(s)")

	var te *TransferError
	assert.True(t, errors.As(err, &te))
	assert.Equal(t, 10, te.Attempts)
}

func TestMetadataFetchError(t *testing.T) {
	tests := []struct {
		name     string
		err      *MetadataFetchError
		contains string
	}{
		{
			name:     "http status",
			err:      &MetadataFetchError{URL: "http://x", StatusCode: 404, Body: "no such project"},
			contains: "Error 404: no such project",
		},
		{
			name:     "network failure",
			err:      &MetadataFetchError{URL: "http://x", Err: io.EOF},
			contains: "EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, ErrMetadataFetch)
			assert.Contains(t, tt.err.Error(), tt.contains)
		})
	}
}

func TestNotFoundAndUnsupported(t *testing.T) {
	nf := &NotFoundError{Names: []string{"a.raw", "b.raw"}}
	assert.ErrorIs(t, nf, ErrRemoteNotFound)
	assert.Contains(t, nf.Error(), "a.raw, b.raw")

	un := &UnsupportedRepositoryError{ID: "PXD000002", Found: []string{"jPOST"}}
	assert.ErrorIs(t, un, ErrUnsupportedRepository)
	assert.Contains(t, un.Error(), "found in jPOST")

	none := &UnsupportedRepositoryError{ID: "PXD000002"}
	assert.Contains(t, none.Error(), "PXD000002")
}

//go:generate mockgen -destination=mocks/http.go . Client
package http

import "context"

// Client defines the interface for metadata HTTP operations.
type Client interface {
	// GetJSON performs a GET with the given query parameters and decodes the JSON body into out.
	GetJSON(ctx context.Context, url string, params map[string]string, out any) error

	// GetBytes performs a GET with the given query parameters and returns the raw body.
	GetBytes(ctx context.Context, url string, params map[string]string) ([]byte, error)
}

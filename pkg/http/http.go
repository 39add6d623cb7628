// Package http queries the JSON/XML metadata services of the proteomics repositories.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/glorpus-work/pxget/internal/logger"
	"github.com/glorpus-work/pxget/pkg/errors"
)

const (
	// DefaultUserAgent identifies the tool to the repositories.
	DefaultUserAgent = "pxget/1.0 (+https://github.com/glorpus-work/pxget)"

	defaultRetries   = 2
	defaultRetryWait = 500 * time.Millisecond
)

// RestyClient implements Client on top of resty. Requests that never got a
// response are retried by resty; HTTP status errors are not.
type RestyClient struct {
	client *resty.Client
}

// NewClient creates a metadata client. A zero timeout disables it.
func NewClient(timeout time.Duration) *RestyClient {
	c := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", DefaultUserAgent).
		SetRetryCount(defaultRetries).
		SetRetryWaitTime(defaultRetryWait)
	return &RestyClient{client: c}
}

// GetJSON performs a GET and decodes the JSON body into out.
func (rc *RestyClient) GetJSON(ctx context.Context, url string, params map[string]string, out any) error {
	body, err := rc.get(ctx, url, params, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &errors.MetadataFetchError{URL: url, Err: errors.Wrap(err, "failed to decode JSON response")}
	}
	return nil
}

// GetBytes performs a GET and returns the raw body.
func (rc *RestyClient) GetBytes(ctx context.Context, url string, params map[string]string) ([]byte, error) {
	return rc.get(ctx, url, params, "")
}

func (rc *RestyClient) get(ctx context.Context, url string, params map[string]string, accept string) ([]byte, error) {
	req := rc.client.R().SetContext(ctx).SetQueryParams(params)
	if accept != "" {
		req.SetHeader("Accept", accept)
	}

	logger.Debug("GET", logger.Fields{"url": url, "params": params})
	resp, err := req.Get(url)
	if err != nil {
		return nil, &errors.MetadataFetchError{URL: url, Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, ToErrorFromResponse(resp)
	}
	return resp.Body(), nil
}

// ToErrorFromResponse converts a non-200 response into a MetadataFetchError.
func ToErrorFromResponse(resp *resty.Response) error {
	url := resp.Request.URL
	if resp.RawResponse != nil && resp.RawResponse.Request != nil {
		url = resp.RawResponse.Request.URL.String()
	}
	return &errors.MetadataFetchError{
		URL:        url,
		StatusCode: resp.StatusCode(),
		Body:       resp.String(),
	}
}

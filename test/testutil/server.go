// Package testutil provides in-process stand-ins for the metadata services and
// FTP servers used by the repositories.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
)

// Route is a canned response for one request path.
type Route struct {
	Status      int
	Body        string
	ContentType string
}

// TestServer serves canned responses keyed by URL path and counts requests.
type TestServer struct {
	Server *httptest.Server
	URL    string

	mu        sync.Mutex
	hits      map[string]int
	lastQuery map[string]string
}

// NewTestServer starts a server answering routes; unknown paths get 404. The
// server is closed when the test ends.
func NewTestServer(t *testing.T, routes map[string]Route) *TestServer {
	t.Helper()
	ts := &TestServer{hits: map[string]int{}, lastQuery: map[string]string{}}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		ts.hits[r.URL.Path]++
		ts.lastQuery[r.URL.Path] = r.URL.RawQuery
		ts.mu.Unlock()

		route, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if route.ContentType == "" {
			route.ContentType = "application/json"
		}
		if route.Status == 0 {
			route.Status = http.StatusOK
		}
		w.Header().Set("Content-Type", route.ContentType)
		w.WriteHeader(route.Status)
		_, _ = w.Write([]byte(route.Body))
	}))
	ts.URL = ts.Server.URL
	t.Cleanup(ts.Server.Close)
	return ts
}

// Hits returns how many requests reached path.
func (ts *TestServer) Hits(path string) int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.hits[path]
}

// Query returns the raw query string of the last request to path.
func (ts *TestServer) Query(path string) string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.lastQuery[path]
}

// getProjectRoot returns the absolute path to the project root directory
func getProjectRoot() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		panic("Failed to get current file path")
	}
	// Navigate up to the project root (2 levels up from test/testutil)
	return filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
}

// Fixture returns the contents of test/data/<name>.
func Fixture(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(getProjectRoot(), "test", "data", name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read fixture %s: %v", path, err)
	}
	return string(data)
}

// RequireNetwork skips the test unless PXGET_NETWORK_TESTS=1.
func RequireNetwork(t *testing.T) {
	t.Helper()
	if os.Getenv("PXGET_NETWORK_TESTS") != "1" {
		t.Skipf("set PXGET_NETWORK_TESTS=1 to run %s against the live repositories", t.Name())
	}
}

package repository_test

import (
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/glorpus-work/pxget/pkg/http"
	"github.com/glorpus-work/pxget/pkg/repository"
	"github.com/glorpus-work/pxget/test/testutil"
)

// setURL points an endpoint variable at a test server for the duration of the test.
func setURL(t *testing.T, target *string, value string) {
	t.Helper()
	old := *target
	*target = value
	t.Cleanup(func() { *target = old })
}

func testOptions(t *testing.T, ctrl *gomock.Controller, ftp *testutil.FakeFTP) repository.Options {
	t.Helper()
	opts := repository.Options{
		CacheRoot:     t.TempDir(),
		Timeout:       5 * time.Second,
		MaxReconnects: 2,
		HTTP:          http.NewClient(5 * time.Second),
	}
	if ftp != nil {
		opts.Connection = ftp.Options(ctrl)
	}
	return opts
}

package testutil

import (
	"bytes"
	"testing"

	"github.com/glorpus-work/pxget/internal/logger"
)

// CaptureLogs redirects the global logger into a buffer at debug level for
// the rest of the test.
func CaptureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	logger.SetTestOutput(buf)
	logger.InitLogger("debug")
	t.Cleanup(func() {
		logger.UnsetTestOutput()
		logger.InitLogger("info")
	})
	return buf
}

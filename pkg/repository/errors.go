package repository

import (
	"fmt"

	"github.com/glorpus-work/pxget/pkg/errors"
)

// Common repository errors.
var (
	// ErrUnknownRepository is returned when an explicit repository name is not supported.
	ErrUnknownRepository = fmt.Errorf("unsupported repository name")

	// ErrNoFTPLocation is returned when PRIDE publishes no usable FTP location.
	ErrNoFTPLocation = fmt.Errorf("no FTP location for project")
)

// Wrap wraps an error with additional context specific to the repository package.
func Wrap(err error, msg string) error {
	return errors.Wrap(err, "repository: "+msg)
}

// Wrapf wraps an error with additional formatted context specific to the repository package.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, "repository: "+format, args...)
}

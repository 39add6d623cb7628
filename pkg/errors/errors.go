package errors

import (
	"fmt"
	"strings"
)

// Error kinds callers can branch on with errors.Is.
var (
	// ErrMalformedIdentifier is returned when an accession does not match any known pattern.
	ErrMalformedIdentifier = fmt.Errorf("malformed identifier")
	// ErrUnsupportedRepository is returned when no supported repository hosts a project.
	ErrUnsupportedRepository = fmt.Errorf("unsupported repository")
	// ErrRemoteNotFound is returned when a requested file or directory is absent remotely.
	ErrRemoteNotFound = fmt.Errorf("not found in the remote repository")
	// ErrTransfer is returned when the FTP connection exhausted its reconnect budget.
	ErrTransfer = fmt.Errorf("transfer failed")
	// ErrMetadataFetch is returned when a metadata endpoint could not be queried.
	ErrMetadataFetch = fmt.Errorf("failed to fetch metadata")
	// ErrLocalPath is returned when a local destination cannot be created or written.
	ErrLocalPath = fmt.Errorf("local path error")

	// Config errors.
	ErrEmptyConfigPath  = fmt.Errorf("config file path cannot be empty")
	ErrConfigParse      = fmt.Errorf("failed to parse config")
	ErrConfigValidation = fmt.Errorf("invalid configuration")
	ErrConfigEncode     = fmt.Errorf("failed to encode config")
	ErrConfigDirectory  = fmt.Errorf("failed to create config directory")
	ErrConfigFileCreate = fmt.Errorf("failed to create config file")
	ErrDataDirMissing   = fmt.Errorf("data directory does not exist")
)

// TransferError reports an FTP operation that failed after all attempts.
type TransferError struct {
	Op       string
	Attempts int
	Err      error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("%s: %s failed after %d attempt(s): %v", ErrTransfer, e.Op, e.Attempts, e.Err)
}

// Unwrap exposes both the kind and the last cause.
func (e *TransferError) Unwrap() []error {
	return []error{ErrTransfer, e.Err}
}

// MetadataFetchError carries the response of a failed metadata request.
// StatusCode is zero when the request never got a response.
type MetadataFetchError struct {
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *MetadataFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s from %s: Error %d: %s", ErrMetadataFetch, e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s from %s: %v", ErrMetadataFetch, e.URL, e.Err)
}

func (e *MetadataFetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMetadataFetch}
	}
	return []error{ErrMetadataFetch, e.Err}
}

// NotFoundError lists requested remote paths that do not exist.
type NotFoundError struct {
	Names []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("the following files were not found in the remote repository: %s",
		strings.Join(e.Names, ", "))
}

func (e *NotFoundError) Unwrap() error {
	return ErrRemoteNotFound
}

// UnsupportedRepositoryError names the repositories a project was found in
// when none of them can be downloaded from.
type UnsupportedRepositoryError struct {
	ID    string
	Found []string
}

func (e *UnsupportedRepositoryError) Error() string {
	if len(e.Found) == 0 {
		return fmt.Sprintf("%s: no supported ProteomeXchange partner repository was found for %s; "+
			"PRIDE and MassIVE are supported", ErrUnsupportedRepository, e.ID)
	}
	return fmt.Sprintf("%s: %s was found in %s; PRIDE and MassIVE are supported",
		ErrUnsupportedRepository, e.ID, strings.Join(e.Found, ", "))
}

func (e *UnsupportedRepositoryError) Unwrap() error {
	return ErrUnsupportedRepository
}

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

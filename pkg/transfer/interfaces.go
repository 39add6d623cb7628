//go:generate mockgen -destination=mocks/transfer.go . ServerConn
package transfer

import (
	"context"
	"io"
	"time"

	"github.com/jlaffaye/ftp"
)

// ServerConn is the subset of an FTP control connection used by this package.
type ServerConn interface {
	Login(user, password string) error
	ChangeDir(path string) error
	List(path string) ([]*ftp.Entry, error)
	FileSize(path string) (int64, error)
	// RetrFrom issues REST offset + RETR path and returns the data stream.
	RetrFrom(path string, offset uint64) (io.ReadCloser, error)
	Quit() error
}

// Dialer opens a control connection to addr. A zero timeout means no timeout.
type Dialer func(ctx context.Context, addr string, timeout time.Duration) (ServerConn, error)

// Operation is a unit of work run against a live connection.
type Operation func(conn ServerConn) error

type serverConn struct {
	*ftp.ServerConn
}

func (c serverConn) RetrFrom(path string, offset uint64) (io.ReadCloser, error) {
	resp, err := c.ServerConn.RetrFrom(path, offset)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

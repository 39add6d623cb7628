package transfer

import (
	"context"
	"net"
	"time"

	"github.com/jlaffaye/ftp"
)

// DialFTP is the default Dialer backed by github.com/jlaffaye/ftp. A non-zero
// timeout bounds the dial and every later read or write on the control and
// data connections, so a stalled server surfaces as a transport error.
func DialFTP(ctx context.Context, addr string, timeout time.Duration) (ServerConn, error) {
	dialer := &net.Dialer{Timeout: timeout}
	dial := func(network, address string) (net.Conn, error) {
		conn, err := dialer.DialContext(ctx, network, address)
		if err != nil || timeout <= 0 {
			return conn, err
		}
		return &deadlineConn{Conn: conn, timeout: timeout}, nil
	}

	opts := []ftp.DialOption{ftp.DialWithDialFunc(dial)}
	if timeout > 0 {
		opts = append(opts, ftp.DialWithShutTimeout(timeout))
	}
	conn, err := ftp.Dial(addr, opts...)
	if err != nil {
		return nil, err
	}
	return serverConn{conn}, nil
}

// deadlineConn pushes the deadline forward before each read and write, making
// timeout an idle limit rather than a limit on the whole session.
type deadlineConn struct {
	net.Conn
	timeout time.Duration
}

func (c *deadlineConn) Read(b []byte) (int, error) {
	if err := c.Conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Read(b)
}

func (c *deadlineConn) Write(b []byte) (int, error) {
	if err := c.Conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Write(b)
}

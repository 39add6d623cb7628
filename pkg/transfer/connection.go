// Package transfer walks and downloads from anonymous FTP servers through a
// single reconnecting connection.
package transfer

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/textproto"
	"net/url"
	"path"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/glorpus-work/pxget/internal/logger"
	"github.com/glorpus-work/pxget/pkg/errors"
)

const (
	// DefaultMaxReconnects bounds the attempts made by WithReconnect.
	DefaultMaxReconnects = 10
	// DefaultBackoff is the pause before each reconnect.
	DefaultBackoff = 2 * time.Second

	anonymousUser     = "anonymous"
	anonymousPassword = "anonymous"
	defaultFTPPort    = "21"
)

// Connection owns at most one live control connection to a fixed server and
// root directory. It is not safe for concurrent use.
type Connection struct {
	addr          string
	root          string
	timeout       time.Duration
	maxReconnects int
	backoff       time.Duration
	dial          Dialer
	hooks         Hooks

	conn ServerConn
}

// Option configures a Connection.
type Option func(*Connection)

// WithTimeout bounds dialing and every control or data channel read and write. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Connection) { c.timeout = d }
}

// WithMaxReconnects sets the attempt budget of WithReconnect. Values below one are ignored.
func WithMaxReconnects(n int) Option {
	return func(c *Connection) {
		if n > 0 {
			c.maxReconnects = n
		}
	}
}

// WithBackoff sets the pause before a reconnect.
func WithBackoff(d time.Duration) Option {
	return func(c *Connection) { c.backoff = d }
}

// WithDialer replaces the FTP dialer.
func WithDialer(d Dialer) Option {
	return func(c *Connection) { c.dial = d }
}

// WithHooks registers event callbacks.
func WithHooks(h Hooks) Option {
	return func(c *Connection) { c.hooks = h }
}

// NewConnection prepares a connection to an ftp:// URL. Nothing is dialed until
// Connect or WithReconnect is called.
func NewConnection(rawURL string, opts ...Option) (*Connection, error) {
	addr, root, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	c := &Connection{
		addr:          addr,
		root:          root,
		maxReconnects: DefaultMaxReconnects,
		backoff:       DefaultBackoff,
		dial:          DialFTP,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ParseURL splits ftp://host[:port]/path into a dial address and a root path.
func ParseURL(rawURL string) (addr, root string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", errors.Wrapf(err, "invalid URL %q", rawURL)
	}
	if u.Scheme != "ftp" || u.Host == "" {
		return "", "", fmt.Errorf("%w: %s", ErrNotFTPURL, rawURL)
	}
	host := u.Host
	if u.Port() == "" {
		host = net.JoinHostPort(u.Hostname(), defaultFTPPort)
	}
	root = path.Clean("/" + u.Path)
	return host, root, nil
}

// Addr returns the host:port being dialed.
func (c *Connection) Addr() string { return c.addr }

// Root returns the directory entered after login.
func (c *Connection) Root() string { return c.root }

// Timeout returns the configured per-operation timeout.
func (c *Connection) Timeout() time.Duration { return c.timeout }

// MaxReconnects returns the attempt budget.
func (c *Connection) MaxReconnects() int { return c.maxReconnects }

// Connect dials, logs in anonymously and enters the root directory.
// It is a no-op when already connected.
func (c *Connection) Connect(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}

	logger.Debug("connecting", logger.Fields{"addr": c.addr, "root": c.root})
	conn, err := c.dial(ctx, c.addr, c.timeout)
	if err != nil {
		return errors.Wrapf(err, "dial %s", c.addr)
	}
	if err := conn.Login(anonymousUser, anonymousPassword); err != nil {
		_ = conn.Quit()
		return errors.Wrapf(err, "login to %s", c.addr)
	}
	if c.root != "/" {
		if err := conn.ChangeDir(c.root); err != nil {
			_ = conn.Quit()
			return errors.Wrapf(err, "change directory to %s", c.root)
		}
	}

	c.conn = conn
	c.hooks.emit(Event{Phase: PhaseConnect, Path: c.root})
	return nil
}

// Close releases the control connection. Safe to call when not connected.
func (c *Connection) Close() {
	if c.conn == nil {
		return
	}
	if err := c.conn.Quit(); err != nil {
		logger.Debug("quit failed", logger.Fields{"addr": c.addr, "error": err.Error()})
	}
	c.conn = nil
}

// WithReconnect runs op against the live connection, connecting first if needed.
// Transport failures close the connection, reconnect from scratch and retry op,
// up to MaxReconnects attempts in total. Permanent FTP replies are not retried.
func (c *Connection) WithReconnect(ctx context.Context, name string, op Operation) error {
	var lastErr error
	for attempt := 1; attempt <= c.maxReconnects; attempt++ {
		if attempt > 1 {
			c.Close()
			c.hooks.emit(Event{Phase: PhaseReconnect, Path: name, Attempt: attempt, Err: lastErr})
			logger.Warn("connection lost, reconnecting", logger.Fields{
				"addr":    c.addr,
				"op":      name,
				"attempt": attempt,
				"error":   lastErr.Error(),
			})
			if err := sleep(ctx, c.backoff); err != nil {
				return err
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		err := c.Connect(ctx)
		if err == nil {
			err = op(c.conn)
			if err == nil {
				return nil
			}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			c.Close()
			return ctxErr
		}
		if code, ok := permanentCode(err); ok {
			if code == ftp.StatusFileUnavailable {
				return fmt.Errorf("%w: %s: %v", errors.ErrRemoteNotFound, name, err)
			}
			c.Close()
			return &errors.TransferError{Op: name, Attempts: attempt, Err: err}
		}
		lastErr = err
	}

	c.Close()
	return &errors.TransferError{Op: name, Attempts: c.maxReconnects, Err: lastErr}
}

// permanentCode reports a 5xx reply. Those describe the request, not the transport.
func permanentCode(err error) (int, bool) {
	var protoErr *textproto.Error
	if stderrors.As(err, &protoErr) && protoErr.Code >= 500 && protoErr.Code < 600 {
		return protoErr.Code, true
	}
	return 0, false
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

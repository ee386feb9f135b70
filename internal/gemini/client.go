package gemini

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"time"

	"github.com/gemnav/gemnav/internal/urlutil"
)

// Config bounds a single fetch exchange.
type Config struct {
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxHeaderBytes int
	MaxBodyBytes   int64
	MaxRedirects   int
	Verify         VerifyPolicy
}

// DefaultConfig returns the protocol defaults: 5s deadlines, a header
// bound of 1026 bytes (1024 meta + 2 status digits), a 5 MiB body cap,
// and at most 5 redirect hops per navigation.
func DefaultConfig() Config {
	return Config{
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
		MaxHeaderBytes: 1026,
		MaxBodyBytes:   5 * 1024 * 1024,
		MaxRedirects:   5,
		Verify:         TrustAll{},
	}
}

func (c Config) WithDefaults() Config {
	out := c
	def := DefaultConfig()
	if out.ConnectTimeout <= 0 {
		out.ConnectTimeout = def.ConnectTimeout
	}
	if out.ReadTimeout <= 0 {
		out.ReadTimeout = def.ReadTimeout
	}
	if out.WriteTimeout <= 0 {
		out.WriteTimeout = def.WriteTimeout
	}
	if out.MaxHeaderBytes <= 0 {
		out.MaxHeaderBytes = def.MaxHeaderBytes
	}
	if out.MaxBodyBytes <= 0 {
		out.MaxBodyBytes = def.MaxBodyBytes
	}
	if out.MaxRedirects <= 0 {
		out.MaxRedirects = def.MaxRedirects
	}
	if out.Verify == nil {
		out.Verify = TrustAll{}
	}
	return out
}

// Client performs Gemini fetches. Each exchange owns its connection;
// connections are never reused across requests or redirect hops.
type Client struct {
	cfg Config
}

func NewClient(cfg Config) *Client {
	return &Client{cfg: cfg.WithDefaults()}
}

// Fetch performs one request/response exchange against u. It does not
// follow redirects; Navigate owns that loop. The returned response
// carries a body only for success-category statuses.
func (c *Client) Fetch(ctx context.Context, u *url.URL) (*Response, error) {
	raw, err := c.dial(ctx, urlutil.DialAddr(u))
	if err != nil {
		return nil, err
	}

	conn, err := c.handshake(ctx, raw, u.Hostname())
	if err != nil {
		_ = raw.Close()
		return nil, err
	}
	defer conn.Close()

	if err := c.setWriteDeadline(ctx, conn); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	if _, err := io.WriteString(conn, u.String()+"\r\n"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	br := bufio.NewReader(conn)
	if err := c.setReadDeadline(ctx, conn); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	line, err := readHeaderLine(br, c.cfg.MaxHeaderBytes)
	if err != nil {
		return nil, err
	}
	status, meta, err := ParseHeader(line)
	if err != nil {
		return nil, err
	}

	category := status / 10
	if (category == CategoryInput || category == CategoryRedirect) && meta == "" {
		return nil, fmt.Errorf("%w: missing meta", ErrInvalidResponse)
	}

	resp := &Response{Status: status, Meta: meta}
	if category == CategorySuccess {
		body, err := readBody(br, c.cfg.MaxBodyBytes, func() error {
			return c.setReadDeadline(ctx, conn)
		})
		if err != nil {
			return nil, err
		}
		resp.Body = body
	}
	return resp, nil
}

// dial resolves addr and tries each candidate address in order under
// the connect timeout. A connect timeout fails the whole operation
// immediately; remaining candidates are not tried.
func (c *Client) dial(ctx context.Context, addr string) (net.Conn, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	candidates, err := net.DefaultResolver.LookupHost(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: could not resolve host", ErrConnectionFailed)
	}

	dialer := net.Dialer{Timeout: c.cfg.ConnectTimeout}
	var lastErr error
	for _, candidate := range candidates {
		conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(candidate, port))
		if err == nil {
			return conn, nil
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, ErrTimeout
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, lastErr)
}

// handshake wraps raw in TLS with the host as SNI. Read and write
// deadlines go onto the socket before the handshake runs.
func (c *Client) handshake(ctx context.Context, raw net.Conn, serverName string) (*tls.Conn, error) {
	now := time.Now()
	if err := raw.SetReadDeadline(now.Add(c.cfg.ReadTimeout)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTLS, err)
	}
	if err := raw.SetWriteDeadline(now.Add(c.cfg.WriteTimeout)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTLS, err)
	}
	conn := tls.Client(raw, clientTLSConfig(serverName, c.cfg.Verify))
	if err := conn.HandshakeContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTLS, err)
	}
	return conn, nil
}

func (c *Client) setWriteDeadline(ctx context.Context, conn net.Conn) error {
	deadline := time.Now().Add(c.cfg.WriteTimeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	return conn.SetWriteDeadline(deadline)
}

func (c *Client) setReadDeadline(ctx context.Context, conn net.Conn) error {
	deadline := time.Now().Add(c.cfg.ReadTimeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	return conn.SetReadDeadline(deadline)
}

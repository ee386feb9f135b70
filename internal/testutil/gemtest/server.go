// Package gemtest runs a scripted in-process Gemini server over TLS
// for client tests.
package gemtest

import (
	"bufio"
	"crypto/tls"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/gemnav/gemnav/internal/testutil/tlstest"
)

// Handler maps one request line (terminator stripped) to the raw bytes
// the server writes back before closing the connection.
type Handler func(requestLine string) []byte

// Server is a loopback Gemini server. Each accepted connection serves
// exactly one exchange, like the real protocol.
type Server struct {
	ln      net.Listener
	handler Handler
}

func Start(t *testing.T, handler Handler) *Server {
	t.Helper()

	cert := tlstest.SelfSigned(t, "127.0.0.1")
	ln, err := tls.Listen("tcp", "127.0.0.1:0", &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	s := &Server{ln: ln, handler: handler}
	go s.acceptLoop()
	t.Cleanup(s.Close)
	return s
}

// Static starts a server that answers every request with the same raw
// response bytes.
func Static(t *testing.T, response []byte) *Server {
	t.Helper()
	return Start(t, func(string) []byte { return response })
}

func (s *Server) Close() {
	_ = s.ln.Close()
}

// Addr returns the host:port the server listens on.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// URL returns an absolute gemini URL for path on this server.
func (s *Server) URL(path string) string {
	return "gemini://" + s.Addr() + path
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.serve(conn)
	}
}

func (s *Server) serve(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(10 * time.Second))

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return
	}
	resp := s.handler(strings.TrimRight(line, "\r\n"))
	if len(resp) > 0 {
		_, _ = conn.Write(resp)
	}
}

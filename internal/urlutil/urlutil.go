// Package urlutil owns gemini URL handling.
//
// Ownership boundary:
// - absolute gemini:// URL validation
// - relative reference resolution against a base
// - dial target and input-query encoding helpers
package urlutil

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// DefaultPort is used when a gemini URL carries no explicit port.
const DefaultPort = "1965"

var ErrInvalidURL = errors.New("urlutil: invalid url")

// Parse parses an absolute gemini:// URL. The scheme must be "gemini",
// the host must be present, and an empty path is normalized to "/".
// Internationalized hosts are converted to their ASCII (punycode) form.
func Parse(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidURL, raw, err)
	}
	if u.Scheme != "gemini" {
		return nil, fmt.Errorf("%w: expected gemini:// scheme, got %s://", ErrInvalidURL, u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("%w: missing host in %q", ErrInvalidURL, raw)
	}
	if !isASCII(host) {
		ascii, err := idna.Lookup.ToASCII(host)
		if err != nil {
			return nil, fmt.Errorf("%w: idn host %q: %v", ErrInvalidURL, host, err)
		}
		if port := u.Port(); port != "" {
			u.Host = net.JoinHostPort(ascii, port)
		} else {
			u.Host = ascii
		}
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u, nil
}

// Resolve resolves reference against base. Absolute gemini:// references
// are parsed directly, independent of base; anything else goes through
// standard relative resolution. Resolving onto a non-gemini scheme is
// rejected.
func Resolve(base *url.URL, reference string) (*url.URL, error) {
	trimmed := strings.TrimSpace(reference)
	if strings.HasPrefix(trimmed, "gemini://") {
		return Parse(trimmed)
	}
	ref, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot resolve %q: %v", ErrInvalidURL, trimmed, err)
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "gemini" {
		return nil, fmt.Errorf("%w: resolved url has non-gemini scheme: %s", ErrInvalidURL, resolved.Scheme)
	}
	return resolved, nil
}

// DialAddr returns the host:port dial target for u, applying the
// default Gemini port when the URL names none.
func DialAddr(u *url.URL) string {
	port := u.Port()
	if port == "" {
		port = DefaultPort
	}
	return net.JoinHostPort(u.Hostname(), port)
}

// WithInput returns a copy of u carrying input as its raw query,
// percent-encoded the way Gemini input prompts (status 1x) expect.
func WithInput(u *url.URL, input string) *url.URL {
	out := *u
	out.RawQuery = url.QueryEscape(input)
	return &out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

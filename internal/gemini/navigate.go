package gemini

import (
	"context"
	"net/url"

	"github.com/gemnav/gemnav/internal/urlutil"
)

// Result is a terminal navigation outcome: the non-redirect response
// and the URL it was actually fetched from after any redirects.
type Result struct {
	Response *Response
	URL      *url.URL
	Hops     int
}

// Navigate fetches u and follows redirects until a non-redirect
// response, a protocol error, or a chain violation. Hops are strictly
// sequential; each hop's connection is fully closed before the next
// one opens. Any error aborts the navigation with no partial result.
func (c *Client) Navigate(ctx context.Context, u *url.URL) (*Result, error) {
	current := u
	visited := []string{current.String()}
	for {
		resp, err := c.Fetch(ctx, current)
		if err != nil {
			return nil, err
		}
		if !resp.IsRedirect() {
			return &Result{Response: resp, URL: current, Hops: len(visited) - 1}, nil
		}
		target, err := urlutil.Resolve(current, resp.Meta)
		if err != nil {
			return nil, err
		}
		targetStr := target.String()
		if err := checkRedirect(visited, targetStr, c.cfg.MaxRedirects); err != nil {
			return nil, err
		}
		visited = append(visited, targetStr)
		current = target
	}
}

// checkRedirect enforces the hop cap before duplicate detection: a
// full chain rejects any further target, even one that would also be
// a loop.
func checkRedirect(visited []string, target string, maxHops int) error {
	if len(visited) >= maxHops {
		return ErrTooManyRedirects
	}
	for _, seen := range visited {
		if seen == target {
			return ErrRedirectLoop
		}
	}
	return nil
}

package gemini

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"syscall"
)

const bodyChunkSize = 8192

// readBody drains the channel in bounded chunks until it closes,
// enforcing the running size cap. The protocol frames the body as
// "read until close", so an abrupt close is a normal end-of-body
// signal, not an error. refresh runs before each chunk to renew the
// read deadline.
func readBody(r *bufio.Reader, maxBytes int64, refresh func() error) ([]byte, error) {
	body := make([]byte, 0, bodyChunkSize)
	chunk := make([]byte, bodyChunkSize)
	var total int64
	for {
		if refresh != nil {
			if err := refresh(); err != nil {
				return nil, fmt.Errorf("gemini: read body: %w", err)
			}
		}
		n, err := r.Read(chunk)
		if n > 0 {
			total += int64(n)
			if total > maxBytes {
				return nil, ErrBodyTooLarge
			}
			body = append(body, chunk[:n]...)
		}
		if err != nil {
			if isCloseSignal(err) {
				return body, nil
			}
			return nil, fmt.Errorf("gemini: read body: %w", err)
		}
	}
}

func isCloseSignal(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET)
}

package gemini

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// readHeaderLine scans the response header byte by byte until CRLF and
// returns the line with the terminator stripped. The buffered reader
// batches the underlying reads; the scan itself stays byte-granular so
// the length bound applies to exactly the bytes collected. EOF before
// any byte is an error. EOF after some bytes returns the partial line
// as if it were complete.
func readHeaderLine(r *bufio.Reader, maxLen int) (string, error) {
	buf := make([]byte, 0, maxLen)
	for {
		b, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if len(buf) == 0 {
					return "", fmt.Errorf("%w: empty response", ErrInvalidResponse)
				}
				break
			}
			return "", err
		}
		buf = append(buf, b)
		if len(buf) >= 2 && buf[len(buf)-2] == '\r' && buf[len(buf)-1] == '\n' {
			buf = buf[:len(buf)-2]
			break
		}
		if len(buf) > maxLen {
			return "", fmt.Errorf("%w: header line too long", ErrInvalidResponse)
		}
	}
	if !utf8.Valid(buf) {
		return "", fmt.Errorf("%w: header is not valid UTF-8", ErrInvalidResponse)
	}
	return string(buf), nil
}

// ParseHeader splits a header line (terminator already stripped) into
// status and meta. This validates status-line syntax only; category
// semantics such as required meta are checked by the fetch caller.
func ParseHeader(line string) (int, string, error) {
	line = strings.TrimRight(line, "\r\n")

	if len(line) < 2 {
		return 0, "", fmt.Errorf("%w: invalid status code", ErrInvalidResponse)
	}
	d1, d2 := line[0], line[1]
	if d1 < '0' || d1 > '9' || d2 < '0' || d2 > '9' {
		return 0, "", fmt.Errorf("%w: invalid status code", ErrInvalidResponse)
	}
	status := int(d1-'0')*10 + int(d2-'0')
	if status < 10 || status > 69 {
		return 0, "", fmt.Errorf("%w: status code out of range", ErrInvalidResponse)
	}

	var meta string
	if len(line) > 2 {
		if line[2] != ' ' {
			// Characters after the status with no separator.
			return 0, "", fmt.Errorf("%w: invalid status code", ErrInvalidResponse)
		}
		meta = line[3:]
	}
	return status, meta, nil
}

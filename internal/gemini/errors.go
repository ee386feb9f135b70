package gemini

import "errors"

var (
	ErrConnectionFailed = errors.New("gemini: connection failed")
	ErrTimeout          = errors.New("gemini: timeout connecting to server")
	ErrTLS              = errors.New("gemini: tls error")
	ErrInvalidResponse  = errors.New("gemini: invalid response header")
	ErrBodyTooLarge     = errors.New("gemini: response body too large")
	ErrTooManyRedirects = errors.New("gemini: too many redirects")
	ErrRedirectLoop     = errors.New("gemini: redirect loop detected")
)

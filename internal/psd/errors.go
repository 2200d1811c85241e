package psd

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for PSD API operations.
var (
	ErrNoAPIKey     = errors.New("psd: api key not configured")
	ErrConnection   = errors.New("psd: connection failed")
	ErrNotFound     = errors.New("psd: not found")
	ErrUnauthorized = errors.New("psd: unauthorized")
	ErrRateLimited  = errors.New("psd: rate limited by server")
	ErrServer       = errors.New("psd: server error")
	ErrStatus       = errors.New("psd: unexpected status")
	ErrDecode       = errors.New("psd: unexpected response shape")
)

// Error wraps an underlying error with request context. Status is the
// upstream HTTP status, or 502 for connection failures and 500 when no
// request was made.
type Error struct {
	Op      string
	Path    string
	Status  int
	Details any
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("psd %s [%s] status %d: %v", e.Op, e.Path, e.Status, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// statusError maps a non-2xx upstream status to a sentinel.
func statusError(status int) error {
	switch {
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrUnauthorized
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status >= 500:
		return ErrServer
	default:
		return fmt.Errorf("%w %d", ErrStatus, status)
	}
}

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"silicon.com/app/internal/shared/apperr"
)

var ErrNotConfigured = errors.New("backend: base URL not configured")

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string // backend-provided message, verbatim
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s returned %d", e.Method, e.Path, e.StatusCode)
}

// TransportError means the backend could not be reached or did not answer.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the request ran out of time.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

func newAPIError(method, path string, status int, raw []byte) *APIError {
	return &APIError{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Message:    MessageFrom(raw, status),
		Body:       string(raw),
	}
}

// MessageFrom pulls the human message out of a backend error body:
// "message" first, then "error", then the plain-text body, then the status text.
func MessageFrom(raw []byte, status int) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil {
		if env.Message != "" {
			return env.Message
		}
		if env.Error != "" {
			return env.Error
		}
	}
	if s := strings.TrimSpace(string(raw)); s != "" && !strings.HasPrefix(s, "{") && !strings.HasPrefix(s, "<") && len(s) <= 200 {
		return s
	}
	return http.StatusText(status)
}

func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// StatusCode returns the backend status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IgnoreStatusCodes drops API errors with one of the given codes.
func IgnoreStatusCodes(err error, codes ...int) error {
	code := StatusCode(err)
	for _, c := range codes {
		if code == c {
			return nil
		}
	}
	return err
}

// AsAppError maps a client error onto the application error taxonomy:
// missing configuration, transport failure or timeout, backend-reported failure.
func AsAppError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.As(err); ok {
		return err
	}
	if errors.Is(err, ErrNotConfigured) {
		return apperr.UnconfiguredErr()
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apperr.UpstreamErr(apiErr.StatusCode, apiErr.Message, err)
	}
	var te *TransportError
	if errors.As(err, &te) {
		if te.Timeout() {
			return apperr.TimeoutErr(err)
		}
		return apperr.UnavailableErr(err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.TimeoutErr(err)
	}
	return apperr.Wrap(err)
}

// Package apperr classifies failures for the HTTP layer: each error carries a
// Kind, a message safe to show to users and, for relayed backend failures,
// the backend's own status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	Invalid      Kind = "invalid"
	NotFound     Kind = "not_found"
	Unauthorized Kind = "unauthorized"
	Forbidden    Kind = "forbidden"
	Conflict     Kind = "conflict"
	Unavailable  Kind = "unavailable"
	Timeout      Kind = "timeout"
	Unconfigured Kind = "unconfigured"
	Internal     Kind = "internal"
)

const defaultPublicMsg = "Something went wrong. Please try again."

type AppError struct {
	Kind      Kind
	PublicMsg string            // safe to show to the user
	Fields    map[string]string // per-field validation errors
	Status    int               // relayed upstream status; overrides Kind
	Err       error             // logged only
}

// Status is the HTTP status a Kind maps to when no upstream status is relayed.
func (k Kind) Status() int {
	switch k {
	case Invalid:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Unavailable:
		return http.StatusBadGateway
	case Timeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// kindFor classifies an upstream status.
func kindFor(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return Unauthorized
	case status == http.StatusForbidden:
		return Forbidden
	case status == http.StatusNotFound:
		return NotFound
	case status == http.StatusConflict:
		return Conflict
	case status == http.StatusGatewayTimeout:
		return Timeout
	case status >= 400 && status < 500:
		return Invalid
	}
	return Internal
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	if e.PublicMsg != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.PublicMsg)
	}
	return string(e.Kind)
}

func (e *AppError) Unwrap() error { return e.Err }

// PublicMsg must stay short and safe to show.
func InvalidErr(publicMsg string, fields map[string]string) *AppError {
	return &AppError{Kind: Invalid, PublicMsg: publicMsg, Fields: fields}
}
func NotFoundErr(publicMsg string) *AppError {
	return &AppError{Kind: NotFound, PublicMsg: publicMsg}
}
func UnauthorizedErr(publicMsg string) *AppError {
	return &AppError{Kind: Unauthorized, PublicMsg: publicMsg}
}
func ForbiddenErr(publicMsg string) *AppError {
	return &AppError{Kind: Forbidden, PublicMsg: publicMsg}
}
func ConflictErr(publicMsg string) *AppError {
	return &AppError{Kind: Conflict, PublicMsg: publicMsg}
}

// UnavailableErr: the backend could not be reached.
func UnavailableErr(err error) *AppError {
	return &AppError{Kind: Unavailable, PublicMsg: "The service is temporarily unavailable.", Err: err}
}

// TimeoutErr: the backend did not answer in time.
func TimeoutErr(err error) *AppError {
	return &AppError{Kind: Timeout, PublicMsg: "Upstream request timed out", Err: err}
}

// UnconfiguredErr: the backend base URL is missing.
func UnconfiguredErr() *AppError {
	return &AppError{Kind: Unconfigured, PublicMsg: "API not configured"}
}

// UpstreamErr relays a backend-reported failure with its status and message.
func UpstreamErr(status int, publicMsg string, err error) *AppError {
	return &AppError{Kind: kindFor(status), PublicMsg: publicMsg, Status: status, Err: err}
}

// Wrap classifies an unknown error as Internal with the default message.
// Errors that already are AppErrors pass through.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if ae, ok := As(err); ok {
		return ae
	}
	return &AppError{Kind: Internal, PublicMsg: defaultPublicMsg, Err: err}
}

func As(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func HTTPStatus(err error) int {
	ae, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	if ae.Status != 0 {
		return ae.Status
	}
	return ae.Kind.Status()
}

func PublicMessage(err error) string {
	if ae, ok := As(err); ok && ae.PublicMsg != "" {
		return ae.PublicMsg
	}
	return defaultPublicMsg
}

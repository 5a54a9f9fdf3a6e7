// Package enquiry relays product-enquiry submissions to the backend and
// normalises every failure into {success:false, error}.
package enquiry

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"silicon.com/app/internal/backend"
)

// Timeout bounds the upstream call regardless of the client's own timeout.
const Timeout = 60 * time.Second

const (
	MsgNotConfigured = "API not configured"
	MsgInvalidJSON   = "Invalid JSON payload"
	MsgTimeout       = "Upstream request timed out"
	MsgUnavailable   = "Failed to reach enquiry service"
)

type Upstream interface {
	Configured() bool
	ForwardEnquiry(ctx context.Context, body []byte) (*backend.RawResponse, error)
}

// Body is the uniform response shape.
type Body struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type Result struct {
	Status int
	Body   Body
}

type Forwarder struct {
	up      Upstream
	log     *zap.Logger
	timeout time.Duration
}

func NewForwarder(up Upstream, log *zap.Logger) *Forwarder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Forwarder{up: up, log: log, timeout: Timeout}
}

// WithTimeout overrides the upstream timeout (tests).
func (f *Forwarder) WithTimeout(d time.Duration) *Forwarder {
	f.timeout = d
	return f
}

// Unconfigured returns the answer for a server without a backend, and
// whether that is the case. Callers check it before reading the body.
func (f *Forwarder) Unconfigured() (Result, bool) {
	if f.up.Configured() {
		return Result{}, false
	}
	return fail(http.StatusInternalServerError, MsgNotConfigured), true
}

// Forward sends body upstream byte for byte. It never returns an error:
// every outcome is a status and a Body.
func (f *Forwarder) Forward(ctx context.Context, body []byte) Result {
	if res, ok := f.Unconfigured(); ok {
		return res
	}
	if !json.Valid(body) {
		return fail(http.StatusBadRequest, MsgInvalidJSON)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	resp, err := f.up.ForwardEnquiry(ctx, body)
	if err != nil {
		var te *backend.TransportError
		switch {
		case errors.Is(err, backend.ErrNotConfigured):
			return fail(http.StatusInternalServerError, MsgNotConfigured)
		case errors.As(err, &te) && te.Timeout(), errors.Is(err, context.DeadlineExceeded):
			f.log.Warn("enquiry_upstream_timeout", zap.Duration("timeout", f.timeout), zap.Error(err))
			return fail(http.StatusGatewayTimeout, MsgTimeout)
		default:
			f.log.Error("enquiry_upstream_failed", zap.Error(err))
			return fail(http.StatusBadGateway, MsgUnavailable)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := backend.MessageFrom(resp.Body, resp.StatusCode)
		f.log.Info("enquiry_rejected", zap.Int("status", resp.StatusCode), zap.String("message", msg))
		return fail(resp.StatusCode, msg)
	}

	out := Result{Status: resp.StatusCode, Body: Body{Success: true}}
	if json.Valid(resp.Body) {
		out.Body.Data = json.RawMessage(resp.Body)
	}
	return out
}

func fail(status int, msg string) Result {
	return Result{Status: status, Body: Body{Success: false, Error: msg}}
}

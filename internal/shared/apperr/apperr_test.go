package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"silicon.com/app/internal/shared/apperr"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid", apperr.InvalidErr("bad", nil), http.StatusBadRequest},
		{"not found", apperr.NotFoundErr("missing"), http.StatusNotFound},
		{"unauthorized", apperr.UnauthorizedErr("login"), http.StatusUnauthorized},
		{"forbidden", apperr.ForbiddenErr("no"), http.StatusForbidden},
		{"conflict", apperr.ConflictErr("busy"), http.StatusConflict},
		{"unavailable", apperr.UnavailableErr(errors.New("dial")), http.StatusBadGateway},
		{"timeout", apperr.TimeoutErr(errors.New("deadline")), http.StatusGatewayTimeout},
		{"unconfigured", apperr.UnconfiguredErr(), http.StatusInternalServerError},
		{"relayed status", apperr.UpstreamErr(http.StatusUnprocessableEntity, "title taken", nil), http.StatusUnprocessableEntity},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped app error", fmt.Errorf("ctx: %w", apperr.NotFoundErr("x")), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperr.HTTPStatus(tt.err))
		})
	}
}

func TestUpstreamErrKind(t *testing.T) {
	assert.Equal(t, apperr.Invalid, apperr.UpstreamErr(http.StatusBadRequest, "x", nil).Kind)
	assert.Equal(t, apperr.Unauthorized, apperr.UpstreamErr(http.StatusUnauthorized, "x", nil).Kind)
	assert.Equal(t, apperr.Timeout, apperr.UpstreamErr(http.StatusGatewayTimeout, "x", nil).Kind)
	assert.Equal(t, apperr.Internal, apperr.UpstreamErr(http.StatusServiceUnavailable, "x", nil).Kind)
}

func TestKindStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadGateway, apperr.Unavailable.Status())
	assert.Equal(t, http.StatusInternalServerError, apperr.Unconfigured.Status())
	assert.Equal(t, http.StatusInternalServerError, apperr.Kind("other").Status())
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "API not configured", apperr.PublicMessage(apperr.UnconfiguredErr()))
	assert.NotEmpty(t, apperr.PublicMessage(errors.New("internal detail")))
	assert.NotContains(t, apperr.PublicMessage(errors.New("internal detail")), "internal detail")
}

func TestWrapKeepsAppError(t *testing.T) {
	orig := apperr.ConflictErr("busy")
	got := apperr.Wrap(fmt.Errorf("outer: %w", orig))
	require.NotNil(t, got)
	assert.Same(t, orig, got)
	assert.Nil(t, apperr.Wrap(nil))
}

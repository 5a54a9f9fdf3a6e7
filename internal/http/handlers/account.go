package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"silicon.com/app/internal/backend"
	"silicon.com/app/internal/http/middleware"
	"silicon.com/app/internal/http/render"
	"silicon.com/app/internal/shared/apperr"
)

// AccountHandler serves the signed-in user's own data, fetched with their
// token.
type AccountHandler struct {
	client *backend.Client
}

func NewAccountHandler(client *backend.Client) *AccountHandler {
	return &AccountHandler{client: client}
}

func (h *AccountHandler) Profile(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.Fail(c, apperr.UnauthorizedErr("authentication required"))
		return
	}
	p, err := h.client.WithToken(u.Token).Profile(c.Request.Context())
	if err != nil {
		middleware.Fail(c, backend.AsAppError(err))
		return
	}
	render.OK(c, http.StatusOK, p)
}

package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"silicon.com/app/internal/backend"
	"silicon.com/app/internal/http/middleware"
	"silicon.com/app/internal/http/render"
)

// CatalogAPI is the read-only slice of the backend the storefront uses.
type CatalogAPI interface {
	Categories(ctx context.Context) ([]backend.Category, error)
	Products(ctx context.Context, p backend.ListParams) ([]backend.Product, error)
	Product(ctx context.Context, id string) (backend.Product, error)
	Accessories(ctx context.Context, p backend.ListParams) ([]backend.Accessory, error)
	Accessory(ctx context.Context, id string) (backend.Accessory, error)
}

type CatalogHandler struct {
	api CatalogAPI
}

func NewCatalogHandler(api CatalogAPI) *CatalogHandler {
	return &CatalogHandler{api: api}
}

func (h *CatalogHandler) Categories(c *gin.Context) {
	out, err := h.api.Categories(c.Request.Context())
	if err != nil {
		middleware.Fail(c, backend.AsAppError(err))
		return
	}
	render.OK(c, http.StatusOK, out)
}

func (h *CatalogHandler) Products(c *gin.Context) {
	p := listParams(c)
	if p.Status == "" {
		p.Status = "active"
	}
	out, err := h.api.Products(c.Request.Context(), p)
	if err != nil {
		middleware.Fail(c, backend.AsAppError(err))
		return
	}
	render.OK(c, http.StatusOK, out)
}

func (h *CatalogHandler) Product(c *gin.Context) {
	out, err := h.api.Product(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.Fail(c, backend.AsAppError(err))
		return
	}
	render.OK(c, http.StatusOK, out)
}

func (h *CatalogHandler) Accessories(c *gin.Context) {
	p := listParams(c)
	if p.Status == "" {
		p.Status = "active"
	}
	out, err := h.api.Accessories(c.Request.Context(), p)
	if err != nil {
		middleware.Fail(c, backend.AsAppError(err))
		return
	}
	render.OK(c, http.StatusOK, out)
}

func (h *CatalogHandler) Accessory(c *gin.Context) {
	out, err := h.api.Accessory(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.Fail(c, backend.AsAppError(err))
		return
	}
	render.OK(c, http.StatusOK, out)
}

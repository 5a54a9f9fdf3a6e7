package admin

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"silicon.com/app/internal/backend"
	"silicon.com/app/internal/http/middleware"
	"silicon.com/app/internal/http/render"
	"silicon.com/app/internal/http/validation"
	"silicon.com/app/internal/modules/accessories"
	"silicon.com/app/internal/modules/contacts"
	"silicon.com/app/internal/modules/products"
	"silicon.com/app/internal/modules/schemes"
	"silicon.com/app/pkg/view"
)

// CatalogHandler serves the admin tables. Every response is a fresh
// snapshot from the backend; toggles are followed by a reload on the
// dashboard side.
type CatalogHandler struct {
	client *backend.Client
	log    *zap.Logger
}

func NewCatalogHandler(client *backend.Client, log *zap.Logger) *CatalogHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogHandler{client: client, log: log}
}

func (h *CatalogHandler) api(c *gin.Context) *backend.Client {
	u, _ := middleware.CurrentUser(c)
	return h.client.WithToken(u.Token)
}

func adminListParams(c *gin.Context) backend.ListParams {
	p := backend.ListParams{
		Category: strings.TrimSpace(c.Query("category")),
		Status:   strings.TrimSpace(c.Query("status")),
		Query:    strings.TrimSpace(c.Query("q")),
	}
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 {
		p.Limit = n
	}
	return p
}

func (h *CatalogHandler) Products(c *gin.Context) {
	list, err := products.NewService(h.api(c)).List(c.Request.Context(), adminListParams(c))
	if err != nil {
		fail(c, err)
		return
	}
	rows := make([]view.AdminProductRow, 0, len(list))
	for _, p := range list {
		rows = append(rows, view.ProductRow(p))
	}
	render.OK(c, http.StatusOK, rows)
}

func (h *CatalogHandler) Product(c *gin.Context) {
	p, err := products.NewService(h.api(c)).Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	render.OK(c, http.StatusOK, gin.H{"product": p, "detail": view.ProductDetail(p)})
}

type statusInput struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

func bindStatus(c *gin.Context) (string, bool) {
	var in statusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, validation.BindError(err, "Choose a status."))
		return "", false
	}
	if err := validation.Check(in, "Choose a status."); err != nil {
		fail(c, err)
		return "", false
	}
	return in.Status, true
}

func (h *CatalogHandler) SetProductStatus(c *gin.Context) {
	status, ok := bindStatus(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := products.NewService(h.api(c)).SetStatus(c.Request.Context(), id, status); err != nil {
		fail(c, err)
		return
	}
	h.log.Info("product_status_changed", zap.String("product_id", id), zap.String("status", status))
	render.OK(c, http.StatusOK, gin.H{"id": id, "status": status})
}

func (h *CatalogHandler) Accessories(c *gin.Context) {
	list, err := accessories.NewService(h.api(c)).List(c.Request.Context(), adminListParams(c))
	if err != nil {
		fail(c, err)
		return
	}
	rows := make([]view.AdminAccessoryRow, 0, len(list))
	for _, a := range list {
		rows = append(rows, view.AccessoryRow(a))
	}
	render.OK(c, http.StatusOK, rows)
}

func (h *CatalogHandler) Accessory(c *gin.Context) {
	a, err := accessories.NewService(h.api(c)).Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	render.OK(c, http.StatusOK, gin.H{"accessory": a, "detail": view.AccessoryDetail(a)})
}

func (h *CatalogHandler) SetAccessoryStatus(c *gin.Context) {
	status, ok := bindStatus(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := accessories.NewService(h.api(c)).SetStatus(c.Request.Context(), id, status); err != nil {
		fail(c, err)
		return
	}
	h.log.Info("accessory_status_changed", zap.String("accessory_id", id), zap.String("status", status))
	render.OK(c, http.StatusOK, gin.H{"id": id, "status": status})
}

func (h *CatalogHandler) contactSvc(c *gin.Context) *contacts.Service {
	return contacts.NewService(h.api(c), contacts.Notify{}, h.log)
}

func (h *CatalogHandler) Contacts(c *gin.Context) {
	list, err := h.contactSvc(c).List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	rows := make([]view.AdminContactRow, 0, len(list))
	for _, ct := range list {
		rows = append(rows, view.ContactRow(ct))
	}
	render.OK(c, http.StatusOK, rows)
}

func (h *CatalogHandler) ReplyContact(c *gin.Context) {
	var in contacts.ReplyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, validation.BindError(err, "Reply cannot be empty."))
		return
	}
	id := c.Param("id")
	if err := h.contactSvc(c).Reply(c.Request.Context(), id, in); err != nil {
		fail(c, err)
		return
	}
	render.Message(c, http.StatusOK, "Reply sent.")
}

func (h *CatalogHandler) Schemes(c *gin.Context) {
	list, err := schemes.NewService(h.api(c)).List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	rows := make([]view.AdminSchemeRow, 0, len(list))
	for _, s := range list {
		rows = append(rows, view.SchemeRow(s))
	}
	render.OK(c, http.StatusOK, rows)
}

type schemeInput struct {
	Scheme  string `json:"scheme" validate:"required"`
	Enabled *bool  `json:"enabled"`
}

// SetScheme sets one flag, or flips it when "enabled" is omitted.
func (h *CatalogHandler) SetScheme(c *gin.Context) {
	var in schemeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, validation.BindError(err, "Choose a scheme."))
		return
	}
	if err := validation.Check(in, "Choose a scheme."); err != nil {
		fail(c, err)
		return
	}

	id := c.Param("id")
	svc := schemes.NewService(h.api(c))
	var (
		enabled bool
		err     error
	)
	if in.Enabled == nil {
		enabled, err = svc.Toggle(c.Request.Context(), id, in.Scheme)
	} else {
		enabled = *in.Enabled
		err = svc.Set(c.Request.Context(), id, in.Scheme, enabled)
	}
	if err != nil {
		fail(c, err)
		return
	}
	h.log.Info("scheme_changed", zap.String("product_id", id), zap.String("scheme", in.Scheme), zap.Bool("enabled", enabled))
	render.OK(c, http.StatusOK, gin.H{"id": id, "scheme": in.Scheme, "enabled": enabled})
}

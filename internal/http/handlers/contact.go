package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"silicon.com/app/internal/backend"
	"silicon.com/app/internal/http/middleware"
	"silicon.com/app/internal/http/render"
	"silicon.com/app/internal/http/validation"
	"silicon.com/app/internal/modules/contacts"
)

type ContactHandler struct {
	svc *contacts.Service
}

func NewContactHandler(svc *contacts.Service) *ContactHandler {
	return &ContactHandler{svc: svc}
}

func (h *ContactHandler) Post(c *gin.Context) {
	var in contacts.SubmitInput
	if err := c.ShouldBind(&in); err != nil {
		middleware.Fail(c, validation.BindError(err, "Please check the contact form."))
		return
	}
	res, err := h.svc.Submit(c.Request.Context(), in)
	if err != nil {
		middleware.Fail(c, backend.AsAppError(err))
		return
	}
	render.OK(c, http.StatusCreated, res)
}

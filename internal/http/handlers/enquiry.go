package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"silicon.com/app/internal/modules/enquiry"
)

const maxEnquiryBody = 1 << 20

// EnquiryHandler proxies product enquiries. It always answers with the
// {success, error} shape and never goes through ErrorHandler.
type EnquiryHandler struct {
	fwd *enquiry.Forwarder
}

func NewEnquiryHandler(fwd *enquiry.Forwarder) *EnquiryHandler {
	return &EnquiryHandler{fwd: fwd}
}

// Post answers 500 "API not configured" before looking at the body, so an
// unconfigured server reports that even for oversized or broken bodies.
func (h *EnquiryHandler) Post(c *gin.Context) {
	if res, ok := h.fwd.Unconfigured(); ok {
		c.JSON(res.Status, res.Body)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxEnquiryBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, enquiry.Body{Error: enquiry.MsgInvalidJSON})
		return
	}
	res := h.fwd.Forward(c.Request.Context(), body)
	c.JSON(res.Status, res.Body)
}

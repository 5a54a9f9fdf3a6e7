package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Health struct {
	// Configured reports whether a backend URL is set.
	Configured func() bool
}

func (h Health) Get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"backend": h.Configured != nil && h.Configured(),
	})
}

package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"silicon.com/app/internal/backend"
)

const maxListLimit = 100

// listParams reads the catalog filters the storefront sends.
func listParams(c *gin.Context) backend.ListParams {
	p := backend.ListParams{
		Category: strings.TrimSpace(c.Query("category")),
		Status:   strings.TrimSpace(c.Query("status")),
		Query:    strings.TrimSpace(c.Query("q")),
	}
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 {
		p.Limit = min(n, maxListLimit)
	}
	return p
}

// normalizeReturnTo only allows local paths.
func normalizeReturnTo(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !strings.HasPrefix(s, "/") || strings.HasPrefix(s, "//") || strings.Contains(s, "\\") {
		return ""
	}
	return s
}

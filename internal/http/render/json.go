package render

import (
	"github.com/gin-gonic/gin"

	"silicon.com/app/internal/http/middleware"
)

// OK writes the success envelope the dashboard expects: {success, data}.
// A pending flash rides along so the dashboard can show it as a toast.
func OK(c *gin.Context, status int, data any) {
	body := gin.H{"success": true, "data": data}
	if f := middleware.GetFlash(c); f != nil {
		body["flash"] = f
	}
	c.JSON(status, body)
}

// Message writes a success envelope with a toast message and no data.
func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": true, "message": msg})
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// writeCookie sets an HttpOnly, SameSite=Lax cookie on the whole site.
func writeCookie(c *gin.Context, name, value string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", secure, true)
}

func expireCookie(c *gin.Context, name string, secure bool) {
	writeCookie(c, name, "", -1, secure)
}

package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"silicon.com/app/internal/http/flash"
	"silicon.com/app/pkg/view"
)

// RequireAuth lets any signed-in user through.
// - no login: JSON -> 401, browser -> /login?return_to=... with a flash
func RequireAuth(flashCodec *flash.Codec) gin.HandlerFunc {
	return RequireRole(flashCodec)
}

// RequireAdmin also demands the admin role.
// - wrong role: JSON -> 403, browser -> home with a flash
func RequireAdmin(flashCodec *flash.Codec) gin.HandlerFunc {
	return RequireRole(flashCodec, "admin")
}

// RequireRole gates a path prefix. With no roles any signed-in user passes.
func RequireRole(flashCodec *flash.Codec, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			if WantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"success":    false,
					"error":      "authentication required",
					"request_id": GetRequestID(c),
				})
				return
			}

			returnTo := c.Request.URL.RequestURI()
			SetFlashCookie(c, flashCodec, view.Warning("Please sign in to continue."))
			c.Redirect(http.StatusFound, "/login?return_to="+url.QueryEscape(returnTo))
			c.Abort()
			return
		}

		if len(roles) > 0 && !hasRole(u.Role, roles) {
			if WantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"success":    false,
					"error":      "forbidden",
					"request_id": GetRequestID(c),
				})
				return
			}

			SetFlashCookie(c, flashCodec, view.Failure("You do not have access to that page."))
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		c.Next()
	}
}

func hasRole(role string, roles []string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

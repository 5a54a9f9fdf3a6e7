package middleware

import (
	"github.com/gin-gonic/gin"

	"silicon.com/app/internal/http/flash"
	"silicon.com/app/pkg/view"
)

const CtxKeyFlash = "flash"

// FlashMiddleware moves a valid flash cookie into the context. The cookie
// is cleared either way, so a flash is shown at most once.
func FlashMiddleware(codec *flash.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := c.Cookie(codec.CookieName)
		if err != nil || v == "" {
			c.Next()
			return
		}
		if f, err := codec.Decode(v); err == nil {
			c.Set(CtxKeyFlash, f)
		}
		expireCookie(c, codec.CookieName, codec.Secure)
		c.Next()
	}
}

func GetFlash(c *gin.Context) *view.Flash {
	f, _ := c.Value(CtxKeyFlash).(*view.Flash)
	return f
}

// SetFlashCookie queues f for the next response the browser reads.
// Encoding failures drop the flash silently.
func SetFlashCookie(c *gin.Context, codec *flash.Codec, f view.Flash) {
	if codec == nil {
		return
	}
	if v, err := codec.Encode(f); err == nil {
		writeCookie(c, codec.CookieName, v, codec.CookieMaxAge(), codec.Secure)
	}
}

package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"silicon.com/app/internal/shared/apperr"
)

// WantsJSON is true for API callers: an Accept header naming JSON or any
// path under an /api/ segment. Everyone else is a browser navigation.
func WantsJSON(c *gin.Context) bool {
	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		return true
	}
	return strings.Contains(c.Request.URL.Path, "/api/")
}

// Fail records err for ErrorHandler and stops the chain.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ErrorHandler renders the last recorded error as
// {success:false, error, request_id, fields}, unless a handler already
// wrote a response. Internal details stay in the log.
func ErrorHandler(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := apperr.HTTPStatus(err)
		rid := GetRequestID(c)
		ae := apperr.Wrap(err)

		fields := []zap.Field{
			zap.String("request_id", rid),
			zap.String("route", c.FullPath()),
			zap.String("kind", string(ae.Kind)),
			zap.Int("status", status),
			zap.Error(err),
		}
		if status >= 500 {
			l.Error("request_failed", fields...)
		} else {
			l.Warn("request_failed", fields...)
		}

		body := gin.H{
			"success":    false,
			"error":      apperr.PublicMessage(err),
			"request_id": rid,
		}
		if len(ae.Fields) > 0 {
			body["fields"] = ae.Fields
		}
		c.AbortWithStatusJSON(status, body)
	}
}

package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"silicon.com/app/internal/shared/apperr"
)

// Recovery turns a handler panic into a logged 500 rendered by ErrorHandler.
// gin itself swallows panics caused by the client hanging up.
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		l.Error("panic_recovered",
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Any("panic", recovered),
			zap.Stack("stack"),
		)
		Fail(c, apperr.Wrap(fmt.Errorf("panic in %s: %v", c.FullPath(), recovered)))
	})
}

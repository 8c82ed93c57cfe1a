package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/digideal/paygate/pkg/logctx"
)

// RequestLoggerMiddleware attaches a logger carrying trace_id to gin.Context
// and the request context, and mirrors the id in the response header.
func RequestLoggerMiddleware(base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := TraceIDFromGin(c)

		reqLogger := base.With("trace_id", traceID)
		c.Set(logctx.GinKeyLogger, reqLogger)
		c.Request = c.Request.WithContext(logctx.WithLogger(c.Request.Context(), reqLogger))

		if traceID != "" {
			c.Writer.Header().Set(HeaderRequestID, traceID)
		}
		c.Next()
	}
}

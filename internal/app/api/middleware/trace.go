package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/digideal/paygate/pkg/logctx"
	"github.com/digideal/paygate/pkg/tool"
)

const HeaderRequestID = "X-Request-ID"

// maxTraceIDLen bounds client supplied ids before they reach logs and the audit table.
const maxTraceIDLen = 128

// TraceMiddleware reads X-Request-ID or generates a UUIDv7 and stores it in
// gin.Context and the request context.
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(HeaderRequestID)
		if traceID == "" || len(traceID) > maxTraceIDLen {
			traceID = tool.GenerateUUIDV7()
		}

		c.Set(logctx.GinKeyTraceID, traceID)
		c.Request = c.Request.WithContext(logctx.WithTraceID(c.Request.Context(), traceID))
		c.Next()
	}
}

// TraceIDFromGin returns the id set by TraceMiddleware.
func TraceIDFromGin(c *gin.Context) string {
	return c.GetString(logctx.GinKeyTraceID)
}

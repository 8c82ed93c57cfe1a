package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/digideal/paygate/internal/app/service/auth"
	"github.com/digideal/paygate/pkg/logctx"
	"github.com/digideal/paygate/pkg/response"
)

const GinKeyAdminSubject = "adminSubject"

// AdminAuthMiddleware requires a valid "Authorization: Bearer <jwt>" header.
func AdminAuthMiddleware(svc *auth.Service, base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, "missing bearer token"))
			return
		}
		claims, err := svc.Verify(strings.TrimSpace(token))
		if err != nil {
			logctx.FromGin(c, base).Warnw("admin_auth_rejected", "error", err.Error(), "client_ip", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, "invalid token"))
			return
		}
		c.Set(GinKeyAdminSubject, claims.Subject)
		c.Next()
	}
}

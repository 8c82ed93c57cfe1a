package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/digideal/paygate/internal/app/service/auth"
	"github.com/digideal/paygate/pkg/logctx"
	"github.com/digideal/paygate/pkg/response"
)

type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// @Summary      Admin login
// @Description  Exchanges the admin password for a bearer token.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Admin password"
// @Success      200  {object}  handlers.RespLogin
// @Failure      401  {object}  handlers.RespOK
// @Router       /api/v1/admin/login [post]
func ApiAdminLogin(svc *auth.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		token, exp, err := svc.Login(req.Password)
		if err != nil {
			logctx.FromGin(c, log).Warnw("admin_login_failed", "error", err.Error(), "client_ip", c.ClientIP())
			c.JSON(http.StatusUnauthorized, errorBody(err))
			return
		}
		logctx.FromGin(c, log).Infow("admin_login", "client_ip", c.ClientIP())
		c.JSON(http.StatusOK, response.OKT(&LoginResponse{Token: token, ExpiresAt: exp}))
	}
}

func RegisterAuthRoutes(r gin.IRouter, svc *auth.Service, log *zap.SugaredLogger) {
	r.POST("/login", ApiAdminLogin(svc, log))
}

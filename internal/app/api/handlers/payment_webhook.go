package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/digideal/paygate/internal/app/api/middleware"
	"github.com/digideal/paygate/internal/app/service/webhook"
	"github.com/digideal/paygate/internal/platform/capitalist"
	"github.com/digideal/paygate/pkg/logctx"
	"github.com/digideal/paygate/pkg/metrics"
	"github.com/digideal/paygate/pkg/response"
)

// WebhookAck is the literal body the gateway expects on success.
const WebhookAck = "YES"

// @Summary      Capitalist webhook
// @Description  Gateway payment notification. Fields o, oa, c, s, st, pid and sign arrive url-encoded, as JSON, or in the query string. Responds with the plain text YES once the order is updated.
// @Tags         Webhook
// @Accept       x-www-form-urlencoded,json
// @Produce      plain
// @Success      200  {string}  string  "YES"
// @Failure      400  {object}  handlers.RespOK
// @Failure      500  {object}  handlers.RespOK
// @Router       /api/capitalist-webhook [post]
func ApiCapitalistWebhook(h *webhook.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logctx.FromGin(c, h.Logger)

		raw, err := capitalist.ParseWebhookRequest(c.Request)
		if err != nil {
			log.Warnw("webhook_bad_payload", "error", err.Error(), "content_type", c.ContentType())
			metrics.IncCounter(metrics.WebhookResults, metrics.WebhookResultBadPayload)
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		if _, err := h.Handle(c.Request.Context(), raw, middleware.TraceIDFromGin(c)); err != nil {
			if errors.Is(err, webhook.ErrInvalidSignature) {
				c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, webhook.ErrInvalidSignature.Error()))
				return
			}
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, webhook.ErrPersistence.Error()))
			return
		}
		c.String(http.StatusOK, WebhookAck)
	}
}

func RegisterPaymentWebhookRoutes(r gin.IRouter, h *webhook.Handler) {
	r.POST("/capitalist-webhook", ApiCapitalistWebhook(h))
	r.GET("/capitalist-webhook", ApiCapitalistWebhook(h))
}

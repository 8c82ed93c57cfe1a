package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/digideal/paygate/internal/app/service/checkout"
	"github.com/digideal/paygate/internal/app/service/order"
	"github.com/digideal/paygate/internal/platform/capitalist"
	"github.com/digideal/paygate/pkg/logctx"
	"github.com/digideal/paygate/pkg/response"
	"github.com/digideal/paygate/pkg/types"
)

type OrderStatusResponse struct {
	OrderID       string              `json:"order_id"`
	Status        types.OrderStatus   `json:"status"`
	PaymentStatus types.PaymentStatus `json:"payment_status"`
}

// @Summary      Checkout
// @Description  Creates an order (or, with order_id, retries payment of an existing one) and returns the signed gateway form fields.
// @Tags         Payment
// @Accept       json
// @Produce      json
// @Param        request body checkout.CheckoutRequest true "Checkout request"
// @Success      200  {object}  handlers.RespCheckout
// @Router       /api/v1/payment/checkout [post]
func ApiCheckout(svc *checkout.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkout.CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.Checkout(c.Request.Context(), &req)
		if err != nil {
			logctx.FromGin(c, log).Warnw("checkout_failed", "error", err.Error(), "order_id", req.OrderID)
			c.JSON(http.StatusOK, errorBody(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Checkout form
// @Description  Same as checkout but responds with an HTML page that auto-submits the signed form to the gateway. Accepts JSON, or a url-encoded form with order_id for retries.
// @Tags         Payment
// @Accept       json,x-www-form-urlencoded
// @Produce      html
// @Param        request body checkout.CheckoutRequest true "Checkout request"
// @Success      200  {string}  string  "auto-submit HTML page"
// @Router       /api/v1/payment/checkout/form [post]
func ApiCheckoutForm(svc *checkout.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkout.CheckoutRequest
		if err := c.ShouldBind(&req); err != nil {
			c.String(http.StatusBadRequest, "invalid checkout request")
			return
		}
		res, err := svc.Checkout(c.Request.Context(), &req)
		if err != nil {
			logctx.FromGin(c, log).Warnw("checkout_failed", "error", err.Error(), "order_id", req.OrderID)
			status := http.StatusBadRequest
			switch errorCode(err) {
			case response.APIResponseCodeNotFound:
				status = http.StatusNotFound
			case response.APIResponseCodeConflict:
				status = http.StatusConflict
			case response.APIResponseCodeError:
				status = http.StatusInternalServerError
			}
			c.String(status, http.StatusText(status))
			return
		}
		page, err := capitalist.RenderAutoSubmitForm(res.Payment)
		if err != nil {
			logctx.FromGin(c, log).Errorw("checkout_form_render_failed", "error", err, "order_id", res.OrderID)
			c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			return
		}
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	}
}

// @Summary      Order status
// @Description  Display-only status lookup for the gateway return pages.
// @Tags         Payment
// @Produce      json
// @Param        order  query  string  true  "Order id"
// @Success      200  {object}  handlers.RespOrderStatus
// @Router       /api/v1/payment/order_status [get]
func ApiOrderStatus(orders order.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.Query("order"))
		if id == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing order"))
			return
		}
		o, err := orders.Get(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusOK, errorBody(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(&OrderStatusResponse{OrderID: o.ID, Status: o.Status, PaymentStatus: o.PaymentStatus}))
	}
}

func RegisterPaymentRoutes(r gin.IRouter, svc *checkout.Service, orders order.Store, log *zap.SugaredLogger) {
	r.POST("/checkout", ApiCheckout(svc, log))
	r.POST("/checkout/form", ApiCheckoutForm(svc, log))
	r.GET("/order_status", ApiOrderStatus(orders))
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/digideal/paygate/internal/app/service/order"
	"github.com/digideal/paygate/internal/app/service/statistics"
	"github.com/digideal/paygate/internal/app/service/webhook_log"
	"github.com/digideal/paygate/internal/models"
	"github.com/digideal/paygate/pkg/logctx"
	"github.com/digideal/paygate/pkg/response"
	"github.com/digideal/paygate/pkg/types"
)

type WebhookLogLister interface {
	List(ctx context.Context, req *webhook_log.ListRequest) (*webhook_log.ListResponse, error)
}

type OrderStatistics interface {
	GetOrderStatistic(ctx context.Context, req *statistics.OrderStatisticRequest) (*statistics.OrderStatisticResponse, error)
}

type ListOrdersRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type OrderItem struct {
	ID            string              `json:"id"`
	Email         string              `json:"email,omitempty"`
	Telegram      string              `json:"telegram,omitempty"`
	Items         []types.OrderItem   `json:"items"`
	TotalAmount   string              `json:"total_amount"`
	Currency      types.Currency      `json:"currency"`
	Description   string              `json:"description"`
	Status        types.OrderStatus   `json:"status"`
	PaymentStatus types.PaymentStatus `json:"payment_status"`
	PaymentID     string              `json:"payment_id,omitempty"`
	CreatedAt     string              `json:"created_at"`
	UpdatedAt     string              `json:"updated_at"`
}

func toOrderItem(m *models.Order) *OrderItem {
	return &OrderItem{
		ID:            m.ID,
		Email:         lo.FromPtr(m.Email),
		Telegram:      lo.FromPtr(m.Telegram),
		Items:         m.Items.Data(),
		TotalAmount:   m.TotalAmount.StringFixed(2),
		Currency:      m.Currency,
		Description:   m.Description,
		Status:        m.Status,
		PaymentStatus: m.PaymentStatus,
		PaymentID:     m.PaymentID,
		CreatedAt:     m.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     m.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type ListOrdersResponse struct {
	Items []*OrderItem `json:"items"`
	Total int64        `json:"total"`
}

type GetOrderRequest struct {
	OrderID string `json:"order_id" binding:"required"`
}

type UpdateOrderStatusRequest struct {
	OrderID string            `json:"order_id" binding:"required"`
	Status  types.OrderStatus `json:"status" binding:"required"`
}

// @Summary      List Orders (Admin)
// @Description  Paginated, filterable order list.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ListOrdersRequest true "Filters, pagination and sorting"
// @Success      200  {object}  handlers.RespListOrders
// @Router       /api/v1/admin/list_orders [post]
func ApiListOrders(orders order.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ListOrdersRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := orders.Scan(c.Request.Context(), &order.ScanOrdersRequest{
			Filters: req.Filters, From: req.From, Size: req.Size, SortBy: req.SortBy, SortOrder: req.SortOrder,
		})
		if err != nil {
			c.JSON(http.StatusOK, errorBody(err))
			return
		}
		items := lo.Map(res.Items, func(it *models.Order, _ int) *OrderItem { return toOrderItem(it) })
		c.JSON(http.StatusOK, response.OKT(&ListOrdersResponse{Items: items, Total: res.Total}))
	}
}

// @Summary      Get Order (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body GetOrderRequest true "Order id"
// @Success      200  {object}  handlers.RespOrder
// @Router       /api/v1/admin/get_order [post]
func ApiGetOrder(orders order.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GetOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		o, err := orders.Get(c.Request.Context(), req.OrderID)
		if err != nil {
			c.JSON(http.StatusOK, errorBody(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(toOrderItem(o)))
	}
}

// @Summary      Update Order Status (Admin)
// @Description  Changes the fulfilment status. Payment fields are only written by gateway callbacks.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateOrderStatusRequest true "Order id and new status"
// @Success      200  {object}  handlers.RespOrder
// @Router       /api/v1/admin/update_order_status [post]
func ApiUpdateOrderStatus(orders order.Store, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		o, err := orders.UpdateStatus(c.Request.Context(), req.OrderID, req.Status)
		if err != nil {
			c.JSON(http.StatusOK, errorBody(err))
			return
		}
		logctx.FromGin(c, log).Infow("admin_order_status_updated", "order_id", o.ID, "status", o.Status)
		c.JSON(http.StatusOK, response.OKT(toOrderItem(o)))
	}
}

// @Summary      List Webhook Logs (Admin)
// @Description  Audit trail of gateway callbacks, newest first.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body webhook_log.ListRequest true "Filters and pagination"
// @Success      200  {object}  handlers.RespListWebhookLogs
// @Router       /api/v1/admin/list_webhook_logs [post]
func ApiListWebhookLogs(logs WebhookLogLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req webhook_log.ListRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := logs.List(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, errorBody(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Get Order Statistics (Admin)
// @Description  Order counts per status and paid revenue per currency.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body statistics.OrderStatisticRequest true "Statistic request parameters"
// @Success      200  {object}  handlers.RespOrderStatistic
// @Router       /api/v1/admin/get_order_statistic [post]
func ApiGetOrderStatistic(svc OrderStatistics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statistics.OrderStatisticRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.GetOrderStatistic(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, errorBody(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterAdminRoutes(r gin.IRouter, orders order.Store, logs WebhookLogLister, stats OrderStatistics, log *zap.SugaredLogger) {
	r.POST("/list_orders", ApiListOrders(orders))
	r.POST("/get_order", ApiGetOrder(orders))
	r.POST("/update_order_status", ApiUpdateOrderStatus(orders, log))
	r.POST("/list_webhook_logs", ApiListWebhookLogs(logs))
	r.POST("/get_order_statistic", ApiGetOrderStatistic(stats))
}

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/digideal/paygate/internal/app/api/middleware"
	"github.com/digideal/paygate/internal/app/service/auth"
	"github.com/digideal/paygate/internal/app/service/order"
	"github.com/digideal/paygate/internal/app/service/order/ordertest"
	"github.com/digideal/paygate/internal/app/service/statistics"
	"github.com/digideal/paygate/internal/app/service/webhook_log"
	"github.com/digideal/paygate/internal/models"
	"github.com/digideal/paygate/pkg/config"
	"github.com/digideal/paygate/pkg/types"
)

type MockWebhookLogLister struct {
	mock.Mock
}

func (m *MockWebhookLogLister) List(ctx context.Context, req *webhook_log.ListRequest) (*webhook_log.ListResponse, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*webhook_log.ListResponse)
	return res, args.Error(1)
}

type MockOrderStatistics struct {
	mock.Mock
}

func (m *MockOrderStatistics) GetOrderStatistic(ctx context.Context, req *statistics.OrderStatisticRequest) (*statistics.OrderStatisticResponse, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*statistics.OrderStatisticResponse)
	return res, args.Error(1)
}

func orderPaid() order.PaymentUpdate {
	return order.PaymentUpdate{PaymentStatus: types.PaymentStatusPaid, OrderStatus: types.OrderStatusProcessing, PaymentID: "cap-1"}
}

type adminEnv struct {
	router *gin.Engine
	store  *ordertest.MemoryStore
	logs   *MockWebhookLogLister
	stats  *MockOrderStatistics
	token  string
}

func newAdminEnv(t *testing.T) *adminEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop().Sugar()

	authSvc := auth.New(&config.Config{Admin: config.AdminConfig{
		PasswordHash: auth.HashPassword("pw"),
		JWTSecret:    "jwt",
		TokenTTL:     time.Hour,
	}})

	store := ordertest.NewMemoryStore()
	store.Put(models.Order{
		ID:            "order-123",
		TotalAmount:   decimal.RequireFromString("10"),
		Currency:      types.CurrencyUSD,
		Status:        types.OrderStatusPending,
		PaymentStatus: types.PaymentStatusPending,
	})

	env := &adminEnv{store: store, logs: new(MockWebhookLogLister), stats: new(MockOrderStatistics)}
	r := gin.New()
	admin := r.Group("/api/v1/admin")
	RegisterAuthRoutes(admin, authSvc, log)
	protected := admin.Group("")
	protected.Use(middleware.AdminAuthMiddleware(authSvc, log))
	RegisterAdminRoutes(protected, store, env.logs, env.stats, log)
	env.router = r

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(http.MethodPost, "/api/v1/admin/login", map[string]string{"password": "pw"}))
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]any)
	env.token = data["token"].(string)
	return env
}

func (e *adminEnv) post(t *testing.T, path string, body any) map[string]any {
	t.Helper()
	req := jsonRequest(http.MethodPost, path, body)
	req.Header.Set("Authorization", "Bearer "+e.token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return decodeEnvelope(t, w)
}

func TestAdminLogin_WrongPassword(t *testing.T) {
	e := newAdminEnv(t)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, jsonRequest(http.MethodPost, "/api/v1/admin/login", map[string]string{"password": "nope"}))
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.EqualValues(t, 40100, decodeEnvelope(t, w)["code"])
}

func TestAdminRoutes_RequireToken(t *testing.T) {
	e := newAdminEnv(t)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, jsonRequest(http.MethodPost, "/api/v1/admin/list_orders", map[string]any{}))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdmin_ListAndGetOrder(t *testing.T) {
	e := newAdminEnv(t)

	env := e.post(t, "/api/v1/admin/list_orders", map[string]any{"size": 10})
	require.EqualValues(t, 0, env["code"])
	data := env["data"].(map[string]any)
	require.EqualValues(t, 1, data["total"])
	item := data["items"].([]any)[0].(map[string]any)
	require.Equal(t, "10.00", item["total_amount"])

	env = e.post(t, "/api/v1/admin/get_order", map[string]any{"order_id": "order-123"})
	require.Equal(t, "order-123", env["data"].(map[string]any)["id"])

	env = e.post(t, "/api/v1/admin/get_order", map[string]any{"order_id": "missing"})
	require.EqualValues(t, 40400, env["code"])

	env = e.post(t, "/api/v1/admin/get_order", map[string]any{})
	require.EqualValues(t, 40000, env["code"])
}

func TestAdmin_UpdateOrderStatusKeepsPayment(t *testing.T) {
	e := newAdminEnv(t)
	require.NoError(t, e.store.ApplyPayment(context.Background(), "order-123", orderPaid()))

	env := e.post(t, "/api/v1/admin/update_order_status", map[string]any{"order_id": "order-123", "status": "completed"})
	require.EqualValues(t, 0, env["code"])
	data := env["data"].(map[string]any)
	require.Equal(t, "completed", data["status"])
	require.Equal(t, "paid", data["payment_status"])

	env = e.post(t, "/api/v1/admin/update_order_status", map[string]any{"order_id": "order-123", "status": "shipped"})
	require.EqualValues(t, 40000, env["code"])
}

func TestAdmin_ListWebhookLogs(t *testing.T) {
	e := newAdminEnv(t)
	e.logs.On("List", mock.Anything, mock.MatchedBy(func(r *webhook_log.ListRequest) bool { return r.Size == 5 })).
		Return(&webhook_log.ListResponse{Items: []*models.GatewayWebhookLog{{ID: "l1", OperationID: "order-123"}}, Total: 1}, nil).Once()
	e.logs.On("List", mock.Anything, mock.MatchedBy(func(r *webhook_log.ListRequest) bool { return r.Size == 6 })).
		Return(nil, webhook_log.ErrInvalidRequest).Once()

	env := e.post(t, "/api/v1/admin/list_webhook_logs", map[string]any{"size": 5})
	require.EqualValues(t, 0, env["code"])
	require.EqualValues(t, 1, env["data"].(map[string]any)["total"])

	env = e.post(t, "/api/v1/admin/list_webhook_logs", map[string]any{"size": 6})
	require.EqualValues(t, 40000, env["code"])
	e.logs.AssertExpectations(t)
}

func TestAdmin_GetOrderStatistic(t *testing.T) {
	e := newAdminEnv(t)
	e.stats.On("GetOrderStatistic", mock.Anything, mock.Anything).Return(&statistics.OrderStatisticResponse{
		DataItems: map[statistics.StatisticType][]statistics.OrderStatisticResponseDataItem{
			statistics.StatisticTypeTotalPaidRevenue: {{Label: "USD", Value: decimal.RequireFromString("10")}},
		},
	}, nil).Once()

	env := e.post(t, "/api/v1/admin/get_order_statistic", map[string]any{"data_items": []map[string]string{{"id": "total_paid_revenue"}}})
	require.EqualValues(t, 0, env["code"])
	items := env["data"].(map[string]any)["data_items"].(map[string]any)["total_paid_revenue"].([]any)
	require.Equal(t, "USD", items[0].(map[string]any)["label"])
	e.stats.AssertExpectations(t)
}

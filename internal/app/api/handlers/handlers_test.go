package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/digideal/paygate/internal/app/service/checkout"
	"github.com/digideal/paygate/internal/app/service/events"
	"github.com/digideal/paygate/internal/app/service/notifier"
	"github.com/digideal/paygate/internal/app/service/order/ordertest"
	"github.com/digideal/paygate/internal/app/service/webhook"
	"github.com/digideal/paygate/internal/models"
	"github.com/digideal/paygate/internal/platform/capitalist"
	"github.com/digideal/paygate/pkg/config"
	"github.com/digideal/paygate/pkg/types"
)

const testSecret = "s3cr3t"

type nopRecorder struct {
	mu sync.Mutex
	n  int
}

func (r *nopRecorder) Save(context.Context, *models.GatewayWebhookLog) {
	r.mu.Lock()
	r.n++
	r.mu.Unlock()
}

type testEnv struct {
	router *gin.Engine
	store  *ordertest.MemoryStore
	signer *capitalist.Signer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop().Sugar()

	signer, err := capitalist.NewSigner(testSecret)
	require.NoError(t, err)
	builder, err := capitalist.NewBuilder(capitalist.BuilderOptions{
		MerchantAddress: "M1",
		PayURL:          "https://capitalist.net/merchant/payGate/createorder",
		SiteURL:         "https://shop.example",
		InteractionURL:  "https://shop.example/api/capitalist-webhook",
	}, signer)
	require.NoError(t, err)

	store := ordertest.NewMemoryStore()
	store.Put(models.Order{
		ID:            "order-123",
		TotalAmount:   decimal.RequireFromString("10.00"),
		Currency:      types.CurrencyUSD,
		Status:        types.OrderStatusPending,
		PaymentStatus: types.PaymentStatusPending,
	})

	cfg := &config.Config{Webhook: config.WebhookConfig{PersistTimeout: time.Second}}
	wh := webhook.NewHandler(cfg, signer, store, &nopRecorder{}, events.Nop{}, notifier.Nop{}, log)

	r := gin.New()
	RegisterPaymentRoutes(r.Group("/api/v1/payment"), checkout.NewService(store, builder, log), store, log)
	RegisterPaymentWebhookRoutes(r.Group("/api"), wh)
	return &testEnv{router: r, store: store, signer: signer}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) signedWebhook(status string) url.Values {
	raw := map[string]string{"o": "order-123", "oa": "M1", "c": "USD", "s": "10.00", "st": status, "pid": "cap-1"}
	v := url.Values{}
	for k, val := range raw {
		v.Set(k, val)
	}
	v.Set("sign", e.signer.SignWebhook(raw))
	return v
}

func formRequest(method, target string, v url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(v.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func jsonRequest(method, target string, body any) *http.Request {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRegisterRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterPaymentRoutes(r.Group("/api/v1/payment"), nil, nil, nil)
	RegisterPaymentWebhookRoutes(r.Group("/api"), nil)
	RegisterAdminRoutes(r.Group("/api/v1/admin"), nil, nil, nil, nil)
	RegisterAuthRoutes(r.Group("/api/v1/admin"), nil, nil)
	RegisterHealthRoutes(r)

	routes := map[string]bool{}
	for _, rt := range r.Routes() {
		routes[rt.Method+" "+rt.Path] = true
	}
	for _, want := range []string{
		"POST /api/v1/payment/checkout",
		"POST /api/v1/payment/checkout/form",
		"GET /api/v1/payment/order_status",
		"POST /api/capitalist-webhook",
		"GET /api/capitalist-webhook",
		"POST /api/v1/admin/login",
		"POST /api/v1/admin/list_orders",
		"POST /api/v1/admin/get_order",
		"POST /api/v1/admin/update_order_status",
		"POST /api/v1/admin/list_webhook_logs",
		"POST /api/v1/admin/get_order_statistic",
		"GET /healthz",
	} {
		require.True(t, routes[want], want)
	}
}

func TestCapitalistWebhook_FormAcknowledged(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(formRequest(http.MethodPost, "/api/capitalist-webhook", e.signedWebhook("1")))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "YES", w.Body.String())
	require.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))

	o, err := e.store.Get(context.Background(), "order-123")
	require.NoError(t, err)
	require.Equal(t, types.PaymentStatusPaid, o.PaymentStatus)
	require.Equal(t, types.OrderStatusProcessing, o.Status)

	// redelivery is acknowledged again
	w = e.do(formRequest(http.MethodPost, "/api/capitalist-webhook", e.signedWebhook("1")))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "YES", w.Body.String())
}

func TestCapitalistWebhook_JSONAndQuery(t *testing.T) {
	e := newTestEnv(t)

	v := e.signedWebhook("0")
	body := map[string]any{}
	for k := range v {
		body[k] = v.Get(k)
	}
	w := e.do(jsonRequest(http.MethodPost, "/api/capitalist-webhook", body))
	require.Equal(t, http.StatusOK, w.Code)
	o, _ := e.store.Get(context.Background(), "order-123")
	require.Equal(t, types.PaymentStatusFailed, o.PaymentStatus)
	require.Equal(t, types.OrderStatusCancelled, o.Status)

	w = e.do(httptest.NewRequest(http.MethodGet, "/api/capitalist-webhook?"+e.signedWebhook("2").Encode(), nil))
	require.Equal(t, http.StatusOK, w.Code)
	o, _ = e.store.Get(context.Background(), "order-123")
	require.Equal(t, types.PaymentStatusPending, o.PaymentStatus)
}

func TestCapitalistWebhook_BadSignature(t *testing.T) {
	e := newTestEnv(t)
	v := e.signedWebhook("0")
	v.Set("st", "1")

	w := e.do(formRequest(http.MethodPost, "/api/capitalist-webhook", v))
	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	require.EqualValues(t, 40000, env["code"])
	require.Zero(t, e.store.Writes)
}

func TestCapitalistWebhook_BadPayload(t *testing.T) {
	e := newTestEnv(t)
	req := httptest.NewRequest(http.MethodPost, "/api/capitalist-webhook", strings.NewReader(`{"o": {"nested": 1}}`))
	req.Header.Set("Content-Type", "application/json")

	w := e.do(req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Zero(t, e.store.Writes)
}

func TestCapitalistWebhook_PersistFailure(t *testing.T) {
	e := newTestEnv(t)
	e.store.Err = context.DeadlineExceeded

	w := e.do(formRequest(http.MethodPost, "/api/capitalist-webhook", e.signedWebhook("1")))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotContains(t, w.Body.String(), "YES")
	require.EqualValues(t, 50000, decodeEnvelope(t, w)["code"])
}

func TestCheckout_JSON(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(jsonRequest(http.MethodPost, "/api/v1/payment/checkout", map[string]any{
		"items":        []map[string]string{{"product_id": "chatgpt-plus"}},
		"total_amount": "5.5",
		"currency":     "EUR",
		"description":  "coffee",
	}))
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		Code int                       `json:"code"`
		Data checkout.CheckoutResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Zero(t, out.Code)
	require.Equal(t, "5.50", out.Data.Payment.Amount)
	require.Equal(t, out.Data.OrderID, out.Data.Payment.OperationID)
	require.Equal(t, "sign", out.Data.Payment.Fields[len(out.Data.Payment.Fields)-1].Name)
}

func TestCheckout_ErrorCodes(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(jsonRequest(http.MethodPost, "/api/v1/payment/checkout", map[string]any{
		"items": []map[string]string{{"product_id": "p"}}, "total_amount": "5", "currency": "RUB",
	}))
	require.EqualValues(t, 40000, decodeEnvelope(t, w)["code"])

	w = e.do(jsonRequest(http.MethodPost, "/api/v1/payment/checkout", map[string]any{"order_id": "missing"}))
	require.EqualValues(t, 40400, decodeEnvelope(t, w)["code"])

	require.NoError(t, e.store.ApplyPayment(context.Background(), "order-123", orderPaid()))
	w = e.do(jsonRequest(http.MethodPost, "/api/v1/payment/checkout", map[string]any{"order_id": "order-123"}))
	require.EqualValues(t, 40900, decodeEnvelope(t, w)["code"])
}

func TestCheckoutForm_RetryRendersAutoSubmitPage(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(formRequest(http.MethodPost, "/api/v1/payment/checkout/form", url.Values{"order_id": {"order-123"}}))
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
	body := w.Body.String()
	require.Contains(t, body, `action="https://capitalist.net/merchant/payGate/createorder"`)
	require.Contains(t, body, "bc1ea749f4b53c8bfd24fa5523e17e89")

	w = e.do(formRequest(http.MethodPost, "/api/v1/payment/checkout/form", url.Values{"order_id": {"missing"}}))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderStatus(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(httptest.NewRequest(http.MethodGet, "/api/v1/payment/order_status?order=order-123", nil))
	env := decodeEnvelope(t, w)
	require.EqualValues(t, 0, env["code"])
	data := env["data"].(map[string]any)
	require.Equal(t, "pending", data["payment_status"])

	w = e.do(httptest.NewRequest(http.MethodGet, "/api/v1/payment/order_status", nil))
	require.EqualValues(t, 40000, decodeEnvelope(t, w)["code"])

	w = e.do(httptest.NewRequest(http.MethodGet, "/api/v1/payment/order_status?order=nope", nil))
	require.EqualValues(t, 40400, decodeEnvelope(t, w)["code"])
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/digideal/paygate/internal/app/service/auth"
	"github.com/digideal/paygate/pkg/config"
	"github.com/digideal/paygate/pkg/logctx"
)

func TestTraceAndRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core).Sugar()

	r := gin.New()
	r.Use(TraceMiddleware(), RequestLoggerMiddleware(base), AccessLogMiddleware(base))
	r.GET("/ping", func(c *gin.Context) {
		require.Equal(t, TraceIDFromGin(c), logctx.TraceID(c.Request.Context()))
		c.String(http.StatusOK, "pong")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	r.ServeHTTP(w, req)

	require.Equal(t, "req-42", w.Header().Get(HeaderRequestID))
	access := logs.FilterMessage("http_access").All()
	require.Len(t, access, 1)
	require.Equal(t, "req-42", access[0].ContextMap()["trace_id"])
	require.Equal(t, "/ping", access[0].ContextMap()["path"])

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, strings.Repeat("x", 500))
	r.ServeHTTP(w, req)
	require.Len(t, w.Header().Get(HeaderRequestID), 36)
}

func TestAdminAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := auth.New(&config.Config{Admin: config.AdminConfig{
		PasswordHash: auth.HashPassword("pw"),
		JWTSecret:    "secret",
		TokenTTL:     time.Hour,
	}})
	token, _, err := svc.Login("pw")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/admin", AdminAuthMiddleware(svc, zap.NewNop().Sugar()), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(GinKeyAdminSubject))
	})

	cases := map[string]struct {
		header string
		code   int
	}{
		"valid":   {"Bearer " + token, http.StatusOK},
		"missing": {"", http.StatusUnauthorized},
		"basic":   {"Basic abc", http.StatusUnauthorized},
		"bad":     {"Bearer nope", http.StatusUnauthorized},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)
			require.Equal(t, tc.code, w.Code)
			if tc.code == http.StatusOK {
				require.Equal(t, "admin", w.Body.String())
			} else {
				require.Contains(t, w.Body.String(), `"code":40100`)
			}
		})
	}
}

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/digideal/paygate/docs"
	"github.com/digideal/paygate/internal/app/api/handlers"
	mw "github.com/digideal/paygate/internal/app/api/middleware"
	"github.com/digideal/paygate/internal/app/service/auth"
	"github.com/digideal/paygate/internal/app/service/checkout"
	"github.com/digideal/paygate/internal/app/service/order"
	"github.com/digideal/paygate/internal/app/service/statistics"
	"github.com/digideal/paygate/internal/app/service/webhook"
	"github.com/digideal/paygate/internal/app/service/webhook_log"
	cfgpkg "github.com/digideal/paygate/pkg/config"
	"github.com/digideal/paygate/pkg/metrics"
)

func newEngine(cfg *cfgpkg.Config) *gin.Engine {
	if cfg.Env != cfgpkg.EnvDev {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	// request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

type routeDeps struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Log        *zap.SugaredLogger
	Config     *cfgpkg.Config
	Engine     *gin.Engine
	Checkout   *checkout.Service
	Orders     order.Store
	Webhook    *webhook.Handler
	WebhookLog *webhook_log.Service
	Stats      *statistics.Service
	Auth       *auth.Service
}

func registerRoutes(d routeDeps) {
	r, log, cfg := d.Engine, d.Log, d.Config

	// Prometheus metrics are served on their own listener.
	if cfg.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			MetricsList: metrics.BusinessMetrics,
			Logger:      log,
		})
		r.Use(p.HandlerFunc())
		runMetricsServer(d.Lifecycle, log, cfg.MetricsAddr, p)
	}

	// Engine level so preflight requests for unregistered OPTIONS routes are answered.
	r.Use(newCORS(cfg.CORS))

	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(log))
	handlers.RegisterHealthRoutes(pub)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Storefront
	payment := r.Group("/api/v1/payment")
	payment.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(log))
	handlers.RegisterPaymentRoutes(payment, d.Checkout, d.Orders, log)

	// Gateway callbacks
	gateway := r.Group("/api")
	gateway.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(log))
	handlers.RegisterPaymentWebhookRoutes(gateway, d.Webhook)

	if !d.Auth.Enabled() {
		log.Warnw("admin api disabled: admin.password_hash or admin.jwt_secret not set")
		return
	}
	admin := r.Group("/api/v1/admin")
	admin.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(log))
	handlers.RegisterAuthRoutes(admin, d.Auth, log)

	protected := admin.Group("")
	protected.Use(mw.AdminAuthMiddleware(d.Auth, log))
	handlers.RegisterAdminRoutes(protected, d.Orders, d.WebhookLog, d.Stats, log)
}

func newCORS(c cfgpkg.CORSConfig) gin.HandlerFunc {
	conf := cors.DefaultConfig()
	if len(c.AllowOrigins) == 0 || lo.Contains(c.AllowOrigins, "*") {
		conf.AllowAllOrigins = true
	} else {
		conf.AllowOrigins = c.AllowOrigins
	}
	conf.AllowHeaders = append(conf.AllowHeaders, mw.HeaderRequestID)
	conf.ExposeHeaders = []string{mw.HeaderRequestID}
	return cors.New(conf)
}

func runMetricsServer(lc fx.Lifecycle, log *zap.SugaredLogger, addr string, p *metrics.Prometheus) {
	mux := http.NewServeMux()
	mux.Handle(p.MetricsPath, p.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("metrics started", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Errorw("metrics server error", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)

package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"gatekeeper/cmd/fx/account_fx"
	"gatekeeper/cmd/fx/completion_fx"
	"gatekeeper/cmd/fx/config_fx"
	"gatekeeper/cmd/fx/controllers_fx"
	"gatekeeper/cmd/fx/db_fx"
	"gatekeeper/cmd/fx/link_preview_fx"
	"gatekeeper/cmd/fx/quota_fx"
	"gatekeeper/cmd/fx/ratelimit_fx"
	"gatekeeper/internal/api/controllers"
	"gatekeeper/internal/config"
	"gatekeeper/pkg/middleware"
	"gatekeeper/pkg/ratelimit"
)

func main() {
	app := fx.New(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		config_fx.Module,
		db_fx.Module,
		quota_fx.Module,
		account_fx.Module,
		ratelimit_fx.Module,
		link_preview_fx.Module,
		completion_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg config.Config, engine *gin.Engine, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				logger.Info("starting HTTP server", zap.String("addr", srv.Addr))
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("HTTP server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

type RouterParams struct {
	fx.In

	Config  config.Config
	Limiter *ratelimit.Limiter
	Policy  ratelimit.Policy

	PlanController         *controllers.PlanController
	SubscriptionController *controllers.SubscriptionController
	AccountController      *controllers.AccountController
	LinkPreviewController  *controllers.LinkPreviewController
	CompletionController   *controllers.CompletionController
}

func ProvideRouter(p RouterParams) *gin.Engine {
	if p.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware(p.Config.CORSOrigins))

	RegisterRoutes(r, p)

	return r
}

func RegisterRoutes(r *gin.Engine, p RouterParams) {
	auth := middleware.JWTAuthMiddleware([]byte(p.Config.JWTSecret))
	limit := p.Limiter.Middleware(p.Policy)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/plans", p.PlanController.GetPlans)
	r.GET("/plans/:id", p.PlanController.GetPlanById)
	r.POST("/link-preview", limit, p.LinkPreviewController.Preview)

	r.GET("/subscription/status", auth, p.SubscriptionController.GetStatus)
	r.GET("/auth/status", auth, p.AccountController.GetStatus)

	aiGroup := r.Group("/ai", limit, auth)
	aiGroup.POST("/requests", p.CompletionController.CreateCompletion)
}

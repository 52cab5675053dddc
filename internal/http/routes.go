package http

import (
	"webapp_validator/internal/config"
	"webapp_validator/internal/domain"
	"webapp_validator/internal/http/handlers"
	"webapp_validator/internal/http/middleware"
	"webapp_validator/internal/service"
	"webapp_validator/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewEngine builds the gin engine with the global middleware chain and all
// routes registered.
func NewEngine(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	// Trailing-slash redirects are served before the middleware chain, without CORS headers.
	r.RedirectTrailingSlash = false

	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog())
	if cfg.MetricsEnabled {
		r.Use(middleware.Metrics())
	}
	r.Use(middleware.CORS(cfg.AllowedOrigin))

	RegisterRoutes(r, cfg)
	return r
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config) {
	var observe service.VerdictObserver
	if cfg.MetricsEnabled {
		observe = func(status domain.Status, transport string) {
			middleware.Validations.WithLabelValues(string(status), transport).Inc()
		}
	}

	verifier := service.NewVerifyService(service.NewValidator(cfg.BotToken), cfg.Messages, observe)
	h := handlers.NewHandler(verifier, cfg.MaxBodyBytes)
	healthHandler := handlers.NewHealthHandler(cfg.AppVersion)

	// Health checks
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	if cfg.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// Verification; the root path matches what existing mini-app clients post to
	r.POST("/", h.Verify)

	v1 := r.Group("/api/v1")
	v1.POST("/verify", h.Verify)

	if cfg.WSEnabled {
		r.GET("/ws", ws.HandleWS(verifier, cfg.AllowedOrigin, cfg.MaxBodyBytes))
	}

	r.NoMethod(handlers.MethodNotAllowed)
}

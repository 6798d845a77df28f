package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/auratrack-backend/internal/http/handlers"
	"github.com/yungbote/auratrack-backend/internal/http/middleware"
	"github.com/yungbote/auratrack-backend/internal/platform/envutil"
)

type RouterConfig struct {
	AuthMiddleware    *middleware.AuthMiddleware
	WearableHandler   *handlers.WearableHandler
	AnalyticsHandler  *handlers.AnalyticsHandler
	RiskPromptHandler *handlers.RiskPromptHandler
	TracingEnabled    bool
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	if cfg.TracingEnabled {
		router.Use(otelgin.Middleware("auratrack-backend"))
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	// Wearable ingestion
	api.POST("/wearable/upload", cfg.WearableHandler.Upload)
	api.GET("/wearable/records", cfg.WearableHandler.ListRecords)
	api.GET("/wearable/sessions", cfg.WearableHandler.ListSessions)
	api.DELETE("/wearable/sessions/:id", cfg.WearableHandler.DeleteSession)

	// Analytics
	api.POST("/analytics/process-daily", cfg.AnalyticsHandler.ProcessDaily)
	api.GET("/analytics/daily-summaries", cfg.AnalyticsHandler.ListDailySummaries)
	api.GET("/analytics/patterns", cfg.AnalyticsHandler.ListPatterns)
	api.POST("/analytics/risk-prompt", cfg.RiskPromptHandler.Build)

	return router
}

func allowedOrigins() []string {
	raw := envutil.String("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173")
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

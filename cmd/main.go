package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	rdb "github.com/yungbote/auratrack-backend/internal/clients/redis"
	"github.com/yungbote/auratrack-backend/internal/data/db"
	"github.com/yungbote/auratrack-backend/internal/data/repos"
	"github.com/yungbote/auratrack-backend/internal/http/handlers"
	"github.com/yungbote/auratrack-backend/internal/http/middleware"
	"github.com/yungbote/auratrack-backend/internal/platform/envutil"
	"github.com/yungbote/auratrack-backend/internal/platform/logger"
	"github.com/yungbote/auratrack-backend/internal/platform/observability"
	"github.com/yungbote/auratrack-backend/internal/server"
	"github.com/yungbote/auratrack-backend/internal/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "auratrack-backend",
		Environment: envutil.String("APP_ENV", "development"),
		Version:     envutil.String("APP_VERSION", "dev"),
	})

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		return fmt.Errorf("init postgres: %w", err)
	}
	if err := db.AutoMigrateAll(postgresService.DB()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	pg := postgresService.DB()

	freshness, err := rdb.NewFreshnessGate(log)
	if err != nil {
		log.Warn("redis unavailable, summary cache disabled", "error", err)
	}

	// Repos
	recordRepo := repos.NewWearableRecordRepo(pg, log)
	sessionRepo := repos.NewUploadSessionRepo(pg, log)
	markerRepo := repos.NewMigraineDayRepo(pg, log)
	summaryRepo := repos.NewDailySummaryRepo(pg, log)
	patternRepo := repos.NewCorrelationPatternRepo(pg, log)
	profileRepo := repos.NewMigraineProfileRepo(pg, log)

	// Services
	wearableService := services.NewWearableService(pg, log, sessionRepo, recordRepo, freshness)
	analyticsService := services.NewAnalyticsService(pg, log, recordRepo, summaryRepo, markerRepo, patternRepo, freshness)
	riskPromptService := services.NewRiskPromptService(pg, log, recordRepo, patternRepo, profileRepo)

	// HTTP
	authMiddleware := middleware.NewAuthMiddleware(log, envutil.String("JWT_SECRET_KEY", "defaultsecret"))
	router := server.NewRouter(server.RouterConfig{
		AuthMiddleware:    authMiddleware,
		WearableHandler:   handlers.NewWearableHandler(log, wearableService),
		AnalyticsHandler:  handlers.NewAnalyticsHandler(log, analyticsService),
		RiskPromptHandler: handlers.NewRiskPromptHandler(log, riskPromptService),
		TracingEnabled:    envutil.Bool("OTEL_ENABLED", false),
	})

	srv := &http.Server{
		Addr:              ":" + envutil.String("PORT", "8080"),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if freshness != nil {
			_ = freshness.Close()
		}
		if otelShutdown != nil {
			_ = otelShutdown(shutdownCtx)
		}
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

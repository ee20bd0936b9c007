package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/patitas/vets-api/internal/config"
	"github.com/patitas/vets-api/internal/handler"
	catalogHandler "github.com/patitas/vets-api/internal/handler/catalog"
	vetHandler "github.com/patitas/vets-api/internal/handler/vet"
	"github.com/patitas/vets-api/internal/middleware"
	"github.com/patitas/vets-api/internal/repository/postgres"
	"github.com/patitas/vets-api/internal/router"
	"github.com/patitas/vets-api/internal/service/availability"
	catalogService "github.com/patitas/vets-api/internal/service/catalog"
	vetService "github.com/patitas/vets-api/internal/service/vet"
	"github.com/patitas/vets-api/pkg/auth"
	"github.com/patitas/vets-api/pkg/validator"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if err := validator.Register(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validators")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	base := postgres.NewBaseRepository(db)
	vetRepo := postgres.NewVetRepository(base)
	catalogRepo := postgres.NewCatalogRepository(base)
	scheduleRepo := postgres.NewScheduleRepository(base)
	outboxRepo := postgres.NewOutboxRepository(base)

	// Services
	evaluator := availability.NewEvaluator(
		scheduleRepo,
		availability.SystemClock(),
		cfg.Availability.UTCOffsetHours,
	)
	vetSvc := vetService.NewService(
		vetRepo, catalogRepo, scheduleRepo, outboxRepo, &base, evaluator, log.Logger,
	)
	catalogSvc := catalogService.NewService(catalogRepo)

	// Middleware and handlers
	authMW := middleware.NewAuthMiddleware(auth.NewVerifier(cfg.JWT.Secret))
	vetH := vetHandler.NewHandler(vetSvc)
	catalogH := catalogHandler.NewHandler(catalogSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.NewRouter(authMW, vetH, catalogH, healthH, router.RouterConfig{
		RateLimit: middleware.RateLimiterConfig{
			RPS:   cfg.RateLimit.RPS,
			Burst: cfg.RateLimit.Burst,
		},
		CORSConfig:    middleware.DefaultCORSConfig(),
		MetricsPrefix: "vets_api",
	})
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.TimeoutSeconds)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}

	log.Info().Msg("server stopped")
}

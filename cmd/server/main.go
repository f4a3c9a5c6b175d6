package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ndewijer/portfolio-tracker/internal/api"
	"github.com/ndewijer/portfolio-tracker/internal/config"
	"github.com/ndewijer/portfolio-tracker/internal/database"
	"github.com/ndewijer/portfolio-tracker/internal/logging"
	"github.com/ndewijer/portfolio-tracker/internal/repository"
	"github.com/ndewijer/portfolio-tracker/internal/service"
	"github.com/ndewijer/portfolio-tracker/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := logging.NewLogger(cfg.Log.Level)
	log.Logger = logger.Logger

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("failed to open database")
	}
	defer db.Close()

	logger.Info().Str("path", cfg.Database.Path).Msg("connected to database")

	// Create repositories
	portfolioRepo := repository.NewPortfolioRepository(db)
	contributionRepo := repository.NewContributionRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	portfolioService := service.NewPortfolioService(
		portfolioRepo,
		contributionRepo,
		logger,
	)
	contributionService := service.NewContributionService(
		contributionRepo,
		portfolioRepo,
	)
	snapshotService := service.NewSnapshotService(
		snapshotRepo,
		portfolioService,
		logger,
	)

	scheduler, err := snapshotService.StartScheduler(cfg.Snapshot.Schedule)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to start snapshot scheduler")
	}

	// Create router
	router := api.NewRouter(api.Services{
		System:       systemService,
		Portfolio:    portfolioService,
		Contribution: contributionService,
		Snapshot:     snapshotService,
	}, cfg, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().
			Str("addr", cfg.Server.Addr).
			Str("version", version.Version).
			Str("currency", cfg.Reporting.Currency).
			Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if scheduler != nil {
		// Wait for a running snapshot job, bounded by the shutdown timeout.
		select {
		case <-scheduler.Stop().Done():
		case <-ctx.Done():
		}
	}

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	logger.Info().Msg("server exited")
}

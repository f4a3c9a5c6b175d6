// Package api wires the HTTP handlers into a chi router.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/portfolio-tracker/internal/api/handlers"
	custommiddleware "github.com/ndewijer/portfolio-tracker/internal/api/middleware"
	"github.com/ndewijer/portfolio-tracker/internal/config"
	"github.com/ndewijer/portfolio-tracker/internal/logging"
	"github.com/ndewijer/portfolio-tracker/internal/service"
)

// Services groups the services the router dispatches to.
type Services struct {
	System       *service.SystemService
	Portfolio    *service.PortfolioService
	Contribution *service.ContributionService
	Snapshot     *service.SnapshotService
}

// NewRouter creates and configures the HTTP router
func NewRouter(services Services, cfg *config.Config, logger *logging.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	systemHandler := handlers.NewSystemHandler(services.System)
	portfolioHandler := handlers.NewPortfolioHandler(services.Portfolio, cfg.Reporting.Currency)
	contributionHandler := handlers.NewContributionHandler(services.Contribution)
	snapshotHandler := handlers.NewSnapshotHandler(services.Snapshot)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/portfolio", func(r chi.Router) {
			r.Get("/", portfolioHandler.Portfolios)
			r.Post("/", portfolioHandler.CreatePortfolio)
			r.Get("/overview", portfolioHandler.Overview)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", portfolioHandler.Portfolio)
				r.Get("/summary", portfolioHandler.Summary)
				r.Get("/holdings", portfolioHandler.Holdings)
				r.Get("/evolution", portfolioHandler.Evolution)
				r.Get("/evolution/chart.png", portfolioHandler.EvolutionChart)
				r.Get("/contributions", contributionHandler.Contributions)
				r.Post("/contributions", contributionHandler.CreateContribution)
				r.Put("/price", contributionHandler.UpdatePrice)
				r.Get("/snapshots", snapshotHandler.Snapshots)
				r.Post("/snapshots", snapshotHandler.CaptureSnapshot)
			})
		})

		r.Route("/contribution/{uuid}", func(r chi.Router) {
			r.Use(custommiddleware.ValidateUUIDMiddleware)
			r.Delete("/", contributionHandler.DeleteContribution)
		})
	})

	return r
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/portfolio-tracker/internal/accounting"
	"github.com/ndewijer/portfolio-tracker/internal/logging"
	"github.com/ndewijer/portfolio-tracker/internal/model"
	"github.com/ndewijer/portfolio-tracker/internal/repository"
)

// overviewConcurrency bounds how many portfolios are summarized at once.
const overviewConcurrency = 4

// PortfolioService handles portfolio-related business logic operations.
// It loads a consistent set of contributions for a portfolio and hands it to the
// accounting engine to compute summaries and evolution series.
type PortfolioService struct {
	portfolioRepo    *repository.PortfolioRepository
	contributionRepo *repository.ContributionRepository
	logger           *logging.Logger
	now              func() time.Time
}

// NewPortfolioService creates a new PortfolioService with the provided repository dependencies.
func NewPortfolioService(
	portfolioRepo *repository.PortfolioRepository,
	contributionRepo *repository.ContributionRepository,
	logger *logging.Logger,
) *PortfolioService {
	return &PortfolioService{
		portfolioRepo:    portfolioRepo,
		contributionRepo: contributionRepo,
		logger:           logger.Component("portfolio"),
		now:              time.Now,
	}
}

// WithClock replaces the clock used as "now" for evolution series. Used in tests.
func (s *PortfolioService) WithClock(now func() time.Time) *PortfolioService {
	s.now = now
	return s
}

// PortfolioOverview is the summary line of one portfolio in the overview listing.
type PortfolioOverview struct {
	Portfolio model.Portfolio            `json:"portfolio"`
	Totals    accounting.PortfolioTotals `json:"totals"`
	Warnings  int                        `json:"warnings"`
}

// GetAllPortfolios retrieves portfolios, optionally including archived ones.
func (s *PortfolioService) GetAllPortfolios(ctx context.Context, includeArchived bool) ([]model.Portfolio, error) {
	return s.portfolioRepo.GetPortfolios(ctx, model.PortfolioFilter{
		IncludeArchived: includeArchived,
	})
}

// GetPortfolio retrieves a single portfolio.
// Returns apperrors.ErrPortfolioNotFound if it does not exist.
func (s *PortfolioService) GetPortfolio(ctx context.Context, portfolioID string) (model.Portfolio, error) {
	return s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID)
}

// CreatePortfolio stores a new, non-archived portfolio and returns it.
func (s *PortfolioService) CreatePortfolio(ctx context.Context, name, description string) (model.Portfolio, error) {
	p := model.Portfolio{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.portfolioRepo.InsertPortfolio(ctx, p); err != nil {
		return model.Portfolio{}, err
	}
	return p, nil
}

// GetPortfolioSummary computes the open holdings and totals of a portfolio.
//
// Unmatched sells do not fail the request: they are returned on the summary and
// logged as warnings, since they usually point at a missing buy record.
//
// Returns apperrors.ErrPortfolioNotFound for an unknown portfolio, or an
// *accounting.InvalidContributionError when a stored record cannot be matched.
func (s *PortfolioService) GetPortfolioSummary(ctx context.Context, portfolioID string) (accounting.PortfolioSummary, error) {
	contributions, err := s.loadContributions(ctx, portfolioID)
	if err != nil {
		return accounting.PortfolioSummary{}, err
	}

	summary, err := accounting.SummarizePortfolio(contributions)
	if err != nil {
		return accounting.PortfolioSummary{}, fmt.Errorf("portfolio %s: %w", portfolioID, err)
	}

	s.logWarnings(portfolioID, summary.Warnings)
	return summary, nil
}

// GetPortfolioEvolution reconstructs the invested and current value of a
// portfolio over [startDate, endDate]. A zero start defaults to the first
// contribution date and a zero end to now.
//
// Returns nil when the portfolio has no contributions.
func (s *PortfolioService) GetPortfolioEvolution(ctx context.Context, portfolioID string, startDate, endDate time.Time) (*accounting.EvolutionSeries, error) {
	contributions, err := s.loadContributions(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	series, err := accounting.BuildEvolutionSeries(contributions, startDate, endDate, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("portfolio %s: %w", portfolioID, err)
	}
	return series, nil
}

// GetPortfolioOverview summarizes every non-archived portfolio.
// Portfolios are summarized concurrently; each goroutine reads its own
// contributions, so no state is shared between them. The result keeps the
// order of GetAllPortfolios.
func (s *PortfolioService) GetPortfolioOverview(ctx context.Context) ([]PortfolioOverview, error) {
	portfolios, err := s.GetAllPortfolios(ctx, false)
	if err != nil {
		return nil, err
	}

	overview := make([]PortfolioOverview, len(portfolios))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(overviewConcurrency)
	for i, p := range portfolios {
		g.Go(func() error {
			summary, err := s.GetPortfolioSummary(gctx, p.ID)
			if err != nil {
				return err
			}
			overview[i] = PortfolioOverview{
				Portfolio: p,
				Totals:    summary.Totals,
				Warnings:  len(summary.Warnings),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return overview, nil
}

// loadContributions verifies the portfolio exists and returns its contributions.
func (s *PortfolioService) loadContributions(ctx context.Context, portfolioID string) ([]model.Contribution, error) {
	if _, err := s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID); err != nil {
		return nil, err
	}
	return s.contributionRepo.GetContributionsByPortfolio(ctx, portfolioID)
}

func (s *PortfolioService) logWarnings(portfolioID string, warnings []accounting.UnmatchedSellWarning) {
	for _, w := range warnings {
		s.logger.Warn().
			Str("portfolio_id", portfolioID).
			Str("asset", w.AssetKey.String()).
			Time("date", w.Date).
			Str("unmatched_quantity", w.UnmatchedQuantity.String()).
			Msg("sell exceeds open lots")
	}
}

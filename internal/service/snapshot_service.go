package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/portfolio-tracker/internal/apperrors"
	"github.com/ndewijer/portfolio-tracker/internal/logging"
	"github.com/ndewijer/portfolio-tracker/internal/model"
	"github.com/ndewijer/portfolio-tracker/internal/repository"
)

// snapshotConcurrency bounds how many portfolios are captured at once.
const snapshotConcurrency = 4

// snapshotTimeout bounds a single scheduled capture run.
const snapshotTimeout = 5 * time.Minute

// SnapshotService records one summary per portfolio per day so historical
// totals can be listed without replaying contributions.
type SnapshotService struct {
	snapshotRepo     *repository.SnapshotRepository
	portfolioService *PortfolioService
	logger           *logging.Logger
	now              func() time.Time
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(
	snapshotRepo *repository.SnapshotRepository,
	portfolioService *PortfolioService,
	logger *logging.Logger,
) *SnapshotService {
	return &SnapshotService{
		snapshotRepo:     snapshotRepo,
		portfolioService: portfolioService,
		logger:           logger.Component("snapshot"),
		now:              time.Now,
	}
}

// WithClock replaces the clock used to date snapshots. Used in tests.
func (s *SnapshotService) WithClock(now func() time.Time) *SnapshotService {
	s.now = now
	return s
}

// CapturePortfolioSnapshot summarizes one portfolio and stores the result for today.
// Running it twice on the same day replaces the earlier snapshot.
func (s *SnapshotService) CapturePortfolioSnapshot(ctx context.Context, portfolioID string) (model.PortfolioSnapshot, error) {
	summary, err := s.portfolioService.GetPortfolioSummary(ctx, portfolioID)
	if err != nil {
		return model.PortfolioSnapshot{}, err
	}

	now := s.now().UTC()
	totals := summary.Totals
	snapshot := model.PortfolioSnapshot{
		ID:                 uuid.New().String(),
		PortfolioID:        portfolioID,
		Date:               time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		InvestedCapital:    totals.TotalInvestedCapital,
		CurrentValue:       totals.TotalCurrentValue,
		RealizedProfit:     totals.TotalRealizedProfit,
		TotalReturn:        totals.TotalReturn,
		TotalReturnPercent: totals.TotalReturnPercent.Round(4),
		CalculatedAt:       now,
	}

	if err := s.snapshotRepo.UpsertSnapshot(ctx, snapshot); err != nil {
		return model.PortfolioSnapshot{}, err
	}
	return snapshot, nil
}

// CaptureAll stores today's snapshot for every non-archived portfolio.
// Portfolios are captured concurrently and the first failure cancels the rest.
// Returns the number of captured portfolios.
func (s *SnapshotService) CaptureAll(ctx context.Context) (int, error) {
	portfolios, err := s.portfolioService.GetAllPortfolios(ctx, false)
	if err != nil {
		return 0, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(snapshotConcurrency)
	for _, p := range portfolios {
		g.Go(func() error {
			if _, err := s.CapturePortfolioSnapshot(gctx, p.ID); err != nil {
				return fmt.Errorf("failed to capture snapshot for portfolio %s: %w", p.ID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	return len(portfolios), nil
}

// GetSnapshots lists stored snapshots of a portfolio within [startDate, endDate].
// A zero endDate means today; a zero startDate lists from the first snapshot.
// Returns apperrors.ErrPortfolioNotFound for an unknown portfolio and
// apperrors.ErrInvalidDateRange when startDate is after endDate.
func (s *SnapshotService) GetSnapshots(ctx context.Context, portfolioID string, startDate, endDate time.Time) ([]model.PortfolioSnapshot, error) {
	if endDate.IsZero() {
		endDate = s.now().UTC()
	}
	if startDate.After(endDate) {
		return nil, fmt.Errorf("%w: start %s is after end %s", apperrors.ErrInvalidDateRange,
			startDate.Format(time.DateOnly), endDate.Format(time.DateOnly))
	}
	if _, err := s.portfolioService.GetPortfolio(ctx, portfolioID); err != nil {
		return nil, err
	}
	return s.snapshotRepo.GetSnapshots(ctx, portfolioID, startDate, endDate)
}

// StartScheduler runs CaptureAll on the given cron schedule until the returned
// cron is stopped. An empty schedule disables the job and returns nil.
func (s *SnapshotService) StartScheduler(schedule string) (*cron.Cron, error) {
	if schedule == "" {
		s.logger.Info().Msg("snapshot scheduler disabled")
		return nil, nil
	}

	c := cron.New(
		cron.WithLogger(cronLogger{s.logger}),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{s.logger})),
	)
	_, err := c.AddFunc(schedule, s.runScheduled)
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot schedule %q: %w", schedule, err)
	}

	c.Start()
	s.logger.Info().Str("schedule", schedule).Msg("snapshot scheduler started")
	return c, nil
}

func (s *SnapshotService) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	start := time.Now()
	count, err := s.CaptureAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("snapshot run failed")
		return
	}
	s.logger.Info().
		Int("portfolios", count).
		Dur("duration", time.Since(start)).
		Msg("snapshot run completed")
}

// cronLogger adapts the application logger to cron.Logger.
type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/portfolio-tracker/internal/accounting"
	"github.com/ndewijer/portfolio-tracker/internal/model"
	"github.com/ndewijer/portfolio-tracker/internal/repository"
)

// ContributionService handles creating, listing and removing contributions,
// and refreshing the market price attached to an asset.
type ContributionService struct {
	contributionRepo *repository.ContributionRepository
	portfolioRepo    *repository.PortfolioRepository
	now              func() time.Time
}

// NewContributionService creates a new ContributionService with the provided repository dependencies.
func NewContributionService(
	contributionRepo *repository.ContributionRepository,
	portfolioRepo *repository.PortfolioRepository,
) *ContributionService {
	return &ContributionService{
		contributionRepo: contributionRepo,
		portfolioRepo:    portfolioRepo,
		now:              time.Now,
	}
}

// GetContributions returns the contributions of a portfolio ordered by date.
// Returns apperrors.ErrPortfolioNotFound for an unknown portfolio.
func (s *ContributionService) GetContributions(ctx context.Context, portfolioID string) ([]model.Contribution, error) {
	if _, err := s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID); err != nil {
		return nil, err
	}
	return s.contributionRepo.GetContributionsByPortfolio(ctx, portfolioID)
}

// CreateContribution validates and stores a contribution for a portfolio.
// The ID, portfolio and creation time of c are assigned here.
//
// Returns apperrors.ErrPortfolioNotFound for an unknown portfolio and an
// *accounting.InvalidContributionError for a record the engine would reject.
func (s *ContributionService) CreateContribution(ctx context.Context, portfolioID string, c model.Contribution) (model.Contribution, error) {
	if _, err := s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID); err != nil {
		return model.Contribution{}, err
	}

	c.ID = uuid.New().String()
	c.PortfolioID = portfolioID
	c.CreatedAt = s.now().UTC()
	c.ContributionDate = c.ContributionDate.UTC()

	if err := accounting.ValidateContribution(0, c); err != nil {
		return model.Contribution{}, err
	}

	if err := s.contributionRepo.InsertContribution(ctx, c); err != nil {
		return model.Contribution{}, err
	}
	return c, nil
}

// DeleteContribution removes a contribution.
// Returns apperrors.ErrContributionNotFound if it does not exist.
func (s *ContributionService) DeleteContribution(ctx context.Context, contributionID string) error {
	return s.contributionRepo.DeleteContribution(ctx, contributionID)
}

// UpdateAssetPrice attaches a new market price to every contribution of an asset.
// Returns the number of updated contributions.
func (s *ContributionService) UpdateAssetPrice(ctx context.Context, portfolioID string, key model.AssetKey, price decimal.Decimal) (int64, error) {
	if _, err := s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID); err != nil {
		return 0, err
	}
	return s.contributionRepo.UpdateAssetPrice(ctx, portfolioID, key, price)
}

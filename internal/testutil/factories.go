package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/portfolio-tracker/internal/model"
	"github.com/ndewijer/portfolio-tracker/internal/repository"
)

// PortfolioBuilder provides a fluent interface for creating test portfolios.
//
// Example usage:
//
//	// Simple creation with defaults
//	portfolio := testutil.NewPortfolio().Build(t, db)
//
//	// Customized portfolio
//	portfolio := testutil.NewPortfolio().
//	    WithName("Custom Portfolio").
//	    WithDescription("My description").
//	    Archived().
//	    Build(t, db)
type PortfolioBuilder struct {
	ID          string
	Name        string
	Description string
	IsArchived  bool
	CreatedAt   time.Time
}

// NewPortfolio creates a PortfolioBuilder with sensible defaults.
func NewPortfolio() *PortfolioBuilder {
	return &PortfolioBuilder{
		ID:          MakeID(),
		Name:        MakePortfolioName("Test Portfolio"),
		Description: "Test description",
		IsArchived:  false,
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// WithID sets a custom ID.
func (b *PortfolioBuilder) WithID(id string) *PortfolioBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *PortfolioBuilder) WithName(name string) *PortfolioBuilder {
	b.Name = name
	return b
}

// WithDescription sets a custom description.
func (b *PortfolioBuilder) WithDescription(desc string) *PortfolioBuilder {
	b.Description = desc
	return b
}

// Archived marks the portfolio as archived.
func (b *PortfolioBuilder) Archived() *PortfolioBuilder {
	b.IsArchived = true
	return b
}

// Build creates the portfolio in the database and returns it.
func (b *PortfolioBuilder) Build(t *testing.T, db *sql.DB) model.Portfolio {
	t.Helper()

	query := `
		INSERT INTO portfolio (id, name, description, is_archived, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Name, b.Description, b.IsArchived, repository.FormatTime(b.CreatedAt))
	if err != nil {
		t.Fatalf("Failed to create test portfolio: %v", err)
	}

	return model.Portfolio{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		IsArchived:  b.IsArchived,
		CreatedAt:   b.CreatedAt,
	}
}

// Convenience functions

// CreatePortfolio creates a portfolio with the given name and default values.
//
// Example usage:
//
//	portfolio := testutil.CreatePortfolio(t, db, "My Portfolio")
func CreatePortfolio(t *testing.T, db *sql.DB, name string) model.Portfolio {
	t.Helper()
	return NewPortfolio().WithName(name).Build(t, db)
}

// CreateArchivedPortfolio creates an archived portfolio with the given name.
func CreateArchivedPortfolio(t *testing.T, db *sql.DB, name string) model.Portfolio {
	t.Helper()
	return NewPortfolio().WithName(name).Archived().Build(t, db)
}

// ContributionBuilder provides a fluent interface for creating test contributions.
// Quantities are signed: use Buy or Sell to set quantity and gross amount together.
//
// Example usage:
//
//	testutil.NewContribution(portfolio.ID).
//	    WithAsset(model.CategoryStockIntl, "AAPL").
//	    Buy("10", "1500").
//	    WithDate(testutil.Day(2024, 1, 15)).
//	    WithPrice("160").
//	    Build(t, db)
type ContributionBuilder struct {
	c model.Contribution
}

// NewContribution creates a ContributionBuilder for a one-unit buy of a test asset.
func NewContribution(portfolioID string) *ContributionBuilder {
	return &ContributionBuilder{c: model.Contribution{
		ID:               MakeID(),
		PortfolioID:      portfolioID,
		Category:         model.CategoryStockIntl,
		AssetName:        "TEST",
		Quantity:         decimal.NewFromInt(1),
		ContributionDate: Day(2024, 1, 1),
		GrossAmount:      decimal.NewFromInt(100),
		BrokerageFee:     decimal.Zero,
		CreatedAt:        Day(2024, 1, 1),
	}}
}

// WithAsset sets the category and asset name.
func (b *ContributionBuilder) WithAsset(category model.Category, name string) *ContributionBuilder {
	b.c.Category = category
	b.c.AssetName = name
	return b
}

// Buy sets a positive quantity and the amount paid.
func (b *ContributionBuilder) Buy(quantity, gross string) *ContributionBuilder {
	b.c.Quantity = decimal.RequireFromString(quantity)
	b.c.GrossAmount = decimal.RequireFromString(gross)
	return b
}

// Sell sets a negative quantity and the proceeds received.
func (b *ContributionBuilder) Sell(quantity, gross string) *ContributionBuilder {
	b.c.Quantity = decimal.RequireFromString(quantity).Neg()
	b.c.GrossAmount = decimal.RequireFromString(gross)
	return b
}

// WithFee sets the brokerage fee.
func (b *ContributionBuilder) WithFee(fee string) *ContributionBuilder {
	b.c.BrokerageFee = decimal.RequireFromString(fee)
	return b
}

// WithDate sets the contribution date.
func (b *ContributionBuilder) WithDate(date time.Time) *ContributionBuilder {
	b.c.ContributionDate = date
	return b
}

// WithPrice sets the current market price.
func (b *ContributionBuilder) WithPrice(price string) *ContributionBuilder {
	p := decimal.RequireFromString(price)
	b.c.CurrentPrice = &p
	return b
}

// Build creates the contribution in the database and returns it.
func (b *ContributionBuilder) Build(t *testing.T, db *sql.DB) model.Contribution {
	t.Helper()

	repo := repository.NewContributionRepository(db)
	if err := repo.InsertContribution(t.Context(), b.c); err != nil {
		t.Fatalf("Failed to create test contribution: %v", err)
	}
	return b.c
}

// SnapshotBuilder provides a fluent interface for creating stored portfolio snapshots.
type SnapshotBuilder struct {
	s model.PortfolioSnapshot
}

// NewSnapshot creates a SnapshotBuilder with zero totals for the given day.
func NewSnapshot(portfolioID string, date time.Time) *SnapshotBuilder {
	return &SnapshotBuilder{s: model.PortfolioSnapshot{
		ID:                 MakeID(),
		PortfolioID:        portfolioID,
		Date:               date,
		InvestedCapital:    decimal.Zero,
		CurrentValue:       decimal.Zero,
		RealizedProfit:     decimal.Zero,
		TotalReturn:        decimal.Zero,
		TotalReturnPercent: decimal.Zero,
		CalculatedAt:       date,
	}}
}

// WithValues sets invested capital and current value.
func (b *SnapshotBuilder) WithValues(invested, current string) *SnapshotBuilder {
	b.s.InvestedCapital = decimal.RequireFromString(invested)
	b.s.CurrentValue = decimal.RequireFromString(current)
	return b
}

// Build creates the snapshot in the database and returns it.
func (b *SnapshotBuilder) Build(t *testing.T, db *sql.DB) model.PortfolioSnapshot {
	t.Helper()

	repo := repository.NewSnapshotRepository(db)
	if err := repo.UpsertSnapshot(t.Context(), b.s); err != nil {
		t.Fatalf("Failed to create test snapshot: %v", err)
	}
	return b.s
}

// Day returns midnight UTC of the given date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/portfolio-tracker/internal/apperrors"
	"github.com/ndewijer/portfolio-tracker/internal/model"
)

// ContributionRepository provides data access methods for the contribution table.
type ContributionRepository struct {
	db *sql.DB
}

// NewContributionRepository creates a new ContributionRepository with the provided database connection.
func NewContributionRepository(db *sql.DB) *ContributionRepository {
	return &ContributionRepository{db: db}
}

const contributionColumns = `
	id, portfolio_id, category, asset_name, quantity, contribution_date,
	gross_amount, brokerage_fee, current_price, created_at
`

// GetContributionsByPortfolio retrieves every contribution of a portfolio.
// Rows are ordered by contribution date and then by insertion order, which is
// the order FIFO matching expects for same-day records.
// Returns an empty slice if the portfolio has no contributions.
func (r *ContributionRepository) GetContributionsByPortfolio(ctx context.Context, portfolioID string) ([]model.Contribution, error) {
	query := `SELECT ` + contributionColumns + `
		FROM contribution
		WHERE portfolio_id = ?
		ORDER BY contribution_date ASC, rowid ASC
	`

	rows, err := r.db.QueryContext(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contribution table: %w", err)
	}
	defer rows.Close()

	contributions := []model.Contribution{}
	for rows.Next() {
		c, err := scanContribution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contribution table results: %w", err)
		}
		contributions = append(contributions, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contribution table: %w", err)
	}

	return contributions, nil
}

// GetContribution retrieves a single contribution.
// Returns apperrors.ErrContributionNotFound if no contribution has the given ID.
func (r *ContributionRepository) GetContribution(ctx context.Context, contributionID string) (model.Contribution, error) {
	query := `SELECT ` + contributionColumns + `
		FROM contribution
		WHERE id = ?
	`

	c, err := scanContribution(r.db.QueryRowContext(ctx, query, contributionID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Contribution{}, apperrors.ErrContributionNotFound
	}
	if err != nil {
		return model.Contribution{}, fmt.Errorf("failed to query contribution: %w", err)
	}
	return c, nil
}

// InsertContribution stores a new contribution. The caller assigns ID and CreatedAt.
func (r *ContributionRepository) InsertContribution(ctx context.Context, c model.Contribution) error {
	query := `
		INSERT INTO contribution (` + contributionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.PortfolioID,
		string(c.Category),
		c.AssetName,
		c.Quantity.String(),
		FormatTime(c.ContributionDate),
		c.GrossAmount.String(),
		c.BrokerageFee.String(),
		nullDecimal(c.CurrentPrice),
		FormatTime(c.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert contribution: %w", err)
	}
	return nil
}

// DeleteContribution removes a contribution.
// Returns apperrors.ErrContributionNotFound if nothing was deleted.
func (r *ContributionRepository) DeleteContribution(ctx context.Context, contributionID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contribution WHERE id = ?`, contributionID)
	if err != nil {
		return fmt.Errorf("failed to delete contribution: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read deleted rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrContributionNotFound
	}
	return nil
}

// UpdateAssetPrice sets current_price on every contribution of one asset in a portfolio.
// Cost basis is unaffected; the price is only used for valuation.
//
// Returns the number of updated contributions, or apperrors.ErrAssetNotFound when
// the portfolio holds no contribution for the asset.
func (r *ContributionRepository) UpdateAssetPrice(ctx context.Context, portfolioID string, key model.AssetKey, price decimal.Decimal) (int64, error) {
	query := `
		UPDATE contribution
		SET current_price = ?
		WHERE portfolio_id = ? AND category = ? AND asset_name = ?
	`

	res, err := r.db.ExecContext(ctx, query, price.String(), portfolioID, string(key.Category), key.AssetName)
	if err != nil {
		return 0, fmt.Errorf("failed to update asset price: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read updated rows: %w", err)
	}
	if affected == 0 {
		return 0, apperrors.ErrAssetNotFound
	}
	return affected, nil
}

func scanContribution(row rowScanner) (model.Contribution, error) {
	var (
		c                                   model.Contribution
		category                            string
		quantity, grossAmount, brokerageFee string
		contributionDateStr, createdAtStr   string
		currentPrice                        sql.NullString
	)

	err := row.Scan(
		&c.ID,
		&c.PortfolioID,
		&category,
		&c.AssetName,
		&quantity,
		&contributionDateStr,
		&grossAmount,
		&brokerageFee,
		&currentPrice,
		&createdAtStr,
	)
	if err != nil {
		return model.Contribution{}, err
	}
	c.Category = model.Category(category)

	if c.Quantity, err = parseDecimal("quantity", quantity); err != nil {
		return model.Contribution{}, err
	}
	if c.GrossAmount, err = parseDecimal("gross_amount", grossAmount); err != nil {
		return model.Contribution{}, err
	}
	if c.BrokerageFee, err = parseDecimal("brokerage_fee", brokerageFee); err != nil {
		return model.Contribution{}, err
	}
	if c.CurrentPrice, err = parseNullDecimal("current_price", currentPrice); err != nil {
		return model.Contribution{}, err
	}
	if c.ContributionDate, err = ParseTime(contributionDateStr); err != nil {
		return model.Contribution{}, err
	}
	if c.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.Contribution{}, err
	}

	return c, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ndewijer/portfolio-tracker/internal/model"
)

// SnapshotRepository provides data access methods for the portfolio_snapshot table.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new SnapshotRepository with the provided database connection.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// UpsertSnapshot stores the snapshot for its portfolio and day, replacing any
// snapshot already recorded for that day. The stored row keeps its original ID.
func (r *SnapshotRepository) UpsertSnapshot(ctx context.Context, s model.PortfolioSnapshot) error {
	query := `
		INSERT INTO portfolio_snapshot (
			id, portfolio_id, date, invested_capital, current_value,
			realized_profit, total_return, total_return_percent, calculated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (portfolio_id, date) DO UPDATE SET
			invested_capital = excluded.invested_capital,
			current_value = excluded.current_value,
			realized_profit = excluded.realized_profit,
			total_return = excluded.total_return,
			total_return_percent = excluded.total_return_percent,
			calculated_at = excluded.calculated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.PortfolioID,
		s.Date.UTC().Format(dbDateLayout),
		s.InvestedCapital.String(),
		s.CurrentValue.String(),
		s.RealizedProfit.String(),
		s.TotalReturn.String(),
		s.TotalReturnPercent.String(),
		FormatTime(s.CalculatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert portfolio snapshot: %w", err)
	}
	return nil
}

// GetSnapshots retrieves the snapshots of a portfolio between startDate and
// endDate inclusive, ordered by date ascending.
func (r *SnapshotRepository) GetSnapshots(ctx context.Context, portfolioID string, startDate, endDate time.Time) ([]model.PortfolioSnapshot, error) {
	query := `
		SELECT id, portfolio_id, date, invested_capital, current_value,
			realized_profit, total_return, total_return_percent, calculated_at
		FROM portfolio_snapshot
		WHERE portfolio_id = ?
		AND date >= ?
		AND date <= ?
		ORDER BY date ASC
	`

	rows, err := r.db.QueryContext(ctx, query,
		portfolioID,
		startDate.UTC().Format(dbDateLayout),
		endDate.UTC().Format(dbDateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio_snapshot table: %w", err)
	}
	defer rows.Close()

	snapshots := []model.PortfolioSnapshot{}
	for rows.Next() {
		var (
			s                                            model.PortfolioSnapshot
			dateStr, calculatedAtStr                     string
			invested, current, realized, total, totalPct string
		)

		err := rows.Scan(
			&s.ID,
			&s.PortfolioID,
			&dateStr,
			&invested,
			&current,
			&realized,
			&total,
			&totalPct,
			&calculatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio_snapshot table results: %w", err)
		}

		if s.Date, err = ParseTime(dateStr); err != nil {
			return nil, err
		}
		if s.CalculatedAt, err = ParseTime(calculatedAtStr); err != nil {
			return nil, err
		}
		if s.InvestedCapital, err = parseDecimal("invested_capital", invested); err != nil {
			return nil, err
		}
		if s.CurrentValue, err = parseDecimal("current_value", current); err != nil {
			return nil, err
		}
		if s.RealizedProfit, err = parseDecimal("realized_profit", realized); err != nil {
			return nil, err
		}
		if s.TotalReturn, err = parseDecimal("total_return", total); err != nil {
			return nil, err
		}
		if s.TotalReturnPercent, err = parseDecimal("total_return_percent", totalPct); err != nil {
			return nil, err
		}

		snapshots = append(snapshots, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio_snapshot table: %w", err)
	}

	return snapshots, nil
}

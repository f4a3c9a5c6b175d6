package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Portfolio represents a portfolio from the database
type Portfolio struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsArchived  bool      `json:"isArchived"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PortfolioFilter for querying portfolios
type PortfolioFilter struct {
	IncludeArchived bool
}

// PortfolioSnapshot is a persisted daily summary of a portfolio.
// Snapshots are written by the scheduler so historical totals can be served
// without replaying every contribution.
type PortfolioSnapshot struct {
	ID                 string          `json:"id"`
	PortfolioID        string          `json:"portfolioId"`
	Date               time.Time       `json:"date"`
	InvestedCapital    decimal.Decimal `json:"investedCapital"` // capital still at risk
	CurrentValue       decimal.Decimal `json:"currentValue"`
	RealizedProfit     decimal.Decimal `json:"realizedProfit"`
	TotalReturn        decimal.Decimal `json:"totalReturn"`
	TotalReturnPercent decimal.Decimal `json:"totalReturnPercent"`
	CalculatedAt       time.Time       `json:"calculatedAt"`
}

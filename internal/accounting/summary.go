package accounting

import (
	"github.com/shopspring/decimal"

	"github.com/ndewijer/portfolio-tracker/internal/model"
)

// HoldingGroup is one open position in a portfolio summary.
type HoldingGroup struct {
	AssetKey     model.AssetKey   `json:"assetKey"`
	Stats        HoldingStats     `json:"stats"`
	AverageCost  decimal.Decimal  `json:"averageCost"`
	LatestPrice  *decimal.Decimal `json:"latestPrice"`
	PriceSource  PriceSource      `json:"priceSource"`
	CurrentValue decimal.Decimal  `json:"currentValue"`
	// UnrealizedProfit is CurrentValue minus the remaining cost basis.
	UnrealizedProfit decimal.Decimal `json:"unrealizedProfit"`
}

// PortfolioTotals aggregates every holding group of a portfolio.
//
// TotalReturnPercent is measured against TotalInvestedCapital, the cost basis
// still at risk in open positions. It is not a lifetime return on everything
// ever deployed; LifetimeInvestedCapital is reported for that purpose.
type PortfolioTotals struct {
	TotalInvestedCapital    decimal.Decimal `json:"totalInvestedCapital"`
	LifetimeInvestedCapital decimal.Decimal `json:"lifetimeInvestedCapital"`
	TotalCurrentValue       decimal.Decimal `json:"totalCurrentValue"`
	TotalRealizedProfit     decimal.Decimal `json:"totalRealizedProfit"`
	TotalUnrealizedProfit   decimal.Decimal `json:"totalUnrealizedProfit"`
	TotalReturn             decimal.Decimal `json:"totalReturn"`
	TotalReturnPercent      decimal.Decimal `json:"totalReturnPercent"`
	ActiveHoldings          int             `json:"activeHoldings"`
	ClosedHoldings          int             `json:"closedHoldings"`
}

// PortfolioSummary is the result of SummarizePortfolio.
type PortfolioSummary struct {
	Holdings []HoldingGroup         `json:"holdings"`
	Totals   PortfolioTotals        `json:"totals"`
	Warnings []UnmatchedSellWarning `json:"warnings,omitempty"`
}

var hundred = decimal.NewFromInt(100)

// SummarizePortfolio groups contributions by asset, runs FIFO matching per
// group and sums the result into portfolio totals.
//
// Only groups with open quantity are listed in Holdings, in order of first
// appearance in the input. Closed groups still add their realized profit to the
// totals.
//
// Valuation of an open group uses the most recent currentPrice attached to any
// of its contributions. A group without any price is valued at its remaining
// cost basis and marked PriceSourceCostProxy.
//
// Totals:
//   - TotalReturn = realized profit of all groups + (current value - remaining cost basis) of open groups
//   - TotalInvestedCapital = remaining cost basis of open groups
//   - TotalReturnPercent = TotalReturn / TotalInvestedCapital * 100, or 0 when nothing is invested
//
// Every contribution is validated first; the first failure is returned as an
// *InvalidContributionError.
func SummarizePortfolio(contributions []model.Contribution) (PortfolioSummary, error) {
	summary := PortfolioSummary{
		Holdings: []HoldingGroup{},
		Totals: PortfolioTotals{
			TotalInvestedCapital:    decimal.Zero,
			LifetimeInvestedCapital: decimal.Zero,
			TotalCurrentValue:       decimal.Zero,
			TotalRealizedProfit:     decimal.Zero,
			TotalUnrealizedProfit:   decimal.Zero,
			TotalReturn:             decimal.Zero,
			TotalReturnPercent:      decimal.Zero,
		},
	}
	if err := ValidateContributions(contributions); err != nil {
		return PortfolioSummary{}, err
	}

	groups := make(map[model.AssetKey][]model.Contribution)
	var order []model.AssetKey
	for _, c := range contributions {
		key := c.Key()
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], c)
	}

	totals := &summary.Totals
	for _, key := range order {
		group := groups[key]
		stats := ComputeHoldingStats(group)

		totals.TotalRealizedProfit = totals.TotalRealizedProfit.Add(stats.RealizedProfit)
		totals.LifetimeInvestedCapital = totals.LifetimeInvestedCapital.Add(stats.InvestedCapital)
		summary.Warnings = append(summary.Warnings, stats.Warnings...)

		if !stats.RemainingQuantity.IsPositive() {
			totals.ClosedHoldings++
			continue
		}

		holding := HoldingGroup{
			AssetKey:    key,
			Stats:       stats,
			AverageCost: safeDiv(stats.RemainingCostBasis, stats.RemainingQuantity),
			LatestPrice: LatestPrice(group),
		}
		if holding.LatestPrice != nil {
			holding.PriceSource = PriceSourceMarket
			holding.CurrentValue = stats.RemainingQuantity.Mul(*holding.LatestPrice)
		} else {
			holding.PriceSource = PriceSourceCostProxy
			holding.CurrentValue = stats.RemainingCostBasis
		}
		holding.UnrealizedProfit = holding.CurrentValue.Sub(stats.RemainingCostBasis)

		totals.ActiveHoldings++
		totals.TotalInvestedCapital = totals.TotalInvestedCapital.Add(stats.RemainingCostBasis)
		totals.TotalCurrentValue = totals.TotalCurrentValue.Add(holding.CurrentValue)
		totals.TotalUnrealizedProfit = totals.TotalUnrealizedProfit.Add(holding.UnrealizedProfit)
		summary.Holdings = append(summary.Holdings, holding)
	}

	totals.TotalReturn = totals.TotalRealizedProfit.Add(totals.TotalUnrealizedProfit)
	totals.TotalReturnPercent = safeDiv(totals.TotalReturn, totals.TotalInvestedCapital).Mul(hundred)

	return summary, nil
}

// LatestPrice returns the currentPrice of the most recent contribution that
// carries one, or nil when none does. Ties on date resolve to the later entry.
func LatestPrice(contributions []model.Contribution) *decimal.Decimal {
	var latest *decimal.Decimal
	for _, c := range sortedByDate(contributions) {
		if c.CurrentPrice != nil {
			price := *c.CurrentPrice
			latest = &price
		}
	}
	return latest
}

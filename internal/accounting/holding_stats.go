package accounting

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/portfolio-tracker/internal/model"
)

// HoldingStats is the FIFO outcome for a single asset.
type HoldingStats struct {
	RealizedProfit     decimal.Decimal        `json:"realizedProfit"`     // may be negative
	RemainingQuantity  decimal.Decimal        `json:"remainingQuantity"`  // open position size
	RemainingCostBasis decimal.Decimal        `json:"remainingCostBasis"` // cost of open lots
	RealizedCostBasis  decimal.Decimal        `json:"realizedCostBasis"`  // cost of everything sold
	InvestedCapital    decimal.Decimal        `json:"investedCapital"`    // remaining + realized cost basis
	Warnings           []UnmatchedSellWarning `json:"warnings,omitempty"`
}

// UnmatchedSellWarning records a sell that exceeded the open lots at the time it was processed.
// The unmatched remainder contributes neither cost basis nor realized profit.
type UnmatchedSellWarning struct {
	AssetKey          model.AssetKey  `json:"assetKey"`
	Date              time.Time       `json:"date"`
	UnmatchedQuantity decimal.Decimal `json:"unmatchedQuantity"`
}

// ComputeHoldingStats matches sells against buys in FIFO order for one asset.
//
// Contributions are processed oldest first; contributions sharing a date keep
// their input order. Zero quantities are skipped.
//
//   - Buy: opens a lot carrying the full gross amount as its cost. Brokerage on
//     buys is expected to already be part of the gross amount.
//   - Sell: draws from the oldest lots. For the matched part, the revenue is the
//     prorated gross amount minus the whole brokerage fee, and the realized
//     profit is that revenue minus the drawn cost basis.
//
// Revenue proration assumes gross amount scales with quantity. With a flat
// brokerage fee on a sell that is only partially matched this attributes the
// full fee to the matched part. It is an approximation, not a tax calculation.
//
// The input slice is never modified, so repeated calls on the same slice return
// identical results. An empty input yields zero stats.
func ComputeHoldingStats(contributions []model.Contribution) HoldingStats {
	stats := HoldingStats{
		RealizedProfit:     decimal.Zero,
		RemainingQuantity:  decimal.Zero,
		RemainingCostBasis: decimal.Zero,
		RealizedCostBasis:  decimal.Zero,
		InvestedCapital:    decimal.Zero,
	}
	if len(contributions) == 0 {
		return stats
	}

	var queue lotQueue
	for _, c := range sortedByDate(contributions) {
		if !c.IsSell() {
			queue.apply(c)
			continue
		}

		draw := queue.sell(c.Quantity)
		if draw.matched.IsPositive() {
			revenue := c.GrossAmount.Mul(draw.matched).Div(c.Quantity.Abs()).Sub(c.BrokerageFee)
			stats.RealizedProfit = stats.RealizedProfit.Add(revenue.Sub(draw.costBasis))
			stats.RealizedCostBasis = stats.RealizedCostBasis.Add(draw.costBasis)
		}
		if draw.unmatched.IsPositive() {
			stats.Warnings = append(stats.Warnings, UnmatchedSellWarning{
				AssetKey:          c.Key(),
				Date:              c.ContributionDate,
				UnmatchedQuantity: draw.unmatched,
			})
		}
	}

	stats.RemainingQuantity = queue.quantity()
	stats.RemainingCostBasis = queue.costBasis()
	stats.InvestedCapital = stats.RemainingCostBasis.Add(stats.RealizedCostBasis)
	return stats
}

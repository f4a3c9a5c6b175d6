package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/portfolio-tracker/internal/accounting"
	"github.com/ndewijer/portfolio-tracker/internal/currency"
)

// SummaryMarkdown renders holdings, totals and warnings of a summary as markdown tables.
func SummaryMarkdown(summary accounting.PortfolioSummary, code string) string {
	var b strings.Builder
	money := func(d decimal.Decimal) string { return currency.Format(d, code) }

	fmt.Fprintf(&b, "# Portfolio Summary\n\n")

	if len(summary.Holdings) == 0 {
		fmt.Fprintln(&b, "No open holdings.")
		fmt.Fprintln(&b)
	} else {
		fmt.Fprintln(&b, "| Asset | Category | Quantity | Avg Cost | Price | Cost Basis | Value | Unrealized | Realized |")
		fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|---:|---:|")
		for _, h := range summary.Holdings {
			price := "n/a (cost)"
			if h.LatestPrice != nil {
				price = money(*h.LatestPrice)
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
				h.AssetKey.AssetName,
				h.AssetKey.Category,
				h.Stats.RemainingQuantity.String(),
				money(h.AverageCost),
				price,
				money(h.Stats.RemainingCostBasis),
				money(h.CurrentValue),
				money(h.UnrealizedProfit),
				money(h.Stats.RealizedProfit),
			)
		}
		fmt.Fprintln(&b)
	}

	t := summary.Totals
	fmt.Fprintf(&b, "## Totals\n\n")
	fmt.Fprintln(&b, "| Metric | Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Invested capital | %s |\n", money(t.TotalInvestedCapital))
	fmt.Fprintf(&b, "| Lifetime invested | %s |\n", money(t.LifetimeInvestedCapital))
	fmt.Fprintf(&b, "| Current value | %s |\n", money(t.TotalCurrentValue))
	fmt.Fprintf(&b, "| Realized profit | %s |\n", money(t.TotalRealizedProfit))
	fmt.Fprintf(&b, "| Unrealized profit | %s |\n", money(t.TotalUnrealizedProfit))
	fmt.Fprintf(&b, "| Total return | %s |\n", money(t.TotalReturn))
	fmt.Fprintf(&b, "| Total return %% | %s%% |\n", t.TotalReturnPercent.StringFixed(2))
	fmt.Fprintf(&b, "| Holdings (open / closed) | %d / %d |\n", t.ActiveHoldings, t.ClosedHoldings)

	writeWarnings(&b, summary.Warnings)
	return b.String()
}

// EvolutionMarkdown renders an evolution series as a markdown table.
// Rows valued partly at cost are flagged with an asterisk.
func EvolutionMarkdown(series *accounting.EvolutionSeries, code string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Portfolio Evolution\n\n")

	if series == nil || len(series.Points) == 0 {
		fmt.Fprintln(&b, "No contributions.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Date | Invested | Value | Gain |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")
	proxied := false
	for _, p := range series.Points {
		mark := ""
		if p.CostProxyAssets > 0 {
			mark = " *"
			proxied = true
		}
		fmt.Fprintf(&b, "| %s%s | %s | %s | %s |\n",
			p.Label,
			mark,
			currency.Format(p.InvestedValue, code),
			currency.Format(p.CurrentValue, code),
			currency.Format(p.CurrentValue.Sub(p.InvestedValue), code),
		)
	}
	if proxied {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "\\* some assets had no market price yet and are valued at cost.")
	}
	return b.String()
}

func writeWarnings(w io.Writer, warnings []accounting.UnmatchedSellWarning) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintf(w, "\n## Warnings\n\n")
	for _, warn := range warnings {
		fmt.Fprintf(w, "- %s: sell on %s exceeded open lots by %s\n",
			warn.AssetKey, warn.Date.Format("2006-01-02"), warn.UnmatchedQuantity)
	}
}

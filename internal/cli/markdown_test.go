package cli

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/portfolio-tracker/internal/accounting"
)

func TestSummaryMarkdown(t *testing.T) {
	// AAPL is priced, MSFT is valued at cost, TSLA is an unmatched sell.
	in := `STOCK_INTL,AAPL,10,2024-01-01,1000,0,120
STOCK_INTL,MSFT,2,2024-01-01,600,0,
STOCK_INTL,TSLA,-1,2024-01-02,200,0,
`
	contributions, err := ReadContributions(strings.NewReader(in))
	require.NoError(t, err)
	summary, err := accounting.SummarizePortfolio(contributions)
	require.NoError(t, err)

	md := SummaryMarkdown(summary, "USD")

	assert.Contains(t, md, "| AAPL | STOCK_INTL | 10 | $100.00 | $120.00 |")
	assert.Contains(t, md, "n/a (cost)")
	assert.Contains(t, md, "| Current value | $1,800.00 |")
	assert.Contains(t, md, "| Total return % | 12.50% |")
	assert.Contains(t, md, "## Warnings")
	assert.Contains(t, md, "STOCK_INTL:TSLA")
}

func TestEvolutionMarkdown(t *testing.T) {
	t.Run("nil series", func(t *testing.T) {
		assert.Contains(t, EvolutionMarkdown(nil, "USD"), "No contributions.")
	})

	t.Run("flags cost proxied rows", func(t *testing.T) {
		series := &accounting.EvolutionSeries{
			Points: []accounting.EvolutionPoint{
				{Label: "2024-01-01", InvestedValue: decimal.NewFromInt(100), CurrentValue: decimal.NewFromInt(100), CostProxyAssets: 1},
				{Label: "2024-01-02", InvestedValue: decimal.NewFromInt(100), CurrentValue: decimal.NewFromInt(90)},
			},
		}

		md := EvolutionMarkdown(series, "USD")

		assert.Contains(t, md, "| 2024-01-01 * | $100.00 | $100.00 | $0.00 |")
		assert.Contains(t, md, "| 2024-01-02 | $100.00 | $90.00 | -$10.00 |")
		assert.Contains(t, md, "valued at cost")
	})
}

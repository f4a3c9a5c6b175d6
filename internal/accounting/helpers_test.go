package accounting_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ndewijer/portfolio-tracker/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func buy(asset string, date time.Time, qty, gross string) model.Contribution {
	return model.Contribution{
		Category:         model.CategoryStockIntl,
		AssetName:        asset,
		Quantity:         dec(qty),
		ContributionDate: date,
		GrossAmount:      dec(gross),
		BrokerageFee:     decimal.Zero,
	}
}

func sell(asset string, date time.Time, qty, gross, fee string) model.Contribution {
	return model.Contribution{
		Category:         model.CategoryStockIntl,
		AssetName:        asset,
		Quantity:         dec(qty).Neg(),
		ContributionDate: date,
		GrossAmount:      dec(gross),
		BrokerageFee:     dec(fee),
	}
}

func withPrice(c model.Contribution, price string) model.Contribution {
	c.CurrentPrice = decPtr(price)
	return c
}

// assertDecimal compares decimals by value, so 60 and 60.00 are equal.
func assertDecimal(t *testing.T, field, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "%s: want %s, got %s", field, want, got)
}

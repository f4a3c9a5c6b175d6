package accounting_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/portfolio-tracker/internal/accounting"
	"github.com/ndewijer/portfolio-tracker/internal/apperrors"
	"github.com/ndewijer/portfolio-tracker/internal/model"
)

// TestValidateContribution tests rejection of records that cannot be matched.
//
// WHY: Malformed records must fail loudly before matching instead of being
// absorbed into the totals with a made-up date or amount.
func TestValidateContribution(t *testing.T) {
	valid := buy("AAPL", day(2024, 1, 1), "1", "10")

	tests := []struct {
		name   string
		mutate func(c *model.Contribution)
		field  string
	}{
		{"missing date", func(c *model.Contribution) { c.ContributionDate = time.Time{} }, "contributionDate"},
		{"unknown category", func(c *model.Contribution) { c.Category = "BONDS" }, "category"},
		{"empty asset name", func(c *model.Contribution) { c.AssetName = "" }, "assetName"},
		{"zero quantity", func(c *model.Contribution) { c.Quantity = dec("0") }, "quantity"},
		{"negative gross amount", func(c *model.Contribution) { c.GrossAmount = dec("-1") }, "grossAmount"},
		{"negative brokerage fee", func(c *model.Contribution) { c.BrokerageFee = dec("-0.01") }, "brokerageFee"},
		{"negative current price", func(c *model.Contribution) { c.CurrentPrice = decPtr("-5") }, "currentPrice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)

			err := accounting.ValidateContribution(3, c)

			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidContribution))
			var invalid *accounting.InvalidContributionError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, 3, invalid.Index)
			assert.Equal(t, tt.field, invalid.Field)
		})
	}

	t.Run("accepts valid buy and sell", func(t *testing.T) {
		assert.NoError(t, accounting.ValidateContribution(0, valid))
		assert.NoError(t, accounting.ValidateContribution(1, sell("AAPL", day(2024, 1, 2), "1", "12", "0.5")))
		assert.NoError(t, accounting.ValidateContribution(2, withPrice(valid, "0")))
	})
}

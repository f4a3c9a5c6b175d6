package accounting

import (
	"fmt"

	"github.com/ndewijer/portfolio-tracker/internal/apperrors"
	"github.com/ndewijer/portfolio-tracker/internal/model"
)

// InvalidContributionError reports a contribution that cannot be used for lot matching.
// It wraps apperrors.ErrInvalidContribution so callers can test with errors.Is.
type InvalidContributionError struct {
	Index  int    // position in the input slice
	Field  string // offending field
	Reason string
}

func (e *InvalidContributionError) Error() string {
	return fmt.Sprintf("contribution %d: %s: %s", e.Index, e.Field, e.Reason)
}

func (e *InvalidContributionError) Unwrap() error {
	return apperrors.ErrInvalidContribution
}

// ValidateContribution checks a single contribution.
// The index is only used to label the returned error.
func ValidateContribution(index int, c model.Contribution) error {
	invalid := func(field, reason string) error {
		return &InvalidContributionError{Index: index, Field: field, Reason: reason}
	}

	switch {
	case c.ContributionDate.IsZero():
		return invalid("contributionDate", "date is required")
	case !model.ValidCategories[c.Category]:
		return invalid("category", fmt.Sprintf("unknown category %q", c.Category))
	case c.AssetName == "":
		return invalid("assetName", "asset name is required")
	case c.Quantity.IsZero():
		return invalid("quantity", "quantity must not be zero")
	case c.GrossAmount.IsNegative():
		return invalid("grossAmount", "gross amount cannot be negative")
	case c.BrokerageFee.IsNegative():
		return invalid("brokerageFee", "brokerage fee cannot be negative")
	case c.CurrentPrice != nil && c.CurrentPrice.IsNegative():
		return invalid("currentPrice", "current price cannot be negative")
	}
	return nil
}

// ValidateContributions checks every contribution and returns the first failure.
func ValidateContributions(contributions []model.Contribution) error {
	for i, c := range contributions {
		if err := ValidateContribution(i, c); err != nil {
			return err
		}
	}
	return nil
}

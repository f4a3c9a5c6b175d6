package validation

import (
	"fmt"
	"strings"

	"github.com/ndewijer/portfolio-tracker/internal/api/request"
	"github.com/ndewijer/portfolio-tracker/internal/model"
)

// ValidateCreateContribution validates a contribution creation request.
// Checks all required fields and validates their formats and constraints.
//
// Required fields:
//   - category: Must be one of the model.ValidCategories values
//   - assetName: Must not be blank, 100 characters or less
//   - quantity: Must be non-zero (positive buys, negative sells)
//   - date: Must be YYYY-MM-DD or RFC3339
//   - grossAmount: Must not be negative
//
// Optional fields:
//   - brokerageFee: Must not be negative
//   - currentPrice: Must be positive if provided
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateContribution(req request.CreateContributionRequest) error {
	errors := make(map[string]string)

	validateAsset(errors, req.Category, req.AssetName)

	if req.Quantity.IsZero() {
		errors["quantity"] = "quantity must be non-zero"
	}

	if strings.TrimSpace(req.Date) == "" {
		errors["date"] = "date is required"
	} else if _, err := request.ParseDate(req.Date); err != nil {
		errors["date"] = err.Error()
	}

	if req.GrossAmount.IsNegative() {
		errors["grossAmount"] = "grossAmount cannot be negative"
	}

	if req.BrokerageFee.IsNegative() {
		errors["brokerageFee"] = "brokerageFee cannot be negative"
	}

	if req.CurrentPrice != nil && !req.CurrentPrice.IsPositive() {
		errors["currentPrice"] = "currentPrice must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateUpdatePrice validates a market price refresh request.
func ValidateUpdatePrice(req request.UpdatePriceRequest) error {
	errors := make(map[string]string)

	validateAsset(errors, req.Category, req.AssetName)

	if !req.Price.IsPositive() {
		errors["price"] = "price must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

func validateAsset(errors map[string]string, category, assetName string) {
	if strings.TrimSpace(category) == "" {
		errors["category"] = "category is required"
	} else if !model.ValidCategories[model.Category(category)] {
		errors["category"] = fmt.Sprintf("invalid category: %s", category)
	}

	if strings.TrimSpace(assetName) == "" {
		errors["assetName"] = "assetName is required"
	} else if len(assetName) > 100 {
		errors["assetName"] = "assetName must be 100 characters or less"
	}
}

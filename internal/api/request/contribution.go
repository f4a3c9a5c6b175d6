package request

import "github.com/shopspring/decimal"

// CreateContributionRequest represents the request body for recording a buy or sell.
// Amounts accept both JSON numbers and strings; strings keep full precision.
type CreateContributionRequest struct {
	Category     string           `json:"category"`
	AssetName    string           `json:"assetName"`
	Quantity     decimal.Decimal  `json:"quantity"`
	Date         string           `json:"date"`
	GrossAmount  decimal.Decimal  `json:"grossAmount"`
	BrokerageFee decimal.Decimal  `json:"brokerageFee"`
	CurrentPrice *decimal.Decimal `json:"currentPrice,omitempty"`
}

// UpdatePriceRequest represents the request body for refreshing an asset's market price.
type UpdatePriceRequest struct {
	Category  string          `json:"category"`
	AssetName string          `json:"assetName"`
	Price     decimal.Decimal `json:"price"`
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category classifies the asset a contribution belongs to.
type Category string

const (
	CategoryStockBR     Category = "STOCK_BR"
	CategoryStockIntl   Category = "STOCK_INTL"
	CategoryCrypto      Category = "CRYPTO"
	CategoryREIT        Category = "REIT"
	CategoryFixedIncome Category = "FIXED_INCOME"
	CategoryOther       Category = "OTHER"
)

// ValidCategories contains the allowed category values.
var ValidCategories = map[Category]bool{
	CategoryStockBR:     true,
	CategoryStockIntl:   true,
	CategoryCrypto:      true,
	CategoryREIT:        true,
	CategoryFixedIncome: true,
	CategoryOther:       true,
}

// AssetKey identifies a single holding. Two contributions with the same key
// belong to the same holding.
type AssetKey struct {
	Category  Category `json:"category"`
	AssetName string   `json:"assetName"`
}

// String returns the key as "CATEGORY:name".
func (k AssetKey) String() string {
	return string(k.Category) + ":" + k.AssetName
}

// Contribution is one buy (positive quantity) or sell (negative quantity) of an asset.
// Amounts are already expressed in the reporting currency.
type Contribution struct {
	ID               string           `json:"id"`
	PortfolioID      string           `json:"portfolioId"`
	Category         Category         `json:"category"`
	AssetName        string           `json:"assetName"`
	Quantity         decimal.Decimal  `json:"quantity"`
	ContributionDate time.Time        `json:"contributionDate"`
	GrossAmount      decimal.Decimal  `json:"grossAmount"`  // cost paid on a buy, proceeds received on a sell
	BrokerageFee     decimal.Decimal  `json:"brokerageFee"` // transaction cost
	CurrentPrice     *decimal.Decimal `json:"currentPrice"` // latest known market price per unit, nil if unknown
	CreatedAt        time.Time        `json:"createdAt,omitempty"`
}

// Key returns the asset key of the contribution.
func (c Contribution) Key() AssetKey {
	return AssetKey{Category: c.Category, AssetName: c.AssetName}
}

// IsBuy reports whether the contribution acquires quantity.
func (c Contribution) IsBuy() bool {
	return c.Quantity.IsPositive()
}

// IsSell reports whether the contribution disposes of quantity.
func (c Contribution) IsSell() bool {
	return c.Quantity.IsNegative()
}

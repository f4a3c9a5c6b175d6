package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/portfolio-tracker/internal/apperrors"
	"github.com/ndewijer/portfolio-tracker/internal/model"
	"github.com/ndewijer/portfolio-tracker/internal/repository"
	"github.com/ndewijer/portfolio-tracker/internal/testutil"
)

// TestContributionRepository_GetContributionsByPortfolio tests loading contributions.
//
// WHY: FIFO matching depends on the order records come back in. Same-day
// records must keep insertion order and decimal amounts must survive storage
// without rounding.
func TestContributionRepository_GetContributionsByPortfolio(t *testing.T) {
	ctx := context.Background()

	t.Run("returns empty slice for portfolio without contributions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewContributionRepository(db)
		p := testutil.CreatePortfolio(t, db, "Empty")

		contributions, err := repo.GetContributionsByPortfolio(ctx, p.ID)
		if err != nil {
			t.Fatalf("GetContributionsByPortfolio() returned unexpected error: %v", err)
		}
		if contributions == nil || len(contributions) != 0 {
			t.Errorf("Expected empty non-nil slice, got %v", contributions)
		}
	})

	t.Run("orders by date then insertion", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		repo := repository.NewContributionRepository(db)
		p := testutil.CreatePortfolio(t, db, "Ordered")

		late := testutil.NewContribution(p.ID).WithDate(testutil.Day(2024, 3, 1)).Build(t, db)
		first := testutil.NewContribution(p.ID).WithDate(testutil.Day(2024, 1, 1)).Build(t, db)
		second := testutil.NewContribution(p.ID).WithDate(testutil.Day(2024, 1, 1)).Sell("1", "120").Build(t, db)

		// Execute
		contributions, err := repo.GetContributionsByPortfolio(ctx, p.ID)

		// Assert
		if err != nil {
			t.Fatalf("GetContributionsByPortfolio() returned unexpected error: %v", err)
		}
		if len(contributions) != 3 {
			t.Fatalf("Expected 3 contributions, got %d", len(contributions))
		}
		wantOrder := []string{first.ID, second.ID, late.ID}
		for i, id := range wantOrder {
			if contributions[i].ID != id {
				t.Errorf("Position %d: expected %s, got %s", i, id, contributions[i].ID)
			}
		}
	})

	t.Run("round-trips decimals and optional price", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewContributionRepository(db)
		p := testutil.CreatePortfolio(t, db, "Decimals")

		testutil.NewContribution(p.ID).
			WithAsset(model.CategoryCrypto, "BTC").
			Buy("0.00012345", "7.123456789").
			WithFee("0.01").
			WithPrice("61234.5678").
			Build(t, db)
		testutil.NewContribution(p.ID).WithDate(testutil.Day(2024, 2, 1)).Build(t, db)

		contributions, err := repo.GetContributionsByPortfolio(ctx, p.ID)
		if err != nil {
			t.Fatalf("GetContributionsByPortfolio() returned unexpected error: %v", err)
		}

		btc := contributions[0]
		if btc.Category != model.CategoryCrypto || btc.AssetName != "BTC" {
			t.Errorf("Unexpected asset %s", btc.Key())
		}
		if !btc.Quantity.Equal(decimal.RequireFromString("0.00012345")) {
			t.Errorf("Quantity mismatch: %s", btc.Quantity)
		}
		if !btc.GrossAmount.Equal(decimal.RequireFromString("7.123456789")) {
			t.Errorf("GrossAmount mismatch: %s", btc.GrossAmount)
		}
		if !btc.BrokerageFee.Equal(decimal.RequireFromString("0.01")) {
			t.Errorf("BrokerageFee mismatch: %s", btc.BrokerageFee)
		}
		if btc.CurrentPrice == nil || !btc.CurrentPrice.Equal(decimal.RequireFromString("61234.5678")) {
			t.Errorf("CurrentPrice mismatch: %v", btc.CurrentPrice)
		}
		if !btc.ContributionDate.Equal(testutil.Day(2024, 1, 1)) {
			t.Errorf("ContributionDate mismatch: %v", btc.ContributionDate)
		}
		if contributions[1].CurrentPrice != nil {
			t.Errorf("Expected nil price, got %v", contributions[1].CurrentPrice)
		}
	})

	t.Run("only returns the requested portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewContributionRepository(db)
		p1 := testutil.CreatePortfolio(t, db, "One")
		p2 := testutil.CreatePortfolio(t, db, "Two")
		testutil.NewContribution(p1.ID).Build(t, db)
		testutil.NewContribution(p2.ID).Build(t, db)
		testutil.NewContribution(p2.ID).Build(t, db)

		contributions, err := repo.GetContributionsByPortfolio(ctx, p1.ID)
		if err != nil {
			t.Fatalf("GetContributionsByPortfolio() returned unexpected error: %v", err)
		}
		if len(contributions) != 1 {
			t.Errorf("Expected 1 contribution, got %d", len(contributions))
		}
	})
}

// TestContributionRepository_GetAndDelete tests single-record access.
func TestContributionRepository_GetAndDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("get unknown contribution", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewContributionRepository(db)

		_, err := repo.GetContribution(ctx, testutil.MakeID())
		if !errors.Is(err, apperrors.ErrContributionNotFound) {
			t.Errorf("Expected ErrContributionNotFound, got %v", err)
		}
	})

	t.Run("delete removes the row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewContributionRepository(db)
		p := testutil.CreatePortfolio(t, db, "Delete")
		c := testutil.NewContribution(p.ID).Build(t, db)

		if err := repo.DeleteContribution(ctx, c.ID); err != nil {
			t.Fatalf("DeleteContribution() returned unexpected error: %v", err)
		}

		testutil.AssertRowCount(t, db, "contribution", 0)
		if err := repo.DeleteContribution(ctx, c.ID); !errors.Is(err, apperrors.ErrContributionNotFound) {
			t.Errorf("Expected ErrContributionNotFound on second delete, got %v", err)
		}
	})
}

// TestContributionRepository_UpdateAssetPrice tests refreshing an asset's market price.
//
// WHY: Valuation reads whatever price is attached to the records. A refresh must
// reach every record of the asset and nothing else.
func TestContributionRepository_UpdateAssetPrice(t *testing.T) {
	ctx := context.Background()

	t.Run("updates every contribution of the asset only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewContributionRepository(db)
		p := testutil.CreatePortfolio(t, db, "Prices")

		testutil.NewContribution(p.ID).WithAsset(model.CategoryStockIntl, "AAPL").Build(t, db)
		testutil.NewContribution(p.ID).WithAsset(model.CategoryStockIntl, "AAPL").Sell("1", "150").Build(t, db)
		other := testutil.NewContribution(p.ID).WithAsset(model.CategoryStockIntl, "MSFT").Build(t, db)

		key := model.AssetKey{Category: model.CategoryStockIntl, AssetName: "AAPL"}
		updated, err := repo.UpdateAssetPrice(ctx, p.ID, key, decimal.RequireFromString("190.25"))
		if err != nil {
			t.Fatalf("UpdateAssetPrice() returned unexpected error: %v", err)
		}
		if updated != 2 {
			t.Errorf("Expected 2 updated rows, got %d", updated)
		}

		got, err := repo.GetContribution(ctx, other.ID)
		if err != nil {
			t.Fatalf("GetContribution() returned unexpected error: %v", err)
		}
		if got.CurrentPrice != nil {
			t.Errorf("Other asset should keep nil price, got %v", got.CurrentPrice)
		}
	})

	t.Run("unknown asset", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewContributionRepository(db)
		p := testutil.CreatePortfolio(t, db, "Prices")

		key := model.AssetKey{Category: model.CategoryCrypto, AssetName: "ETH"}
		_, err := repo.UpdateAssetPrice(ctx, p.ID, key, decimal.NewFromInt(1))
		if !errors.Is(err, apperrors.ErrAssetNotFound) {
			t.Errorf("Expected ErrAssetNotFound, got %v", err)
		}
	})
}

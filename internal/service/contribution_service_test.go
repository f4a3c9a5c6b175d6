package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/portfolio-tracker/internal/apperrors"
	"github.com/ndewijer/portfolio-tracker/internal/model"
	"github.com/ndewijer/portfolio-tracker/internal/testutil"
)

// TestContributionService_CreateContribution tests storing new contributions.
//
// WHY: Records rejected here are records the engine would otherwise refuse at
// summary time. Validation on write keeps stored data usable.
func TestContributionService_CreateContribution(t *testing.T) {
	ctx := context.Background()

	valid := model.Contribution{
		Category:         model.CategoryREIT,
		AssetName:        "HGLG11",
		Quantity:         decimal.NewFromInt(3),
		ContributionDate: testutil.Day(2024, 4, 1),
		GrossAmount:      decimal.RequireFromString("480.30"),
		BrokerageFee:     decimal.Zero,
	}

	t.Run("stores a valid contribution", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestContributionService(t, db)
		p := testutil.CreatePortfolio(t, db, "REITs")

		created, err := svc.CreateContribution(ctx, p.ID, valid)
		if err != nil {
			t.Fatalf("CreateContribution() returned unexpected error: %v", err)
		}

		if created.ID == "" || created.PortfolioID != p.ID {
			t.Errorf("Expected ID and portfolio to be assigned, got %+v", created)
		}
		testutil.AssertRowCount(t, db, "contribution", 1)
	})

	t.Run("rejects invalid contribution", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestContributionService(t, db)
		p := testutil.CreatePortfolio(t, db, "REITs")

		bad := valid
		bad.Quantity = decimal.Zero

		_, err := svc.CreateContribution(ctx, p.ID, bad)
		if !errors.Is(err, apperrors.ErrInvalidContribution) {
			t.Errorf("Expected ErrInvalidContribution, got %v", err)
		}
		testutil.AssertRowCount(t, db, "contribution", 0)
	})

	t.Run("unknown portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestContributionService(t, db)

		_, err := svc.CreateContribution(ctx, testutil.MakeID(), valid)
		if !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Errorf("Expected ErrPortfolioNotFound, got %v", err)
		}
	})
}

func TestContributionService_UpdateAssetPrice(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestContributionService(t, db)
	p := testutil.CreatePortfolio(t, db, "Prices")
	testutil.NewContribution(p.ID).WithAsset(model.CategoryCrypto, "BTC").Build(t, db)

	key := model.AssetKey{Category: model.CategoryCrypto, AssetName: "BTC"}
	if _, err := svc.UpdateAssetPrice(ctx, p.ID, key, decimal.NewFromInt(60000)); err != nil {
		t.Fatalf("UpdateAssetPrice() returned unexpected error: %v", err)
	}

	contributions, err := svc.GetContributions(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetContributions() returned unexpected error: %v", err)
	}
	if contributions[0].CurrentPrice == nil || !contributions[0].CurrentPrice.Equal(decimal.NewFromInt(60000)) {
		t.Errorf("Expected price 60000, got %v", contributions[0].CurrentPrice)
	}

	if _, err := svc.UpdateAssetPrice(ctx, testutil.MakeID(), key, decimal.NewFromInt(1)); !errors.Is(err, apperrors.ErrPortfolioNotFound) {
		t.Errorf("Expected ErrPortfolioNotFound, got %v", err)
	}
}

package testutil

import (
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/portfolio-tracker/internal/logging"
	"github.com/ndewijer/portfolio-tracker/internal/repository"
	"github.com/ndewijer/portfolio-tracker/internal/service"
)

// FixedNow is the clock used by test services.
var FixedNow = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return FixedNow }

// NewTestPortfolioService creates a PortfolioService over db with a silent
// logger and a clock frozen at FixedNow.
func NewTestPortfolioService(t *testing.T, db *sql.DB) *service.PortfolioService {
	t.Helper()

	return service.NewPortfolioService(
		repository.NewPortfolioRepository(db),
		repository.NewContributionRepository(db),
		logging.NewSilentLogger(),
	).WithClock(fixedClock)
}

// NewTestContributionService creates a ContributionService over db.
func NewTestContributionService(t *testing.T, db *sql.DB) *service.ContributionService {
	t.Helper()

	return service.NewContributionService(
		repository.NewContributionRepository(db),
		repository.NewPortfolioRepository(db),
	)
}

// NewTestSnapshotService creates a SnapshotService over db with a clock frozen at FixedNow.
func NewTestSnapshotService(t *testing.T, db *sql.DB) *service.SnapshotService {
	t.Helper()

	return service.NewSnapshotService(
		repository.NewSnapshotRepository(db),
		NewTestPortfolioService(t, db),
		logging.NewSilentLogger(),
	).WithClock(fixedClock)
}

// NewTestSystemService creates a SystemService over db.
func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()
	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakePortfolioName generates a unique portfolio name for testing.
//
// Example usage:
//
//	name := testutil.MakePortfolioName("MyPortfolio")
//	// Returns: "MyPortfolio ABC123"
func MakePortfolioName(base string) string {
	if base == "" {
		base = "Portfolio"
	}
	return base + " " + randomAlphanumeric(6)
}

// MakeAssetName generates a ticker-like asset name for testing.
//
// Example usage:
//
//	name := testutil.MakeAssetName("AAPL")
//	// Returns: "AAPL1A2B"
func MakeAssetName(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}

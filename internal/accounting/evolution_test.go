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

// TestGridStep tests the resolution chosen for a requested range.
//
// WHY: Intraday requests need a finer grid, while a full-history request on the
// hourly grid would produce an unusable number of points.
func TestGridStep(t *testing.T) {
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		end  time.Time
		want time.Duration
	}{
		{"12 hours", start.Add(12 * time.Hour), accounting.HourlyStep},
		{"exactly 24 hours", start.Add(24 * time.Hour), accounting.HourlyStep},
		{"just over a day", start.Add(24*time.Hour + time.Minute), accounting.DailyStep},
		{"90 days", start.AddDate(0, 0, 90), accounting.DailyStep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, accounting.GridStep(start, tt.end))
		})
	}
}

// TestBuildEvolutionSeries tests replaying contributions onto a time grid.
//
// WHY: The evolution chart is the only historical view of a portfolio. Points
// must reflect exactly the contributions made up to each tick, and the live
// end of the chart must use the newest known price.
func TestBuildEvolutionSeries(t *testing.T) {
	asOf := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

	t.Run("returns nil for empty input", func(t *testing.T) {
		series, err := accounting.BuildEvolutionSeries(nil, day(2024, 1, 1), day(2024, 2, 1), asOf)

		require.NoError(t, err)
		assert.Nil(t, series)
	})

	t.Run("rejects invalid contributions", func(t *testing.T) {
		contributions := []model.Contribution{
			buy("AAPL", time.Time{}, "1", "10"),
		}

		_, err := accounting.BuildEvolutionSeries(contributions, day(2024, 1, 1), day(2024, 2, 1), asOf)

		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidContribution))
	})

	t.Run("90 day range uses a daily grid", func(t *testing.T) {
		contributions := []model.Contribution{
			buy("AAPL", day(2024, 1, 1), "1", "10"),
		}
		start := day(2024, 1, 1)
		end := start.AddDate(0, 0, 90)

		series, err := accounting.BuildEvolutionSeries(contributions, start, end, asOf)

		require.NoError(t, err)
		assert.Equal(t, accounting.DailyStep, series.Step)
		assert.Len(t, series.Points, 91)
		assert.Equal(t, "2024-01-01", series.Labels[0])
		assert.Equal(t, "2024-03-31", series.Labels[90])
	})

	t.Run("12 hour range uses a 2 hour grid", func(t *testing.T) {
		start := time.Date(2024, 6, 30, 6, 30, 0, 0, time.UTC)
		end := start.Add(12 * time.Hour)
		contributions := []model.Contribution{
			buy("AAPL", time.Date(2024, 6, 30, 9, 15, 0, 0, time.UTC), "2", "20"),
		}

		series, err := accounting.BuildEvolutionSeries(contributions, start, end, asOf)

		require.NoError(t, err)
		assert.Equal(t, accounting.HourlyStep, series.Step)
		// 06:00 through 18:00
		require.Len(t, series.Points, 7)
		assert.Equal(t, "2024-06-30 06:00", series.Labels[0])
		assert.Equal(t, "2024-06-30 18:00", series.Labels[6])
		// The buy at 09:15 lands in the 08:00 bucket.
		assertDecimal(t, "invested@06", "0", series.Invested[0])
		assertDecimal(t, "invested@08", "20", series.Invested[1])
	})

	t.Run("parallel arrays match points", func(t *testing.T) {
		contributions := []model.Contribution{
			buy("AAPL", day(2024, 1, 2), "1", "10"),
		}

		series, err := accounting.BuildEvolutionSeries(contributions, day(2024, 1, 1), day(2024, 1, 5), asOf)

		require.NoError(t, err)
		require.Len(t, series.Labels, len(series.Points))
		require.Len(t, series.Invested, len(series.Points))
		require.Len(t, series.Current, len(series.Points))
		for i, p := range series.Points {
			assert.Equal(t, p.Label, series.Labels[i])
			assert.True(t, p.InvestedValue.Equal(series.Invested[i]))
			assert.True(t, p.CurrentValue.Equal(series.Current[i]))
		}
	})

	t.Run("swaps a reversed range", func(t *testing.T) {
		contributions := []model.Contribution{
			buy("AAPL", day(2024, 1, 1), "1", "10"),
		}

		series, err := accounting.BuildEvolutionSeries(contributions, day(2024, 1, 10), day(2024, 1, 1), asOf)

		require.NoError(t, err)
		assert.Len(t, series.Points, 10)
		assert.Equal(t, "2024-01-01", series.Labels[0])
	})

	t.Run("zero start falls back to the first contribution and zero end to asOf", func(t *testing.T) {
		contributions := []model.Contribution{
			buy("AAPL", day(2024, 3, 1), "1", "20"),
			buy("AAPL", day(2024, 1, 1), "1", "10"),
		}

		series, err := accounting.BuildEvolutionSeries(contributions, time.Time{}, time.Time{}, asOf)

		require.NoError(t, err)
		assert.Equal(t, accounting.DailyStep, series.Step)
		require.Len(t, series.Points, 182)
		assert.Equal(t, "2024-01-01", series.Labels[0])
		assert.Equal(t, "2024-06-30", series.Labels[181])
		assertDecimal(t, "first day", "10", series.Invested[0])
		assertDecimal(t, "last day", "30", series.Invested[181])
	})

	t.Run("zero start with an end before the first contribution", func(t *testing.T) {
		contributions := []model.Contribution{
			buy("AAPL", day(2024, 3, 1), "1", "20"),
		}

		series, err := accounting.BuildEvolutionSeries(contributions, time.Time{}, day(2024, 2, 1), asOf)

		require.NoError(t, err)
		require.Len(t, series.Points, 1)
		assertDecimal(t, "invested", "0", series.Invested[0])
	})

	t.Run("rejects a grid longer than MaxEvolutionPoints", func(t *testing.T) {
		contributions := []model.Contribution{
			buy("AAPL", day(2024, 1, 1), "1", "10"),
		}
		start := time.Date(1, 1, 2, 0, 0, 0, 0, time.UTC)
		end := time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

		series, err := accounting.BuildEvolutionSeries(contributions, start, end, asOf)

		assert.Nil(t, series)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidDateRange), "got %v", err)
	})

	t.Run("accepts a grid of exactly MaxEvolutionPoints", func(t *testing.T) {
		contributions := []model.Contribution{
			buy("AAPL", day(2024, 1, 1), "1", "10"),
		}
		start := day(2000, 1, 1)
		end := start.AddDate(0, 0, accounting.MaxEvolutionPoints-1)

		series, err := accounting.BuildEvolutionSeries(contributions, start, end, asOf)

		require.NoError(t, err)
		assert.Len(t, series.Points, accounting.MaxEvolutionPoints)
	})

	t.Run("sells reduce invested value by FIFO cost", func(t *testing.T) {
		contributions := []model.Contribution{
			buy("AAPL", day(2024, 1, 1), "10", "100"),
			buy("AAPL", day(2024, 1, 2), "10", "120"),
			sell("AAPL", day(2024, 1, 3), "15", "210", "5"),
		}

		series, err := accounting.BuildEvolutionSeries(contributions, day(2024, 1, 1), day(2024, 1, 4), asOf)

		require.NoError(t, err)
		assertDecimal(t, "day1", "100", series.Invested[0])
		assertDecimal(t, "day2", "220", series.Invested[1])
		assertDecimal(t, "day3", "60", series.Invested[2])
		assertDecimal(t, "day4", "60", series.Invested[3])
	})

	t.Run("values at cost until a market price is seen", func(t *testing.T) {
		contributions := []model.Contribution{
			buy("AAPL", day(2024, 1, 1), "10", "100"),
			withPrice(buy("AAPL", day(2024, 1, 3), "10", "100"), "15"),
		}

		series, err := accounting.BuildEvolutionSeries(contributions, day(2024, 1, 1), day(2024, 1, 5), asOf)

		require.NoError(t, err)
		assertDecimal(t, "day1 current", "100", series.Current[0])
		assert.Equal(t, 1, series.Points[0].CostProxyAssets)
		assertDecimal(t, "day3 current", "300", series.Current[2])
		assert.Equal(t, 0, series.Points[2].CostProxyAssets)
	})

	t.Run("final tick refreshes to the newest known price", func(t *testing.T) {
		// The price arrives on a contribution dated after the requested range.
		contributions := []model.Contribution{
			buy("AAPL", day(2024, 1, 1), "10", "100"),
			withPrice(buy("AAPL", day(2024, 2, 1), "1", "10"), "20"),
		}

		series, err := accounting.BuildEvolutionSeries(contributions, day(2024, 1, 1), day(2024, 1, 3), asOf)

		require.NoError(t, err)
		require.Len(t, series.Points, 3)
		assertDecimal(t, "day1 current", "100", series.Current[0])
		assertDecimal(t, "day2 current", "100", series.Current[1])
		assertDecimal(t, "final current", "200", series.Current[2])
		assertDecimal(t, "final invested", "100", series.Invested[2])
	})

	t.Run("tick containing asOf refreshes to the newest known price", func(t *testing.T) {
		contributions := []model.Contribution{
			buy("AAPL", day(2024, 1, 1), "10", "100"),
			withPrice(buy("AAPL", day(2024, 1, 9), "1", "10"), "20"),
		}
		now := time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)

		series, err := accounting.BuildEvolutionSeries(contributions, day(2024, 1, 1), day(2024, 1, 4), now)

		require.NoError(t, err)
		assertDecimal(t, "day1 current", "100", series.Current[0])
		assertDecimal(t, "asOf day current", "200", series.Current[1])
		assertDecimal(t, "day3 current", "100", series.Current[2])
	})

	t.Run("sums several assets", func(t *testing.T) {
		btc := buy("BTC", day(2024, 1, 2), "0.5", "15000")
		btc.Category = model.CategoryCrypto
		contributions := []model.Contribution{
			withPrice(buy("AAPL", day(2024, 1, 1), "10", "100"), "11"),
			withPrice(btc, "40000"),
		}

		series, err := accounting.BuildEvolutionSeries(contributions, day(2024, 1, 1), day(2024, 1, 2), asOf)

		require.NoError(t, err)
		assertDecimal(t, "day1 invested", "100", series.Invested[0])
		assertDecimal(t, "day1 current", "110", series.Current[0])
		assertDecimal(t, "day2 invested", "15100", series.Invested[1])
		assertDecimal(t, "day2 current", "20110", series.Current[1])
	})

	t.Run("does not mutate input", func(t *testing.T) {
		contributions := []model.Contribution{
			buy("AAPL", day(2024, 1, 3), "1", "10"),
			buy("AAPL", day(2024, 1, 1), "1", "10"),
		}
		original := make([]model.Contribution, len(contributions))
		copy(original, contributions)

		_, err := accounting.BuildEvolutionSeries(contributions, day(2024, 1, 1), day(2024, 1, 5), asOf)

		require.NoError(t, err)
		assert.Equal(t, original, contributions)
	})
}

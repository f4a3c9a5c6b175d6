package accounting

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/portfolio-tracker/internal/apperrors"
	"github.com/ndewijer/portfolio-tracker/internal/model"
)

// Grid steps used by BuildEvolutionSeries.
const (
	HourlyStep = 2 * time.Hour
	DailyStep  = 24 * time.Hour

	// intradayWindow is the longest range rendered on the hourly grid.
	intradayWindow = 24 * time.Hour

	// MaxEvolutionPoints bounds the grid of a single series, a little over
	// 27 years of daily ticks.
	MaxEvolutionPoints = 10000

	dailyLabelLayout  = "2006-01-02"
	hourlyLabelLayout = "2006-01-02 15:04"
)

// PriceSource tells where the unit price used to value an open position came from.
type PriceSource string

const (
	// PriceSourceMarket means a currentPrice attached to a contribution was used.
	PriceSourceMarket PriceSource = "market"
	// PriceSourceCostProxy means no market price was known and the average
	// cost of the open lots stood in for it.
	PriceSourceCostProxy PriceSource = "cost_proxy"
)

// EvolutionPoint is the aggregate invested cost and market value at one grid tick.
type EvolutionPoint struct {
	Timestamp     time.Time       `json:"timestamp"`
	Label         string          `json:"label"`
	InvestedValue decimal.Decimal `json:"investedValue"`
	CurrentValue  decimal.Decimal `json:"currentValue"`
	// CostProxyAssets counts the open assets valued at cost because no market price was known yet.
	CostProxyAssets int `json:"costProxyAssets"`
}

// EvolutionSeries is the reconstructed history in a chart-ready layout.
// Labels, Invested and Current are parallel to Points.
type EvolutionSeries struct {
	Step     time.Duration     `json:"step"`
	Points   []EvolutionPoint  `json:"points"`
	Labels   []string          `json:"labels"`
	Invested []decimal.Decimal `json:"invested"`
	Current  []decimal.Decimal `json:"current"`
}

// Floats returns the invested and current series as float64 for plotting.
func (s *EvolutionSeries) Floats() (invested, current []float64) {
	invested = make([]float64, len(s.Invested))
	current = make([]float64, len(s.Current))
	for i := range s.Invested {
		invested[i] = s.Invested[i].InexactFloat64()
		current[i] = s.Current[i].InexactFloat64()
	}
	return invested, current
}

// GridStep returns the tick spacing for a range: two hours for ranges of at
// most a day, one day otherwise.
func GridStep(start, end time.Time) time.Duration {
	if end.Sub(start) <= intradayWindow {
		return HourlyStep
	}
	return DailyStep
}

// assetState is the replay state of one asset inside BuildEvolutionSeries.
type assetState struct {
	lots        lotQueue
	lastPrice   *decimal.Decimal // latest currentPrice consumed so far
	latestPrice *decimal.Decimal // latest currentPrice across all contributions
}

// value returns the open quantity, its cost and its market value.
// When refresh is set the latest price across all contributions is used
// instead of the latest price replayed so far.
func (a *assetState) value(refresh bool) (qty, cost, current decimal.Decimal, source PriceSource) {
	qty = a.lots.quantity()
	cost = a.lots.costBasis()

	price := a.lastPrice
	if refresh && a.latestPrice != nil {
		price = a.latestPrice
	}
	if price != nil {
		return qty, cost, qty.Mul(*price), PriceSourceMarket
	}
	return qty, cost, cost, PriceSourceCostProxy
}

// BuildEvolutionSeries replays contributions across all assets and samples the
// aggregate invested cost and market value on a regular grid.
//
// Ranges of 24 hours or less are sampled every two hours starting at the hour
// of start; longer ranges are sampled daily from midnight of start through the
// day of end. A zero start falls back to the earliest contribution date and a
// zero end to asOf; a reversed range is swapped. A grid of more than
// MaxEvolutionPoints ticks is rejected with apperrors.ErrInvalidDateRange.
//
// Each tick owns the bucket [tick, tick+step). Before a tick is evaluated,
// every contribution dated before the end of its bucket is applied to that
// asset's FIFO lots. Open assets then add their remaining cost basis to the
// invested value and their quantity times the effective price to the current
// value. The effective price is the latest currentPrice replayed so far, or the
// average cost of the open lots when none was seen (PriceSourceCostProxy).
//
// On the final tick, and on the tick whose bucket contains asOf, each asset is
// priced with the most recent currentPrice across all of its contributions, so
// the live end of the chart reflects the newest known valuation.
//
// Parameters:
//   - contributions: records for any number of assets, in any order
//   - start, end: requested range, inclusive
//   - asOf: the caller's notion of "now"; never read from the clock here
//
// Returns nil when contributions is empty, or an *InvalidContributionError when
// a record fails validation.
func BuildEvolutionSeries(contributions []model.Contribution, start, end, asOf time.Time) (*EvolutionSeries, error) {
	if len(contributions) == 0 {
		return nil, nil
	}
	if err := ValidateContributions(contributions); err != nil {
		return nil, err
	}

	sorted := sortedByDate(contributions)

	if end.IsZero() {
		end = asOf
	}
	if start.IsZero() {
		start = sorted[0].ContributionDate
		if start.After(end) {
			start = end
		}
	}
	if start.After(end) {
		start, end = end, start
	}

	// Assets keep their first-appearance order so every tick sums them identically.
	states := make(map[model.AssetKey]*assetState)
	var order []model.AssetKey
	for _, c := range sorted {
		key := c.Key()
		st, ok := states[key]
		if !ok {
			st = &assetState{}
			states[key] = st
			order = append(order, key)
		}
		if c.CurrentPrice != nil {
			price := *c.CurrentPrice
			st.latestPrice = &price
		}
	}

	step := GridStep(start, end)
	ticks, err := gridTicks(start, end, step)
	if err != nil {
		return nil, err
	}
	layout := dailyLabelLayout
	if step == HourlyStep {
		layout = hourlyLabelLayout
	}

	series := &EvolutionSeries{
		Step:     step,
		Points:   make([]EvolutionPoint, 0, len(ticks)),
		Labels:   make([]string, 0, len(ticks)),
		Invested: make([]decimal.Decimal, 0, len(ticks)),
		Current:  make([]decimal.Decimal, 0, len(ticks)),
	}

	cursor := 0
	for i, tick := range ticks {
		bucketEnd := nextTick(tick, step)

		for cursor < len(sorted) && sorted[cursor].ContributionDate.Before(bucketEnd) {
			c := sorted[cursor]
			st := states[c.Key()]
			st.lots.apply(c)
			if c.CurrentPrice != nil {
				price := *c.CurrentPrice
				st.lastPrice = &price
			}
			cursor++
		}

		refresh := i == len(ticks)-1 || (!asOf.Before(tick) && asOf.Before(bucketEnd))

		point := EvolutionPoint{
			Timestamp:     tick,
			Label:         tick.Format(layout),
			InvestedValue: decimal.Zero,
			CurrentValue:  decimal.Zero,
		}
		for _, key := range order {
			qty, cost, current, source := states[key].value(refresh)
			if !qty.IsPositive() {
				continue
			}
			point.InvestedValue = point.InvestedValue.Add(cost)
			point.CurrentValue = point.CurrentValue.Add(current)
			if source == PriceSourceCostProxy {
				point.CostProxyAssets++
			}
		}

		series.Points = append(series.Points, point)
		series.Labels = append(series.Labels, point.Label)
		series.Invested = append(series.Invested, point.InvestedValue)
		series.Current = append(series.Current, point.CurrentValue)
	}

	return series, nil
}

// gridTicks lays out the tick timestamps for [start, end].
// Ticks are built from calendar fields in start's location so daylight saving
// changes do not shift midnight or the hour boundary.
func gridTicks(start, end time.Time, step time.Duration) ([]time.Time, error) {
	loc := start.Location()
	var first, last time.Time
	if step == HourlyStep {
		first = time.Date(start.Year(), start.Month(), start.Day(), start.Hour(), 0, 0, 0, loc)
		last = end
	} else {
		first = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
		e := end.In(loc)
		last = time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, loc)
	}

	var ticks []time.Time
	for t := first; !t.After(last); t = nextTick(t, step) {
		if len(ticks) == MaxEvolutionPoints {
			return nil, fmt.Errorf("%w: %s to %s needs more than %d points",
				apperrors.ErrInvalidDateRange, start.Format(dailyLabelLayout), end.Format(dailyLabelLayout), MaxEvolutionPoints)
		}
		ticks = append(ticks, t)
	}
	return ticks, nil
}

func nextTick(t time.Time, step time.Duration) time.Time {
	if step == DailyStep {
		return t.AddDate(0, 0, 1)
	}
	return t.Add(step)
}

// Package accounting turns buy/sell contribution records into FIFO-matched
// holding statistics, a reconstructed evolution series and portfolio totals.
//
// Everything in this package is a pure function of its input: no I/O, no
// clock reads and no state shared between calls. Lot queues are built fresh on
// every invocation and never escape the call that owns them.
package accounting

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/portfolio-tracker/internal/model"
)

// lot is an open batch of acquired quantity.
// The total cost is stored instead of a unit cost so that repeated partial
// draws never lose value to rounding: a full draw always takes whatever cost
// is left on the lot.
type lot struct {
	quantity decimal.Decimal // always > 0 while queued
	cost     decimal.Decimal // always >= 0
}

// lotQueue is the FIFO queue of open lots for a single asset.
type lotQueue struct {
	lots []lot
}

// drawResult describes what a single sell consumed from the queue.
type drawResult struct {
	matched   decimal.Decimal // quantity taken from open lots
	costBasis decimal.Decimal // cost attributed to the matched quantity
	unmatched decimal.Decimal // quantity the queue could not cover
}

// buy pushes a new lot to the back of the queue.
// Zero or negative quantities are ignored.
func (q *lotQueue) buy(quantity, grossAmount decimal.Decimal) {
	if !quantity.IsPositive() {
		return
	}
	q.lots = append(q.lots, lot{quantity: quantity, cost: grossAmount})
}

// sell draws quantity from the front of the queue, oldest lot first.
// A lot that reaches zero is removed. If the queue empties before the requested
// quantity is covered, the remainder is reported as unmatched.
func (q *lotQueue) sell(quantity decimal.Decimal) drawResult {
	remaining := quantity.Abs()
	res := drawResult{
		matched:   decimal.Zero,
		costBasis: decimal.Zero,
	}

	for remaining.IsPositive() && len(q.lots) > 0 {
		front := &q.lots[0]
		matched := decimal.Min(remaining, front.quantity)

		var cost decimal.Decimal
		if matched.Equal(front.quantity) {
			cost = front.cost
		} else {
			cost = front.cost.Mul(matched).Div(front.quantity)
		}

		res.matched = res.matched.Add(matched)
		res.costBasis = res.costBasis.Add(cost)
		remaining = remaining.Sub(matched)

		front.quantity = front.quantity.Sub(matched)
		front.cost = front.cost.Sub(cost)
		if !front.quantity.IsPositive() {
			q.lots = q.lots[1:]
		}
	}

	res.unmatched = remaining
	return res
}

// apply routes a contribution to buy or sell. Zero quantities are skipped.
func (q *lotQueue) apply(c model.Contribution) drawResult {
	switch {
	case c.IsBuy():
		q.buy(c.Quantity, c.GrossAmount)
	case c.IsSell():
		return q.sell(c.Quantity)
	}
	return drawResult{matched: decimal.Zero, costBasis: decimal.Zero, unmatched: decimal.Zero}
}

// quantity returns the open quantity across all lots.
func (q *lotQueue) quantity() decimal.Decimal {
	total := decimal.Zero
	for _, l := range q.lots {
		total = total.Add(l.quantity)
	}
	return total
}

// costBasis returns the total cost of all open lots.
func (q *lotQueue) costBasis() decimal.Decimal {
	total := decimal.Zero
	for _, l := range q.lots {
		total = total.Add(l.cost)
	}
	return total
}

// sortedByDate returns a copy of contributions ordered by date.
// Equal dates keep their original relative order. The input slice is not modified.
func sortedByDate(contributions []model.Contribution) []model.Contribution {
	sorted := make([]model.Contribution, len(contributions))
	copy(sorted, contributions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ContributionDate.Before(sorted[j].ContributionDate)
	})
	return sorted
}

// safeDiv returns num/den, or zero when den is zero.
func safeDiv(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den)
}

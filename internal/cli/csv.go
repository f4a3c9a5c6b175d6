// Package cli implements the portfolioctl subcommands. They run the accounting
// engine over a contributions CSV without a database.
package cli

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/portfolio-tracker/internal/model"
)

// csvColumns is the expected column order of a contributions file.
var csvColumns = []string{"category", "asset", "quantity", "date", "gross", "fee", "price"}

// ReadContributions parses a contributions CSV.
//
// Columns are category, asset, quantity, date, gross, fee and price. A header
// row naming them is optional. Lines starting with # are ignored. Quantity is
// signed (negative sells), fee may be empty for zero, and price may be empty
// when no market price is known. Dates are YYYY-MM-DD or RFC3339.
//
// Parse errors report the 1-based line number. Records are not validated for
// accounting use here; the engine does that.
func ReadContributions(r io.Reader) ([]model.Contribution, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = len(csvColumns)
	reader.TrimLeadingSpace = true

	var contributions []model.Contribution
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read contributions: %w", err)
		}

		line, _ := reader.FieldPos(0)
		if len(contributions) == 0 && isHeader(record) {
			continue
		}

		c, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		contributions = append(contributions, c)
	}

	return contributions, nil
}

func isHeader(record []string) bool {
	return strings.EqualFold(strings.TrimSpace(record[0]), csvColumns[0])
}

func parseRecord(record []string) (model.Contribution, error) {
	field := func(i int) string { return strings.TrimSpace(record[i]) }

	c := model.Contribution{
		Category:  model.Category(strings.ToUpper(field(0))),
		AssetName: field(1),
	}

	var err error
	if c.Quantity, err = decimal.NewFromString(field(2)); err != nil {
		return c, fmt.Errorf("invalid quantity %q", field(2))
	}
	if c.ContributionDate, err = parseDate(field(3)); err != nil {
		return c, err
	}
	if c.GrossAmount, err = decimal.NewFromString(field(4)); err != nil {
		return c, fmt.Errorf("invalid gross amount %q", field(4))
	}

	c.BrokerageFee = decimal.Zero
	if fee := field(5); fee != "" {
		if c.BrokerageFee, err = decimal.NewFromString(fee); err != nil {
			return c, fmt.Errorf("invalid fee %q", fee)
		}
	}

	if price := field(6); price != "" {
		p, err := decimal.NewFromString(price)
		if err != nil {
			return c, fmt.Errorf("invalid price %q", price)
		}
		c.CurrentPrice = &p
	}

	return c, nil
}

// parseDate accepts YYYY-MM-DD and RFC3339 and returns UTC.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD or RFC3339", s)
}

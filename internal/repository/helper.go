package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/portfolio-tracker/internal/apperrors"
)

// dbTimeLayout is the stored timestamp format. Values are always UTC so the
// text sorts chronologically.
const dbTimeLayout = "2006-01-02 15:04:05"

// dbDateLayout is the stored format of day-precision columns.
const dbDateLayout = "2006-01-02"

// FormatTime renders a timestamp in the stored format.
func FormatTime(t time.Time) string {
	return t.UTC().Format(dbTimeLayout)
}

// ParseTime parses a stored timestamp. It accepts the stored layout as well as
// "2006-01-02" and RFC3339 so older rows and driver conversions still load.
func ParseTime(str string) (time.Time, error) {
	for _, layout := range []string{dbTimeLayout, dbDateLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, str); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse date %q", str)
}

// parseDecimal parses a stored decimal column.
// A value that no longer parses is reported as a data inconsistency.
func parseDecimal(column, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: column %s holds %q: %v", apperrors.ErrDataInconsistency, column, value, err)
	}
	return d, nil
}

// parseNullDecimal parses an optional stored decimal column.
func parseNullDecimal(column string, value sql.NullString) (*decimal.Decimal, error) {
	if !value.Valid {
		return nil, nil
	}
	d, err := parseDecimal(column, value.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// nullDecimal converts an optional decimal to a value the driver can store.
func nullDecimal(d *decimal.Decimal) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

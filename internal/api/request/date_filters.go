package request

import (
	"fmt"
	"time"
)

// DateRange is an optional start and end date taken from query parameters.
// A zero value means the parameter was not supplied.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange extracts start_date and end_date query values.
// Both are optional and accept YYYY-MM-DD or RFC3339. Times are converted to UTC.
//
// An end date given as a plain day is moved to the end of that day, so
// "end_date=2024-01-31" includes everything recorded on the 31st.
//
// Ordering is not checked here: the evolution builder swaps a reversed range
// and the snapshot listing rejects it.
func ParseDateRange(startParam, endParam string) (DateRange, error) {
	var r DateRange

	if startParam != "" {
		start, _, err := parseFilterTime(startParam)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid start_date format: %w", err)
		}
		r.Start = start
	}

	if endParam != "" {
		end, dayOnly, err := parseFilterTime(endParam)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid end_date format: %w", err)
		}
		if dayOnly {
			end = end.Add(24*time.Hour - time.Second)
		}
		r.End = end
	}

	return r, nil
}

// ParseDate parses a single YYYY-MM-DD or RFC3339 value as UTC.
func ParseDate(str string) (time.Time, error) {
	t, _, err := parseFilterTime(str)
	return t, err
}

// parseFilterTime parses date strings for query and body parameters.
// Accepts YYYY-MM-DD, RFC3339, and RFC3339 with milliseconds formats and
// reports whether the value carried a date only.
func parseFilterTime(str string) (time.Time, bool, error) {
	if t, err := time.Parse("2006-01-02", str); err == nil {
		return t.UTC(), true, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05.000Z07:00"} {
		if t, err := time.Parse(layout, str); err == nil {
			return t.UTC(), false, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("cannot parse %q as a date or datetime", str)
}

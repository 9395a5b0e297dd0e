package core

import (
	"fmt"
	"time"
)

// Granularity is the time-bucket width used when aggregating amounts
// into a chartable series.
type Granularity string

const (
	ByDay   Granularity = "day"
	ByMonth Granularity = "month"
	ByYear  Granularity = "year"
)

// Date is a calendar day in ISO "YYYY-MM-DD" form. Zero-padded ISO dates
// compare chronologically under plain string comparison, which the feed
// and aggregator rely on.
type Date string

const dateLayout = "2006-01-02"

// ParseDate validates s as an ISO calendar day.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrValidation, s)
	}
	// time.Parse normalizes out-of-range days (2024-02-31 -> 2024-03-02),
	// reject anything that does not round-trip.
	if t.Format(dateLayout) != s {
		return "", fmt.Errorf("%w: date %q is not a calendar day", ErrValidation, s)
	}
	return Date(s), nil
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) Date {
	return Date(t.UTC().Format(dateLayout))
}

// Today returns the current calendar day in UTC.
func Today() Date {
	return DateOf(time.Now())
}

func (d Date) String() string { return string(d) }

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool { return d == "" }

// Validate checks that the date is a well-formed calendar day.
func (d Date) Validate() error {
	_, err := ParseDate(string(d))
	return err
}

func (d Date) parts() (year int, month time.Month, day int) {
	t, _ := time.Parse(dateLayout, string(d))
	return t.Date()
}

// Time returns the date at midnight UTC.
func (d Date) Time() time.Time {
	t, _ := time.Parse(dateLayout, string(d))
	return t
}

// lastDayOfMonth returns the number of days in the given month.
func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths shifts the date by n calendar months. The day of month is
// clamped to the last valid day of the target month, so 2024-01-31 plus
// one month is 2024-02-29 rather than spilling into March.
func (d Date) AddMonths(n int) Date {
	year, month, day := d.parts()
	total := year*12 + int(month) - 1 + n
	ty, tm := total/12, time.Month(total%12+1)
	if last := lastDayOfMonth(ty, tm); day > last {
		day = last
	}
	return Date(time.Date(ty, tm, day, 0, 0, 0, 0, time.UTC).Format(dateLayout))
}

// BucketKey truncates the date into an aggregation key for the given
// granularity. Keys are ISO prefixes and therefore sort chronologically.
func (d Date) BucketKey(g Granularity) string {
	switch g {
	case ByYear:
		return string(d)[:4]
	case ByMonth:
		return string(d)[:7]
	default:
		return string(d)
	}
}

// BucketLabel reformats an aggregation key for chart display:
// day -> "DD/MM", month -> "MM/YYYY", year -> "YYYY".
func BucketLabel(key string, g Granularity) string {
	switch g {
	case ByYear:
		return key
	case ByMonth:
		return key[5:7] + "/" + key[0:4]
	default:
		return key[8:10] + "/" + key[5:7]
	}
}

// InRange reports whether the date falls within [from, to]. A zero bound
// leaves that side open.
func (d Date) InRange(from, to Date) bool {
	if !from.IsZero() && d < from {
		return false
	}
	if !to.IsZero() && d > to {
		return false
	}
	return true
}

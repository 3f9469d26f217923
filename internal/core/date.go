package core

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Accepted input date shapes. Anything else is rejected and the row dropped.
var (
	reMonthFirst = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	reYearFirst  = regexp.MustCompile(`^(\d{4})[-/](\d{2})[-/](\d{2})$`)
	reNormalized = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// NormalizeDate converts MM/DD/YYYY, YYYY-MM-DD or YYYY/MM/DD to the
// canonical YYYY-MM-DD form. It does not validate calendar plausibility
// beyond the shape; "2025-13-40" would round-trip, matching the storage
// format's string bucketing.
func NormalizeDate(s string) (string, error) {
	if m := reMonthFirst.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		return fmt.Sprintf("%s-%02d-%02d", m[3], month, day), nil
	}
	if m := reYearFirst.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3]), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// IsNormalizedDate reports whether s is already in YYYY-MM-DD form.
func IsNormalizedDate(s string) bool {
	return reNormalized.MatchString(s)
}

// MonthKey returns the YYYY-MM bucket of a normalized date.
func MonthKey(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

// MonthKeyOf formats a time as a YYYY-MM month key.
func MonthKeyOf(t time.Time) string {
	return t.Format("2006-01")
}

// PrevMonthKey returns the month key immediately before the given one.
// An unparsable key is returned unchanged.
func PrevMonthKey(monthKey string) string {
	t, err := time.Parse("2006-01", monthKey)
	if err != nil {
		return monthKey
	}
	return t.AddDate(0, -1, 0).Format("2006-01")
}

// ValidMonthKey reports whether s parses as YYYY-MM.
func ValidMonthKey(s string) bool {
	_, err := time.Parse("2006-01", s)
	return err == nil
}

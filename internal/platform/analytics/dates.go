package analytics

import (
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

var dateLayouts = []string{
	dayLayout,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

// ParseDate accepts the date and timestamp shapes stored by the clinic.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// MonthKey buckets a date-like string as YYYY-MM, or Unknown.
func MonthKey(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return Unknown
	}
	return MonthOf(t)
}

// MonthOf buckets t as YYYY-MM. The zero time is Unknown.
func MonthOf(t time.Time) string {
	if t.IsZero() {
		return Unknown
	}
	return t.Format("2006-01")
}

// DayKey buckets t as YYYY-MM-DD in t's own location. The zero time is Unknown.
func DayKey(t time.Time) string {
	if t.IsZero() {
		return Unknown
	}
	return t.Format(dayLayout)
}

// AgeInYears counts completed birthdays between dob and asOf.
func AgeInYears(dob, asOf time.Time) int {
	age := asOf.Year() - dob.Year()
	if asOf.Month() < dob.Month() || (asOf.Month() == dob.Month() && asOf.Day() < dob.Day()) {
		age--
	}
	return age
}

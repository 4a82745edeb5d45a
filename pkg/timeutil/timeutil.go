// Package timeutil provides date formatting and human-readable relative time
// labels used by activity feeds and achievement records.
package timeutil

import (
	"fmt"
	"time"
)

// Date layouts used across the stores.
const (
	FormatDate     = "2006-01-02"
	FormatDateTime = "2006-01-02 15:04"
)

// JustNow is the label attached to freshly recorded activities.
const JustNow = "Just now"

// Clock returns the current time. Stores take a Clock so tests can pin time.
type Clock func() time.Time

// SystemClock is the wall-clock Clock.
func SystemClock() time.Time {
	return time.Now()
}

// FormatDateStr formats a time as a date string (YYYY-MM-DD).
func FormatDateStr(t time.Time) string {
	return t.Format(FormatDate)
}

// ParseDate parses a date string (YYYY-MM-DD) in UTC.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(FormatDate, value, time.UTC)
}

// StartOfDay returns midnight of the day containing t, in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of whole calendar days from t1 to t2.
func DaysBetween(t1, t2 time.Time) int {
	d := StartOfDay(t2).Sub(StartOfDay(t1))
	return int(d.Hours() / 24)
}

// FormatRelative returns a human-readable label for t relative to now,
// e.g. "Just now", "5 minutes ago", "yesterday".
func FormatRelative(t, now time.Time) string {
	d := now.Sub(t)
	if d < 0 {
		return formatFutureDuration(-d)
	}
	return formatPastDuration(d)
}

func formatPastDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return JustNow
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute") + " ago"
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour") + " ago"
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "yesterday"
		}
		return plural(days, "day") + " ago"
	case d < 30*24*time.Hour:
		return plural(int(d.Hours()/24/7), "week") + " ago"
	default:
		months := int(d.Hours() / 24 / 30)
		if months < 12 {
			return plural(months, "month") + " ago"
		}
		return plural(months/12, "year") + " ago"
	}
}

func formatFutureDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return JustNow
	case d < time.Hour:
		return "in " + plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return "in " + plural(int(d.Hours()), "hour")
	default:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "tomorrow"
		}
		return "in " + plural(days, "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRelative(t *testing.T) {
	now := time.Date(2024, 7, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{"seconds", 20 * time.Second, JustNow},
		{"one minute", time.Minute, "1 minute ago"},
		{"minutes", 5 * time.Minute, "5 minutes ago"},
		{"hours", 2 * time.Hour, "2 hours ago"},
		{"yesterday", 30 * time.Hour, "yesterday"},
		{"days", 3 * 24 * time.Hour, "3 days ago"},
		{"weeks", 15 * 24 * time.Hour, "2 weeks ago"},
		{"months", 65 * 24 * time.Hour, "2 months ago"},
		{"years", 800 * 24 * time.Hour, "2 years ago"},
		{"soon", -10 * time.Minute, "in 10 minutes"},
		{"tomorrow", -25 * time.Hour, "tomorrow"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRelative(now.Add(-tt.ago), now))
		})
	}
}

func TestDates(t *testing.T) {
	d, err := ParseDate("2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", FormatDateStr(d))

	_, err = ParseDate("15/01/2024")
	assert.Error(t, err)

	late := time.Date(2024, 1, 16, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysBetween(d, late))
	assert.Equal(t, d, StartOfDay(d.Add(7*time.Hour)))
}

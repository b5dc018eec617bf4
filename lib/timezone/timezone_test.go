package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStartOfWeek(t *testing.T) {
	cases := []struct {
		now    time.Time
		expect time.Time
	}{
		{
			now:    time.Date(2024, time.August, 26, 0, 0, 0, 0, Location),
			expect: time.Date(2024, time.August, 26, 0, 0, 0, 0, Location),
		},
		{
			now:    time.Date(2024, time.August, 28, 13, 45, 0, 0, Location),
			expect: time.Date(2024, time.August, 26, 0, 0, 0, 0, Location),
		},
		{
			now:    time.Date(2024, time.September, 1, 0, 0, 0, 0, Location),
			expect: time.Date(2024, time.August, 26, 0, 0, 0, 0, Location),
		},
		{
			now:    time.Date(2024, time.September, 2, 0, 0, 0, 0, Location),
			expect: time.Date(2024, time.September, 2, 0, 0, 0, 0, Location),
		},
	}

	for _, test := range cases {
		require.Equal(t, test.expect, StartOfWeek(test.now))
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, time.March, 1, 0, 0, 0, 0, Location)
	b := time.Date(2024, time.March, 8, 23, 0, 0, 0, Location)
	require.Equal(t, 7, DaysBetween(a, b))
	require.Equal(t, -7, DaysBetween(b, a))
	require.Equal(t, 0, DaysBetween(a, a))
}

func TestWeeksBetween(t *testing.T) {
	a := time.Date(2024, time.September, 2, 0, 0, 0, 0, Location)
	require.Equal(t, 0, WeeksBetween(a, a.AddDate(0, 0, 6)))
	require.Equal(t, 1, WeeksBetween(a, a.AddDate(0, 0, 7)))
	require.Equal(t, 3, WeeksBetween(a, a.AddDate(0, 0, 25)))
}

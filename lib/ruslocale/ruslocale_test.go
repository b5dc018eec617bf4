package ruslocale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMonth(t *testing.T) {
	cases := []struct {
		in     string
		expect time.Month
		ok     bool
	}{
		{"января", time.January, true},
		{"Январь", time.January, true},
		{"декабря", time.December, true},
		{" ноября ", time.November, true},
		{"", 0, false},
		{"понедельник", 0, false},
	}
	for _, test := range cases {
		m, ok := Month(test.in)
		require.Equal(t, test.ok, ok, test.in)
		if ok {
			require.Equal(t, test.expect, m, test.in)
		}
	}
}

func TestWeekdayIn(t *testing.T) {
	d, ok := WeekdayIn("Понедельник, числитель")
	require.True(t, ok)
	require.Equal(t, time.Monday, d)

	d, ok = WeekdayIn("суббота")
	require.True(t, ok)
	require.Equal(t, time.Saturday, d)

	_, ok = WeekdayIn("12 ноября")
	require.False(t, ok)
}

func TestWeekdayOffset(t *testing.T) {
	require.Equal(t, 0, WeekdayOffset(time.Monday))
	require.Equal(t, 4, WeekdayOffset(time.Friday))
	require.Equal(t, 6, WeekdayOffset(time.Sunday))
}

func TestClock(t *testing.T) {
	hour, minute, err := Clock("09:00")
	require.NoError(t, err)
	require.Equal(t, 9, hour)
	require.Equal(t, 0, minute)

	hour, minute, err = Clock(" 10:30 ")
	require.NoError(t, err)
	require.Equal(t, 10, hour)
	require.Equal(t, 30, minute)

	_, _, err = Clock("25:00")
	require.Error(t, err)
	_, _, err = Clock("десять утра")
	require.Error(t, err)
}

func TestDate(t *testing.T) {
	loc := time.UTC
	d, err := Date("02.09.2024", loc)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, time.September, 2, 0, 0, 0, 0, loc), d)

	_, err = Date("2024-09-02", loc)
	require.Error(t, err)
}

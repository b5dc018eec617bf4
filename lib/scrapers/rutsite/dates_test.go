package rutsite

import (
	"testing"
	"time"
	"timetable-backend/lib/schedule"
	"timetable-backend/lib/timezone"

	"github.com/stretchr/testify/require"
)

func moscowDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, timezone.Location)
}

func TestResolveDateExplicit(t *testing.T) {
	today := moscowDate(2024, time.September, 2)

	d, err := resolveDate(dateHints{Explicit: "09.09.2024"}, today)
	require.NoError(t, err)
	require.Equal(t, moscowDate(2024, time.September, 9), d)

	// a malformed explicit date falls through to the next hint
	d, err = resolveDate(dateHints{Explicit: "not a date", ShortText: "9 сентября"}, today)
	require.NoError(t, err)
	require.Equal(t, moscowDate(2024, time.September, 9), d)
}

func TestResolveDateShortTextYearRollover(t *testing.T) {
	// a December date shown while browsing in spring is next year's
	d, err := resolveDate(dateHints{ShortText: "31 декабря"}, moscowDate(2024, time.March, 1))
	require.NoError(t, err)
	require.Equal(t, moscowDate(2025, time.December, 31), d)

	// a November date shown in November stays in the current year
	d, err = resolveDate(dateHints{ShortText: "12 ноября"}, moscowDate(2024, time.November, 1))
	require.NoError(t, err)
	require.Equal(t, moscowDate(2024, time.November, 12), d)
}

func TestResolveDateWeekPeriod(t *testing.T) {
	activeStart := moscowDate(2024, time.September, 2) // a Monday
	hints := dateHints{
		WeekdayText: "Среда, числитель",
		WeekID:      2,
		PeriodCount: 2,
		ActiveStart: activeStart,
		HasPeriod:   true,
	}

	// week 2 of the first two-week rotation cycle
	d, err := resolveDate(hints, moscowDate(2024, time.September, 3))
	require.NoError(t, err)
	require.Equal(t, moscowDate(2024, time.September, 11), d)

	// the next rotation cycle re-anchors two weeks later
	d, err = resolveDate(hints, moscowDate(2024, time.September, 17))
	require.NoError(t, err)
	require.Equal(t, moscowDate(2024, time.September, 25), d)
}

func TestResolveDateWeekPeriodIsPeriodic(t *testing.T) {
	hints := dateHints{
		WeekdayText: "пятница",
		WeekID:      1,
		PeriodCount: 2,
		ActiveStart: moscowDate(2024, time.September, 2),
		HasPeriod:   true,
	}

	// two reference days inside the same rotation cycle resolve
	// identically
	a, err := resolveDate(hints, moscowDate(2024, time.September, 3))
	require.NoError(t, err)
	b, err := resolveDate(hints, moscowDate(2024, time.September, 12))
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestResolveDateExhaustedHints(t *testing.T) {
	_, err := resolveDate(dateHints{ShortText: "ошибка"}, moscowDate(2024, time.September, 2))
	var parseErr *schedule.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParseShortDateMalformed(t *testing.T) {
	today := moscowDate(2024, time.September, 2)
	for _, s := range []string{"", "  ", "31", "тридцать декабря", "31 smarch"} {
		_, ok := parseShortDate(s, today)
		require.False(t, ok, s)
	}
}

package rutsite

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"timetable-backend/lib/ruslocale"
	"timetable-backend/lib/schedule"
	"timetable-backend/lib/timezone"
)

// dateHints carries whatever date information one day section exposes,
// in decreasing order of reliability.
type dateHints struct {
	// Explicit is the day section's data-date attribute, "02.01.2006".
	Explicit string
	// ShortText is a "<day> <month name>" label with no year.
	ShortText string
	// the remaining fields reconstruct the date of a recurring slot that
	// is only ever labeled with a relative week number inside an N-week
	// rotation, anchored to the displayed timetable's start date.
	WeekdayText string
	WeekID      int
	PeriodCount int
	ActiveStart time.Time
	HasPeriod   bool
}

// resolveDate recovers the absolute calendar date of a day section.
// Hints are tried in order; the first one present and parseable wins.
// Exhausting all of them is a hard parse error: a day section whose date
// cannot be recovered must fail the fetch, not silently disappear.
func resolveDate(h dateHints, today time.Time) (time.Time, error) {
	if h.Explicit != "" {
		d, err := ruslocale.Date(h.Explicit, timezone.Location)
		if err == nil {
			return d, nil
		}
	}
	if d, ok := parseShortDate(h.ShortText, today); ok {
		return d, nil
	}
	if h.HasPeriod && h.PeriodCount > 0 {
		weekday, ok := ruslocale.WeekdayIn(h.WeekdayText)
		if ok {
			return resolveWeekPeriod(weekday, h.WeekID, h.PeriodCount, h.ActiveStart, today), nil
		}
	}
	return time.Time{}, &schedule.ParseError{
		What: "day date",
		Text: fmt.Sprintf("explicit=%q short=%q weekday=%q", h.Explicit, h.ShortText, h.WeekdayText),
	}
}

// parseShortDate parses labels like "12 ноября" or "31 Декабря". The
// year is inferred from the reference date: a month more than 7 months
// ahead of the current one refers to the next calendar year (a December
// date shown while browsing in spring).
func parseShortDate(s string, today time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	dayText, monthText, ok := strings.Cut(s, " ")
	if !ok {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(dayText)
	if err != nil {
		return time.Time{}, false
	}
	month, ok := ruslocale.Month(monthText)
	if !ok {
		return time.Time{}, false
	}
	year := today.Year()
	if int(month)-int(today.Month()) > 7 {
		year++
	}
	return time.Date(year, month, day, 0, 0, 0, 0, timezone.Location), true
}

// resolveWeekPeriod re-anchors a "<weekday> of week N in an M-week
// rotation" slot to whichever rotation cycle is currently active.
func resolveWeekPeriod(weekday time.Weekday, weekID, periodCount int, activeStart, today time.Time) time.Time {
	periodsElapsed := timezone.WeeksBetween(activeStart, today) / periodCount
	originalWeek := activeStart.AddDate(0, 0, (periodsElapsed*periodCount+weekID-1)*7)
	return timezone.StartOfWeek(originalWeek).AddDate(0, 0, ruslocale.WeekdayOffset(weekday))
}

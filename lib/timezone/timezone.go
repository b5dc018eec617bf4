package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Europe/Moscow")
	if err != nil {
		panic(err)
	}
}

// upstream schedules are published in Moscow time no matter where the
// server runs, so all date math based on
// <time.Time>.Year()/Month()/Day()/... has to happen in it
func Now() time.Time {
	return time.Now().In(Location)
}

// Today returns midnight of the current Moscow day.
func Today() time.Time {
	return StartOfDay(Now())
}

func StartOfDay(t time.Time) time.Time {
	t = t.In(Location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Location)
}

// StartOfWeek returns midnight of the Monday of the week containing t.
// Russian schedules count weeks from Monday.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return day.AddDate(0, 0, -offset)
}

// WeeksBetween returns the number of whole weeks from a to b.
func WeeksBetween(a, b time.Time) int {
	return DaysBetween(a, b) / 7
}

// DaysBetween returns the number of whole days from a to b,
// negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	return int(StartOfDay(b).Sub(StartOfDay(a)).Hours() / 24)
}

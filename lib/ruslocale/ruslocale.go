// Package ruslocale parses the Russian calendar words and the date/time
// text formats used by schedule pages.
package ruslocale

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var months = map[string]time.Month{
	"январь":   time.January,
	"января":   time.January,
	"февраль":  time.February,
	"февраля":  time.February,
	"март":     time.March,
	"марта":    time.March,
	"апрель":   time.April,
	"апреля":   time.April,
	"май":      time.May,
	"мая":      time.May,
	"июнь":     time.June,
	"июня":     time.June,
	"июль":     time.July,
	"июля":     time.July,
	"август":   time.August,
	"августа":  time.August,
	"сентябрь": time.September,
	"сентября": time.September,
	"октябрь":  time.October,
	"октября":  time.October,
	"ноябрь":   time.November,
	"ноября":   time.November,
	"декабрь":  time.December,
	"декабря":  time.December,
}

var weekdays = map[string]time.Weekday{
	"понедельник": time.Monday,
	"вторник":     time.Tuesday,
	"среда":       time.Wednesday,
	"четверг":     time.Thursday,
	"пятница":     time.Friday,
	"суббота":     time.Saturday,
	"воскресенье": time.Sunday,
}

func normalize(s string) string {
	return strings.ToLower(strings.Trim(s, " \n\t"))
}

// Month parses a month name in the nominative or genitive case.
func Month(s string) (time.Month, bool) {
	m, ok := months[normalize(s)]
	return m, ok
}

func Weekday(s string) (time.Weekday, bool) {
	d, ok := weekdays[normalize(s)]
	return d, ok
}

// WeekdayIn scans free text for a weekday name, for headers like
// "Понедельник, числитель".
func WeekdayIn(s string) (time.Weekday, bool) {
	s = normalize(s)
	for name, d := range weekdays {
		if strings.Contains(s, name) {
			return d, true
		}
	}
	return time.Sunday, false
}

// WeekdayOffset returns the day's offset from Monday, 0 through 6.
func WeekdayOffset(d time.Weekday) int {
	offset := int(d) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return offset
}

// Clock parses wall-clock text like "09:00".
func Clock(s string) (hour, minute int, err error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("not a HH:MM time: %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("not a HH:MM time: %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("not a HH:MM time: %q", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time out of range: %q", s)
	}
	return hour, minute, nil
}

// Date parses dotted date text like "02.09.2024".
func Date(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("02.01.2006", strings.TrimSpace(s), loc)
}

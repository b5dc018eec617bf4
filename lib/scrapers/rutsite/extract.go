package rutsite

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"
	"timetable-backend/lib/htmlutil"
	"timetable-backend/lib/ruslocale"
	"timetable-backend/lib/schedule"
	"timetable-backend/lib/timezone"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

// a locale-specific abbreviation meaning "sub-group"; entries carrying
// it are routed to the subgroup number set, never kept as groups
const subgroupMarker = "п/гр."

// schedules keep at most one past week around, older day sections are
// dropped rather than reported
const stalenessDays = 7

type pageSchedule struct {
	Lessons  []schedule.Lesson
	Sublinks []string
}

// extractPage pulls every lesson off one schedule page and collects the
// other timetable tabs that have to be fetched as well. A page without a
// tab container has no schedule and yields an empty result.
func (c *Client) extractPage(ctx context.Context, doc *goquery.Document, pageUrl string, today time.Time) (pageSchedule, error) {
	ctx, span := tracer.Start(ctx, "extractPage")
	defer span.End()

	tabs := doc.Find(".nav-tabs")
	if tabs.Length() != 1 {
		return pageSchedule{}, nil
	}

	var sublinks []string
	for i, a := range htmlutil.GetAnchors(ctx, tabs.Find("a")) {
		if i == 0 {
			// the first tab is the page being extracted
			continue
		}
		if a.Href != "" {
			sublinks = append(sublinks, c.ResolveHref(a.Href))
		}
	}

	activeStart, hasActiveStart := activeTimetableStart(tabs)

	var lessons []schedule.Lesson
	var dayErr error
	doc.Find(".info-block_collapse").EachWithBreak(func(_ int, day *goquery.Selection) bool {
		date, err := resolveDate(dayHints(day, activeStart, hasActiveStart), today)
		if err != nil {
			dayErr = err
			return false
		}
		if timezone.DaysBetween(date, today) > stalenessDays {
			return true
		}

		dayLessons, err := c.extractDay(day, date, pageUrl)
		if err != nil {
			dayErr = err
			return false
		}
		lessons = append(lessons, dayLessons...)
		return true
	})
	if dayErr != nil {
		span.RecordError(dayErr)
		span.SetStatus(codes.Error, "failed to extract day section")
		return pageSchedule{}, dayErr
	}

	return pageSchedule{Lessons: lessons, Sublinks: sublinks}, nil
}

// activeTimetableStart reads the start date of the currently displayed
// timetable off the active tab's link, used to anchor week-period date
// reconstruction.
func activeTimetableStart(tabs *goquery.Selection) (time.Time, bool) {
	active := tabs.Find(".active").First()
	href := active.Find("a").First().AttrOr("href", active.AttrOr("href", ""))
	link, err := url.Parse(href)
	if err != nil {
		return time.Time{}, false
	}
	start := link.Query().Get("start")
	if start == "" {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation("2006-01-02", start, timezone.Location)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func dayHints(day *goquery.Selection, activeStart time.Time, hasActiveStart bool) dateHints {
	h := dateHints{
		Explicit:    day.AttrOr("data-date", ""),
		ShortText:   day.Find(".info-block__header > span > span").Text(),
		WeekdayText: day.Find(".info-block__header > span").Text(),
	}
	if !hasActiveStart {
		return h
	}

	// a day outside any numbered week container belongs to week 1 of a
	// single-week rotation
	h.WeekID = 1
	h.PeriodCount = 1
	h.ActiveStart = activeStart
	h.HasPeriod = true

	week := day.ParentsFiltered(`[id^="week"]`).First()
	if week.Length() == 0 {
		return h
	}
	h.PeriodCount = week.Siblings().Length() + 1
	if _, num, ok := strings.Cut(week.AttrOr("id", ""), "-"); ok {
		if n, err := strconv.Atoi(num); err == nil {
			h.WeekID = n
		}
	}
	return h
}

func (c *Client) extractDay(day *goquery.Selection, date time.Time, pageUrl string) ([]schedule.Lesson, error) {
	var lessons []schedule.Lesson
	var slotErr error
	day.Find(".timetable__list-timeslot").EachWithBreak(func(_ int, slot *goquery.Selection) bool {
		children := slot.Children()
		if children.Length() < 2 {
			slotErr = &schedule.ParseError{
				What: "time slot",
				Text: htmlutil.CleanText(slot.Text()),
			}
			return false
		}

		start, end, err := parseSlotTimes(children.Eq(0).Text(), date)
		if err != nil {
			slotErr = err
			return false
		}
		duration := int(end.Sub(start).Minutes())
		if duration <= 0 {
			slotErr = &schedule.ParseError{
				What: "slot duration",
				Text: htmlutil.CleanText(children.Eq(0).Text()),
			}
			return false
		}

		// content blocks come in triplets: type/title element, details
		// element, layout filler
		blocks := children.Eq(1).Children()
		for i := 0; i < blocks.Length(); i += 3 {
			if i+1 >= blocks.Length() {
				slotErr = &schedule.ParseError{
					What: "lesson block",
					Text: htmlutil.CleanText(blocks.Eq(i).Text()),
				}
				return false
			}
			lesson, err := c.extractLesson(blocks.Eq(i), blocks.Eq(i+1), start, duration, pageUrl)
			if err != nil {
				slotErr = err
				return false
			}
			lessons = append(lessons, lesson)
		}
		return true
	})
	if slotErr != nil {
		return nil, slotErr
	}
	return lessons, nil
}

// parseSlotTimes parses labels like "1 пара, 09:00 — 10:30" into the
// slot's start and end on the given date.
func parseSlotTimes(text string, date time.Time) (time.Time, time.Time, error) {
	if _, after, ok := strings.Cut(text, ", "); ok {
		text = after
	}
	parts := strings.Split(strings.TrimSpace(text), " — ")
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, &schedule.ParseError{
			What: "slot time range",
			Text: text,
		}
	}

	var clock [2]time.Time
	for i, p := range parts {
		hour, minute, err := ruslocale.Clock(p)
		if err != nil {
			return time.Time{}, time.Time{}, &schedule.ParseError{
				What: "slot time",
				Text: p,
				Err:  err,
			}
		}
		clock[i] = time.Date(
			date.Year(), date.Month(), date.Day(),
			hour, minute, 0, 0,
			timezone.Location,
		)
	}
	return clock[0], clock[1], nil
}

func (c *Client) extractLesson(title, about *goquery.Selection, start time.Time, duration int, pageUrl string) (schedule.Lesson, error) {
	rawType := strings.TrimSpace(title.Text())
	isOnline := strings.Contains(rawType, "Вебинар")
	typeLabel := rawType
	if isOnline {
		typeLabel = strings.ReplaceAll(typeLabel, " (Вебинар)", "")
	}

	// the lesson name is the text node right after the type element
	name := htmlutil.NextText(title.Get(0))

	var persons []schedule.EntryRef
	about.Find(".icon-academic-cap").Each(func(_ int, s *goquery.Selection) {
		persons = append(persons, schedule.EntryRef{
			Name: s.AttrOr("title", ""),
			Href: c.ResolveHref(s.AttrOr("href", "")),
		})
	})

	var hints []string
	var classrooms []schedule.EntryRef
	if isOnline {
		// webinars have no physical room no matter what the markup says
		classrooms = []schedule.EntryRef{{Name: "Вебинар"}}
	} else {
		about.Find(".icon-location").Each(func(_ int, s *goquery.Selection) {
			if hint := s.AttrOr("title", ""); hint != "" {
				hints = append(hints, hint)
			}
			roomName := strings.TrimSpace(strings.ReplaceAll(htmlutil.TailText(s.Get(0)), "Аудитория ", ""))
			ref := schedule.EntryRef{Name: roomName}
			if href, ok := s.Attr("href"); ok {
				ref.Href = c.ResolveHref(href)
			}
			classrooms = append(classrooms, ref)
		})
	}

	var groups []schedule.EntryRef
	var subgroups []int
	var groupErr error
	about.Find(".icon-community").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		groupName := htmlutil.TailText(s.Get(0))
		if strings.Contains(groupName, subgroupMarker) {
			numText := groupName[strings.LastIndex(groupName, ".")+1:]
			n, err := strconv.Atoi(strings.TrimSpace(numText))
			if err != nil {
				groupErr = &schedule.ParseError{What: "subgroup number", Text: groupName, Err: err}
				return false
			}
			subgroups = append(subgroups, n)
			return true
		}

		// groups without their own link belong to the page being scraped
		href := pageUrl
		if v, ok := s.Attr("href"); ok {
			href = c.ResolveHref(v)
		}
		groups = append(groups, schedule.EntryRef{Name: groupName, Href: href})
		return true
	})
	if groupErr != nil {
		return schedule.Lesson{}, groupErr
	}

	return schedule.Lesson{
		Name:            name,
		Kind:            c.Classifier.Classify(typeLabel),
		StartTime:       start,
		DurationMinutes: duration,
		Groups:          schedule.DedupeRefs(groups),
		Subgroups:       dedupeInts(subgroups),
		Persons:         schedule.DedupeRefs(persons),
		Classrooms:      schedule.DedupeRefs(classrooms),
		Note:            schedule.RoomHintNote(hints),
	}, nil
}

func dedupeInts(nums []int) []int {
	if len(nums) < 2 {
		return nums
	}
	seen := make(map[int]struct{}, len(nums))
	out := nums[:0]
	for _, n := range nums {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

package rutapi

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"
	"timetable-backend/lib/schedule"
	"timetable-backend/lib/timezone"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// FetchLessons retrieves every published revision of an entity's
// timetable and flattens their events into lessons. A failure on any
// single revision fails the whole operation, revisions are not
// independently optional.
func (c *Client) FetchLessons(ctx context.Context, entityID string) ([]schedule.Lesson, error) {
	ctx, span := tracer.Start(ctx, "FetchLessons")
	defer span.End()
	span.SetAttributes(attribute.String("entity_id", entityID))

	fail := func(err error) ([]schedule.Lesson, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch api timetable")
		return nil, err
	}

	tts, err := c.Timetables(ctx, entityID)
	if err != nil {
		return fail(err)
	}

	var lessons []schedule.Lesson
	for _, tt := range tts.Timetables {
		if tt.ID == "" {
			return fail(&schedule.UpstreamShapeError{
				What: "timetable list",
				Err:  fmt.Errorf("revision without an id for entity %q", entityID),
			})
		}

		rev, err := c.Revision(ctx, entityID, tt.ID)
		if err != nil {
			return fail(err)
		}
		revLessons, err := c.convertRevision(rev)
		if err != nil {
			return fail(err)
		}
		lessons = append(lessons, revLessons...)
	}
	return lessons, nil
}

func (c *Client) convertRevision(rev Schedule) ([]schedule.Lesson, error) {
	var events []Event
	if rev.PeriodicContent != nil {
		for _, ev := range rev.PeriodicContent.Events {
			events = append(events, ev.Event)
		}
	}
	if rev.NonPeriodicContent != nil {
		events = append(events, rev.NonPeriodicContent.Events...)
	}

	lessons := make([]schedule.Lesson, 0, len(events))
	for _, ev := range events {
		lesson, err := c.convertEvent(ev)
		if err != nil {
			return nil, err
		}
		lessons = append(lessons, lesson)
	}
	return lessons, nil
}

func (c *Client) convertEvent(ev Event) (schedule.Lesson, error) {
	start := ev.Start.In(timezone.Location)
	duration := int(ev.End.Sub(ev.Start).Minutes())
	if duration <= 0 {
		return schedule.Lesson{}, &schedule.UpstreamShapeError{
			What: "event time range",
			Err:  fmt.Errorf("event %q does not end after it starts", ev.Name),
		}
	}

	persons := make([]schedule.EntryRef, 0, len(ev.Lecturers))
	for _, lec := range ev.Lecturers {
		persons = append(persons, schedule.EntryRef{
			Name: lec.ShortFio,
			Href: c.EntityURL("people", lec.ID),
		})
	}

	var hints []string
	classrooms := make([]schedule.EntryRef, 0, len(ev.Rooms))
	for _, room := range ev.Rooms {
		if room.Hint != "" {
			hints = append(hints, room.Hint)
		}
		// rooms have no page of their own on the site
		classrooms = append(classrooms, schedule.EntryRef{Name: room.Name})
	}

	groups := make([]schedule.EntryRef, 0, len(ev.Groups))
	for _, g := range ev.Groups {
		groups = append(groups, schedule.EntryRef{
			Name: g.Name,
			Href: c.EntityURL("timetable", g.ID),
		})
	}

	return schedule.Lesson{
		Name:            ev.Name,
		Kind:            c.Classifier.Classify(ev.TypeName),
		StartTime:       start,
		DurationMinutes: duration,
		Groups:          schedule.DedupeRefs(groups),
		Persons:         schedule.DedupeRefs(persons),
		Classrooms:      schedule.DedupeRefs(classrooms),
		Note:            schedule.RoomHintNote(hints),
	}, nil
}

// EntityURL builds the site page URL of an entity, e.g. the timetable
// page of a group. The id stays the last path segment so the URL can
// double as an api locator.
func (c *Client) EntityURL(kind string, id int) string {
	ref := *c.BaseURL
	ref.Path = path.Join(ref.Path, kind, strconv.Itoa(id))
	return ref.String()
}

// Fetcher adapts the client to the schedule.Fetcher capability. The
// entity id is taken from the last path segment of the handle's URL.
type Fetcher struct {
	Client *Client
}

func (f Fetcher) Fetch(ctx context.Context, h schedule.Handle) ([]schedule.Lesson, error) {
	id := path.Base(strings.TrimSuffix(h.URL, "/"))
	if id == "" || id == "." || id == "/" {
		return nil, &schedule.UpstreamShapeError{
			What: "schedule handle",
			Err:  fmt.Errorf("no entity id in url %q", h.URL),
		}
	}
	return f.Client.FetchLessons(ctx, id)
}

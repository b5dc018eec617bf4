// Package schedule defines the canonical lesson records every upstream
// source is normalized into, and the capability for fetching them.
package schedule

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// SourceKind says what sort of entity a schedule belongs to.
type SourceKind int

const (
	SourceGroup SourceKind = iota
	SourcePerson
	SourceRoom
	SourceOther
)

func (k SourceKind) String() string {
	switch k {
	case SourceGroup:
		return "group"
	case SourcePerson:
		return "person"
	case SourceRoom:
		return "room"
	}
	return "other"
}

// Handle identifies one entity whose timetable can be fetched. Handles
// come from the search/catalog subsystem and are treated as opaque by
// callers.
type Handle struct {
	Name   string
	Source SourceKind
	// URL locates the entity's schedule page. For group handles the last
	// path segment doubles as the id for the structured timetable API.
	URL string
}

// EntryRef is a reference to a person, room or group appearing in a
// lesson. Identity is the (Name, Href) pair.
type EntryRef struct {
	Name string
	Href string
}

// Lesson is the canonical record of one class meeting. The reference
// slices are sets: deduplicated by identity, order not significant.
type Lesson struct {
	Name            string
	Kind            Kind
	StartTime       time.Time
	DurationMinutes int
	Groups          []EntryRef
	Subgroups       []int
	Persons         []EntryRef
	Classrooms      []EntryRef
	Note            string
}

// DedupeRefs collapses duplicate references by identity, keeping the
// first occurrence of each.
func DedupeRefs(refs []EntryRef) []EntryRef {
	if len(refs) < 2 {
		return refs
	}
	seen := make(map[EntryRef]struct{}, len(refs))
	out := refs[:0]
	for _, r := range refs {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// RoomHintNote folds supplementary classroom hints into a lesson note,
// one hint per line.
func RoomHintNote(hints []string) string {
	switch len(hints) {
	case 0:
		return ""
	case 1:
		return "Подсказка к аудитории: " + hints[0]
	default:
		return "Подсказки к аудиториям:\n" + strings.Join(hints, "\n")
	}
}

// Fetcher retrieves the full lesson list behind a schedule handle. It
// either succeeds with the complete schedule or fails; partial results
// are never returned.
type Fetcher interface {
	Fetch(ctx context.Context, h Handle) ([]Lesson, error)
}

// FetcherMux dispatches a handle to the source responsible for its kind:
// group schedules come from the structured timetable API when one is
// wired, everything else from the public HTML pages.
type FetcherMux struct {
	Group Fetcher
	Site  Fetcher
}

func (m FetcherMux) Fetch(ctx context.Context, h Handle) ([]Lesson, error) {
	if h.Source == SourceGroup && m.Group != nil {
		return m.Group.Fetch(ctx, h)
	}
	if m.Site == nil {
		return nil, fmt.Errorf("no fetcher wired for source kind %s", h.Source)
	}
	return m.Site.Fetch(ctx, h)
}

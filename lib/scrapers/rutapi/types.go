package rutapi

import "time"

// Institutes is the top level of the public groups catalog.
type Institutes struct {
	Institutes []Institute `json:"institutes"`
}

type Institute struct {
	Name         string   `json:"name"`
	Abbreviation string   `json:"abbreviation"`
	Courses      []Course `json:"courses"`
}

type Course struct {
	Course      int         `json:"course"`
	Specialties []Specialty `json:"specialties"`
}

type Specialty struct {
	Name         string  `json:"name"`
	Abbreviation string  `json:"abbreviation"`
	Groups       []Group `json:"groups"`
}

type Group struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type TimetableType string

const (
	TimetableSession     TimetableType = "SESSION"
	TimetablePeriodic    TimetableType = "PERIODIC"
	TimetableNonPeriodic TimetableType = "NON_PERIODIC"
)

// Timetables enumerates the revisions published for one entity. Each
// revision has to be fetched separately to get its events.
type Timetables struct {
	Timetables []Timetable `json:"timetables"`
}

type Timetable struct {
	ID        string        `json:"id"`
	Type      TimetableType `json:"type"`
	StartDate string        `json:"startDate"`
	EndDate   string        `json:"endDate"`
}

// Schedule is one revision's event payload. Exactly one of the content
// fields is expected to be set, matching the revision type.
type Schedule struct {
	Timetable          Timetable           `json:"timetable"`
	PeriodicContent    *PeriodicContent    `json:"periodicContent"`
	NonPeriodicContent *NonPeriodicContent `json:"nonPeriodicContent"`
}

type PeriodicContent struct {
	Events     []PeriodicEvent `json:"events"`
	Recurrence FrequencyRule   `json:"recurrence"`
}

type NonPeriodicContent struct {
	Events []Event `json:"events"`
}

type Event struct {
	Name      string      `json:"name"`
	TypeName  string      `json:"typeName"`
	Start     time.Time   `json:"startDatetime"`
	End       time.Time   `json:"endDatetime"`
	Lecturers []Lecturer  `json:"lecturers"`
	Rooms     []Room      `json:"rooms"`
	Groups    []GroupInfo `json:"groups"`
}

type PeriodicEvent struct {
	Event
	TimeSlotName   string        `json:"timeSlotName"`
	PeriodNumber   int           `json:"periodNumber"`
	RecurrenceRule FrequencyRule `json:"recurrenceRule"`
}

type Lecturer struct {
	ID          int    `json:"id"`
	ShortFio    string `json:"shortFio"`
	FullFio     string `json:"fullFio"`
	Description string `json:"description"`
}

type Room struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Hint string `json:"hint"`
}

type GroupInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Frequency string

const FrequencyWeekly Frequency = "WEEKLY"

type FrequencyRule struct {
	Frequency     Frequency `json:"frequency"`
	Interval      int       `json:"interval"`
	CurrentNumber *int      `json:"currentNumber,omitempty"`
	Periods       []Period  `json:"periods,omitempty"`
}

type Period struct {
	Number  int    `json:"number"`
	Name    string `json:"name"`
	Current bool   `json:"current"`
}

package schedulestore

import (
	"context"
	"database/sql"
	"testing"
	"time"
	"timetable-backend/lib/schedule"
	"timetable-backend/lib/telemetry"
	"timetable-backend/lib/timezone"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func testLessons() []schedule.Lesson {
	return []schedule.Lesson{
		{
			Name:            "Математический анализ",
			Kind:            schedule.Kind{Code: schedule.KindLecture},
			StartTime:       time.Date(2024, time.September, 9, 9, 0, 0, 0, timezone.Location),
			DurationMinutes: 90,
			Groups:          []schedule.EntryRef{{Name: "ИУ5-11", Href: "https://rut-miit.ru/groups/11"}},
			Subgroups:       []int{1},
			Persons:         []schedule.EntryRef{{Name: "Иванов И.И.", Href: "https://rut-miit.ru/people/42"}},
			Classrooms:      []schedule.EntryRef{{Name: "301"}},
			Note:            "Подсказка к аудитории: вход со двора",
		},
		{
			Name:            "Защита проекта",
			Kind:            schedule.Kind{Code: schedule.KindOther, Label: "защита"},
			StartTime:       time.Date(2024, time.September, 9, 10, 45, 0, 0, timezone.Location),
			DurationMinutes: 90,
		},
	}
}

func TestStore(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:schedulestore")
	defer cleanup()

	sqlite, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	_, err = sqlite.Exec(Schema)
	if err != nil {
		t.Fatal(err)
	}
	store := NewStore(sqlite)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	{
		snapshot, err := store.Pull(ctx, "unknown-locator")
		if err != nil {
			t.Fatal(err)
		}
		require.Empty(t, snapshot.Lessons)
		require.True(t, snapshot.Time.IsZero())
	}

	lessons := testLessons()
	pushedAt := time.Date(2024, time.September, 9, 12, 0, 0, 0, timezone.Location)

	{
		err := store.Push(ctx, "groups/11", pushedAt, lessons)
		if err != nil {
			t.Fatal(err)
		}

		snapshot, err := store.Pull(ctx, "groups/11")
		if err != nil {
			t.Fatal(err)
		}
		require.Equal(t, pushedAt.Unix(), snapshot.Time.Unix())
		require.Equal(t, lessons, snapshot.Lessons)
	}

	{
		// a second push on the same day replaces the earlier snapshot
		err := store.Push(ctx, "groups/11", pushedAt.Add(time.Hour), lessons[:1])
		if err != nil {
			t.Fatal(err)
		}

		snapshot, err := store.Pull(ctx, "groups/11")
		if err != nil {
			t.Fatal(err)
		}
		require.Equal(t, lessons[:1], snapshot.Lessons)
	}

	{
		// a push on the next day is kept alongside and wins as latest
		err := store.Push(ctx, "groups/11", pushedAt.AddDate(0, 0, 1), lessons)
		if err != nil {
			t.Fatal(err)
		}

		snapshot, err := store.Pull(ctx, "groups/11")
		if err != nil {
			t.Fatal(err)
		}
		require.Equal(t, pushedAt.AddDate(0, 0, 1).Unix(), snapshot.Time.Unix())
		require.Equal(t, lessons, snapshot.Lessons)
	}

	{
		// locators do not leak into each other
		err := store.Push(ctx, "people/42", pushedAt, lessons[1:])
		if err != nil {
			t.Fatal(err)
		}

		snapshot, err := store.Pull(ctx, "people/42")
		if err != nil {
			t.Fatal(err)
		}
		require.Equal(t, lessons[1:], snapshot.Lessons)
	}
}

// Package schedulestore persists fetched schedule snapshots so callers
// can serve the last known timetable when the upstream is unreachable.
package schedulestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
	"timetable-backend/lib/schedule"
	"timetable-backend/lib/timezone"

	_ "embed"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

// Snapshot is the lesson list of one locator as fetched at one point in
// time.
type Snapshot struct {
	Time    time.Time
	Lessons []schedule.Lesson
}

// Push stores a freshly fetched lesson list under a locator. Snapshots
// taken earlier the same day are replaced, one snapshot per locator per
// day is enough history.
func (s Store) Push(ctx context.Context, locator string, at time.Time, lessons []schedule.Lesson) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	startOfDay := timezone.StartOfDay(at).Unix()
	startOfNextDay := timezone.StartOfDay(at).AddDate(0, 0, 1).Unix()

	_, err = tx.ExecContext(ctx, `
		delete from lesson where snapshot_id in (
			select id from snapshot
			where locator = ? and time >= ? and time < ?
		)`,
		locator, startOfDay, startOfNextDay,
	)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		delete from snapshot
		where locator = ? and time >= ? and time < ?`,
		locator, startOfDay, startOfNextDay,
	)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`insert into snapshot (locator, time) values (?, ?)`,
		locator, at.Unix(),
	)
	if err != nil {
		return err
	}
	snapshotId, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, lesson := range lessons {
		groups, err := json.Marshal(lesson.Groups)
		if err != nil {
			return err
		}
		subgroups, err := json.Marshal(lesson.Subgroups)
		if err != nil {
			return err
		}
		persons, err := json.Marshal(lesson.Persons)
		if err != nil {
			return err
		}
		classrooms, err := json.Marshal(lesson.Classrooms)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			insert into lesson (
				snapshot_id, name, kind_code, kind_label,
				start_time, duration_minutes,
				group_refs, subgroup_numbers, person_refs, classroom_refs,
				note
			) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			snapshotId, lesson.Name, int(lesson.Kind.Code), lesson.Kind.Label,
			lesson.StartTime.Unix(), lesson.DurationMinutes,
			string(groups), string(subgroups), string(persons), string(classrooms),
			lesson.Note,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Pull returns the latest snapshot stored for a locator. A locator that
// has never been pushed yields a zero snapshot and no error.
func (s Store) Pull(ctx context.Context, locator string) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		select id, time from snapshot
		where locator = ?
		order by time desc
		limit 1`,
		locator,
	)

	var snapshotId int64
	var at int64
	err := row.Scan(&snapshotId, &at)
	if err == sql.ErrNoRows {
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
		select
			name, kind_code, kind_label,
			start_time, duration_minutes,
			group_refs, subgroup_numbers, person_refs, classroom_refs,
			note
		from lesson where snapshot_id = ?`,
		snapshotId,
	)
	if err != nil {
		return Snapshot{}, err
	}
	defer rows.Close()

	snapshot := Snapshot{Time: time.Unix(at, 0).In(timezone.Location)}
	for rows.Next() {
		var lesson schedule.Lesson
		var kindCode int
		var startTime int64
		var groups, subgroups, persons, classrooms string

		err := rows.Scan(
			&lesson.Name, &kindCode, &lesson.Kind.Label,
			&startTime, &lesson.DurationMinutes,
			&groups, &subgroups, &persons, &classrooms,
			&lesson.Note,
		)
		if err != nil {
			return Snapshot{}, err
		}

		lesson.Kind.Code = schedule.KindCode(kindCode)
		lesson.StartTime = time.Unix(startTime, 0).In(timezone.Location)
		if err := json.Unmarshal([]byte(groups), &lesson.Groups); err != nil {
			return Snapshot{}, err
		}
		if err := json.Unmarshal([]byte(subgroups), &lesson.Subgroups); err != nil {
			return Snapshot{}, err
		}
		if err := json.Unmarshal([]byte(persons), &lesson.Persons); err != nil {
			return Snapshot{}, err
		}
		if err := json.Unmarshal([]byte(classrooms), &lesson.Classrooms); err != nil {
			return Snapshot{}, err
		}

		snapshot.Lessons = append(snapshot.Lessons, lesson)
	}
	return snapshot, rows.Err()
}

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const activityColumns = `id, owner, name, sport, start_time, duration_seconds,
	distance_meters, average_heartrate, max_heartrate, location_name, description`

// UpsertActivity inserts or updates an activity
func (s *Store) UpsertActivity(a *Activity) error {
	_, err := s.db.Exec(`
		INSERT INTO activities (
			id, owner, name, sport, start_time, date, duration_seconds,
			distance_meters, average_heartrate, max_heartrate, location_name, description, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			owner = excluded.owner,
			name = excluded.name,
			sport = excluded.sport,
			start_time = excluded.start_time,
			date = excluded.date,
			duration_seconds = excluded.duration_seconds,
			distance_meters = excluded.distance_meters,
			average_heartrate = excluded.average_heartrate,
			max_heartrate = excluded.max_heartrate,
			location_name = excluded.location_name,
			description = excluded.description,
			updated_at = CURRENT_TIMESTAMP
	`,
		a.ID, a.Owner, a.Name, a.Sport,
		a.StartTime.Format(LocalTimeLayout), a.Date(), a.DurationSeconds,
		a.DistanceMeters, a.AverageHeartrate, a.MaxHeartrate, a.LocationName, a.Description,
	)
	return err
}

// GetActivity retrieves an activity by ID
func (s *Store) GetActivity(id string) (*Activity, error) {
	row := s.db.QueryRow(`
		SELECT `+activityColumns+`
		FROM activities
		WHERE id = ?
	`, id)

	return scanActivity(row)
}

// ListActivities returns the owner's activities dated from..to inclusive
// (YYYY-MM-DD), oldest first
func (s *Store) ListActivities(owner, from, to string) ([]Activity, error) {
	rows, err := s.db.Query(`
		SELECT `+activityColumns+`
		FROM activities
		WHERE owner = ? AND date BETWEEN ? AND ?
		ORDER BY start_time, id
	`, owner, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// ListActivitiesBySport returns the owner's most recent activities of a
// sport, oldest first
func (s *Store) ListActivitiesBySport(owner, sport string, limit int) ([]Activity, error) {
	rows, err := s.db.Query(`
		SELECT `+activityColumns+` FROM (
			SELECT * FROM activities
			WHERE owner = ? AND sport = ?
			ORDER BY start_time DESC, id DESC
			LIMIT ?
		)
		ORDER BY start_time, id
	`, owner, sport, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// CountActivities returns the number of activities of an owner
func (s *Store) CountActivities(owner string) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM activities WHERE owner = ?", owner).Scan(&count)
	return count, err
}

// MaxHeartrate returns the highest max heart rate recorded in the owner's
// activities. ok is false when none has one.
func (s *Store) MaxHeartrate(owner string) (hr float64, ok bool, err error) {
	var v sql.NullFloat64
	err = s.db.QueryRow(`
		SELECT MAX(max_heartrate) FROM activities
		WHERE owner = ? AND max_heartrate > 0
	`, owner).Scan(&v)
	if err != nil {
		return 0, false, err
	}
	return v.Float64, v.Valid, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanActivity scans a single activity from a row
func scanActivity(row rowScanner) (*Activity, error) {
	var a Activity
	var startTime string

	err := row.Scan(
		&a.ID, &a.Owner, &a.Name, &a.Sport, &startTime, &a.DurationSeconds,
		&a.DistanceMeters, &a.AverageHeartrate, &a.MaxHeartrate, &a.LocationName, &a.Description,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}

	a.StartTime, err = time.Parse(LocalTimeLayout, startTime)
	if err != nil {
		return nil, fmt.Errorf("parsing start_time %q: %w", startTime, err)
	}
	return &a, nil
}

// scanActivities scans multiple activities from rows
func scanActivities(rows *sql.Rows) ([]Activity, error) {
	var activities []Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *a)
	}
	return activities, rows.Err()
}

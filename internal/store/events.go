package store

import (
	"database/sql"
	"fmt"
)

// Planned event tables
const (
	TableTrainings    = "trainings"
	TableCompetitions = "competitions"
)

// UpsertTraining inserts or updates a planned training
func (s *Store) UpsertTraining(e *PlannedEvent) error {
	return s.upsertPlanned(TableTrainings, e)
}

// UpsertCompetition inserts or updates a competition
func (s *Store) UpsertCompetition(e *PlannedEvent) error {
	return s.upsertPlanned(TableCompetitions, e)
}

// ListTrainings returns the owner's trainings dated from..to inclusive
func (s *Store) ListTrainings(owner, from, to string) ([]PlannedEvent, error) {
	return s.listPlanned(TableTrainings, owner, from, to)
}

// ListCompetitions returns the owner's competitions dated from..to inclusive
func (s *Store) ListCompetitions(owner, from, to string) ([]PlannedEvent, error) {
	return s.listPlanned(TableCompetitions, owner, from, to)
}

// table is always one of the constants above
func (s *Store) upsertPlanned(table string, e *PlannedEvent) error {
	_, err := s.db.Exec(fmt.Sprintf(`
		INSERT INTO %s (
			id, owner, name, sport, date, distance_meters, location_name, description
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner = excluded.owner,
			name = excluded.name,
			sport = excluded.sport,
			date = excluded.date,
			distance_meters = excluded.distance_meters,
			location_name = excluded.location_name,
			description = excluded.description
	`, table),
		e.ID, e.Owner, e.Name, e.Sport, e.Date,
		e.DistanceMeters, e.LocationName, e.Description,
	)
	return err
}

func (s *Store) listPlanned(table, owner, from, to string) ([]PlannedEvent, error) {
	// rowid keeps insertion order within a day
	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT id, owner, name, sport, date, distance_meters, location_name, description
		FROM %s
		WHERE owner = ? AND date BETWEEN ? AND ?
		ORDER BY date, rowid
	`, table), owner, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPlanned(rows)
}

func scanPlanned(rows *sql.Rows) ([]PlannedEvent, error) {
	var events []PlannedEvent
	for rows.Next() {
		var e PlannedEvent
		err := rows.Scan(
			&e.ID, &e.Owner, &e.Name, &e.Sport, &e.Date,
			&e.DistanceMeters, &e.LocationName, &e.Description,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

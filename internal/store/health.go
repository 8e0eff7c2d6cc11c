package store

import "fmt"

// SaveHealthStats inserts or updates daily health values
func (s *Store) SaveHealthStats(stats []HealthStat) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO health_stats (owner, date, metric, value)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(owner, metric, date) DO UPDATE SET value = excluded.value
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, h := range stats {
		if _, err := stmt.Exec(h.Owner, h.Date, h.Metric, h.Value); err != nil {
			return fmt.Errorf("inserting %s of %s: %w", h.Metric, h.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ListHealthStats returns one metric of the owner dated from..to inclusive,
// oldest first
func (s *Store) ListHealthStats(owner, metric, from, to string) ([]HealthStat, error) {
	rows, err := s.db.Query(`
		SELECT owner, date, metric, value
		FROM health_stats
		WHERE owner = ? AND metric = ? AND date BETWEEN ? AND ?
		ORDER BY date
	`, owner, metric, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []HealthStat
	for rows.Next() {
		var h HealthStat
		if err := rows.Scan(&h.Owner, &h.Date, &h.Metric, &h.Value); err != nil {
			return nil, err
		}
		stats = append(stats, h)
	}
	return stats, rows.Err()
}

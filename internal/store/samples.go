package store

import (
	"fmt"
	"time"
)

// SaveSamples saves the time series of an activity.
// It replaces any existing samples for the activity.
func (s *Store) SaveSamples(activityID string, samples []Sample) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Delete existing samples for this activity
	if _, err := tx.Exec("DELETE FROM samples WHERE activity_id = ?", activityID); err != nil {
		return fmt.Errorf("deleting existing samples: %w", err)
	}

	// Prepare insert statement
	stmt, err := tx.Prepare(`
		INSERT INTO samples (activity_id, metric, ts, value)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(activity_id, metric, ts) DO UPDATE SET value = excluded.value
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	// Insert all samples
	for _, p := range samples {
		if _, err := stmt.Exec(activityID, p.Metric, p.Timestamp.UnixMilli(), p.Value); err != nil {
			return fmt.Errorf("inserting sample: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// GetSamples retrieves the samples of one metric of an activity in time order
func (s *Store) GetSamples(activityID, metric string) ([]Sample, error) {
	rows, err := s.db.Query(`
		SELECT activity_id, metric, ts, value
		FROM samples
		WHERE activity_id = ? AND metric = ?
		ORDER BY ts
	`, activityID, metric)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var p Sample
		var ts int64
		if err := rows.Scan(&p.ActivityID, &p.Metric, &ts, &p.Value); err != nil {
			return nil, err
		}
		p.Timestamp = time.UnixMilli(ts).UTC()
		samples = append(samples, p)
	}
	return samples, rows.Err()
}

// ListSampleMetrics returns the metrics recorded for an activity
func (s *Store) ListSampleMetrics(activityID string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT metric FROM samples WHERE activity_id = ? ORDER BY metric
	`, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metrics []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

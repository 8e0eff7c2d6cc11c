package store

import (
	"database/sql"
	"errors"
)

// Import state keys
const (
	StateLastImport    = "last_import"
	StateLastImportDir = "last_import_dir"
)

// GetImportState retrieves an import state value by key
// Returns empty string if key doesn't exist
func (s *Store) GetImportState(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`
		SELECT value FROM import_state WHERE key = ?
	`, key).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// SetImportState sets an import state value
func (s *Store) SetImportState(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO import_state (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

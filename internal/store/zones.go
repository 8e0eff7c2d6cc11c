package store

import (
	"database/sql"
	"errors"

	"fitdash/internal/analysis"
)

// SaveZones stores the zone upper bounds of an owner
func (s *Store) SaveZones(owner string, z analysis.ZoneBoundaries) error {
	_, err := s.db.Exec(`
		INSERT INTO zone_boundaries (owner, z1, z2, z3, z4, z5, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(owner) DO UPDATE SET
			z1 = excluded.z1,
			z2 = excluded.z2,
			z3 = excluded.z3,
			z4 = excluded.z4,
			z5 = excluded.z5,
			updated_at = CURRENT_TIMESTAMP
	`, owner, z[0], z[1], z[2], z[3], z[4])
	return err
}

// GetZones returns the stored zone bounds of an owner, ErrNoZones if none
func (s *Store) GetZones(owner string) (analysis.ZoneBoundaries, error) {
	var z analysis.ZoneBoundaries
	err := s.db.QueryRow(`
		SELECT z1, z2, z3, z4, z5 FROM zone_boundaries WHERE owner = ?
	`, owner).Scan(&z[0], &z[1], &z[2], &z[3], &z[4])
	if errors.Is(err, sql.ErrNoRows) {
		return z, ErrNoZones
	}
	return z, err
}

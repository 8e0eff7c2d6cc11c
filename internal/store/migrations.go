package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Activities (imported summaries)
		`CREATE TABLE IF NOT EXISTS activities (
			id TEXT PRIMARY KEY,
			owner TEXT NOT NULL,
			name TEXT NOT NULL,
			sport TEXT NOT NULL,
			start_time TEXT NOT NULL,
			date TEXT NOT NULL,
			duration_seconds REAL NOT NULL DEFAULT 0,
			distance_meters REAL,
			average_heartrate REAL,
			max_heartrate REAL,
			location_name TEXT,
			description TEXT,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_activities_owner_date ON activities(owner, date)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_sport ON activities(sport)`,

		// Samples (per activity time series, one row per metric value)
		`CREATE TABLE IF NOT EXISTS samples (
			activity_id TEXT NOT NULL,
			metric TEXT NOT NULL,
			ts INTEGER NOT NULL,
			value REAL NOT NULL,
			PRIMARY KEY (activity_id, metric, ts),
			FOREIGN KEY (activity_id) REFERENCES activities(id) ON DELETE CASCADE
		)`,

		// Planned trainings
		`CREATE TABLE IF NOT EXISTS trainings (
			id TEXT PRIMARY KEY,
			owner TEXT NOT NULL,
			name TEXT NOT NULL,
			sport TEXT NOT NULL DEFAULT '',
			date TEXT NOT NULL,
			distance_meters REAL,
			location_name TEXT,
			description TEXT,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_trainings_owner_date ON trainings(owner, date)`,

		// Competitions
		`CREATE TABLE IF NOT EXISTS competitions (
			id TEXT PRIMARY KEY,
			owner TEXT NOT NULL,
			name TEXT NOT NULL,
			sport TEXT NOT NULL DEFAULT '',
			date TEXT NOT NULL,
			distance_meters REAL,
			location_name TEXT,
			description TEXT,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_competitions_owner_date ON competitions(owner, date)`,

		// Heart rate zone upper bounds per owner
		`CREATE TABLE IF NOT EXISTS zone_boundaries (
			owner TEXT PRIMARY KEY,
			z1 REAL NOT NULL,
			z2 REAL NOT NULL,
			z3 REAL NOT NULL,
			z4 REAL NOT NULL,
			z5 REAL NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Daily health stats, one row per metric value
		`CREATE TABLE IF NOT EXISTS health_stats (
			owner TEXT NOT NULL,
			date TEXT NOT NULL,
			metric TEXT NOT NULL,
			value REAL NOT NULL,
			PRIMARY KEY (owner, metric, date)
		)`,

		// Import state (key-value store for import tracking)
		`CREATE TABLE IF NOT EXISTS import_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}

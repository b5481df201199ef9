package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS courts (
			id   TEXT PRIMARY KEY,
			name TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS court_schedules (
			court_id TEXT NOT NULL REFERENCES courts(id) ON DELETE CASCADE,
			weekday  INTEGER NOT NULL CHECK(weekday BETWEEN 1 AND 7),
			active   INTEGER NOT NULL DEFAULT 1,
			opening  INTEGER NOT NULL CHECK(opening BETWEEN 0 AND 1439),
			closing  INTEGER NOT NULL CHECK(closing BETWEEN 0 AND 1440),
			PRIMARY KEY (court_id, weekday)
		);

		CREATE TABLE IF NOT EXISTS teams (
			id    TEXT PRIMARY KEY,
			name  TEXT NOT NULL,
			color TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS trainings (
			id            TEXT PRIMARY KEY,
			court_id      TEXT NOT NULL REFERENCES courts(id),
			team_id       TEXT NOT NULL,
			color         TEXT NOT NULL DEFAULT '',
			training_date TEXT NOT NULL,
			start_minutes INTEGER NOT NULL,
			end_minutes   INTEGER NOT NULL,
			created_at    TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_trainings_court_date ON trainings(court_id, training_date);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}

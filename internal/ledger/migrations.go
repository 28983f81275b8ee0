package ledger

import "fmt"

// schemaVersion is bumped whenever a migration is appended.
const schemaVersion = 1

// migrate runs all database migrations
func (s *Store) migrate() error {
	migrations := []string{
		migrationCreateSchemaVersion,
		migrationCreateTaskAssignments,
		migrationCreateTimeEntries,
	}

	for i, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	if _, err := s.db.Exec(
		`INSERT OR REPLACE INTO schema_version (id, version) VALUES (1, ?)`,
		schemaVersion,
	); err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}

	return nil
}

const migrationCreateSchemaVersion = `
CREATE TABLE IF NOT EXISTS schema_version (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    version INTEGER NOT NULL
);
`

const migrationCreateTaskAssignments = `
CREATE TABLE IF NOT EXISTS task_assignments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    start_date TEXT NOT NULL UNIQUE,
    project_id TEXT NOT NULL,
    description TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`

const migrationCreateTimeEntries = `
CREATE TABLE IF NOT EXISTS time_entries (
    id TEXT PRIMARY KEY,
    remote_id TEXT UNIQUE,
    entry_date TEXT NOT NULL,
    description TEXT NOT NULL,
    start_time TEXT NOT NULL,
    end_time TEXT NOT NULL,
    duration_minutes INTEGER NOT NULL,
    project_id TEXT NOT NULL,
    workspace_id TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_time_entries_date ON time_entries(entry_date);
`

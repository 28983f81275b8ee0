package ledger

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/mihazs/clockify-auto-fill/internal/model"
	_ "modernc.org/sqlite"
)

// Store is the durable local ledger: task assignments plus the record of time
// entries this app created. Every operation is a self-contained commit;
// storage errors always propagate to the caller.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the default database path (~/.clockify-auto-fill/ledger.db)
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".clockify-auto-fill", "ledger.db"), nil
}

// Open opens or creates the SQLite database
func Open(dbPath string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Serialize writers; concurrent batch goroutines share this handle.
	if _, err := sqlDB.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	s := &Store{db: sqlDB}

	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// OpenDefault opens the database at the default path
func OpenDefault() (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return Open(path)
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertTaskAssignment inserts an assignment, or updates project/description
// when one already exists for the start date. Returns the row id.
func (s *Store) UpsertTaskAssignment(startDate, projectID, description string) (int64, error) {
	if _, err := model.ParseDate(startDate); err != nil {
		return 0, fmt.Errorf("bad start date %q: %w", startDate, err)
	}

	now := time.Now().Format(time.RFC3339)
	_, err := s.db.Exec(`
		INSERT INTO task_assignments (start_date, project_id, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(start_date) DO UPDATE SET
			project_id = excluded.project_id,
			description = excluded.description,
			updated_at = excluded.updated_at`,
		startDate, projectID, description, now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("upsert assignment: %w", err)
	}

	var id int64
	err = s.db.QueryRow(
		`SELECT id FROM task_assignments WHERE start_date = ?`, startDate,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("reading assignment id: %w", err)
	}
	return id, nil
}

// AllTaskAssignments returns assignments ascending by start date, with derived
// end dates: one day before the next start, or today for the last one.
func (s *Store) AllTaskAssignments() ([]model.TaskAssignment, error) {
	rows, err := s.db.Query(`
		SELECT id, start_date, project_id, description, created_at, updated_at
		FROM task_assignments
		ORDER BY start_date ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}
	defer rows.Close()

	var assignments []model.TaskAssignment
	for rows.Next() {
		var a model.TaskAssignment
		var createdAt, updatedAt string
		if err := rows.Scan(&a.ID, &a.StartDate, &a.ProjectID, &a.Description, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning assignment: %w", err)
		}
		a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		a.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}

	for i := range assignments {
		if i < len(assignments)-1 {
			end, err := model.DayBefore(assignments[i+1].StartDate)
			if err != nil {
				return nil, fmt.Errorf("deriving end date: %w", err)
			}
			assignments[i].EndDate = end
		} else {
			assignments[i].EndDate = model.Today()
		}
	}

	return assignments, nil
}

// AssignmentCoveringDate returns the assignment whose derived range contains
// the date, or nil when none does.
func (s *Store) AssignmentCoveringDate(date string) (*model.TaskAssignment, error) {
	if _, err := model.ParseDate(date); err != nil {
		return nil, fmt.Errorf("bad date %q: %w", date, err)
	}

	assignments, err := s.AllTaskAssignments()
	if err != nil {
		return nil, err
	}

	// Canonical YYYY-MM-DD strings order lexicographically by calendar day.
	for i := range assignments {
		a := assignments[i]
		if date >= a.StartDate && date <= a.EndDate {
			return &a, nil
		}
	}
	return nil, nil
}

// RemoveAssignment deletes the assignment starting on the given date.
func (s *Store) RemoveAssignment(startDate string) error {
	res, err := s.db.Exec(`DELETE FROM task_assignments WHERE start_date = ?`, startDate)
	if err != nil {
		return fmt.Errorf("removing assignment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("no assignment starts on %s", startDate)
	}
	return nil
}

// CountAssignments returns the number of stored assignments.
func (s *Store) CountAssignments() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM task_assignments`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting assignments: %w", err)
	}
	return n, nil
}

// RecordTimeEntry stores the record of a created entry. A missing local id is
// assigned; the remote id must be unique when present.
func (s *Store) RecordTimeEntry(rec model.TimeEntryRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	var remoteID interface{}
	if rec.RemoteID != "" {
		remoteID = rec.RemoteID
	}

	_, err := s.db.Exec(`
		INSERT INTO time_entries
			(id, remote_id, entry_date, description, start_time, end_time,
			 duration_minutes, project_id, workspace_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, remoteID, rec.Date, rec.Description,
		rec.StartTime.Format(time.RFC3339), rec.EndTime.Format(time.RFC3339),
		rec.DurationMinutes, rec.ProjectID, rec.WorkspaceID,
		rec.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording time entry: %w", err)
	}
	return nil
}

// TimeEntriesForDate returns locally recorded entries for the calendar day.
func (s *Store) TimeEntriesForDate(date string) ([]model.TimeEntryRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, remote_id, entry_date, description, start_time, end_time,
		       duration_minutes, project_id, workspace_id, created_at
		FROM time_entries
		WHERE entry_date = ?
		ORDER BY created_at ASC`, date)
	if err != nil {
		return nil, fmt.Errorf("listing time entries: %w", err)
	}
	defer rows.Close()

	var records []model.TimeEntryRecord
	for rows.Next() {
		var rec model.TimeEntryRecord
		var remoteID sql.NullString
		var startTime, endTime, createdAt string
		if err := rows.Scan(&rec.ID, &remoteID, &rec.Date, &rec.Description,
			&startTime, &endTime, &rec.DurationMinutes,
			&rec.ProjectID, &rec.WorkspaceID, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning time entry: %w", err)
		}
		rec.RemoteID = remoteID.String
		rec.StartTime, _ = time.Parse(time.RFC3339, startTime)
		rec.EndTime, _ = time.Parse(time.RFC3339, endTime)
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing time entries: %w", err)
	}
	return records, nil
}

// HasLocalEntryForDate reports whether any entry was recorded for the day.
func (s *Store) HasLocalEntryForDate(date string) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM time_entries WHERE entry_date = ?`, date,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking local entries: %w", err)
	}
	return n > 0, nil
}

// RemoveTimeEntryByRemoteID deletes the local record for a remote entry id.
// Removing a record that was never stored is not an error.
func (s *Store) RemoveTimeEntryByRemoteID(remoteID string) error {
	if _, err := s.db.Exec(`DELETE FROM time_entries WHERE remote_id = ?`, remoteID); err != nil {
		return fmt.Errorf("removing time entry: %w", err)
	}
	return nil
}

package ledger_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mihazs/clockify-auto-fill/internal/ledger"
	"github.com/mihazs/clockify-auto-fill/internal/model"
)

func openStore(t *testing.T) *ledger.Store {
	t.Helper()
	store, err := ledger.Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestUpsertTaskAssignmentOverwrites(t *testing.T) {
	store := openStore(t)

	id1, err := store.UpsertTaskAssignment("2025-01-01", "proj-a", "First description")
	if err != nil {
		t.Fatalf("UpsertTaskAssignment: %v", err)
	}

	id2, err := store.UpsertTaskAssignment("2025-01-01", "proj-b", "Second description")
	if err != nil {
		t.Fatalf("UpsertTaskAssignment (update): %v", err)
	}
	if id1 != id2 {
		t.Errorf("upsert created a new row: id %d != %d", id2, id1)
	}

	assignments, err := store.AllTaskAssignments()
	if err != nil {
		t.Fatalf("AllTaskAssignments: %v", err)
	}
	if len(assignments) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(assignments))
	}
	if assignments[0].Description != "Second description" {
		t.Errorf("description = %q, want the second one", assignments[0].Description)
	}
	if assignments[0].ProjectID != "proj-b" {
		t.Errorf("project = %q, want proj-b", assignments[0].ProjectID)
	}
}

func TestUpsertRejectsBadDate(t *testing.T) {
	store := openStore(t)
	if _, err := store.UpsertTaskAssignment("01/02/2025", "p", "d"); err == nil {
		t.Error("expected error for non-canonical date")
	}
}

func TestDerivedEndDates(t *testing.T) {
	store := openStore(t)

	for _, start := range []string{"2025-03-10", "2025-01-01", "2025-02-01"} {
		if _, err := store.UpsertTaskAssignment(start, "p", "work from "+start); err != nil {
			t.Fatalf("UpsertTaskAssignment(%s): %v", start, err)
		}
	}

	assignments, err := store.AllTaskAssignments()
	if err != nil {
		t.Fatalf("AllTaskAssignments: %v", err)
	}
	if len(assignments) != 3 {
		t.Fatalf("expected 3 assignments, got %d", len(assignments))
	}

	// Ascending by start date, each ending the day before its successor.
	wantStarts := []string{"2025-01-01", "2025-02-01", "2025-03-10"}
	wantEnds := []string{"2025-01-31", "2025-03-09", model.Today()}
	for i, a := range assignments {
		if a.StartDate != wantStarts[i] {
			t.Errorf("assignment[%d].StartDate = %s, want %s", i, a.StartDate, wantStarts[i])
		}
		if a.EndDate != wantEnds[i] {
			t.Errorf("assignment[%d].EndDate = %s, want %s", i, a.EndDate, wantEnds[i])
		}
	}
}

func TestAssignmentCoveringDate(t *testing.T) {
	store := openStore(t)

	if _, err := store.UpsertTaskAssignment("2025-01-01", "p", "January work"); err != nil {
		t.Fatal(err)
	}

	// Single assignment runs through today.
	a, err := store.AssignmentCoveringDate("2025-01-15")
	if err != nil {
		t.Fatalf("AssignmentCoveringDate: %v", err)
	}
	if a == nil || a.Description != "January work" {
		t.Fatalf("expected the January assignment, got %+v", a)
	}
	if a.EndDate != model.Today() {
		t.Errorf("derived end = %s, want today", a.EndDate)
	}

	// Before the first start date nothing covers.
	a, err = store.AssignmentCoveringDate("2024-12-31")
	if err != nil {
		t.Fatalf("AssignmentCoveringDate: %v", err)
	}
	if a != nil {
		t.Errorf("expected no coverage before start, got %+v", a)
	}

	// A later assignment bounds the earlier one.
	if _, err := store.UpsertTaskAssignment("2025-02-01", "p", "February work"); err != nil {
		t.Fatal(err)
	}
	a, err = store.AssignmentCoveringDate("2025-01-31")
	if err != nil {
		t.Fatal(err)
	}
	if a == nil || a.Description != "January work" {
		t.Errorf("2025-01-31 should be the January assignment's derived end, got %+v", a)
	}
	a, err = store.AssignmentCoveringDate("2025-02-01")
	if err != nil {
		t.Fatal(err)
	}
	if a == nil || a.Description != "February work" {
		t.Errorf("2025-02-01 should start the February assignment, got %+v", a)
	}
}

func TestRemoveAssignment(t *testing.T) {
	store := openStore(t)

	if _, err := store.UpsertTaskAssignment("2025-01-01", "p", "d"); err != nil {
		t.Fatal(err)
	}
	if err := store.RemoveAssignment("2025-01-01"); err != nil {
		t.Fatalf("RemoveAssignment: %v", err)
	}
	if err := store.RemoveAssignment("2025-01-01"); err == nil {
		t.Error("expected error removing a missing assignment")
	}
}

func TestRecordAndListTimeEntries(t *testing.T) {
	store := openStore(t)

	start := time.Date(2025, 1, 6, 9, 0, 0, 0, time.Local)
	rec := model.TimeEntryRecord{
		RemoteID:        "remote-1",
		Date:            "2025-01-06",
		Description:     "General work",
		StartTime:       start,
		EndTime:         start.Add(9 * time.Hour),
		DurationMinutes: 540,
		ProjectID:       "proj",
		WorkspaceID:     "ws",
	}
	if err := store.RecordTimeEntry(rec); err != nil {
		t.Fatalf("RecordTimeEntry: %v", err)
	}

	has, err := store.HasLocalEntryForDate("2025-01-06")
	if err != nil {
		t.Fatal(err)
	}
	if !has {
		t.Error("HasLocalEntryForDate = false after recording")
	}

	records, err := store.TimeEntriesForDate("2025-01-06")
	if err != nil {
		t.Fatalf("TimeEntriesForDate: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	got := records[0]
	if got.ID == "" {
		t.Error("expected a generated local id")
	}
	if got.RemoteID != "remote-1" || got.DurationMinutes != 540 {
		t.Errorf("record = %+v", got)
	}
	if !got.StartTime.Equal(start) {
		t.Errorf("start = %v, want %v", got.StartTime, start)
	}

	has, err = store.HasLocalEntryForDate("2025-01-07")
	if err != nil {
		t.Fatal(err)
	}
	if has {
		t.Error("HasLocalEntryForDate = true for empty date")
	}
}

func TestRemoteIDUnique(t *testing.T) {
	store := openStore(t)

	rec := model.TimeEntryRecord{
		RemoteID:        "remote-1",
		Date:            "2025-01-06",
		Description:     "d",
		StartTime:       time.Now(),
		EndTime:         time.Now().Add(time.Hour),
		DurationMinutes: 60,
		ProjectID:       "p",
		WorkspaceID:     "w",
	}
	if err := store.RecordTimeEntry(rec); err != nil {
		t.Fatal(err)
	}
	rec.ID = ""
	rec.Date = "2025-01-07"
	if err := store.RecordTimeEntry(rec); err == nil {
		t.Error("expected unique-constraint error for duplicate remote id")
	}
}

func TestRemoveTimeEntryByRemoteID(t *testing.T) {
	store := openStore(t)

	rec := model.TimeEntryRecord{
		RemoteID:        "remote-9",
		Date:            "2025-01-06",
		Description:     "d",
		StartTime:       time.Now(),
		EndTime:         time.Now().Add(time.Hour),
		DurationMinutes: 60,
		ProjectID:       "p",
		WorkspaceID:     "w",
	}
	if err := store.RecordTimeEntry(rec); err != nil {
		t.Fatal(err)
	}
	if err := store.RemoveTimeEntryByRemoteID("remote-9"); err != nil {
		t.Fatalf("RemoveTimeEntryByRemoteID: %v", err)
	}
	has, err := store.HasLocalEntryForDate("2025-01-06")
	if err != nil {
		t.Fatal(err)
	}
	if has {
		t.Error("record should be gone after removal")
	}
}

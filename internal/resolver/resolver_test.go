package resolver_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mihazs/clockify-auto-fill/internal/model"
	"github.com/mihazs/clockify-auto-fill/internal/resolver"
)

type fakeAssignments struct {
	covering map[string]*model.TaskAssignment
	err      error
}

func (f *fakeAssignments) AssignmentCoveringDate(date string) (*model.TaskAssignment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.covering[date], nil
}

type fakeTracker struct {
	title string
	ok    bool
	err   error
	calls int
}

func (f *fakeTracker) CurrentTaskTitle(ctx context.Context) (string, bool, error) {
	f.calls++
	return f.title, f.ok, f.err
}

func TestAssignmentWins(t *testing.T) {
	assignments := &fakeAssignments{covering: map[string]*model.TaskAssignment{
		"2025-01-15": {StartDate: "2025-01-01", Description: "Project Alpha"},
	}}
	tracker := &fakeTracker{title: "JIRA-42 title", ok: true}
	r := resolver.New(assignments, tracker)
	r.PrefetchTaskTitle(context.Background())

	got, err := r.DescriptionForDate(context.Background(), "2025-01-15")
	if err != nil {
		t.Fatalf("DescriptionForDate: %v", err)
	}
	if got != "Project Alpha" {
		t.Errorf("description = %q, want the assignment's", got)
	}
}

func TestTrackerTitleFallback(t *testing.T) {
	r := resolver.New(&fakeAssignments{}, &fakeTracker{title: "JIRA-42 title", ok: true})
	r.PrefetchTaskTitle(context.Background())

	got, err := r.DescriptionForDate(context.Background(), "2025-01-15")
	if err != nil {
		t.Fatal(err)
	}
	if got != "JIRA-42 title" {
		t.Errorf("description = %q, want the tracker title", got)
	}
}

func TestDefaultFallback(t *testing.T) {
	r := resolver.New(&fakeAssignments{}, &fakeTracker{})
	r.PrefetchTaskTitle(context.Background())

	got, err := r.DescriptionForDate(context.Background(), "2025-01-15")
	if err != nil {
		t.Fatal(err)
	}
	if got != resolver.DefaultDescription {
		t.Errorf("description = %q, want %q", got, resolver.DefaultDescription)
	}
}

func TestTrackerFailureNeverFailsResolution(t *testing.T) {
	tracker := &fakeTracker{err: errors.New("jira is down")}
	r := resolver.New(&fakeAssignments{}, tracker)
	r.PrefetchTaskTitle(context.Background())

	got, err := r.DescriptionForDate(context.Background(), "2025-01-15")
	if err != nil {
		t.Fatalf("resolution must survive a tracker failure, got %v", err)
	}
	if got != resolver.DefaultDescription {
		t.Errorf("description = %q, want %q", got, resolver.DefaultDescription)
	}
}

func TestAssignmentWinsRegardlessOfTracker(t *testing.T) {
	// The spec's property: assignment coverage resolves identically whether
	// the tracker is up or down.
	assignments := &fakeAssignments{covering: map[string]*model.TaskAssignment{
		"2025-01-15": {StartDate: "2025-01-01", Description: "Project Alpha"},
	}}

	for _, tracker := range []*fakeTracker{
		{title: "JIRA-42 title", ok: true},
		{err: errors.New("jira is down")},
	} {
		r := resolver.New(assignments, tracker)
		r.PrefetchTaskTitle(context.Background())
		got, err := r.DescriptionForDate(context.Background(), "2025-01-15")
		if err != nil {
			t.Fatal(err)
		}
		if got != "Project Alpha" {
			t.Errorf("description = %q, want Project Alpha", got)
		}
	}
}

func TestPrefetchIsOneShot(t *testing.T) {
	tracker := &fakeTracker{title: "JIRA-42 title", ok: true}
	r := resolver.New(&fakeAssignments{}, tracker)
	r.PrefetchTaskTitle(context.Background())

	for _, date := range []string{"2025-01-13", "2025-01-14", "2025-01-15"} {
		if _, err := r.DescriptionForDate(context.Background(), date); err != nil {
			t.Fatal(err)
		}
	}
	if tracker.calls != 1 {
		t.Errorf("tracker calls = %d, want exactly 1 for the whole run", tracker.calls)
	}
}

func TestDirectResolutionQueriesTracker(t *testing.T) {
	tracker := &fakeTracker{title: "Fresh title", ok: true}
	r := resolver.New(&fakeAssignments{}, tracker)

	// No prefetch; the direct path must consult the tracker itself.
	got, err := r.DescriptionForDateDirect(context.Background(), "2025-01-15")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Fresh title" {
		t.Errorf("description = %q, want the fresh tracker title", got)
	}
	if tracker.calls != 1 {
		t.Errorf("tracker calls = %d, want 1", tracker.calls)
	}
}

func TestLedgerErrorPropagates(t *testing.T) {
	r := resolver.New(&fakeAssignments{err: errors.New("disk failure")}, &fakeTracker{})
	if _, err := r.DescriptionForDate(context.Background(), "2025-01-15"); err == nil {
		t.Error("storage errors must propagate")
	}
	if _, err := r.DescriptionForDateDirect(context.Background(), "2025-01-15"); err == nil {
		t.Error("storage errors must propagate on the direct path")
	}
}

package resolver

import (
	"context"

	"github.com/mihazs/clockify-auto-fill/internal/logger"
	"github.com/mihazs/clockify-auto-fill/internal/model"
)

// DefaultDescription is the final fallback when neither an assignment nor the
// issue tracker yields a description.
const DefaultDescription = "General work"

// AssignmentSource looks up the task assignment covering a date.
type AssignmentSource interface {
	AssignmentCoveringDate(date string) (*model.TaskAssignment, error)
}

// TaskSource provides the current issue-tracker task title.
type TaskSource interface {
	CurrentTaskTitle(ctx context.Context) (title string, ok bool, err error)
}

// Resolver produces the description for a date: a covering assignment wins,
// then the run-scoped tracker title, then DefaultDescription. It always yields
// some description; only local-storage errors propagate.
type Resolver struct {
	assignments AssignmentSource
	tracker     TaskSource

	// One-shot tracker result, fetched once per run via PrefetchTaskTitle and
	// read-only afterwards (safe for concurrent per-date resolution).
	title   string
	titleOK bool
}

// New creates a resolver over the given collaborators.
func New(assignments AssignmentSource, tracker TaskSource) *Resolver {
	return &Resolver{assignments: assignments, tracker: tracker}
}

// PrefetchTaskTitle performs the single issue-tracker lookup for a run.
// Failures are logged and treated as "no title available".
func (r *Resolver) PrefetchTaskTitle(ctx context.Context) {
	title, ok, err := r.tracker.CurrentTaskTitle(ctx)
	if err != nil {
		logger.Warn("issue tracker lookup failed, continuing without a task title",
			logger.F("error", err))
		return
	}
	r.title, r.titleOK = title, ok
}

// DescriptionForDate resolves the description using the prefetched title.
func (r *Resolver) DescriptionForDate(ctx context.Context, date string) (string, error) {
	assignment, err := r.assignments.AssignmentCoveringDate(date)
	if err != nil {
		return "", err
	}
	if assignment != nil {
		return assignment.Description, nil
	}
	if r.titleOK && r.title != "" {
		return r.title, nil
	}
	return DefaultDescription, nil
}

// DescriptionForDateDirect resolves with a fresh tracker lookup instead of the
// prefetched value. Used by the today path, which runs on its own.
func (r *Resolver) DescriptionForDateDirect(ctx context.Context, date string) (string, error) {
	assignment, err := r.assignments.AssignmentCoveringDate(date)
	if err != nil {
		return "", err
	}
	if assignment != nil {
		return assignment.Description, nil
	}

	title, ok, err := r.tracker.CurrentTaskTitle(ctx)
	if err != nil {
		logger.Warn("issue tracker lookup failed, using default description",
			logger.F("error", err))
	} else if ok && title != "" {
		return title, nil
	}
	return DefaultDescription, nil
}

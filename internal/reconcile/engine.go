package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mihazs/clockify-auto-fill/internal/clockify"
	"github.com/mihazs/clockify-auto-fill/internal/logger"
	"github.com/mihazs/clockify-auto-fill/internal/model"
)

// EntryClient is the remote time-entry surface the engine drives.
type EntryClient interface {
	HasEntryForDate(ctx context.Context, date string) (bool, error)
	CreateEntry(ctx context.Context, description, date string, start, end *time.Time) (*clockify.TimeEntry, error)
	ProjectID() string
	WorkspaceID() string
}

// DescriptionSource yields descriptions for dates.
type DescriptionSource interface {
	PrefetchTaskTitle(ctx context.Context)
	DescriptionForDate(ctx context.Context, date string) (string, error)
	DescriptionForDateDirect(ctx context.Context, date string) (string, error)
}

// Ledger records entries the engine created.
type Ledger interface {
	RecordTimeEntry(rec model.TimeEntryRecord) error
}

// Calendar classifies working days.
type Calendar interface {
	IsBusinessDay(date time.Time) bool
	SkipReason(date time.Time) (string, bool)
	LastBusinessDayOfMonth(date time.Time) time.Time
}

// Options tunes the batching policy. Zero values take the reference defaults.
type Options struct {
	CheckBatchSize   int           // existence checks per concurrent batch (default 10)
	CreateBatchSize  int           // creations per concurrent batch (default 5)
	CheckBatchDelay  time.Duration // pause between check batches (default 1s)
	CreateBatchDelay time.Duration // pause between create batches (default 500ms)
	Now              func() time.Time
}

func (o Options) withDefaults() Options {
	if o.CheckBatchSize <= 0 {
		o.CheckBatchSize = 10
	}
	if o.CreateBatchSize <= 0 {
		o.CreateBatchSize = 5
	}
	if o.CheckBatchDelay == 0 {
		o.CheckBatchDelay = time.Second
	}
	if o.CreateBatchDelay == 0 {
		o.CreateBatchDelay = 500 * time.Millisecond
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// DateError pairs a date with what went wrong there.
type DateError struct {
	Date string
	Err  string
}

// SkippedDate pairs a date with its eligibility skip reason.
type SkippedDate struct {
	Date   string
	Reason string
}

// Summary aggregates one gap-fill run. It is the basis of the CLI report.
type Summary struct {
	RunID       string
	WindowStart string
	WindowEnd   string
	Eligible    int           // business days whose existence was checked
	Skipped     []SkippedDate // weekend/holiday dates excluded up front
	Gaps        int           // eligible dates with no remote entry
	Created     int
	Failed      []DateError // per-date create failures
	Unknown     []DateError // existence check itself failed; excluded from gaps
}

// Engine orchestrates the gap-fill phases. Collaborators are passed in
// explicitly so tests can substitute fakes.
type Engine struct {
	client   EntryClient
	resolver DescriptionSource
	ledger   Ledger
	calendar Calendar
	opts     Options
}

// New creates an engine.
func New(client EntryClient, resolver DescriptionSource, ledger Ledger, calendar Calendar, opts Options) *Engine {
	return &Engine{
		client:   client,
		resolver: resolver,
		ledger:   ledger,
		calendar: calendar,
		opts:     opts.withDefaults(),
	}
}

// window returns [first day of previous month, yesterday]. Today is handled by
// the separate FillToday path since the day may not be over.
func (e *Engine) window() (time.Time, time.Time) {
	now := e.opts.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
	return start, today.AddDate(0, 0, -1)
}

type checkResult struct {
	date string
	has  bool
	err  error
}

// checkBatch issues existence checks for the dates concurrently and waits for
// all of them. A failed check never aborts its siblings.
func (e *Engine) checkBatch(ctx context.Context, dates []string) []checkResult {
	results := make([]checkResult, len(dates))
	var wg sync.WaitGroup
	for i, d := range dates {
		wg.Add(1)
		go func(i int, date string) {
			defer wg.Done()
			has, err := e.client.HasEntryForDate(ctx, date)
			results[i] = checkResult{date: date, has: has, err: err}
		}(i, d)
	}
	wg.Wait()
	return results
}

type createResult struct {
	date  string
	err   error
	fatal error // ledger failure; aborts the run after the batch drains
}

// createBatch resolves descriptions and creates entries for the dates
// concurrently, recording each success in the ledger as its own commit.
func (e *Engine) createBatch(ctx context.Context, dates []string) []createResult {
	results := make([]createResult, len(dates))
	var wg sync.WaitGroup
	for i, d := range dates {
		wg.Add(1)
		go func(i int, date string) {
			defer wg.Done()
			results[i] = e.createOne(ctx, date)
		}(i, d)
	}
	wg.Wait()
	return results
}

func (e *Engine) createOne(ctx context.Context, date string) createResult {
	description, err := e.resolver.DescriptionForDate(ctx, date)
	if err != nil {
		// Resolution only fails on local-storage errors, which are fatal.
		return createResult{date: date, fatal: fmt.Errorf("resolving description for %s: %w", date, err)}
	}

	entry, err := e.client.CreateEntry(ctx, description, date, nil, nil)
	if err != nil {
		logger.Warn("failed to create entry", logger.F("date", date), logger.F("error", err))
		return createResult{date: date, err: err}
	}

	if err := e.recordEntry(date, description, entry); err != nil {
		return createResult{date: date, fatal: err}
	}
	return createResult{date: date}
}

// recordEntry writes the local record for a successfully created remote entry.
func (e *Engine) recordEntry(date, description string, entry *clockify.TimeEntry) error {
	rec := model.TimeEntryRecord{
		ID:              uuid.New().String(),
		RemoteID:        entry.ID,
		Date:            date,
		Description:     description,
		StartTime:       entry.TimeInterval.Start,
		EndTime:         entry.TimeInterval.End,
		DurationMinutes: int(entry.TimeInterval.End.Sub(entry.TimeInterval.Start).Minutes()),
		ProjectID:       e.client.ProjectID(),
		WorkspaceID:     e.client.WorkspaceID(),
	}
	if err := e.ledger.RecordTimeEntry(rec); err != nil {
		return fmt.Errorf("recording entry for %s: %w", date, err)
	}
	return nil
}

// FillGaps runs the gap-fill phases over the candidate window. Per-date
// failures are collected in the summary; only auth and local-storage errors
// abort the run (the partial summary is still returned alongside).
func (e *Engine) FillGaps(ctx context.Context) (*Summary, error) {
	windowStart, windowEnd := e.window()
	summary := &Summary{
		RunID:       uuid.New().String(),
		WindowStart: model.FormatDate(windowStart),
		WindowEnd:   model.FormatDate(windowEnd),
	}
	// Eligibility filter: weekdays that are not holidays, ascending.
	var eligible []string
	for _, date := range model.DateRange(windowStart, windowEnd) {
		day, err := model.ParseDate(date)
		if err != nil {
			return summary, fmt.Errorf("bad candidate date %s: %w", date, err)
		}
		if reason, skip := e.calendar.SkipReason(day); skip {
			summary.Skipped = append(summary.Skipped, SkippedDate{Date: date, Reason: reason})
			continue
		}
		eligible = append(eligible, date)
	}
	summary.Eligible = len(eligible)
	logger.Info("gap-fill window computed",
		logger.F("runID", summary.RunID),
		logger.F("from", summary.WindowStart), logger.F("to", summary.WindowEnd),
		logger.F("eligible", len(eligible)), logger.F("skipped", len(summary.Skipped)))

	// Batched existence checks. A date whose check errors is "unknown": it is
	// excluded from the missing set so an entry that may exist is never
	// duplicated, and surfaced in the summary instead.
	var missing []string
	for batchStart := 0; batchStart < len(eligible); batchStart += e.opts.CheckBatchSize {
		batch := eligible[batchStart:min(batchStart+e.opts.CheckBatchSize, len(eligible))]
		for _, res := range e.checkBatch(ctx, batch) {
			switch {
			case res.err != nil && clockify.IsAuth(res.err):
				return summary, fmt.Errorf("checking %s: %w", res.date, res.err)
			case res.err != nil:
				summary.Unknown = append(summary.Unknown, DateError{Date: res.date, Err: res.err.Error()})
			case !res.has:
				missing = append(missing, res.date)
			}
		}
		if batchStart+e.opts.CheckBatchSize < len(eligible) {
			time.Sleep(e.opts.CheckBatchDelay)
		}
	}

	summary.Gaps = len(missing)
	logger.Info("gap set computed", logger.F("gaps", len(missing)), logger.F("unknown", len(summary.Unknown)))
	if len(missing) == 0 {
		return summary, nil
	}

	// One issue-tracker lookup for the whole run, before any per-date work.
	e.resolver.PrefetchTaskTitle(ctx)

	// Batched creation with per-date failure isolation.
	for batchStart := 0; batchStart < len(missing); batchStart += e.opts.CreateBatchSize {
		batch := missing[batchStart:min(batchStart+e.opts.CreateBatchSize, len(missing))]
		for _, res := range e.createBatch(ctx, batch) {
			switch {
			case res.fatal != nil:
				return summary, res.fatal
			case res.err != nil && clockify.IsAuth(res.err):
				summary.Failed = append(summary.Failed, DateError{Date: res.date, Err: res.err.Error()})
				return summary, fmt.Errorf("creating entry for %s: %w", res.date, res.err)
			case res.err != nil:
				summary.Failed = append(summary.Failed, DateError{Date: res.date, Err: res.err.Error()})
			default:
				summary.Created++
			}
		}
		if batchStart+e.opts.CreateBatchSize < len(missing) {
			time.Sleep(e.opts.CreateBatchDelay)
		}
	}

	logger.Info("gap-fill finished",
		logger.F("created", summary.Created), logger.F("failed", len(summary.Failed)))
	return summary, nil
}

// ShouldGenerateMonthlyReport reports whether today is the last business day
// of the current month.
func (e *Engine) ShouldGenerateMonthlyReport() bool {
	now := e.opts.Now()
	last := e.calendar.LastBusinessDayOfMonth(now)
	return model.FormatDate(now) == model.FormatDate(last)
}

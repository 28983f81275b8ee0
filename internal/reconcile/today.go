package reconcile

import (
	"context"
	"fmt"

	"github.com/mihazs/clockify-auto-fill/internal/logger"
	"github.com/mihazs/clockify-auto-fill/internal/model"
)

// TodayResult reports what the today path did.
type TodayResult struct {
	Date          string
	SkipReason    string // non-empty when today is not a business day
	AlreadyExists bool
	Created       bool
	Description   string
}

// FillToday handles the current day outside the gap-fill window: one existence
// check, one create. The issue tracker is consulted directly since this path
// runs without the gap-fill prefetch.
func (e *Engine) FillToday(ctx context.Context) (*TodayResult, error) {
	now := e.opts.Now()
	result := &TodayResult{Date: model.FormatDate(now)}

	if reason, skip := e.calendar.SkipReason(now); skip {
		result.SkipReason = reason
		logger.Info("skipping today", logger.F("date", result.Date), logger.F("reason", reason))
		return result, nil
	}

	has, err := e.client.HasEntryForDate(ctx, result.Date)
	if err != nil {
		return result, fmt.Errorf("checking today's entry: %w", err)
	}
	if has {
		result.AlreadyExists = true
		logger.Info("today already has an entry", logger.F("date", result.Date))
		return result, nil
	}

	description, err := e.resolver.DescriptionForDateDirect(ctx, result.Date)
	if err != nil {
		return result, fmt.Errorf("resolving today's description: %w", err)
	}

	entry, err := e.client.CreateEntry(ctx, description, result.Date, nil, nil)
	if err != nil {
		return result, fmt.Errorf("creating today's entry: %w", err)
	}
	if err := e.recordEntry(result.Date, description, entry); err != nil {
		return result, err
	}

	result.Created = true
	result.Description = description
	return result, nil
}

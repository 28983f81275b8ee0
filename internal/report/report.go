package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mihazs/clockify-auto-fill/internal/clockify"
	"github.com/mihazs/clockify-auto-fill/internal/logger"
)

// FormatSecondsToISO8601 renders a duration in seconds as the PT{h}H{m}M
// format the rest of the app uses. Seconds are truncated; zero is "PT0M".
func FormatSecondsToISO8601(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	if hours == 0 {
		return fmt.Sprintf("PT%dM", minutes)
	}
	return fmt.Sprintf("PT%dH%dM", hours, minutes)
}

// Source fetches report rows; satisfied by the Clockify client.
type Source interface {
	DetailedReport(ctx context.Context, start, end time.Time) ([]clockify.ReportEntry, error)
}

// Generator renders monthly reports to text files.
type Generator struct {
	source Source
	outDir string
}

// NewGenerator creates a report generator writing into outDir.
func NewGenerator(source Source, outDir string) *Generator {
	return &Generator{source: source, outDir: outDir}
}

// Render formats report rows as a human-readable month summary.
func Render(year int, month time.Month, entries []clockify.ReportEntry) string {
	sorted := make([]clockify.ReportEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].TimeInterval.Start.Before(sorted[j].TimeInterval.Start)
	})

	var b strings.Builder
	fmt.Fprintf(&b, "Time report — %04d-%02d\n", year, int(month))
	fmt.Fprintf(&b, "%s\n", strings.Repeat("─", 60))

	var totalSeconds int64
	for _, e := range sorted {
		totalSeconds += e.TimeInterval.Duration
		fmt.Fprintf(&b, "%s  %-40s  %s\n",
			e.TimeInterval.Start.Format("2006-01-02"),
			truncate(e.Description, 40),
			FormatSecondsToISO8601(e.TimeInterval.Duration))
	}

	fmt.Fprintf(&b, "%s\n", strings.Repeat("─", 60))
	fmt.Fprintf(&b, "Entries: %d  Total: %s\n", len(sorted), FormatSecondsToISO8601(totalSeconds))
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// MonthlyReport fetches the month's entries and writes the rendered report.
// It returns the written file's path.
func (g *Generator) MonthlyReport(ctx context.Context, year int, month time.Month) (string, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0).Add(-time.Second)

	entries, err := g.source.DetailedReport(ctx, start, end)
	if err != nil {
		return "", fmt.Errorf("fetching report entries: %w", err)
	}

	if err := os.MkdirAll(g.outDir, 0755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}

	path := filepath.Join(g.outDir, fmt.Sprintf("report-%04d-%02d.txt", year, int(month)))
	if err := os.WriteFile(path, []byte(Render(year, month, entries)), 0644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	logger.Info("monthly report written",
		logger.F("path", path), logger.F("entries", len(entries)))
	return path, nil
}

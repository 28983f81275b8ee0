package report_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mihazs/clockify-auto-fill/internal/clockify"
	"github.com/mihazs/clockify-auto-fill/internal/report"
)

func TestFormatSecondsToISO8601(t *testing.T) {
	cases := []struct {
		seconds int64
		want    string
	}{
		{0, "PT0M"},
		{59, "PT0M"},
		{60, "PT1M"},
		{3600, "PT1H0M"},
		{3661, "PT1H1M"},
		{32400, "PT9H0M"},
		{-120, "PT0M"},
	}
	for _, tc := range cases {
		if got := report.FormatSecondsToISO8601(tc.seconds); got != tc.want {
			t.Errorf("FormatSecondsToISO8601(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func reportEntry(day string, description string, seconds int64) clockify.ReportEntry {
	start, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	var e clockify.ReportEntry
	e.Description = description
	e.TimeInterval.Start = start.Add(9 * time.Hour)
	e.TimeInterval.End = start.Add(9 * time.Hour).Add(time.Duration(seconds) * time.Second)
	e.TimeInterval.Duration = seconds
	return e
}

func TestRenderSortsAndTotals(t *testing.T) {
	entries := []clockify.ReportEntry{
		reportEntry("2025-01-08", "Later work", 3600),
		reportEntry("2025-01-06", "Earlier work", 32400),
	}

	out := report.Render(2025, time.January, entries)

	earlier := strings.Index(out, "Earlier work")
	later := strings.Index(out, "Later work")
	if earlier == -1 || later == -1 || earlier > later {
		t.Errorf("entries not in chronological order:\n%s", out)
	}
	if !strings.Contains(out, "Entries: 2") {
		t.Errorf("missing entry count:\n%s", out)
	}
	if !strings.Contains(out, "Total: PT10H0M") {
		t.Errorf("missing total:\n%s", out)
	}
}

type fakeSource struct {
	entries []clockify.ReportEntry
	err     error
}

func (f *fakeSource) DetailedReport(ctx context.Context, start, end time.Time) ([]clockify.ReportEntry, error) {
	return f.entries, f.err
}

func TestMonthlyReportWritesFile(t *testing.T) {
	dir := t.TempDir()
	source := &fakeSource{entries: []clockify.ReportEntry{
		reportEntry("2025-01-06", "General work", 32400),
	}}

	path, err := report.NewGenerator(source, dir).MonthlyReport(context.Background(), 2025, time.January)
	if err != nil {
		t.Fatalf("MonthlyReport: %v", err)
	}
	if filepath.Base(path) != "report-2025-01.txt" {
		t.Errorf("file name = %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	if !strings.Contains(string(data), "General work") {
		t.Errorf("report content:\n%s", data)
	}
	if !strings.Contains(string(data), "PT9H0M") {
		t.Errorf("report missing formatted duration:\n%s", data)
	}
}

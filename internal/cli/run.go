package cli

import (
	"fmt"
	"time"

	"github.com/mihazs/clockify-auto-fill/internal/clockify"
	"github.com/mihazs/clockify-auto-fill/internal/ledger"
	"github.com/mihazs/clockify-auto-fill/internal/logger"
	"github.com/mihazs/clockify-auto-fill/internal/reconcile"
	"github.com/mihazs/clockify-auto-fill/internal/report"
	"github.com/mihazs/clockify-auto-fill/internal/resolver"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Create today's entry and backfill missing ones",
	Long: `Create a time entry for today (if the day is a working day and has
none yet), then scan from the first day of the previous month through
yesterday and create entries for every working day that lacks one.

On the last business day of the month, the monthly report is generated.`,
	RunE: runRun,
}

var (
	runSkipToday    bool
	runSkipBackfill bool
)

func init() {
	runCmd.Flags().BoolVar(&runSkipToday, "skip-today", false, "Do not create today's entry")
	runCmd.Flags().BoolVar(&runSkipBackfill, "skip-backfill", false, "Do not backfill the historical window")
}

func runRun(cmd *cobra.Command, args []string) error {
	store, err := ledger.OpenDefault()
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	client, err := newClockifyClient()
	if err != nil {
		return err
	}

	res := resolver.New(store, newJiraClient())
	engine := reconcile.New(client, res, store, newClassifier(), reconcile.Options{})
	ctx := cmd.Context()

	if !runSkipToday {
		today, err := engine.FillToday(ctx)
		switch {
		case err != nil && clockify.IsAuth(err):
			return err
		case err != nil:
			// The backfill may still make progress; don't abort the run.
			fmt.Printf("⚠ Today's entry failed: %v\n", err)
			logger.Warn("today path failed", logger.F("error", err))
		case today.SkipReason != "":
			fmt.Printf("⏭ Skipping today (%s): %s\n", today.Date, today.SkipReason)
		case today.AlreadyExists:
			fmt.Printf("✓ Today (%s) already has an entry\n", today.Date)
		default:
			fmt.Printf("✓ Created today's entry (%s): %q\n", today.Date, today.Description)
		}
	}

	if !runSkipBackfill {
		summary, err := engine.FillGaps(ctx)
		printSummary(summary)
		if err != nil {
			return err
		}
	}

	if engine.ShouldGenerateMonthlyReport() {
		now := time.Now()
		gen := report.NewGenerator(client, cfg.ReportDir)
		path, err := gen.MonthlyReport(ctx, now.Year(), now.Month())
		if err != nil {
			// Best-effort: a failed report never fails a run that progressed.
			fmt.Printf("⚠ Monthly report failed: %v\n", err)
			logger.Warn("monthly report failed", logger.F("error", err))
		} else {
			fmt.Printf("📄 Monthly report written to %s\n", path)
		}
	}

	return nil
}

func printSummary(s *reconcile.Summary) {
	if s == nil {
		return
	}

	fmt.Printf("\nBackfill %s → %s\n", s.WindowStart, s.WindowEnd)
	fmt.Printf("  Working days checked: %d\n", s.Eligible)
	fmt.Printf("  Gaps found:           %d\n", s.Gaps)
	fmt.Printf("  Entries created:      %d\n", s.Created)
	fmt.Printf("  Entries failed:       %d\n", len(s.Failed))

	for _, f := range s.Failed {
		fmt.Printf("    ✗ %s: %s\n", f.Date, f.Err)
	}
	for _, u := range s.Unknown {
		fmt.Printf("    ? %s: existence unknown (%s), left untouched\n", u.Date, u.Err)
	}
}

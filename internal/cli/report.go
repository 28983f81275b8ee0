package cli

import (
	"fmt"
	"time"

	"github.com/mihazs/clockify-auto-fill/internal/report"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report [YYYY-MM]",
	Short: "Generate the monthly time report",
	Long: `Fetch the month's time entries from the reporting API and write a
text report (current month when no month is given).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	client, err := newClockifyClient()
	if err != nil {
		return err
	}

	now := time.Now()
	year, month := now.Year(), now.Month()
	if len(args) == 1 {
		parsed, err := time.Parse("2006-01", args[0])
		if err != nil {
			return fmt.Errorf("bad month %q, expected YYYY-MM", args[0])
		}
		year, month = parsed.Year(), parsed.Month()
	}

	gen := report.NewGenerator(client, cfg.ReportDir)
	path, err := gen.MonthlyReport(cmd.Context(), year, month)
	if err != nil {
		return err
	}

	fmt.Printf("📄 Report written to %s\n", path)
	return nil
}

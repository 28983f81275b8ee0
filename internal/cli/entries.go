package cli

import (
	"fmt"
	"strings"

	"github.com/mihazs/clockify-auto-fill/internal/ledger"
	"github.com/mihazs/clockify-auto-fill/internal/model"
	"github.com/spf13/cobra"
)

var entriesCmd = &cobra.Command{
	Use:   "entries [date]",
	Short: "List locally recorded time entries for a date",
	Long: `List the time entries this tool created for a date (today when
omitted). Only entries created by clockify-auto-fill appear here.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEntries,
}

var entriesDeleteCmd = &cobra.Command{
	Use:   "delete <remote-id>",
	Short: "Delete a remote time entry and its local record",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntriesDelete,
}

func init() {
	entriesCmd.AddCommand(entriesDeleteCmd)
}

func runEntries(cmd *cobra.Command, args []string) error {
	store, err := ledger.OpenDefault()
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	date := model.Today()
	if len(args) == 1 {
		date = args[0]
	}
	if _, err := model.ParseDate(date); err != nil {
		return fmt.Errorf("bad date %q, expected YYYY-MM-DD", date)
	}

	records, err := store.TimeEntriesForDate(date)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Printf("No recorded entries for %s.\n", date)
		return nil
	}

	fmt.Printf("\n%s — %d entr%s\n", date, len(records), plural(len(records), "y", "ies"))
	fmt.Println(strings.Repeat("─", 60))
	for _, rec := range records {
		fmt.Printf("  %s–%s  %-30s  %4dm  %s\n",
			rec.StartTime.Format("15:04"), rec.EndTime.Format("15:04"),
			rec.Description, rec.DurationMinutes, rec.RemoteID)
	}
	fmt.Println()
	return nil
}

func runEntriesDelete(cmd *cobra.Command, args []string) error {
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

	remoteID := args[0]
	if err := client.DeleteEntry(cmd.Context(), remoteID); err != nil {
		return err
	}
	if err := store.RemoveTimeEntryByRemoteID(remoteID); err != nil {
		return err
	}

	fmt.Printf("✓ Deleted entry %s\n", remoteID)
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

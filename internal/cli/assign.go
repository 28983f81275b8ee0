package cli

import (
	"fmt"
	"strings"

	"github.com/mihazs/clockify-auto-fill/internal/ledger"
	"github.com/spf13/cobra"
)

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Manage task assignments",
	Long: `Manage task assignments. An assignment describes your work from its
start date until the next assignment begins; the most recent one runs
through today.`,
}

var assignSetCmd = &cobra.Command{
	Use:   "set <start-date> <description>",
	Short: "Create or replace the assignment starting on a date",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runAssignSet,
}

var assignListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List assignments with their effective ranges",
	RunE:    runAssignList,
}

var assignRemoveCmd = &cobra.Command{
	Use:     "remove <start-date>",
	Aliases: []string{"rm"},
	Short:   "Remove the assignment starting on a date",
	Args:    cobra.ExactArgs(1),
	RunE:    runAssignRemove,
}

var assignProject string

func init() {
	assignSetCmd.Flags().StringVarP(&assignProject, "project", "P", "", "Project ID (defaults to the configured project)")

	assignCmd.AddCommand(assignSetCmd)
	assignCmd.AddCommand(assignListCmd)
	assignCmd.AddCommand(assignRemoveCmd)
}

func runAssignSet(cmd *cobra.Command, args []string) error {
	store, err := ledger.OpenDefault()
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	startDate := args[0]
	description := strings.Join(args[1:], " ")

	projectID := assignProject
	if projectID == "" {
		projectID = cfg.ProjectID
	}
	if projectID == "" {
		return fmt.Errorf("no project configured, pass --project or run setup")
	}

	if _, err := store.UpsertTaskAssignment(startDate, projectID, description); err != nil {
		return err
	}

	fmt.Printf("✓ From %s: %q [%s]\n", startDate, description, projectID)
	return nil
}

func runAssignList(cmd *cobra.Command, args []string) error {
	store, err := ledger.OpenDefault()
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	assignments, err := store.AllTaskAssignments()
	if err != nil {
		return err
	}

	if len(assignments) == 0 {
		fmt.Println("No assignments. Add one with: clockify-auto-fill assign set 2025-01-01 \"Your task\"")
		return nil
	}

	fmt.Printf("\n%d assignment(s)\n", len(assignments))
	fmt.Println(strings.Repeat("─", 60))
	for _, a := range assignments {
		fmt.Printf("  %s → %s  %-30s  [%s]\n", a.StartDate, a.EndDate, a.Description, a.ProjectID)
	}
	fmt.Println()
	return nil
}

func runAssignRemove(cmd *cobra.Command, args []string) error {
	store, err := ledger.OpenDefault()
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	if err := store.RemoveAssignment(args[0]); err != nil {
		return err
	}

	fmt.Printf("✓ Removed assignment starting %s\n", args[0])
	return nil
}

package cli

import (
	"fmt"

	"github.com/mihazs/clockify-auto-fill/internal/importer"
	"github.com/mihazs/clockify-auto-fill/internal/ledger"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "One-shot import of task assignments from CSV",
	Long: `Migrate historical task assignments from a CSV file with columns
start_date,project_id,description. The import only runs against an empty
ledger, so re-running it is harmless.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	store, err := ledger.OpenDefault()
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	result, err := importer.ImportAssignments(store, args[0])
	if err != nil {
		return err
	}

	if result.Skipped {
		fmt.Println("Ledger already has assignments; nothing imported.")
		return nil
	}

	fmt.Printf("✓ Imported %d assignment(s)\n", result.Imported)
	return nil
}

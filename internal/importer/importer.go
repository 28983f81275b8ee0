package importer

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/mihazs/clockify-auto-fill/internal/logger"
	"github.com/mihazs/clockify-auto-fill/internal/model"
)

// Ledger is the destination of the one-shot migration.
type Ledger interface {
	CountAssignments() (int, error)
	UpsertTaskAssignment(startDate, projectID, description string) (int64, error)
}

// Result reports what the import did.
type Result struct {
	Imported int
	Skipped  bool // destination already had rows; nothing was imported
}

// ImportAssignments migrates historical task assignments from a CSV file with
// columns start_date,project_id,description (header optional). The import is
// idempotent: it refuses to run when the ledger already has assignments.
func ImportAssignments(ledger Ledger, path string) (*Result, error) {
	existing, err := ledger.CountAssignments()
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		logger.Info("import skipped, ledger already has assignments",
			logger.F("existing", existing))
		return &Result{Skipped: true}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening csv: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 3
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	result := &Result{}
	for i, rec := range records {
		startDate, projectID, description := rec[0], rec[1], rec[2]

		// Tolerate a header row in the first position.
		if i == 0 {
			if _, err := model.ParseDate(startDate); err != nil {
				continue
			}
		}

		if _, err := model.ParseDate(startDate); err != nil {
			return result, fmt.Errorf("row %d: bad start date %q: %w", i+1, startDate, err)
		}
		if _, err := ledger.UpsertTaskAssignment(startDate, projectID, description); err != nil {
			return result, fmt.Errorf("row %d: %w", i+1, err)
		}
		result.Imported++
	}

	logger.Info("csv import finished", logger.F("imported", result.Imported))
	return result, nil
}

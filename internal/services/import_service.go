package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/RDubya18/sprig-mobile/internal/core"
	"github.com/RDubya18/sprig-mobile/internal/ingest"
	"github.com/RDubya18/sprig-mobile/internal/log"
)

// ImportState is the current stage of an import. Stages run strictly in
// sequence; any stage error collapses the import to StateFailed.
type ImportState string

const (
	StateIdle         ImportState = "idle"
	StateParsing      ImportState = "parsing"
	StateDeduping     ImportState = "deduping"
	StateInserting    ImportState = "inserting"
	StateCategorizing ImportState = "categorizing"
	StateDone         ImportState = "done"
	StateFailed       ImportState = "failed"
)

// ImportService runs the CSV import pipeline:
// normalize -> dedup -> bulk insert -> categorize.
type ImportService struct {
	transactions TransactionStore
	ruleEngine   *RuleService
	events       EventPublisher
	logs         *log.StructuredLogger
}

func NewImportService(transactions TransactionStore, ruleEngine *RuleService, events EventPublisher) *ImportService {
	return &ImportService{
		transactions: transactions,
		ruleEngine:   ruleEngine,
		events:       events,
		logs:         log.NewStructuredLogger(log.New(log.Config{Component: log.ComponentImport})),
	}
}

// Import runs the pipeline over raw CSV text. Empty input is how a canceled
// file pick arrives and yields a zero-row summary, not an error.
//
// Dedup is checked against persisted data only: a file containing the same
// row twice inserts both copies. Duplicate detection is inter-import, not
// intra-batch.
func (s *ImportService) Import(ctx context.Context, csvText string, sample bool) (core.ImportSummary, error) {
	importID := uuid.NewString()
	summary := core.ImportSummary{Sample: sample}

	if strings.TrimSpace(csvText) == "" {
		slog.InfoContext(ctx, "Import canceled or empty, nothing to do", "import_id", importID)
		return summary, nil
	}

	state := StateParsing
	batch := ingest.Normalize(csvText)
	summary.Parsed = len(batch)

	state = StateDeduping
	fresh, duplicates, err := s.partition(ctx, batch)
	if err != nil {
		return s.fail(ctx, importID, state, err)
	}
	summary.Duplicates = duplicates

	state = StateInserting
	inserted, err := s.transactions.BulkInsertTransactions(ctx, fresh)
	if err != nil {
		return s.fail(ctx, importID, state, err)
	}
	summary.Inserted = inserted
	summary.Skipped = summary.Parsed - inserted

	// Run the rule pass after insert so previously-uncategorized historical
	// rows also benefit from rules added since the last import.
	state = StateCategorizing
	categorized, err := s.ruleEngine.ApplyRulesToUncategorized(ctx)
	if err != nil {
		return s.fail(ctx, importID, state, err)
	}

	state = StateDone
	s.logs.LogImportCompleted(ctx, importID, summary.Parsed, summary.Inserted, summary.Duplicates)
	slog.DebugContext(ctx, "Import detail",
		"import_id", importID,
		"skipped", summary.Skipped,
		"categorized", categorized,
		"sample", sample)

	if s.events != nil {
		if err := s.events.PublishImportCompleted(ctx, importID, summary); err != nil {
			// The import itself succeeded; the worker's periodic pass covers us.
			slog.WarnContext(ctx, "Failed to publish import completed event",
				"import_id", importID, "error", err)
		}
	}
	return summary, nil
}

// partition splits a batch into net-new records and a duplicate count using
// one signature lookup against storage.
func (s *ImportService) partition(ctx context.Context, batch []core.Transaction) ([]core.Transaction, int, error) {
	if len(batch) == 0 {
		return nil, 0, nil
	}

	seen := make(map[string]bool)
	var dates []string
	for _, t := range batch {
		if !seen[t.Date] {
			seen[t.Date] = true
			dates = append(dates, t.Date)
		}
	}

	existing, err := s.transactions.ExistingSignatures(ctx, dates)
	if err != nil {
		return nil, 0, fmt.Errorf("lookup signatures: %w", err)
	}

	var fresh []core.Transaction
	duplicates := 0
	for _, t := range batch {
		if _, dup := existing[t.Signature()]; dup {
			duplicates++
			continue
		}
		fresh = append(fresh, t)
	}
	return fresh, duplicates, nil
}

func (s *ImportService) fail(ctx context.Context, importID string, state ImportState, err error) (core.ImportSummary, error) {
	fields := log.NewFields()
	fields[log.FieldImportID] = importID
	fields["stage"] = string(state)
	s.logs.LogError(ctx, "Import failed", err, log.ComponentImport, log.OpImport, fields)
	return core.ImportSummary{}, fmt.Errorf("import %s: %w", state, err)
}

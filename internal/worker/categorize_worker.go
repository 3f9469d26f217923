package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/RDubya18/sprig-mobile/internal/amqp"
	"github.com/RDubya18/sprig-mobile/internal/services"
)

// CategorizeWorker re-runs the rule pass over uncategorized transactions.
// Imports and rule additions already run the pass inline; the worker is a
// backup mechanism in case a pass failed mid-way or a message was lost.
type CategorizeWorker struct {
	rules *services.RuleService
}

func NewCategorizeWorker(rules *services.RuleService) *CategorizeWorker {
	return &CategorizeWorker{rules: rules}
}

// HandleMessage processes a single recategorize message from AMQP.
func (w *CategorizeWorker) HandleMessage(ctx context.Context, msg *amqp.RecategorizeMessage) error {
	slog.InfoContext(ctx, "Processing recategorize message",
		"reason", msg.Reason,
		"import_id", msg.ImportID,
		"rule_id", msg.RuleID)

	updated, err := w.rules.ApplyRulesToUncategorized(ctx)
	if err != nil {
		return fmt.Errorf("apply rules: %w", err)
	}

	slog.InfoContext(ctx, "Recategorize pass complete",
		"reason", msg.Reason,
		"updated", updated)

	return nil
}

// RunPeriodic re-runs the rule pass on a fixed interval until ctx is done.
// The pass is idempotent, so overlapping triggers are harmless.
func (w *CategorizeWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "Starting periodic recategorize pass", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping periodic recategorize pass", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			updated, err := w.rules.ApplyRulesToUncategorized(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "Periodic recategorize pass failed", "error", err)
				continue
			}
			if updated > 0 {
				slog.InfoContext(ctx, "Periodic recategorize pass complete", "updated", updated)
			}
		}
	}
}

// Package services holds the application's use cases: the import pipeline,
// the categorization pass, and the read-side report/insight queries. Storage
// is consumed through narrow ports so each service can be tested against an
// in-memory fake.
package services

import (
	"context"

	"github.com/RDubya18/sprig-mobile/internal/core"
)

type (
	TransactionStore interface {
		BulkInsertTransactions(ctx context.Context, txs []core.Transaction) (int, error)
		ExistingSignatures(ctx context.Context, dates []string) (map[string]struct{}, error)
		UncategorizedTransactions(ctx context.Context) ([]core.Transaction, error)
		UpdateTransactionCategory(ctx context.Context, id int64, category string) error
	}

	RuleStore interface {
		ListRules(ctx context.Context) ([]core.Rule, error)
		AddRule(ctx context.Context, rule core.Rule) (core.Rule, error)
		DeleteRule(ctx context.Context, id int64) error
	}

	BudgetStore interface {
		ListBudgets(ctx context.Context) ([]core.Budget, error)
	}

	SpendReader interface {
		SumSpentForMonth(ctx context.Context, monthKey string) (float64, error)
		SpendByCategoryForMonth(ctx context.Context, monthKey string) ([]core.CategorySpend, error)
		DistinctCategories(ctx context.Context, monthKey string) ([]string, error)
	}

	// EventPublisher emits domain events for the background worker. A nil
	// publisher disables events; publish failures never fail the operation
	// that triggered them.
	EventPublisher interface {
		PublishImportCompleted(ctx context.Context, importID string, summary core.ImportSummary) error
		PublishRuleAdded(ctx context.Context, ruleID int64) error
	}
)

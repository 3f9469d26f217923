package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/RDubya18/sprig-mobile/internal/core"
)

// RuleService manages categorization rules and runs the auto-categorization
// pass over uncategorized transactions.
type RuleService struct {
	transactions TransactionStore
	rules        RuleStore
	events       EventPublisher
}

func NewRuleService(transactions TransactionStore, rules RuleStore, events EventPublisher) *RuleService {
	return &RuleService{
		transactions: transactions,
		rules:        rules,
		events:       events,
	}
}

// AddRule stores a rule and notifies the worker so existing uncategorized
// rows pick it up without waiting for the next import.
func (s *RuleService) AddRule(ctx context.Context, rule core.Rule) (core.Rule, error) {
	stored, err := s.rules.AddRule(ctx, rule)
	if err != nil {
		return core.Rule{}, fmt.Errorf("add rule: %w", err)
	}

	if s.events != nil {
		if err := s.events.PublishRuleAdded(ctx, stored.ID); err != nil {
			// Rule is saved; the periodic worker pass will catch up.
			slog.WarnContext(ctx, "Failed to publish rule added event", "rule_id", stored.ID, "error", err)
		}
	}
	return stored, nil
}

func (s *RuleService) DeleteRule(ctx context.Context, id int64) error {
	return s.rules.DeleteRule(ctx, id)
}

func (s *RuleService) ListRules(ctx context.Context) ([]core.Rule, error) {
	return s.rules.ListRules(ctx)
}

// ApplyRulesToUncategorized assigns a category to every uncategorized
// transaction matched by a rule. Rules arrive most-recently-created first
// and the first match wins. The pass is idempotent: already-categorized rows
// are never touched, so a second run with no new rules or rows updates
// nothing. A malformed regex disables that one rule for the pass; it never
// aborts it.
func (s *RuleService) ApplyRulesToUncategorized(ctx context.Context) (int, error) {
	rules, err := s.rules.ListRules(ctx)
	if err != nil {
		return 0, fmt.Errorf("load rules: %w", err)
	}
	if len(rules) == 0 {
		return 0, nil
	}

	uncategorized, err := s.transactions.UncategorizedTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("load uncategorized: %w", err)
	}

	badRules := make(map[int64]bool)
	updated := 0
	for _, tx := range uncategorized {
		target := tx.TargetText()
		for _, rule := range rules {
			if badRules[rule.ID] {
				continue
			}
			ok, err := rule.Matches(target)
			if err != nil {
				slog.WarnContext(ctx, "Skipping malformed rule pattern",
					"rule_id", rule.ID, "pattern", rule.Pattern, "error", err)
				badRules[rule.ID] = true
				continue
			}
			if !ok {
				continue
			}
			if err := s.transactions.UpdateTransactionCategory(ctx, tx.ID, rule.Category); err != nil {
				return updated, fmt.Errorf("update category: %w", err)
			}
			updated++
			break
		}
	}

	if updated > 0 {
		slog.InfoContext(ctx, "Categorization pass completed",
			"updated", updated, "scanned", len(uncategorized), "rules", len(rules))
	}
	return updated, nil
}

package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/RDubya18/sprig-mobile/internal/core"
)

// memStore is an in-memory stand-in for the SQLite repository, implementing
// the service ports with the same observable behavior.
type memStore struct {
	transactions []core.Transaction
	rules        []core.Rule
	budgets      []core.Budget
	nextTxID     int64
	nextRuleID   int64

	failInsert     error
	failSignatures error
}

func newMemStore() *memStore {
	return &memStore{nextTxID: 1, nextRuleID: 1}
}

func (m *memStore) BulkInsertTransactions(_ context.Context, txs []core.Transaction) (int, error) {
	if m.failInsert != nil {
		return 0, m.failInsert
	}
	for _, t := range txs {
		t.ID = m.nextTxID
		m.nextTxID++
		m.transactions = append(m.transactions, t)
	}
	return len(txs), nil
}

func (m *memStore) ExistingSignatures(_ context.Context, dates []string) (map[string]struct{}, error) {
	if m.failSignatures != nil {
		return nil, m.failSignatures
	}
	wanted := make(map[string]bool, len(dates))
	for _, d := range dates {
		wanted[d] = true
	}
	out := make(map[string]struct{})
	for _, t := range m.transactions {
		if wanted[t.Date] {
			out[t.Signature()] = struct{}{}
		}
	}
	return out, nil
}

func (m *memStore) UncategorizedTransactions(_ context.Context) ([]core.Transaction, error) {
	var out []core.Transaction
	for _, t := range m.transactions {
		if t.Category == nil || *t.Category == "" {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memStore) UpdateTransactionCategory(_ context.Context, id int64, category string) error {
	for i := range m.transactions {
		if m.transactions[i].ID == id {
			c := category
			m.transactions[i].Category = &c
			return nil
		}
	}
	return fmt.Errorf("transaction %d not found", id)
}

func (m *memStore) ListRules(_ context.Context) ([]core.Rule, error) {
	out := make([]core.Rule, len(m.rules))
	copy(out, m.rules)
	// Most recently created first, same as storage.
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memStore) AddRule(_ context.Context, rule core.Rule) (core.Rule, error) {
	rule.Pattern = strings.ToLower(strings.TrimSpace(rule.Pattern))
	if err := rule.Validate(); err != nil {
		return core.Rule{}, err
	}
	rule.ID = m.nextRuleID
	m.nextRuleID++
	rule.CreatedAt = fmt.Sprintf("2025-09-01 00:00:%02d", rule.ID)
	m.rules = append(m.rules, rule)
	return rule, nil
}

func (m *memStore) DeleteRule(_ context.Context, id int64) error {
	for i, r := range m.rules {
		if r.ID == id {
			m.rules = append(m.rules[:i], m.rules[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memStore) ListBudgets(_ context.Context) ([]core.Budget, error) {
	out := make([]core.Budget, len(m.budgets))
	copy(out, m.budgets)
	return out, nil
}

func (m *memStore) SumSpentForMonth(_ context.Context, monthKey string) (float64, error) {
	var spend float64
	for _, t := range m.transactions {
		if core.MonthKey(t.Date) == monthKey && t.Amount < 0 {
			spend += -t.Amount
		}
	}
	return spend, nil
}

func (m *memStore) SpendByCategoryForMonth(_ context.Context, monthKey string) ([]core.CategorySpend, error) {
	totals := make(map[string]float64)
	for _, t := range m.transactions {
		if core.MonthKey(t.Date) != monthKey || t.Amount >= 0 {
			continue
		}
		cat := "Uncategorized"
		if t.Category != nil && *t.Category != "" {
			cat = *t.Category
		}
		totals[cat] += -t.Amount
	}
	var out []core.CategorySpend
	for cat, spend := range totals {
		if spend > 0 {
			out = append(out, core.CategorySpend{Category: cat, Spend: spend})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Spend > out[j].Spend })
	return out, nil
}

func (m *memStore) DistinctCategories(_ context.Context, monthKey string) ([]string, error) {
	seen := make(map[string]bool)
	for _, t := range m.transactions {
		if monthKey != "" && core.MonthKey(t.Date) != monthKey {
			continue
		}
		if t.Category != nil && *t.Category != "" {
			seen[*t.Category] = true
		}
	}
	var out []string
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	importsCompleted []string
	rulesAdded       []int64
	err              error
}

func (p *recordingPublisher) PublishImportCompleted(_ context.Context, importID string, _ core.ImportSummary) error {
	if p.err != nil {
		return p.err
	}
	p.importsCompleted = append(p.importsCompleted, importID)
	return nil
}

func (p *recordingPublisher) PublishRuleAdded(_ context.Context, ruleID int64) error {
	if p.err != nil {
		return p.err
	}
	p.rulesAdded = append(p.rulesAdded, ruleID)
	return nil
}

func strptr(s string) *string { return &s }

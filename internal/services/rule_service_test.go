package services

import (
	"context"
	"testing"

	"github.com/RDubya18/sprig-mobile/internal/core"
)

func ruleFor(pattern, category string) core.Rule {
	return core.Rule{Pattern: pattern, MatchType: core.MatchContains, Category: category}
}

func seedUncategorized(store *memStore, descriptions ...string) {
	for _, d := range descriptions {
		desc := d
		store.transactions = append(store.transactions, core.Transaction{
			ID: store.nextTxID, Date: "2025-09-01", Description: &desc, Amount: -10,
		})
		store.nextTxID++
	}
}

func TestApplyRulesFirstMatchIsMostRecent(t *testing.T) {
	store := newMemStore()
	svc := NewRuleService(store, store, nil)
	ctx := context.Background()

	if _, err := svc.AddRule(ctx, ruleFor("coffee", "Dining")); err != nil {
		t.Fatalf("add rule: %v", err)
	}
	if _, err := svc.AddRule(ctx, ruleFor("coffee", "Treats")); err != nil {
		t.Fatalf("add rule: %v", err)
	}
	seedUncategorized(store, "COFFEE SHOP")

	updated, err := svc.ApplyRulesToUncategorized(ctx)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if updated != 1 {
		t.Fatalf("updated = %d, want 1", updated)
	}
	// The newer rule wins.
	if got := *store.transactions[0].Category; got != "Treats" {
		t.Fatalf("category = %q, want Treats", got)
	}
}

func TestApplyRulesIdempotent(t *testing.T) {
	store := newMemStore()
	svc := NewRuleService(store, store, nil)
	ctx := context.Background()

	if _, err := svc.AddRule(ctx, ruleFor("lyft", "Transport")); err != nil {
		t.Fatalf("add rule: %v", err)
	}
	seedUncategorized(store, "LYFT *RIDE", "GROCERY STORE")

	first, err := svc.ApplyRulesToUncategorized(ctx)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if first != 1 {
		t.Fatalf("first pass updated %d, want 1", first)
	}

	second, err := svc.ApplyRulesToUncategorized(ctx)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if second != 0 {
		t.Fatalf("second pass updated %d, want 0", second)
	}
}

func TestApplyRulesMalformedRegexSkipped(t *testing.T) {
	store := newMemStore()
	svc := NewRuleService(store, store, nil)
	ctx := context.Background()

	// Stored directly so validation does not reorder around the bad pattern.
	store.rules = append(store.rules,
		core.Rule{ID: 1, Pattern: "grocery", MatchType: core.MatchContains, Category: "Groceries"},
		core.Rule{ID: 2, Pattern: "([unclosed", MatchType: core.MatchRegex, Category: "Broken"},
	)
	store.nextRuleID = 3
	seedUncategorized(store, "GROCERY STORE")

	updated, err := svc.ApplyRulesToUncategorized(ctx)
	if err != nil {
		t.Fatalf("a malformed rule must not abort the pass: %v", err)
	}
	if updated != 1 {
		t.Fatalf("updated = %d, want 1", updated)
	}
	if got := *store.transactions[0].Category; got != "Groceries" {
		t.Fatalf("category = %q, want Groceries", got)
	}
}

func TestApplyRulesUsesMerchantOverDescription(t *testing.T) {
	store := newMemStore()
	svc := NewRuleService(store, store, nil)
	ctx := context.Background()

	if _, err := svc.AddRule(ctx, ruleFor("lyft", "Transport")); err != nil {
		t.Fatalf("add rule: %v", err)
	}
	merchant, desc := "Uber", "paid via lyft wallet"
	store.transactions = append(store.transactions, core.Transaction{
		ID: 1, Date: "2025-09-01", Merchant: &merchant, Description: &desc, Amount: -9,
	})
	store.nextTxID = 2

	updated, err := svc.ApplyRulesToUncategorized(ctx)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	// Merchant is the target text; the description must not be consulted.
	if updated != 0 {
		t.Fatalf("updated = %d, want 0", updated)
	}
}

func TestApplyRulesNoRulesNoScan(t *testing.T) {
	store := newMemStore()
	svc := NewRuleService(store, store, nil)
	seedUncategorized(store, "ANYTHING")

	updated, err := svc.ApplyRulesToUncategorized(context.Background())
	if err != nil || updated != 0 {
		t.Fatalf("got %d, %v", updated, err)
	}
}

func TestAddRulePublishesEvent(t *testing.T) {
	store := newMemStore()
	events := &recordingPublisher{}
	svc := NewRuleService(store, store, events)

	stored, err := svc.AddRule(context.Background(), ruleFor("netflix", "Subscriptions"))
	if err != nil {
		t.Fatalf("add rule: %v", err)
	}
	if len(events.rulesAdded) != 1 || events.rulesAdded[0] != stored.ID {
		t.Fatalf("events = %+v", events.rulesAdded)
	}
}

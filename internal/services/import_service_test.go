package services

import (
	"context"
	"errors"
	"strings"
	"testing"
)

const sampleCSV = "Date,Description,Merchant,Amount\n" +
	"9/1/2025,Paycheck,,1500\n" +
	"9/3/2025,Coffee shop,Blue Bottle,-5.75\n" +
	"9/4/2025,Ride home,Lyft,-23.40\n"

func newImportService(store *memStore, events EventPublisher) *ImportService {
	rules := NewRuleService(store, store, events)
	return NewImportService(store, rules, events)
}

func TestImportIdempotentDedup(t *testing.T) {
	store := newMemStore()
	svc := newImportService(store, nil)
	ctx := context.Background()

	first, err := svc.Import(ctx, sampleCSV, false)
	if err != nil {
		t.Fatalf("first import: %v", err)
	}
	if first.Parsed != 3 || first.Inserted != 3 || first.Duplicates != 0 || first.Skipped != 0 {
		t.Fatalf("first summary = %+v", first)
	}

	second, err := svc.Import(ctx, sampleCSV, false)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if second.Parsed != 3 || second.Inserted != 0 || second.Duplicates != 3 || second.Skipped != 3 {
		t.Fatalf("second summary = %+v", second)
	}
	if len(store.transactions) != 3 {
		t.Fatalf("store should still hold 3 rows, has %d", len(store.transactions))
	}
}

func TestImportIntraBatchDuplicatesBothInsert(t *testing.T) {
	store := newMemStore()
	svc := newImportService(store, nil)

	csvText := "Date,Description,Amount\n" +
		"2025-09-05,Same row,-10\n" +
		"2025-09-05,Same row,-10\n"
	summary, err := svc.Import(context.Background(), csvText, false)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	// Dedup is inter-import only; both in-file copies insert.
	if summary.Inserted != 2 || summary.Duplicates != 0 {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestImportEmptyInputIsCanceledPick(t *testing.T) {
	store := newMemStore()
	svc := newImportService(store, nil)

	for _, in := range []string{"", "   \n  "} {
		summary, err := svc.Import(context.Background(), in, false)
		if err != nil {
			t.Fatalf("empty input must not error: %v", err)
		}
		if summary.Parsed != 0 || summary.Inserted != 0 || summary.Duplicates != 0 {
			t.Fatalf("summary = %+v", summary)
		}
	}
}

func TestImportAppliesRulesAfterInsert(t *testing.T) {
	store := newMemStore()
	svc := newImportService(store, nil)
	ctx := context.Background()

	rules := NewRuleService(store, store, nil)
	if _, err := rules.AddRule(ctx, ruleFor("lyft", "Transport")); err != nil {
		t.Fatalf("add rule: %v", err)
	}

	if _, err := svc.Import(ctx, sampleCSV, false); err != nil {
		t.Fatalf("import: %v", err)
	}

	uncategorized, _ := store.UncategorizedTransactions(ctx)
	for _, tx := range uncategorized {
		if tx.Merchant != nil && strings.EqualFold(*tx.Merchant, "Lyft") {
			t.Fatalf("lyft row should have been categorized: %+v", tx)
		}
	}
}

func TestImportSampleFlag(t *testing.T) {
	store := newMemStore()
	svc := newImportService(store, nil)

	summary, err := svc.Import(context.Background(), sampleCSV, true)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !summary.Sample {
		t.Fatal("sample flag should carry through")
	}
}

func TestImportStorageFailurePropagates(t *testing.T) {
	store := newMemStore()
	store.failInsert = errors.New("disk full")
	svc := newImportService(store, nil)

	_, err := svc.Import(context.Background(), sampleCSV, false)
	if err == nil || !strings.Contains(err.Error(), "inserting") {
		t.Fatalf("expected inserting-stage error, got %v", err)
	}

	store = newMemStore()
	store.failSignatures = errors.New("db locked")
	svc = newImportService(store, nil)
	_, err = svc.Import(context.Background(), sampleCSV, false)
	if err == nil || !strings.Contains(err.Error(), "deduping") {
		t.Fatalf("expected deduping-stage error, got %v", err)
	}
}

func TestImportPublishesCompletionEvent(t *testing.T) {
	store := newMemStore()
	events := &recordingPublisher{}
	svc := newImportService(store, events)

	if _, err := svc.Import(context.Background(), sampleCSV, false); err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(events.importsCompleted) != 1 {
		t.Fatalf("expected 1 import event, got %d", len(events.importsCompleted))
	}

	// Publish failures never fail the import.
	events.err = errors.New("broker down")
	if _, err := svc.Import(context.Background(), "Date,Description,Amount\n2025-10-01,New,-1\n", false); err != nil {
		t.Fatalf("import should succeed despite publish failure: %v", err)
	}
}

func TestImportCountsMalformedRowsOutOfParsed(t *testing.T) {
	store := newMemStore()
	svc := newImportService(store, nil)

	csvText := "Date,Description,Amount\n" +
		"2025-09-01,Good,-3\n" +
		"bad-date,Dropped,-4\n" +
		"2025-09-02,Dropped too,not-a-number\n"
	summary, err := svc.Import(context.Background(), csvText, false)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if summary.Parsed != 1 || summary.Inserted != 1 {
		t.Fatalf("summary = %+v", summary)
	}
}

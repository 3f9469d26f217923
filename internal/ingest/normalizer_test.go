package ingest

import (
	"testing"
)

func TestNormalizeBasic(t *testing.T) {
	csvText := "Date,Description,Amount\n" +
		"9/1/2025,Paycheck,1500\n" +
		"9/3/2025,Coffee,-5.75\n"
	rows := Normalize(csvText)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Date != "2025-09-01" || rows[0].Amount != 1500 {
		t.Fatalf("first row = %+v", rows[0])
	}
	if rows[1].Description == nil || *rows[1].Description != "Coffee" {
		t.Fatalf("description not captured: %+v", rows[1])
	}
	if rows[1].Merchant != nil || rows[1].Category != nil {
		t.Fatalf("absent optional fields must be nil: %+v", rows[1])
	}
}

func TestNormalizeHeaderAliases(t *testing.T) {
	csvText := "Posting Date,Original Description,Payee,Cat,Transaction Amount\n" +
		"2025-09-04,RIDE 123,Lyft,Transport,-23.40\n"
	rows := Normalize(csvText)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.Date != "2025-09-04" || r.Amount != -23.40 {
		t.Fatalf("row = %+v", r)
	}
	if r.Merchant == nil || *r.Merchant != "Lyft" {
		t.Fatalf("payee alias not resolved: %+v", r)
	}
	if r.Category == nil || *r.Category != "Transport" {
		t.Fatalf("cat alias not resolved: %+v", r)
	}
}

func TestNormalizeDebitCredit(t *testing.T) {
	csvText := "Date,Description,Debit,Credit\n" +
		"2025-09-01,Refund,0,10.00\n" +
		"2025-09-02,Groceries,10.00,0\n"
	rows := Normalize(csvText)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Amount != 10.00 {
		t.Fatalf("nonzero credit should be positive, got %v", rows[0].Amount)
	}
	if rows[1].Amount != -10.00 {
		t.Fatalf("debit should be negative, got %v", rows[1].Amount)
	}
}

func TestNormalizeQuotedField(t *testing.T) {
	csvText := "Date,Description,Amount\n" +
		"2025-09-05,\"Acme, Inc.\",-20.00\n" +
		"2025-09-06,\"He said \"\"hi\"\"\",-1.00\n"
	rows := Normalize(csvText)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if *rows[0].Description != "Acme, Inc." {
		t.Fatalf("quoted comma mishandled: %q", *rows[0].Description)
	}
	if *rows[1].Description != `He said "hi"` {
		t.Fatalf("escaped quote mishandled: %q", *rows[1].Description)
	}
}

func TestNormalizeDropsMalformedRows(t *testing.T) {
	csvText := "Date,Description,Amount\n" +
		"not-a-date,Bad Date,-3\n" +
		"2025-09-01,No Amount,\n" +
		"2025-09-01,Bad Amount,abc\n" +
		"\n" +
		"2025-09-02,Good,-4.50\n"
	rows := Normalize(csvText)
	if len(rows) != 1 {
		t.Fatalf("expected only the good row, got %d", len(rows))
	}
	if rows[0].Amount != -4.50 {
		t.Fatalf("row = %+v", rows[0])
	}
}

func TestNormalizeCurrencyJunkStripped(t *testing.T) {
	csvText := "Date,Description,Amount\n" +
		"2025-09-01,Rent,\"$1,234.56\"\n"
	rows := Normalize(csvText)
	if len(rows) != 1 || rows[0].Amount != 1234.56 {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestNormalizeEmptyAndHeaderOnly(t *testing.T) {
	if rows := Normalize(""); len(rows) != 0 {
		t.Fatalf("empty input should yield no rows, got %d", len(rows))
	}
	if rows := Normalize("Date,Amount\n"); len(rows) != 0 {
		t.Fatalf("header-only input should yield no rows, got %d", len(rows))
	}
	// Header row is never data even when it looks nothing like one.
	if rows := Normalize("Date,Amount\nDate,Amount\n"); len(rows) != 0 {
		t.Fatalf("unparseable data row should be dropped, got %d", len(rows))
	}
}

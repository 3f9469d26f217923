// Package ingest normalizes raw bank-export CSV text into canonical
// transaction records. It tolerates the header conventions of the common
// export formats (Mint/CK style, debit+credit pairs) and silently drops rows
// whose date or amount cannot be understood.
package ingest

import (
	"encoding/csv"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/RDubya18/sprig-mobile/internal/core"
)

type logicalField int

const (
	fieldDate logicalField = iota
	fieldDescription
	fieldMerchant
	fieldCategory
	fieldAmount
	fieldDebit
	fieldCredit
)

// headerAliases maps each logical field to its accepted header names,
// highest priority first. Matching is case-insensitive.
var headerAliases = map[logicalField][]string{
	fieldDate:        {"date", "posting date", "posted date", "posted", "trans. date"},
	fieldDescription: {"description", "original description"},
	fieldMerchant:    {"merchant", "payee"},
	fieldCategory:    {"category", "cat"},
	fieldAmount:      {"amount", "amt", "value", "transaction amount"},
	fieldDebit:       {"debit"},
	fieldCredit:      {"credit"},
}

// headerIndex maps logical fields to column positions, -1 when absent.
type headerIndex map[logicalField]int

func resolveHeader(cols []string) headerIndex {
	positions := make(map[string]int, len(cols))
	for i, c := range cols {
		name := strings.ToLower(strings.TrimSpace(c))
		if _, seen := positions[name]; !seen {
			positions[name] = i
		}
	}
	idx := make(headerIndex, len(headerAliases))
	for field, aliases := range headerAliases {
		idx[field] = -1
		for _, alias := range aliases {
			if pos, ok := positions[alias]; ok {
				idx[field] = pos
				break
			}
		}
	}
	return idx
}

func (h headerIndex) value(rec []string, f logicalField) string {
	pos := h[f]
	if pos < 0 || pos >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[pos])
}

// Normalize parses raw CSV text into transaction records. The first row is
// always treated as the header. Rows missing a parseable date or amount are
// dropped, not errors; the whole file is in memory so records are produced
// eagerly.
func Normalize(csvText string) []core.Transaction {
	r := csv.NewReader(strings.NewReader(csvText))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil
	}
	idx := resolveHeader(header)

	var out []core.Transaction
	dropped := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			dropped++
			continue
		}

		rawDate := idx.value(rec, fieldDate)
		amount, amountOK := resolveAmount(idx, rec)
		if rawDate == "" || !amountOK {
			dropped++
			continue
		}
		date, err := core.NormalizeDate(rawDate)
		if err != nil {
			dropped++
			continue
		}

		out = append(out, core.Transaction{
			Date:        date,
			Description: optional(idx.value(rec, fieldDescription)),
			Merchant:    optional(idx.value(rec, fieldMerchant)),
			Category:    optional(idx.value(rec, fieldCategory)),
			Amount:      amount,
		})
	}

	if dropped > 0 {
		slog.Debug("Dropped malformed CSV rows", "dropped", dropped, "parsed", len(out))
	}
	return out
}

// resolveAmount picks the signed amount for a row: the amount column when the
// file has one, otherwise the debit/credit pair (credit when nonzero, else
// the debit as an outflow).
func resolveAmount(idx headerIndex, rec []string) (float64, bool) {
	if idx[fieldAmount] >= 0 {
		return parseAmount(idx.value(rec, fieldAmount))
	}
	if idx[fieldDebit] >= 0 && idx[fieldCredit] >= 0 {
		if credit, ok := parseAmount(idx.value(rec, fieldCredit)); ok && credit != 0 {
			return credit, true
		}
		debit, ok := parseAmount(idx.value(rec, fieldDebit))
		if !ok {
			return 0, false
		}
		if debit < 0 {
			debit = -debit
		}
		return -debit, true
	}
	return 0, false
}

// parseAmount strips everything except digits, '.' and '-' before parsing,
// so "$1,234.56" and "(escaped)" currency junk both resolve.
func parseAmount(s string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			return r
		default:
			return -1
		}
	}, s)
	if cleaned == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

package core

import (
	"strconv"
	"strings"
)

// FormatAmount renders an amount the way signatures expect: shortest exact
// decimal form, no trailing zeros ("1500", "-5.75", "-23.4").
func FormatAmount(a float64) string {
	return strconv.FormatFloat(a, 'f', -1, 64)
}

// Signature derives the dedup identity of a transaction:
// date + "|" + amount + "|" + lowercase(trim(merchant or description or "")).
// Two rows differing only in category or account share a signature.
func (t Transaction) Signature() string {
	name := ""
	if t.Merchant != nil && *t.Merchant != "" {
		name = *t.Merchant
	} else if t.Description != nil {
		name = *t.Description
	}
	name = strings.ToLower(strings.TrimSpace(name))
	return t.Date + "|" + FormatAmount(t.Amount) + "|" + name
}

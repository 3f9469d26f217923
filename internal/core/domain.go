package core

import (
	"errors"
	"math"
	"regexp"
	"strings"
)

const (
	MatchContains MatchType = "contains"
	MatchExact    MatchType = "exact"
	MatchRegex    MatchType = "regex"
)

const (
	AccountChecking  AccountType = "checking"
	AccountSavings   AccountType = "savings"
	AccountCredit    AccountType = "credit"
	AccountBrokerage AccountType = "brokerage"
	AccountCash      AccountType = "cash"
	AccountOther     AccountType = "other"
)

type (
	MatchType   string
	AccountType string

	// Transaction is a single financial event. Amounts are signed:
	// negative = outflow, positive = inflow. Optional fields are nil when
	// absent, never empty-string sentinels.
	Transaction struct {
		ID          int64   `json:"id"`
		Date        string  `json:"date"` // YYYY-MM-DD
		Description *string `json:"description,omitempty"`
		Merchant    *string `json:"merchant,omitempty"`
		Category    *string `json:"category,omitempty"`
		Amount      float64 `json:"amount"`
		AccountID   *int64  `json:"accountId,omitempty"`
	}

	// Rule maps a lowercase pattern to a category. When several rules match
	// the same transaction, the most recently created rule wins.
	Rule struct {
		ID        int64     `json:"id"`
		Pattern   string    `json:"pattern"`
		MatchType MatchType `json:"matchType"`
		Category  string    `json:"category"`
		CreatedAt string    `json:"createdAt"` // YYYY-MM-DD HH:MM:SS, storage-assigned
	}

	// Budget is a per-category monthly target, upserted by category.
	Budget struct {
		ID            int64   `json:"id"`
		Category      string  `json:"category"`
		MonthlyTarget float64 `json:"monthlyTarget"`
	}

	Account struct {
		ID             int64       `json:"id"`
		Name           string      `json:"name"`
		Type           AccountType `json:"type"`
		Balance        float64     `json:"balance"`
		LastReconciled *string     `json:"lastReconciled,omitempty"` // YYYY-MM-DD
	}

	// ImportSummary is the ephemeral result of one import call.
	ImportSummary struct {
		Parsed     int  `json:"parsed"`
		Duplicates int  `json:"duplicates"`
		Inserted   int  `json:"inserted"`
		Skipped    int  `json:"skipped"` // parsed - inserted
		Sample     bool `json:"sample"`
	}

	// CategorySpend is one row of a per-category monthly spend aggregate.
	CategorySpend struct {
		Category string  `json:"category"`
		Spend    float64 `json:"spend"`
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidMatchType = errors.New("invalid match type")
	ErrEmptyPattern     = errors.New("empty pattern")
	ErrEmptyCategory    = errors.New("empty category")
	ErrInvalidAccount   = errors.New("invalid account")
)

func (m MatchType) Valid() bool {
	switch m {
	case MatchContains, MatchExact, MatchRegex:
		return true
	}
	return false
}

func (a AccountType) Valid() bool {
	switch a {
	case AccountChecking, AccountSavings, AccountCredit, AccountBrokerage, AccountCash, AccountOther:
		return true
	}
	return false
}

func (t Transaction) Validate() error {
	if !IsNormalizedDate(t.Date) {
		return ErrInvalidDate
	}
	if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) {
		return ErrInvalidAmount
	}
	return nil
}

// TargetText is the text a rule is evaluated against: merchant when present,
// otherwise description, otherwise "".
func (t Transaction) TargetText() string {
	if t.Merchant != nil && strings.TrimSpace(*t.Merchant) != "" {
		return *t.Merchant
	}
	if t.Description != nil {
		return *t.Description
	}
	return ""
}

func (r Rule) Validate() error {
	if strings.TrimSpace(r.Pattern) == "" {
		return ErrEmptyPattern
	}
	if !r.MatchType.Valid() {
		return ErrInvalidMatchType
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// Matches reports whether the rule matches the target text. Matching is
// case-insensitive for every match type. A malformed regex returns an error
// so callers can skip the rule without aborting a categorization pass.
func (r Rule) Matches(target string) (bool, error) {
	pattern := strings.ToLower(strings.TrimSpace(r.Pattern))
	text := strings.ToLower(strings.TrimSpace(target))
	switch r.MatchType {
	case MatchContains:
		return strings.Contains(text, pattern), nil
	case MatchExact:
		return text == pattern, nil
	case MatchRegex:
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			return false, err
		}
		return re.MatchString(target), nil
	default:
		return false, ErrInvalidMatchType
	}
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if math.IsNaN(b.MonthlyTarget) || math.IsInf(b.MonthlyTarget, 0) || b.MonthlyTarget < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrInvalidAccount
	}
	if !a.Type.Valid() {
		return ErrInvalidAccount
	}
	return nil
}

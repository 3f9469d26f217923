package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/RDubya18/sprig-mobile/internal/core"
)

// ListRules returns the active rule set, most recently created first. This
// ordering is the tie-break used by the categorization pass.
func (r *SQLiteRepository) ListRules(ctx context.Context) ([]core.Rule, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, pattern, match_type, category, created_at
		FROM rules
		ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	defer rows.Close()

	var out []core.Rule
	for rows.Next() {
		var rule core.Rule
		if err := rows.Scan(&rule.ID, &rule.Pattern, &rule.MatchType, &rule.Category, &rule.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}

// AddRule stores a rule with its pattern lowercased and returns the stored
// row with its assigned id.
func (r *SQLiteRepository) AddRule(ctx context.Context, rule core.Rule) (core.Rule, error) {
	rule.Pattern = strings.ToLower(strings.TrimSpace(rule.Pattern))
	if err := rule.Validate(); err != nil {
		return core.Rule{}, err
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO rules (pattern, match_type, category)
		VALUES (?, ?, ?)`, rule.Pattern, string(rule.MatchType), rule.Category)
	if err != nil {
		return core.Rule{}, fmt.Errorf("insert rule: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Rule{}, fmt.Errorf("rule id: %w", err)
	}
	rule.ID = id

	if err := r.db.QueryRowContext(ctx, `SELECT created_at FROM rules WHERE id = ?`, id).Scan(&rule.CreatedAt); err != nil {
		return core.Rule{}, fmt.Errorf("read rule timestamp: %w", err)
	}
	return rule, nil
}

func (r *SQLiteRepository) DeleteRule(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM rules WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	return nil
}

package storage

import (
	"context"
	"fmt"

	"github.com/RDubya18/sprig-mobile/internal/core"
)

func (r *SQLiteRepository) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, category, monthly_target
		FROM budgets
		ORDER BY category ASC`)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.Category, &b.MonthlyTarget); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpsertBudget sets the monthly target for a category, overwriting any
// existing row for that category.
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, category string, monthlyTarget float64) error {
	if err := (core.Budget{Category: category, MonthlyTarget: monthlyTarget}).Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO budgets (category, monthly_target)
		VALUES (?, ?)
		ON CONFLICT(category) DO UPDATE SET monthly_target = excluded.monthly_target`,
		category, monthlyTarget)
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return nil
}

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/RDubya18/sprig-mobile/internal/core"
)

// TransactionFilters narrows ListTransactions. Zero values mean no filter.
type TransactionFilters struct {
	MonthKey string // YYYY-MM
	Category string
	Search   string // matched against merchant and description
}

// BulkInsertTransactions inserts an import batch inside one transaction so a
// failure partway leaves nothing behind for a retry's dedup check to trip on.
func (r *SQLiteRepository) BulkInsertTransactions(ctx context.Context, txs []core.Transaction) (int, error) {
	if len(txs) == 0 {
		return 0, nil
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer dbTx.Rollback() //nolint:errcheck // rollback is a no-op after commit

	stmt, err := dbTx.PrepareContext(ctx, `
		INSERT INTO transactions (date, description, merchant, category, amount, account_id)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range txs {
		if _, err := stmt.ExecContext(ctx, t.Date, t.Description, t.Merchant, t.Category, t.Amount, t.AccountID); err != nil {
			return 0, fmt.Errorf("insert transaction: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return len(txs), nil
}

// ExistingSignatures returns the signatures of persisted transactions on the
// given dates. Signatures are computed here, in Go, so candidates and
// persisted rows go through the exact same formatter.
func (r *SQLiteRepository) ExistingSignatures(ctx context.Context, dates []string) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	if len(dates) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(dates)), ",")
	args := make([]any, len(dates))
	for i, d := range dates {
		args[i] = d
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT date, description, merchant, amount
		FROM transactions
		WHERE date IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("query existing signatures: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t core.Transaction
		var desc, merch sql.NullString
		if err := rows.Scan(&t.Date, &desc, &merch, &t.Amount); err != nil {
			return nil, fmt.Errorf("scan signature row: %w", err)
		}
		if desc.Valid {
			t.Description = &desc.String
		}
		if merch.Valid {
			t.Merchant = &merch.String
		}
		out[t.Signature()] = struct{}{}
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, f TransactionFilters) ([]core.Transaction, error) {
	where := []string{"1=1"}
	var args []any

	if f.MonthKey != "" {
		where = append(where, "substr(date,1,7) = ?")
		args = append(args, f.MonthKey)
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.Search != "" {
		where = append(where, "(merchant LIKE ? OR description LIKE ?)")
		args = append(args, "%"+f.Search+"%", "%"+f.Search+"%")
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, description, merchant, category, amount, account_id
		FROM transactions
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY date DESC, id DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// UncategorizedTransactions returns rows whose category is NULL or empty.
func (r *SQLiteRepository) UncategorizedTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, description, merchant, category, amount, account_id
		FROM transactions
		WHERE category IS NULL OR category = ''
		ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list uncategorized: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (r *SQLiteRepository) UpdateTransactionCategory(ctx context.Context, id int64, category string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE transactions SET category = ? WHERE id = ?`, category, id); err != nil {
		return fmt.Errorf("update transaction category: %w", err)
	}
	return nil
}

// SumSpentForMonth sums abs(amount) over the month's outflows.
func (r *SQLiteRepository) SumSpentForMonth(ctx context.Context, monthKey string) (float64, error) {
	var spend float64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(ABS(SUM(CASE WHEN amount < 0 THEN amount ELSE 0 END)), 0)
		FROM transactions
		WHERE substr(date,1,7) = ?`, monthKey).Scan(&spend)
	if err != nil {
		return 0, fmt.Errorf("sum spent for month: %w", err)
	}
	return spend, nil
}

// SpendByCategoryForMonth returns per-category outflow totals, descending,
// zero-spend categories excluded. Uncategorized rows aggregate under
// "Uncategorized".
func (r *SQLiteRepository) SpendByCategoryForMonth(ctx context.Context, monthKey string) ([]core.CategorySpend, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT COALESCE(NULLIF(category, ''), 'Uncategorized') AS category,
		       COALESCE(ABS(SUM(CASE WHEN amount < 0 THEN amount ELSE 0 END)), 0) AS spend
		FROM transactions
		WHERE substr(date,1,7) = ?
		GROUP BY COALESCE(NULLIF(category, ''), 'Uncategorized')
		HAVING spend > 0
		ORDER BY spend DESC`, monthKey)
	if err != nil {
		return nil, fmt.Errorf("spend by category: %w", err)
	}
	defer rows.Close()

	var out []core.CategorySpend
	for rows.Next() {
		var cs core.CategorySpend
		if err := rows.Scan(&cs.Category, &cs.Spend); err != nil {
			return nil, fmt.Errorf("scan category spend: %w", err)
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

// DistinctCategories lists the non-empty categories present in a month,
// ascending. An empty monthKey spans all months.
func (r *SQLiteRepository) DistinctCategories(ctx context.Context, monthKey string) ([]string, error) {
	query := `
		SELECT DISTINCT category
		FROM transactions
		WHERE category IS NOT NULL AND category <> ''`
	var args []any
	if monthKey != "" {
		query += ` AND substr(date,1,7) = ?`
		args = append(args, monthKey)
	}
	query += ` ORDER BY category ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("distinct categories: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		var t core.Transaction
		var desc, merch, cat sql.NullString
		var acct sql.NullInt64
		if err := rows.Scan(&t.ID, &t.Date, &desc, &merch, &cat, &t.Amount, &acct); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if desc.Valid {
			t.Description = &desc.String
		}
		if merch.Valid {
			t.Merchant = &merch.String
		}
		if cat.Valid && cat.String != "" {
			t.Category = &cat.String
		}
		if acct.Valid {
			t.AccountID = &acct.Int64
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/RDubya18/sprig-mobile/internal/core"
)

// AccountPatch carries a partial account update; nil fields are untouched.
type AccountPatch struct {
	Name           *string
	Type           *core.AccountType
	Balance        *float64
	LastReconciled *string
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, type, balance, last_reconciled
		FROM accounts
		ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetAccount returns nil when no account has the given id.
func (r *SQLiteRepository) GetAccount(ctx context.Context, id int64) (*core.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, type, balance, last_reconciled
		FROM accounts
		WHERE id = ?`, id)
	a, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *SQLiteRepository) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (name, type, balance, last_reconciled)
		VALUES (?, ?, ?, ?)`, a.Name, string(a.Type), a.Balance, a.LastReconciled)
	if err != nil {
		return core.Account{}, fmt.Errorf("insert account: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Account{}, fmt.Errorf("account id: %w", err)
	}
	a.ID = id
	return a, nil
}

func (r *SQLiteRepository) UpdateAccount(ctx context.Context, id int64, patch AccountPatch) error {
	var sets []string
	var args []any
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Type != nil {
		if !patch.Type.Valid() {
			return core.ErrInvalidAccount
		}
		sets = append(sets, "type = ?")
		args = append(args, string(*patch.Type))
	}
	if patch.Balance != nil {
		sets = append(sets, "balance = ?")
		args = append(args, *patch.Balance)
	}
	if patch.LastReconciled != nil {
		sets = append(sets, "last_reconciled = ?")
		args = append(args, *patch.LastReconciled)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	if _, err := r.db.ExecContext(ctx, `UPDATE accounts SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return nil
}

// AccountNet derives an account's net from its transactions; the stored
// balance is manual and never recomputed.
func (r *SQLiteRepository) AccountNet(ctx context.Context, accountID int64) (float64, error) {
	var net float64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE account_id = ?`, accountID).Scan(&net)
	if err != nil {
		return 0, fmt.Errorf("account net: %w", err)
	}
	return net, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (core.Account, error) {
	var a core.Account
	var typ string
	var reconciled sql.NullString
	if err := row.Scan(&a.ID, &a.Name, &typ, &a.Balance, &reconciled); err != nil {
		return core.Account{}, err
	}
	a.Type = core.AccountType(typ)
	if reconciled.Valid {
		a.LastReconciled = &reconciled.String
	}
	return a, nil
}

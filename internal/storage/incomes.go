package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AlvaroPereir4/FinScope/internal/core"
)

// CreateIncome inserts a new income record, assigning id and creation
// time.
func (r *SQLiteRepository) CreateIncome(ctx context.Context, in *core.Income) error {
	in.ID = newID()
	created := nowNanos()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO incomes (id, owner, description, amount_cents, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		in.ID.String(), in.Owner, in.Description, cents(in.Amount), string(in.Date), created,
	)
	if err != nil {
		return fmt.Errorf("%w: insert income: %v", core.ErrStore, err)
	}
	in.CreatedAt = timeOf(created)
	return nil
}

// ListIncomes returns the owner's incomes matching the filter, newest
// date first.
func (r *SQLiteRepository) ListIncomes(ctx context.Context, f RecordFilter) ([]core.Income, error) {
	query := `SELECT id, owner, description, amount_cents, date, created_at
	          FROM incomes WHERE owner = ?`
	args := []any{f.Owner}
	if !f.From.IsZero() {
		query += " AND date >= ?"
		args = append(args, string(f.From))
	}
	if !f.To.IsZero() {
		query += " AND date <= ?"
		args = append(args, string(f.To))
	}
	if f.Search != "" {
		query += " AND description LIKE ? ESCAPE '\\'"
		args = append(args, likePattern(f.Search))
	}
	query += " ORDER BY date DESC, created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list incomes: %v", core.ErrStore, err)
	}
	defer rows.Close()

	var incomes []core.Income
	for rows.Next() {
		in, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		incomes = append(incomes, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate incomes: %v", core.ErrStore, err)
	}
	return incomes, nil
}

// GetIncome fetches one income scoped to its owner.
func (r *SQLiteRepository) GetIncome(ctx context.Context, owner string, id uuid.UUID) (core.Income, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, owner, description, amount_cents, date, created_at
		 FROM incomes WHERE id = ? AND owner = ?`,
		id.String(), owner,
	)
	in, err := scanIncome(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Income{}, core.ErrNotFound
	}
	return in, err
}

// IncomeUpdate carries the fields of a partial income update; nil fields
// are left untouched.
type IncomeUpdate struct {
	Description *string
	Amount      *decimal.Decimal
	Date        *core.Date
}

// UpdateIncome applies a partial update scoped to the owner.
func (r *SQLiteRepository) UpdateIncome(ctx context.Context, owner string, id uuid.UUID, u IncomeUpdate) error {
	var sets []string
	var args []any
	if u.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *u.Description)
	}
	if u.Amount != nil {
		sets = append(sets, "amount_cents = ?")
		args = append(args, cents(*u.Amount))
	}
	if u.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, string(*u.Date))
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id.String(), owner)

	res, err := r.db.ExecContext(ctx,
		"UPDATE incomes SET "+strings.Join(sets, ", ")+" WHERE id = ? AND owner = ?", args...)
	if err != nil {
		return fmt.Errorf("%w: update income: %v", core.ErrStore, err)
	}
	return requireRow(res)
}

// DeleteIncome removes one income scoped to the owner.
func (r *SQLiteRepository) DeleteIncome(ctx context.Context, owner string, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM incomes WHERE id = ? AND owner = ?", id.String(), owner)
	if err != nil {
		return fmt.Errorf("%w: delete income: %v", core.ErrStore, err)
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIncome(row rowScanner) (core.Income, error) {
	var (
		in      core.Income
		idStr   string
		centsV  int64
		dateStr string
		created int64
	)
	if err := row.Scan(&idStr, &in.Owner, &in.Description, &centsV, &dateStr, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Income{}, err
		}
		return core.Income{}, fmt.Errorf("%w: scan income: %v", core.ErrStore, err)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return core.Income{}, fmt.Errorf("%w: income id %q: %v", core.ErrStore, idStr, err)
	}
	in.ID = id
	in.Amount = amount(centsV)
	in.Date = core.Date(dateStr)
	in.CreatedAt = timeOf(created)
	return in, nil
}

// requireRow maps a zero-row write to ErrNotFound: acting on a missing
// or foreign-owner record is indistinguishable from absence.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %v", core.ErrStore, err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// likePattern escapes user input for a contains-match LIKE. SQLite LIKE
// is case-insensitive for ASCII by default.
func likePattern(s string) string {
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}

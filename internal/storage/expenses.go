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

// The micro and macro expense tables share one column shape, so the
// queries below are parameterized by table name. Only these two
// constants are ever interpolated.
const (
	tableExpenses      = "expenses"
	tableMacroExpenses = "macro_expenses"
)

const expenseColumns = `id, owner, description, amount_cents, category, date,
	establishment, buyer, payment_method, card_id, installment_label,
	observation, is_consolidated, created_at`

// CreateExpense inserts a micro expense record.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, e *core.Expense) error {
	return r.insertExpense(ctx, tableExpenses, e)
}

// CreateMacroExpense inserts a consolidated macro expense record.
func (r *SQLiteRepository) CreateMacroExpense(ctx context.Context, e *core.Expense) error {
	e.Consolidated = true
	e.InstallmentLabel = ""
	return r.insertExpense(ctx, tableMacroExpenses, e)
}

func (r *SQLiteRepository) insertExpense(ctx context.Context, table string, e *core.Expense) error {
	e.ID = newID()
	created := nowNanos()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO `+table+` (`+expenseColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.Owner, e.Description, cents(e.Amount), e.Category, string(e.Date),
		e.Establishment, e.Buyer, e.PaymentMethod, nullableID(e.CardID), e.InstallmentLabel,
		e.Observation, e.Consolidated, created,
	)
	if err != nil {
		return fmt.Errorf("%w: insert into %s: %v", core.ErrStore, table, err)
	}
	e.CreatedAt = timeOf(created)
	return nil
}

// InsertInstallmentMember inserts one member of an installment series.
// The unique index on (owner, description, amount, label) makes the
// idempotency guard atomic: an already-present member is silently
// skipped and reported as created=false.
func (r *SQLiteRepository) InsertInstallmentMember(ctx context.Context, e *core.Expense) (created bool, err error) {
	e.ID = newID()
	createdAt := nowNanos()
	res, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO expenses (`+expenseColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.Owner, e.Description, cents(e.Amount), e.Category, string(e.Date),
		e.Establishment, e.Buyer, e.PaymentMethod, nullableID(e.CardID), e.InstallmentLabel,
		e.Observation, e.Consolidated, createdAt,
	)
	if err != nil {
		return false, fmt.Errorf("%w: insert installment member: %v", core.ErrStore, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: rows affected: %v", core.ErrStore, err)
	}
	if n == 0 {
		return false, nil
	}
	e.CreatedAt = timeOf(createdAt)
	return true, nil
}

// ListExpenses returns the owner's micro expenses matching the filter,
// newest date first.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, f RecordFilter) ([]core.Expense, error) {
	return r.listExpenses(ctx, tableExpenses, f)
}

// ListMacroExpenses is ListExpenses for the macro table.
func (r *SQLiteRepository) ListMacroExpenses(ctx context.Context, f RecordFilter) ([]core.Expense, error) {
	return r.listExpenses(ctx, tableMacroExpenses, f)
}

func (r *SQLiteRepository) listExpenses(ctx context.Context, table string, f RecordFilter) ([]core.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM ` + table + ` WHERE owner = ?`
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
		query += ` AND (description LIKE ? ESCAPE '\'
			OR establishment LIKE ? ESCAPE '\'
			OR category LIKE ? ESCAPE '\'
			OR buyer LIKE ? ESCAPE '\')`
		p := likePattern(f.Search)
		args = append(args, p, p, p, p)
	}
	query += " ORDER BY date DESC, created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", core.ErrStore, table, err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate %s: %v", core.ErrStore, table, err)
	}
	return expenses, nil
}

// ListExpensesByCard returns the owner's micro expenses charged to the
// given card within [from, to] inclusive, oldest first for invoice
// itemization.
func (r *SQLiteRepository) ListExpensesByCard(ctx context.Context, owner string, cardID uuid.UUID, from, to core.Date) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses
		 WHERE owner = ? AND card_id = ? AND date >= ? AND date <= ?
		 ORDER BY date ASC, created_at ASC`,
		owner, cardID.String(), string(from), string(to),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: list expenses by card: %v", core.ErrStore, err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate card expenses: %v", core.ErrStore, err)
	}
	return expenses, nil
}

// GetExpense fetches one micro expense scoped to its owner.
func (r *SQLiteRepository) GetExpense(ctx context.Context, owner string, id uuid.UUID) (core.Expense, error) {
	return r.getExpense(ctx, tableExpenses, owner, id)
}

// GetMacroExpense fetches one macro expense scoped to its owner.
func (r *SQLiteRepository) GetMacroExpense(ctx context.Context, owner string, id uuid.UUID) (core.Expense, error) {
	return r.getExpense(ctx, tableMacroExpenses, owner, id)
}

func (r *SQLiteRepository) getExpense(ctx context.Context, table, owner string, id uuid.UUID) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM `+table+` WHERE id = ? AND owner = ?`,
		id.String(), owner,
	)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrNotFound
	}
	return e, err
}

// ExpenseUpdate carries the fields of a partial expense update; nil
// fields are left untouched. SetCardNil clears the card reference.
type ExpenseUpdate struct {
	Description   *string
	Amount        *decimal.Decimal
	Category      *string
	Date          *core.Date
	Establishment *string
	Buyer         *string
	PaymentMethod *string
	CardID        *uuid.UUID
	SetCardNil    bool
	Observation   *string
	Consolidated  *bool
}

// UpdateExpense applies a partial update to a micro expense.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, owner string, id uuid.UUID, u ExpenseUpdate) error {
	return r.updateExpense(ctx, tableExpenses, owner, id, u)
}

// UpdateMacroExpense applies a partial update to a macro expense. Macro
// records stay consolidated and unlabelled regardless of the update.
func (r *SQLiteRepository) UpdateMacroExpense(ctx context.Context, owner string, id uuid.UUID, u ExpenseUpdate) error {
	u.Consolidated = nil
	return r.updateExpense(ctx, tableMacroExpenses, owner, id, u)
}

func (r *SQLiteRepository) updateExpense(ctx context.Context, table, owner string, id uuid.UUID, u ExpenseUpdate) error {
	var sets []string
	var args []any
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if u.Description != nil {
		add("description", *u.Description)
	}
	if u.Amount != nil {
		add("amount_cents", cents(*u.Amount))
	}
	if u.Category != nil {
		add("category", *u.Category)
	}
	if u.Date != nil {
		add("date", string(*u.Date))
	}
	if u.Establishment != nil {
		add("establishment", *u.Establishment)
	}
	if u.Buyer != nil {
		add("buyer", *u.Buyer)
	}
	if u.PaymentMethod != nil {
		add("payment_method", *u.PaymentMethod)
	}
	if u.CardID != nil {
		add("card_id", u.CardID.String())
	} else if u.SetCardNil {
		add("card_id", nil)
	}
	if u.Observation != nil {
		add("observation", *u.Observation)
	}
	if u.Consolidated != nil {
		add("is_consolidated", *u.Consolidated)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id.String(), owner)

	res, err := r.db.ExecContext(ctx,
		"UPDATE "+table+" SET "+strings.Join(sets, ", ")+" WHERE id = ? AND owner = ?", args...)
	if err != nil {
		return fmt.Errorf("%w: update %s: %v", core.ErrStore, table, err)
	}
	return requireRow(res)
}

// DeleteExpense removes one micro expense scoped to the owner.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, owner string, id uuid.UUID) error {
	return r.deleteExpense(ctx, tableExpenses, owner, id)
}

// DeleteMacroExpense removes one macro expense scoped to the owner.
func (r *SQLiteRepository) DeleteMacroExpense(ctx context.Context, owner string, id uuid.UUID) error {
	return r.deleteExpense(ctx, tableMacroExpenses, owner, id)
}

func (r *SQLiteRepository) deleteExpense(ctx context.Context, table, owner string, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM "+table+" WHERE id = ? AND owner = ?", id.String(), owner)
	if err != nil {
		return fmt.Errorf("%w: delete from %s: %v", core.ErrStore, table, err)
	}
	return requireRow(res)
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e       core.Expense
		idStr   string
		centsV  int64
		dateStr string
		cardID  sql.NullString
		created int64
	)
	err := row.Scan(&idStr, &e.Owner, &e.Description, &centsV, &e.Category, &dateStr,
		&e.Establishment, &e.Buyer, &e.PaymentMethod, &cardID, &e.InstallmentLabel,
		&e.Observation, &e.Consolidated, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Expense{}, err
		}
		return core.Expense{}, fmt.Errorf("%w: scan expense: %v", core.ErrStore, err)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return core.Expense{}, fmt.Errorf("%w: expense id %q: %v", core.ErrStore, idStr, err)
	}
	e.ID = id
	e.Amount = amount(centsV)
	e.Date = core.Date(dateStr)
	e.CreatedAt = timeOf(created)
	if e.CardID, err = scanNullableID(cardID); err != nil {
		return core.Expense{}, fmt.Errorf("%w: %v", core.ErrStore, err)
	}
	return e, nil
}

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

const investmentColumns = "id, owner, name, type, current_amount_cents, target_amount_cents, created_at, updated_at"
const entryColumns = "id, owner, investment_id, entry_type, amount_cents, date, created_at"

// CreateInvestment inserts a new investment.
func (r *SQLiteRepository) CreateInvestment(ctx context.Context, v *core.Investment) error {
	v.ID = newID()
	now := nowNanos()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO investments (`+investmentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID.String(), v.Owner, v.Name, v.Type, cents(v.CurrentAmount), cents(v.TargetAmount), now, now,
	)
	if err != nil {
		return fmt.Errorf("%w: insert investment: %v", core.ErrStore, err)
	}
	v.CreatedAt = timeOf(now)
	v.UpdatedAt = timeOf(now)
	return nil
}

// GetInvestment fetches one investment scoped to its owner.
func (r *SQLiteRepository) GetInvestment(ctx context.Context, owner string, id uuid.UUID) (core.Investment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+investmentColumns+` FROM investments WHERE id = ? AND owner = ?`,
		id.String(), owner,
	)
	v, err := scanInvestment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Investment{}, core.ErrNotFound
	}
	return v, err
}

// ListInvestments returns all of the owner's investments, oldest first.
func (r *SQLiteRepository) ListInvestments(ctx context.Context, owner string) ([]core.Investment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+investmentColumns+` FROM investments WHERE owner = ? ORDER BY created_at ASC`, owner)
	if err != nil {
		return nil, fmt.Errorf("%w: list investments: %v", core.ErrStore, err)
	}
	defer rows.Close()

	var investments []core.Investment
	for rows.Next() {
		v, err := scanInvestment(rows)
		if err != nil {
			return nil, err
		}
		investments = append(investments, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate investments: %v", core.ErrStore, err)
	}
	return investments, nil
}

// InvestmentUpdate carries the fields of a partial investment update.
// CurrentAmount is deliberately absent: the accumulator only moves
// through entry insertion.
type InvestmentUpdate struct {
	Name         *string
	Type         *string
	TargetAmount *decimal.Decimal
}

// UpdateInvestment applies a partial update scoped to the owner.
func (r *SQLiteRepository) UpdateInvestment(ctx context.Context, owner string, id uuid.UUID, u InvestmentUpdate) error {
	var sets []string
	var args []any
	if u.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *u.Name)
	}
	if u.Type != nil {
		sets = append(sets, "type = ?")
		args = append(args, *u.Type)
	}
	if u.TargetAmount != nil {
		sets = append(sets, "target_amount_cents = ?")
		args = append(args, cents(*u.TargetAmount))
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, nowNanos(), id.String(), owner)

	res, err := r.db.ExecContext(ctx,
		"UPDATE investments SET "+strings.Join(sets, ", ")+" WHERE id = ? AND owner = ?", args...)
	if err != nil {
		return fmt.Errorf("%w: update investment: %v", core.ErrStore, err)
	}
	return requireRow(res)
}

// DeleteInvestment removes an investment and, through the cascade, all
// of its entries.
func (r *SQLiteRepository) DeleteInvestment(ctx context.Context, owner string, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM investments WHERE id = ? AND owner = ?", id.String(), owner)
	if err != nil {
		return fmt.Errorf("%w: delete investment: %v", core.ErrStore, err)
	}
	return requireRow(res)
}

// CreateInvestmentEntry inserts an entry and applies its delta to the
// parent investment in one transaction. The accumulator moves via a
// single relative UPDATE, never a read-modify-write, so concurrent
// entries cannot lose updates. An entry against a missing or
// foreign-owner investment yields ErrNotFound.
func (r *SQLiteRepository) CreateInvestmentEntry(ctx context.Context, e *core.InvestmentEntry) error {
	e.ID = newID()
	created := nowNanos()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin entry transaction: %v", core.ErrStore, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE investments
		 SET current_amount_cents = current_amount_cents + ?, updated_at = ?
		 WHERE id = ? AND owner = ?`,
		cents(e.Delta()), created, e.InvestmentID.String(), e.Owner,
	)
	if err != nil {
		return fmt.Errorf("%w: apply entry delta: %v", core.ErrStore, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %v", core.ErrStore, err)
	}
	if n == 0 {
		return core.ErrNotFound
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO investment_entries (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.Owner, e.InvestmentID.String(), string(e.EntryType),
		cents(e.Amount), string(e.Date), created,
	)
	if err != nil {
		return fmt.Errorf("%w: insert investment entry: %v", core.ErrStore, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit entry transaction: %v", core.ErrStore, err)
	}
	e.CreatedAt = timeOf(created)
	return nil
}

// ListInvestmentEntries returns the owner's entries for one investment,
// newest date first.
func (r *SQLiteRepository) ListInvestmentEntries(ctx context.Context, owner string, investmentID uuid.UUID) ([]core.InvestmentEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM investment_entries
		 WHERE owner = ? AND investment_id = ?
		 ORDER BY date DESC, created_at DESC`,
		owner, investmentID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: list investment entries: %v", core.ErrStore, err)
	}
	defer rows.Close()

	var entries []core.InvestmentEntry
	for rows.Next() {
		e, err := scanInvestmentEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate investment entries: %v", core.ErrStore, err)
	}
	return entries, nil
}

func scanInvestment(row rowScanner) (core.Investment, error) {
	var (
		v       core.Investment
		idStr   string
		current int64
		target  int64
		created int64
		updated int64
	)
	err := row.Scan(&idStr, &v.Owner, &v.Name, &v.Type, &current, &target, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Investment{}, err
		}
		return core.Investment{}, fmt.Errorf("%w: scan investment: %v", core.ErrStore, err)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return core.Investment{}, fmt.Errorf("%w: investment id %q: %v", core.ErrStore, idStr, err)
	}
	v.ID = id
	v.CurrentAmount = amount(current)
	v.TargetAmount = amount(target)
	v.CreatedAt = timeOf(created)
	v.UpdatedAt = timeOf(updated)
	return v, nil
}

func scanInvestmentEntry(row rowScanner) (core.InvestmentEntry, error) {
	var (
		e         core.InvestmentEntry
		idStr     string
		invStr    string
		entryType string
		centsV    int64
		dateStr   string
		created   int64
	)
	err := row.Scan(&idStr, &e.Owner, &invStr, &entryType, &centsV, &dateStr, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.InvestmentEntry{}, err
		}
		return core.InvestmentEntry{}, fmt.Errorf("%w: scan investment entry: %v", core.ErrStore, err)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return core.InvestmentEntry{}, fmt.Errorf("%w: entry id %q: %v", core.ErrStore, idStr, err)
	}
	invID, err := uuid.Parse(invStr)
	if err != nil {
		return core.InvestmentEntry{}, fmt.Errorf("%w: entry investment id %q: %v", core.ErrStore, invStr, err)
	}
	e.ID = id
	e.InvestmentID = invID
	e.EntryType = core.EntryType(entryType)
	e.Amount = amount(centsV)
	e.Date = core.Date(dateStr)
	e.CreatedAt = timeOf(created)
	return e, nil
}

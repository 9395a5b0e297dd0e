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

const cardColumns = "id, owner, name, holder_name, credit_limit_cents, closing_day, due_day, created_at"

// CreateCard inserts a new card.
func (r *SQLiteRepository) CreateCard(ctx context.Context, c *core.Card) error {
	c.ID = newID()
	created := nowNanos()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO cards (`+cardColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID.String(), c.Owner, c.Name, c.HolderName, cents(c.CreditLimit),
		c.ClosingDay, c.DueDay, created,
	)
	if err != nil {
		return fmt.Errorf("%w: insert card: %v", core.ErrStore, err)
	}
	c.CreatedAt = timeOf(created)
	return nil
}

// GetCard fetches one card scoped to its owner.
func (r *SQLiteRepository) GetCard(ctx context.Context, owner string, id uuid.UUID) (core.Card, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE id = ? AND owner = ?`,
		id.String(), owner,
	)
	c, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Card{}, core.ErrNotFound
	}
	return c, err
}

// ListCards returns all of the owner's cards, oldest first.
func (r *SQLiteRepository) ListCards(ctx context.Context, owner string) ([]core.Card, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE owner = ? ORDER BY created_at ASC`, owner)
	if err != nil {
		return nil, fmt.Errorf("%w: list cards: %v", core.ErrStore, err)
	}
	defer rows.Close()

	var cards []core.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate cards: %v", core.ErrStore, err)
	}
	return cards, nil
}

// CardUpdate carries the fields of a partial card update.
type CardUpdate struct {
	Name        *string
	HolderName  *string
	CreditLimit *decimal.Decimal
	ClosingDay  *int
	DueDay      *int
}

// UpdateCard applies a partial update scoped to the owner.
func (r *SQLiteRepository) UpdateCard(ctx context.Context, owner string, id uuid.UUID, u CardUpdate) error {
	var sets []string
	var args []any
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.HolderName != nil {
		add("holder_name", *u.HolderName)
	}
	if u.CreditLimit != nil {
		add("credit_limit_cents", cents(*u.CreditLimit))
	}
	if u.ClosingDay != nil {
		add("closing_day", *u.ClosingDay)
	}
	if u.DueDay != nil {
		add("due_day", *u.DueDay)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id.String(), owner)

	res, err := r.db.ExecContext(ctx,
		"UPDATE cards SET "+strings.Join(sets, ", ")+" WHERE id = ? AND owner = ?", args...)
	if err != nil {
		return fmt.Errorf("%w: update card: %v", core.ErrStore, err)
	}
	return requireRow(res)
}

// DeleteCard removes a card. Expenses referencing it keep existing with
// their card reference cleared (ON DELETE SET NULL).
func (r *SQLiteRepository) DeleteCard(ctx context.Context, owner string, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM cards WHERE id = ? AND owner = ?", id.String(), owner)
	if err != nil {
		return fmt.Errorf("%w: delete card: %v", core.ErrStore, err)
	}
	return requireRow(res)
}

func scanCard(row rowScanner) (core.Card, error) {
	var (
		c       core.Card
		idStr   string
		limit   int64
		created int64
	)
	err := row.Scan(&idStr, &c.Owner, &c.Name, &c.HolderName, &limit, &c.ClosingDay, &c.DueDay, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Card{}, err
		}
		return core.Card{}, fmt.Errorf("%w: scan card: %v", core.ErrStore, err)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return core.Card{}, fmt.Errorf("%w: card id %q: %v", core.ErrStore, idStr, err)
	}
	c.ID = id
	c.CreditLimit = amount(limit)
	c.CreatedAt = timeOf(created)
	return c, nil
}

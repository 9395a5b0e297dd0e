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

const goalColumns = "id, owner, title, type, target_amount_cents, current_amount_cents, deadline, created_at"

// CreateGoal inserts a new savings goal.
func (r *SQLiteRepository) CreateGoal(ctx context.Context, g *core.Goal) error {
	g.ID = newID()
	created := nowNanos()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (`+goalColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID.String(), g.Owner, g.Title, g.Type, cents(g.TargetAmount),
		cents(g.CurrentAmount), string(g.Deadline), created,
	)
	if err != nil {
		return fmt.Errorf("%w: insert goal: %v", core.ErrStore, err)
	}
	g.CreatedAt = timeOf(created)
	return nil
}

// ListGoals returns all of the owner's goals, oldest first.
func (r *SQLiteRepository) ListGoals(ctx context.Context, owner string) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE owner = ? ORDER BY created_at ASC`, owner)
	if err != nil {
		return nil, fmt.Errorf("%w: list goals: %v", core.ErrStore, err)
	}
	defer rows.Close()

	var goals []core.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate goals: %v", core.ErrStore, err)
	}
	return goals, nil
}

// GetGoal fetches one goal scoped to its owner.
func (r *SQLiteRepository) GetGoal(ctx context.Context, owner string, id uuid.UUID) (core.Goal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE id = ? AND owner = ?`,
		id.String(), owner,
	)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, core.ErrNotFound
	}
	return g, err
}

// GoalUpdate carries the fields of a partial goal update.
type GoalUpdate struct {
	Title         *string
	Type          *string
	TargetAmount  *decimal.Decimal
	CurrentAmount *decimal.Decimal
	Deadline      *core.Date
}

// UpdateGoal applies a partial update scoped to the owner.
func (r *SQLiteRepository) UpdateGoal(ctx context.Context, owner string, id uuid.UUID, u GoalUpdate) error {
	var sets []string
	var args []any
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if u.Title != nil {
		add("title", *u.Title)
	}
	if u.Type != nil {
		add("type", *u.Type)
	}
	if u.TargetAmount != nil {
		add("target_amount_cents", cents(*u.TargetAmount))
	}
	if u.CurrentAmount != nil {
		add("current_amount_cents", cents(*u.CurrentAmount))
	}
	if u.Deadline != nil {
		add("deadline", string(*u.Deadline))
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id.String(), owner)

	res, err := r.db.ExecContext(ctx,
		"UPDATE goals SET "+strings.Join(sets, ", ")+" WHERE id = ? AND owner = ?", args...)
	if err != nil {
		return fmt.Errorf("%w: update goal: %v", core.ErrStore, err)
	}
	return requireRow(res)
}

// DeleteGoal removes one goal scoped to the owner.
func (r *SQLiteRepository) DeleteGoal(ctx context.Context, owner string, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM goals WHERE id = ? AND owner = ?", id.String(), owner)
	if err != nil {
		return fmt.Errorf("%w: delete goal: %v", core.ErrStore, err)
	}
	return requireRow(res)
}

func scanGoal(row rowScanner) (core.Goal, error) {
	var (
		g        core.Goal
		idStr    string
		target   int64
		current  int64
		deadline string
		created  int64
	)
	err := row.Scan(&idStr, &g.Owner, &g.Title, &g.Type, &target, &current, &deadline, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Goal{}, err
		}
		return core.Goal{}, fmt.Errorf("%w: scan goal: %v", core.ErrStore, err)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return core.Goal{}, fmt.Errorf("%w: goal id %q: %v", core.ErrStore, idStr, err)
	}
	g.ID = id
	g.TargetAmount = amount(target)
	g.CurrentAmount = amount(current)
	g.Deadline = core.Date(deadline)
	g.CreatedAt = timeOf(created)
	return g, nil
}

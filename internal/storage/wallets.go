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

const walletColumns = "id, owner, name, balance_cents, created_at, updated_at"

// CreateWallet inserts a new wallet.
func (r *SQLiteRepository) CreateWallet(ctx context.Context, w *core.Wallet) error {
	w.ID = newID()
	now := nowNanos()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO wallets (`+walletColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		w.ID.String(), w.Owner, w.Name, cents(w.Balance), now, now,
	)
	if err != nil {
		return fmt.Errorf("%w: insert wallet: %v", core.ErrStore, err)
	}
	w.CreatedAt = timeOf(now)
	w.UpdatedAt = timeOf(now)
	return nil
}

// ListWallets returns all of the owner's wallets, oldest first.
func (r *SQLiteRepository) ListWallets(ctx context.Context, owner string) ([]core.Wallet, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE owner = ? ORDER BY created_at ASC`, owner)
	if err != nil {
		return nil, fmt.Errorf("%w: list wallets: %v", core.ErrStore, err)
	}
	defer rows.Close()

	var wallets []core.Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate wallets: %v", core.ErrStore, err)
	}
	return wallets, nil
}

// GetWallet fetches one wallet scoped to its owner.
func (r *SQLiteRepository) GetWallet(ctx context.Context, owner string, id uuid.UUID) (core.Wallet, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE id = ? AND owner = ?`,
		id.String(), owner,
	)
	w, err := scanWallet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Wallet{}, core.ErrNotFound
	}
	return w, err
}

// WalletUpdate carries the fields of a partial wallet update.
type WalletUpdate struct {
	Name    *string
	Balance *decimal.Decimal
}

// UpdateWallet applies a partial update scoped to the owner.
func (r *SQLiteRepository) UpdateWallet(ctx context.Context, owner string, id uuid.UUID, u WalletUpdate) error {
	var sets []string
	var args []any
	if u.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *u.Name)
	}
	if u.Balance != nil {
		sets = append(sets, "balance_cents = ?")
		args = append(args, cents(*u.Balance))
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, nowNanos(), id.String(), owner)

	res, err := r.db.ExecContext(ctx,
		"UPDATE wallets SET "+strings.Join(sets, ", ")+" WHERE id = ? AND owner = ?", args...)
	if err != nil {
		return fmt.Errorf("%w: update wallet: %v", core.ErrStore, err)
	}
	return requireRow(res)
}

// DeleteWallet removes one wallet scoped to the owner.
func (r *SQLiteRepository) DeleteWallet(ctx context.Context, owner string, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM wallets WHERE id = ? AND owner = ?", id.String(), owner)
	if err != nil {
		return fmt.Errorf("%w: delete wallet: %v", core.ErrStore, err)
	}
	return requireRow(res)
}

func scanWallet(row rowScanner) (core.Wallet, error) {
	var (
		w       core.Wallet
		idStr   string
		balance int64
		created int64
		updated int64
	)
	err := row.Scan(&idStr, &w.Owner, &w.Name, &balance, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Wallet{}, err
		}
		return core.Wallet{}, fmt.Errorf("%w: scan wallet: %v", core.ErrStore, err)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return core.Wallet{}, fmt.Errorf("%w: wallet id %q: %v", core.ErrStore, idStr, err)
	}
	w.ID = id
	w.Balance = amount(balance)
	w.CreatedAt = timeOf(created)
	w.UpdatedAt = timeOf(updated)
	return w, nil
}

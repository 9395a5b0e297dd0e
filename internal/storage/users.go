package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AlvaroPereir4/FinScope/internal/core"
)

// User is an account record consumed by the identity collaborator. The
// ledger itself only ever sees the id as an opaque owner string.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// CreateUser inserts a new account. A taken username reports as
// ErrValidation so handlers do not need to inspect driver errors.
func (r *SQLiteRepository) CreateUser(ctx context.Context, u *User) error {
	u.ID = newID()
	created := nowNanos()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users (id, username, password_hash, created_at) VALUES (?, ?, ?, ?)",
		u.ID.String(), u.Username, u.PasswordHash, created,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: username %q already exists", core.ErrValidation, u.Username)
		}
		return fmt.Errorf("%w: insert user: %v", core.ErrStore, err)
	}
	u.CreatedAt = timeOf(created)
	return nil
}

// GetUserByUsername looks up an account for login.
func (r *SQLiteRepository) GetUserByUsername(ctx context.Context, username string) (User, error) {
	var (
		u       User
		idStr   string
		created int64
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, created_at FROM users WHERE username = ?", username,
	).Scan(&idStr, &u.Username, &u.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, core.ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("%w: get user: %v", core.ErrStore, err)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return User{}, fmt.Errorf("%w: user id %q: %v", core.ErrStore, idStr, err)
	}
	u.ID = id
	u.CreatedAt = timeOf(created)
	return u, nil
}

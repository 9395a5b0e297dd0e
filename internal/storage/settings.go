package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/AlvaroPereir4/FinScope/internal/core"
)

// GetSettings returns the owner's settings, or empty lists when none
// were saved yet.
func (r *SQLiteRepository) GetSettings(ctx context.Context, owner string) (core.Settings, error) {
	s := core.Settings{Owner: owner, Categories: []string{}, Buyers: []string{}}

	var categories, buyers string
	err := r.db.QueryRowContext(ctx,
		"SELECT categories, buyers FROM settings WHERE owner = ?", owner,
	).Scan(&categories, &buyers)
	if errors.Is(err, sql.ErrNoRows) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("%w: get settings: %v", core.ErrStore, err)
	}

	if err := json.Unmarshal([]byte(categories), &s.Categories); err != nil {
		return s, fmt.Errorf("%w: decode categories: %v", core.ErrStore, err)
	}
	if err := json.Unmarshal([]byte(buyers), &s.Buyers); err != nil {
		return s, fmt.Errorf("%w: decode buyers: %v", core.ErrStore, err)
	}
	return s, nil
}

// SaveSettings upserts the owner's settings document. List order is
// preserved as submitted.
func (r *SQLiteRepository) SaveSettings(ctx context.Context, s core.Settings) error {
	categories, err := json.Marshal(s.Categories)
	if err != nil {
		return fmt.Errorf("%w: encode categories: %v", core.ErrStore, err)
	}
	buyers, err := json.Marshal(s.Buyers)
	if err != nil {
		return fmt.Errorf("%w: encode buyers: %v", core.ErrStore, err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO settings (owner, categories, buyers) VALUES (?, ?, ?)
		 ON CONFLICT(owner) DO UPDATE SET categories = excluded.categories, buyers = excluded.buyers`,
		s.Owner, string(categories), string(buyers),
	)
	if err != nil {
		return fmt.Errorf("%w: save settings: %v", core.ErrStore, err)
	}
	return nil
}

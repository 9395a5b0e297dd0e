package services

import (
	"path/filepath"
	"testing"

	"github.com/AlvaroPereir4/FinScope/internal/storage"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "finscope.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return NewLedger(repo, nil, ExcludePendingCredit)
}

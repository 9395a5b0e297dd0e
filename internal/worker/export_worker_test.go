package worker

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/AlvaroPereir4/FinScope/internal/amqp"
	"github.com/AlvaroPereir4/FinScope/internal/core"
	"github.com/AlvaroPereir4/FinScope/internal/export/memory"
	"github.com/AlvaroPereir4/FinScope/internal/storage"
)

func newTestWorker(t *testing.T) (*ExportWorker, *storage.SQLiteRepository, *memory.Store) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "finscope.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	target := memory.New()
	return NewExportWorker(repo, target, target), repo, target
}

func TestHandleRecordEventExportsIncome(t *testing.T) {
	w, repo, target := newTestWorker(t)
	ctx := context.Background()

	in := core.Income{Owner: "u1", Description: "salary", Amount: decimal.RequireFromString("1234.50"), Date: "2024-03-01"}
	if err := repo.CreateIncome(ctx, &in); err != nil {
		t.Fatalf("seed income: %v", err)
	}

	ev := amqp.NewRecordEvent(amqp.KindIncome, amqp.ActionCreated, in.ID.String(), "u1")
	if err := w.HandleRecordEvent(ctx, ev); err != nil {
		t.Fatalf("handle: %v", err)
	}

	rows := target.Rows()
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	row := rows[0]
	if row.Kind != amqp.KindIncome || row.ID != in.ID.String() || row.Amount != "1234.50" || row.Date != "2024-03-01" {
		t.Fatalf("unexpected row %+v", row)
	}
}

func TestHandleRecordEventUpdateReplacesRow(t *testing.T) {
	w, repo, target := newTestWorker(t)
	ctx := context.Background()

	e := core.Expense{Owner: "u1", Description: "dinner", Amount: decimal.RequireFromString("45.00"), Date: "2024-03-02"}
	if err := repo.CreateExpense(ctx, &e); err != nil {
		t.Fatalf("seed expense: %v", err)
	}

	created := amqp.NewRecordEvent(amqp.KindExpense, amqp.ActionCreated, e.ID.String(), "u1")
	if err := w.HandleRecordEvent(ctx, created); err != nil {
		t.Fatalf("handle create: %v", err)
	}

	desc := "dinner out"
	if err := repo.UpdateExpense(ctx, "u1", e.ID, storage.ExpenseUpdate{Description: &desc}); err != nil {
		t.Fatalf("update: %v", err)
	}
	updated := amqp.NewRecordEvent(amqp.KindExpense, amqp.ActionUpdated, e.ID.String(), "u1")
	if err := w.HandleRecordEvent(ctx, updated); err != nil {
		t.Fatalf("handle update: %v", err)
	}

	rows := target.Rows()
	if len(rows) != 1 {
		t.Fatalf("update should replace the row, got %d rows", len(rows))
	}
	if rows[0].Description != "dinner out" {
		t.Fatalf("row description = %q, want updated text", rows[0].Description)
	}
}

func TestHandleRecordEventDelete(t *testing.T) {
	w, repo, target := newTestWorker(t)
	ctx := context.Background()

	e := core.Expense{Owner: "u1", Description: "rent", Amount: decimal.RequireFromString("1500.00"), Date: "2024-03-05"}
	if err := repo.CreateMacroExpense(ctx, &e); err != nil {
		t.Fatalf("seed macro expense: %v", err)
	}
	if err := w.HandleRecordEvent(ctx, amqp.NewRecordEvent(amqp.KindMacroExpense, amqp.ActionCreated, e.ID.String(), "u1")); err != nil {
		t.Fatalf("handle create: %v", err)
	}

	if err := w.HandleRecordEvent(ctx, amqp.NewRecordEvent(amqp.KindMacroExpense, amqp.ActionDeleted, e.ID.String(), "u1")); err != nil {
		t.Fatalf("handle delete: %v", err)
	}
	if rows := target.Rows(); len(rows) != 0 {
		t.Fatalf("row should be removed, got %d rows", len(rows))
	}
}

func TestHandleRecordEventMissingRecordIsDropped(t *testing.T) {
	w, _, target := newTestWorker(t)

	ev := amqp.NewRecordEvent(amqp.KindIncome, amqp.ActionCreated, "0c9ad0df-0809-4a03-9a56-7e4f55afbe0a", "u1")
	if err := w.HandleRecordEvent(context.Background(), ev); err != nil {
		t.Fatalf("missing record should not error: %v", err)
	}
	if rows := target.Rows(); len(rows) != 0 {
		t.Fatalf("nothing should be exported, got %d rows", len(rows))
	}
}

package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/AlvaroPereir4/FinScope/internal/core"
	"github.com/AlvaroPereir4/FinScope/internal/storage"
)

func TestRecordOwnerIsolation(t *testing.T) {
	s := newTestLedger(t)
	ctx := context.Background()

	in, err := s.AddIncome(ctx, core.Income{
		Owner: "u1", Description: "salary", Amount: decimal.RequireFromString("100.00"), Date: "2024-03-01",
	})
	if err != nil {
		t.Fatalf("seed income: %v", err)
	}

	// Acting on another owner's record is indistinguishable from a
	// missing record.
	if _, err := s.Income(ctx, "u2", in.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("foreign get: got %v, want not found", err)
	}
	desc := "hijacked"
	if err := s.UpdateIncome(ctx, "u2", in.ID, storage.IncomeUpdate{Description: &desc}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("foreign update: got %v, want not found", err)
	}
	if err := s.DeleteIncome(ctx, "u2", in.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("foreign delete: got %v, want not found", err)
	}

	got, err := s.Income(ctx, "u1", in.ID)
	if err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if got.Description != "salary" {
		t.Fatalf("record was modified by a foreign update: %+v", got)
	}
}

func TestPartialUpdateTouchesOnlySuppliedFields(t *testing.T) {
	s := newTestLedger(t)
	ctx := context.Background()

	res, err := s.SubmitExpense(ctx, core.Expense{
		Owner: "u1", Description: "dinner", Amount: decimal.RequireFromString("45.00"),
		Date: "2024-03-01", Category: "food", Buyer: "Ana",
	})
	if err != nil || res.Created != 1 {
		t.Fatalf("seed expense: %v (%+v)", err, res)
	}
	expenses, err := s.Expenses(ctx, storage.RecordFilter{Owner: "u1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	amount := decimal.RequireFromString("50.00")
	if err := s.UpdateExpense(ctx, "u1", expenses[0].ID, storage.ExpenseUpdate{Amount: &amount}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := s.Expense(ctx, "u1", expenses[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Amount.Equal(amount) {
		t.Errorf("amount = %s, want 50.00", got.Amount)
	}
	if got.Description != "dinner" || got.Category != "food" || got.Buyer != "Ana" {
		t.Errorf("untouched fields changed: %+v", got)
	}
}

func TestDeleteInvestmentCascadesEntries(t *testing.T) {
	s := newTestLedger(t)
	ctx := context.Background()

	inv, err := s.AddInvestment(ctx, core.Investment{Owner: "u1", Name: "fund"})
	if err != nil {
		t.Fatalf("seed investment: %v", err)
	}
	if _, err := s.AddInvestmentEntry(ctx, core.InvestmentEntry{
		Owner: "u1", InvestmentID: inv.ID, EntryType: core.EntryContribution,
		Amount: decimal.RequireFromString("10.00"), Date: "2024-03-01",
	}); err != nil {
		t.Fatalf("seed entry: %v", err)
	}

	if err := s.DeleteInvestment(ctx, "u1", inv.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	entries, err := s.InvestmentEntries(ctx, "u1", inv.ID)
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("entries survived the cascade: %d left", len(entries))
	}
}

func TestSettingsUpsert(t *testing.T) {
	s := newTestLedger(t)
	ctx := context.Background()

	initial, err := s.Settings(ctx, "u1")
	if err != nil {
		t.Fatalf("settings for fresh owner: %v", err)
	}
	if len(initial.Categories) != 0 || len(initial.Buyers) != 0 {
		t.Fatalf("fresh owner should have empty settings: %+v", initial)
	}

	want := core.Settings{Owner: "u1", Categories: []string{"food", "transport"}, Buyers: []string{"Ana"}}
	if err := s.SaveSettings(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	want.Categories = []string{"food"}
	if err := s.SaveSettings(ctx, want); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := s.Settings(ctx, "u1")
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("settings = %+v, want %+v", got, want)
	}
}

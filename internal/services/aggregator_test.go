package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AlvaroPereir4/FinScope/internal/cache"
	"github.com/AlvaroPereir4/FinScope/internal/core"
)

func TestAggregateMonthlyAlignment(t *testing.T) {
	s := newTestLedger(t)
	ctx := context.Background()

	if _, err := s.AddIncome(ctx, core.Income{
		Owner: "u1", Description: "salary", Amount: decimal.RequireFromString("100.00"), Date: "2024-01-15",
	}); err != nil {
		t.Fatalf("seed income: %v", err)
	}
	if _, err := s.SubmitExpense(ctx, core.Expense{
		Owner: "u1", Description: "coffee", Amount: decimal.RequireFromString("40.00"), Date: "2024-02-10",
	}); err != nil {
		t.Fatalf("seed expense: %v", err)
	}
	if _, err := s.AddMacroExpense(ctx, core.Expense{
		Owner: "u1", Description: "rent", Amount: decimal.RequireFromString("60.00"), Date: "2024-02-20",
	}); err != nil {
		t.Fatalf("seed macro expense: %v", err)
	}
	inv, err := s.AddInvestment(ctx, core.Investment{Owner: "u1", Name: "index fund"})
	if err != nil {
		t.Fatalf("seed investment: %v", err)
	}
	if _, err := s.AddInvestmentEntry(ctx, core.InvestmentEntry{
		Owner: "u1", InvestmentID: inv.ID, EntryType: core.EntryContribution,
		Amount: decimal.RequireFromString("50.00"), Date: "2024-03-05",
	}); err != nil {
		t.Fatalf("seed entry: %v", err)
	}

	rows, err := s.Aggregate(ctx, AggregateRequest{Owner: "u1", Period: PeriodAll, Granularity: core.ByMonth})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}

	want := []struct {
		label                     string
		income, expense, invested string
	}{
		{"01/2024", "100", "0", "0"},
		{"02/2024", "0", "100", "0"},
		{"03/2024", "0", "0", "50"},
	}
	if len(rows) != len(want) {
		t.Fatalf("rows = %d, want %d", len(rows), len(want))
	}
	for i, w := range want {
		row := rows[i]
		if row.Label != w.label {
			t.Errorf("row %d: label = %s, want %s", i, row.Label, w.label)
		}
		if !row.Income.Equal(decimal.RequireFromString(w.income)) {
			t.Errorf("row %s: income = %s, want %s", w.label, row.Income, w.income)
		}
		if !row.Expense.Equal(decimal.RequireFromString(w.expense)) {
			t.Errorf("row %s: expense = %s, want %s", w.label, row.Expense, w.expense)
		}
		if !row.Invested.Equal(decimal.RequireFromString(w.invested)) {
			t.Errorf("row %s: invested = %s, want %s", w.label, row.Invested, w.invested)
		}
	}
}

func TestAggregateInvestedCountsContributionsOnly(t *testing.T) {
	s := newTestLedger(t)
	ctx := context.Background()

	inv, err := s.AddInvestment(ctx, core.Investment{Owner: "u1", Name: "savings"})
	if err != nil {
		t.Fatalf("seed investment: %v", err)
	}
	entries := []core.InvestmentEntry{
		{Owner: "u1", InvestmentID: inv.ID, EntryType: core.EntryContribution, Amount: decimal.RequireFromString("50.00"), Date: "2024-03-01"},
		{Owner: "u1", InvestmentID: inv.ID, EntryType: core.EntryYield, Amount: decimal.RequireFromString("10.00"), Date: "2024-03-02"},
		{Owner: "u1", InvestmentID: inv.ID, EntryType: core.EntryWithdrawal, Amount: decimal.RequireFromString("20.00"), Date: "2024-03-03"},
	}
	for _, e := range entries {
		if _, err := s.AddInvestmentEntry(ctx, e); err != nil {
			t.Fatalf("seed entry: %v", err)
		}
	}

	rows, err := s.Aggregate(ctx, AggregateRequest{Owner: "u1", Period: PeriodAll, Granularity: core.ByMonth})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if !rows[0].Invested.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("invested = %s, want 50 (yields and withdrawals excluded)", rows[0].Invested)
	}
}

func TestAggregateCalendarYearWindow(t *testing.T) {
	s := newTestLedger(t)
	ctx := context.Background()

	for _, in := range []core.Income{
		{Owner: "u1", Description: "old", Amount: decimal.RequireFromString("10.00"), Date: "2023-12-31"},
		{Owner: "u1", Description: "new", Amount: decimal.RequireFromString("20.00"), Date: "2024-01-01"},
	} {
		if _, err := s.AddIncome(ctx, in); err != nil {
			t.Fatalf("seed income: %v", err)
		}
	}

	rows, err := s.Aggregate(ctx, AggregateRequest{
		Owner: "u1", Period: PeriodCalendarYear, Year: 2024, Granularity: core.ByYear,
	})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(rows) != 1 || rows[0].Label != "2024" {
		t.Fatalf("expected only the 2024 bucket, got %+v", rows)
	}
	if !rows[0].Income.Equal(decimal.RequireFromString("20")) {
		t.Fatalf("income = %s, want 20", rows[0].Income)
	}
}

func TestAggregateLabels(t *testing.T) {
	s := newTestLedger(t)
	ctx := context.Background()

	if _, err := s.AddIncome(ctx, core.Income{
		Owner: "u1", Description: "salary", Amount: decimal.RequireFromString("5.00"), Date: "2024-03-07",
	}); err != nil {
		t.Fatalf("seed income: %v", err)
	}

	tests := []struct {
		granularity core.Granularity
		want        string
	}{
		{core.ByDay, "07/03"},
		{core.ByMonth, "03/2024"},
		{core.ByYear, "2024"},
	}
	for _, tt := range tests {
		rows, err := s.Aggregate(ctx, AggregateRequest{Owner: "u1", Period: PeriodAll, Granularity: tt.granularity})
		if err != nil {
			t.Fatalf("aggregate %s: %v", tt.granularity, err)
		}
		if len(rows) != 1 || rows[0].Label != tt.want {
			t.Errorf("granularity %s: label = %q, want %q", tt.granularity, rows[0].Label, tt.want)
		}
	}
}

func TestAggregateValidation(t *testing.T) {
	s := newTestLedger(t)
	ctx := context.Background()

	if _, err := s.Aggregate(ctx, AggregateRequest{Owner: "u1", Period: PeriodAll, Granularity: "week"}); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("unknown granularity should be a validation error, got %v", err)
	}
	if _, err := s.Aggregate(ctx, AggregateRequest{Owner: "u1", Period: "fortnight", Granularity: core.ByDay}); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("unknown period should be a validation error, got %v", err)
	}
	if _, err := s.Aggregate(ctx, AggregateRequest{Owner: "u1", Period: PeriodCalendarYear, Granularity: core.ByDay}); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("calendar-year without a year should be a validation error, got %v", err)
	}
}

func TestAggregateCacheInvalidatedOnWrite(t *testing.T) {
	s := newTestLedger(t).WithDashboardCache(cache.NewLRUCache[[]ChartRow](16, time.Minute))
	ctx := context.Background()

	if _, err := s.AddIncome(ctx, core.Income{
		Owner: "u1", Description: "salary", Amount: decimal.RequireFromString("100.00"), Date: "2024-01-15",
	}); err != nil {
		t.Fatalf("seed income: %v", err)
	}

	req := AggregateRequest{Owner: "u1", Period: PeriodAll, Granularity: core.ByMonth}
	rows, err := s.Aggregate(ctx, req)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}

	if _, err := s.AddIncome(ctx, core.Income{
		Owner: "u1", Description: "bonus", Amount: decimal.RequireFromString("50.00"), Date: "2024-02-15",
	}); err != nil {
		t.Fatalf("second income: %v", err)
	}

	rows, err = s.Aggregate(ctx, req)
	if err != nil {
		t.Fatalf("aggregate after write: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("cached rows survived a write: rows = %d, want 2", len(rows))
	}
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AlvaroPereir4/FinScope/internal/core"
)

// seedFeed creates 2 incomes, 3 micro expenses and 1 macro expense for
// owner u1, plus one record for another owner.
func seedFeed(t *testing.T, s *Ledger) {
	t.Helper()
	ctx := context.Background()

	incomes := []core.Income{
		{Owner: "u1", Description: "salary", Amount: decimal.RequireFromString("5000.00"), Date: "2024-03-01"},
		{Owner: "u1", Description: "bonus", Amount: decimal.RequireFromString("500.00"), Date: "2024-03-10"},
	}
	for _, in := range incomes {
		if _, err := s.AddIncome(ctx, in); err != nil {
			t.Fatalf("seed income: %v", err)
		}
	}

	micro := []core.Expense{
		{Owner: "u1", Description: "coffee", Amount: decimal.RequireFromString("12.00"), Date: "2024-03-02"},
		{Owner: "u1", Description: "market", Amount: decimal.RequireFromString("80.00"), Date: "2024-03-08", Establishment: "SuperFoods"},
		{Owner: "u1", Description: "taxi", Amount: decimal.RequireFromString("30.00"), Date: "2024-02-28"},
	}
	for _, e := range micro {
		if _, err := s.SubmitExpense(ctx, e); err != nil {
			t.Fatalf("seed expense: %v", err)
		}
	}

	if _, err := s.AddMacroExpense(ctx, core.Expense{
		Owner: "u1", Description: "rent", Amount: decimal.RequireFromString("1500.00"), Date: "2024-03-05",
	}); err != nil {
		t.Fatalf("seed macro expense: %v", err)
	}

	if _, err := s.AddIncome(ctx, core.Income{
		Owner: "u2", Description: "other owner", Amount: decimal.RequireFromString("1.00"), Date: "2024-03-09",
	}); err != nil {
		t.Fatalf("seed foreign income: %v", err)
	}
}

func TestTransactionsMergeOrder(t *testing.T) {
	s := newTestLedger(t)
	seedFeed(t, s)

	page, err := s.Transactions(context.Background(), FeedRequest{Owner: "u1", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if page.TotalItems != 6 {
		t.Fatalf("total items = %d, want 6", page.TotalItems)
	}
	if page.TotalPages != 1 {
		t.Fatalf("total pages = %d, want 1", page.TotalPages)
	}

	wantDates := []core.Date{"2024-03-10", "2024-03-08", "2024-03-05", "2024-03-02", "2024-03-01", "2024-02-28"}
	if len(page.Items) != len(wantDates) {
		t.Fatalf("items = %d, want %d", len(page.Items), len(wantDates))
	}
	for i, want := range wantDates {
		if page.Items[i].Date != want {
			t.Errorf("item %d: date = %s, want %s", i, page.Items[i].Date, want)
		}
	}
	if page.Items[2].Source != core.SourceMacro {
		t.Errorf("rent should carry the macro tag, got %s", page.Items[2].Source)
	}
}

func TestTransactionsCreationOrderTieBreak(t *testing.T) {
	s := newTestLedger(t)
	ctx := context.Background()

	for _, desc := range []string{"first", "second"} {
		if _, err := s.AddIncome(ctx, core.Income{
			Owner: "u1", Description: desc, Amount: decimal.RequireFromString("1.00"), Date: "2024-03-01",
		}); err != nil {
			t.Fatalf("seed income: %v", err)
		}
	}

	page, err := s.Transactions(ctx, FeedRequest{Owner: "u1", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if page.Items[0].Income.Description != "second" || page.Items[1].Income.Description != "first" {
		t.Fatalf("same-date records should order most recently created first")
	}
}

func TestTransactionsPagination(t *testing.T) {
	s := newTestLedger(t)
	seedFeed(t, s)
	ctx := context.Background()

	seen := make(map[uuid.UUID]int)
	var pages int
	for page := 1; ; page++ {
		got, err := s.Transactions(ctx, FeedRequest{Owner: "u1", Page: page, PageSize: 4})
		if err != nil {
			t.Fatalf("page %d: %v", page, err)
		}
		if got.TotalPages != 2 {
			t.Fatalf("total pages = %d, want 2", got.TotalPages)
		}
		if len(got.Items) == 0 {
			break
		}
		pages++
		for _, item := range got.Items {
			seen[item.ID]++
		}
	}

	if pages != 2 {
		t.Fatalf("walked %d non-empty pages, want 2", pages)
	}
	if len(seen) != 6 {
		t.Fatalf("union of pages has %d items, want 6", len(seen))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("item %s appeared on %d pages", id, n)
		}
	}
}

func TestTransactionsDateRange(t *testing.T) {
	s := newTestLedger(t)
	seedFeed(t, s)

	page, err := s.Transactions(context.Background(), FeedRequest{
		Owner: "u1", Page: 1, PageSize: 10, From: "2024-03-01", To: "2024-03-05",
	})
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	// salary (03-01), coffee (03-02), rent (03-05); boundaries inclusive
	if page.TotalItems != 3 {
		t.Fatalf("total items = %d, want 3", page.TotalItems)
	}
}

func TestTransactionsSearch(t *testing.T) {
	s := newTestLedger(t)
	seedFeed(t, s)
	ctx := context.Background()

	page, err := s.Transactions(ctx, FeedRequest{Owner: "u1", Page: 1, PageSize: 10, Search: "superfoods"})
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if page.TotalItems != 1 || page.Items[0].Expense.Description != "market" {
		t.Fatalf("establishment search should match the market expense, got %+v", page)
	}

	page, err = s.Transactions(ctx, FeedRequest{Owner: "u1", Page: 1, PageSize: 10, Search: "salary"})
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if page.TotalItems != 1 || page.Items[0].Source != core.SourceIncome {
		t.Fatalf("description search should match the salary income, got %+v", page)
	}
}

func TestTransactionsViewFilter(t *testing.T) {
	s := newTestLedger(t)
	seedFeed(t, s)
	ctx := context.Background()

	tests := []struct {
		view string
		want int
	}{
		{ViewAll, 6},
		{ViewIncomes, 2},
		{ViewMicro, 3},
		{ViewMacro, 1},
		{ViewExpenses, 4},
	}
	for _, tt := range tests {
		page, err := s.Transactions(ctx, FeedRequest{Owner: "u1", Page: 1, PageSize: 10, View: tt.view})
		if err != nil {
			t.Fatalf("view %s: %v", tt.view, err)
		}
		if page.TotalItems != tt.want {
			t.Errorf("view %s: total items = %d, want %d", tt.view, page.TotalItems, tt.want)
		}
	}
}

func TestTransactionsOwnerIsolation(t *testing.T) {
	s := newTestLedger(t)
	seedFeed(t, s)

	page, err := s.Transactions(context.Background(), FeedRequest{Owner: "u3", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if page.TotalItems != 0 || page.TotalPages != 0 {
		t.Fatalf("unknown owner should see an empty feed, got %+v", page)
	}
}

func TestTransactionsValidation(t *testing.T) {
	s := newTestLedger(t)

	if _, err := s.Transactions(context.Background(), FeedRequest{Owner: "u1", Page: 0, PageSize: 10}); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("page 0 should be a validation error, got %v", err)
	}
	if _, err := s.Transactions(context.Background(), FeedRequest{Owner: "u1", Page: 1, PageSize: 0}); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("page size 0 should be a validation error, got %v", err)
	}
}

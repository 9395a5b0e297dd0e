package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AlvaroPereir4/FinScope/internal/core"
	"github.com/AlvaroPereir4/FinScope/internal/storage"
)

func TestBalancePrefersWallets(t *testing.T) {
	s := newTestLedger(t)
	ctx := context.Background()

	for _, w := range []core.Wallet{
		{Owner: "u1", Name: "checking", Balance: decimal.RequireFromString("100.00")},
		{Owner: "u1", Name: "savings", Balance: decimal.RequireFromString("50.00")},
	} {
		if _, err := s.AddWallet(ctx, w); err != nil {
			t.Fatalf("seed wallet: %v", err)
		}
	}
	if _, err := s.AddIncome(ctx, core.Income{
		Owner: "u1", Description: "ignored", Amount: decimal.RequireFromString("999.00"), Date: "2024-01-01",
	}); err != nil {
		t.Fatalf("seed income: %v", err)
	}

	balance, err := s.Balance(ctx, "u1")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.Equal(decimal.RequireFromString("150.00")) {
		t.Fatalf("balance = %s, want 150.00 (wallet sum)", balance)
	}
}

func TestBalanceFallbackExcludesPendingCredit(t *testing.T) {
	s := newTestLedger(t)
	ctx := context.Background()

	if _, err := s.AddIncome(ctx, core.Income{
		Owner: "u1", Description: "salary", Amount: decimal.RequireFromString("1000.00"), Date: "2024-03-01",
	}); err != nil {
		t.Fatalf("seed income: %v", err)
	}
	if _, err := s.AddMacroExpense(ctx, core.Expense{
		Owner: "u1", Description: "rent", Amount: decimal.RequireFromString("100.00"), Date: "2024-03-05",
	}); err != nil {
		t.Fatalf("seed macro expense: %v", err)
	}
	if _, err := s.SubmitExpense(ctx, core.Expense{
		Owner: "u1", Description: "new phone", Amount: decimal.RequireFromString("200.00"),
		Date: "2024-03-10", PaymentMethod: core.PaymentCredit,
	}); err != nil {
		t.Fatalf("seed credit expense: %v", err)
	}

	balance, err := s.Balance(ctx, "u1")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.Equal(decimal.RequireFromString("900.00")) {
		t.Fatalf("balance = %s, want 900.00 (pending credit excluded)", balance)
	}

	// Consolidating the credit charge makes it count.
	expenses, err := s.Expenses(ctx, storage.RecordFilter{Owner: "u1"})
	if err != nil {
		t.Fatalf("list expenses: %v", err)
	}
	consolidated := true
	if err := s.UpdateExpense(ctx, "u1", expenses[0].ID, storage.ExpenseUpdate{Consolidated: &consolidated}); err != nil {
		t.Fatalf("consolidate: %v", err)
	}

	balance, err = s.Balance(ctx, "u1")
	if err != nil {
		t.Fatalf("balance after consolidation: %v", err)
	}
	if !balance.Equal(decimal.RequireFromString("700.00")) {
		t.Fatalf("balance = %s, want 700.00 after consolidation", balance)
	}
}

func TestBalanceCountAllPolicy(t *testing.T) {
	s := newTestLedger(t)
	ctx := context.Background()

	if _, err := s.AddIncome(ctx, core.Income{
		Owner: "u1", Description: "salary", Amount: decimal.RequireFromString("1000.00"), Date: "2024-03-01",
	}); err != nil {
		t.Fatalf("seed income: %v", err)
	}
	if _, err := s.SubmitExpense(ctx, core.Expense{
		Owner: "u1", Description: "pending", Amount: decimal.RequireFromString("200.00"),
		Date: "2024-03-10", PaymentMethod: core.PaymentCredit,
	}); err != nil {
		t.Fatalf("seed credit expense: %v", err)
	}

	countAll := NewLedger(s.storage, nil, CountAllExpenses)
	balance, err := countAll.Balance(ctx, "u1")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.Equal(decimal.RequireFromString("800.00")) {
		t.Fatalf("balance = %s, want 800.00 under count-all policy", balance)
	}
}

func TestNetWorth(t *testing.T) {
	s := newTestLedger(t)
	ctx := context.Background()

	if _, err := s.AddWallet(ctx, core.Wallet{
		Owner: "u1", Name: "checking", Balance: decimal.RequireFromString("100.00"),
	}); err != nil {
		t.Fatalf("seed wallet: %v", err)
	}
	if _, err := s.AddInvestment(ctx, core.Investment{
		Owner: "u1", Name: "index fund", CurrentAmount: decimal.RequireFromString("400.00"),
	}); err != nil {
		t.Fatalf("seed investment: %v", err)
	}

	sum, err := s.NetWorth(ctx, "u1")
	if err != nil {
		t.Fatalf("net worth: %v", err)
	}
	if !sum.Balance.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("balance = %s, want 100.00", sum.Balance)
	}
	if !sum.Invested.Equal(decimal.RequireFromString("400.00")) {
		t.Errorf("invested = %s, want 400.00", sum.Invested)
	}
	if !sum.NetWorth.Equal(decimal.RequireFromString("500.00")) {
		t.Errorf("net worth = %s, want 500.00", sum.NetWorth)
	}
}

func TestCardInvoiceWindow(t *testing.T) {
	s := newTestLedger(t)
	ctx := context.Background()

	card, err := s.AddCard(ctx, core.Card{Owner: "u1", Name: "platinum", ClosingDay: 10, DueDay: 20})
	if err != nil {
		t.Fatalf("seed card: %v", err)
	}

	charges := []struct {
		desc   string
		date   core.Date
		amount string
		buyer  string
	}{
		{"before window", "2024-02-10", "99.00", ""},
		{"window opens", "2024-02-11", "40.00", ""},
		{"window closes", "2024-03-10", "60.00", "Ana"},
		{"after window", "2024-03-11", "77.00", ""},
	}
	for _, c := range charges {
		if _, err := s.SubmitExpense(ctx, core.Expense{
			Owner: "u1", Description: c.desc, Amount: decimal.RequireFromString(c.amount),
			Date: c.date, Buyer: c.buyer, CardID: &card.ID, PaymentMethod: core.PaymentCredit,
		}); err != nil {
			t.Fatalf("seed charge %s: %v", c.desc, err)
		}
	}

	invoice, err := s.CardInvoice(ctx, "u1", card.ID, "2024-03")
	if err != nil {
		t.Fatalf("invoice: %v", err)
	}
	if invoice.From != "2024-02-11" || invoice.To != "2024-03-10" {
		t.Fatalf("window = %s..%s, want 2024-02-11..2024-03-10", invoice.From, invoice.To)
	}
	if len(invoice.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(invoice.Items))
	}
	if !invoice.Total.Equal(decimal.RequireFromString("100.00")) {
		t.Fatalf("total = %s, want 100.00", invoice.Total)
	}
	if !invoice.ByBuyer[InvoiceOtherBuyer].Equal(decimal.RequireFromString("40.00")) {
		t.Errorf("empty buyer should land in %q, got %+v", InvoiceOtherBuyer, invoice.ByBuyer)
	}
	if !invoice.ByBuyer["Ana"].Equal(decimal.RequireFromString("60.00")) {
		t.Errorf("buyer Ana subtotal = %s, want 60.00", invoice.ByBuyer["Ana"])
	}
}

func TestCardInvoiceClampsClosingDay(t *testing.T) {
	s := newTestLedger(t)
	ctx := context.Background()

	card, err := s.AddCard(ctx, core.Card{Owner: "u1", Name: "month-end", ClosingDay: 31, DueDay: 5})
	if err != nil {
		t.Fatalf("seed card: %v", err)
	}

	invoice, err := s.CardInvoice(ctx, "u1", card.ID, "2024-02")
	if err != nil {
		t.Fatalf("invoice: %v", err)
	}
	if invoice.From != "2024-02-01" || invoice.To != "2024-02-29" {
		t.Fatalf("window = %s..%s, want 2024-02-01..2024-02-29", invoice.From, invoice.To)
	}
}

func TestCardInvoiceNotFound(t *testing.T) {
	s := newTestLedger(t)
	ctx := context.Background()

	foreign, err := s.AddCard(ctx, core.Card{Owner: "u2", Name: "theirs", ClosingDay: 10, DueDay: 20})
	if err != nil {
		t.Fatalf("seed foreign card: %v", err)
	}

	if _, err := s.CardInvoice(ctx, "u1", uuid.New(), "2024-03"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("missing card should be not found, got %v", err)
	}
	if _, err := s.CardInvoice(ctx, "u1", foreign.ID, "2024-03"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("foreign card should be not found, got %v", err)
	}
	if _, err := s.CardInvoice(ctx, "u1", foreign.ID, "03/2024"); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("malformed reference month should be a validation error, got %v", err)
	}
}

func TestInvestmentAccumulator(t *testing.T) {
	s := newTestLedger(t)
	ctx := context.Background()

	inv, err := s.AddInvestment(ctx, core.Investment{
		Owner: "u1", Name: "fund", CurrentAmount: decimal.RequireFromString("100.00"),
	})
	if err != nil {
		t.Fatalf("seed investment: %v", err)
	}

	entries := []core.InvestmentEntry{
		{Owner: "u1", InvestmentID: inv.ID, EntryType: core.EntryContribution, Amount: decimal.RequireFromString("50.00"), Date: "2024-03-01"},
		{Owner: "u1", InvestmentID: inv.ID, EntryType: core.EntryWithdrawal, Amount: decimal.RequireFromString("30.00"), Date: "2024-03-02"},
	}
	for _, e := range entries {
		if _, err := s.AddInvestmentEntry(ctx, e); err != nil {
			t.Fatalf("add entry: %v", err)
		}
	}

	got, err := s.Investment(ctx, "u1", inv.ID)
	if err != nil {
		t.Fatalf("get investment: %v", err)
	}
	if !got.CurrentAmount.Equal(decimal.RequireFromString("120.00")) {
		t.Fatalf("current amount = %s, want 120.00", got.CurrentAmount)
	}
}

func TestInvestmentAccumulatorConcurrent(t *testing.T) {
	s := newTestLedger(t)
	ctx := context.Background()

	inv, err := s.AddInvestment(ctx, core.Investment{
		Owner: "u1", Name: "fund", CurrentAmount: decimal.RequireFromString("100.00"),
	})
	if err != nil {
		t.Fatalf("seed investment: %v", err)
	}

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.AddInvestmentEntry(ctx, core.InvestmentEntry{
				Owner: "u1", InvestmentID: inv.ID, EntryType: core.EntryContribution,
				Amount: decimal.RequireFromString("10.00"), Date: "2024-03-01",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent entry: %v", err)
		}
	}

	got, err := s.Investment(ctx, "u1", inv.ID)
	if err != nil {
		t.Fatalf("get investment: %v", err)
	}
	if !got.CurrentAmount.Equal(decimal.RequireFromString("200.00")) {
		t.Fatalf("current amount = %s, want 200.00 (no lost updates)", got.CurrentAmount)
	}
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AlvaroPereir4/FinScope/internal/core"
)

// Summary is the owner's point-in-time financial overview.
type Summary struct {
	Balance  decimal.Decimal
	Invested decimal.Decimal
	NetWorth decimal.Decimal
}

// Invoice is one card's billing cycle: the resolved window, the
// expenses charged in it, their total and per-buyer subtotals.
type Invoice struct {
	Card    core.Card
	From    core.Date
	To      core.Date
	Items   []core.Expense
	Total   decimal.Decimal
	ByBuyer map[string]decimal.Decimal
}

// InvoiceOtherBuyer buckets items whose buyer field is empty.
const InvoiceOtherBuyer = "Other"

// Balance returns the owner's account balance: the sum of wallet
// balances when wallets exist, otherwise incomes minus counted
// expenses. Which expenses count depends on the configured policy;
// under the default, unconsolidated credit charges have not left the
// account yet and are excluded.
func (s *Ledger) Balance(ctx context.Context, owner string) (decimal.Decimal, error) {
	total, wallets, err := s.storage.SumWalletBalances(ctx, owner)
	if err != nil {
		return decimal.Zero, err
	}
	if wallets > 0 {
		return total, nil
	}

	incomes, err := s.storage.SumIncomes(ctx, owner)
	if err != nil {
		return decimal.Zero, err
	}
	micro, err := s.storage.SumExpenses(ctx, owner, s.policy == ExcludePendingCredit)
	if err != nil {
		return decimal.Zero, err
	}
	macro, err := s.storage.SumMacroExpenses(ctx, owner)
	if err != nil {
		return decimal.Zero, err
	}
	return incomes.Sub(micro).Sub(macro), nil
}

// NetWorth is balance plus the current amount of every investment.
func (s *Ledger) NetWorth(ctx context.Context, owner string) (Summary, error) {
	balance, err := s.Balance(ctx, owner)
	if err != nil {
		return Summary{}, err
	}
	invested, err := s.storage.SumInvestments(ctx, owner)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Balance:  balance,
		Invested: invested,
		NetWorth: balance.Add(invested),
	}, nil
}

// CardInvoice resolves the card's billing cycle for a reference month
// ("YYYY-MM") and collects the expenses charged to the card inside it.
// The cycle for month M runs from the day after the previous month's
// closing day through the closing day of M, inclusive, with the
// closing day clamped to each month's last valid day. A missing or
// foreign card is a not-found condition, never an empty invoice.
func (s *Ledger) CardInvoice(ctx context.Context, owner string, cardID uuid.UUID, refMonth string) (Invoice, error) {
	ref, err := time.Parse("2006-01", refMonth)
	if err != nil {
		return Invoice{}, fmt.Errorf("%w: reference month must be YYYY-MM, got %q", core.ErrValidation, refMonth)
	}

	card, err := s.storage.GetCard(ctx, owner, cardID)
	if err != nil {
		return Invoice{}, err
	}

	to := cycleClose(ref.Year(), ref.Month(), card.ClosingDay)
	prev := ref.AddDate(0, -1, 0)
	from := core.DateOf(cycleClose(prev.Year(), prev.Month(), card.ClosingDay).Time().AddDate(0, 0, 1))

	items, err := s.storage.ListExpensesByCard(ctx, owner, cardID, from, to)
	if err != nil {
		return Invoice{}, err
	}

	total := decimal.Zero
	byBuyer := make(map[string]decimal.Decimal)
	for _, e := range items {
		total = total.Add(e.Amount)
		buyer := e.Buyer
		if buyer == "" {
			buyer = InvoiceOtherBuyer
		}
		byBuyer[buyer] = byBuyer[buyer].Add(e.Amount)
	}

	return Invoice{
		Card:    card,
		From:    from,
		To:      to,
		Items:   items,
		Total:   total,
		ByBuyer: byBuyer,
	}, nil
}

// cycleClose is the cycle closing date for a month, with the closing
// day clamped to the month's last valid day.
func cycleClose(year int, month time.Month, day int) core.Date {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		day = last
	}
	return core.DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

package storage

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/AlvaroPereir4/FinScope/internal/core"
)

// DatedAmount is the minimal projection the period aggregator buckets:
// one record's calendar day and amount.
type DatedAmount struct {
	Date   core.Date
	Amount decimal.Decimal
}

// ListIncomeAmounts returns (date, amount) pairs for the owner's
// incomes within the window. Zero bounds leave that side open.
func (r *SQLiteRepository) ListIncomeAmounts(ctx context.Context, owner string, from, to core.Date) ([]DatedAmount, error) {
	return r.listAmounts(ctx, "SELECT date, amount_cents FROM incomes WHERE owner = ?", owner, from, to)
}

// ListExpenseAmounts is ListIncomeAmounts for micro expenses.
func (r *SQLiteRepository) ListExpenseAmounts(ctx context.Context, owner string, from, to core.Date) ([]DatedAmount, error) {
	return r.listAmounts(ctx, "SELECT date, amount_cents FROM expenses WHERE owner = ?", owner, from, to)
}

// ListMacroExpenseAmounts is ListIncomeAmounts for macro expenses.
func (r *SQLiteRepository) ListMacroExpenseAmounts(ctx context.Context, owner string, from, to core.Date) ([]DatedAmount, error) {
	return r.listAmounts(ctx, "SELECT date, amount_cents FROM macro_expenses WHERE owner = ?", owner, from, to)
}

// ListContributionAmounts returns (date, amount) pairs for investment
// contributions only; yields and withdrawals never feed the invested
// series.
func (r *SQLiteRepository) ListContributionAmounts(ctx context.Context, owner string, from, to core.Date) ([]DatedAmount, error) {
	return r.listAmounts(ctx,
		"SELECT date, amount_cents FROM investment_entries WHERE entry_type = 'contribution' AND owner = ?",
		owner, from, to)
}

func (r *SQLiteRepository) listAmounts(ctx context.Context, base, owner string, from, to core.Date) ([]DatedAmount, error) {
	query := base
	args := []any{owner}
	if !from.IsZero() {
		query += " AND date >= ?"
		args = append(args, string(from))
	}
	if !to.IsZero() {
		query += " AND date <= ?"
		args = append(args, string(to))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list amounts: %v", core.ErrStore, err)
	}
	defer rows.Close()

	var amounts []DatedAmount
	for rows.Next() {
		var (
			dateStr string
			centsV  int64
		)
		if err := rows.Scan(&dateStr, &centsV); err != nil {
			return nil, fmt.Errorf("%w: scan amount: %v", core.ErrStore, err)
		}
		amounts = append(amounts, DatedAmount{Date: core.Date(dateStr), Amount: amount(centsV)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate amounts: %v", core.ErrStore, err)
	}
	return amounts, nil
}

// SumWalletBalances returns the total balance across the owner's
// wallets and how many wallets exist, so the balance calculator can
// fall back to the income-minus-expenses rule when there are none.
func (r *SQLiteRepository) SumWalletBalances(ctx context.Context, owner string) (decimal.Decimal, int, error) {
	var (
		total int64
		n     int
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(balance_cents), 0), COUNT(*) FROM wallets WHERE owner = ?", owner,
	).Scan(&total, &n)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("%w: sum wallet balances: %v", core.ErrStore, err)
	}
	return amount(total), n, nil
}

// SumIncomes returns the owner's total income.
func (r *SQLiteRepository) SumIncomes(ctx context.Context, owner string) (decimal.Decimal, error) {
	return r.sumCents(ctx, "SELECT COALESCE(SUM(amount_cents), 0) FROM incomes WHERE owner = ?", owner)
}

// SumExpenses returns the owner's total micro expenses. With
// settledOnly set, unconsolidated credit-card expenses are excluded:
// that money has not left the account yet.
func (r *SQLiteRepository) SumExpenses(ctx context.Context, owner string, settledOnly bool) (decimal.Decimal, error) {
	query := "SELECT COALESCE(SUM(amount_cents), 0) FROM expenses WHERE owner = ?"
	if settledOnly {
		query += " AND (is_consolidated = 1 OR payment_method <> '" + core.PaymentCredit + "')"
	}
	return r.sumCents(ctx, query, owner)
}

// SumMacroExpenses returns the owner's total macro expenses.
func (r *SQLiteRepository) SumMacroExpenses(ctx context.Context, owner string) (decimal.Decimal, error) {
	return r.sumCents(ctx, "SELECT COALESCE(SUM(amount_cents), 0) FROM macro_expenses WHERE owner = ?", owner)
}

// SumInvestments returns the total current amount across the owner's
// investments.
func (r *SQLiteRepository) SumInvestments(ctx context.Context, owner string) (decimal.Decimal, error) {
	return r.sumCents(ctx, "SELECT COALESCE(SUM(current_amount_cents), 0) FROM investments WHERE owner = ?", owner)
}

func (r *SQLiteRepository) sumCents(ctx context.Context, query, owner string) (decimal.Decimal, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, query, owner).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("%w: sum: %v", core.ErrStore, err)
	}
	return amount(total), nil
}

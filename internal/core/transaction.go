package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Source identifies which record stream a merged transaction came from.
type Source string

const (
	SourceIncome Source = "income"
	SourceMicro  Source = "micro"
	SourceMacro  Source = "macro"
)

// Type returns the coarse transaction type for a source: "income" for
// the income stream, "expense" for both expense streams.
func (s Source) Type() string {
	if s == SourceIncome {
		return "income"
	}
	return "expense"
}

// Transaction is one row of the unified feed: a common projection used
// for sorting and display, plus the full source payload for
// serialization. Exactly one of Income/Expense is set, per Source.
type Transaction struct {
	ID        uuid.UUID
	Source    Source
	Date      Date
	Amount    decimal.Decimal
	CreatedAt time.Time

	Income  *Income
	Expense *Expense
}

// FromIncome projects an income record into the feed.
func FromIncome(in Income) Transaction {
	return Transaction{
		ID:        in.ID,
		Source:    SourceIncome,
		Date:      in.Date,
		Amount:    in.Amount,
		CreatedAt: in.CreatedAt,
		Income:    &in,
	}
}

// FromExpense projects a micro or macro expense record into the feed.
func FromExpense(e Expense, src Source) Transaction {
	return Transaction{
		ID:        e.ID,
		Source:    src,
		Date:      e.Date,
		Amount:    e.Amount,
		CreatedAt: e.CreatedAt,
		Expense:   &e,
	}
}

// Less orders transactions date descending, then creation time
// descending, then id descending so pages are deterministic.
func (t Transaction) Less(other Transaction) bool {
	if t.Date != other.Date {
		return t.Date > other.Date
	}
	if !t.CreatedAt.Equal(other.CreatedAt) {
		return t.CreatedAt.After(other.CreatedAt)
	}
	return t.ID.String() > other.ID.String()
}

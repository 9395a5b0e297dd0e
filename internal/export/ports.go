// Package export defines the outbound ports of the ledger export
// pipeline: every income, micro and macro expense write is mirrored as
// one flat row in an external target.
package export

import (
	"context"

	"github.com/AlvaroPereir4/FinScope/internal/core"
)

// Row is the flattened projection of a ledger record that export
// targets understand.
type Row struct {
	Kind        string
	ID          string
	Owner       string
	Date        core.Date
	Description string
	Amount      string // decimal rendering, two places
	Category    string
	Buyer       string
}

// Ports for outbound adapters.
type (
	RowWriter interface {
		Append(ctx context.Context, row Row) (rowRef string, err error)
	}

	RowDeleter interface {
		// Delete removes the row for a record id. Targets that cannot
		// locate rows by id may return ErrUnsupported semantics via a
		// plain error; the worker logs and drops those.
		Delete(ctx context.Context, id string) error
	}
)

// RowFromIncome projects an income record.
func RowFromIncome(kind string, in core.Income) Row {
	return Row{
		Kind:        kind,
		ID:          in.ID.String(),
		Owner:       in.Owner,
		Date:        in.Date,
		Description: in.Description,
		Amount:      in.Amount.StringFixed(2),
	}
}

// RowFromExpense projects a micro or macro expense record.
func RowFromExpense(kind string, e core.Expense) Row {
	return Row{
		Kind:        kind,
		ID:          e.ID.String(),
		Owner:       e.Owner,
		Date:        e.Date,
		Description: e.Description,
		Amount:      e.Amount.StringFixed(2),
		Category:    e.Category,
		Buyer:       e.Buyer,
	}
}

package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType classifies an investment entry. Contributions and yields add
// to the investment's current amount, withdrawals subtract.
type EntryType string

const (
	EntryContribution EntryType = "contribution"
	EntryYield        EntryType = "yield"
	EntryWithdrawal   EntryType = "withdrawal"
)

// PaymentCredit is the payment method that keeps an unconsolidated micro
// expense out of the account balance until it is consolidated.
const PaymentCredit = "credit"

type (
	// Income is a dated money inflow.
	Income struct {
		ID          uuid.UUID
		Owner       string
		Description string
		Amount      decimal.Decimal
		Date        Date
		CreatedAt   time.Time
	}

	// Expense is a dated money outflow. The same shape backs both micro
	// expenses (discretionary, possibly installment-labelled) and macro
	// expenses (consolidated monthly records, never expanded).
	Expense struct {
		ID               uuid.UUID
		Owner            string
		Description      string
		Amount           decimal.Decimal
		Category         string
		Date             Date
		Establishment    string
		Buyer            string
		PaymentMethod    string
		CardID           *uuid.UUID // weak reference, lookup only
		InstallmentLabel string
		Observation      string
		Consolidated     bool
		CreatedAt        time.Time
	}

	// Card defines a monthly credit-card billing cycle: the cycle for
	// reference month M closes on ClosingDay of M and opens the day after
	// the previous cycle's close.
	Card struct {
		ID          uuid.UUID
		Owner       string
		Name        string
		HolderName  string
		CreditLimit decimal.Decimal
		ClosingDay  int
		DueDay      int
		CreatedAt   time.Time
	}

	Wallet struct {
		ID        uuid.UUID
		Owner     string
		Name      string
		Balance   decimal.Decimal
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	Investment struct {
		ID            uuid.UUID
		Owner         string
		Name          string
		Type          string
		CurrentAmount decimal.Decimal
		TargetAmount  decimal.Decimal
		CreatedAt     time.Time
		UpdatedAt     time.Time
	}

	// InvestmentEntry mutates its parent investment's current amount when
	// inserted; that accumulator update is the only cross-entity mutation
	// in the model and is applied atomically by the store.
	InvestmentEntry struct {
		ID           uuid.UUID
		Owner        string
		InvestmentID uuid.UUID // weak reference
		EntryType    EntryType
		Amount       decimal.Decimal
		Date         Date
		CreatedAt    time.Time
	}

	Goal struct {
		ID            uuid.UUID
		Owner         string
		Title         string
		Type          string
		TargetAmount  decimal.Decimal
		CurrentAmount decimal.Decimal
		Deadline      Date
		CreatedAt     time.Time
	}

	// Settings holds the per-owner category and buyer lists, upserted as
	// a single document.
	Settings struct {
		Owner      string
		Categories []string
		Buyers     []string
	}
)

// Delta returns the signed amount this entry applies to the parent
// investment's current amount.
func (e InvestmentEntry) Delta() decimal.Decimal {
	if e.EntryType == EntryWithdrawal {
		return e.Amount.Neg()
	}
	return e.Amount
}

func (e InvestmentEntry) Validate() error {
	switch e.EntryType {
	case EntryContribution, EntryYield, EntryWithdrawal:
	default:
		return fmt.Errorf("%w: unknown entry type %q", ErrValidation, e.EntryType)
	}
	if e.InvestmentID == uuid.Nil {
		return fmt.Errorf("%w: investment reference is required", ErrValidation)
	}
	return e.Date.Validate()
}

func (i Income) Validate() error {
	if strings.TrimSpace(i.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	return i.Date.Validate()
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	return e.Date.Validate()
}

func (c Card) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: card name is required", ErrValidation)
	}
	if c.ClosingDay < 1 || c.ClosingDay > 31 {
		return fmt.Errorf("%w: closing day %d out of range 1-31", ErrValidation, c.ClosingDay)
	}
	if c.DueDay < 1 || c.DueDay > 31 {
		return fmt.Errorf("%w: due day %d out of range 1-31", ErrValidation, c.DueDay)
	}
	return nil
}

func (w Wallet) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return fmt.Errorf("%w: wallet name is required", ErrValidation)
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return fmt.Errorf("%w: goal title is required", ErrValidation)
	}
	if !g.Deadline.IsZero() {
		return g.Deadline.Validate()
	}
	return nil
}

func (v Investment) Validate() error {
	if strings.TrimSpace(v.Name) == "" {
		return fmt.Errorf("%w: investment name is required", ErrValidation)
	}
	return nil
}

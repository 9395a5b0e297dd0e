package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/AlvaroPereir4/FinScope/internal/amqp"
	"github.com/AlvaroPereir4/FinScope/internal/core"
	"github.com/AlvaroPereir4/FinScope/internal/storage"
)

// Record CRUD. These are thin validated passthroughs over the store;
// writes to income and expense records additionally fan out to the
// export pipeline and drop the owner's cached dashboards.

func (s *Ledger) AddIncome(ctx context.Context, in core.Income) (core.Income, error) {
	if err := in.Validate(); err != nil {
		return core.Income{}, err
	}
	if err := s.storage.CreateIncome(ctx, &in); err != nil {
		return core.Income{}, err
	}
	s.publishRecordEvent(ctx, amqp.KindIncome, amqp.ActionCreated, in.ID, in.Owner)
	s.invalidateDashboards(in.Owner)
	return in, nil
}

func (s *Ledger) Incomes(ctx context.Context, f storage.RecordFilter) ([]core.Income, error) {
	return s.storage.ListIncomes(ctx, f)
}

func (s *Ledger) Income(ctx context.Context, owner string, id uuid.UUID) (core.Income, error) {
	return s.storage.GetIncome(ctx, owner, id)
}

func (s *Ledger) UpdateIncome(ctx context.Context, owner string, id uuid.UUID, u storage.IncomeUpdate) error {
	if err := s.storage.UpdateIncome(ctx, owner, id, u); err != nil {
		return err
	}
	s.publishRecordEvent(ctx, amqp.KindIncome, amqp.ActionUpdated, id, owner)
	s.invalidateDashboards(owner)
	return nil
}

func (s *Ledger) DeleteIncome(ctx context.Context, owner string, id uuid.UUID) error {
	if err := s.storage.DeleteIncome(ctx, owner, id); err != nil {
		return err
	}
	s.publishRecordEvent(ctx, amqp.KindIncome, amqp.ActionDeleted, id, owner)
	s.invalidateDashboards(owner)
	return nil
}

// Micro expenses. Creation goes through SubmitExpense so installment
// labels expand; the operations here cover the rest of the lifecycle.

func (s *Ledger) Expenses(ctx context.Context, f storage.RecordFilter) ([]core.Expense, error) {
	return s.storage.ListExpenses(ctx, f)
}

func (s *Ledger) Expense(ctx context.Context, owner string, id uuid.UUID) (core.Expense, error) {
	return s.storage.GetExpense(ctx, owner, id)
}

func (s *Ledger) UpdateExpense(ctx context.Context, owner string, id uuid.UUID, u storage.ExpenseUpdate) error {
	if err := s.storage.UpdateExpense(ctx, owner, id, u); err != nil {
		return err
	}
	s.publishRecordEvent(ctx, amqp.KindExpense, amqp.ActionUpdated, id, owner)
	s.invalidateDashboards(owner)
	return nil
}

func (s *Ledger) DeleteExpense(ctx context.Context, owner string, id uuid.UUID) error {
	if err := s.storage.DeleteExpense(ctx, owner, id); err != nil {
		return err
	}
	s.publishRecordEvent(ctx, amqp.KindExpense, amqp.ActionDeleted, id, owner)
	s.invalidateDashboards(owner)
	return nil
}

// Macro expenses are always consolidated and never expand.

func (s *Ledger) AddMacroExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	if err := s.storage.CreateMacroExpense(ctx, &e); err != nil {
		return core.Expense{}, err
	}
	s.publishRecordEvent(ctx, amqp.KindMacroExpense, amqp.ActionCreated, e.ID, e.Owner)
	s.invalidateDashboards(e.Owner)
	return e, nil
}

func (s *Ledger) MacroExpenses(ctx context.Context, f storage.RecordFilter) ([]core.Expense, error) {
	return s.storage.ListMacroExpenses(ctx, f)
}

func (s *Ledger) MacroExpense(ctx context.Context, owner string, id uuid.UUID) (core.Expense, error) {
	return s.storage.GetMacroExpense(ctx, owner, id)
}

func (s *Ledger) UpdateMacroExpense(ctx context.Context, owner string, id uuid.UUID, u storage.ExpenseUpdate) error {
	if err := s.storage.UpdateMacroExpense(ctx, owner, id, u); err != nil {
		return err
	}
	s.publishRecordEvent(ctx, amqp.KindMacroExpense, amqp.ActionUpdated, id, owner)
	s.invalidateDashboards(owner)
	return nil
}

func (s *Ledger) DeleteMacroExpense(ctx context.Context, owner string, id uuid.UUID) error {
	if err := s.storage.DeleteMacroExpense(ctx, owner, id); err != nil {
		return err
	}
	s.publishRecordEvent(ctx, amqp.KindMacroExpense, amqp.ActionDeleted, id, owner)
	s.invalidateDashboards(owner)
	return nil
}

// Cards, wallets, investments and goals stay local: the export
// pipeline only mirrors the transaction streams.

func (s *Ledger) AddCard(ctx context.Context, c core.Card) (core.Card, error) {
	if err := c.Validate(); err != nil {
		return core.Card{}, err
	}
	if err := s.storage.CreateCard(ctx, &c); err != nil {
		return core.Card{}, err
	}
	return c, nil
}

func (s *Ledger) Cards(ctx context.Context, owner string) ([]core.Card, error) {
	return s.storage.ListCards(ctx, owner)
}

func (s *Ledger) Card(ctx context.Context, owner string, id uuid.UUID) (core.Card, error) {
	return s.storage.GetCard(ctx, owner, id)
}

func (s *Ledger) UpdateCard(ctx context.Context, owner string, id uuid.UUID, u storage.CardUpdate) error {
	return s.storage.UpdateCard(ctx, owner, id, u)
}

func (s *Ledger) DeleteCard(ctx context.Context, owner string, id uuid.UUID) error {
	return s.storage.DeleteCard(ctx, owner, id)
}

func (s *Ledger) AddWallet(ctx context.Context, w core.Wallet) (core.Wallet, error) {
	if err := w.Validate(); err != nil {
		return core.Wallet{}, err
	}
	if err := s.storage.CreateWallet(ctx, &w); err != nil {
		return core.Wallet{}, err
	}
	return w, nil
}

func (s *Ledger) Wallets(ctx context.Context, owner string) ([]core.Wallet, error) {
	return s.storage.ListWallets(ctx, owner)
}

func (s *Ledger) Wallet(ctx context.Context, owner string, id uuid.UUID) (core.Wallet, error) {
	return s.storage.GetWallet(ctx, owner, id)
}

func (s *Ledger) UpdateWallet(ctx context.Context, owner string, id uuid.UUID, u storage.WalletUpdate) error {
	return s.storage.UpdateWallet(ctx, owner, id, u)
}

func (s *Ledger) DeleteWallet(ctx context.Context, owner string, id uuid.UUID) error {
	return s.storage.DeleteWallet(ctx, owner, id)
}

func (s *Ledger) AddInvestment(ctx context.Context, v core.Investment) (core.Investment, error) {
	if err := v.Validate(); err != nil {
		return core.Investment{}, err
	}
	if err := s.storage.CreateInvestment(ctx, &v); err != nil {
		return core.Investment{}, err
	}
	return v, nil
}

func (s *Ledger) Investments(ctx context.Context, owner string) ([]core.Investment, error) {
	return s.storage.ListInvestments(ctx, owner)
}

func (s *Ledger) Investment(ctx context.Context, owner string, id uuid.UUID) (core.Investment, error) {
	return s.storage.GetInvestment(ctx, owner, id)
}

func (s *Ledger) UpdateInvestment(ctx context.Context, owner string, id uuid.UUID, u storage.InvestmentUpdate) error {
	return s.storage.UpdateInvestment(ctx, owner, id, u)
}

// DeleteInvestment cascades to the investment's entries.
func (s *Ledger) DeleteInvestment(ctx context.Context, owner string, id uuid.UUID) error {
	return s.storage.DeleteInvestment(ctx, owner, id)
}

// AddInvestmentEntry records the entry and applies its signed amount
// to the parent investment's current amount in one atomic store
// operation, so concurrent entries never lose an update.
func (s *Ledger) AddInvestmentEntry(ctx context.Context, e core.InvestmentEntry) (core.InvestmentEntry, error) {
	if err := e.Validate(); err != nil {
		return core.InvestmentEntry{}, err
	}
	if err := s.storage.CreateInvestmentEntry(ctx, &e); err != nil {
		return core.InvestmentEntry{}, err
	}
	s.invalidateDashboards(e.Owner)
	return e, nil
}

func (s *Ledger) InvestmentEntries(ctx context.Context, owner string, investmentID uuid.UUID) ([]core.InvestmentEntry, error) {
	return s.storage.ListInvestmentEntries(ctx, owner, investmentID)
}

func (s *Ledger) AddGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	if err := s.storage.CreateGoal(ctx, &g); err != nil {
		return core.Goal{}, err
	}
	return g, nil
}

func (s *Ledger) Goals(ctx context.Context, owner string) ([]core.Goal, error) {
	return s.storage.ListGoals(ctx, owner)
}

func (s *Ledger) UpdateGoal(ctx context.Context, owner string, id uuid.UUID, u storage.GoalUpdate) error {
	return s.storage.UpdateGoal(ctx, owner, id, u)
}

func (s *Ledger) DeleteGoal(ctx context.Context, owner string, id uuid.UUID) error {
	return s.storage.DeleteGoal(ctx, owner, id)
}

func (s *Ledger) Settings(ctx context.Context, owner string) (core.Settings, error) {
	return s.storage.GetSettings(ctx, owner)
}

func (s *Ledger) SaveSettings(ctx context.Context, settings core.Settings) error {
	return s.storage.SaveSettings(ctx, settings)
}

package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AlvaroPereir4/FinScope/internal/core"
	"github.com/AlvaroPereir4/FinScope/internal/storage"
)

// decodeJSON reads the request body into v. Malformed bodies are
// validation failures, not server errors.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", core.ErrValidation, err)
	}
	return nil
}

// pathID parses the {id} path segment. A malformed id cannot name any
// record, so it reads as not found.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: no record with id %q", core.ErrNotFound, r.PathValue("id"))
	}
	return id, nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an integer", core.ErrValidation, name, v)
	}
	return n, nil
}

func queryDate(r *http.Request, name string) (core.Date, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return "", nil
	}
	return core.ParseDate(v)
}

// recordFilter builds the list filter shared by incomes and expenses
// from the from/to/search query parameters.
func recordFilter(r *http.Request, owner string) (storage.RecordFilter, error) {
	from, err := queryDate(r, "from")
	if err != nil {
		return storage.RecordFilter{}, err
	}
	to, err := queryDate(r, "to")
	if err != nil {
		return storage.RecordFilter{}, err
	}
	return storage.RecordFilter{
		Owner:  owner,
		From:   from,
		To:     to,
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
	}, nil
}

// Payloads use pointer fields so one shape serves both creation, where
// required fields must be present, and partial update, where absent
// fields are left untouched.

type credentialsPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type incomePayload struct {
	Description *string `json:"description"`
	Amount      *string `json:"amount"`
	Date        *string `json:"date"`
}

func (p incomePayload) toRecord(owner string) (core.Income, error) {
	in := core.Income{Owner: owner}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.Amount != nil {
		amount, err := core.ParseAmount(*p.Amount)
		if err != nil {
			return core.Income{}, err
		}
		in.Amount = amount
	}
	if p.Date != nil {
		date, err := core.ParseDate(*p.Date)
		if err != nil {
			return core.Income{}, err
		}
		in.Date = date
	}
	return in, nil
}

func (p incomePayload) toUpdate() (storage.IncomeUpdate, error) {
	var u storage.IncomeUpdate
	u.Description = p.Description
	if p.Amount != nil {
		amount, err := core.ParseAmount(*p.Amount)
		if err != nil {
			return storage.IncomeUpdate{}, err
		}
		u.Amount = &amount
	}
	if p.Date != nil {
		date, err := core.ParseDate(*p.Date)
		if err != nil {
			return storage.IncomeUpdate{}, err
		}
		u.Date = &date
	}
	return u, nil
}

type expensePayload struct {
	Description      *string `json:"description"`
	Amount           *string `json:"amount"`
	Category         *string `json:"category"`
	Date             *string `json:"date"`
	Establishment    *string `json:"establishment"`
	Buyer            *string `json:"buyer"`
	PaymentMethod    *string `json:"payment_method"`
	CardID           *string `json:"card_id"` // empty string detaches the card
	InstallmentLabel *string `json:"installment_label"`
	Observation      *string `json:"observation"`
	Consolidated     *bool   `json:"consolidated"`
}

func (p expensePayload) toRecord(owner string) (core.Expense, error) {
	e := core.Expense{Owner: owner}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Amount != nil {
		amount, err := core.ParseAmount(*p.Amount)
		if err != nil {
			return core.Expense{}, err
		}
		e.Amount = amount
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Date != nil {
		date, err := core.ParseDate(*p.Date)
		if err != nil {
			return core.Expense{}, err
		}
		e.Date = date
	}
	if p.Establishment != nil {
		e.Establishment = *p.Establishment
	}
	if p.Buyer != nil {
		e.Buyer = *p.Buyer
	}
	if p.PaymentMethod != nil {
		e.PaymentMethod = *p.PaymentMethod
	}
	if p.CardID != nil && *p.CardID != "" {
		cardID, err := uuid.Parse(*p.CardID)
		if err != nil {
			return core.Expense{}, fmt.Errorf("%w: card_id %q is not a valid id", core.ErrValidation, *p.CardID)
		}
		e.CardID = &cardID
	}
	if p.InstallmentLabel != nil {
		e.InstallmentLabel = *p.InstallmentLabel
	}
	if p.Observation != nil {
		e.Observation = *p.Observation
	}
	if p.Consolidated != nil {
		e.Consolidated = *p.Consolidated
	}
	return e, nil
}

func (p expensePayload) toUpdate() (storage.ExpenseUpdate, error) {
	u := storage.ExpenseUpdate{
		Description:   p.Description,
		Category:      p.Category,
		Establishment: p.Establishment,
		Buyer:         p.Buyer,
		PaymentMethod: p.PaymentMethod,
		Observation:   p.Observation,
		Consolidated:  p.Consolidated,
	}
	if p.Amount != nil {
		amount, err := core.ParseAmount(*p.Amount)
		if err != nil {
			return storage.ExpenseUpdate{}, err
		}
		u.Amount = &amount
	}
	if p.Date != nil {
		date, err := core.ParseDate(*p.Date)
		if err != nil {
			return storage.ExpenseUpdate{}, err
		}
		u.Date = &date
	}
	if p.CardID != nil {
		if *p.CardID == "" {
			u.SetCardNil = true
		} else {
			cardID, err := uuid.Parse(*p.CardID)
			if err != nil {
				return storage.ExpenseUpdate{}, fmt.Errorf("%w: card_id %q is not a valid id", core.ErrValidation, *p.CardID)
			}
			u.CardID = &cardID
		}
	}
	return u, nil
}

type cardPayload struct {
	Name        *string `json:"name"`
	HolderName  *string `json:"holder_name"`
	CreditLimit *string `json:"credit_limit"`
	ClosingDay  *int    `json:"closing_day"`
	DueDay      *int    `json:"due_day"`
}

func (p cardPayload) toRecord(owner string) (core.Card, error) {
	c := core.Card{Owner: owner}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.HolderName != nil {
		c.HolderName = *p.HolderName
	}
	if p.CreditLimit != nil {
		limit, err := core.ParseAmount(*p.CreditLimit)
		if err != nil {
			return core.Card{}, err
		}
		c.CreditLimit = limit
	}
	if p.ClosingDay != nil {
		c.ClosingDay = *p.ClosingDay
	}
	if p.DueDay != nil {
		c.DueDay = *p.DueDay
	}
	return c, nil
}

func (p cardPayload) toUpdate() (storage.CardUpdate, error) {
	u := storage.CardUpdate{
		Name:       p.Name,
		HolderName: p.HolderName,
		ClosingDay: p.ClosingDay,
		DueDay:     p.DueDay,
	}
	if p.CreditLimit != nil {
		limit, err := core.ParseAmount(*p.CreditLimit)
		if err != nil {
			return storage.CardUpdate{}, err
		}
		u.CreditLimit = &limit
	}
	return u, nil
}

type walletPayload struct {
	Name    *string `json:"name"`
	Balance *string `json:"balance"`
}

func (p walletPayload) toRecord(owner string) (core.Wallet, error) {
	w := core.Wallet{Owner: owner}
	if p.Name != nil {
		w.Name = *p.Name
	}
	if p.Balance != nil {
		balance, err := parseSignedAmount(*p.Balance)
		if err != nil {
			return core.Wallet{}, err
		}
		w.Balance = balance
	}
	return w, nil
}

func (p walletPayload) toUpdate() (storage.WalletUpdate, error) {
	u := storage.WalletUpdate{Name: p.Name}
	if p.Balance != nil {
		balance, err := parseSignedAmount(*p.Balance)
		if err != nil {
			return storage.WalletUpdate{}, err
		}
		u.Balance = &balance
	}
	return u, nil
}

// parseSignedAmount is parseAmount without the sign restriction.
// Wallet balances may legitimately be negative (overdraft).
func parseSignedAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is required", core.ErrValidation)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q is not numeric", core.ErrValidation, s)
	}
	return d, nil
}

type investmentPayload struct {
	Name          *string `json:"name"`
	Type          *string `json:"type"`
	CurrentAmount *string `json:"current_amount"` // creation only
	TargetAmount  *string `json:"target_amount"`
}

func (p investmentPayload) toRecord(owner string) (core.Investment, error) {
	v := core.Investment{Owner: owner}
	if p.Name != nil {
		v.Name = *p.Name
	}
	if p.Type != nil {
		v.Type = *p.Type
	}
	if p.CurrentAmount != nil {
		amount, err := core.ParseAmount(*p.CurrentAmount)
		if err != nil {
			return core.Investment{}, err
		}
		v.CurrentAmount = amount
	}
	if p.TargetAmount != nil {
		amount, err := core.ParseAmount(*p.TargetAmount)
		if err != nil {
			return core.Investment{}, err
		}
		v.TargetAmount = amount
	}
	return v, nil
}

func (p investmentPayload) toUpdate() (storage.InvestmentUpdate, error) {
	u := storage.InvestmentUpdate{Name: p.Name, Type: p.Type}
	if p.CurrentAmount != nil {
		return storage.InvestmentUpdate{}, fmt.Errorf("%w: current_amount changes only through entries", core.ErrValidation)
	}
	if p.TargetAmount != nil {
		amount, err := core.ParseAmount(*p.TargetAmount)
		if err != nil {
			return storage.InvestmentUpdate{}, err
		}
		u.TargetAmount = &amount
	}
	return u, nil
}

type entryPayload struct {
	EntryType string `json:"entry_type"`
	Amount    string `json:"amount"`
	Date      string `json:"date"`
}

func (p entryPayload) toRecord(owner string, investmentID uuid.UUID) (core.InvestmentEntry, error) {
	amount, err := core.ParseAmount(p.Amount)
	if err != nil {
		return core.InvestmentEntry{}, err
	}
	date, err := core.ParseDate(p.Date)
	if err != nil {
		return core.InvestmentEntry{}, err
	}
	return core.InvestmentEntry{
		Owner:        owner,
		InvestmentID: investmentID,
		EntryType:    core.EntryType(p.EntryType),
		Amount:       amount,
		Date:         date,
	}, nil
}

type goalPayload struct {
	Title         *string `json:"title"`
	Type          *string `json:"type"`
	TargetAmount  *string `json:"target_amount"`
	CurrentAmount *string `json:"current_amount"`
	Deadline      *string `json:"deadline"`
}

func (p goalPayload) toRecord(owner string) (core.Goal, error) {
	g := core.Goal{Owner: owner}
	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.Type != nil {
		g.Type = *p.Type
	}
	if p.TargetAmount != nil {
		amount, err := core.ParseAmount(*p.TargetAmount)
		if err != nil {
			return core.Goal{}, err
		}
		g.TargetAmount = amount
	}
	if p.CurrentAmount != nil {
		amount, err := core.ParseAmount(*p.CurrentAmount)
		if err != nil {
			return core.Goal{}, err
		}
		g.CurrentAmount = amount
	}
	if p.Deadline != nil && *p.Deadline != "" {
		deadline, err := core.ParseDate(*p.Deadline)
		if err != nil {
			return core.Goal{}, err
		}
		g.Deadline = deadline
	}
	return g, nil
}

func (p goalPayload) toUpdate() (storage.GoalUpdate, error) {
	u := storage.GoalUpdate{Title: p.Title, Type: p.Type}
	if p.TargetAmount != nil {
		amount, err := core.ParseAmount(*p.TargetAmount)
		if err != nil {
			return storage.GoalUpdate{}, err
		}
		u.TargetAmount = &amount
	}
	if p.CurrentAmount != nil {
		amount, err := core.ParseAmount(*p.CurrentAmount)
		if err != nil {
			return storage.GoalUpdate{}, err
		}
		u.CurrentAmount = &amount
	}
	if p.Deadline != nil {
		deadline, err := core.ParseDate(*p.Deadline)
		if err != nil {
			return storage.GoalUpdate{}, err
		}
		u.Deadline = &deadline
	}
	return u, nil
}

type settingsPayload struct {
	Categories []string `json:"categories"`
	Buyers     []string `json:"buyers"`
}

package http

import (
	"time"

	"github.com/AlvaroPereir4/FinScope/internal/core"
	"github.com/AlvaroPereir4/FinScope/internal/services"
)

// Views are the serialized shapes of domain records. Ids serialize as
// strings, amounts as fixed two-decimal strings, dates as ISO days.

type sessionView struct {
	Owner    string `json:"owner"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

type incomeView struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	CreatedAt   string `json:"created_at"`
}

func viewIncome(in core.Income) incomeView {
	return incomeView{
		ID:          in.ID.String(),
		Description: in.Description,
		Amount:      in.Amount.StringFixed(2),
		Date:        in.Date.String(),
		CreatedAt:   in.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type expenseView struct {
	ID               string `json:"id"`
	Description      string `json:"description"`
	Amount           string `json:"amount"`
	Category         string `json:"category,omitempty"`
	Date             string `json:"date"`
	Establishment    string `json:"establishment,omitempty"`
	Buyer            string `json:"buyer,omitempty"`
	PaymentMethod    string `json:"payment_method,omitempty"`
	CardID           string `json:"card_id,omitempty"`
	InstallmentLabel string `json:"installment_label,omitempty"`
	Observation      string `json:"observation,omitempty"`
	Consolidated     bool   `json:"consolidated"`
	CreatedAt        string `json:"created_at"`
}

func viewExpense(e core.Expense) expenseView {
	v := expenseView{
		ID:               e.ID.String(),
		Description:      e.Description,
		Amount:           e.Amount.StringFixed(2),
		Category:         e.Category,
		Date:             e.Date.String(),
		Establishment:    e.Establishment,
		Buyer:            e.Buyer,
		PaymentMethod:    e.PaymentMethod,
		InstallmentLabel: e.InstallmentLabel,
		Observation:      e.Observation,
		Consolidated:     e.Consolidated,
		CreatedAt:        e.CreatedAt.UTC().Format(time.RFC3339),
	}
	if e.CardID != nil {
		v.CardID = e.CardID.String()
	}
	return v
}

func viewExpenses(list []core.Expense) []expenseView {
	out := make([]expenseView, 0, len(list))
	for _, e := range list {
		out = append(out, viewExpense(e))
	}
	return out
}

type expansionView struct {
	Requested int      `json:"requested"`
	Created   int      `json:"created"`
	Skipped   int      `json:"skipped"`
	Failed    []string `json:"failed,omitempty"`
}

func viewExpansion(res services.ExpansionResult) expansionView {
	return expansionView(res)
}

type cardView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	HolderName  string `json:"holder_name,omitempty"`
	CreditLimit string `json:"credit_limit"`
	ClosingDay  int    `json:"closing_day"`
	DueDay      int    `json:"due_day"`
	CreatedAt   string `json:"created_at"`
}

func viewCard(c core.Card) cardView {
	return cardView{
		ID:          c.ID.String(),
		Name:        c.Name,
		HolderName:  c.HolderName,
		CreditLimit: c.CreditLimit.StringFixed(2),
		ClosingDay:  c.ClosingDay,
		DueDay:      c.DueDay,
		CreatedAt:   c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type walletView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Balance   string `json:"balance"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func viewWallet(w core.Wallet) walletView {
	return walletView{
		ID:        w.ID.String(),
		Name:      w.Name,
		Balance:   w.Balance.StringFixed(2),
		CreatedAt: w.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: w.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type investmentView struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type,omitempty"`
	CurrentAmount string `json:"current_amount"`
	TargetAmount  string `json:"target_amount"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

func viewInvestment(v core.Investment) investmentView {
	return investmentView{
		ID:            v.ID.String(),
		Name:          v.Name,
		Type:          v.Type,
		CurrentAmount: v.CurrentAmount.StringFixed(2),
		TargetAmount:  v.TargetAmount.StringFixed(2),
		CreatedAt:     v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type entryView struct {
	ID           string `json:"id"`
	InvestmentID string `json:"investment_id"`
	EntryType    string `json:"entry_type"`
	Amount       string `json:"amount"`
	Date         string `json:"date"`
	CreatedAt    string `json:"created_at"`
}

func viewEntry(e core.InvestmentEntry) entryView {
	return entryView{
		ID:           e.ID.String(),
		InvestmentID: e.InvestmentID.String(),
		EntryType:    string(e.EntryType),
		Amount:       e.Amount.StringFixed(2),
		Date:         e.Date.String(),
		CreatedAt:    e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type goalView struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Type          string `json:"type,omitempty"`
	TargetAmount  string `json:"target_amount"`
	CurrentAmount string `json:"current_amount"`
	Deadline      string `json:"deadline,omitempty"`
	CreatedAt     string `json:"created_at"`
}

func viewGoal(g core.Goal) goalView {
	return goalView{
		ID:            g.ID.String(),
		Title:         g.Title,
		Type:          g.Type,
		TargetAmount:  g.TargetAmount.StringFixed(2),
		CurrentAmount: g.CurrentAmount.StringFixed(2),
		Deadline:      g.Deadline.String(),
		CreatedAt:     g.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type settingsView struct {
	Categories []string `json:"categories"`
	Buyers     []string `json:"buyers"`
}

type transactionView struct {
	Source  string       `json:"source"`
	Type    string       `json:"type"`
	Income  *incomeView  `json:"income,omitempty"`
	Expense *expenseView `json:"expense,omitempty"`
}

func viewTransaction(t core.Transaction) transactionView {
	v := transactionView{Source: string(t.Source), Type: t.Source.Type()}
	if t.Income != nil {
		in := viewIncome(*t.Income)
		v.Income = &in
	}
	if t.Expense != nil {
		e := viewExpense(*t.Expense)
		v.Expense = &e
	}
	return v
}

type feedView struct {
	Items       []transactionView `json:"items"`
	TotalItems  int               `json:"total_items"`
	CurrentPage int               `json:"current_page"`
	TotalPages  int               `json:"total_pages"`
}

func viewFeed(page services.FeedPage) feedView {
	items := make([]transactionView, 0, len(page.Items))
	for _, t := range page.Items {
		items = append(items, viewTransaction(t))
	}
	return feedView{
		Items:       items,
		TotalItems:  page.TotalItems,
		CurrentPage: page.CurrentPage,
		TotalPages:  page.TotalPages,
	}
}

type chartRowView struct {
	Label    string `json:"label"`
	Income   string `json:"income"`
	Expense  string `json:"expense"`
	Invested string `json:"invested"`
}

func viewChart(rows []services.ChartRow) []chartRowView {
	out := make([]chartRowView, 0, len(rows))
	for _, row := range rows {
		out = append(out, chartRowView{
			Label:    row.Label,
			Income:   row.Income.StringFixed(2),
			Expense:  row.Expense.StringFixed(2),
			Invested: row.Invested.StringFixed(2),
		})
	}
	return out
}

type summaryView struct {
	Balance  string `json:"balance"`
	Invested string `json:"invested"`
	NetWorth string `json:"net_worth"`
}

func viewSummary(s services.Summary) summaryView {
	return summaryView{
		Balance:  s.Balance.StringFixed(2),
		Invested: s.Invested.StringFixed(2),
		NetWorth: s.NetWorth.StringFixed(2),
	}
}

type invoiceView struct {
	Card    cardView          `json:"card"`
	From    string            `json:"from"`
	To      string            `json:"to"`
	Items   []expenseView     `json:"items"`
	Total   string            `json:"total"`
	ByBuyer map[string]string `json:"by_buyer"`
}

func viewInvoice(inv services.Invoice) invoiceView {
	byBuyer := make(map[string]string, len(inv.ByBuyer))
	for buyer, total := range inv.ByBuyer {
		byBuyer[buyer] = total.StringFixed(2)
	}
	return invoiceView{
		Card:    viewCard(inv.Card),
		From:    inv.From.String(),
		To:      inv.To.String(),
		Items:   viewExpenses(inv.Items),
		Total:   inv.Total.StringFixed(2),
		ByBuyer: byBuyer,
	}
}

package http

import (
	"net/http"

	"github.com/AlvaroPereir4/FinScope/internal/core"
)

// Card handlers.

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.ledger.Cards(r.Context(), ownerFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]cardView, 0, len(cards))
	for _, c := range cards {
		views = append(views, viewCard(c))
	}
	writeJSON(w, r, http.StatusOK, views)
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var payload cardPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	card, err := payload.toRecord(ownerFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.ledger.AddCard(r.Context(), card)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, viewCard(created))
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	card, err := s.ledger.Card(r.Context(), ownerFrom(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewCard(card))
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var payload cardPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	update, err := payload.toUpdate()
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.ledger.UpdateCard(r.Context(), ownerFrom(r), id, update); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.ledger.DeleteCard(r.Context(), ownerFrom(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}

// handleCardInvoice resolves a card's billing cycle for the reference
// month given as ?month=YYYY-MM.
func (s *Server) handleCardInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	invoice, err := s.ledger.CardInvoice(r.Context(), ownerFrom(r), id, r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewInvoice(invoice))
}

// Wallet handlers.

func (s *Server) handleListWallets(w http.ResponseWriter, r *http.Request) {
	wallets, err := s.ledger.Wallets(r.Context(), ownerFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]walletView, 0, len(wallets))
	for _, wl := range wallets {
		views = append(views, viewWallet(wl))
	}
	writeJSON(w, r, http.StatusOK, views)
}

func (s *Server) handleCreateWallet(w http.ResponseWriter, r *http.Request) {
	var payload walletPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	wallet, err := payload.toRecord(ownerFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.ledger.AddWallet(r.Context(), wallet)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, viewWallet(created))
}

func (s *Server) handleGetWallet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	wallet, err := s.ledger.Wallet(r.Context(), ownerFrom(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewWallet(wallet))
}

func (s *Server) handleUpdateWallet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var payload walletPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	update, err := payload.toUpdate()
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.ledger.UpdateWallet(r.Context(), ownerFrom(r), id, update); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}

func (s *Server) handleDeleteWallet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.ledger.DeleteWallet(r.Context(), ownerFrom(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}

// Investment handlers. The current amount is only ever changed through
// entries; the entry insert applies the delta atomically.

func (s *Server) handleListInvestments(w http.ResponseWriter, r *http.Request) {
	investments, err := s.ledger.Investments(r.Context(), ownerFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]investmentView, 0, len(investments))
	for _, v := range investments {
		views = append(views, viewInvestment(v))
	}
	writeJSON(w, r, http.StatusOK, views)
}

func (s *Server) handleCreateInvestment(w http.ResponseWriter, r *http.Request) {
	var payload investmentPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	investment, err := payload.toRecord(ownerFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.ledger.AddInvestment(r.Context(), investment)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, viewInvestment(created))
}

func (s *Server) handleGetInvestment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	investment, err := s.ledger.Investment(r.Context(), ownerFrom(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewInvestment(investment))
}

func (s *Server) handleUpdateInvestment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var payload investmentPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	update, err := payload.toUpdate()
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.ledger.UpdateInvestment(r.Context(), ownerFrom(r), id, update); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}

func (s *Server) handleDeleteInvestment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.ledger.DeleteInvestment(r.Context(), ownerFrom(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}

func (s *Server) handleListInvestmentEntries(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	entries, err := s.ledger.InvestmentEntries(r.Context(), ownerFrom(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]entryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, viewEntry(e))
	}
	writeJSON(w, r, http.StatusOK, views)
}

func (s *Server) handleCreateInvestmentEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var payload entryPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	entry, err := payload.toRecord(ownerFrom(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.ledger.AddInvestmentEntry(r.Context(), entry)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, viewEntry(created))
}

// Goal handlers.

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.ledger.Goals(r.Context(), ownerFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]goalView, 0, len(goals))
	for _, g := range goals {
		views = append(views, viewGoal(g))
	}
	writeJSON(w, r, http.StatusOK, views)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var payload goalPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	goal, err := payload.toRecord(ownerFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.ledger.AddGoal(r.Context(), goal)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, viewGoal(created))
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var payload goalPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	update, err := payload.toUpdate()
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.ledger.UpdateGoal(r.Context(), ownerFrom(r), id, update); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.ledger.DeleteGoal(r.Context(), ownerFrom(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}

// Settings handlers. Settings are a single per-owner document.

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.ledger.Settings(r.Context(), ownerFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, settingsView{Categories: settings.Categories, Buyers: settings.Buyers})
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var payload settingsPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	settings := core.Settings{
		Owner:      ownerFrom(r),
		Categories: payload.Categories,
		Buyers:     payload.Buyers,
	}
	if err := s.ledger.SaveSettings(r.Context(), settings); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}

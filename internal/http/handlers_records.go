package http

import (
	"net/http"
)

// Income handlers.

func (s *Server) handleListIncomes(w http.ResponseWriter, r *http.Request) {
	filter, err := recordFilter(r, ownerFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	incomes, err := s.ledger.Incomes(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]incomeView, 0, len(incomes))
	for _, in := range incomes {
		views = append(views, viewIncome(in))
	}
	writeJSON(w, r, http.StatusOK, views)
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	var payload incomePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	income, err := payload.toRecord(ownerFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.ledger.AddIncome(r.Context(), income)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, viewIncome(created))
}

func (s *Server) handleGetIncome(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	income, err := s.ledger.Income(r.Context(), ownerFrom(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewIncome(income))
}

func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var payload incomePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	update, err := payload.toUpdate()
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.ledger.UpdateIncome(r.Context(), ownerFrom(r), id, update); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.ledger.DeleteIncome(r.Context(), ownerFrom(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}

// Micro expense handlers. Creation goes through submission, which may
// expand an installment series, so it answers with an expansion report
// instead of a single record.

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	filter, err := recordFilter(r, ownerFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	expenses, err := s.ledger.Expenses(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewExpenses(expenses))
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var payload expensePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	expense, err := payload.toRecord(ownerFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	result, err := s.ledger.SubmitExpense(r.Context(), expense)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, viewExpansion(result))
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	expense, err := s.ledger.Expense(r.Context(), ownerFrom(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewExpense(expense))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var payload expensePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	update, err := payload.toUpdate()
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.ledger.UpdateExpense(r.Context(), ownerFrom(r), id, update); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.ledger.DeleteExpense(r.Context(), ownerFrom(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}

// Macro expense handlers. Macro records are always stored as single
// consolidated rows, never expanded.

func (s *Server) handleListMacroExpenses(w http.ResponseWriter, r *http.Request) {
	filter, err := recordFilter(r, ownerFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	expenses, err := s.ledger.MacroExpenses(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewExpenses(expenses))
}

func (s *Server) handleCreateMacroExpense(w http.ResponseWriter, r *http.Request) {
	var payload expensePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	expense, err := payload.toRecord(ownerFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.ledger.AddMacroExpense(r.Context(), expense)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, viewExpense(created))
}

func (s *Server) handleGetMacroExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	expense, err := s.ledger.MacroExpense(r.Context(), ownerFrom(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewExpense(expense))
}

func (s *Server) handleUpdateMacroExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var payload expensePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	update, err := payload.toUpdate()
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.ledger.UpdateMacroExpense(r.Context(), ownerFrom(r), id, update); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}

func (s *Server) handleDeleteMacroExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.ledger.DeleteMacroExpense(r.Context(), ownerFrom(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}

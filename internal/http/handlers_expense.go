package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"despesas/internal/core"
	"despesas/internal/services"
)

// handleListExpenses returns every expense in insertion order, or, when any
// filter parameter is present, the matching expenses newest first.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !hasFilterQuery(q) {
		writeJSON(w, http.StatusOK, s.ledger.Expenses())
		return
	}

	opts, err := parseFilterQuery(q)
	if err != nil {
		writeInputError(w, err)
		return
	}
	expenses := core.Filter(s.ledger.Expenses(), opts)
	services.SortByDateDesc(expenses)
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var in core.ExpenseInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	expense, err := s.ledger.Add(r.Context(), in)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/expenses/"+expense.ID)
	writeJSON(w, http.StatusCreated, expense)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	expense, ok := s.ledger.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "expense not found")
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in core.ExpenseInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	found, err := s.ledger.Edit(r.Context(), id, in)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "expense not found")
		return
	}

	expense, _ := s.ledger.Get(id)
	writeJSON(w, http.StatusOK, expense)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	found, err := s.ledger.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "expense not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGroupedExpenses groups the stored filtered view by day.
func (s *Server) handleGroupedExpenses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, core.GroupByDay(s.ledger.Filtered()))
}

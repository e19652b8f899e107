package http

import (
	"net/http"

	"despesas/internal/core"
)

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.Budget())
}

// handleUpdateBudget replaces the whole table. Omitted days become zero.
func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	var budget core.DailyBudget
	if err := decodeJSON(w, r, &budget); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if err := s.ledger.UpdateBudget(r.Context(), budget); err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ledger.Budget())
}

func (s *Server) handleGetFilter(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, payloadFor(s.ledger.Filter()))
}

func (s *Server) handleSetFilter(w http.ResponseWriter, r *http.Request) {
	var p filterPayload
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	opts, err := p.options()
	if err != nil {
		writeInputError(w, err)
		return
	}
	s.ledger.SetFilter(opts)
	writeJSON(w, http.StatusOK, payloadFor(s.ledger.Filter()))
}

func (s *Server) handleClearFilter(w http.ResponseWriter, r *http.Request) {
	s.ledger.ClearFilter()
	writeJSON(w, http.StatusOK, payloadFor(s.ledger.Filter()))
}

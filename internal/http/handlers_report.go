package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"despesas/internal/core"
	"despesas/internal/log"
	"despesas/internal/report"
	"despesas/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// reportExpenses selects the expenses for a report: the query filter when
// one is given, the stored filtered view otherwise.
func (s *Server) reportExpenses(r *http.Request) ([]core.Expense, error) {
	q := r.URL.Query()
	if !hasFilterQuery(q) {
		return s.ledger.Filtered(), nil
	}
	opts, err := parseFilterQuery(q)
	if err != nil {
		return nil, err
	}
	expenses := core.Filter(s.ledger.Expenses(), opts)
	services.SortByDateDesc(expenses)
	return expenses, nil
}

func (s *Server) handleCSVReport(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.reportExpenses(r)
	if err != nil {
		writeInputError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, expenses); err != nil {
		writeFailure(w, r, err)
		return
	}
	logReport(r, "csv", len(expenses))
	sendAttachment(w, r, "text/csv; charset=utf-8", report.CSVFileName, buf.Bytes())
}

func (s *Server) handleXLSXReport(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.reportExpenses(r)
	if err != nil {
		writeInputError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, expenses, s.now()); err != nil {
		writeFailure(w, r, err)
		return
	}
	logReport(r, "xlsx", len(expenses))
	sendAttachment(w, r, xlsxContentType, report.XLSXFileName, buf.Bytes())
}

func (s *Server) handleExportBackup(w http.ResponseWriter, r *http.Request) {
	body, err := json.MarshalIndent(s.ledger.Export(), "", "  ")
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "Backup exported", log.FieldOperation, log.OpExport)
	sendAttachment(w, r, "application/json; charset=utf-8", services.BackupFileName(s.now()), body)
}

func (s *Server) handleImportBackup(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read body: "+err.Error())
		return
	}
	if err := s.ledger.Import(r.Context(), data); err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"expenses":    len(s.ledger.Expenses()),
		"dailyBudget": s.ledger.Budget(),
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.Reset(r.Context()); err != nil {
		writeFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func logReport(r *http.Request, format string, rows int) {
	log.FromContext(r.Context()).WithComponent(log.ComponentReport).InfoContext(r.Context(), "Report generated",
		log.FieldOperation, log.OpExport,
		"format", format,
		log.FieldCount, rows)
}

func sendAttachment(w http.ResponseWriter, r *http.Request, contentType, name string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Failed to write attachment", log.FieldError, err)
	}
}

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"despesas/internal/core"
	"despesas/internal/log"
	"despesas/internal/services"
)

const maxBodyBytes = 10 << 20

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

// writeFailure maps err to a status. Internal errors are logged and their
// detail withheld from the client.
func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed", log.FieldError, err)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

// writeInputError reports a malformed request: 422 for domain validation
// errors, 400 for anything else.
func writeInputError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		status = http.StatusBadRequest
	}
	writeError(w, status, err.Error())
}

var validationErrors = []error{
	core.ErrEmptyItem,
	core.ErrInvalidValue,
	core.ErrInvalidQuantity,
	core.ErrInvalidPaymentMethod,
	core.ErrInvalidDate,
	core.ErrInvalidBudget,
}

func statusFor(err error) int {
	if errors.Is(err, services.ErrInvalidBackup) {
		return http.StatusBadRequest
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

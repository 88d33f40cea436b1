package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rodrigocamellini/conectaxe-sub001/internal/domain"
)

const (
	codeMethodNotAllowed           = "method_not_allowed"
	codeNotFound                   = "not_found"
	codeInvalidRequestBody         = "invalid_request_body"
	codeValidation                 = "validation_error"
	codeInvalidID                  = "invalid_id"
	codeTenantRequired             = "tenant_required"
	codeUserRequired               = "user_required"
	codeEventNotFound              = "event_not_found"
	codeTicketNotFound             = "ticket_not_found"
	codeEventNotAcceptingRegistrar = "event_not_accepting_registrations"
	codeEventSoldOut               = "event_sold_out"
	codeInvalidStatusTransition    = "invalid_status_transition"
	codeTicketNumberTaken          = "ticket_number_taken"
	codeForbidden                  = "forbidden"
	codeInternalError              = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps service errors to a status and a stable code. Anything
// unrecognised is reported as a 500 without its message.
func writeDomainError(w http.ResponseWriter, err error) {
	status, code := http.StatusInternalServerError, codeInternalError
	switch {
	case errors.Is(err, domain.ErrValidation):
		status, code = http.StatusBadRequest, codeValidation
	case errors.Is(err, domain.ErrInvalidID):
		status, code = http.StatusBadRequest, codeInvalidID
	case errors.Is(err, domain.ErrTenantRequired):
		status, code = http.StatusBadRequest, codeTenantRequired
	case errors.Is(err, domain.ErrUserRequired):
		status, code = http.StatusBadRequest, codeUserRequired
	case errors.Is(err, domain.ErrEventNotFound):
		status, code = http.StatusNotFound, codeEventNotFound
	case errors.Is(err, domain.ErrTicketNotFound):
		status, code = http.StatusNotFound, codeTicketNotFound
	case errors.Is(err, domain.ErrEventNotAcceptingRegistrations):
		status, code = http.StatusConflict, codeEventNotAcceptingRegistrar
	case errors.Is(err, domain.ErrEventSoldOut):
		status, code = http.StatusConflict, codeEventSoldOut
	case errors.Is(err, domain.ErrInvalidStatusTransition):
		status, code = http.StatusConflict, codeInvalidStatusTransition
	case errors.Is(err, domain.ErrTicketNumberTaken):
		status, code = http.StatusConflict, codeTicketNumberTaken
	}

	msg := "internal error"
	if status != http.StatusInternalServerError {
		msg = err.Error()
	}
	writeError(w, status, code, msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

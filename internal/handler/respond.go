package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/pkordes/pocket-guide/backend/internal/domain"
)

// Error codes of the JSON error envelope.
const (
	codeNotFound           = "not_found"
	codeValidation         = "validation_error"
	codeCatalogUnavailable = "catalog_unavailable"
	codeSuperseded         = "superseded"
	codeInternal           = "internal_error"
)

// ErrorDetail is the body of every non-2xx JSON response:
// {"error":{"code":"...","message":"..."}}.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorDetail.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// fail maps a service error onto the envelope. notFound is the message used
// for domain.ErrNotFound because the handler knows what was being looked up.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, notFound)
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, codeValidation, unwrapMessage(err, domain.ErrValidation))
	case errors.Is(err, domain.ErrCatalogUnavailable):
		w.Header().Set("Retry-After", "5")
		writeError(w, http.StatusServiceUnavailable, codeCatalogUnavailable, "content catalog is not available, retry later")
	case errors.Is(err, domain.ErrSuperseded):
		writeError(w, http.StatusConflict, codeSuperseded, "a newer request for this session replaced this one")
	default:
		s.log.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}

// unwrapMessage extracts the human-readable part after a wrapped sentinel.
// e.g. "service.TripService.Create: start: validation error: date \"x\" must use dd/mm/yyyy"
// becomes "date \"x\" must use dd/mm/yyyy".
func unwrapMessage(err error, sentinel error) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return sentinel.Error()
}

// decode reads a JSON body into dst and validates it. On failure it writes
// the response and returns false. The body is read in full before decoding
// because the JSON decoder does not surface *http.MaxBytesError.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := io.ReadAll(r.Body)
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
		return false
	case err != nil:
		writeError(w, http.StatusBadRequest, "bad_request", "request body could not be read")
		return false
	case len(bytes.TrimSpace(body)) == 0:
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "request body is required")
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "request body must be a JSON object")
		return false
	}
	if err := validateStruct(dst); err != nil {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, err.Error())
		return false
	}
	return true
}

package handler

import (
	"errors"
	"net/http"

	"notes/internal/domain"
	"notes/internal/httputil"
)

// handleError converts domain errors to problem-detail HTTP responses
func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUnknownCategory):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrReconcileInProgress):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// envelopeMessage picks the message of a failed envelope. Client errors are
// passed through; anything else gets the generic fallback.
func envelopeMessage(err error, fallback string) string {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		return fallback + ": " + httpErr.Error()
	}
	if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrConflict) {
		return fallback + ": " + err.Error()
	}
	return fallback
}

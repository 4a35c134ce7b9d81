package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dealer-api/internal/domain"
)

// Envelope is the uniform response wrapper: every endpoint answers with
// {success, message, data}.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// verboseErrors controls whether internal error details reach clients.
// Disabled in production by the router.
var verboseErrors = true

// SetVerboseErrors toggles surfacing internal error details in responses.
func SetVerboseErrors(v bool) { verboseErrors = v }

func writeSuccess(w http.ResponseWriter, status int, msg string, data interface{}) {
	writeJSON(w, status, Envelope{Success: true, Message: msg, Data: data})
}

func writeFailure(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Envelope{Success: false, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// httpError maps a service error onto the taxonomy's status codes via the
// domain sentinels. Unrecognized errors are 500; their details are logged
// and surfaced to the client only outside production.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrConflict):
		writeFailure(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeFailure(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeFailure(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeFailure(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrBadRequest),
		errors.Is(err, domain.ErrInvalidOTP),
		errors.Is(err, domain.ErrOTPExpired):
		writeFailure(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("internal error", "err", err)
		msg := "internal server error"
		if verboseErrors {
			msg = err.Error()
		}
		writeFailure(w, http.StatusInternalServerError, msg)
	}
}

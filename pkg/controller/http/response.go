package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/briefwise/briefwise/pkg/domain/model"
	"github.com/briefwise/briefwise/pkg/usecase"
	"github.com/briefwise/briefwise/pkg/utils/errutil"
	"github.com/briefwise/briefwise/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// User-facing messages for the fatal pipeline errors
const (
	msgNoEvidence          = "No evidence was found for this question. Enable more sources or upload relevant documents."
	msgSynthesisFailed     = "The report could not be generated. Please retry."
	msgInsufficientCredits = "Not enough credits to generate a report."
	msgTimeout             = "Report generation timed out. Please retry."
)

// statusOf maps a use case error to an HTTP status and a client message
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidQuery),
		errors.Is(err, usecase.ErrInvalidDocument),
		errors.Is(err, usecase.ErrInvalidAmount),
		errors.Is(err, usecase.ErrInvalidUser):
		return http.StatusBadRequest, rootMessage(err)
	case errors.Is(err, model.ErrInsufficientCredits):
		return http.StatusPaymentRequired, msgInsufficientCredits
	case errors.Is(err, model.ErrNoEvidence):
		return http.StatusUnprocessableEntity, msgNoEvidence
	case errors.Is(err, model.ErrSynthesisFailed):
		return http.StatusBadGateway, msgSynthesisFailed
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, msgTimeout
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// rootMessage returns the message of the sentinel at the bottom of a goerr chain
func rootMessage(err error) string {
	for _, sentinel := range []error{
		usecase.ErrInvalidQuery,
		usecase.ErrInvalidDocument,
		usecase.ErrInvalidAmount,
		usecase.ErrInvalidUser,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusOf(err)
	if status >= http.StatusInternalServerError {
		_ = errutil.Handle(r.Context(), err, "request failed")
	} else {
		logging.From(r.Context()).Warn("request rejected",
			"status", status,
			"error", err.Error())
	}
	writeJSON(w, r, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data) //nolint:errcheck // header already committed
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return goerr.Wrap(err, "failed to decode request body")
	}
	return nil
}

package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/pitchside/fiveside/internal/domain/gameweek"
	"github.com/pitchside/fiveside/internal/domain/player"
	"github.com/pitchside/fiveside/internal/domain/roster"
	"github.com/pitchside/fiveside/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "fiveside"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	ctx, span := startSpan(ctx, "httpapi.writeSuccess")
	defer span.End()

	writeJSON(ctx, w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	mapped := mapError(ctx, err)
	writeJSON(ctx, w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: err.Error(),
			Status:  mapped.Status,
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  mapped.Reason,
					Message: err.Error(),
				},
			},
		},
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	ctx, span := startSpan(ctx, "httpapi.writeInternalError")
	defer span.End()

	const msg = "internal server error"

	writeJSON(ctx, w, http.StatusInternalServerError, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    http.StatusInternalServerError,
			Message: msg,
			Status:  "INTERNAL",
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  "internalError",
					Message: msg,
				},
			},
		},
	})
}

// errorMappings is checked in order; the first sentinel the error wraps
// wins. Anything unmatched is reported as INTERNAL.
var errorMappings = []struct {
	sentinels []error
	mapped    mappedError
}{
	{
		sentinels: []error{usecase.ErrInvalidInput},
		mapped:    mappedError{http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"},
	},
	{
		sentinels: []error{usecase.ErrNotFound},
		mapped:    mappedError{http.StatusNotFound, "notFound", "NOT_FOUND"},
	},
	{
		sentinels: []error{usecase.ErrUnauthorized},
		mapped:    mappedError{http.StatusUnauthorized, "unauthorized", "UNAUTHENTICATED"},
	},
	{
		sentinels: []error{usecase.ErrDependencyUnavailable},
		mapped:    mappedError{http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"},
	},
	{
		sentinels: []error{roster.ErrFormationInvalid},
		mapped:    mappedError{http.StatusBadRequest, "invalidFormation", "INVALID_ARGUMENT"},
	},
	{
		sentinels: []error{roster.ErrBudgetExceeded},
		mapped:    mappedError{http.StatusBadRequest, "budgetExceeded", "INVALID_ARGUMENT"},
	},
	{
		sentinels: []error{roster.ErrChipAlreadyUsed, roster.ErrChipConflict, roster.ErrNoActiveChip},
		mapped:    mappedError{http.StatusConflict, "chipUnavailable", "FAILED_PRECONDITION"},
	},
	{
		sentinels: []error{roster.ErrTransferWindowLocked, gameweek.ErrNotLocked, gameweek.ErrNotScored},
		mapped:    mappedError{http.StatusConflict, "gameweekState", "FAILED_PRECONDITION"},
	},
	{
		sentinels: []error{roster.ErrAlreadyExists, roster.ErrVersionConflict, player.ErrAlreadyOwned},
		mapped:    mappedError{http.StatusConflict, "conflict", "ABORTED"},
	},
}

func mapError(ctx context.Context, err error) mappedError {
	_, span := startSpan(ctx, "httpapi.mapError")
	defer span.End()

	for _, mapping := range errorMappings {
		for _, sentinel := range mapping.sentinels {
			if errors.Is(err, sentinel) {
				return mapping.mapped
			}
		}
	}

	return mappedError{http.StatusInternalServerError, "internalError", "INTERNAL"}
}

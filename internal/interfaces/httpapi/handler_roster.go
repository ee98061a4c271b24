package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/pitchside/fiveside/internal/usecase"
)

func (h *Handler) CreateRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateRoster")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createRosterRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.rosterService.CreateRoster(ctx, usecase.CreateRosterInput{
		UserID:        principal.UserID,
		Name:          req.Name,
		StarterIDs:    req.StarterIDs,
		BenchIDs:      req.BenchIDs,
		CaptainID:     req.CaptainID,
		ViceCaptainID: req.ViceCaptainID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create roster failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, rosterToDTO(item))
}

func (h *Handler) GetMyRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyRoster")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	item, err := h.rosterService.GetByUser(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get roster failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterToDTO(item))
}

func (h *Handler) ProposeTransfer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ProposeTransfer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req transferRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.rosterService.ProposeSwap(ctx, usecase.SwapInput{
		UserID:     principal.UserID,
		OutgoingID: req.OutgoingID,
		IncomingID: req.IncomingID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "transfer failed", "user_id", principal.UserID, "out", req.OutgoingID, "in", req.IncomingID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterToDTO(item))
}

func (h *Handler) SetCaptaincy(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetCaptaincy")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req captaincyRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.rosterService.SetCaptaincy(ctx, usecase.CaptaincyInput{
		UserID:        principal.UserID,
		CaptainID:     req.CaptainID,
		ViceCaptainID: req.ViceCaptainID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "set captaincy failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterToDTO(item))
}

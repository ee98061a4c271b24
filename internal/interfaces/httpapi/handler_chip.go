package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/pitchside/fiveside/internal/domain/roster"
	"github.com/pitchside/fiveside/internal/usecase"
)

func (h *Handler) UseChip(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UseChip")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req useChipRequest
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

	item, err := h.rosterService.UseChip(ctx, usecase.ChipInput{
		UserID: principal.UserID,
		Kind:   roster.ChipKind(req.Chip),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "use chip failed", "user_id", principal.UserID, "chip", req.Chip, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterToDTO(item))
}

func (h *Handler) CancelChip(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelChip")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	item, err := h.rosterService.CancelChip(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "cancel chip failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterToDTO(item))
}

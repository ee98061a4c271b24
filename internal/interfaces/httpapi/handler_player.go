package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/pitchside/fiveside/internal/usecase"
)

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	position := strings.TrimSpace(r.URL.Query().Get("position"))
	players, err := h.playerService.ListPlayers(ctx, position)
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "position", position, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	playerID := r.PathValue("playerID")
	detail, err := h.playerService.GetPlayer(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerDetailDTO{
		playerDTO:   playerToDTO(detail.Player),
		Appearances: detail.Season.Appearances,
		Goals:       detail.Season.Goals,
		Assists:     detail.Season.Assists,
		Saves:       detail.Season.Saves,
		CleanSheets: detail.Season.CleanSheets,
		OwnGoals:    detail.Season.OwnGoals,
		TotalPoints: detail.Season.TotalPoints,
	})
}

func (h *Handler) GetCurrentGameweek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCurrentGameweek")
	defer span.End()

	gw, err := h.scoringService.CurrentGameweek(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get current gameweek failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameweekToDTO(gw))
}

func (h *Handler) ListGameweekScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGameweekScores")
	defer span.End()

	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil || number <= 0 {
		writeError(ctx, w, fmt.Errorf("%w: invalid gameweek number", usecase.ErrInvalidInput))
		return
	}

	scores, err := h.scoringService.Leaderboard(ctx, number)
	if err != nil {
		h.logger.WarnContext(ctx, "list gameweek scores failed", "gameweek", number, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]scoreDTO, 0, len(scores))
	for _, score := range scores {
		items = append(items, scoreToDTO(score))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pitchside/fiveside/internal/domain/gameweek"
	"github.com/pitchside/fiveside/internal/domain/player"
	"github.com/pitchside/fiveside/internal/domain/roster"
	"github.com/pitchside/fiveside/internal/domain/scoring"
	"github.com/pitchside/fiveside/internal/platform/logging"
	"github.com/pitchside/fiveside/internal/usecase"
)

// JobPublisher enqueues deferred internal jobs, e.g. the scoring retry when
// a round's stats are not finalized yet.
type JobPublisher interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type Handler struct {
	rosterService  *usecase.RosterService
	playerService  *usecase.PlayerService
	scoringService *usecase.ScoringService
	statsService   *usecase.StatsService
	publisher      JobPublisher
	logger         *logging.Logger
	validator      *validator.Validate
}

func NewHandler(
	rosterService *usecase.RosterService,
	playerService *usecase.PlayerService,
	scoringService *usecase.ScoringService,
	statsService *usecase.StatsService,
	publisher JobPublisher,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		rosterService:  rosterService,
		playerService:  playerService,
		scoringService: scoringService,
		statsService:   statsService,
		publisher:      publisher,
		logger:         logger,
		validator:      validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type createRosterRequest struct {
	Name          string   `json:"name" validate:"required,max=100"`
	StarterIDs    []string `json:"starter_ids" validate:"required,len=5,dive,required"`
	BenchIDs      []string `json:"bench_ids" validate:"required,len=2,dive,required"`
	CaptainID     string   `json:"captain_id" validate:"required"`
	ViceCaptainID string   `json:"vice_captain_id" validate:"required"`
}

type transferRequest struct {
	OutgoingID string `json:"outgoing_id" validate:"required"`
	IncomingID string `json:"incoming_id" validate:"required"`
}

type captaincyRequest struct {
	CaptainID     string `json:"captain_id" validate:"required"`
	ViceCaptainID string `json:"vice_captain_id" validate:"required"`
}

type useChipRequest struct {
	Chip string `json:"chip" validate:"required,oneof=wildcard triple_captain bench_boost free_hit"`
}

type ingestStatsRequest struct {
	Gameweek    int `json:"gameweek" validate:"required,min=1"`
	ThroughWeek int `json:"through_week" validate:"omitempty,min=1"`
}

type pickDTO struct {
	PlayerID string `json:"player_id"`
	Position string `json:"position"`
	Price    int64  `json:"price"`
}

type transferStateDTO struct {
	FreeTransfers int `json:"free_transfers"`
	Made          int `json:"made"`
	Cost          int `json:"cost"`
}

type chipStateDTO struct {
	WildcardUsed      bool   `json:"wildcard_used"`
	TripleCaptainUsed bool   `json:"triple_captain_used"`
	BenchBoostUsed    bool   `json:"bench_boost_used"`
	FreeHitUsed       bool   `json:"free_hit_used"`
	Active            string `json:"active,omitempty"`
	ActiveGameweek    int    `json:"active_gameweek,omitempty"`
}

type rosterDTO struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Starters       []pickDTO        `json:"starters"`
	Bench          []pickDTO        `json:"bench"`
	CaptainID      string           `json:"captain_id"`
	ViceCaptainID  string           `json:"vice_captain_id"`
	BudgetCap      int64            `json:"budget_cap"`
	SquadValue     int64            `json:"squad_value"`
	Transfers      transferStateDTO `json:"transfers"`
	Chips          chipStateDTO     `json:"chips"`
	GameweekPoints int              `json:"gameweek_points"`
	TotalPoints    int              `json:"total_points"`
}

type playerDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Price    int64  `json:"price"`
	Rating   int    `json:"rating"`
	Owned    bool   `json:"owned"`
}

type playerDetailDTO struct {
	playerDTO
	Appearances int `json:"appearances"`
	Goals       int `json:"goals"`
	Assists     int `json:"assists"`
	Saves       int `json:"saves"`
	CleanSheets int `json:"clean_sheets"`
	OwnGoals    int `json:"own_goals"`
	TotalPoints int `json:"total_points"`
}

type gameweekDTO struct {
	Number int       `json:"number"`
	LockAt time.Time `json:"lock_at"`
	State  string    `json:"state"`
}

type scoreDTO struct {
	RosterID     string    `json:"roster_id"`
	Gameweek     int       `json:"gameweek"`
	Points       int       `json:"points"`
	TransferCost int       `json:"transfer_cost"`
	TotalPoints  int       `json:"total_points"`
	CalculatedAt time.Time `json:"calculated_at"`
}

func rosterToDTO(item roster.Roster) rosterDTO {
	return rosterDTO{
		ID:            item.ID,
		Name:          item.Name,
		Starters:      picksToDTO(item.Starters),
		Bench:         picksToDTO(item.Bench),
		CaptainID:     item.CaptainID,
		ViceCaptainID: item.ViceCaptainID,
		BudgetCap:     item.BudgetCap,
		SquadValue:    item.SquadValue(),
		Transfers: transferStateDTO{
			FreeTransfers: item.Transfers.FreeTransfers,
			Made:          item.Transfers.Made,
			Cost:          item.Transfers.Cost,
		},
		Chips: chipStateDTO{
			WildcardUsed:      item.Chips.WildcardUsed,
			TripleCaptainUsed: item.Chips.TripleCaptainUsed,
			BenchBoostUsed:    item.Chips.BenchBoostUsed,
			FreeHitUsed:       item.Chips.FreeHitUsed,
			Active:            string(item.Chips.Active),
			ActiveGameweek:    item.Chips.ActiveGameweek,
		},
		GameweekPoints: item.GameweekPoints,
		TotalPoints:    item.TotalPoints,
	}
}

func picksToDTO(picks []roster.Pick) []pickDTO {
	out := make([]pickDTO, 0, len(picks))
	for _, pick := range picks {
		out = append(out, pickDTO{
			PlayerID: pick.PlayerID,
			Position: string(pick.Position),
			Price:    pick.Price,
		})
	}
	return out
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		ID:       p.ID,
		Name:     p.Name,
		Position: string(p.Position),
		Price:    p.Price,
		Rating:   p.Rating,
		Owned:    p.OwnerRosterID != "",
	}
}

func gameweekToDTO(gw gameweek.Gameweek) gameweekDTO {
	return gameweekDTO{
		Number: gw.Number,
		LockAt: gw.LockAt,
		State:  string(gw.State),
	}
}

func scoreToDTO(score scoring.GameweekScore) scoreDTO {
	return scoreDTO{
		RosterID:     score.RosterID,
		Gameweek:     score.Gameweek,
		Points:       score.Points,
		TransferCost: score.TransferCost,
		TotalPoints:  score.TotalPoints,
		CalculatedAt: score.CalculatedAt,
	}
}

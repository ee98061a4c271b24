package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/pitchside/fiveside/internal/domain/player"
	"github.com/pitchside/fiveside/internal/domain/playerstats"
	"github.com/pitchside/fiveside/internal/platform/cache"
	"github.com/pitchside/fiveside/internal/platform/logging"
)

const playerCatalogueCacheKey = "players:catalogue"

// PlayerWithStats pairs a catalogue entry with its season aggregates.
type PlayerWithStats struct {
	Player player.Player
	Season playerstats.SeasonStats
}

// PlayerService serves the read-mostly player catalogue. Listings read
// through a short-TTL cache; ingestion invalidates it on every price or
// stats refresh.
type PlayerService struct {
	playerRepo player.Repository
	statsRepo  playerstats.Repository
	store      *cache.Store
	logger     *logging.Logger
}

func NewPlayerService(
	playerRepo player.Repository,
	statsRepo playerstats.Repository,
	store *cache.Store,
	logger *logging.Logger,
) *PlayerService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PlayerService{
		playerRepo: playerRepo,
		statsRepo:  statsRepo,
		store:      store,
		logger:     logger,
	}
}

// ListPlayers returns the full catalogue, optionally filtered by position.
func (s *PlayerService) ListPlayers(ctx context.Context, position string) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.ListPlayers")
	defer span.End()

	position = strings.TrimSpace(position)
	var filter player.Position
	if position != "" {
		filter = player.Position(strings.ToUpper(position))
		if _, ok := player.AllPositions[filter]; !ok {
			return nil, fmt.Errorf("%w: unknown position %q", ErrInvalidInput, position)
		}
	}

	players, err := s.catalogue(ctx)
	if err != nil {
		return nil, err
	}
	if filter == "" {
		return players, nil
	}

	filtered := make([]player.Player, 0, len(players))
	for _, p := range players {
		if p.Position == filter {
			filtered = append(filtered, p)
		}
	}

	return filtered, nil
}

// GetPlayer returns one catalogue entry with its season aggregates.
func (s *PlayerService) GetPlayer(ctx context.Context, playerID string) (PlayerWithStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetPlayer")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return PlayerWithStats{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	players, err := s.playerRepo.GetByIDs(ctx, []string{playerID})
	if err != nil {
		return PlayerWithStats{}, fmt.Errorf("get player: %w", err)
	}
	if len(players) == 0 {
		return PlayerWithStats{}, fmt.Errorf("%w: player not found", ErrNotFound)
	}

	season, ok, err := s.statsRepo.GetSeasonStats(ctx, playerID)
	if err != nil {
		return PlayerWithStats{}, fmt.Errorf("get season stats: %w", err)
	}
	if !ok {
		season = playerstats.SeasonStats{PlayerID: playerID}
	}

	return PlayerWithStats{Player: players[0], Season: season}, nil
}

// InvalidateCatalogue drops the cached listing after a price or pool change.
func (s *PlayerService) InvalidateCatalogue(ctx context.Context) {
	if s.store != nil {
		s.store.Delete(ctx, playerCatalogueCacheKey)
	}
}

func (s *PlayerService) catalogue(ctx context.Context) ([]player.Player, error) {
	if s.store == nil {
		players, err := s.playerRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list players: %w", err)
		}
		return players, nil
	}

	value, err := s.store.GetOrLoad(ctx, playerCatalogueCacheKey, func(ctx context.Context) (any, error) {
		players, loadErr := s.playerRepo.List(ctx)
		if loadErr != nil {
			return nil, fmt.Errorf("list players: %w", loadErr)
		}
		return players, nil
	})
	if err != nil {
		return nil, err
	}

	players, ok := value.([]player.Player)
	if !ok {
		return nil, fmt.Errorf("unexpected catalogue cache entry type %T", value)
	}

	return players, nil
}

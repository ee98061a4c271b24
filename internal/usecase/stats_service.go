package usecase

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/pitchside/fiveside/internal/domain/player"
	"github.com/pitchside/fiveside/internal/domain/playerstats"
	"github.com/pitchside/fiveside/internal/domain/scoring"
	"github.com/pitchside/fiveside/internal/platform/logging"
)

// StatsFeed is the upstream per-round stat source. Records arrive already
// tabulated; Finalized reports whether the round's figures are still subject
// to correction.
type StatsFeed interface {
	FetchGameweek(ctx context.Context, gameweek int) (FeedSnapshot, error)
}

// FeedSnapshot is one round's worth of feed records.
type FeedSnapshot struct {
	Gameweek  int
	Finalized bool
	Records   []playerstats.GameweekStats
	Prices    []PriceUpdate
}

// PriceUpdate is one market price movement reported by the feed.
type PriceUpdate struct {
	PlayerID string
	Price    int64
}

// PriceUpdater applies feed price movements to the player pool.
type PriceUpdater interface {
	SetPrice(ctx context.Context, playerID string, price int64) error
}

// IngestReport summarizes one ingestion run.
type IngestReport struct {
	Gameweek  int
	Records   int
	Finalized bool
}

// StatsService pulls stat records from the feed into local storage. Season
// point totals accumulate exactly once, when a round's records flip to
// finalized.
type StatsService struct {
	feed       StatsFeed
	statsRepo  playerstats.Repository
	playerRepo player.Repository
	prices     PriceUpdater
	players    *PlayerService
	logger     *logging.Logger
	fetchers   int
}

func NewStatsService(
	feed StatsFeed,
	statsRepo playerstats.Repository,
	playerRepo player.Repository,
	prices PriceUpdater,
	players *PlayerService,
	logger *logging.Logger,
	fetchers int,
) *StatsService {
	if logger == nil {
		logger = logging.Default()
	}
	if fetchers <= 0 {
		fetchers = 4
	}

	return &StatsService{
		feed:       feed,
		statsRepo:  statsRepo,
		playerRepo: playerRepo,
		prices:     prices,
		players:    players,
		logger:     logger,
		fetchers:   fetchers,
	}
}

// IngestGameweek pulls one round from the feed and stores it. A finalized
// snapshot also folds each player's base points into the season totals and
// marks the round ready for scoring; re-ingesting an already finalized round
// is a no-op for the season totals.
func (s *StatsService) IngestGameweek(ctx context.Context, gameweek int) (IngestReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.IngestGameweek")
	defer span.End()

	if gameweek <= 0 {
		return IngestReport{}, fmt.Errorf("%w: gameweek must be positive", ErrInvalidInput)
	}

	snapshot, err := s.feed.FetchGameweek(ctx, gameweek)
	if err != nil {
		return IngestReport{}, fmt.Errorf("%w: fetch gameweek %d: %v", ErrDependencyUnavailable, gameweek, err)
	}

	if err := s.statsRepo.UpsertGameweek(ctx, gameweek, snapshot.Records); err != nil {
		return IngestReport{}, fmt.Errorf("store gameweek stats: %w", err)
	}

	if s.prices != nil && len(snapshot.Prices) > 0 {
		for _, update := range snapshot.Prices {
			if err := s.prices.SetPrice(ctx, update.PlayerID, update.Price); err != nil {
				return IngestReport{}, fmt.Errorf("apply price movement player=%s: %w", update.PlayerID, err)
			}
		}
		if s.players != nil {
			s.players.InvalidateCatalogue(ctx)
		}
	}

	report := IngestReport{Gameweek: gameweek, Records: len(snapshot.Records)}
	if !snapshot.Finalized {
		return report, nil
	}

	alreadyFinal, err := s.statsRepo.Finalized(ctx, gameweek)
	if err != nil {
		return IngestReport{}, fmt.Errorf("check finalized: %w", err)
	}
	if !alreadyFinal {
		if err := s.accumulateSeasonPoints(ctx, snapshot.Records); err != nil {
			return IngestReport{}, err
		}
		if err := s.statsRepo.MarkFinalized(ctx, gameweek); err != nil {
			return IngestReport{}, fmt.Errorf("mark finalized: %w", err)
		}
		if s.players != nil {
			s.players.InvalidateCatalogue(ctx)
		}
	}
	report.Finalized = true

	s.logger.InfoContext(ctx, "gameweek stats ingested",
		"gameweek", gameweek,
		"records", report.Records,
		"finalized", report.Finalized,
	)

	return report, nil
}

// IngestRange ingests a span of rounds, fetching concurrently. The first
// failure cancels the remaining fetches.
func (s *StatsService) IngestRange(ctx context.Context, from, to int) ([]IngestReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.IngestRange")
	defer span.End()

	if from <= 0 || to < from {
		return nil, fmt.Errorf("%w: invalid gameweek range %d..%d", ErrInvalidInput, from, to)
	}

	reports := make([]IngestReport, to-from+1)
	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(s.fetchers)
	for gw := from; gw <= to; gw++ {
		gw := gw
		p.Go(func(ctx context.Context) error {
			report, err := s.IngestGameweek(ctx, gw)
			if err != nil {
				return err
			}
			reports[gw-from] = report
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	return reports, nil
}

func (s *StatsService) accumulateSeasonPoints(ctx context.Context, records []playerstats.GameweekStats) error {
	if len(records) == 0 {
		return nil
	}

	playerIDs := make([]string, 0, len(records))
	for _, record := range records {
		playerIDs = append(playerIDs, record.PlayerID)
	}
	players, err := s.playerRepo.GetByIDs(ctx, playerIDs)
	if err != nil {
		return fmt.Errorf("get players for season totals: %w", err)
	}
	positionByID := make(map[string]player.Position, len(players))
	for _, p := range players {
		positionByID[p.ID] = p.Position
	}

	pointsByPlayer := make(map[string]int, len(records))
	for _, record := range records {
		pos, ok := positionByID[record.PlayerID]
		if !ok {
			// Feed records for players outside the pool carry no points.
			continue
		}
		pointsByPlayer[record.PlayerID] = scoring.BasePoints(pos, record)
	}

	if err := s.statsRepo.AddSeasonPoints(ctx, pointsByPlayer); err != nil {
		return fmt.Errorf("add season points: %w", err)
	}

	return nil
}

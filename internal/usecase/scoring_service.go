package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/pitchside/fiveside/internal/domain/gameweek"
	"github.com/pitchside/fiveside/internal/domain/player"
	"github.com/pitchside/fiveside/internal/domain/playerstats"
	"github.com/pitchside/fiveside/internal/domain/roster"
	"github.com/pitchside/fiveside/internal/domain/scoring"
	"github.com/pitchside/fiveside/internal/platform/logging"
	"github.com/pitchside/fiveside/internal/platform/resilience"
)

const defaultScoringWorkers = 8

// ScoreResult is the outcome of one roster's scoring attempt. Pending means
// the round's stats were not finalized yet and the roster should be retried.
type ScoreResult struct {
	RosterID string
	Status   scoring.Status
	Score    scoring.GameweekScore
}

// BatchResult summarizes one run over every roster for a gameweek.
type BatchResult struct {
	Gameweek int
	Scored   int
	Pending  int
	Failed   int
	Results  []ScoreResult
}

// ScoringService turns finalized stat records into persisted gameweek scores
// and drives the round lifecycle from locked through archived.
type ScoringService struct {
	rosterRepo roster.Repository
	playerRepo player.Repository
	statsRepo  playerstats.Repository
	scoreRepo  scoring.Repository
	clock      gameweek.Provider
	rules      roster.Rules
	locks      *resilience.KeyedMutex
	logger     *logging.Logger
	workers    int
	now        func() time.Time
}

func NewScoringService(
	rosterRepo roster.Repository,
	playerRepo player.Repository,
	statsRepo playerstats.Repository,
	scoreRepo scoring.Repository,
	clock gameweek.Provider,
	rules roster.Rules,
	locks *resilience.KeyedMutex,
	logger *logging.Logger,
	workers int,
) *ScoringService {
	if locks == nil {
		locks = &resilience.KeyedMutex{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	if workers <= 0 {
		workers = defaultScoringWorkers
	}

	return &ScoringService{
		rosterRepo: rosterRepo,
		playerRepo: playerRepo,
		statsRepo:  statsRepo,
		scoreRepo:  scoreRepo,
		clock:      clock,
		rules:      rules,
		locks:      locks,
		logger:     logger,
		workers:    workers,
		now:        time.Now,
	}
}

// ScoreRoster computes and persists one roster's score for the current locked
// round. Re-scoring an already scored roster returns the stored result
// unchanged. When the round's stat records are not finalized yet the result
// is Pending and nothing is written.
func (s *ScoringService) ScoreRoster(ctx context.Context, rosterID string) (ScoreResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ScoreRoster")
	defer span.End()

	gw, err := s.requireLockedGameweek(ctx)
	if err != nil {
		return ScoreResult{}, err
	}

	item, exists, err := s.rosterRepo.GetByID(ctx, rosterID)
	if err != nil {
		return ScoreResult{}, fmt.Errorf("get roster: %w", err)
	}
	if !exists {
		return ScoreResult{}, fmt.Errorf("%w: roster not found", ErrNotFound)
	}

	return s.scoreLocked(ctx, item, gw)
}

// ScoreAllRosters scores every roster for the current locked round on a
// bounded worker pool and marks the round scored once no roster is left
// pending or failed.
func (s *ScoringService) ScoreAllRosters(ctx context.Context) (BatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ScoreAllRosters")
	defer span.End()

	gw, err := s.requireLockedGameweek(ctx)
	if err != nil {
		return BatchResult{}, err
	}

	rosters, err := s.rosterRepo.List(ctx)
	if err != nil {
		return BatchResult{}, fmt.Errorf("list rosters: %w", err)
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return BatchResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		batch   = BatchResult{Gameweek: gw.Number}
		results = make([]ScoreResult, 0, len(rosters))
	)

	for _, item := range rosters {
		item := item
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()

			result, scoreErr := s.scoreLocked(ctx, item, gw)

			mu.Lock()
			defer mu.Unlock()
			if scoreErr != nil {
				batch.Failed++
				s.logger.ErrorContext(ctx, "score roster", "roster_id", item.ID, "gameweek", gw.Number, "error", scoreErr)
				return
			}
			results = append(results, result)
			if result.Status == scoring.StatusPending {
				batch.Pending++
			} else {
				batch.Scored++
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			batch.Failed++
			mu.Unlock()
		}
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].RosterID < results[j].RosterID })
	batch.Results = results

	if batch.Pending == 0 && batch.Failed == 0 {
		if err := s.clock.MarkScored(ctx, gw.Number); err != nil {
			return batch, fmt.Errorf("mark gameweek scored: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "scoring batch finished",
		"gameweek", gw.Number,
		"scored", batch.Scored,
		"pending", batch.Pending,
		"failed", batch.Failed,
	)

	return batch, nil
}

// AdvanceGameweek archives the scored round and opens the next one: Free Hit
// squads revert to their stored snapshot, weekly transfer counters reset and
// active chips expire.
func (s *ScoringService) AdvanceGameweek(ctx context.Context) (gameweek.Gameweek, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.AdvanceGameweek")
	defer span.End()

	current, err := s.clock.Current(ctx)
	if err != nil {
		return gameweek.Gameweek{}, fmt.Errorf("get current gameweek: %w", err)
	}
	if current.State != gameweek.StateScored {
		return gameweek.Gameweek{}, fmt.Errorf("%w: gameweek=%d state=%s", gameweek.ErrNotScored, current.Number, current.State)
	}

	// Check the schedule before touching any roster so the final round never
	// rolls squads over for a week that will not open.
	hasNext, err := s.clock.HasNext(ctx)
	if err != nil {
		return gameweek.Gameweek{}, fmt.Errorf("check schedule: %w", err)
	}
	if !hasNext {
		return gameweek.Gameweek{}, fmt.Errorf("%w: gameweek=%d is the final round", gameweek.ErrNoNextRound, current.Number)
	}

	rosters, err := s.rosterRepo.List(ctx)
	if err != nil {
		return gameweek.Gameweek{}, fmt.Errorf("list rosters: %w", err)
	}

	// Rollover is idempotent per roster, so a partial failure leaves the round
	// in place and the next call retries only what is still unrolled.
	failed := 0
	for _, item := range rosters {
		if err := s.rolloverRoster(ctx, item, current.Number); err != nil {
			failed++
			s.logger.ErrorContext(ctx, "rollover roster", "roster_id", item.ID, "gameweek", current.Number, "error", err)
		}
	}
	if failed > 0 {
		return gameweek.Gameweek{}, fmt.Errorf("rollover failed for %d of %d rosters", failed, len(rosters))
	}

	next, err := s.clock.Advance(ctx)
	if err != nil {
		return gameweek.Gameweek{}, fmt.Errorf("advance gameweek: %w", err)
	}

	s.logger.InfoContext(ctx, "gameweek advanced",
		"from", current.Number,
		"to", next.Number,
		"rosters", len(rosters),
	)

	return next, nil
}

// CurrentGameweek exposes the shared round clock.
func (s *ScoringService) CurrentGameweek(ctx context.Context) (gameweek.Gameweek, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.CurrentGameweek")
	defer span.End()

	gw, err := s.clock.Current(ctx)
	if err != nil {
		return gameweek.Gameweek{}, fmt.Errorf("get current gameweek: %w", err)
	}

	return gw, nil
}

// Leaderboard lists the stored scores for a round, best first.
func (s *ScoringService) Leaderboard(ctx context.Context, gw int) ([]scoring.GameweekScore, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.Leaderboard")
	defer span.End()

	if gw <= 0 {
		return nil, fmt.Errorf("%w: gameweek must be positive", ErrInvalidInput)
	}

	scores, err := s.scoreRepo.ListByGameweek(ctx, gw)
	if err != nil {
		return nil, fmt.Errorf("list gameweek scores: %w", err)
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].TotalPoints != scores[j].TotalPoints {
			return scores[i].TotalPoints > scores[j].TotalPoints
		}
		return scores[i].RosterID < scores[j].RosterID
	})

	return scores, nil
}

func (s *ScoringService) scoreLocked(ctx context.Context, item roster.Roster, gw gameweek.Gameweek) (ScoreResult, error) {
	unlock := s.locks.Lock(rosterLockKey(item.UserID))
	defer unlock()

	if existing, ok, err := s.scoreRepo.Get(ctx, item.ID, gw.Number); err != nil {
		return ScoreResult{}, fmt.Errorf("get existing score: %w", err)
	} else if ok {
		if !existing.Settled {
			existing, err = s.settleScore(ctx, existing)
			if err != nil {
				return ScoreResult{}, err
			}
		}
		return ScoreResult{RosterID: item.ID, Status: scoring.StatusScored, Score: existing}, nil
	}

	finalized, err := s.statsRepo.Finalized(ctx, gw.Number)
	if err != nil {
		return ScoreResult{}, fmt.Errorf("check stats finalized: %w", err)
	}
	if !finalized {
		return ScoreResult{RosterID: item.ID, Status: scoring.StatusPending}, nil
	}

	stats, err := s.statsRepo.GetByGameweek(ctx, gw.Number)
	if err != nil {
		return ScoreResult{}, fmt.Errorf("get gameweek stats: %w", err)
	}

	activeChip := item.Chips.ActiveFor(gw.Number)
	points, _ := scoring.ScoreLineup(item.Starters, item.Bench, item.CaptainID, item.ViceCaptainID, activeChip, stats)
	transferCost := item.Transfers.Cost

	score := scoring.GameweekScore{
		RosterID:     item.ID,
		Gameweek:     gw.Number,
		Points:       points,
		TransferCost: transferCost,
		TotalPoints:  points - transferCost,
		CalculatedAt: s.now().UTC(),
	}
	if err := s.scoreRepo.Upsert(ctx, score); err != nil {
		return ScoreResult{}, fmt.Errorf("store score: %w", err)
	}

	score, err = s.settleScore(ctx, score)
	if err != nil {
		return ScoreResult{}, err
	}

	return ScoreResult{RosterID: item.ID, Status: scoring.StatusScored, Score: score}, nil
}

// settleScore credits a stored score to the roster totals and only then marks
// the row settled. A failure between the two writes leaves the row unsettled,
// so the next scoring pass for the roster repeats the credit.
func (s *ScoringService) settleScore(ctx context.Context, score scoring.GameweekScore) (scoring.GameweekScore, error) {
	// Re-read so the points write does not clobber a concurrent mutation.
	fresh, exists, err := s.rosterRepo.GetByID(ctx, score.RosterID)
	if err != nil {
		return scoring.GameweekScore{}, fmt.Errorf("refresh roster: %w", err)
	}
	if exists {
		fresh.GameweekPoints = score.TotalPoints
		fresh.TotalPoints += score.TotalPoints
		fresh.UpdatedAt = s.now().UTC()
		if err := s.rosterRepo.Update(ctx, fresh); err != nil {
			return scoring.GameweekScore{}, fmt.Errorf("update roster points: %w", err)
		}
	}

	score.Settled = true
	if err := s.scoreRepo.Upsert(ctx, score); err != nil {
		return scoring.GameweekScore{}, fmt.Errorf("mark score settled: %w", err)
	}

	return score, nil
}

func (s *ScoringService) rolloverRoster(ctx context.Context, item roster.Roster, endedGameweek int) error {
	unlock := s.locks.Lock(rosterLockKey(item.UserID))
	defer unlock()

	fresh, exists, err := s.rosterRepo.GetByID(ctx, item.ID)
	if err != nil {
		return fmt.Errorf("refresh roster: %w", err)
	}
	if !exists {
		return nil
	}

	if fresh.Chips.ActiveFor(endedGameweek) == roster.ChipFreeHit && fresh.FreeHitSnapshot != nil {
		if err := s.revertFreeHit(ctx, &fresh); err != nil {
			return err
		}
	}

	fresh.Transfers = fresh.Transfers.Rollover(s.rules.FreeTransfers)
	fresh.Chips = fresh.Chips.Expire()
	fresh.UpdatedAt = s.now().UTC()

	if err := s.rosterRepo.Update(ctx, fresh); err != nil {
		return fmt.Errorf("update roster: %w", err)
	}

	return nil
}

// revertFreeHit restores the pre-chip squad. A snapshot player sold during
// the chip week may have been claimed by another roster in the meantime; that
// player stays with its new owner and the vacated slot keeps the chip-week
// signing instead. When no formation-preserving merge exists the chip-week
// squad stands as-is.
func (s *ScoringService) revertFreeHit(ctx context.Context, fresh *roster.Roster) error {
	snapshot := fresh.FreeHitSnapshot

	snapshotIDs := make([]string, 0, len(snapshot.Starters)+len(snapshot.Bench))
	for _, pick := range snapshot.Starters {
		snapshotIDs = append(snapshotIDs, pick.PlayerID)
	}
	for _, pick := range snapshot.Bench {
		snapshotIDs = append(snapshotIDs, pick.PlayerID)
	}
	players, err := s.playerRepo.GetByIDs(ctx, snapshotIDs)
	if err != nil {
		return fmt.Errorf("load snapshot players: %w", err)
	}
	owners := make(map[string]string, len(players))
	for _, p := range players {
		owners[p.ID] = p.OwnerRosterID
	}
	claimed := func(playerID string) bool {
		owner, known := owners[playerID]
		return known && owner != "" && owner != fresh.ID
	}

	starters, bench, ok := fresh.MergeSnapshot(snapshot, claimed)
	if !ok {
		s.logger.WarnContext(ctx, "free hit reversion kept chip-week squad", "roster_id", fresh.ID)
		fresh.FreeHitSnapshot = nil
		return nil
	}

	fresh.Starters = starters
	fresh.Bench = bench
	fresh.CaptainID, fresh.ViceCaptainID = roster.ResolveCaptaincy(starters,
		[]string{snapshot.CaptainID, fresh.CaptainID},
		[]string{snapshot.ViceCaptainID, fresh.ViceCaptainID},
	)
	fresh.FreeHitSnapshot = nil

	if err := s.playerRepo.ReplaceOwners(ctx, fresh.ID, fresh.PlayerIDs()); err != nil {
		return fmt.Errorf("restore player owners: %w", err)
	}

	return nil
}

func (s *ScoringService) requireLockedGameweek(ctx context.Context) (gameweek.Gameweek, error) {
	gw, err := s.clock.Current(ctx)
	if err != nil {
		return gameweek.Gameweek{}, fmt.Errorf("get current gameweek: %w", err)
	}
	if gw.State != gameweek.StateLocked {
		return gameweek.Gameweek{}, fmt.Errorf("%w: gameweek=%d state=%s", gameweek.ErrNotLocked, gw.Number, gw.State)
	}

	return gw, nil
}

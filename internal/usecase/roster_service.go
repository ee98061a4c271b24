package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pitchside/fiveside/internal/domain/gameweek"
	"github.com/pitchside/fiveside/internal/domain/player"
	"github.com/pitchside/fiveside/internal/domain/roster"
	"github.com/pitchside/fiveside/internal/platform/id"
	"github.com/pitchside/fiveside/internal/platform/logging"
	"github.com/pitchside/fiveside/internal/platform/resilience"
)

// CreateRosterInput is the incoming payload for the one-time roster creation.
type CreateRosterInput struct {
	UserID        string
	Name          string
	StarterIDs    []string
	BenchIDs      []string
	CaptainID     string
	ViceCaptainID string
}

// SwapInput is one proposed buy/sell pair.
type SwapInput struct {
	UserID     string
	OutgoingID string
	IncomingID string
}

// CaptaincyInput reassigns the armbands within the current starter set.
type CaptaincyInput struct {
	UserID        string
	CaptainID     string
	ViceCaptainID string
}

// RosterService orchestrates every user-facing roster mutation. All mutations
// for one user are serialized through the shared keyed mutex, and the roster
// repository rejects concurrent writers via the version check on top of that.
type RosterService struct {
	rosterRepo roster.Repository
	playerRepo player.Repository
	clock      gameweek.Provider
	rules      roster.Rules
	idGen      id.Generator
	locks      *resilience.KeyedMutex
	logger     *logging.Logger
	now        func() time.Time
}

func NewRosterService(
	rosterRepo roster.Repository,
	playerRepo player.Repository,
	clock gameweek.Provider,
	rules roster.Rules,
	idGen id.Generator,
	locks *resilience.KeyedMutex,
	logger *logging.Logger,
) *RosterService {
	if locks == nil {
		locks = &resilience.KeyedMutex{}
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &RosterService{
		rosterRepo: rosterRepo,
		playerRepo: playerRepo,
		clock:      clock,
		rules:      rules,
		idGen:      idGen,
		locks:      locks,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateRoster builds a user's squad exactly once per season. The whole
// mutation is validated before any write; a failed creation leaves no player
// claimed.
func (s *RosterService) CreateRoster(ctx context.Context, input CreateRosterInput) (roster.Roster, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.CreateRoster")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.Name = strings.TrimSpace(input.Name)
	input.CaptainID = strings.TrimSpace(input.CaptainID)
	input.ViceCaptainID = strings.TrimSpace(input.ViceCaptainID)

	if input.UserID == "" {
		return roster.Roster{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.Name == "" {
		return roster.Roster{}, fmt.Errorf("%w: roster name is required", ErrInvalidInput)
	}

	starterIDs, err := normalizeIDs(input.StarterIDs)
	if err != nil {
		return roster.Roster{}, err
	}
	benchIDs, err := normalizeIDs(input.BenchIDs)
	if err != nil {
		return roster.Roster{}, err
	}

	if err := s.requireOpenGameweek(ctx); err != nil {
		return roster.Roster{}, err
	}

	unlock := s.locks.Lock(rosterLockKey(input.UserID))
	defer unlock()

	if _, exists, err := s.rosterRepo.GetByUserID(ctx, input.UserID); err != nil {
		return roster.Roster{}, fmt.Errorf("get existing roster: %w", err)
	} else if exists {
		return roster.Roster{}, fmt.Errorf("%w: user=%s", roster.ErrAlreadyExists, input.UserID)
	}

	allIDs := append(append([]string(nil), starterIDs...), benchIDs...)
	if err := ensureDistinct(allIDs); err != nil {
		return roster.Roster{}, err
	}

	pickByID, err := s.loadPicks(ctx, allIDs)
	if err != nil {
		return roster.Roster{}, err
	}

	starters := picksFor(starterIDs, pickByID)
	bench := picksFor(benchIDs, pickByID)

	if err := roster.ValidateFormation(starters, bench); err != nil {
		return roster.Roster{}, err
	}
	if value := roster.SquadValue(starters, bench); value > s.rules.BudgetCap {
		return roster.Roster{}, fmt.Errorf("%w: cap=%d value=%d", roster.ErrBudgetExceeded, s.rules.BudgetCap, value)
	}
	if err := validateCaptaincy(starters, input.CaptainID, input.ViceCaptainID); err != nil {
		return roster.Roster{}, err
	}

	rosterID, err := s.idGen.NewID()
	if err != nil {
		return roster.Roster{}, fmt.Errorf("generate roster id: %w", err)
	}

	now := s.now().UTC()
	item := roster.Roster{
		ID:            rosterID,
		UserID:        input.UserID,
		Name:          input.Name,
		Starters:      starters,
		Bench:         bench,
		CaptainID:     input.CaptainID,
		ViceCaptainID: input.ViceCaptainID,
		BudgetCap:     s.rules.BudgetCap,
		Transfers:     roster.TransferState{FreeTransfers: s.rules.FreeTransfers},
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := item.ValidateBasic(); err != nil {
		return roster.Roster{}, fmt.Errorf("validate roster: %w", err)
	}

	if err := s.playerRepo.ClaimOwners(ctx, rosterID, allIDs); err != nil {
		return roster.Roster{}, fmt.Errorf("claim players: %w", err)
	}
	if err := s.rosterRepo.Create(ctx, item); err != nil {
		if releaseErr := s.playerRepo.ReplaceOwners(ctx, rosterID, nil); releaseErr != nil {
			s.logger.ErrorContext(ctx, "release players after failed create", "roster_id", rosterID, "error", releaseErr)
		}
		return roster.Roster{}, fmt.Errorf("create roster: %w", err)
	}

	s.logger.InfoContext(ctx, "roster created",
		"user_id", input.UserID,
		"roster_id", rosterID,
		"squad_value", item.SquadValue(),
	)

	return item, nil
}

// ProposeSwap commits one buy/sell pair. Any swap whose result still passes
// the formation check is accepted; both ledger legs settle against current
// market prices and either everything applies or nothing does.
func (s *RosterService) ProposeSwap(ctx context.Context, input SwapInput) (roster.Roster, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ProposeSwap")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.OutgoingID = strings.TrimSpace(input.OutgoingID)
	input.IncomingID = strings.TrimSpace(input.IncomingID)

	if input.UserID == "" || input.OutgoingID == "" || input.IncomingID == "" {
		return roster.Roster{}, fmt.Errorf("%w: user_id, outgoing and incoming player ids are required", ErrInvalidInput)
	}
	if input.OutgoingID == input.IncomingID {
		return roster.Roster{}, fmt.Errorf("%w: outgoing and incoming player must differ", ErrInvalidInput)
	}

	gw, err := s.requireOpenGameweekValue(ctx)
	if err != nil {
		return roster.Roster{}, err
	}

	unlock := s.locks.Lock(rosterLockKey(input.UserID))
	defer unlock()

	item, exists, err := s.rosterRepo.GetByUserID(ctx, input.UserID)
	if err != nil {
		return roster.Roster{}, fmt.Errorf("get roster: %w", err)
	}
	if !exists {
		return roster.Roster{}, fmt.Errorf("%w: roster not found", ErrNotFound)
	}

	if !item.HasPlayer(input.OutgoingID) {
		return roster.Roster{}, fmt.Errorf("%w: player %s is not on the roster", ErrInvalidInput, input.OutgoingID)
	}
	if item.HasPlayer(input.IncomingID) {
		return roster.Roster{}, fmt.Errorf("%w: player %s is already on the roster", ErrInvalidInput, input.IncomingID)
	}

	marketIDs := append(item.PlayerIDs(), input.IncomingID)
	pickByID, err := s.loadPicks(ctx, marketIDs)
	if err != nil {
		return roster.Roster{}, err
	}
	incoming, ok := pickByID[input.IncomingID]
	if !ok {
		return roster.Roster{}, fmt.Errorf("%w: player %s not found", ErrInvalidInput, input.IncomingID)
	}

	// Prices float; refresh every pick to the market price read now so the
	// ledger settles both legs at current prices.
	starters := repriced(item.Starters, pickByID)
	bench := repriced(item.Bench, pickByID)
	currentValue := roster.SquadValue(starters, bench)
	outgoingPrice := pickByID[input.OutgoingID].Price

	starters, bench = substitute(starters, bench, input.OutgoingID, incoming)
	if err := roster.ValidateFormation(starters, bench); err != nil {
		return roster.Roster{}, err
	}
	if err := roster.CheckAffordable(currentValue, outgoingPrice, incoming.Price, item.BudgetCap); err != nil {
		return roster.Roster{}, err
	}

	activeChip := item.Chips.ActiveFor(gw.Number)
	item.Starters = starters
	item.Bench = bench
	item.Transfers = item.Transfers.ApplySwap(s.rules.TransferPenalty, activeChip)

	// The incoming player inherits the armband so the captain always remains
	// a member of the starter set.
	if item.CaptainID == input.OutgoingID {
		item.CaptainID = input.IncomingID
	}
	if item.ViceCaptainID == input.OutgoingID {
		item.ViceCaptainID = input.IncomingID
	}
	item.UpdatedAt = s.now().UTC()

	if err := s.playerRepo.SwapOwners(ctx, item.ID, input.OutgoingID, input.IncomingID); err != nil {
		return roster.Roster{}, fmt.Errorf("swap player owners: %w", err)
	}
	if err := s.rosterRepo.Update(ctx, item); err != nil {
		if revertErr := s.playerRepo.SwapOwners(ctx, item.ID, input.IncomingID, input.OutgoingID); revertErr != nil {
			s.logger.ErrorContext(ctx, "revert owner swap after failed update", "roster_id", item.ID, "error", revertErr)
		}
		return roster.Roster{}, fmt.Errorf("update roster: %w", err)
	}

	s.logger.InfoContext(ctx, "transfer committed",
		"roster_id", item.ID,
		"out", input.OutgoingID,
		"in", input.IncomingID,
		"made", item.Transfers.Made,
		"cost", item.Transfers.Cost,
	)

	return item, nil
}

// SetCaptaincy reassigns captain and vice-captain within the starter set.
func (s *RosterService) SetCaptaincy(ctx context.Context, input CaptaincyInput) (roster.Roster, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.SetCaptaincy")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.CaptainID = strings.TrimSpace(input.CaptainID)
	input.ViceCaptainID = strings.TrimSpace(input.ViceCaptainID)

	if input.UserID == "" {
		return roster.Roster{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	if err := s.requireOpenGameweek(ctx); err != nil {
		return roster.Roster{}, err
	}

	unlock := s.locks.Lock(rosterLockKey(input.UserID))
	defer unlock()

	item, exists, err := s.rosterRepo.GetByUserID(ctx, input.UserID)
	if err != nil {
		return roster.Roster{}, fmt.Errorf("get roster: %w", err)
	}
	if !exists {
		return roster.Roster{}, fmt.Errorf("%w: roster not found", ErrNotFound)
	}

	if err := validateCaptaincy(item.Starters, input.CaptainID, input.ViceCaptainID); err != nil {
		return roster.Roster{}, err
	}

	item.CaptainID = input.CaptainID
	item.ViceCaptainID = input.ViceCaptainID
	item.UpdatedAt = s.now().UTC()

	if err := s.rosterRepo.Update(ctx, item); err != nil {
		return roster.Roster{}, fmt.Errorf("update roster: %w", err)
	}

	return item, nil
}

// GetByUser returns the caller's roster.
func (s *RosterService) GetByUser(ctx context.Context, userID string) (roster.Roster, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.GetByUser")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return roster.Roster{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	item, exists, err := s.rosterRepo.GetByUserID(ctx, userID)
	if err != nil {
		return roster.Roster{}, fmt.Errorf("get roster: %w", err)
	}
	if !exists {
		return roster.Roster{}, fmt.Errorf("%w: roster not found", ErrNotFound)
	}

	return item, nil
}

func (s *RosterService) requireOpenGameweek(ctx context.Context) error {
	_, err := s.requireOpenGameweekValue(ctx)
	return err
}

func (s *RosterService) requireOpenGameweekValue(ctx context.Context) (gameweek.Gameweek, error) {
	gw, err := s.clock.Current(ctx)
	if err != nil {
		return gameweek.Gameweek{}, fmt.Errorf("get current gameweek: %w", err)
	}
	if !gw.Open() {
		return gameweek.Gameweek{}, fmt.Errorf("%w: gameweek=%d state=%s", roster.ErrTransferWindowLocked, gw.Number, gw.State)
	}

	return gw, nil
}

func (s *RosterService) loadPicks(ctx context.Context, playerIDs []string) (map[string]roster.Pick, error) {
	players, err := s.playerRepo.GetByIDs(ctx, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("get players by ids: %w", err)
	}
	if len(players) != len(playerIDs) {
		return nil, fmt.Errorf("%w: some players are missing from the pool", ErrInvalidInput)
	}

	pickByID := make(map[string]roster.Pick, len(players))
	for _, p := range players {
		pickByID[p.ID] = roster.Pick{
			PlayerID: p.ID,
			Position: p.Position,
			Price:    p.Price,
		}
	}

	return pickByID, nil
}

func validateCaptaincy(starters []roster.Pick, captainID, viceCaptainID string) error {
	if captainID == "" || viceCaptainID == "" {
		return fmt.Errorf("%w: captain and vice captain are required", ErrInvalidInput)
	}
	if captainID == viceCaptainID {
		return fmt.Errorf("%w: captain and vice captain must be different", ErrInvalidInput)
	}

	starterSet := make(map[string]struct{}, len(starters))
	for _, pick := range starters {
		starterSet[pick.PlayerID] = struct{}{}
	}
	if _, ok := starterSet[captainID]; !ok {
		return fmt.Errorf("%w: captain must be a starter", ErrInvalidInput)
	}
	if _, ok := starterSet[viceCaptainID]; !ok {
		return fmt.Errorf("%w: vice captain must be a starter", ErrInvalidInput)
	}

	return nil
}

func picksFor(playerIDs []string, pickByID map[string]roster.Pick) []roster.Pick {
	picks := make([]roster.Pick, 0, len(playerIDs))
	for _, playerID := range playerIDs {
		picks = append(picks, pickByID[playerID])
	}
	return picks
}

func repriced(picks []roster.Pick, pickByID map[string]roster.Pick) []roster.Pick {
	out := make([]roster.Pick, 0, len(picks))
	for _, pick := range picks {
		if current, ok := pickByID[pick.PlayerID]; ok {
			pick.Price = current.Price
		}
		out = append(out, pick)
	}
	return out
}

func substitute(starters, bench []roster.Pick, outgoingID string, incoming roster.Pick) ([]roster.Pick, []roster.Pick) {
	for i, pick := range starters {
		if pick.PlayerID == outgoingID {
			starters[i] = incoming
			return starters, bench
		}
	}
	for i, pick := range bench {
		if pick.PlayerID == outgoingID {
			bench[i] = incoming
			return starters, bench
		}
	}
	return starters, bench
}

func rosterLockKey(userID string) string {
	return "roster:" + userID
}

func normalizeIDs(playerIDs []string) ([]string, error) {
	cleaned := make([]string, 0, len(playerIDs))
	for _, playerID := range playerIDs {
		playerID = strings.TrimSpace(playerID)
		if playerID == "" {
			return nil, fmt.Errorf("%w: player id cannot be empty", ErrInvalidInput)
		}
		cleaned = append(cleaned, playerID)
	}

	return cleaned, nil
}

func ensureDistinct(playerIDs []string) error {
	seen := make(map[string]struct{}, len(playerIDs))
	for _, playerID := range playerIDs {
		if _, dup := seen[playerID]; dup {
			return fmt.Errorf("%w: duplicate player id %s", ErrInvalidInput, playerID)
		}
		seen[playerID] = struct{}{}
	}

	return nil
}

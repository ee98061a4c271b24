package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/pitchside/fiveside/internal/domain/roster"
)

// ChipInput activates or cancels a chip for the caller's roster.
type ChipInput struct {
	UserID string
	Kind   roster.ChipKind
}

// UseChip activates a one-shot chip for the current gameweek. Activating a
// Wildcard or Free Hit re-prices transfers already made this week down to
// zero; Free Hit additionally snapshots the squad for restoration at
// rollover.
func (s *RosterService) UseChip(ctx context.Context, input ChipInput) (roster.Roster, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.UseChip")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	if input.UserID == "" {
		return roster.Roster{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if _, ok := roster.AllChips[input.Kind]; !ok {
		return roster.Roster{}, fmt.Errorf("%w: unknown chip %q", ErrInvalidInput, input.Kind)
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

	chips, err := item.Chips.Activate(input.Kind, gw.Number)
	if err != nil {
		return roster.Roster{}, err
	}
	item.Chips = chips

	if input.Kind == roster.ChipFreeHit {
		item.FreeHitSnapshot = item.TakeSnapshot(gw.Number)
	}
	item.Transfers = item.Transfers.Recost(s.rules.TransferPenalty, item.Chips.ActiveFor(gw.Number))
	item.UpdatedAt = s.now().UTC()

	if err := s.rosterRepo.Update(ctx, item); err != nil {
		return roster.Roster{}, fmt.Errorf("update roster: %w", err)
	}

	s.logger.InfoContext(ctx, "chip activated",
		"roster_id", item.ID,
		"chip", string(input.Kind),
		"gameweek", gw.Number,
	)

	return item, nil
}

// CancelChip deactivates the chip armed for the current gameweek and restores
// its season availability. Transfers already made are re-priced as if the chip
// had never been active. Cancelling a Free Hit keeps the current squad and
// discards the stored snapshot.
func (s *RosterService) CancelChip(ctx context.Context, userID string) (roster.Roster, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.CancelChip")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return roster.Roster{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	gw, err := s.requireOpenGameweekValue(ctx)
	if err != nil {
		return roster.Roster{}, err
	}

	unlock := s.locks.Lock(rosterLockKey(userID))
	defer unlock()

	item, exists, err := s.rosterRepo.GetByUserID(ctx, userID)
	if err != nil {
		return roster.Roster{}, fmt.Errorf("get roster: %w", err)
	}
	if !exists {
		return roster.Roster{}, fmt.Errorf("%w: roster not found", ErrNotFound)
	}

	cancelled := item.Chips.Active
	chips, err := item.Chips.Cancel(gw.Number)
	if err != nil {
		return roster.Roster{}, err
	}
	item.Chips = chips

	if cancelled == roster.ChipFreeHit {
		item.FreeHitSnapshot = nil
	}
	item.Transfers = item.Transfers.Recost(s.rules.TransferPenalty, roster.ChipNone)
	item.UpdatedAt = s.now().UTC()

	if err := s.rosterRepo.Update(ctx, item); err != nil {
		return roster.Roster{}, fmt.Errorf("update roster: %w", err)
	}

	s.logger.InfoContext(ctx, "chip cancelled",
		"roster_id", item.ID,
		"chip", string(cancelled),
		"gameweek", gw.Number,
	)

	return item, nil
}

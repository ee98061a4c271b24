package roster

import (
	"errors"
	"testing"
)

func TestChipState_ActivateOncePerSeason(t *testing.T) {
	t.Parallel()

	state, err := ChipState{}.Activate(ChipWildcard, 3)
	if err != nil {
		t.Fatalf("activate wildcard failed: %v", err)
	}
	if !state.WildcardUsed || state.Active != ChipWildcard || state.ActiveGameweek != 3 {
		t.Fatalf("unexpected state after activation: %+v", state)
	}

	// Expired in a later round, the same chip stays burned.
	state = state.Expire()
	if _, err := state.Activate(ChipWildcard, 7); !errors.Is(err, ErrChipAlreadyUsed) {
		t.Fatalf("expected ErrChipAlreadyUsed, got %v", err)
	}
}

func TestChipState_OneActivePerGameweek(t *testing.T) {
	t.Parallel()

	state, err := ChipState{}.Activate(ChipTripleCaptain, 5)
	if err != nil {
		t.Fatalf("activate triple captain failed: %v", err)
	}

	if _, err := state.Activate(ChipBenchBoost, 5); !errors.Is(err, ErrChipConflict) {
		t.Fatalf("expected ErrChipConflict, got %v", err)
	}
}

func TestChipState_CancelRestoresSeasonFlag(t *testing.T) {
	t.Parallel()

	state, err := ChipState{}.Activate(ChipBenchBoost, 2)
	if err != nil {
		t.Fatalf("activate bench boost failed: %v", err)
	}

	state, err = state.Cancel(2)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if state.BenchBoostUsed || state.Active != ChipNone {
		t.Fatalf("cancel should restore the flag and clear the slot: %+v", state)
	}

	// The chip is available again after a pre-lock cancel.
	if _, err := state.Activate(ChipBenchBoost, 4); err != nil {
		t.Fatalf("re-activation after cancel failed: %v", err)
	}
}

func TestChipState_CancelWithoutActive(t *testing.T) {
	t.Parallel()

	if _, err := (ChipState{}).Cancel(1); !errors.Is(err, ErrNoActiveChip) {
		t.Fatalf("expected ErrNoActiveChip, got %v", err)
	}

	state, err := ChipState{}.Activate(ChipFreeHit, 3)
	if err != nil {
		t.Fatalf("activate free hit failed: %v", err)
	}
	if _, err := state.Cancel(4); !errors.Is(err, ErrNoActiveChip) {
		t.Fatalf("cancel for a different gameweek should fail, got %v", err)
	}
}

func TestChipState_ExpireKeepsUsedFlags(t *testing.T) {
	t.Parallel()

	state, err := ChipState{}.Activate(ChipFreeHit, 6)
	if err != nil {
		t.Fatalf("activate free hit failed: %v", err)
	}

	state = state.Expire()
	if state.Active != ChipNone || state.ActiveGameweek != 0 {
		t.Fatalf("expire should clear the active slot: %+v", state)
	}
	if !state.FreeHitUsed {
		t.Fatal("expire must not refund the season flag")
	}
}

func TestChipState_ActiveFor(t *testing.T) {
	t.Parallel()

	state, err := ChipState{}.Activate(ChipTripleCaptain, 9)
	if err != nil {
		t.Fatalf("activate failed: %v", err)
	}

	if got := state.ActiveFor(9); got != ChipTripleCaptain {
		t.Fatalf("expected triple captain active for gw 9, got %q", got)
	}
	if got := state.ActiveFor(10); got != ChipNone {
		t.Fatalf("expected no chip for gw 10, got %q", got)
	}
}

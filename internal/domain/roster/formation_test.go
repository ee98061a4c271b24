package roster

import (
	"errors"
	"testing"

	"github.com/pitchside/fiveside/internal/domain/player"
)

func validStarters() []Pick {
	return []Pick{
		{PlayerID: "gk-1", Position: player.PositionGoalkeeper, Price: 100},
		{PlayerID: "hm-1", Position: player.PositionHoldingMid, Price: 90},
		{PlayerID: "hm-2", Position: player.PositionHoldingMid, Price: 85},
		{PlayerID: "lw-1", Position: player.PositionLeftWing, Price: 110},
		{PlayerID: "rw-1", Position: player.PositionRightWing, Price: 105},
	}
}

func validBench() []Pick {
	return []Pick{
		{PlayerID: "gk-2", Position: player.PositionGoalkeeper, Price: 70},
		{PlayerID: "lw-2", Position: player.PositionLeftWing, Price: 75},
	}
}

func TestValidateFormation_Valid(t *testing.T) {
	t.Parallel()

	if err := ValidateFormation(validStarters(), validBench()); err != nil {
		t.Fatalf("expected valid formation, got %v", err)
	}
}

func TestValidateFormation_WrongStarterCount(t *testing.T) {
	t.Parallel()

	err := ValidateFormation(validStarters()[:4], validBench())
	if !errors.Is(err, ErrFormationInvalid) {
		t.Fatalf("expected ErrFormationInvalid, got %v", err)
	}
}

func TestValidateFormation_WrongPositionMix(t *testing.T) {
	t.Parallel()

	starters := validStarters()
	// Second goalkeeper displaces the right wing.
	starters[4] = Pick{PlayerID: "gk-3", Position: player.PositionGoalkeeper, Price: 60}

	err := ValidateFormation(starters, validBench())
	if !errors.Is(err, ErrFormationInvalid) {
		t.Fatalf("expected ErrFormationInvalid, got %v", err)
	}
}

func TestValidateFormation_BenchComposition(t *testing.T) {
	t.Parallel()

	bench := []Pick{
		{PlayerID: "gk-2", Position: player.PositionGoalkeeper, Price: 70},
		{PlayerID: "hm-3", Position: player.PositionHoldingMid, Price: 65},
	}

	err := ValidateFormation(validStarters(), bench)
	if !errors.Is(err, ErrFormationInvalid) {
		t.Fatalf("expected ErrFormationInvalid for two defensive subs, got %v", err)
	}

	bench = []Pick{
		{PlayerID: "hm-3", Position: player.PositionHoldingMid, Price: 65},
		{PlayerID: "rw-2", Position: player.PositionRightWing, Price: 80},
	}
	if err := ValidateFormation(validStarters(), bench); err != nil {
		t.Fatalf("holding mid is a valid defensive sub, got %v", err)
	}
}

func TestValidateFormation_DuplicatePlayer(t *testing.T) {
	t.Parallel()

	bench := validBench()
	bench[1].PlayerID = "lw-1"

	err := ValidateFormation(validStarters(), bench)
	if !errors.Is(err, ErrFormationInvalid) {
		t.Fatalf("expected ErrFormationInvalid for duplicate player, got %v", err)
	}
}

func TestValidateFormation_UnknownPosition(t *testing.T) {
	t.Parallel()

	starters := validStarters()
	starters[1].Position = player.Position("CB")

	err := ValidateFormation(starters, validBench())
	if !errors.Is(err, ErrFormationInvalid) {
		t.Fatalf("expected ErrFormationInvalid for unknown position, got %v", err)
	}
}

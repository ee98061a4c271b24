package roster

import (
	"errors"
	"testing"
)

func TestSquadValue(t *testing.T) {
	t.Parallel()

	got := SquadValue(validStarters(), validBench())
	if got != 635 {
		t.Fatalf("expected squad value 635, got %d", got)
	}
}

func TestCheckAffordable(t *testing.T) {
	t.Parallel()

	// Selling at 80 and buying at 120 on a 980 squad stays within 1000 only
	// because the sale credits first.
	if err := CheckAffordable(960, 80, 120, 1000); err != nil {
		t.Fatalf("swap within cap should pass, got %v", err)
	}

	err := CheckAffordable(980, 80, 120, 1000)
	if !errors.Is(err, ErrBudgetExceeded) {
		t.Fatalf("expected ErrBudgetExceeded, got %v", err)
	}

	// Downgrades always pass.
	if err := CheckAffordable(1000, 120, 80, 1000); err != nil {
		t.Fatalf("downgrade should pass at the cap, got %v", err)
	}
}

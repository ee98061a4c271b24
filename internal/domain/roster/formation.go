package roster

import (
	"fmt"

	"github.com/pitchside/fiveside/internal/domain/player"
)

const (
	StarterSize = 5
	BenchSize   = 2

	starterGoalkeepers = 1
	starterHoldingMids = 2
	starterLeftWings   = 1
	starterRightWings  = 1

	benchDefensive = 1
	benchAttacking = 1
)

// ValidateFormation checks positional composition only: exactly one goalkeeper,
// two holding midfielders and one of each wing among starters, and one
// defensive-type plus one attacking-type substitute. Captaincy is validated
// separately against the starter set. Pure, no side effects.
func ValidateFormation(starters, bench []Pick) error {
	if len(starters) != StarterSize {
		return fmt.Errorf("%w: starters must contain exactly %d players, got %d", ErrFormationInvalid, StarterSize, len(starters))
	}
	if len(bench) != BenchSize {
		return fmt.Errorf("%w: bench must contain exactly %d players, got %d", ErrFormationInvalid, BenchSize, len(bench))
	}

	counts := make(map[player.Position]int, len(player.AllPositions))
	for _, pick := range starters {
		if _, ok := player.AllPositions[pick.Position]; !ok {
			return fmt.Errorf("%w: unknown starter position %s", ErrFormationInvalid, pick.Position)
		}
		counts[pick.Position]++
	}

	required := map[player.Position]int{
		player.PositionGoalkeeper: starterGoalkeepers,
		player.PositionHoldingMid: starterHoldingMids,
		player.PositionLeftWing:   starterLeftWings,
		player.PositionRightWing:  starterRightWings,
	}
	for pos, want := range required {
		if counts[pos] != want {
			return fmt.Errorf("%w: starters need %d %s, got %d", ErrFormationInvalid, want, pos, counts[pos])
		}
	}

	defensive := 0
	attacking := 0
	for _, pick := range bench {
		switch {
		case pick.Position.Defensive():
			defensive++
		case pick.Position.Attacking():
			attacking++
		default:
			return fmt.Errorf("%w: unknown bench position %s", ErrFormationInvalid, pick.Position)
		}
	}
	if defensive != benchDefensive || attacking != benchAttacking {
		return fmt.Errorf("%w: bench needs %d defensive and %d attacking player, got %d/%d",
			ErrFormationInvalid, benchDefensive, benchAttacking, defensive, attacking)
	}

	seen := make(map[string]struct{}, len(starters)+len(bench))
	for _, pick := range append(clonePicks(starters), bench...) {
		if pick.PlayerID == "" {
			return fmt.Errorf("%w: pick player id is required", ErrFormationInvalid)
		}
		if _, dup := seen[pick.PlayerID]; dup {
			return fmt.Errorf("%w: duplicate player %s", ErrFormationInvalid, pick.PlayerID)
		}
		seen[pick.PlayerID] = struct{}{}
	}

	return nil
}

package player

import "fmt"

// Position represents the five-a-side position categories used in roster rules.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionHoldingMid Position = "HM"
	PositionLeftWing   Position = "LW"
	PositionRightWing  Position = "RW"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionHoldingMid: {},
	PositionLeftWing:   {},
	PositionRightWing:  {},
}

// Defensive reports whether the position earns clean-sheet and save credit.
func (p Position) Defensive() bool {
	return p == PositionGoalkeeper || p == PositionHoldingMid
}

// Attacking reports whether the position is one of the two wing slots.
func (p Position) Attacking() bool {
	return p == PositionLeftWing || p == PositionRightWing
}

// Player is a selectable athlete in the game pool. OwnerRosterID is empty while
// the player is unowned; at most one roster may own a player at any time.
type Player struct {
	ID            string
	Name          string
	Position      Position
	Price         int64
	Rating        int
	OwnerRosterID string
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}
	if p.Price <= 0 {
		return fmt.Errorf("player price must be greater than zero")
	}

	return nil
}

package roster

import (
	"fmt"
	"time"

	"github.com/pitchside/fiveside/internal/domain/player"
)

// Pick is one selected player on a roster. Price is the price paid into the
// squad value at selection or transfer time; the ledger always settles swaps
// against the player's current market price.
type Pick struct {
	PlayerID string
	Position player.Position
	Price    int64
}

// Snapshot captures roster membership and captaincy so Free Hit can restore
// the pre-activation squad at the next gameweek rollover.
type Snapshot struct {
	Gameweek      int
	Starters      []Pick
	Bench         []Pick
	CaptainID     string
	ViceCaptainID string
}

// Roster is one user's squad. Exactly one roster exists per user for a season.
// Version backs the optimistic concurrency check in the repository.
type Roster struct {
	ID            string
	UserID        string
	Name          string
	Starters      []Pick
	Bench         []Pick
	CaptainID     string
	ViceCaptainID string
	BudgetCap     int64

	Transfers       TransferState
	Chips           ChipState
	FreeHitSnapshot *Snapshot

	GameweekPoints int
	TotalPoints    int

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r Roster) ValidateBasic() error {
	if r.ID == "" {
		return fmt.Errorf("roster id is required")
	}
	if r.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	if r.Name == "" {
		return fmt.Errorf("roster name is required")
	}
	if r.BudgetCap <= 0 {
		return fmt.Errorf("budget cap must be greater than zero")
	}
	if len(r.Starters) == 0 || len(r.Bench) == 0 {
		return fmt.Errorf("roster picks are required")
	}

	return nil
}

// SquadValue is the sum of the current prices of every rostered player.
func (r Roster) SquadValue() int64 {
	return SquadValue(r.Starters, r.Bench)
}

// PlayerIDs returns starters followed by bench, in pick order.
func (r Roster) PlayerIDs() []string {
	ids := make([]string, 0, len(r.Starters)+len(r.Bench))
	for _, pick := range r.Starters {
		ids = append(ids, pick.PlayerID)
	}
	for _, pick := range r.Bench {
		ids = append(ids, pick.PlayerID)
	}

	return ids
}

// IsStarter reports whether the player is in the active scoring lineup.
func (r Roster) IsStarter(playerID string) bool {
	for _, pick := range r.Starters {
		if pick.PlayerID == playerID {
			return true
		}
	}
	return false
}

// HasPlayer reports whether the player is rostered as starter or substitute.
func (r Roster) HasPlayer(playerID string) bool {
	if r.IsStarter(playerID) {
		return true
	}
	for _, pick := range r.Bench {
		if pick.PlayerID == playerID {
			return true
		}
	}
	return false
}

// TakeSnapshot copies the current membership and captaincy.
func (r Roster) TakeSnapshot(gameweek int) *Snapshot {
	return &Snapshot{
		Gameweek:      gameweek,
		Starters:      clonePicks(r.Starters),
		Bench:         clonePicks(r.Bench),
		CaptainID:     r.CaptainID,
		ViceCaptainID: r.ViceCaptainID,
	}
}

// RestoreSnapshot replaces membership and captaincy from the snapshot.
func (r *Roster) RestoreSnapshot(snapshot *Snapshot) {
	if snapshot == nil {
		return
	}
	r.Starters = clonePicks(snapshot.Starters)
	r.Bench = clonePicks(snapshot.Bench)
	r.CaptainID = snapshot.CaptainID
	r.ViceCaptainID = snapshot.ViceCaptainID
}

func clonePicks(picks []Pick) []Pick {
	return append([]Pick(nil), picks...)
}

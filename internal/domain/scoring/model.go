package scoring

import "time"

// Status reports the outcome of a scoring attempt. Pending is not an error:
// the batch retries the roster on the next scheduling tick.
type Status string

const (
	StatusScored  Status = "scored"
	StatusPending Status = "pending"
)

// GameweekScore is the persisted result of scoring one roster for one round.
// Once committed the point values are append-only; Settled flips to true only
// after the points have been credited to the roster totals, so a crash between
// the two writes is repaired on the next scoring pass.
type GameweekScore struct {
	RosterID     string
	Gameweek     int
	Points       int
	TransferCost int
	TotalPoints  int
	Settled      bool
	CalculatedAt time.Time
}

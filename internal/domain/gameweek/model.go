package gameweek

import (
	"context"
	"errors"
	"time"
)

// State is the lifecycle of one scoring round. Roster, chip and captaincy
// mutations are only accepted while the round is open; scoring runs against
// locked rounds; archiving triggers transfer rollover and Free Hit reversion.
type State string

const (
	StateOpen     State = "open"
	StateLocked   State = "locked"
	StateScored   State = "scored"
	StateArchived State = "archived"
)

var (
	ErrNotLocked    = errors.New("gameweek is not locked yet")
	ErrNotScored    = errors.New("gameweek is not scored yet")
	ErrNoNextRound  = errors.New("no next gameweek in the schedule")
	ErrUnknownRound = errors.New("unknown gameweek")
)

// Gameweek is a monotonically increasing round with a lock time. LockAt is a
// fixed lead before the round's first kickoff; after it passes every mutating
// operation is rejected regardless of whether scoring has run yet.
type Gameweek struct {
	Number int
	LockAt time.Time
	State  State
}

// Open reports whether roster mutations are still permitted.
func (g Gameweek) Open() bool {
	return g.State == StateOpen
}

// Provider is the shared gameweek clock. Roster edits and the scoring batch
// must agree on a single current round; all lock decisions flow through it.
type Provider interface {
	Current(ctx context.Context) (Gameweek, error)
	MarkScored(ctx context.Context, number int) error

	// HasNext reports whether a round follows the current one in the schedule.
	HasNext(ctx context.Context) (bool, error)

	// Advance archives the current round and opens the next one. It fails with
	// ErrNotScored when scoring has not completed for the current round.
	Advance(ctx context.Context) (Gameweek, error)
}

package player

import (
	"context"
	"errors"
)

// ErrAlreadyOwned is returned when an ownership claim targets a player that is
// already owned by a different roster.
var ErrAlreadyOwned = errors.New("player already owned by another roster")

// Repository describes player persistence needs from use cases. Ownership
// mutations are all-or-nothing; a failed claim leaves no player reassigned.
type Repository interface {
	List(ctx context.Context) ([]Player, error)
	GetByIDs(ctx context.Context, playerIDs []string) ([]Player, error)

	// ClaimOwners assigns every listed player to the roster, failing with
	// ErrAlreadyOwned if any of them is owned by someone else.
	ClaimOwners(ctx context.Context, rosterID string, playerIDs []string) error

	// SwapOwners releases outgoing and claims incoming for the roster in one step.
	SwapOwners(ctx context.Context, rosterID, outgoingID, incomingID string) error

	// ReplaceOwners releases every player currently owned by the roster and
	// claims the listed players instead. Used by the Free Hit reversion.
	ReplaceOwners(ctx context.Context, rosterID string, playerIDs []string) error
}

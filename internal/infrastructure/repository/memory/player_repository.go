package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/pitchside/fiveside/internal/domain/player"
)

type PlayerRepository struct {
	mu    sync.RWMutex
	items map[string]player.Player
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	items := make(map[string]player.Player, len(players))
	for _, p := range players {
		items[p.ID] = p
	}

	return &PlayerRepository{items: items}
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

// GetByIDs returns the players that exist; unknown ids are skipped.
func (r *PlayerRepository) GetByIDs(_ context.Context, playerIDs []string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		if p, ok := r.items[id]; ok {
			out = append(out, p)
		}
	}

	return out, nil
}

func (r *PlayerRepository) ClaimOwners(_ context.Context, rosterID string, playerIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range playerIDs {
		p, ok := r.items[id]
		if !ok {
			return fmt.Errorf("player %s does not exist", id)
		}
		if p.OwnerRosterID != "" && p.OwnerRosterID != rosterID {
			return fmt.Errorf("%w: player=%s owner=%s", player.ErrAlreadyOwned, id, p.OwnerRosterID)
		}
	}
	for _, id := range playerIDs {
		p := r.items[id]
		p.OwnerRosterID = rosterID
		r.items[id] = p
	}

	return nil
}

func (r *PlayerRepository) SwapOwners(_ context.Context, rosterID, outgoingID, incomingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	outgoing, ok := r.items[outgoingID]
	if !ok {
		return fmt.Errorf("player %s does not exist", outgoingID)
	}
	incoming, ok := r.items[incomingID]
	if !ok {
		return fmt.Errorf("player %s does not exist", incomingID)
	}
	if outgoing.OwnerRosterID != rosterID {
		return fmt.Errorf("player %s is not owned by roster %s", outgoingID, rosterID)
	}
	if incoming.OwnerRosterID != "" {
		return fmt.Errorf("%w: player=%s owner=%s", player.ErrAlreadyOwned, incomingID, incoming.OwnerRosterID)
	}

	outgoing.OwnerRosterID = ""
	incoming.OwnerRosterID = rosterID
	r.items[outgoingID] = outgoing
	r.items[incomingID] = incoming

	return nil
}

func (r *PlayerRepository) ReplaceOwners(_ context.Context, rosterID string, playerIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make(map[string]struct{}, len(playerIDs))
	for _, id := range playerIDs {
		p, ok := r.items[id]
		if !ok {
			return fmt.Errorf("player %s does not exist", id)
		}
		if p.OwnerRosterID != "" && p.OwnerRosterID != rosterID {
			return fmt.Errorf("%w: player=%s owner=%s", player.ErrAlreadyOwned, id, p.OwnerRosterID)
		}
		next[id] = struct{}{}
	}

	for id, p := range r.items {
		if p.OwnerRosterID == rosterID {
			if _, keep := next[id]; !keep {
				p.OwnerRosterID = ""
				r.items[id] = p
			}
		}
	}
	for id := range next {
		p := r.items[id]
		p.OwnerRosterID = rosterID
		r.items[id] = p
	}

	return nil
}

// SetPrice updates a player's market price. Ingestion uses it to apply feed
// price movements.
func (r *PlayerRepository) SetPrice(_ context.Context, playerID string, price int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[playerID]
	if !ok {
		return fmt.Errorf("player %s does not exist", playerID)
	}
	p.Price = price
	r.items[playerID] = p

	return nil
}

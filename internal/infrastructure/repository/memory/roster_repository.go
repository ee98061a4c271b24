package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/pitchside/fiveside/internal/domain/roster"
)

type RosterRepository struct {
	mu     sync.RWMutex
	items  map[string]roster.Roster
	byUser map[string]string
}

func NewRosterRepository() *RosterRepository {
	return &RosterRepository{
		items:  make(map[string]roster.Roster),
		byUser: make(map[string]string),
	}
}

func (r *RosterRepository) Create(_ context.Context, item roster.Roster) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf("%w: id=%s", roster.ErrAlreadyExists, item.ID)
	}
	if _, exists := r.byUser[item.UserID]; exists {
		return fmt.Errorf("%w: user=%s", roster.ErrAlreadyExists, item.UserID)
	}

	r.items[item.ID] = cloneRoster(item)
	r.byUser[item.UserID] = item.ID
	return nil
}

func (r *RosterRepository) GetByID(_ context.Context, id string) (roster.Roster, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return roster.Roster{}, false, nil
	}

	return cloneRoster(item), true, nil
}

func (r *RosterRepository) GetByUserID(_ context.Context, userID string) (roster.Roster, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUser[userID]
	if !ok {
		return roster.Roster{}, false, nil
	}

	return cloneRoster(r.items[id]), true, nil
}

func (r *RosterRepository) List(_ context.Context) ([]roster.Roster, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]roster.Roster, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, cloneRoster(item))
	}

	return out, nil
}

// Update stores the roster only when the caller holds the current version,
// then bumps Version by one.
func (r *RosterRepository) Update(_ context.Context, item roster.Roster) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[item.ID]
	if !ok {
		return fmt.Errorf("roster %s does not exist", item.ID)
	}
	if stored.Version != item.Version {
		return fmt.Errorf("%w: have=%d want=%d", roster.ErrVersionConflict, item.Version, stored.Version)
	}

	item.Version++
	r.items[item.ID] = cloneRoster(item)
	return nil
}

func cloneRoster(item roster.Roster) roster.Roster {
	copied := item
	copied.Starters = append([]roster.Pick(nil), item.Starters...)
	copied.Bench = append([]roster.Pick(nil), item.Bench...)
	if item.FreeHitSnapshot != nil {
		snapshot := *item.FreeHitSnapshot
		snapshot.Starters = append([]roster.Pick(nil), item.FreeHitSnapshot.Starters...)
		snapshot.Bench = append([]roster.Pick(nil), item.FreeHitSnapshot.Bench...)
		copied.FreeHitSnapshot = &snapshot
	}

	return copied
}

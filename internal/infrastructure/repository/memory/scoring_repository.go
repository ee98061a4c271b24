package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/pitchside/fiveside/internal/domain/scoring"
)

type ScoringRepository struct {
	mu    sync.RWMutex
	items map[scoreKey]scoring.GameweekScore
}

type scoreKey struct {
	rosterID string
	gameweek int
}

func NewScoringRepository() *ScoringRepository {
	return &ScoringRepository{items: make(map[scoreKey]scoring.GameweekScore)}
}

func (r *ScoringRepository) Upsert(_ context.Context, score scoring.GameweekScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[scoreKey{rosterID: score.RosterID, gameweek: score.Gameweek}] = score
	return nil
}

func (r *ScoringRepository) Get(_ context.Context, rosterID string, gameweek int) (scoring.GameweekScore, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	score, ok := r.items[scoreKey{rosterID: rosterID, gameweek: gameweek}]
	if !ok {
		return scoring.GameweekScore{}, false, nil
	}

	return score, true, nil
}

func (r *ScoringRepository) ListByGameweek(_ context.Context, gameweek int) ([]scoring.GameweekScore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]scoring.GameweekScore, 0)
	for key, score := range r.items {
		if key.gameweek == gameweek {
			out = append(out, score)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RosterID < out[j].RosterID })

	return out, nil
}

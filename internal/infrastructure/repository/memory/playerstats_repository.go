package memory

import (
	"context"
	"sync"

	"github.com/pitchside/fiveside/internal/domain/playerstats"
)

type PlayerStatsRepository struct {
	mu        sync.RWMutex
	byWeek    map[int]map[string]playerstats.GameweekStats
	finalized map[int]bool
	season    map[string]playerstats.SeasonStats
}

func NewPlayerStatsRepository() *PlayerStatsRepository {
	return &PlayerStatsRepository{
		byWeek:    make(map[int]map[string]playerstats.GameweekStats),
		finalized: make(map[int]bool),
		season:    make(map[string]playerstats.SeasonStats),
	}
}

func (r *PlayerStatsRepository) UpsertGameweek(_ context.Context, gameweek int, stats []playerstats.GameweekStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	week, ok := r.byWeek[gameweek]
	if !ok {
		week = make(map[string]playerstats.GameweekStats, len(stats))
		r.byWeek[gameweek] = week
	}
	for _, st := range stats {
		st.Gameweek = gameweek
		week[st.PlayerID] = st
	}

	return nil
}

func (r *PlayerStatsRepository) MarkFinalized(_ context.Context, gameweek int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.finalized[gameweek] = true

	// Finalized figures also settle the season counting stats.
	for _, st := range r.byWeek[gameweek] {
		season := r.season[st.PlayerID]
		season.PlayerID = st.PlayerID
		if st.Played {
			season.Appearances++
		}
		season.Goals += st.Goals
		season.Assists += st.Assists
		season.Saves += st.Saves
		season.OwnGoals += st.OwnGoals
		if st.CleanSheet {
			season.CleanSheets++
		}
		r.season[st.PlayerID] = season
	}

	return nil
}

func (r *PlayerStatsRepository) Finalized(_ context.Context, gameweek int) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.finalized[gameweek], nil
}

func (r *PlayerStatsRepository) GetByGameweek(_ context.Context, gameweek int) (map[string]playerstats.GameweekStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	week := r.byWeek[gameweek]
	out := make(map[string]playerstats.GameweekStats, len(week))
	for id, st := range week {
		out[id] = st
	}

	return out, nil
}

func (r *PlayerStatsRepository) GetSeasonStats(_ context.Context, playerID string) (playerstats.SeasonStats, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	season, ok := r.season[playerID]
	if !ok {
		return playerstats.SeasonStats{}, false, nil
	}

	return season, true, nil
}

func (r *PlayerStatsRepository) AddSeasonPoints(_ context.Context, pointsByPlayer map[string]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for playerID, points := range pointsByPlayer {
		season := r.season[playerID]
		season.PlayerID = playerID
		season.TotalPoints += points
		r.season[playerID] = season
	}

	return nil
}

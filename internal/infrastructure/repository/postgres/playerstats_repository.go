package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pitchside/fiveside/internal/domain/playerstats"
)

type gameweekStatsRowModel struct {
	PlayerID   string `db:"player_public_id"`
	Gameweek   int    `db:"gameweek"`
	Goals      int    `db:"goals"`
	Assists    int    `db:"assists"`
	Saves      int    `db:"saves"`
	OwnGoals   int    `db:"own_goals"`
	CleanSheet bool   `db:"clean_sheet"`
	Played     bool   `db:"played"`
}

type seasonStatsRowModel struct {
	PlayerID    string `db:"player_public_id"`
	Appearances int    `db:"appearances"`
	Goals       int    `db:"goals"`
	Assists     int    `db:"assists"`
	Saves       int    `db:"saves"`
	CleanSheets int    `db:"clean_sheets"`
	OwnGoals    int    `db:"own_goals"`
	TotalPoints int    `db:"total_points"`
}

type PlayerStatsRepository struct {
	db *sqlx.DB
}

func NewPlayerStatsRepository(db *sqlx.DB) *PlayerStatsRepository {
	return &PlayerStatsRepository{db: db}
}

func (r *PlayerStatsRepository) UpsertGameweek(ctx context.Context, gameweek int, stats []playerstats.GameweekStats) error {
	if len(stats) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for stats upsert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const query = `
INSERT INTO player_gameweek_stats (
    player_public_id, gameweek, goals, assists, saves, own_goals, clean_sheet, played
) VALUES (:player_public_id, :gameweek, :goals, :assists, :saves, :own_goals, :clean_sheet, :played)
ON CONFLICT (player_public_id, gameweek)
DO UPDATE SET
    goals = EXCLUDED.goals,
    assists = EXCLUDED.assists,
    saves = EXCLUDED.saves,
    own_goals = EXCLUDED.own_goals,
    clean_sheet = EXCLUDED.clean_sheet,
    played = EXCLUDED.played,
    updated_at = NOW()`

	for _, st := range stats {
		statSQL, statArgs, err := sqlx.Named(query, map[string]any{
			"player_public_id": st.PlayerID,
			"gameweek":         gameweek,
			"goals":            st.Goals,
			"assists":          st.Assists,
			"saves":            st.Saves,
			"own_goals":        st.OwnGoals,
			"clean_sheet":      st.CleanSheet,
			"played":           st.Played,
		})
		if err != nil {
			return fmt.Errorf("bind upsert stats player=%s query: %w", st.PlayerID, err)
		}
		statSQL = tx.Rebind(statSQL)
		if _, err := tx.ExecContext(ctx, statSQL, statArgs...); err != nil {
			return fmt.Errorf("upsert stats player=%s: %w", st.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit stats upsert tx: %w", err)
	}

	return nil
}

func (r *PlayerStatsRepository) MarkFinalized(ctx context.Context, gameweek int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for finalize: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const markQuery = `
INSERT INTO stat_rounds (gameweek, finalized)
VALUES ($1, TRUE)
ON CONFLICT (gameweek)
DO UPDATE SET finalized = TRUE, updated_at = NOW()`
	if _, err := tx.ExecContext(ctx, markQuery, gameweek); err != nil {
		return fmt.Errorf("mark round finalized: %w", err)
	}

	// Finalized figures settle the season counting stats in the same tx.
	const rollupQuery = `
INSERT INTO player_season_stats (
    player_public_id, appearances, goals, assists, saves, clean_sheets, own_goals, total_points
)
SELECT player_public_id,
       CASE WHEN played THEN 1 ELSE 0 END,
       goals, assists, saves,
       CASE WHEN clean_sheet THEN 1 ELSE 0 END,
       own_goals, 0
FROM player_gameweek_stats
WHERE gameweek = $1
ON CONFLICT (player_public_id)
DO UPDATE SET
    appearances = player_season_stats.appearances + EXCLUDED.appearances,
    goals = player_season_stats.goals + EXCLUDED.goals,
    assists = player_season_stats.assists + EXCLUDED.assists,
    saves = player_season_stats.saves + EXCLUDED.saves,
    clean_sheets = player_season_stats.clean_sheets + EXCLUDED.clean_sheets,
    own_goals = player_season_stats.own_goals + EXCLUDED.own_goals,
    updated_at = NOW()`
	if _, err := tx.ExecContext(ctx, rollupQuery, gameweek); err != nil {
		return fmt.Errorf("roll up season stats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit finalize tx: %w", err)
	}

	return nil
}

func (r *PlayerStatsRepository) Finalized(ctx context.Context, gameweek int) (bool, error) {
	const query = `
SELECT finalized
FROM stat_rounds
WHERE gameweek = $1`

	var finalized bool
	if err := r.db.GetContext(ctx, &finalized, query, gameweek); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("get round finality: %w", err)
	}

	return finalized, nil
}

func (r *PlayerStatsRepository) GetByGameweek(ctx context.Context, gameweek int) (map[string]playerstats.GameweekStats, error) {
	const query = `
SELECT player_public_id, gameweek, goals, assists, saves, own_goals, clean_sheet, played
FROM player_gameweek_stats
WHERE gameweek = $1`

	var rows []gameweekStatsRowModel
	if err := r.db.SelectContext(ctx, &rows, query, gameweek); err != nil {
		return nil, fmt.Errorf("list gameweek stats: %w", err)
	}

	out := make(map[string]playerstats.GameweekStats, len(rows))
	for _, row := range rows {
		out[row.PlayerID] = playerstats.GameweekStats{
			PlayerID:   row.PlayerID,
			Gameweek:   row.Gameweek,
			Goals:      row.Goals,
			Assists:    row.Assists,
			Saves:      row.Saves,
			OwnGoals:   row.OwnGoals,
			CleanSheet: row.CleanSheet,
			Played:     row.Played,
		}
	}

	return out, nil
}

func (r *PlayerStatsRepository) GetSeasonStats(ctx context.Context, playerID string) (playerstats.SeasonStats, bool, error) {
	const query = `
SELECT player_public_id, appearances, goals, assists, saves, clean_sheets, own_goals, total_points
FROM player_season_stats
WHERE player_public_id = $1`

	var row seasonStatsRowModel
	if err := r.db.GetContext(ctx, &row, query, playerID); err != nil {
		if isNotFound(err) {
			return playerstats.SeasonStats{}, false, nil
		}
		return playerstats.SeasonStats{}, false, fmt.Errorf("get season stats: %w", err)
	}

	return playerstats.SeasonStats{
		PlayerID:    row.PlayerID,
		Appearances: row.Appearances,
		Goals:       row.Goals,
		Assists:     row.Assists,
		Saves:       row.Saves,
		CleanSheets: row.CleanSheets,
		OwnGoals:    row.OwnGoals,
		TotalPoints: row.TotalPoints,
	}, true, nil
}

func (r *PlayerStatsRepository) AddSeasonPoints(ctx context.Context, pointsByPlayer map[string]int) error {
	if len(pointsByPlayer) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for season points: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const query = `
INSERT INTO player_season_stats (player_public_id, total_points)
VALUES ($1, $2)
ON CONFLICT (player_public_id)
DO UPDATE SET
    total_points = player_season_stats.total_points + EXCLUDED.total_points,
    updated_at = NOW()`

	for playerID, points := range pointsByPlayer {
		if _, err := tx.ExecContext(ctx, query, playerID, points); err != nil {
			return fmt.Errorf("add season points player=%s: %w", playerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit season points tx: %w", err)
	}

	return nil
}

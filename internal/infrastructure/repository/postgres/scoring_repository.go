package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pitchside/fiveside/internal/domain/scoring"
)

type gameweekScoreRowModel struct {
	RosterID     string    `db:"roster_public_id"`
	Gameweek     int       `db:"gameweek"`
	Points       int       `db:"points"`
	TransferCost int       `db:"transfer_cost"`
	TotalPoints  int       `db:"total_points"`
	Settled      bool      `db:"settled"`
	CalculatedAt time.Time `db:"calculated_at"`
}

type ScoringRepository struct {
	db *sqlx.DB
}

func NewScoringRepository(db *sqlx.DB) *ScoringRepository {
	return &ScoringRepository{db: db}
}

func (r *ScoringRepository) Upsert(ctx context.Context, score scoring.GameweekScore) error {
	const query = `
INSERT INTO gameweek_scores (
    roster_public_id, gameweek, points, transfer_cost, total_points, settled, calculated_at
) VALUES (:roster_public_id, :gameweek, :points, :transfer_cost, :total_points, :settled, :calculated_at)
ON CONFLICT (roster_public_id, gameweek)
DO UPDATE SET
    points = EXCLUDED.points,
    transfer_cost = EXCLUDED.transfer_cost,
    total_points = EXCLUDED.total_points,
    settled = EXCLUDED.settled,
    calculated_at = EXCLUDED.calculated_at`

	scoreSQL, scoreArgs, err := sqlx.Named(query, map[string]any{
		"roster_public_id": score.RosterID,
		"gameweek":         score.Gameweek,
		"points":           score.Points,
		"transfer_cost":    score.TransferCost,
		"total_points":     score.TotalPoints,
		"settled":          score.Settled,
		"calculated_at":    score.CalculatedAt,
	})
	if err != nil {
		return fmt.Errorf("bind upsert score query: %w", err)
	}
	scoreSQL = r.db.Rebind(scoreSQL)
	if _, err := r.db.ExecContext(ctx, scoreSQL, scoreArgs...); err != nil {
		return fmt.Errorf("upsert gameweek score: %w", err)
	}

	return nil
}

func (r *ScoringRepository) Get(ctx context.Context, rosterID string, gameweek int) (scoring.GameweekScore, bool, error) {
	const query = `
SELECT roster_public_id, gameweek, points, transfer_cost, total_points, settled, calculated_at
FROM gameweek_scores
WHERE roster_public_id = $1
  AND gameweek = $2`

	var row gameweekScoreRowModel
	if err := r.db.GetContext(ctx, &row, query, rosterID, gameweek); err != nil {
		if isNotFound(err) {
			return scoring.GameweekScore{}, false, nil
		}
		return scoring.GameweekScore{}, false, fmt.Errorf("get gameweek score: %w", err)
	}

	return toScore(row), true, nil
}

func (r *ScoringRepository) ListByGameweek(ctx context.Context, gameweek int) ([]scoring.GameweekScore, error) {
	const query = `
SELECT roster_public_id, gameweek, points, transfer_cost, total_points, settled, calculated_at
FROM gameweek_scores
WHERE gameweek = $1
ORDER BY total_points DESC, roster_public_id`

	var rows []gameweekScoreRowModel
	if err := r.db.SelectContext(ctx, &rows, query, gameweek); err != nil {
		return nil, fmt.Errorf("list gameweek scores: %w", err)
	}

	out := make([]scoring.GameweekScore, 0, len(rows))
	for _, row := range rows {
		out = append(out, toScore(row))
	}

	return out, nil
}

func toScore(row gameweekScoreRowModel) scoring.GameweekScore {
	return scoring.GameweekScore{
		RosterID:     row.RosterID,
		Gameweek:     row.Gameweek,
		Points:       row.Points,
		TransferCost: row.TransferCost,
		TotalPoints:  row.TotalPoints,
		Settled:      row.Settled,
		CalculatedAt: row.CalculatedAt,
	}
}

package scoring

import "context"

type Repository interface {
	Upsert(ctx context.Context, score GameweekScore) error
	Get(ctx context.Context, rosterID string, gameweek int) (GameweekScore, bool, error)
	ListByGameweek(ctx context.Context, gameweek int) ([]GameweekScore, error)
}

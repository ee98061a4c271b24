package playerstats

import "context"

// Repository stores ingested stat records. A gameweek's records only feed
// scoring once the round is marked finalized by the feed.
type Repository interface {
	UpsertGameweek(ctx context.Context, gameweek int, stats []GameweekStats) error
	MarkFinalized(ctx context.Context, gameweek int) error
	Finalized(ctx context.Context, gameweek int) (bool, error)
	GetByGameweek(ctx context.Context, gameweek int) (map[string]GameweekStats, error)
	GetSeasonStats(ctx context.Context, playerID string) (SeasonStats, bool, error)
	AddSeasonPoints(ctx context.Context, pointsByPlayer map[string]int) error
}

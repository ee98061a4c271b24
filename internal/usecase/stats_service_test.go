package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/pitchside/fiveside/internal/domain/playerstats"
	"github.com/pitchside/fiveside/internal/platform/logging"
)

type stubFeed struct {
	snapshots map[int]FeedSnapshot
	err       error
	fetches   atomic.Int64
}

func (s *stubFeed) FetchGameweek(_ context.Context, gameweek int) (FeedSnapshot, error) {
	s.fetches.Add(1)
	if s.err != nil {
		return FeedSnapshot{}, s.err
	}

	snapshot, ok := s.snapshots[gameweek]
	if !ok {
		return FeedSnapshot{Gameweek: gameweek}, nil
	}
	return snapshot, nil
}

func newStatsService(f *fixture, feed StatsFeed) *StatsService {
	return NewStatsService(feed, f.stats, f.players, f.players, nil, logging.NewNop(), 2)
}

func TestStatsService_IngestGameweek(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	feed := &stubFeed{snapshots: map[int]FeedSnapshot{
		1: {
			Gameweek:  1,
			Finalized: true,
			Records: []playerstats.GameweekStats{
				{PlayerID: "gk-01", Played: true, Saves: 3, CleanSheet: true},
				{PlayerID: "lw-01", Played: true, Goals: 2},
			},
			Prices: []PriceUpdate{{PlayerID: "lw-01", Price: 126}},
		},
	}}
	service := newStatsService(f, feed)

	report, err := service.IngestGameweek(context.Background(), 1)
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	if report.Records != 2 || !report.Finalized {
		t.Fatalf("unexpected report: %+v", report)
	}

	finalized, err := f.stats.Finalized(context.Background(), 1)
	if err != nil || !finalized {
		t.Fatalf("round must be finalized: ok=%v err=%v", finalized, err)
	}

	// Finalizing folds base points into the season ledger: keeper 3+4, winger 8.
	season, ok, err := f.stats.GetSeasonStats(context.Background(), "gk-01")
	if err != nil || !ok {
		t.Fatalf("season stats missing: ok=%v err=%v", ok, err)
	}
	if season.TotalPoints != 7 {
		t.Fatalf("expected 7 season points for gk-01, got %d", season.TotalPoints)
	}

	players, err := f.players.GetByIDs(context.Background(), []string{"lw-01"})
	if err != nil {
		t.Fatalf("get players failed: %v", err)
	}
	if players[0].Price != 126 {
		t.Fatalf("price movement not applied, price %d", players[0].Price)
	}
}

func TestStatsService_ReingestKeepsSeasonTotals(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	feed := &stubFeed{snapshots: map[int]FeedSnapshot{
		1: {
			Gameweek:  1,
			Finalized: true,
			Records:   []playerstats.GameweekStats{{PlayerID: "lw-01", Played: true, Goals: 1}},
		},
	}}
	service := newStatsService(f, feed)

	for i := 0; i < 2; i++ {
		if _, err := service.IngestGameweek(context.Background(), 1); err != nil {
			t.Fatalf("ingest %d failed: %v", i+1, err)
		}
	}

	season, ok, err := f.stats.GetSeasonStats(context.Background(), "lw-01")
	if err != nil || !ok {
		t.Fatalf("season stats missing: ok=%v err=%v", ok, err)
	}
	if season.TotalPoints != 4 {
		t.Fatalf("re-ingest must not double season points, got %d", season.TotalPoints)
	}
}

func TestStatsService_ProvisionalRoundStaysOpen(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	feed := &stubFeed{snapshots: map[int]FeedSnapshot{
		1: {
			Gameweek: 1,
			Records:  []playerstats.GameweekStats{{PlayerID: "lw-01", Played: true, Goals: 1}},
		},
	}}
	service := newStatsService(f, feed)

	report, err := service.IngestGameweek(context.Background(), 1)
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	if report.Finalized {
		t.Fatal("provisional snapshot must not finalize the round")
	}

	finalized, err := f.stats.Finalized(context.Background(), 1)
	if err != nil {
		t.Fatalf("finalized check failed: %v", err)
	}
	if finalized {
		t.Fatal("round finalized from provisional figures")
	}
}

func TestStatsService_IngestRange(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	feed := &stubFeed{snapshots: map[int]FeedSnapshot{
		1: {Gameweek: 1, Records: []playerstats.GameweekStats{{PlayerID: "lw-01", Played: true}}},
		2: {Gameweek: 2, Records: []playerstats.GameweekStats{{PlayerID: "lw-01", Played: true}}},
		3: {Gameweek: 3},
	}}
	service := newStatsService(f, feed)

	reports, err := service.IngestRange(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("ingest range failed: %v", err)
	}
	if len(reports) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(reports))
	}
	for i, report := range reports {
		if report.Gameweek != i+1 {
			t.Fatalf("report %d carries gameweek %d", i, report.Gameweek)
		}
	}
	if got := feed.fetches.Load(); got != 3 {
		t.Fatalf("expected 3 feed fetches, got %d", got)
	}
}

func TestStatsService_FeedFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	feed := &stubFeed{err: errors.New("upstream down")}
	service := newStatsService(f, feed)

	_, err := service.IngestGameweek(context.Background(), 1)
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}

	if _, err := service.IngestRange(context.Background(), 0, 2); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad range, got %v", err)
	}
}

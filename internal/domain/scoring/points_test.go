package scoring

import (
	"testing"

	"github.com/pitchside/fiveside/internal/domain/player"
	"github.com/pitchside/fiveside/internal/domain/playerstats"
	"github.com/pitchside/fiveside/internal/domain/roster"
)

func TestBasePoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pos  player.Position
		st   playerstats.GameweekStats
		want int
	}{
		{
			name: "goalkeeper clean sheet with saves",
			pos:  player.PositionGoalkeeper,
			st:   playerstats.GameweekStats{Played: true, Saves: 3, CleanSheet: true},
			want: 7,
		},
		{
			name: "holding mid goal and clean sheet",
			pos:  player.PositionHoldingMid,
			st:   playerstats.GameweekStats{Played: true, Goals: 1, CleanSheet: true},
			want: 10,
		},
		{
			name: "wing gets no clean sheet credit",
			pos:  player.PositionLeftWing,
			st:   playerstats.GameweekStats{Played: true, Goals: 2, Assists: 1, CleanSheet: true},
			want: 11,
		},
		{
			name: "own goal penalizes every position",
			pos:  player.PositionRightWing,
			st:   playerstats.GameweekStats{Played: true, OwnGoals: 1},
			want: -2,
		},
		{
			name: "did not play scores nothing",
			pos:  player.PositionGoalkeeper,
			st:   playerstats.GameweekStats{Played: false, Saves: 5, CleanSheet: true},
			want: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := BasePoints(tc.pos, tc.st)
			if got != tc.want {
				t.Fatalf("BasePoints(%s) = %d, want %d", tc.pos, got, tc.want)
			}
		})
	}
}

func testLineup() ([]roster.Pick, []roster.Pick) {
	starters := []roster.Pick{
		{PlayerID: "gk-1", Position: player.PositionGoalkeeper},
		{PlayerID: "hm-1", Position: player.PositionHoldingMid},
		{PlayerID: "hm-2", Position: player.PositionHoldingMid},
		{PlayerID: "lw-1", Position: player.PositionLeftWing},
		{PlayerID: "rw-1", Position: player.PositionRightWing},
	}
	bench := []roster.Pick{
		{PlayerID: "gk-2", Position: player.PositionGoalkeeper},
		{PlayerID: "rw-2", Position: player.PositionRightWing},
	}
	return starters, bench
}

func testStats() map[string]playerstats.GameweekStats {
	return map[string]playerstats.GameweekStats{
		"gk-1": {Played: true, Saves: 2, CleanSheet: true},         // 6
		"hm-1": {Played: true, Goals: 1},                           // 6
		"hm-2": {Played: true, Assists: 1},                         // 3
		"lw-1": {Played: true, Goals: 2},                           // 8
		"rw-1": {Played: true, Assists: 2},                         // 6
		"gk-2": {Played: true, Saves: 4},                           // 4
		"rw-2": {Played: true, Goals: 1},                           // 4
	}
}

func TestScoreLineup_CaptainAndViceBothPlayed(t *testing.T) {
	t.Parallel()

	starters, bench := testLineup()
	total, _ := ScoreLineup(starters, bench, "lw-1", "hm-1", roster.ChipNone, testStats())

	// lw-1 counts 8*3/2=12; everyone else at face value; bench contributes 0.
	want := 6 + 6 + 3 + 12 + 6
	if total != want {
		t.Fatalf("expected %d points, got %d", want, total)
	}
}

func TestScoreLineup_CaptainOnly(t *testing.T) {
	t.Parallel()

	starters, bench := testLineup()
	stats := testStats()
	delete(stats, "hm-1") // vice absent

	total, _ := ScoreLineup(starters, bench, "lw-1", "hm-1", roster.ChipNone, stats)

	// Captain doubles to 16; the absent vice contributes 0.
	want := 6 + 0 + 3 + 16 + 6
	if total != want {
		t.Fatalf("expected %d points, got %d", want, total)
	}
}

func TestScoreLineup_ViceStandsIn(t *testing.T) {
	t.Parallel()

	starters, bench := testLineup()
	stats := testStats()
	delete(stats, "lw-1") // captain absent

	total, scores := ScoreLineup(starters, bench, "lw-1", "hm-1", roster.ChipNone, stats)

	// hm-1 doubles to 12 as the stand-in.
	want := 6 + 12 + 3 + 0 + 6
	if total != want {
		t.Fatalf("expected %d points, got %d", want, total)
	}

	for _, s := range scores {
		if s.PlayerID == "hm-1" && (s.MultNum != 2 || s.MultDen != 1) {
			t.Fatalf("expected vice multiplier 2/1, got %d/%d", s.MultNum, s.MultDen)
		}
	}
}

func TestScoreLineup_NeitherArmbandPlayed(t *testing.T) {
	t.Parallel()

	starters, bench := testLineup()
	stats := testStats()
	delete(stats, "lw-1")
	delete(stats, "hm-1")

	total, _ := ScoreLineup(starters, bench, "lw-1", "hm-1", roster.ChipNone, stats)

	want := 6 + 0 + 3 + 0 + 6
	if total != want {
		t.Fatalf("expected %d points with no bonus, got %d", want, total)
	}
}

func TestScoreLineup_TripleCaptain(t *testing.T) {
	t.Parallel()

	starters, bench := testLineup()
	total, _ := ScoreLineup(starters, bench, "lw-1", "hm-1", roster.ChipTripleCaptain, testStats())

	// Captain triples to 24 even though the vice also played.
	want := 6 + 6 + 3 + 24 + 6
	if total != want {
		t.Fatalf("expected %d points, got %d", want, total)
	}
}

func TestScoreLineup_BenchBoost(t *testing.T) {
	t.Parallel()

	starters, bench := testLineup()
	total, scores := ScoreLineup(starters, bench, "lw-1", "hm-1", roster.ChipBenchBoost, testStats())

	// Baseline 33 plus raw bench points 4+4, unmultiplied.
	want := 6 + 6 + 3 + 12 + 6 + 4 + 4
	if total != want {
		t.Fatalf("expected %d points, got %d", want, total)
	}

	for _, s := range scores {
		if s.IsStarter {
			continue
		}
		if s.MultNum != 1 || s.MultDen != 1 {
			t.Fatalf("bench points must never be multiplied, got %d/%d", s.MultNum, s.MultDen)
		}
	}
}

func TestScoreLineup_BenchContributesNothingWithoutBoost(t *testing.T) {
	t.Parallel()

	starters, bench := testLineup()
	_, scores := ScoreLineup(starters, bench, "lw-1", "hm-1", roster.ChipNone, testStats())

	for _, s := range scores {
		if !s.IsStarter && s.Counted != 0 {
			t.Fatalf("bench player %s counted %d without bench boost", s.PlayerID, s.Counted)
		}
	}
}

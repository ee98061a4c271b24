package postgres

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/bytedance/sonic"

	"github.com/pitchside/fiveside/internal/domain/player"
	"github.com/pitchside/fiveside/internal/domain/roster"
)

func TestRosterInsertArgs(t *testing.T) {
	t.Parallel()

	item := roster.Roster{
		ID:            "roster-1",
		UserID:        "user-1",
		Name:          "Test FC",
		CaptainID:     "lw-01",
		ViceCaptainID: "hm-01",
		BudgetCap:     1000,
		Transfers:     roster.TransferState{FreeTransfers: 1, Made: 2, Cost: 4},
		Chips:         roster.ChipState{FreeHitUsed: true, Active: roster.ChipFreeHit, ActiveGameweek: 3},
		Version:       5,
	}
	item.FreeHitSnapshot = &roster.Snapshot{
		Gameweek:      3,
		Starters:      []roster.Pick{{PlayerID: "gk-01", Position: player.PositionGoalkeeper, Price: 95}},
		CaptainID:     "gk-01",
		ViceCaptainID: "hm-01",
	}

	args, err := rosterInsertArgs(item)
	if err != nil {
		t.Fatalf("rosterInsertArgs failed: %v", err)
	}

	if args["public_id"] != "roster-1" || args["version"] != int64(5) {
		t.Fatalf("unexpected identity args: %v / %v", args["public_id"], args["version"])
	}
	if args["transfer_cost"] != 4 || args["active_chip"] != "free_hit" {
		t.Fatalf("unexpected state args: %v / %v", args["transfer_cost"], args["active_chip"])
	}

	encoded, ok := args["free_hit_snapshot"].(string)
	if !ok {
		t.Fatalf("snapshot not encoded as string: %T", args["free_hit_snapshot"])
	}
	var decoded roster.Snapshot
	if err := sonic.UnmarshalString(encoded, &decoded); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if decoded.Gameweek != 3 || decoded.CaptainID != "gk-01" || len(decoded.Starters) != 1 {
		t.Fatalf("snapshot did not round-trip: %+v", decoded)
	}
}

func TestRosterInsertArgs_NilSnapshot(t *testing.T) {
	t.Parallel()

	args, err := rosterInsertArgs(roster.Roster{ID: "roster-1"})
	if err != nil {
		t.Fatalf("rosterInsertArgs failed: %v", err)
	}
	if args["free_hit_snapshot"] != nil {
		t.Fatalf("expected NULL snapshot, got %v", args["free_hit_snapshot"])
	}
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	if !isNotFound(sql.ErrNoRows) {
		t.Fatal("sql.ErrNoRows must map to not found")
	}
	if isNotFound(errors.New("connection refused")) {
		t.Fatal("other errors are not not-found")
	}
}

package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/pitchside/fiveside/internal/domain/player"
	"github.com/pitchside/fiveside/internal/domain/roster"
)

func testRoster(id, userID string) roster.Roster {
	return roster.Roster{
		ID:     id,
		UserID: userID,
		Name:   "Test FC",
		Starters: []roster.Pick{
			{PlayerID: "gk-01", Position: player.PositionGoalkeeper, Price: 95},
		},
		Bench: []roster.Pick{
			{PlayerID: "gk-02", Position: player.PositionGoalkeeper, Price: 88},
		},
		BudgetCap: 1000,
	}
}

func TestRosterRepository_CreateEnforcesUniqueness(t *testing.T) {
	t.Parallel()

	repo := NewRosterRepository()
	if err := repo.Create(context.Background(), testRoster("roster-1", "user-1")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	err := repo.Create(context.Background(), testRoster("roster-2", "user-1"))
	if !errors.Is(err, roster.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists for duplicate user, got %v", err)
	}

	err = repo.Create(context.Background(), testRoster("roster-1", "user-2"))
	if !errors.Is(err, roster.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists for duplicate id, got %v", err)
	}
}

func TestRosterRepository_UpdateVersionCheck(t *testing.T) {
	t.Parallel()

	repo := NewRosterRepository()
	if err := repo.Create(context.Background(), testRoster("roster-1", "user-1")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	first, _, err := repo.GetByID(context.Background(), "roster-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	second := first

	first.Name = "First Writer"
	if err := repo.Update(context.Background(), first); err != nil {
		t.Fatalf("first update failed: %v", err)
	}

	second.Name = "Second Writer"
	err = repo.Update(context.Background(), second)
	if !errors.Is(err, roster.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict for stale version, got %v", err)
	}

	current, _, err := repo.GetByID(context.Background(), "roster-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if current.Name != "First Writer" {
		t.Fatalf("stale write must not land, got name %q", current.Name)
	}
	if current.Version != first.Version+1 {
		t.Fatalf("expected version bump to %d, got %d", first.Version+1, current.Version)
	}
}

func TestRosterRepository_ClonesOnReadAndWrite(t *testing.T) {
	t.Parallel()

	repo := NewRosterRepository()
	item := testRoster("roster-1", "user-1")
	item.FreeHitSnapshot = item.TakeSnapshot(3)
	if err := repo.Create(context.Background(), item); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, _, err := repo.GetByID(context.Background(), "roster-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	got.Starters[0].PlayerID = "mutated"
	got.FreeHitSnapshot.CaptainID = "mutated"

	fresh, _, err := repo.GetByID(context.Background(), "roster-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if fresh.Starters[0].PlayerID == "mutated" || fresh.FreeHitSnapshot.CaptainID == "mutated" {
		t.Fatal("stored roster must not share memory with returned copies")
	}
}

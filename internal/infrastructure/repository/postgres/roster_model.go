package postgres

import (
	"database/sql"
	"time"
)

type rosterTableModel struct {
	ID              int64          `db:"id"`
	PublicID        string         `db:"public_id"`
	UserID          string         `db:"user_id"`
	Name            string         `db:"name"`
	BudgetCap       int64          `db:"budget_cap"`
	CaptainID       string         `db:"captain_public_id"`
	ViceCaptainID   string         `db:"vice_captain_public_id"`
	FreeTransfers   int            `db:"free_transfers"`
	TransfersMade   int            `db:"transfers_made"`
	TransferCost    int            `db:"transfer_cost"`
	WildcardUsed    bool           `db:"wildcard_used"`
	TripleCaptUsed  bool           `db:"triple_captain_used"`
	BenchBoostUsed  bool           `db:"bench_boost_used"`
	FreeHitUsed     bool           `db:"free_hit_used"`
	ActiveChip      string         `db:"active_chip"`
	ActiveGameweek  int            `db:"active_gameweek"`
	FreeHitSnapshot sql.NullString `db:"free_hit_snapshot"`
	GameweekPoints  int            `db:"gameweek_points"`
	TotalPoints     int            `db:"total_points"`
	Version         int64          `db:"version"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

type rosterPickRowModel struct {
	PlayerID string `db:"player_public_id"`
	Slot     string `db:"slot"`
	Position string `db:"position"`
	Price    int64  `db:"price"`
}

const (
	pickSlotStarter = "starter"
	pickSlotBench   = "bench"
)

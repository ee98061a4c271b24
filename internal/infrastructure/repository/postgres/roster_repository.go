package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/pitchside/fiveside/internal/domain/player"
	"github.com/pitchside/fiveside/internal/domain/roster"
)

type RosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) Create(ctx context.Context, item roster.Roster) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for roster create: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const insertQuery = `
INSERT INTO rosters (
    public_id, user_id, name, budget_cap,
    captain_public_id, vice_captain_public_id,
    free_transfers, transfers_made, transfer_cost,
    wildcard_used, triple_captain_used, bench_boost_used, free_hit_used,
    active_chip, active_gameweek, free_hit_snapshot,
    gameweek_points, total_points, version
) VALUES (
    :public_id, :user_id, :name, :budget_cap,
    :captain_public_id, :vice_captain_public_id,
    :free_transfers, :transfers_made, :transfer_cost,
    :wildcard_used, :triple_captain_used, :bench_boost_used, :free_hit_used,
    :active_chip, :active_gameweek, :free_hit_snapshot,
    :gameweek_points, :total_points, :version
)`

	args, err := rosterInsertArgs(item)
	if err != nil {
		return err
	}
	insertSQL, insertArgs, err := sqlx.Named(insertQuery, args)
	if err != nil {
		return fmt.Errorf("bind insert roster query: %w", err)
	}
	insertSQL = tx.Rebind(insertSQL)
	if _, err := tx.ExecContext(ctx, insertSQL, insertArgs...); err != nil {
		return fmt.Errorf("insert roster: %w", err)
	}

	if err := replacePicks(ctx, tx, item); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit roster create tx: %w", err)
	}

	return nil
}

func (r *RosterRepository) GetByID(ctx context.Context, id string) (roster.Roster, bool, error) {
	return r.getBy(ctx, "public_id", id)
}

func (r *RosterRepository) GetByUserID(ctx context.Context, userID string) (roster.Roster, bool, error) {
	return r.getBy(ctx, "user_id", userID)
}

func (r *RosterRepository) getBy(ctx context.Context, column, value string) (roster.Roster, bool, error) {
	query := fmt.Sprintf(`
SELECT public_id, user_id, name, budget_cap,
       captain_public_id, vice_captain_public_id,
       free_transfers, transfers_made, transfer_cost,
       wildcard_used, triple_captain_used, bench_boost_used, free_hit_used,
       active_chip, active_gameweek, free_hit_snapshot,
       gameweek_points, total_points, version, created_at, updated_at
FROM rosters
WHERE %s = $1
  AND deleted_at IS NULL`, column)

	var row rosterTableModel
	if err := r.db.GetContext(ctx, &row, query, value); err != nil {
		if isNotFound(err) {
			return roster.Roster{}, false, nil
		}
		return roster.Roster{}, false, fmt.Errorf("get roster: %w", err)
	}

	item, err := r.hydrate(ctx, row)
	if err != nil {
		return roster.Roster{}, false, err
	}

	return item, true, nil
}

func (r *RosterRepository) List(ctx context.Context) ([]roster.Roster, error) {
	const query = `
SELECT public_id, user_id, name, budget_cap,
       captain_public_id, vice_captain_public_id,
       free_transfers, transfers_made, transfer_cost,
       wildcard_used, triple_captain_used, bench_boost_used, free_hit_used,
       active_chip, active_gameweek, free_hit_snapshot,
       gameweek_points, total_points, version, created_at, updated_at
FROM rosters
WHERE deleted_at IS NULL
ORDER BY public_id`

	var rows []rosterTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list rosters: %w", err)
	}

	out := make([]roster.Roster, 0, len(rows))
	for _, row := range rows {
		item, err := r.hydrate(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}

	return out, nil
}

// Update writes the roster guarded by the version column. A zero-row update
// means another writer got there first.
func (r *RosterRepository) Update(ctx context.Context, item roster.Roster) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for roster update: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const updateQuery = `
UPDATE rosters SET
    name = :name,
    captain_public_id = :captain_public_id,
    vice_captain_public_id = :vice_captain_public_id,
    free_transfers = :free_transfers,
    transfers_made = :transfers_made,
    transfer_cost = :transfer_cost,
    wildcard_used = :wildcard_used,
    triple_captain_used = :triple_captain_used,
    bench_boost_used = :bench_boost_used,
    free_hit_used = :free_hit_used,
    active_chip = :active_chip,
    active_gameweek = :active_gameweek,
    free_hit_snapshot = :free_hit_snapshot,
    gameweek_points = :gameweek_points,
    total_points = :total_points,
    version = version + 1,
    updated_at = NOW()
WHERE public_id = :public_id
  AND version = :version
  AND deleted_at IS NULL`

	args, err := rosterInsertArgs(item)
	if err != nil {
		return err
	}
	updateSQL, updateArgs, err := sqlx.Named(updateQuery, args)
	if err != nil {
		return fmt.Errorf("bind update roster query: %w", err)
	}
	updateSQL = tx.Rebind(updateSQL)

	result, err := tx.ExecContext(ctx, updateSQL, updateArgs...)
	if err != nil {
		return fmt.Errorf("update roster: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update roster rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: roster=%s version=%d", roster.ErrVersionConflict, item.ID, item.Version)
	}

	if err := replacePicks(ctx, tx, item); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit roster update tx: %w", err)
	}

	return nil
}

func (r *RosterRepository) hydrate(ctx context.Context, row rosterTableModel) (roster.Roster, error) {
	const picksQuery = `
SELECT player_public_id, slot, position, price
FROM roster_picks
WHERE roster_public_id = $1
  AND deleted_at IS NULL
ORDER BY id`

	var pickRows []rosterPickRowModel
	if err := r.db.SelectContext(ctx, &pickRows, picksQuery, row.PublicID); err != nil {
		return roster.Roster{}, fmt.Errorf("list roster picks: %w", err)
	}

	starters := make([]roster.Pick, 0, len(pickRows))
	bench := make([]roster.Pick, 0, 2)
	for _, p := range pickRows {
		pick := roster.Pick{
			PlayerID: p.PlayerID,
			Position: player.Position(p.Position),
			Price:    p.Price,
		}
		if p.Slot == pickSlotBench {
			bench = append(bench, pick)
		} else {
			starters = append(starters, pick)
		}
	}

	var snapshot *roster.Snapshot
	if row.FreeHitSnapshot.Valid && row.FreeHitSnapshot.String != "" {
		snapshot = &roster.Snapshot{}
		if err := sonic.UnmarshalString(row.FreeHitSnapshot.String, snapshot); err != nil {
			return roster.Roster{}, fmt.Errorf("decode free hit snapshot: %w", err)
		}
	}

	return roster.Roster{
		ID:            row.PublicID,
		UserID:        row.UserID,
		Name:          row.Name,
		Starters:      starters,
		Bench:         bench,
		CaptainID:     row.CaptainID,
		ViceCaptainID: row.ViceCaptainID,
		BudgetCap:     row.BudgetCap,
		Transfers: roster.TransferState{
			FreeTransfers: row.FreeTransfers,
			Made:          row.TransfersMade,
			Cost:          row.TransferCost,
		},
		Chips: roster.ChipState{
			WildcardUsed:      row.WildcardUsed,
			TripleCaptainUsed: row.TripleCaptUsed,
			BenchBoostUsed:    row.BenchBoostUsed,
			FreeHitUsed:       row.FreeHitUsed,
			Active:            roster.ChipKind(row.ActiveChip),
			ActiveGameweek:    row.ActiveGameweek,
		},
		FreeHitSnapshot: snapshot,
		GameweekPoints:  row.GameweekPoints,
		TotalPoints:     row.TotalPoints,
		Version:         row.Version,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}, nil
}

func rosterInsertArgs(item roster.Roster) (map[string]any, error) {
	var snapshotJSON any
	if item.FreeHitSnapshot != nil {
		encoded, err := sonic.MarshalString(item.FreeHitSnapshot)
		if err != nil {
			return nil, fmt.Errorf("encode free hit snapshot: %w", err)
		}
		snapshotJSON = encoded
	}

	return map[string]any{
		"public_id":              item.ID,
		"user_id":                item.UserID,
		"name":                   item.Name,
		"budget_cap":             item.BudgetCap,
		"captain_public_id":      item.CaptainID,
		"vice_captain_public_id": item.ViceCaptainID,
		"free_transfers":         item.Transfers.FreeTransfers,
		"transfers_made":         item.Transfers.Made,
		"transfer_cost":          item.Transfers.Cost,
		"wildcard_used":          item.Chips.WildcardUsed,
		"triple_captain_used":    item.Chips.TripleCaptainUsed,
		"bench_boost_used":       item.Chips.BenchBoostUsed,
		"free_hit_used":          item.Chips.FreeHitUsed,
		"active_chip":            string(item.Chips.Active),
		"active_gameweek":        item.Chips.ActiveGameweek,
		"free_hit_snapshot":      snapshotJSON,
		"gameweek_points":        item.GameweekPoints,
		"total_points":           item.TotalPoints,
		"version":                item.Version,
	}, nil
}

func replacePicks(ctx context.Context, tx *sqlx.Tx, item roster.Roster) error {
	const clearQuery = `
UPDATE roster_picks
SET deleted_at = NOW()
WHERE roster_public_id = $1
  AND deleted_at IS NULL`
	if _, err := tx.ExecContext(ctx, tx.Rebind(clearQuery), item.ID); err != nil {
		return fmt.Errorf("soft delete existing roster picks: %w", err)
	}

	const insertQuery = `
INSERT INTO roster_picks (roster_public_id, player_public_id, slot, position, price)
VALUES (:roster_public_id, :player_public_id, :slot, :position, :price)`

	insert := func(pick roster.Pick, slot string) error {
		pickSQL, pickArgs, err := sqlx.Named(insertQuery, map[string]any{
			"roster_public_id": item.ID,
			"player_public_id": pick.PlayerID,
			"slot":             slot,
			"position":         string(pick.Position),
			"price":            pick.Price,
		})
		if err != nil {
			return fmt.Errorf("bind insert roster pick player=%s query: %w", pick.PlayerID, err)
		}
		pickSQL = tx.Rebind(pickSQL)
		if _, err := tx.ExecContext(ctx, pickSQL, pickArgs...); err != nil {
			return fmt.Errorf("insert roster pick player=%s: %w", pick.PlayerID, err)
		}
		return nil
	}

	for _, pick := range item.Starters {
		if err := insert(pick, pickSlotStarter); err != nil {
			return err
		}
	}
	for _, pick := range item.Bench {
		if err := insert(pick, pickSlotBench); err != nil {
			return err
		}
	}

	return nil
}

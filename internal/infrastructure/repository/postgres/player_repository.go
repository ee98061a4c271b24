package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pitchside/fiveside/internal/domain/player"
)

type playerTableModel struct {
	ID            int64          `db:"id"`
	PublicID      string         `db:"public_id"`
	Name          string         `db:"name"`
	Position      string         `db:"position"`
	Price         int64          `db:"price"`
	Rating        int            `db:"rating"`
	OwnerRosterID sql.NullString `db:"owner_roster_public_id"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	const query = `
SELECT public_id, name, position, price, rating, owner_roster_public_id, created_at, updated_at
FROM players
WHERE deleted_at IS NULL
ORDER BY public_id`

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	return toPlayers(rows), nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return nil, nil
	}

	const query = `
SELECT public_id, name, position, price, rating, owner_roster_public_id, created_at, updated_at
FROM players
WHERE public_id IN (?)
  AND deleted_at IS NULL
ORDER BY public_id`

	inQuery, inArgs, err := sqlx.In(query, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("bind players in query: %w", err)
	}
	inQuery = r.db.Rebind(inQuery)

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, inQuery, inArgs...); err != nil {
		return nil, fmt.Errorf("get players by ids: %w", err)
	}

	return toPlayers(rows), nil
}

func (r *PlayerRepository) ClaimOwners(ctx context.Context, rosterID string, playerIDs []string) error {
	if len(playerIDs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for claim owners: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const query = `
UPDATE players
SET owner_roster_public_id = ?,
    updated_at = NOW()
WHERE public_id IN (?)
  AND (owner_roster_public_id IS NULL OR owner_roster_public_id = ?)
  AND deleted_at IS NULL`

	inQuery, inArgs, err := sqlx.In(query, rosterID, playerIDs, rosterID)
	if err != nil {
		return fmt.Errorf("bind claim owners query: %w", err)
	}
	inQuery = tx.Rebind(inQuery)

	result, err := tx.ExecContext(ctx, inQuery, inArgs...)
	if err != nil {
		return fmt.Errorf("claim player owners: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("claim player owners rows affected: %w", err)
	}
	if affected != int64(len(playerIDs)) {
		return fmt.Errorf("%w: claimed %d of %d", player.ErrAlreadyOwned, affected, len(playerIDs))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit claim owners tx: %w", err)
	}

	return nil
}

func (r *PlayerRepository) SwapOwners(ctx context.Context, rosterID, outgoingID, incomingID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for swap owners: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const claimQuery = `
UPDATE players
SET owner_roster_public_id = $1,
    updated_at = NOW()
WHERE public_id = $2
  AND owner_roster_public_id IS NULL
  AND deleted_at IS NULL`
	result, err := tx.ExecContext(ctx, tx.Rebind(claimQuery), rosterID, incomingID)
	if err != nil {
		return fmt.Errorf("claim incoming player: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("claim incoming player rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: player=%s", player.ErrAlreadyOwned, incomingID)
	}

	const releaseQuery = `
UPDATE players
SET owner_roster_public_id = NULL,
    updated_at = NOW()
WHERE public_id = $1
  AND owner_roster_public_id = $2
  AND deleted_at IS NULL`
	if _, err := tx.ExecContext(ctx, tx.Rebind(releaseQuery), outgoingID, rosterID); err != nil {
		return fmt.Errorf("release outgoing player: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit swap owners tx: %w", err)
	}

	return nil
}

func (r *PlayerRepository) ReplaceOwners(ctx context.Context, rosterID string, playerIDs []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for replace owners: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const releaseQuery = `
UPDATE players
SET owner_roster_public_id = NULL,
    updated_at = NOW()
WHERE owner_roster_public_id = $1
  AND deleted_at IS NULL`
	if _, err := tx.ExecContext(ctx, tx.Rebind(releaseQuery), rosterID); err != nil {
		return fmt.Errorf("release roster players: %w", err)
	}

	if len(playerIDs) > 0 {
		const claimQuery = `
UPDATE players
SET owner_roster_public_id = ?,
    updated_at = NOW()
WHERE public_id IN (?)
  AND (owner_roster_public_id IS NULL OR owner_roster_public_id = ?)
  AND deleted_at IS NULL`
		inQuery, inArgs, err := sqlx.In(claimQuery, rosterID, playerIDs, rosterID)
		if err != nil {
			return fmt.Errorf("bind replace owners query: %w", err)
		}
		inQuery = tx.Rebind(inQuery)

		result, err := tx.ExecContext(ctx, inQuery, inArgs...)
		if err != nil {
			return fmt.Errorf("claim replacement players: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("claim replacement players rows affected: %w", err)
		}
		if affected != int64(len(playerIDs)) {
			return fmt.Errorf("%w: claimed %d of %d", player.ErrAlreadyOwned, affected, len(playerIDs))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace owners tx: %w", err)
	}

	return nil
}

// SetPrice applies one feed price movement.
func (r *PlayerRepository) SetPrice(ctx context.Context, playerID string, price int64) error {
	const query = `
UPDATE players
SET price = $1,
    updated_at = NOW()
WHERE public_id = $2
  AND deleted_at IS NULL`

	if _, err := r.db.ExecContext(ctx, query, price, playerID); err != nil {
		return fmt.Errorf("set player price: %w", err)
	}

	return nil
}

func toPlayers(rows []playerTableModel) []player.Player {
	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, player.Player{
			ID:            row.PublicID,
			Name:          row.Name,
			Position:      player.Position(row.Position),
			Price:         row.Price,
			Rating:        row.Rating,
			OwnerRosterID: row.OwnerRosterID.String,
		})
	}

	return out
}

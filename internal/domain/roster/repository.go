package roster

import "context"

// Repository describes roster persistence needs from use cases. Update is a
// compare-and-swap on Version: it fails with ErrVersionConflict when the
// stored version differs from the one on the passed roster, and stores the
// roster with Version incremented otherwise.
type Repository interface {
	Create(ctx context.Context, item Roster) error
	GetByID(ctx context.Context, id string) (Roster, bool, error)
	GetByUserID(ctx context.Context, userID string) (Roster, bool, error)
	List(ctx context.Context) ([]Roster, error)
	Update(ctx context.Context, item Roster) error
}

package schema

import "context"

// Repository persists schemas and the per-user active schema pointer.
type Repository interface {
	Create(ctx context.Context, s *Schema) error
	Get(ctx context.Context, userID int, schemaID string) (*Schema, error)
	ListByUser(ctx context.Context, userID int) ([]Schema, error)

	// MostRecent returns the user's most recently updated schema, or
	// ErrNotFound when the user has none.
	MostRecent(ctx context.Context, userID int) (*Schema, error)

	// ActiveID returns the id of the user's active schema, or "" when unset.
	ActiveID(ctx context.Context, userID int) (string, error)
	SetActiveID(ctx context.Context, userID int, schemaID string) error
}

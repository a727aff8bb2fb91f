package activity

import "context"

// Repository is the store the engine reads from. Implementations push the
// userID filter down; an empty userID means every record.
type Repository interface {
	ListRaw(ctx context.Context, userID string) ([]RawRecord, error)
	Insert(ctx context.Context, rec Record) error
}

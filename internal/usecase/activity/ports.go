package activity

import (
	"context"

	domain "github.com/BruksfildServices01/sales-crm/internal/domain/activity"
)

// StatsCache entries are addressed by generation. Callers read the
// generation before fetching from the store and write back under it, so a
// write racing an Invalidate lands in a retired generation.
type StatsCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, gen int64, userID string) (*domain.Stats, bool, error)
	Set(ctx context.Context, gen int64, userID string, st domain.Stats) error
	Invalidate(ctx context.Context) error
}

type Dispatcher interface {
	Dispatch(rec domain.Record) bool
}

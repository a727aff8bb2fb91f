package cache

import (
	"context"

	"github.com/BruksfildServices01/sales-crm/internal/domain/activity"
)

// Noop is used when no redis is configured.
type Noop struct{}

func (Noop) Generation(context.Context) (int64, error) { return 0, nil }

func (Noop) Get(context.Context, int64, string) (*activity.Stats, bool, error) {
	return nil, false, nil
}

func (Noop) Set(context.Context, int64, string, activity.Stats) error { return nil }

func (Noop) Invalidate(context.Context) error { return nil }

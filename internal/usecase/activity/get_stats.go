package activity

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/sales-crm/internal/config"
	domain "github.com/BruksfildServices01/sales-crm/internal/domain/activity"
)

type GetActivityStats struct {
	repo   domain.Repository
	engine *domain.Engine
	cache  StatsCache
	log    logrus.FieldLogger
}

func NewGetActivityStats(
	repo domain.Repository,
	engine *domain.Engine,
	cache StatsCache,
	log logrus.FieldLogger,
) *GetActivityStats {
	return &GetActivityStats{
		repo:   repo,
		engine: engine,
		cache:  cache,
		log:    log,
	}
}

// Execute returns grouped counts for userID, or for everyone when empty.
// Cache failures are logged and otherwise ignored.
func (uc *GetActivityStats) Execute(
	ctx context.Context,
	userID string,
) (domain.Stats, error) {

	gen, err := uc.cache.Generation(ctx)
	if err != nil {
		config.LogError(uc.log, "usecase/activity", "GetActivityStats.Execute", userID, err)
		return uc.compute(ctx, userID)
	}

	cached, ok, err := uc.cache.Get(ctx, gen, userID)
	if err != nil {
		config.LogError(uc.log, "usecase/activity", "GetActivityStats.Execute", userID, err)
	}
	if ok && cached != nil {
		return *cached, nil
	}

	st, err := uc.compute(ctx, userID)
	if err != nil {
		return domain.Stats{}, err
	}

	if err := uc.cache.Set(ctx, gen, userID, st); err != nil {
		config.LogError(uc.log, "usecase/activity", "GetActivityStats.Execute", userID, err)
	}

	return st, nil
}

func (uc *GetActivityStats) compute(ctx context.Context, userID string) (domain.Stats, error) {
	raws, err := uc.repo.ListRaw(ctx, userID)
	if err != nil {
		return domain.Stats{}, err
	}
	return uc.engine.Aggregate(raws), nil
}

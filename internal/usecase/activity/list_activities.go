package activity

import (
	"context"

	domain "github.com/BruksfildServices01/sales-crm/internal/domain/activity"
)

type ListActivities struct {
	repo   domain.Repository
	engine *domain.Engine
}

func NewListActivities(
	repo domain.Repository,
	engine *domain.Engine,
) *ListActivities {
	return &ListActivities{
		repo:   repo,
		engine: engine,
	}
}

// Execute pushes the user filter down to the store and runs every other
// filter on the normalized records.
func (uc *ListActivities) Execute(
	ctx context.Context,
	filter domain.Filter,
) (domain.Page, error) {

	raws, err := uc.repo.ListRaw(ctx, filter.UserID)
	if err != nil {
		return domain.Page{}, err
	}

	return uc.engine.Query(raws, filter), nil
}

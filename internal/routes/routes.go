package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/sales-crm/internal/config"
	"github.com/BruksfildServices01/sales-crm/internal/domain/activity"
	"github.com/BruksfildServices01/sales-crm/internal/handlers"
	"github.com/BruksfildServices01/sales-crm/internal/middleware"
	"github.com/BruksfildServices01/sales-crm/internal/timezone"
	ucActivity "github.com/BruksfildServices01/sales-crm/internal/usecase/activity"
)

// Deps are the long-lived collaborators built by main.
type Deps struct {
	Repo       activity.Repository
	Cache      ucActivity.StatsCache
	Dispatcher ucActivity.Dispatcher
	Log        logrus.FieldLogger
	Now        func() time.Time
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Deps) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// USE CASES
	// ======================================================
	engine := activity.New(deps.Now)

	listActivitiesUC := ucActivity.NewListActivities(deps.Repo, engine)
	activityStatsUC := ucActivity.NewGetActivityStats(deps.Repo, engine, deps.Cache, deps.Log)
	logActivityUC := ucActivity.NewLogActivity(deps.Dispatcher, deps.Now)

	// ======================================================
	// HANDLERS
	// ======================================================
	activityLogsHandler := handlers.NewActivityLogsHandler(
		listActivitiesUC,
		activityStatsUC,
		logActivityUC,
		timezone.Location(cfg.Timezone),
		deps.Log,
	)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	secured := api.Group("/")
	secured.Use(middleware.AuthMiddleware(cfg))
	{
		secured.GET("/activity-logs", activityLogsHandler.List)
		secured.GET("/activity-logs/stats", activityLogsHandler.Stats)
		secured.POST("/activity-logs", activityLogsHandler.Create)
	}
}

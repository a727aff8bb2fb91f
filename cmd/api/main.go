package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/sales-crm/internal/audit"
	"github.com/BruksfildServices01/sales-crm/internal/config"
	dbpkg "github.com/BruksfildServices01/sales-crm/internal/db"
	"github.com/BruksfildServices01/sales-crm/internal/infra/cache"
	infraRepo "github.com/BruksfildServices01/sales-crm/internal/infra/repository"
	"github.com/BruksfildServices01/sales-crm/internal/routes"
	ucActivity "github.com/BruksfildServices01/sales-crm/internal/usecase/activity"
)

func main() {

	cfg := config.Load()
	logger := config.NewLogger(cfg.LogLevel)

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		logger.WithError(err).Fatal("failed to open database")
	}

	var statsCache ucActivity.StatsCache = cache.Noop{}
	if cfg.RedisURL != "" {
		rc, err := cache.NewStatsRedisCache(cfg.RedisURL, cfg.StatsCacheTTL)
		if err != nil {
			logger.WithError(err).Fatal("failed to configure redis")
		}
		defer rc.Close()
		statsCache = rc
	}

	repo := infraRepo.NewActivityGormRepository(db)
	dispatcher := audit.NewDispatcher(
		ucActivity.NewStoreWriter(repo, statsCache, logger),
		logger,
	)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, cfg, routes.Deps{
		Repo:       repo,
		Cache:      statsCache,
		Dispatcher: dispatcher,
		Log:        logger,
		Now:        time.Now,
	})

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	go func() {
		logger.Infof("Server running on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("server shutdown")
	}

	// flush queued activity before the store goes away
	dispatcher.Close()
}

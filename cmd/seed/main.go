// Command seed loads a JSON array of activity documents into the store as
// they are, legacy or current schema. A document's "id" field, when present,
// becomes its key and is removed from the stored body. Cached stats are
// retired afterwards.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/sales-crm/internal/config"
	dbpkg "github.com/BruksfildServices01/sales-crm/internal/db"
	"github.com/BruksfildServices01/sales-crm/internal/infra/cache"
	infraRepo "github.com/BruksfildServices01/sales-crm/internal/infra/repository"
)

func main() {
	file := flag.String("file", "activity_seed.json", "JSON array of activity documents")
	flag.Parse()

	cfg := config.Load()
	logger := config.NewLogger(cfg.LogLevel)

	data, err := os.ReadFile(*file)
	if err != nil {
		logger.WithError(err).Fatal("failed to read seed file")
	}

	var docs []map[string]any
	if err := json.Unmarshal(data, &docs); err != nil {
		logger.WithError(err).Fatal("seed file must be a JSON array of objects")
	}

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		logger.WithError(err).Fatal("failed to open database")
	}
	repo := infraRepo.NewActivityGormRepository(db)

	ctx := context.Background()
	imported := 0
	for _, doc := range docs {
		id, _ := doc["id"].(string)
		if id == "" {
			id = uuid.NewString()
		}
		delete(doc, "id")

		if err := repo.ImportRaw(ctx, id, doc); err != nil {
			config.LogError(logger, "seed", "main", id, err)
			continue
		}
		imported++
	}

	logger.Infof("imported %d of %d documents", imported, len(docs))

	if imported > 0 && cfg.RedisURL != "" {
		rc, err := cache.NewStatsRedisCache(cfg.RedisURL, cfg.StatsCacheTTL)
		if err != nil {
			logger.WithError(err).Fatal("failed to configure redis")
		}
		defer rc.Close()

		if err := rc.Invalidate(ctx); err != nil {
			config.LogError(logger, "seed", "main", nil, err)
		}
	}
}

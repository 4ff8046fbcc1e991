package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/geocoder89/userhub/internal/config"
	"github.com/geocoder89/userhub/internal/repo"
	"github.com/geocoder89/userhub/internal/repo/memory"
	"github.com/geocoder89/userhub/internal/repo/mongostore"
	"github.com/geocoder89/userhub/internal/repo/postgres"
)

// Open connects the store selected by cfg.StoreDriver. Any error here is
// meant to stop the process.
func Open(ctx context.Context, cfg config.Config, log *slog.Logger) (repo.Backend, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		database, err := NewMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return repo.Backend{}, err
		}

		s := mongostore.NewStore(database)
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = database.Client().Disconnect(context.Background())
			return repo.Backend{}, fmt.Errorf("mongo indexes: %w", err)
		}
		return s.Backend(), nil

	case config.StorePostgres:
		pool, err := NewPool(ctx, cfg.DBURL)
		if err != nil {
			return repo.Backend{}, fmt.Errorf("postgres connect: %w", err)
		}

		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return repo.Backend{}, fmt.Errorf("postgres schema: %w", err)
		}
		return postgres.Backend(pool), nil

	case config.StoreMemory:
		log.Warn("using in-memory store; data is lost on restart")
		return memory.NewStore().Backend(), nil
	}

	return repo.Backend{}, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abgdnv/productcrud/internal/config"
	"github.com/abgdnv/productcrud/internal/store"
	"github.com/abgdnv/productcrud/pkg/bootstrap"
	pkgconfig "github.com/abgdnv/productcrud/pkg/config"
)

// OpenStore connects the backend selected by store.driver. The returned
// function releases the connection and must be called on shutdown.
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.ProductStore, func(), error) {
	var (
		productStore store.ProductStore
		closeFn      = func() {}
	)

	switch cfg.Store.Driver {
	case pkgconfig.StoreDriverMongo:
		client, err := bootstrap.NewMongoClient(ctx, cfg.Mongo.URI, cfg.Mongo.Timeout)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Successfully connected to MongoDB", "database", cfg.Mongo.Database)
		productStore = store.NewMongoStore(client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection))
		closeFn = func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.Timeout)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				logger.Error("Failed to disconnect from MongoDB", "error", err)
			}
		}

	case pkgconfig.StoreDriverPostgres:
		dbPool, err := bootstrap.NewDbPool(ctx, cfg.Database.URL, cfg.Database.Timeout)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Successfully connected to the database!")
		pgStore := store.NewPgStore(dbPool)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			dbPool.Close()
			return nil, nil, err
		}
		productStore = pgStore
		closeFn = dbPool.Close

	case pkgconfig.StoreDriverMemory:
		logger.Warn("Using in-memory product store, data is lost on restart")
		productStore = store.NewMemoryStore()

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	if cfg.Resilience.CircuitBreaker.Enabled {
		productStore = store.NewBreakerStore(productStore, cfg.Resilience.CircuitBreaker)
	}
	return productStore, closeFn, nil
}

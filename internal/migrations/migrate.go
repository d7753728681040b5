package migrations

import (
	"context"
	"fmt"

	mongoMigration "calbook/internal/migrations/mongo"
	sqlMigration "calbook/internal/migrations/sql"
	"calbook/pkg/config"
)

// Run applies the schema for the configured store. The store connection
// must already be open.
func Run(ctx context.Context, cfg *config.Config) error {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		if cfg.Client.Mongo == nil {
			return fmt.Errorf("mongo client is not connected")
		}
		return mongoMigration.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.Log)
	case config.StorePostgres, config.StoreSQLite:
		if cfg.Client.SQL == nil {
			return fmt.Errorf("%s database is not connected", cfg.StoreDriver)
		}
		return sqlMigration.RunMigration(ctx, cfg.Client.SQL, cfg.Log)
	case config.StoreMemory:
		cfg.Log.Info("In-memory store needs no migration")
		return nil
	default:
		return fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

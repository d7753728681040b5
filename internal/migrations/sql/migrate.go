package sql

import (
	"context"

	"calbook/internal/bookings/repository"
	"calbook/pkg/logger"

	"github.com/uptrace/bun"
)

func RunMigration(ctx context.Context, db *bun.DB, log *logger.Logger) error {
	log.Info("Running SQL migrations", "dialect", db.Dialect().Name().String())

	if err := repository.EnsureSchema(ctx, db); err != nil {
		return err
	}

	log.Info("All SQL migrations applied successfully", "table", repository.TableName)
	return nil
}

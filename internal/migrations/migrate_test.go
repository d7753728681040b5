package migrations

import (
	"context"
	"testing"

	"calbook/pkg/client"
	"calbook/pkg/config"
	"calbook/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_SQLiteCreatesSchema(t *testing.T) {
	db, err := client.OpenSQLite(":memory:")
	require.NoError(t, err)
	defer db.Close()

	cfg := &config.Config{
		StoreDriver: config.StoreSQLite,
		Log:         logger.Discard(),
		Client:      &client.Client{SQL: db},
	}

	require.NoError(t, Run(context.Background(), cfg))
	require.NoError(t, Run(context.Background(), cfg))

	var tables []string
	err = db.NewSelect().
		TableExpr("sqlite_master").
		Column("name").
		Where("type = ?", "table").
		Where("name = ?", "bookings").
		Scan(context.Background(), &tables)
	require.NoError(t, err)
	assert.Equal(t, []string{"bookings"}, tables)

	var indexes []string
	err = db.NewSelect().
		TableExpr("sqlite_master").
		Column("name").
		Where("type = ?", "index").
		Where("tbl_name = ?", "bookings").
		Scan(context.Background(), &indexes)
	require.NoError(t, err)
	assert.Contains(t, indexes, "bookings_start_at_idx")
}

func TestRun_MemoryIsNoop(t *testing.T) {
	cfg := &config.Config{StoreDriver: config.StoreMemory, Log: logger.Discard(), Client: client.NewClient()}
	assert.NoError(t, Run(context.Background(), cfg))
}

func TestRun_RequiresConnection(t *testing.T) {
	cfg := &config.Config{StoreDriver: config.StoreMongo, Log: logger.Discard(), Client: client.NewClient()}
	assert.Error(t, Run(context.Background(), cfg))

	cfg.StoreDriver = config.StorePostgres
	assert.Error(t, Run(context.Background(), cfg))

	cfg.StoreDriver = "oracle"
	assert.Error(t, Run(context.Background(), cfg))
}

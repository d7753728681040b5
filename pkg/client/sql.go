package client

import (
	"database/sql"
	"fmt"
	"time"

	"calbook/pkg/logger"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"
)

type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func OpenPostgres(databaseURL string, pool PoolConfig) (*bun.DB, error) {
	sqlDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return bun.NewDB(sqlDB, pgdialect.New()), nil
}

// OpenSQLite opens an embedded database. SQLite allows a single writer, so
// the pool is pinned to one connection; this also keeps ":memory:"
// databases alive for the lifetime of the pool.
func OpenSQLite(path string) (*bun.DB, error) {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return bun.NewDB(sqlDB, sqlitedialect.New()), nil
}

func (c *Client) SetPostgres(log *logger.Logger, databaseURL string, pool PoolConfig) {
	db, err := OpenPostgres(databaseURL, pool)
	if err != nil {
		log.Fatal("Failed to connect to Postgres", "error", err)
	}
	log.Info("Successfully connected to Postgres")
	c.SQL = db
}

func (c *Client) SetSQLite(log *logger.Logger, path string) {
	db, err := OpenSQLite(path)
	if err != nil {
		log.Fatal("Failed to open SQLite database", "error", err, "path", path)
	}
	log.Info("Successfully opened SQLite database", "path", path)
	c.SQL = db
}

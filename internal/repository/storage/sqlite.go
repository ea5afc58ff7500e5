package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	// import the SQLite driver to register it with the database/sql package.
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const sqliteDriver = "sqlite3"

type Storage struct {
	Connection *sqlx.DB
}

func NewSQLiteStorage(path string) (*Storage, error) {
	conn, err := sqlx.Open(sqliteDriver, path)
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	// SQLite allows a single writer; one connection keeps statements serialized.
	conn.SetMaxOpenConns(1)

	if err = conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	return &Storage{Connection: conn}, nil
}

func (that *Storage) Ping(ctx context.Context) error {
	if err := that.Connection.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite ping failed: %w", err)
	}
	return nil
}

func (that *Storage) Close() error {
	if err := that.Connection.Close(); err != nil {
		return fmt.Errorf("can't close database: %w", err)
	}
	return nil
}

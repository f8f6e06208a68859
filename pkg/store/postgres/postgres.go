package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const driverName = "pgx"

type Settings struct {
	DSN          string
	MaxOpenConns int
	// BootQueries run once after the connection is verified.
	BootQueries []string
}

func NewDB(ctx context.Context, settings Settings) (*sql.DB, error) {
	db, err := sql.Open(driverName, settings.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	if settings.MaxOpenConns > 0 {
		db.SetMaxOpenConns(settings.MaxOpenConns)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	for _, query := range settings.BootQueries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to run boot query: %w", err)
		}
	}
	return db, nil
}

package history

import (
	"context"
	"database/sql"
	"strings"

	"github.com/de-tools/dr-readiness/pkg/store/duckdb"
	"github.com/de-tools/dr-readiness/pkg/store/postgres"
)

// Open connects to the history database named by dsn. PostgreSQL URLs use
// pgx; anything else is a DuckDB file path. The schema is created if missing.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if IsPostgresDSN(dsn) {
		return postgres.NewDB(ctx, postgres.Settings{
			DSN:          dsn,
			MaxOpenConns: 4,
			BootQueries:  Schema,
		})
	}

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: dsn, BootQueries: Schema})
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

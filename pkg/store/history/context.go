package history

import (
	"context"
	"database/sql"
)

type txKey struct{}

// WithTransaction makes the store join tx instead of opening its own.
func WithTransaction(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func GetTransaction(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

// Package database holds the PostgreSQL access layer: the connection
// provider, embedded migrations and the typed query methods.
//
// The *.sql.go files use sqlc's pgx/v5 layout (see sqlc.yaml) and each
// mirrors one file under queries/. They are maintained by hand; a change to
// a query must be made in both places.
package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{
		db: tx,
	}
}

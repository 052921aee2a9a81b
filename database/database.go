package database

import (
	"context"
	"database/sql"
)

type Database interface {
	Query(query string, args ...interface{}) (Rows, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (Rows, error)
	Exec(query string, args ...interface{}) (Result, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error)
	PingContext(ctx context.Context) error
	Close() error
	Prepare(query string) (*sql.Stmt, error)
}

type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Close() error
	Columns() ([]string, error)
}

type Result interface {
	LastInsertId() (int64, error)
	RowsAffected() (int64, error)
}

package connector

import (
	"context"
	"fmt"

	"github.com/Konsultn-Engineering/sqlex/database"
	"github.com/Konsultn-Engineering/sqlex/dialect"
)

// Connection is an established database connection carrying its dialect.
type Connection interface {
	Database() database.Database
	Dialect() dialect.Dialect
	Health(ctx context.Context) error
	Stats() ConnectionStats
	Close() error
}

// ConnectionStats reports pool usage for an open connection.
type ConnectionStats struct {
	OpenConnections int
	InUse           int
	Idle            int
}

// New opens a connection for the named driver. Supported drivers are
// "sqlite" and "postgres".
func New(driver string, cfg Config) (Connection, error) {
	switch driver {
	case "sqlite", "sqlite3":
		return newSQLiteConnector(cfg)
	case "postgres", "pgx":
		return newPostgresConnector(cfg)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}
}

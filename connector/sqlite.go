package connector

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Konsultn-Engineering/sqlex/database"
	"github.com/Konsultn-Engineering/sqlex/dialect"
)

// SQLiteConnector represents a SQLite database connection backed by the
// standard library pool. Config.Database is the file path; an empty
// path opens an in-memory database.
type SQLiteConnector struct {
	config  Config
	db      *sql.DB
	dialect dialect.Dialect
}

// newSQLiteConnector creates a new SQLite connector and opens the
// database immediately.
func newSQLiteConnector(cfg Config) (*SQLiteConnector, error) {
	s := &SQLiteConnector{
		config:  cfg,
		dialect: dialect.NewSQLiteDialect(),
	}

	ctx := context.Background()
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	if err := s.connect(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteConnector) connect(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite3", s.buildDSN())
	if err != nil {
		return err
	}

	cfg := s.config
	if cfg.Pool.MaxOpen > 0 {
		db.SetMaxOpenConns(cfg.Pool.MaxOpen)
	}
	if cfg.Pool.MaxIdle > 0 {
		db.SetMaxIdleConns(cfg.Pool.MaxIdle)
	}
	if cfg.Pool.MaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.Pool.MaxLifetime)
	}
	if cfg.Pool.MaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.Pool.MaxIdleTime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return err
	}

	s.db = db
	return nil
}

// buildDSN creates a SQLite connection string in the driver's
// file:path?param=value form.
func (s *SQLiteConnector) buildDSN() string {
	path := s.config.Database
	if path == "" {
		path = ":memory:"
	}

	var dsn strings.Builder
	dsn.WriteString("file:")
	dsn.WriteString(path)

	if len(s.config.Params) > 0 {
		values := url.Values{}
		for k, v := range s.config.Params {
			if v != "" {
				values.Set(k, v)
			}
		}
		dsn.WriteString("?")
		dsn.WriteString(values.Encode())
	}
	return dsn.String()
}

// Database returns a database abstraction interface.
func (s *SQLiteConnector) Database() database.Database {
	return database.NewSqlDatabase(s.db)
}

// Dialect returns the SQLite dialect.
func (s *SQLiteConnector) Dialect() dialect.Dialect {
	return s.dialect
}

// Health checks the connection health.
func (s *SQLiteConnector) Health(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("not connected")
	}
	return s.db.PingContext(ctx)
}

// Stats returns connection pool statistics.
func (s *SQLiteConnector) Stats() ConnectionStats {
	if s.db == nil {
		return ConnectionStats{}
	}
	st := s.db.Stats()
	return ConnectionStats{
		OpenConnections: st.OpenConnections,
		InUse:           st.InUse,
		Idle:            st.Idle,
	}
}

// Close shuts down the database handle.
func (s *SQLiteConnector) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

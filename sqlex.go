// Package sqlex builds typed SQL expression trees and compiles them into
// executable statements, expanding collection arguments into placeholders or
// inlined literals depending on the dialect's bind-parameter ceiling.
package sqlex

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/Konsultn-Engineering/sqlex/ast"
	"github.com/Konsultn-Engineering/sqlex/cache"
	"github.com/Konsultn-Engineering/sqlex/compiler"
	"github.com/Konsultn-Engineering/sqlex/connector"
	"github.com/Konsultn-Engineering/sqlex/database"
	"github.com/Konsultn-Engineering/sqlex/dialect"
	"github.com/Konsultn-Engineering/sqlex/utils"
	"github.com/Konsultn-Engineering/sqlex/visitor"
)

const defaultPreparedCacheSize = 64

// DB ties a connection to the query pipeline: tree rendering with a shared
// template cache, per-template argument compilation, placeholder rebinding,
// and an LRU of prepared statements for backends that support preparing.
type DB struct {
	conn    connector.Connection
	db      database.Database
	dialect dialect.Dialect
	cctx    *compiler.CompileContext
	qcache  cache.QueryCache

	mu    sync.RWMutex
	stmts map[uint64]*compiler.Statement

	prepared     *cache.StatementCache
	preparedSize int
	validate     func(sql string) error
}

// Option configures a DB.
type Option func(*DB)

// WithMaxVariableNumber overrides the dialect's bind-parameter ceiling.
func WithMaxVariableNumber(n int) Option {
	return func(d *DB) { d.cctx = d.cctx.WithMaxVariableNumber(n) }
}

// WithStrictMaxArgs makes compilation fail instead of inlining literals when
// a statement exceeds the bind-parameter ceiling.
func WithStrictMaxArgs() Option {
	return func(d *DB) { d.cctx = d.cctx.WithStrictMaxArgs(true) }
}

// WithResolver replaces the argument resolver used during compilation.
func WithResolver(r compiler.ArgumentResolver) Option {
	return func(d *DB) { d.cctx = d.cctx.WithResolver(r) }
}

// WithValidator installs a check run on compiled SQL that embeds inlined
// literals before it is executed.
func WithValidator(fn func(sql string) error) Option {
	return func(d *DB) { d.validate = fn }
}

// WithPreparedStatements sizes the prepared-statement LRU. Zero disables
// statement preparation.
func WithPreparedStatements(size int) Option {
	return func(d *DB) { d.preparedSize = size }
}

// Connect opens a connection for the named driver and wraps it in a DB.
func Connect(driver string, cfg connector.Config, opts ...Option) (*DB, error) {
	conn, err := connector.New(driver, cfg)
	if err != nil {
		return nil, err
	}
	return Open(conn, opts...), nil
}

// Open wraps an established connection in a DB.
func Open(conn connector.Connection, opts ...Option) *DB {
	d := &DB{
		conn:         conn,
		db:           conn.Database(),
		dialect:      conn.Dialect(),
		cctx:         compiler.NewCompileContext(conn.Dialect()),
		qcache:       cache.NewQueryCache(),
		stmts:        make(map[uint64]*compiler.Statement),
		preparedSize: defaultPreparedCacheSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.preparedSize > 0 {
		d.prepared = cache.NewStatementCache(d.preparedSize)
	}
	return d
}

// Dialect returns the connection's dialect.
func (d *DB) Dialect() dialect.Dialect { return d.dialect }

// Database returns the underlying database abstraction.
func (d *DB) Database() database.Database { return d.db }

// Health checks the connection.
func (d *DB) Health(ctx context.Context) error { return d.conn.Health(ctx) }

// Stats reports connection pool usage.
func (d *DB) Stats() connector.ConnectionStats { return d.conn.Stats() }

// Compile renders root into templated SQL and resolves its arguments into a
// flat, executable statement. Statements are shared per template, so
// re-compiling a query whose shape was seen before hits the template's
// expansion caches.
func (d *DB) Compile(root ast.Node) (compiler.CompiledStatement, error) {
	v := visitor.New(d.dialect, d.qcache)
	sqlText, args, err := v.Build(root)
	if err != nil {
		return compiler.CompiledStatement{}, err
	}
	return d.statement(sqlText, args).CompileArgs(args)
}

// statement returns the shared Statement for a rendered template, creating it
// on first sight.
func (d *DB) statement(sqlText string, args []any) *compiler.Statement {
	key := utils.FingerprintString(sqlText)

	d.mu.RLock()
	st, ok := d.stmts[key]
	d.mu.RUnlock()
	if ok {
		return st
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if st, ok := d.stmts[key]; ok {
		return st
	}
	st = compiler.NewStatement(sqlText, args, d.cctx)
	d.stmts[key] = st
	return st
}

// Query compiles q and executes it, returning the result rows.
func (d *DB) Query(ctx context.Context, q *ast.Query) (database.Rows, error) {
	cs, err := d.Compile(q)
	if err != nil {
		return nil, err
	}
	return d.QueryCompiled(ctx, cs)
}

// QueryCompiled executes an already compiled statement.
func (d *DB) QueryCompiled(ctx context.Context, cs compiler.CompiledStatement) (database.Rows, error) {
	if err := d.check(cs); err != nil {
		return nil, err
	}
	if stmt := d.preparedStmt(cs); stmt != nil {
		rows, err := stmt.QueryContext(ctx, cs.Args...)
		if err != nil {
			return nil, err
		}
		return database.NewSqlRows(rows), nil
	}
	return database.QueryCompiled(ctx, d.db, d.dialect, cs)
}

// Exec compiles root and executes it without returning rows.
func (d *DB) Exec(ctx context.Context, root ast.Node) (database.Result, error) {
	cs, err := d.Compile(root)
	if err != nil {
		return nil, err
	}
	return d.ExecCompiled(ctx, cs)
}

// ExecCompiled executes an already compiled statement without returning rows.
func (d *DB) ExecCompiled(ctx context.Context, cs compiler.CompiledStatement) (database.Result, error) {
	if err := d.check(cs); err != nil {
		return nil, err
	}
	if stmt := d.preparedStmt(cs); stmt != nil {
		return stmt.ExecContext(ctx, cs.Args...)
	}
	return database.ExecCompiled(ctx, d.db, d.dialect, cs)
}

// check runs the validator on statements carrying inlined literals.
func (d *DB) check(cs compiler.CompiledStatement) error {
	if cs.NeedsValidation && d.validate != nil {
		if err := d.validate(cs.SQL); err != nil {
			return fmt.Errorf("statement failed validation: %w", err)
		}
	}
	return nil
}

// preparedStmt returns a cached prepared statement for cs, or nil when the
// backend cannot prepare or the statement embeds inlined literals. Inlined
// SQL varies with its values, so preparing it would churn the cache.
func (d *DB) preparedStmt(cs compiler.CompiledStatement) *sql.Stmt {
	if d.prepared == nil || cs.NeedsValidation {
		return nil
	}
	sb, ok := d.db.(interface{ DB() *sql.DB })
	if !ok {
		return nil
	}
	final := dialect.Rebind(d.dialect, cs.SQL)
	stmt, err := d.prepared.GetOrPrepare(utils.FingerprintString(final), sb.DB(), final)
	if err != nil {
		return nil
	}
	return stmt
}

// Close releases prepared statements and shuts down the connection.
func (d *DB) Close() error {
	if d.prepared != nil {
		d.prepared.Close()
	}
	return d.conn.Close()
}

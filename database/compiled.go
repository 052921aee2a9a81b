package database

import (
	"context"

	"github.com/Konsultn-Engineering/sqlex/compiler"
	"github.com/Konsultn-Engineering/sqlex/dialect"
)

// QueryCompiled executes a compiled statement verbatim, converting the
// statement's "?" placeholders to the dialect's native form.
func QueryCompiled(ctx context.Context, db Database, d dialect.Dialect, cs compiler.CompiledStatement) (Rows, error) {
	return db.QueryContext(ctx, dialect.Rebind(d, cs.SQL), cs.Args...)
}

// ExecCompiled executes a compiled statement that returns no rows.
func ExecCompiled(ctx context.Context, db Database, d dialect.Dialect, cs compiler.CompiledStatement) (Result, error) {
	return db.ExecContext(ctx, dialect.Rebind(d, cs.SQL), cs.Args...)
}

package compiler

import (
	"sync"
)

// Statement pairs a rendered SQL template with one argument resolver. The
// resolver's caches are unsynchronized, so the statement serializes
// compilation with its own lock; one Statement per templated query is the
// intended sharing unit.
type Statement struct {
	mu       sync.Mutex
	sql      string
	args     []any
	resolver *CompiledArgumentResolver
}

func NewStatement(sql string, args []any, ctx *CompileContext) *Statement {
	return &Statement{
		sql:      sql,
		args:     args,
		resolver: NewResolver(sql, ctx),
	}
}

// SQL returns the templated SQL, placeholders unexpanded.
func (s *Statement) SQL() string {
	return s.sql
}

// Compile resolves the statement against its currently bound arguments.
func (s *Statement) Compile() (CompiledStatement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolver.Compile(s.args)
}

// CompileArgs rebinds the raw argument list and compiles in one step. The new
// list must match the template, ordinary placeholders and array markers alike.
func (s *Statement) CompileArgs(args []any) (CompiledStatement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.args = args
	return s.resolver.Compile(args)
}

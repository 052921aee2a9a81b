package compiler

import (
	"github.com/Konsultn-Engineering/sqlex/dialect"
)

// Placeholder tokens used in templated SQL. One Placeholder per scalar or
// subquery argument, one ArrayPlaceholder per collection argument, in strict
// left-to-right correspondence with the raw argument list.
const (
	Placeholder      = "?"
	ArrayPlaceholder = "%ARRAY%"
)

// Many tags a bound argument as a collection. The compiler expands it into
// comma-joined placeholders, or inlines its elements when the statement would
// exceed the dialect's bind-parameter ceiling.
type Many []any

// CompileContext carries everything statement compilation needs. It is
// immutable per statement.
type CompileContext struct {
	// MaxVariableNumber is the bind-parameter ceiling; defaults to the
	// dialect's MaxParameters.
	MaxVariableNumber int
	Resolver          ArgumentResolver
	Dialect           dialect.Dialect
	// StrictMaxArgs makes compilation fail with ErrTooManyArguments instead
	// of inlining when the ceiling is exceeded.
	StrictMaxArgs bool
}

func NewCompileContext(d dialect.Dialect) *CompileContext {
	return &CompileContext{
		MaxVariableNumber: d.MaxParameters(),
		Resolver:          DefaultArgumentResolver{},
		Dialect:           d,
	}
}

func (c *CompileContext) WithMaxVariableNumber(n int) *CompileContext {
	out := *c
	out.MaxVariableNumber = n
	return &out
}

func (c *CompileContext) WithResolver(r ArgumentResolver) *CompileContext {
	out := *c
	out.Resolver = r
	return &out
}

func (c *CompileContext) WithStrictMaxArgs(strict bool) *CompileContext {
	out := *c
	out.StrictMaxArgs = strict
	return &out
}

// CompiledStatement is a fully resolved SQL string plus its flat bind array.
// Args never contains a Many value. NeedsValidation marks SQL that embeds
// inlined literal values and should be injection-checked before execution.
type CompiledStatement struct {
	SQL             string
	Args            []any
	NeedsValidation bool
}

package compiler

import "errors"

var (
	// ErrTemplateMismatch means the templated SQL's array-parameter markers do
	// not line up one-to-one with the collection arguments. This is a
	// programming error in whatever produced the template.
	ErrTemplateMismatch = errors.New("array parameter markers do not match collection arguments")

	// ErrTooManyArguments is returned in strict mode when a statement would
	// need more bind parameters than the dialect allows. Outside strict mode
	// the compiler inlines the values instead.
	ErrTooManyArguments = errors.New("statement exceeds maximum bind parameter count")
)

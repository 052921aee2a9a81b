package ast

// Operator is the SQL token of a comparison.
type Operator string

// Comparison Operators
const (
	OpEq  Operator = "="
	OpNeq Operator = "<>"
	OpGt  Operator = ">"
	OpGte Operator = ">="
	OpLt  Operator = "<"
	OpLte Operator = "<="
)

// Null-safe Comparison
const (
	OpIs    Operator = "IS"
	OpIsNot Operator = "IS NOT"
)

// Pattern Matching
const (
	OpLike    Operator = "LIKE"
	OpNotLike Operator = "NOT LIKE"
	OpGlob    Operator = "GLOB"
	OpNotGlob Operator = "NOT GLOB"
)

// Set Membership
const (
	OpIn    Operator = "IN"
	OpNotIn Operator = "NOT IN"
)

// Range Operations
const (
	OpBetween    Operator = "BETWEEN"
	OpNotBetween Operator = "NOT BETWEEN"
)

// Logical Connectors
const (
	OpAnd Operator = "AND"
	OpOr  Operator = "OR"
	OpNot Operator = "NOT"
)

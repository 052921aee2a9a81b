package ast

import (
	"fmt"
	"hash"

	"github.com/Konsultn-Engineering/sqlex/utils"
)

// NoEscape is the sentinel escape rune for LIKE patterns that use no escape
// character.
const NoEscape rune = 0

// Field represents a selectable attribute: a column, function result, or
// literal expression. Fields are immutable; every comparison allocates a new
// Criterion referencing the field.
type Field struct {
	Expression string
	Qualifier  string
}

// Null is the SQL NULL literal as a field.
var Null = &Field{Expression: "NULL"}

func F(expression string) *Field {
	return &Field{Expression: expression}
}

// QualifiedF constructs a field qualified by an owning object, e.g. a table
// alias.
func QualifiedF(expression, qualifier string) *Field {
	return &Field{Expression: expression, Qualifier: qualifier}
}

func (f *Field) Type() NodeType         { return NodeField }
func (f *Field) Accept(v Visitor) error { return v.VisitField(f) }
func (f *Field) Fingerprint() uint64 {
	return utils.FingerprintString("field:" + f.Qualifier + "." + f.Expression)
}

// Eq compares for equality. A nil value routes to IsNull, since "= NULL" is
// never true in SQL.
func (f *Field) Eq(value any) Criterion {
	if value == nil {
		return f.IsNull()
	}
	return &BinaryCriterion{Left: f, Op: OpEq, Right: value}
}

// Neq compares for inequality. A nil value routes to IsNotNull.
func (f *Field) Neq(value any) Criterion {
	if value == nil {
		return f.IsNotNull()
	}
	return &BinaryCriterion{Left: f, Op: OpNeq, Right: value}
}

// EqCaseInsensitive compares for equality ignoring case. Only reliable for
// ASCII strings.
func (f *Field) EqCaseInsensitive(value any) Criterion {
	if value == nil {
		return f.IsNull()
	}
	return &CaseInsensitiveEqualsCriterion{Left: f, Value: value}
}

func (f *Field) Is(value any) Criterion {
	return &BinaryCriterion{Left: f, Op: OpIs, Right: value}
}

func (f *Field) IsNot(value any) Criterion {
	return &BinaryCriterion{Left: f, Op: OpIsNot, Right: value}
}

func (f *Field) IsNull() Criterion    { return f.Is(nil) }
func (f *Field) IsNotNull() Criterion { return f.IsNot(nil) }

func (f *Field) Gt(value any) Criterion {
	return &BinaryCriterion{Left: f, Op: OpGt, Right: value}
}

func (f *Field) Gte(value any) Criterion {
	return &BinaryCriterion{Left: f, Op: OpGte, Right: value}
}

func (f *Field) Lt(value any) Criterion {
	return &BinaryCriterion{Left: f, Op: OpLt, Right: value}
}

func (f *Field) Lte(value any) Criterion {
	return &BinaryCriterion{Left: f, Op: OpLte, Right: value}
}

func (f *Field) Like(pattern any) Criterion {
	return &LikeCriterion{Left: f, Op: OpLike, Pattern: pattern, Escape: NoEscape}
}

// LikeEscape matches against pattern using escape to escape the '%' and '_'
// meta-characters and itself. The pattern is not rewritten; use
// EscapeLikePattern to add escapes where necessary.
func (f *Field) LikeEscape(pattern any, escape rune) Criterion {
	return &LikeCriterion{Left: f, Op: OpLike, Pattern: pattern, Escape: escape}
}

func (f *Field) NotLike(pattern any) Criterion {
	return &LikeCriterion{Left: f, Op: OpNotLike, Pattern: pattern, Escape: NoEscape}
}

func (f *Field) NotLikeEscape(pattern any, escape rune) Criterion {
	return &LikeCriterion{Left: f, Op: OpNotLike, Pattern: pattern, Escape: escape}
}

func (f *Field) Glob(pattern any) Criterion {
	return &BinaryCriterion{Left: f, Op: OpGlob, Right: pattern}
}

func (f *Field) NotGlob(pattern any) Criterion {
	return &BinaryCriterion{Left: f, Op: OpNotGlob, Right: pattern}
}

func (f *Field) In(values ...any) Criterion {
	return f.InCollection(values)
}

func (f *Field) NotIn(values ...any) Criterion {
	return f.NotInCollection(values)
}

// InCollection matches against a collection of values. A nil collection
// renders as "IN ()", which is always false.
func (f *Field) InCollection(values []any) Criterion {
	return &InCollectionCriterion{Left: f, Op: OpIn, Values: values}
}

// NotInCollection matches against a collection of values. A nil collection
// renders as "NOT IN ()", which is always true.
func (f *Field) NotInCollection(values []any) Criterion {
	return &InCollectionCriterion{Left: f, Op: OpNotIn, Values: values}
}

// InQuery matches against the result of a subquery. A nil query is equivalent
// to InCollection(nil).
func (f *Field) InQuery(query *Query) Criterion {
	if query == nil {
		return f.InCollection(nil)
	}
	return &BinaryCriterion{Left: f, Op: OpIn, Right: query}
}

// NotInQuery matches against the result of a subquery. A nil query is
// equivalent to NotInCollection(nil).
func (f *Field) NotInQuery(query *Query) Criterion {
	if query == nil {
		return f.NotInCollection(nil)
	}
	return &BinaryCriterion{Left: f, Op: OpNotIn, Right: query}
}

// Between binds exactly two values regardless of whether they are nil.
func (f *Field) Between(lower, upper any) Criterion {
	return &BetweenCriterion{Left: f, Op: OpBetween, Lower: lower, Upper: upper}
}

func (f *Field) NotBetween(lower, upper any) Criterion {
	return &BetweenCriterion{Left: f, Op: OpNotBetween, Lower: lower, Upper: upper}
}

// AsCriterion treats the field itself as a boolean-valued literal.
func (f *Field) AsCriterion() Criterion {
	return &LiteralCriterion{Value: f}
}

func (f *Field) Asc() *Order  { return &Order{Expr: f} }
func (f *Field) Desc() *Order { return &Order{Expr: f, Descending: true} }

// ByArray sorts by the field's value in the order given by values.
func (f *Field) ByArray(values []any) *Order {
	return &Order{Expr: f, ByValues: values}
}

// EscapeLikePattern escapes the LIKE meta-characters '%' and '_', and the
// escape rune itself, within pattern.
func EscapeLikePattern(pattern string, escape rune) string {
	out := make([]rune, 0, len(pattern))
	for _, r := range pattern {
		if r == '%' || r == '_' || r == escape {
			out = append(out, escape)
		}
		out = append(out, r)
	}
	return string(out)
}

func fingerprintValue(h hash.Hash64, v any) {
	switch t := v.(type) {
	case Node:
		_, _ = h.Write(utils.U64ToBytes(t.Fingerprint()))
	default:
		_, _ = h.Write([]byte(fmt.Sprint(v)))
	}
}

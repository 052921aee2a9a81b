package visitor

import (
	"strconv"
	"strings"

	"github.com/Konsultn-Engineering/sqlex/ast"
	"github.com/Konsultn-Engineering/sqlex/cache"
	"github.com/Konsultn-Engineering/sqlex/compiler"
	"github.com/Konsultn-Engineering/sqlex/dialect"
)

// SQLVisitor linearizes an expression tree into templated SQL while recording
// bound values in traversal order. Scalar and subquery values emit one
// ordinary placeholder each; collection values emit one array marker and are
// recorded whole as compiler.Many, for the compiler to expand.
type SQLVisitor struct {
	sb      strings.Builder
	args    []any
	dialect dialect.Dialect
	qcache  cache.QueryCache
}

func New(d dialect.Dialect, q cache.QueryCache) *SQLVisitor {
	return &SQLVisitor{
		args:    make([]any, 0, 8),
		dialect: d,
		qcache:  q,
	}
}

func (v *SQLVisitor) Reset() {
	v.sb.Reset()
	v.args = v.args[:0]
}

// Build renders root into templated SQL plus the ordered raw argument list.
// Renderings are cached by the tree's fingerprint when a query cache is set.
func (v *SQLVisitor) Build(root ast.Node) (string, []any, error) {
	var fp uint64
	if v.qcache != nil {
		fp = root.Fingerprint()
		if cached, ok := v.qcache.Get(fp); ok {
			return cached.SQL, copyArgs(cached.Args), nil
		}
	}

	v.Reset()
	if err := root.Accept(v); err != nil {
		return "", nil, err
	}

	sql := v.sb.String()
	args := copyArgs(v.args)
	if v.qcache != nil {
		v.qcache.Set(fp, &cache.CachedQuery{SQL: sql, Args: copyArgs(args)})
	}
	return sql, args, nil
}

func copyArgs(args []any) []any {
	if len(args) == 0 {
		return nil
	}
	out := make([]any, len(args))
	copy(out, args)
	return out
}

func (v *SQLVisitor) arg(a any) {
	v.args = append(v.args, a)
}

// value renders an operand: nil as the NULL literal, fields and subqueries
// structurally, everything else as a bind placeholder.
func (v *SQLVisitor) value(val any) error {
	switch t := val.(type) {
	case nil:
		v.sb.WriteString("NULL")
		return nil
	case *ast.Query:
		v.sb.WriteByte('(')
		if err := t.Accept(v); err != nil {
			return err
		}
		v.sb.WriteByte(')')
		return nil
	case ast.Node:
		return t.Accept(v)
	default:
		v.bind(val)
		return nil
	}
}

// bind always emits a placeholder and records the value, nil included.
func (v *SQLVisitor) bind(val any) {
	v.sb.WriteString(compiler.Placeholder)
	v.arg(val)
}

func (v *SQLVisitor) VisitField(f *ast.Field) error {
	if f.Qualifier != "" {
		v.sb.WriteString(f.Qualifier)
		v.sb.WriteByte('.')
	}
	v.sb.WriteString(f.Expression)
	return nil
}

func (v *SQLVisitor) VisitTable(t *ast.Table) error {
	v.sb.WriteString(v.dialect.QuoteIdentifier(t.Name))
	if t.Alias != "" && t.Alias != t.Name {
		v.sb.WriteString(" AS ")
		v.sb.WriteString(v.dialect.QuoteIdentifier(t.Alias))
	}
	return nil
}

func (v *SQLVisitor) VisitBinaryCriterion(c *ast.BinaryCriterion) error {
	v.sb.WriteByte('(')
	if err := c.Left.Accept(v); err != nil {
		return err
	}
	v.sb.WriteByte(' ')
	v.sb.WriteString(string(c.Op))
	v.sb.WriteByte(' ')
	if err := v.value(c.Right); err != nil {
		return err
	}
	v.sb.WriteByte(')')
	return nil
}

func (v *SQLVisitor) VisitCaseInsensitiveEqualsCriterion(c *ast.CaseInsensitiveEqualsCriterion) error {
	v.sb.WriteByte('(')
	if err := c.Left.Accept(v); err != nil {
		return err
	}
	v.sb.WriteString(" = ")
	if err := v.value(c.Value); err != nil {
		return err
	}
	v.sb.WriteString(" COLLATE NOCASE)")
	return nil
}

func (v *SQLVisitor) VisitLikeCriterion(c *ast.LikeCriterion) error {
	v.sb.WriteByte('(')
	if err := c.Left.Accept(v); err != nil {
		return err
	}
	v.sb.WriteByte(' ')
	v.sb.WriteString(string(c.Op))
	v.sb.WriteByte(' ')
	if err := v.value(c.Pattern); err != nil {
		return err
	}
	if c.Escape != ast.NoEscape {
		v.sb.WriteString(" ESCAPE ")
		v.sb.WriteString(v.dialect.RenderValue(string(c.Escape)))
	}
	v.sb.WriteByte(')')
	return nil
}

// VisitInCollectionCriterion emits one array marker for the whole collection;
// a nil collection renders as an empty membership test with no arguments.
func (v *SQLVisitor) VisitInCollectionCriterion(c *ast.InCollectionCriterion) error {
	v.sb.WriteByte('(')
	if err := c.Left.Accept(v); err != nil {
		return err
	}
	v.sb.WriteByte(' ')
	v.sb.WriteString(string(c.Op))
	v.sb.WriteString(" (")
	if c.Values != nil {
		v.sb.WriteString(compiler.ArrayPlaceholder)
		v.arg(compiler.Many(c.Values))
	}
	v.sb.WriteString("))")
	return nil
}

func (v *SQLVisitor) VisitBetweenCriterion(c *ast.BetweenCriterion) error {
	v.sb.WriteByte('(')
	if err := c.Left.Accept(v); err != nil {
		return err
	}
	v.sb.WriteByte(' ')
	v.sb.WriteString(string(c.Op))
	v.sb.WriteByte(' ')
	v.bind(c.Lower)
	v.sb.WriteString(" AND ")
	v.bind(c.Upper)
	v.sb.WriteByte(')')
	return nil
}

func (v *SQLVisitor) VisitConjunctionCriterion(c *ast.ConjunctionCriterion) error {
	v.sb.WriteByte('(')
	for i, crit := range c.Criteria {
		if i > 0 {
			v.sb.WriteByte(' ')
			v.sb.WriteString(string(c.Op))
			v.sb.WriteByte(' ')
		}
		if err := crit.Accept(v); err != nil {
			return err
		}
	}
	v.sb.WriteByte(')')
	return nil
}

func (v *SQLVisitor) VisitNegationCriterion(c *ast.NegationCriterion) error {
	v.sb.WriteString("NOT ")
	return c.Criterion.Accept(v)
}

func (v *SQLVisitor) VisitLiteralCriterion(c *ast.LiteralCriterion) error {
	v.sb.WriteByte('(')
	if err := v.value(c.Value); err != nil {
		return err
	}
	v.sb.WriteByte(')')
	return nil
}

func (v *SQLVisitor) VisitOrder(o *ast.Order) error {
	if len(o.ByValues) > 0 {
		// Explicit value ordering: rank rows by position in the value list.
		v.sb.WriteString("CASE ")
		if err := o.Expr.Accept(v); err != nil {
			return err
		}
		for i, val := range o.ByValues {
			v.sb.WriteString(" WHEN ")
			v.bind(val)
			v.sb.WriteString(" THEN ")
			v.sb.WriteString(strconv.Itoa(i))
		}
		v.sb.WriteString(" ELSE ")
		v.sb.WriteString(strconv.Itoa(len(o.ByValues)))
		v.sb.WriteString(" END")
		return nil
	}

	if err := o.Expr.Accept(v); err != nil {
		return err
	}
	if o.Descending {
		v.sb.WriteString(" DESC")
	} else {
		v.sb.WriteString(" ASC")
	}
	return nil
}

func (v *SQLVisitor) VisitQuery(q *ast.Query) error {
	v.sb.WriteString("SELECT ")
	if q.Distinct {
		v.sb.WriteString("DISTINCT ")
	}

	if len(q.Fields) == 0 {
		v.sb.WriteByte('*')
	}
	for i, f := range q.Fields {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		if err := f.Accept(v); err != nil {
			return err
		}
	}

	if q.From != nil {
		v.sb.WriteString(" FROM ")
		if err := q.From.Accept(v); err != nil {
			return err
		}
	}

	for i, c := range q.Criteria {
		if i == 0 {
			v.sb.WriteString(" WHERE ")
		} else {
			v.sb.WriteString(" AND ")
		}
		if err := c.Accept(v); err != nil {
			return err
		}
	}

	for i, o := range q.Orders {
		if i == 0 {
			v.sb.WriteString(" ORDER BY ")
		} else {
			v.sb.WriteString(", ")
		}
		if err := o.Accept(v); err != nil {
			return err
		}
	}

	if q.LimitCount != ast.NoLimit {
		v.sb.WriteString(" LIMIT ")
		v.sb.WriteString(strconv.Itoa(q.LimitCount))
		if q.OffsetCount > 0 {
			v.sb.WriteString(" OFFSET ")
			v.sb.WriteString(strconv.Itoa(q.OffsetCount))
		}
	}

	return nil
}

// interface check
var _ ast.Visitor = (*SQLVisitor)(nil)

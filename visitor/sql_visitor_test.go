package visitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/sqlex/ast"
	"github.com/Konsultn-Engineering/sqlex/cache"
	"github.com/Konsultn-Engineering/sqlex/compiler"
	"github.com/Konsultn-Engineering/sqlex/dialect"
)

func build(t *testing.T, root ast.Node) (string, []any) {
	t.Helper()
	v := New(dialect.NewSQLiteDialect(), nil)
	sql, args, err := v.Build(root)
	require.NoError(t, err)
	return sql, args
}

func TestBuildSelectStar(t *testing.T) {
	sql, args := build(t, ast.Select().FromTable(ast.NewTable("users")))
	assert.Equal(t, `SELECT * FROM "users"`, sql)
	assert.Empty(t, args)
}

func TestBuildFieldsAndAlias(t *testing.T) {
	u := ast.NewTable("users").As("u")
	q := ast.Select(u.Field("id"), u.Field("name")).FromTable(u)

	sql, _ := build(t, q)
	assert.Equal(t, `SELECT u.id, u.name FROM "users" AS "u"`, sql)
}

func TestBuildWhereJoinsWithAnd(t *testing.T) {
	q := ast.Select().
		FromTable(ast.NewTable("users")).
		Where(ast.F("age").Gte(18), ast.F("active").Eq(true))

	sql, args := build(t, q)
	assert.Equal(t, `SELECT * FROM "users" WHERE (age >= ?) AND (active = ?)`, sql)
	assert.Equal(t, []any{18, true}, args)
}

func TestBuildCollectionEmitsOneMarker(t *testing.T) {
	q := ast.Select().
		FromTable(ast.NewTable("t")).
		Where(ast.F("id").In(1, 2, 3), ast.F("name").Eq("bob"))

	sql, args := build(t, q)
	assert.Equal(t, `SELECT * FROM "t" WHERE (id IN (%ARRAY%)) AND (name = ?)`, sql)
	require.Len(t, args, 2)
	assert.Equal(t, compiler.Many{1, 2, 3}, args[0])
	assert.Equal(t, "bob", args[1])
}

func TestBuildNilCollection(t *testing.T) {
	sql, args := build(t, ast.F("id").InCollection(nil))
	assert.Equal(t, "(id IN ())", sql)
	assert.Empty(t, args)

	sql, args = build(t, ast.F("id").NotInCollection(nil))
	assert.Equal(t, "(id NOT IN ())", sql)
	assert.Empty(t, args)
}

func TestBuildEmptyCollectionStillBindsMarker(t *testing.T) {
	// Empty but non-nil: marker present, collection argument recorded.
	sql, args := build(t, ast.F("id").InCollection([]any{}))
	assert.Equal(t, "(id IN (%ARRAY%))", sql)
	require.Len(t, args, 1)
	assert.Equal(t, compiler.Many{}, args[0])
}

func TestBuildSubquerySplices(t *testing.T) {
	inner := ast.Select(ast.F("user_id")).
		FromTable(ast.NewTable("orders")).
		Where(ast.F("total").Gt(100))
	q := ast.Select().
		FromTable(ast.NewTable("users")).
		Where(ast.F("id").InQuery(inner))

	sql, args := build(t, q)
	assert.Equal(t,
		`SELECT * FROM "users" WHERE (id IN (SELECT user_id FROM "orders" WHERE (total > ?)))`,
		sql)
	assert.Equal(t, []any{100}, args)
}

func TestBuildIsNull(t *testing.T) {
	sql, args := build(t, ast.F("deleted_at").Eq(nil))
	assert.Equal(t, "(deleted_at IS NULL)", sql)
	assert.Empty(t, args)
}

func TestBuildBetweenAlwaysBindsTwo(t *testing.T) {
	sql, args := build(t, ast.F("age").Between(nil, 30))
	assert.Equal(t, "(age BETWEEN ? AND ?)", sql)
	assert.Equal(t, []any{nil, 30}, args)
}

func TestBuildLikeEscape(t *testing.T) {
	sql, args := build(t, ast.F("name").LikeEscape(`50\%`, '\\'))
	assert.Equal(t, `(name LIKE ? ESCAPE '\')`, sql)
	assert.Equal(t, []any{`50\%`}, args)
}

func TestBuildLikeWithoutEscape(t *testing.T) {
	sql, args := build(t, ast.F("name").Like("a%"))
	assert.Equal(t, "(name LIKE ?)", sql)
	assert.Equal(t, []any{"a%"}, args)
}

func TestBuildCaseInsensitiveEquals(t *testing.T) {
	sql, args := build(t, ast.F("email").EqCaseInsensitive("Bob@Example.COM"))
	assert.Equal(t, "(email = ? COLLATE NOCASE)", sql)
	assert.Equal(t, []any{"Bob@Example.COM"}, args)
}

func TestBuildConjunctionNesting(t *testing.T) {
	c := ast.Or(
		ast.And(ast.F("a").Eq(1), ast.F("b").Eq(2)),
		ast.Not(ast.F("c").Eq(3)),
	)
	sql, args := build(t, c)
	assert.Equal(t, "(((a = ?) AND (b = ?)) OR NOT (c = ?))", sql)
	assert.Equal(t, []any{1, 2, 3}, args)
}

func TestBuildOrderByValues(t *testing.T) {
	q := ast.Select().
		FromTable(ast.NewTable("t")).
		OrderBy(ast.F("status").ByArray([]any{"open", "closed"}))

	sql, args := build(t, q)
	assert.Equal(t,
		`SELECT * FROM "t" ORDER BY CASE status WHEN ? THEN 0 WHEN ? THEN 1 ELSE 2 END`,
		sql)
	assert.Equal(t, []any{"open", "closed"}, args)
}

func TestBuildOrderDirectionsAndPaging(t *testing.T) {
	q := ast.Select().
		FromTable(ast.NewTable("t")).
		OrderBy(ast.F("a").Asc(), ast.F("b").Desc()).
		Limit(10).
		Offset(5)

	sql, _ := build(t, q)
	assert.Equal(t, `SELECT * FROM "t" ORDER BY a ASC, b DESC LIMIT 10 OFFSET 5`, sql)
}

func TestBuildDistinct(t *testing.T) {
	sql, _ := build(t, ast.Select(ast.F("city")).FromTable(ast.NewTable("users")).SelectDistinct())
	assert.Equal(t, `SELECT DISTINCT city FROM "users"`, sql)
}

func TestBuildOffsetRequiresLimit(t *testing.T) {
	// Offset without limit is dropped rather than rendered invalid.
	sql, _ := build(t, ast.Select().FromTable(ast.NewTable("t")).Offset(5))
	assert.Equal(t, `SELECT * FROM "t"`, sql)
}

func TestBuildUsesTemplateCache(t *testing.T) {
	qc := cache.NewQueryCache()
	v := New(dialect.NewSQLiteDialect(), qc)

	q := ast.Select().FromTable(ast.NewTable("t")).Where(ast.F("id").Eq(1))
	first, args1, err := v.Build(q)
	require.NoError(t, err)

	cached, ok := qc.Get(q.Fingerprint())
	require.True(t, ok)
	assert.Equal(t, first, cached.SQL)

	second, args2, err := v.Build(q)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, args1, args2)

	// Callers own the returned slice; mutating it must not poison the cache.
	args2[0] = "poison"
	third, args3, err := v.Build(q)
	require.NoError(t, err)
	assert.Equal(t, first, third)
	assert.Equal(t, []any{1}, args3)
}

func TestBuildVisitorIsReusable(t *testing.T) {
	v := New(dialect.NewSQLiteDialect(), nil)

	sql1, _, err := v.Build(ast.F("a").Eq(1))
	require.NoError(t, err)
	sql2, _, err := v.Build(ast.F("b").Eq(2))
	require.NoError(t, err)

	assert.Equal(t, "(a = ?)", sql1)
	assert.Equal(t, "(b = ?)", sql2)
}

func BenchmarkBuildQuery(b *testing.B) {
	v := New(dialect.NewSQLiteDialect(), nil)
	q := ast.Select(ast.F("id"), ast.F("name")).
		FromTable(ast.NewTable("users")).
		Where(ast.F("age").Gte(18), ast.F("id").In(1, 2, 3)).
		OrderBy(ast.F("name").Asc()).
		Limit(50)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := v.Build(q); err != nil {
			b.Fatal(err)
		}
	}
}

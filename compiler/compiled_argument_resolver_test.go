package compiler

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/sqlex/dialect"
)

func testContext() *CompileContext {
	return NewCompileContext(dialect.NewSQLiteDialect())
}

func TestCompileNoMarkers(t *testing.T) {
	r := NewResolver("SELECT * FROM users WHERE id = ? AND name = ?", testContext())

	cs, err := r.Compile([]any{7, "alice"})
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM users WHERE id = ? AND name = ?", cs.SQL)
	assert.Equal(t, []any{int64(7), "alice"}, cs.Args)
	assert.False(t, cs.NeedsValidation)
}

func TestCompileNoMarkersRejectsCollection(t *testing.T) {
	r := NewResolver("SELECT * FROM users WHERE id = ?", testContext())

	_, err := r.Compile([]any{Many{1, 2, 3}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTemplateMismatch))
}

func TestCompileExpandsCollection(t *testing.T) {
	r := NewResolver("SELECT * FROM t WHERE id IN (%ARRAY%) AND name = ?", testContext())

	cs, err := r.Compile([]any{Many{1, 2, 3}, "bob"})
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM t WHERE id IN (?, ?, ?) AND name = ?", cs.SQL)
	assert.Equal(t, []any{int64(1), int64(2), int64(3), "bob"}, cs.Args)
	assert.False(t, cs.NeedsValidation)
}

func TestCompileInlinesWhenOverCeiling(t *testing.T) {
	ctx := testContext().WithMaxVariableNumber(4)
	r := NewResolver("SELECT * FROM t WHERE id IN (%ARRAY%) AND name = ?", ctx)

	cs, err := r.Compile([]any{Many{1, 2, 3, 4, 5, 6}, "bob"})
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM t WHERE id IN (1, 2, 3, 4, 5, 6) AND name = ?", cs.SQL)
	assert.Equal(t, []any{"bob"}, cs.Args)
	assert.True(t, cs.NeedsValidation)
}

func TestCompileInlinesStringsQuoted(t *testing.T) {
	ctx := testContext().WithMaxVariableNumber(1)
	r := NewResolver("SELECT * FROM t WHERE name IN (%ARRAY%)", ctx)

	cs, err := r.Compile([]any{Many{"a", "o'brien"}})
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM t WHERE name IN ('a', 'o''brien')", cs.SQL)
	assert.Empty(t, cs.Args)
	assert.True(t, cs.NeedsValidation)
}

func TestCompileAtCeilingStillBinds(t *testing.T) {
	// Exactly at the ceiling is fine; only exceeding it inlines.
	ctx := testContext().WithMaxVariableNumber(4)
	r := NewResolver("SELECT * FROM t WHERE id IN (%ARRAY%) AND name = ?", ctx)

	cs, err := r.Compile([]any{Many{1, 2, 3}, "bob"})
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM t WHERE id IN (?, ?, ?) AND name = ?", cs.SQL)
	assert.False(t, cs.NeedsValidation)
}

func TestCompileStrictMode(t *testing.T) {
	ctx := testContext().WithMaxVariableNumber(2).WithStrictMaxArgs(true)
	r := NewResolver("SELECT * FROM t WHERE id IN (%ARRAY%)", ctx)

	_, err := r.Compile([]any{Many{1, 2, 3}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooManyArguments))
}

func TestCompileEmptyCollection(t *testing.T) {
	r := NewResolver("SELECT * FROM t WHERE id IN (%ARRAY%)", testContext())

	cs, err := r.Compile([]any{Many{}})
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM t WHERE id IN ()", cs.SQL)
	assert.Empty(t, cs.Args)
}

func TestCompileMultipleCollections(t *testing.T) {
	r := NewResolver("SELECT * FROM t WHERE a IN (%ARRAY%) AND b = ? AND c IN (%ARRAY%)", testContext())

	cs, err := r.Compile([]any{Many{1, 2}, "x", Many{3, 4, 5}})
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM t WHERE a IN (?, ?) AND b = ? AND c IN (?, ?, ?)", cs.SQL)
	assert.Equal(t, []any{int64(1), int64(2), "x", int64(3), int64(4), int64(5)}, cs.Args)
}

func TestCompileMarkerWithoutCollection(t *testing.T) {
	r := NewResolver("SELECT * FROM t WHERE id IN (%ARRAY%)", testContext())

	_, err := r.Compile([]any{"not-a-collection"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTemplateMismatch))
}

func TestCompileCollectionWithoutMarker(t *testing.T) {
	r := NewResolver("SELECT * FROM t WHERE a IN (%ARRAY%)", testContext())

	_, err := r.Compile([]any{Many{1}, Many{2}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTemplateMismatch))
}

func TestCompileReusesShapeAcrossValues(t *testing.T) {
	r := NewResolver("SELECT * FROM t WHERE id IN (%ARRAY%) AND name = ?", testContext())

	first, err := r.Compile([]any{Many{1, 2, 3}, "bob"})
	require.NoError(t, err)

	second, err := r.Compile([]any{Many{7, 8, 9}, "eve"})
	require.NoError(t, err)

	assert.Equal(t, first.SQL, second.SQL)
	assert.Equal(t, []any{int64(7), int64(8), int64(9), "eve"}, second.Args)
	// The earlier result must not be clobbered by the in-place scratch reuse.
	assert.Equal(t, []any{int64(1), int64(2), int64(3), "bob"}, first.Args)
}

func TestCompileShapeChangesResize(t *testing.T) {
	r := NewResolver("SELECT * FROM t WHERE id IN (%ARRAY%)", testContext())

	for _, size := range []int{1, 4, 2, 4, 1, 9} {
		values := make(Many, size)
		for i := range values {
			values[i] = i
		}
		cs, err := r.Compile([]any{values})
		require.NoError(t, err)

		assert.Equal(t, size, len(cs.Args), "size %d", size)
		assert.Equal(t, size, strings.Count(cs.SQL, "?"), "size %d", size)
	}
}

func TestCompileShapeCacheEviction(t *testing.T) {
	// More distinct shapes than the cache holds; every shape must still
	// compile correctly after its entry has been evicted and rebuilt.
	r := NewResolver("SELECT * FROM t WHERE id IN (%ARRAY%)", testContext())

	for round := 0; round < 2; round++ {
		for size := 1; size <= cacheSize+3; size++ {
			values := make(Many, size)
			for i := range values {
				values[i] = i * 10
			}
			cs, err := r.Compile([]any{values})
			require.NoError(t, err)
			assert.Equal(t, size, strings.Count(cs.SQL, "?"))
			assert.Equal(t, int64(0), cs.Args[0])
		}
	}
}

func TestCompileNeverCachesInlinedSQL(t *testing.T) {
	ctx := testContext().WithMaxVariableNumber(2)
	r := NewResolver("SELECT * FROM t WHERE id IN (%ARRAY%)", ctx)

	first, err := r.Compile([]any{Many{1, 2, 3}})
	require.NoError(t, err)
	assert.Contains(t, first.SQL, "1, 2, 3")

	// Same shape, different values: the inlined text must track the values.
	second, err := r.Compile([]any{Many{4, 5, 6}})
	require.NoError(t, err)
	assert.Contains(t, second.SQL, "4, 5, 6")
}

type suffixResolver struct{ suffix string }

func (r suffixResolver) Resolve(value any) any {
	return fmt.Sprint(value) + r.suffix
}

func TestCompileAppliesResolverEveryCall(t *testing.T) {
	ctx := testContext().WithResolver(suffixResolver{suffix: "!"})
	r := NewResolver("SELECT * FROM t WHERE id IN (%ARRAY%)", ctx)

	cs, err := r.Compile([]any{Many{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, []any{"1!", "2!"}, cs.Args)

	// Mutating a returned slice must not leak into later compilations.
	cs.Args[0] = "tainted"
	again, err := r.Compile([]any{Many{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, []any{"1!", "2!"}, again.Args)
}

func TestCompileNilScalarStaysBound(t *testing.T) {
	r := NewResolver("UPDATE t SET a = ? WHERE id IN (%ARRAY%)", testContext())

	cs, err := r.Compile([]any{nil, Many{1}})
	require.NoError(t, err)
	assert.Equal(t, []any{nil, int64(1)}, cs.Args)
}

func BenchmarkCompileWarmShape(b *testing.B) {
	r := NewResolver("SELECT * FROM t WHERE id IN (%ARRAY%) AND name = ?", testContext())
	args := []any{Many{1, 2, 3, 4, 5, 6, 7, 8}, "bob"}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.Compile(args); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompileColdShape(b *testing.B) {
	r := NewResolver("SELECT * FROM t WHERE id IN (%ARRAY%)", testContext())

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		values := make(Many, i%20+1)
		for j := range values {
			values[j] = j
		}
		if _, err := r.Compile([]any{values}); err != nil {
			b.Fatal(err)
		}
	}
}

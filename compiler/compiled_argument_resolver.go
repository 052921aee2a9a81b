package compiler

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/Konsultn-Engineering/sqlex/cache"
)

const (
	cacheSize        = 5
	sqlPreviewLength = 200
)

// CompiledArgumentResolver turns a templated SQL string plus a raw argument
// list into a CompiledStatement. Collection arguments expand into additional
// placeholders or, when the total bind count would exceed the context's
// MaxVariableNumber, into inlined literal text.
//
// A resolver is bound to one templated SQL string and lives as long as the
// statement that owns it. Results are cached by the shape of the collection
// arguments (their ordered sizes, not their contents), so compiling the same
// template repeatedly with same-sized IN lists skips the template scan and
// the array allocation. The internal caches are unsynchronized; share a
// resolver across goroutines only behind external locking (see Statement).
type CompiledArgumentResolver struct {
	sql string
	ctx *CompileContext

	hasMarkers bool
	sqlCache   *cache.LRU[string, string]
	argCache   *cache.LRU[string, []any]

	args        []any
	collections []Many

	compiledArgs []any
}

func NewResolver(sql string, ctx *CompileContext) *CompiledArgumentResolver {
	r := &CompiledArgumentResolver{
		sql: sql,
		ctx: ctx,
	}
	if strings.Contains(sql, ArrayPlaceholder) {
		r.hasMarkers = true
		r.sqlCache = cache.NewLRU[string, string](cacheSize)
		r.argCache = cache.NewLRU[string, []any](cacheSize)
	}
	return r
}

// Compile resolves the template against args. It may be called repeatedly
// with different argument values; calls whose collection arguments have the
// same sizes hit the shape caches.
func (r *CompiledArgumentResolver) Compile(args []any) (CompiledStatement, error) {
	r.args = args
	if !r.hasMarkers {
		return r.compileDirect()
	}
	r.findCollectionArgs()

	key := r.shapeKey()
	totalArgSize := r.argSizeWithCollections()
	largeArgMode := totalArgSize > r.ctx.MaxVariableNumber

	if largeArgMode && r.ctx.StrictMaxArgs {
		return CompiledStatement{}, fmt.Errorf("%w: %d needed, %d allowed",
			ErrTooManyArguments, totalArgSize, r.ctx.MaxVariableNumber)
	}

	sqlText, err := r.resolveSQLString(key, totalArgSize, largeArgMode)
	if err != nil {
		return CompiledStatement{}, err
	}

	return CompiledStatement{
		SQL:             sqlText,
		Args:            r.resolveArguments(key, totalArgSize, largeArgMode),
		NeedsValidation: largeArgMode,
	}, nil
}

// compileDirect is the fast path for templates without array markers: the
// SQL passes through unchanged, no caching, no scan.
func (r *CompiledArgumentResolver) compileDirect() (CompiledStatement, error) {
	for _, arg := range r.args {
		if _, ok := arg.(Many); ok {
			return CompiledStatement{}, fmt.Errorf(
				"%w: collection argument bound but template has no array markers",
				ErrTemplateMismatch)
		}
	}
	return CompiledStatement{
		SQL:  r.sql,
		Args: r.applyResolver(r.args),
	}, nil
}

func (r *CompiledArgumentResolver) findCollectionArgs() {
	r.collections = r.collections[:0]
	for _, arg := range r.args {
		if m, ok := arg.(Many); ok {
			r.collections = append(r.collections, m)
		}
	}
}

// shapeKey encodes the ordered collection sizes as fixed-width binary, so
// adjacent sizes can never collide the way decimal concatenation can.
func (r *CompiledArgumentResolver) shapeKey() string {
	key := make([]byte, 0, 4*len(r.collections))
	for _, coll := range r.collections {
		key = binary.BigEndian.AppendUint32(key, uint32(len(coll)))
	}
	return string(key)
}

func (r *CompiledArgumentResolver) argSizeWithCollections() int {
	size := len(r.args)
	for _, coll := range r.collections {
		size += len(coll) - 1
	}
	return size
}

func (r *CompiledArgumentResolver) argSizeWithoutCollections() int {
	return len(r.args) - len(r.collections)
}

func (r *CompiledArgumentResolver) resolveSQLString(key string, totalArgSize int, largeArgMode bool) (string, error) {
	if !largeArgMode {
		if cached, ok := r.sqlCache.Get(key); ok {
			return cached, nil
		}
	}

	var sb strings.Builder
	sb.Grow(len(r.sql) + 2*totalArgSize)

	rest := r.sql
	index := 0
	for {
		i := strings.Index(rest, ArrayPlaceholder)
		if i < 0 {
			break
		}
		if index >= len(r.collections) {
			return "", fmt.Errorf("%w: marker %d has no collection argument",
				ErrTemplateMismatch, index)
		}
		sb.WriteString(rest[:i])
		values := r.collections[index]
		if largeArgMode {
			r.appendInlineCollection(&sb, values)
		} else {
			appendPlaceholders(&sb, len(values))
		}
		rest = rest[i+len(ArrayPlaceholder):]
		index++
	}
	if index != len(r.collections) {
		return "", fmt.Errorf("%w: %d markers for %d collection arguments",
			ErrTemplateMismatch, index, len(r.collections))
	}
	sb.WriteString(rest)

	result := sb.String()
	if largeArgMode {
		// Inlined text depends on values, not just shape; never cache it.
		log().Warn("statement had too many arguments to bind, inlined into SQL instead; consider fewer arguments",
			"needed", totalArgSize,
			"max", r.ctx.MaxVariableNumber,
			"sql", preview(result))
	} else {
		r.sqlCache.Add(key, result)
	}
	return result, nil
}

func (r *CompiledArgumentResolver) appendInlineCollection(sb *strings.Builder, values Many) {
	for i, val := range values {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(r.ctx.Dialect.RenderValue(r.ctx.Resolver.Resolve(val)))
	}
}

func appendPlaceholders(sb *strings.Builder, n int) {
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(Placeholder)
	}
}

func (r *CompiledArgumentResolver) resolveArguments(key string, totalArgSize int, largeArgMode bool) []any {
	target, ok := r.argCache.Get(key)
	if !ok {
		size := totalArgSize
		if largeArgMode {
			size = r.argSizeWithoutCollections()
		}
		if r.compiledArgs != nil && len(r.compiledArgs) == size {
			target = r.compiledArgs
		} else {
			target = make([]any, size)
		}
		r.argCache.Add(key, target)
	}
	r.compiledArgs = target
	r.populateCompiledArgs(target, largeArgMode)
	return r.applyResolver(target)
}

// populateCompiledArgs overwrites target in place on every call; cached
// arrays are scratch space, never handed to callers.
func (r *CompiledArgumentResolver) populateCompiledArgs(target []any, largeArgMode bool) {
	i := 0
	for _, arg := range r.args {
		if coll, ok := arg.(Many); ok {
			if largeArgMode {
				continue // already inlined into the SQL text
			}
			for _, val := range coll {
				target[i] = val
				i++
			}
			continue
		}
		target[i] = arg
		i++
	}
}

// applyResolver maps every slot through the argument resolver into a fresh
// slice on every call, since resolver behavior may be contextual.
func (r *CompiledArgumentResolver) applyResolver(args []any) []any {
	result := make([]any, len(args))
	for i, arg := range args {
		result[i] = r.ctx.Resolver.Resolve(arg)
	}
	return result
}

func preview(sql string) string {
	if len(sql) <= sqlPreviewLength {
		return sql
	}
	return sql[:sqlPreviewLength] + " ..."
}

package dialect

import "strings"

type Dialect interface {
	Name() string
	QuoteIdentifier(name string) string
	Placeholder(n int) string
	RenderValue(v any) string
	// MaxParameters is the engine's bind-parameter ceiling; statements that
	// would exceed it fall back to inlined literals.
	MaxParameters() int
}

// Rebind converts "?" placeholders to the dialect's native form, skipping
// anything inside single-quoted string literals. Dialects that already use
// "?" get the input back unchanged.
func Rebind(d Dialect, query string) string {
	if d.Placeholder(1) == "?" {
		return query
	}

	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	inString := false
	for i := 0; i < len(query); i++ {
		ch := query[i]
		switch {
		case ch == '\'':
			inString = !inString
			sb.WriteByte(ch)
		case ch == '?' && !inString:
			n++
			sb.WriteString(d.Placeholder(n))
		default:
			sb.WriteByte(ch)
		}
	}
	return sb.String()
}

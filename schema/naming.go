package schema

import (
	"strings"
	"unicode"

	pluralizer "github.com/gertd/go-pluralize"
)

// pluralizeClient is a singleton instance for consistent pluralization behavior.
var pluralizeClient = pluralizer.NewClient()

// TableName derives a table name from a Go type name: snake_case, pluralized.
// "UserProfile" becomes "user_profiles".
func TableName(typeName string) string {
	return pluralizeClient.Plural(SnakeCase(typeName))
}

// ColumnName derives a column name from a Go field name: snake_case,
// singular. "CreatedAt" becomes "created_at".
func ColumnName(fieldName string) string {
	return SnakeCase(fieldName)
}

// SnakeCase converts CamelCase or mixedCase to snake_case, keeping acronym
// runs together ("HTTPServer" becomes "http_server").
func SnakeCase(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 4)

	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (!unicode.IsUpper(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				sb.WriteByte('_')
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

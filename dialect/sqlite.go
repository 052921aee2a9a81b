package dialect

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// SQLite's compiled-in SQLITE_MAX_VARIABLE_NUMBER default.
const sqliteMaxVariableNumber = 999

type SQLite struct{}

func NewSQLiteDialect() Dialect {
	return &SQLite{}
}

func (s SQLite) Name() string {
	return "sqlite"
}

func (s SQLite) QuoteIdentifier(name string) string {
	return `"` + name + `"`
}

func (s SQLite) Placeholder(n int) string {
	return "?"
}

func (SQLite) RenderValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'"
	case bool:
		if val {
			return "1"
		}
		return "0"
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", val)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val)
	case float32, float64:
		return strconv.FormatFloat(reflect.ValueOf(val).Float(), 'f', -1, 64)
	case time.Time:
		return strconv.FormatInt(val.UnixMilli(), 10)
	case []byte:
		return fmt.Sprintf("X'%x'", val) // hex blob literal
	default:
		return "'" + strings.ReplaceAll(fmt.Sprint(val), "'", "''") + "'"
	}
}

func (s SQLite) MaxParameters() int {
	return sqliteMaxVariableNumber
}

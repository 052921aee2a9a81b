package compiler

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// ArgumentResolver converts a domain-level bound value into a primitive the
// execution layer accepts. Implementations must be pure; Resolve is applied
// once per final bind slot on every compilation.
type ArgumentResolver interface {
	Resolve(value any) any
}

// DefaultArgumentResolver maps common Go and domain types onto SQL-bindable
// primitives: bools become 0/1, timestamps become Unix millis, identifier
// types become their string form.
type DefaultArgumentResolver struct{}

func (DefaultArgumentResolver) Resolve(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case bool:
		if v {
			return int64(1)
		}
		return int64(0)
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case uint:
		return int64(v)
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		return v
	case float32:
		return float64(v)
	case float64:
		return v
	case string:
		return v
	case []byte:
		return v
	case time.Time:
		return v.UnixMilli()
	case uuid.UUID:
		return v.String()
	case ulid.ULID:
		return v.String()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

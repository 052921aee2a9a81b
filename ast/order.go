package ast

import (
	"hash/fnv"

	"github.com/Konsultn-Engineering/sqlex/utils"
)

// Order is an ORDER BY term: an expression plus direction, or an explicit
// value ordering (ByValues) that renders as a CASE expression.
type Order struct {
	Expr       Node
	Descending bool
	ByValues   []any
}

func Asc(f *Field) *Order  { return f.Asc() }
func Desc(f *Field) *Order { return f.Desc() }

func (o *Order) Type() NodeType         { return NodeOrder }
func (o *Order) Accept(v Visitor) error { return v.VisitOrder(o) }
func (o *Order) Fingerprint() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("order:"))
	if o.Expr != nil {
		_, _ = h.Write(utils.U64ToBytes(o.Expr.Fingerprint()))
	}
	if o.Descending {
		_, _ = h.Write([]byte("desc"))
	}
	for _, val := range o.ByValues {
		fingerprintValue(h, val)
	}
	return h.Sum64()
}

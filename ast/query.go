package ast

import (
	"hash/fnv"
	"strconv"

	"github.com/Konsultn-Engineering/sqlex/utils"
)

// NoLimit marks a query without a LIMIT clause.
const NoLimit = -1

// Query is a composed SELECT statement. A Query is itself a Node, so it can
// appear as the right-hand side of a criterion (a subquery).
type Query struct {
	Fields      []Node
	From        *Table
	Criteria    []Criterion
	Orders      []*Order
	LimitCount  int
	OffsetCount int
	Distinct    bool
}

// Select starts a query over the given fields. No fields selects "*".
func Select(fields ...*Field) *Query {
	q := &Query{LimitCount: NoLimit}
	for _, f := range fields {
		q.Fields = append(q.Fields, f)
	}
	return q
}

func (q *Query) SelectDistinct() *Query {
	q.Distinct = true
	return q
}

func (q *Query) FromTable(t *Table) *Query {
	q.From = t
	return q
}

// Where appends criteria; multiple criteria are joined with AND.
func (q *Query) Where(criteria ...Criterion) *Query {
	for _, c := range criteria {
		if c != nil {
			q.Criteria = append(q.Criteria, c)
		}
	}
	return q
}

func (q *Query) OrderBy(orders ...*Order) *Query {
	q.Orders = append(q.Orders, orders...)
	return q
}

func (q *Query) Limit(n int) *Query {
	q.LimitCount = n
	return q
}

func (q *Query) Offset(n int) *Query {
	q.OffsetCount = n
	return q
}

func (q *Query) Type() NodeType         { return NodeQuery }
func (q *Query) Accept(v Visitor) error { return v.VisitQuery(q) }
func (q *Query) Fingerprint() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("query:"))
	if q.Distinct {
		_, _ = h.Write([]byte("distinct"))
	}
	for _, f := range q.Fields {
		_, _ = h.Write(utils.U64ToBytes(f.Fingerprint()))
	}
	if q.From != nil {
		_, _ = h.Write(utils.U64ToBytes(q.From.Fingerprint()))
	}
	for _, c := range q.Criteria {
		_, _ = h.Write(utils.U64ToBytes(c.Fingerprint()))
	}
	for _, o := range q.Orders {
		_, _ = h.Write(utils.U64ToBytes(o.Fingerprint()))
	}
	_, _ = h.Write([]byte(strconv.Itoa(q.LimitCount) + ":" + strconv.Itoa(q.OffsetCount)))
	return h.Sum64()
}

package ast

import (
	"hash/fnv"
	"strconv"

	"github.com/Konsultn-Engineering/sqlex/utils"
)

// BinaryCriterion compares a field against a single right-hand value, which
// may be a scalar, another *Field, or a *Query.
type BinaryCriterion struct {
	Left  *Field
	Op    Operator
	Right any
}

func (c *BinaryCriterion) criterion()             {}
func (c *BinaryCriterion) Type() NodeType         { return NodeBinaryCriterion }
func (c *BinaryCriterion) Accept(v Visitor) error { return v.VisitBinaryCriterion(c) }
func (c *BinaryCriterion) Fingerprint() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("bin:" + string(c.Op)))
	_, _ = h.Write(utils.U64ToBytes(c.Left.Fingerprint()))
	fingerprintValue(h, c.Right)
	return h.Sum64()
}

// CaseInsensitiveEqualsCriterion compares for equality ignoring case.
type CaseInsensitiveEqualsCriterion struct {
	Left  *Field
	Value any
}

func (c *CaseInsensitiveEqualsCriterion) criterion()     {}
func (c *CaseInsensitiveEqualsCriterion) Type() NodeType { return NodeCaseInsensitiveEqualsCriterion }
func (c *CaseInsensitiveEqualsCriterion) Accept(v Visitor) error {
	return v.VisitCaseInsensitiveEqualsCriterion(c)
}
func (c *CaseInsensitiveEqualsCriterion) Fingerprint() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("nocase:"))
	_, _ = h.Write(utils.U64ToBytes(c.Left.Fingerprint()))
	fingerprintValue(h, c.Value)
	return h.Sum64()
}

// LikeCriterion matches a field against a pattern, with an optional escape
// rune (NoEscape means none). The pattern is bound as-is.
type LikeCriterion struct {
	Left    *Field
	Op      Operator
	Pattern any
	Escape  rune
}

func (c *LikeCriterion) criterion()             {}
func (c *LikeCriterion) Type() NodeType         { return NodeLikeCriterion }
func (c *LikeCriterion) Accept(v Visitor) error { return v.VisitLikeCriterion(c) }
func (c *LikeCriterion) Fingerprint() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("like:" + string(c.Op) + strconv.Itoa(int(c.Escape))))
	_, _ = h.Write(utils.U64ToBytes(c.Left.Fingerprint()))
	fingerprintValue(h, c.Pattern)
	return h.Sum64()
}

// InCollectionCriterion matches a field against a collection of values. A nil
// collection renders as an empty membership test rather than failing.
type InCollectionCriterion struct {
	Left   *Field
	Op     Operator
	Values []any
}

func (c *InCollectionCriterion) criterion()             {}
func (c *InCollectionCriterion) Type() NodeType         { return NodeInCollectionCriterion }
func (c *InCollectionCriterion) Accept(v Visitor) error { return v.VisitInCollectionCriterion(c) }
func (c *InCollectionCriterion) Fingerprint() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("incoll:" + string(c.Op)))
	_, _ = h.Write(utils.U64ToBytes(c.Left.Fingerprint()))
	if c.Values == nil {
		_, _ = h.Write([]byte("nil"))
	}
	for _, val := range c.Values {
		fingerprintValue(h, val)
	}
	return h.Sum64()
}

// BetweenCriterion is a range comparison. It always binds exactly two values,
// nil or not.
type BetweenCriterion struct {
	Left  *Field
	Op    Operator
	Lower any
	Upper any
}

func (c *BetweenCriterion) criterion()             {}
func (c *BetweenCriterion) Type() NodeType         { return NodeBetweenCriterion }
func (c *BetweenCriterion) Accept(v Visitor) error { return v.VisitBetweenCriterion(c) }
func (c *BetweenCriterion) Fingerprint() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("between:" + string(c.Op)))
	_, _ = h.Write(utils.U64ToBytes(c.Left.Fingerprint()))
	fingerprintValue(h, c.Lower)
	fingerprintValue(h, c.Upper)
	return h.Sum64()
}

// ConjunctionCriterion joins criteria with AND or OR.
type ConjunctionCriterion struct {
	Op       Operator
	Criteria []Criterion
}

func (c *ConjunctionCriterion) criterion()             {}
func (c *ConjunctionCriterion) Type() NodeType         { return NodeConjunctionCriterion }
func (c *ConjunctionCriterion) Accept(v Visitor) error { return v.VisitConjunctionCriterion(c) }
func (c *ConjunctionCriterion) Fingerprint() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("conj:" + string(c.Op)))
	for _, crit := range c.Criteria {
		_, _ = h.Write(utils.U64ToBytes(crit.Fingerprint()))
	}
	return h.Sum64()
}

// NegationCriterion inverts a criterion with NOT.
type NegationCriterion struct {
	Criterion Criterion
}

func (c *NegationCriterion) criterion()             {}
func (c *NegationCriterion) Type() NodeType         { return NodeNegationCriterion }
func (c *NegationCriterion) Accept(v Visitor) error { return v.VisitNegationCriterion(c) }
func (c *NegationCriterion) Fingerprint() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("not:"))
	_, _ = h.Write(utils.U64ToBytes(c.Criterion.Fingerprint()))
	return h.Sum64()
}

// LiteralCriterion treats an arbitrary value or field as a boolean expression.
type LiteralCriterion struct {
	Value any
}

func (c *LiteralCriterion) criterion()             {}
func (c *LiteralCriterion) Type() NodeType         { return NodeLiteralCriterion }
func (c *LiteralCriterion) Accept(v Visitor) error { return v.VisitLiteralCriterion(c) }
func (c *LiteralCriterion) Fingerprint() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("lit:"))
	fingerprintValue(h, c.Value)
	return h.Sum64()
}

// And joins criteria with AND. Nil criteria are skipped.
func And(criteria ...Criterion) Criterion {
	return conjoin(OpAnd, criteria)
}

// Or joins criteria with OR. Nil criteria are skipped.
func Or(criteria ...Criterion) Criterion {
	return conjoin(OpOr, criteria)
}

// Not inverts a criterion.
func Not(criterion Criterion) Criterion {
	return &NegationCriterion{Criterion: criterion}
}

func conjoin(op Operator, criteria []Criterion) Criterion {
	kept := make([]Criterion, 0, len(criteria))
	for _, c := range criteria {
		if c != nil {
			kept = append(kept, c)
		}
	}
	if len(kept) == 1 {
		return kept[0]
	}
	return &ConjunctionCriterion{Op: op, Criteria: kept}
}

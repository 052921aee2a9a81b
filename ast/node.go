package ast

type NodeType int

const (
	NodeField NodeType = iota
	NodeTable
	NodeBinaryCriterion
	NodeCaseInsensitiveEqualsCriterion
	NodeLikeCriterion
	NodeInCollectionCriterion
	NodeBetweenCriterion
	NodeConjunctionCriterion
	NodeNegationCriterion
	NodeLiteralCriterion
	NodeOrder
	NodeQuery
)

type Node interface {
	Type() NodeType
	Accept(v Visitor) error
	Fingerprint() uint64
}

// Criterion is a Node that evaluates to a boolean in SQL.
type Criterion interface {
	Node
	criterion()
}

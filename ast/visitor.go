package ast

type Visitor interface {
	VisitField(*Field) error
	VisitTable(*Table) error

	VisitBinaryCriterion(*BinaryCriterion) error
	VisitCaseInsensitiveEqualsCriterion(*CaseInsensitiveEqualsCriterion) error
	VisitLikeCriterion(*LikeCriterion) error
	VisitInCollectionCriterion(*InCollectionCriterion) error
	VisitBetweenCriterion(*BetweenCriterion) error
	VisitConjunctionCriterion(*ConjunctionCriterion) error
	VisitNegationCriterion(*NegationCriterion) error
	VisitLiteralCriterion(*LiteralCriterion) error

	VisitOrder(*Order) error
	VisitQuery(*Query) error

	Build(root Node) (string, []any, error)
}

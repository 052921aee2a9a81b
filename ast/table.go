package ast

import (
	"github.com/Konsultn-Engineering/sqlex/schema"
	"github.com/Konsultn-Engineering/sqlex/utils"
)

type Table struct {
	Name  string
	Alias string
}

func NewTable(name string) *Table {
	return &Table{Name: name}
}

// TableFor derives a table from a Go type name using the schema naming rules,
// e.g. "UserProfile" becomes "user_profiles".
func TableFor(typeName string) *Table {
	return &Table{Name: schema.TableName(typeName)}
}

func (t *Table) As(alias string) *Table {
	return &Table{Name: t.Name, Alias: alias}
}

// Field returns a field qualified by this table's alias, or name when no
// alias is set.
func (t *Table) Field(expression string) *Field {
	qualifier := t.Alias
	if qualifier == "" {
		qualifier = t.Name
	}
	return QualifiedF(expression, qualifier)
}

func (t *Table) Type() NodeType         { return NodeTable }
func (t *Table) Accept(v Visitor) error { return v.VisitTable(t) }
func (t *Table) Fingerprint() uint64 {
	return utils.FingerprintString("table:" + t.Name + "." + t.Alias)
}

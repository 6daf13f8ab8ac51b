package arel

import "fmt"

// Visitor has one method per node variant. Implementations are driven by
// Accept, which is the only place node kinds are switched on.
type Visitor interface {
	VisitTable(*Table) error
	VisitTableAlias(*TableAlias) error
	VisitAttribute(*Attribute) error
	VisitSQLLiteral(SQLLiteral) error
	VisitCasted(*Casted) error
	VisitQuoted(*Quoted) error
	VisitComparison(*Comparison) error
	VisitIn(*In) error
	VisitAnd(*And) error
	VisitOr(*Or) error
	VisitNot(*Not) error
	VisitGrouping(*Grouping) error
	VisitOrdering(*Ordering) error
	VisitJoin(*Join) error
	VisitOn(*On) error
	VisitSelectCore(*SelectCore) error
	VisitSelectStatement(*SelectStatement) error
	VisitLimit(*Limit) error
	VisitOffset(*Offset) error
	VisitLock(*Lock) error
	VisitInsertStatement(*InsertStatement) error
	VisitValues(*Values) error
}

// Accept dispatches n to the matching Visitor method.
func Accept(v Visitor, n Node) error {
	if isNil(n) {
		return fmt.Errorf("%w: nil node", ErrInvalidArgument)
	}

	switch n := n.(type) {
	case *Table:
		return v.VisitTable(n)
	case *TableAlias:
		return v.VisitTableAlias(n)
	case *Attribute:
		return v.VisitAttribute(n)
	case SQLLiteral:
		return v.VisitSQLLiteral(n)
	case *Casted:
		return v.VisitCasted(n)
	case *Quoted:
		return v.VisitQuoted(n)
	case *Comparison:
		return v.VisitComparison(n)
	case *In:
		return v.VisitIn(n)
	case *And:
		return v.VisitAnd(n)
	case *Or:
		return v.VisitOr(n)
	case *Not:
		return v.VisitNot(n)
	case *Grouping:
		return v.VisitGrouping(n)
	case *Ordering:
		return v.VisitOrdering(n)
	case *Join:
		return v.VisitJoin(n)
	case *On:
		return v.VisitOn(n)
	case *SelectCore:
		return v.VisitSelectCore(n)
	case *SelectStatement:
		return v.VisitSelectStatement(n)
	case *Limit:
		return v.VisitLimit(n)
	case *Offset:
		return v.VisitOffset(n)
	case *Lock:
		return v.VisitLock(n)
	case *InsertStatement:
		return v.VisitInsertStatement(n)
	case *Values:
		return v.VisitValues(n)
	default:
		return fmt.Errorf("%w: unsupported node type %T", ErrInvalidArgument, n)
	}
}

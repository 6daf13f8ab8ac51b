package arel

// InsertStatement targets one relation with an optional column list and
// either a values payload or a sub-select.
type InsertStatement struct {
	Relation Node
	Values   Node
	Select   *SelectStatement
	Columns  []*Attribute
}

// SetRelation sets the target relation.
func (s *InsertStatement) SetRelation(relation Node) *InsertStatement {
	s.Relation = relation
	return s
}

// SetColumns sets the column list.
func (s *InsertStatement) SetColumns(columns ...*Attribute) *InsertStatement {
	s.Columns = columns
	return s
}

// SetValues sets the values payload: a *Values node or raw SQL.
func (s *InsertStatement) SetValues(values Node) *InsertStatement {
	s.Values = values
	return s
}

// SetSelect sets the sub-select supplying rows.
func (s *InsertStatement) SetSelect(stmt *SelectStatement) *InsertStatement {
	s.Select = stmt
	return s
}

// Values is one row of values, aligned with Columns when present.
type Values struct {
	Exprs   []Node
	Columns []*Attribute
}

// CreateValues builds a row of values. Native values are cast through the
// attribute at the same position.
func CreateValues(values []any, columns []*Attribute) *Values {
	exprs := make([]Node, len(values))
	for i, v := range values {
		if n, ok := v.(Node); ok && !isNil(n) {
			exprs[i] = n
			continue
		}
		var attr *Attribute
		if i < len(columns) {
			attr = columns[i]
		}
		exprs[i] = &Casted{Value: v, Attribute: attr}
	}
	return &Values{Exprs: exprs, Columns: columns}
}

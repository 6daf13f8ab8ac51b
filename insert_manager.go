package arel

import "fmt"

// Assignment pairs a column with the value inserted into it.
type Assignment struct {
	Attribute *Attribute
	Value     any
}

// Assign pairs the attribute with a value for an insert.
func (a *Attribute) Assign(value any) Assignment {
	return Assignment{Attribute: a, Value: value}
}

// InsertManager accumulates an INSERT statement with the same error
// discipline as SelectManager.
type InsertManager struct {
	ast *InsertStatement
	err error
}

// NewInsertManager starts an empty INSERT.
func NewInsertManager() *InsertManager {
	return &InsertManager{ast: &InsertStatement{}}
}

// AST returns the statement under construction.
func (m *InsertManager) AST() *InsertStatement {
	return m.ast
}

// Err returns the first error recorded by the manager.
func (m *InsertManager) Err() error {
	return m.err
}

// Into sets the target relation.
func (m *InsertManager) Into(relation Node) *InsertManager {
	if m.err != nil {
		return m
	}
	if isNil(relation) {
		m.err = fmt.Errorf("%w: insert target cannot be nil", ErrInvalidArgument)
		return m
	}
	m.ast.SetRelation(relation)
	return m
}

// Columns sets the column list.
func (m *InsertManager) Columns(columns ...*Attribute) *InsertManager {
	if m.err != nil {
		return m
	}
	for _, c := range columns {
		if c == nil || c.Name == "" {
			m.err = fmt.Errorf("%w: insert column must be a named attribute", ErrInvalidArgument)
			return m
		}
	}
	m.ast.SetColumns(columns...)
	return m
}

// Values sets the values payload.
func (m *InsertManager) Values(values Node) *InsertManager {
	if m.err != nil {
		return m
	}
	if isNil(values) {
		m.err = fmt.Errorf("%w: insert values cannot be nil", ErrInvalidArgument)
		return m
	}
	m.ast.SetValues(values)
	return m
}

// Select supplies the inserted rows from a sub-select.
func (m *InsertManager) Select(sm *SelectManager) *InsertManager {
	if m.err != nil {
		return m
	}
	if sm == nil {
		m.err = fmt.Errorf("%w: insert select cannot be nil", ErrInvalidArgument)
		return m
	}
	stmt, err := sm.Build()
	if err != nil {
		m.err = err
		return m
	}
	m.ast.SetSelect(stmt)
	return m
}

// Insert sets the payload. A string is passed through as a raw VALUES
// fragment; a Node is used as is; a []Assignment sets the columns and one
// row of values, and the target relation when none is set yet.
func (m *InsertManager) Insert(values any) *InsertManager {
	if m.err != nil {
		return m
	}

	switch v := values.(type) {
	case string:
		if v == "" {
			m.err = fmt.Errorf("%w: raw values fragment cannot be empty", ErrInvalidArgument)
			return m
		}
		m.ast.SetValues(SQLLiteral(v))
	case []Assignment:
		return m.assign(v)
	case Node:
		return m.Values(v)
	default:
		m.err = fmt.Errorf("%w: cannot insert %T", ErrInvalidArgument, values)
	}
	return m
}

func (m *InsertManager) assign(assignments []Assignment) *InsertManager {
	if len(assignments) == 0 {
		m.err = fmt.Errorf("%w: insert requires at least one assignment", ErrInvalidArgument)
		return m
	}

	columns := make([]*Attribute, len(assignments))
	values := make([]any, len(assignments))
	for i, a := range assignments {
		if a.Attribute == nil {
			m.err = fmt.Errorf("%w: assignment %d has no attribute", ErrInvalidArgument, i)
			return m
		}
		columns[i] = a.Attribute
		values[i] = a.Value
	}

	if isNil(m.ast.Relation) {
		m.ast.SetRelation(columns[0].Relation)
	}
	m.ast.SetColumns(columns...).SetValues(CreateValues(values, columns))
	return m
}

// Build returns the statement, or the first recorded error.
func (m *InsertManager) Build() (*InsertStatement, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.ast, nil
}

// Compile renders the statement for dialect d.
func (m *InsertManager) Compile(d Dialect) (string, error) {
	stmt, err := m.Build()
	if err != nil {
		return "", err
	}
	return Compile(d, stmt)
}

// ToSQL renders the statement as ANSI SQL.
func (m *InsertManager) ToSQL() (string, error) {
	return m.Compile(ANSI)
}

// MustSQL renders the statement as ANSI SQL and panics on error.
func (m *InsertManager) MustSQL() string {
	sql, err := m.ToSQL()
	if err != nil {
		panic(err)
	}
	return sql
}

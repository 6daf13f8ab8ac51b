package arel

import "fmt"

// SelectManager accumulates a SELECT statement. Methods mutate the
// statement and return the manager for chaining. The first error is
// recorded and every later call becomes a no-op; it surfaces from Err,
// Build, ToSQL and Compile.
//
// A SelectManager is not safe for concurrent mutation.
type SelectManager struct {
	ast  *SelectStatement
	core *SelectCore
	err  error
}

// NewSelectManager starts a SELECT over from, which may be nil.
func NewSelectManager(from Node) *SelectManager {
	core := &SelectCore{}
	if !isNil(from) {
		core.From = from
	}
	return &SelectManager{
		ast:  &SelectStatement{Cores: []*SelectCore{core}},
		core: core,
	}
}

// AST returns the statement under construction.
func (m *SelectManager) AST() *SelectStatement {
	return m.ast
}

// Err returns the first error recorded by the manager.
func (m *SelectManager) Err() error {
	return m.err
}

// From replaces the source relation of the current core.
func (m *SelectManager) From(relation any) *SelectManager {
	if m.err != nil {
		return m
	}
	n, ok := nodeOf(relation)
	if !ok {
		m.err = fmt.Errorf("%w: cannot select from %T", ErrInvalidArgument, relation)
		return m
	}
	m.core.From = n
	return m
}

// Project appends projections. Strings are taken as raw SQL.
func (m *SelectManager) Project(exprs ...any) *SelectManager {
	if m.err != nil {
		return m
	}
	nodes, err := nodesOf("project", exprs)
	if err != nil {
		m.err = err
		return m
	}
	m.core.Projections = append(m.core.Projections, nodes...)
	return m
}

// Distinct marks the current core SELECT DISTINCT.
func (m *SelectManager) Distinct() *SelectManager {
	if m.err != nil {
		return m
	}
	m.core.Distinct = true
	return m
}

// Where appends a predicate; multiple predicates are joined with AND.
func (m *SelectManager) Where(predicate Node) *SelectManager {
	if m.err != nil {
		return m
	}
	if isNil(predicate) {
		m.err = fmt.Errorf("%w: where predicate cannot be nil", ErrInvalidArgument)
		return m
	}
	m.core.Wheres = append(m.core.Wheres, predicate)
	return m
}

// Having appends a HAVING predicate.
func (m *SelectManager) Having(predicate Node) *SelectManager {
	if m.err != nil {
		return m
	}
	if isNil(predicate) {
		m.err = fmt.Errorf("%w: having predicate cannot be nil", ErrInvalidArgument)
		return m
	}
	m.core.Havings = append(m.core.Havings, predicate)
	return m
}

// Group appends GROUP BY expressions. Strings are taken as raw SQL.
func (m *SelectManager) Group(exprs ...any) *SelectManager {
	if m.err != nil {
		return m
	}
	nodes, err := nodesOf("group by", exprs)
	if err != nil {
		m.err = err
		return m
	}
	m.core.Groups = append(m.core.Groups, nodes...)
	return m
}

// Order appends ORDER BY expressions. Strings are taken as raw SQL.
func (m *SelectManager) Order(exprs ...any) *SelectManager {
	if m.err != nil {
		return m
	}
	nodes, err := nodesOf("order by", exprs)
	if err != nil {
		m.err = err
		return m
	}
	m.ast.Orders = append(m.ast.Orders, nodes...)
	return m
}

// Join joins relation to the source. A nil relation is a no-op, so
// optional joins need no branching at the call site. A string is taken as
// a raw join fragment. Attach the condition with On.
func (m *SelectManager) Join(relation any, kind ...JoinKind) *SelectManager {
	if m.err != nil {
		return m
	}

	var right Node
	switch r := relation.(type) {
	case nil:
		return m
	case string:
		if r == "" {
			return m
		}
		return m.StringJoin(r)
	case *SelectManager:
		if r == nil {
			return m
		}
		right = r.AST()
	case Node:
		if isNil(r) {
			return m
		}
		right = r
	default:
		m.err = fmt.Errorf("%w: cannot join %T", ErrInvalidArgument, relation)
		return m
	}

	j, err := CreateJoin(m.core.From, right, kind...)
	if err != nil {
		m.err = err
		return m
	}
	m.core.Joins = append(m.core.Joins, j)
	return m
}

// OuterJoin is Join(relation, OuterJoin).
func (m *SelectManager) OuterJoin(relation any) *SelectManager {
	return m.Join(relation, OuterJoin)
}

// StringJoin appends a raw join fragment.
func (m *SelectManager) StringJoin(fragment string) *SelectManager {
	if m.err != nil {
		return m
	}
	m.core.Joins = append(m.core.Joins, CreateStringJoin(fragment))
	return m
}

// On attaches the condition of the most recent join. Several predicates
// are joined with AND.
func (m *SelectManager) On(exprs ...Node) *SelectManager {
	if m.err != nil {
		return m
	}
	n := len(m.core.Joins)
	if n == 0 || m.core.Joins[n-1].Kind == StringJoin {
		m.err = fmt.Errorf("%w: on called with no pending join", ErrInvalidState)
		return m
	}
	if len(exprs) == 0 {
		m.err = fmt.Errorf("%w: on requires a predicate", ErrInvalidArgument)
		return m
	}
	for _, e := range exprs {
		if isNil(e) {
			m.err = fmt.Errorf("%w: on predicate cannot be nil", ErrInvalidArgument)
			return m
		}
	}

	var expr Node = exprs[0]
	if len(exprs) > 1 {
		expr = NewAnd(exprs...)
	}
	m.core.Joins[n-1].On = &On{Expr: expr}
	return m
}

// Skip sets the offset. The last call wins.
func (m *SelectManager) Skip(n int) *SelectManager {
	if m.err != nil {
		return m
	}
	if n < 0 {
		m.err = fmt.Errorf("%w: offset must be non-negative, got %d", ErrInvalidArgument, n)
		return m
	}
	m.ast.Offset = &Offset{Count: n}
	return m
}

// Take sets the limit. The last call wins.
func (m *SelectManager) Take(n int) *SelectManager {
	if m.err != nil {
		return m
	}
	if n < 0 {
		m.err = fmt.Errorf("%w: limit must be non-negative, got %d", ErrInvalidArgument, n)
		return m
	}
	m.ast.Limit = &Limit{Count: n}
	return m
}

// Lock requests row locking, FOR UPDATE unless a mode is given.
func (m *SelectManager) Lock(mode ...LockMode) *SelectManager {
	if m.err != nil {
		return m
	}
	l := &Lock{Mode: ForUpdate}
	if len(mode) > 0 {
		l.Mode = mode[0]
	}
	m.ast.Lock = l
	return m
}

// As wraps the statement as a named sub-select usable as a relation.
func (m *SelectManager) As(name string) (*TableAlias, error) {
	if m.err != nil {
		return nil, m.err
	}
	if name == "" {
		return nil, fmt.Errorf("%w: sub-select alias cannot be empty", ErrInvalidArgument)
	}
	return &TableAlias{Relation: m.ast, Name: name}, nil
}

// Build returns the statement, or the first recorded error.
func (m *SelectManager) Build() (*SelectStatement, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.ast, nil
}

// MustBuild returns the statement and panics on error.
func (m *SelectManager) MustBuild() *SelectStatement {
	stmt, err := m.Build()
	if err != nil {
		panic(err)
	}
	return stmt
}

// Compile renders the statement for dialect d.
func (m *SelectManager) Compile(d Dialect) (string, error) {
	stmt, err := m.Build()
	if err != nil {
		return "", err
	}
	return Compile(d, stmt)
}

// ToSQL renders the statement as ANSI SQL.
func (m *SelectManager) ToSQL() (string, error) {
	return m.Compile(ANSI)
}

// MustSQL renders the statement as ANSI SQL and panics on error.
func (m *SelectManager) MustSQL() string {
	sql, err := m.ToSQL()
	if err != nil {
		panic(err)
	}
	return sql
}

func nodesOf(clause string, exprs []any) ([]Node, error) {
	nodes := make([]Node, 0, len(exprs))
	for _, e := range exprs {
		n, ok := nodeOf(e)
		if !ok {
			return nil, fmt.Errorf("%w: cannot %s %T", ErrInvalidArgument, clause, e)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

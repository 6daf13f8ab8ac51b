package arel

import (
	"fmt"
	"sync"
)

// Table is a named base relation. It owns the registry of aliases
// manufactured from it, so repeated references in a self-join get
// distinct, deterministic names.
type Table struct {
	caster  TypeCaster
	name    string
	alias   string
	aliases []*TableAlias
	mu      sync.Mutex
}

// TableOption configures a Table at construction.
type TableOption func(*Table)

// WithTypeCaster attaches the adapter used to convert native values
// compared against this table's attributes.
func WithTypeCaster(c TypeCaster) TableOption {
	return func(t *Table) {
		t.caster = c
	}
}

// WithAlias gives the table an explicit alias. An alias equal to the
// table name is treated as no alias at all.
func WithAlias(alias string) TableOption {
	return func(t *Table) {
		t.alias = alias
	}
}

// TryNewTable creates a table, returning an error if the name is empty.
func TryNewTable(name string, opts ...TableOption) (*Table, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: table name cannot be empty", ErrInvalidArgument)
	}
	t := &Table{name: name}
	for _, opt := range opts {
		opt(t)
	}
	if t.alias == t.name {
		t.alias = ""
	}
	return t, nil
}

// NewTable creates a table and panics if the name is empty.
func NewTable(name string, opts ...TableOption) *Table {
	t, err := TryNewTable(name, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// TableAlias returns the explicit alias and whether one is set.
func (t *Table) TableAlias() (string, bool) {
	return t.alias, t.alias != ""
}

// TypeCaster returns the table's type-cast adapter, or nil.
func (t *Table) TypeCaster() TypeCaster {
	return t.caster
}

// Get returns the attribute for column, bound to this table.
func (t *Table) Get(column string) *Attribute {
	return &Attribute{Relation: t, Name: column}
}

// Alias manufactures a new alias named <table>_<N+2>, where N is the
// number of aliases already registered. Safe for concurrent use.
func (t *Table) Alias() *TableAlias {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := len(t.aliases) + 2
	name := fmt.Sprintf("%s_%d", t.name, n)
	for t.registered(name) {
		n++
		name = fmt.Sprintf("%s_%d", t.name, n)
	}
	a := &TableAlias{Relation: t, Name: name}
	t.aliases = append(t.aliases, a)
	return a
}

// AliasAs registers an alias with an explicit name.
func (t *Table) AliasAs(name string) (*TableAlias, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: alias name cannot be empty", ErrInvalidArgument)
	}
	if name == t.name {
		return nil, fmt.Errorf("%w: alias %q shadows table %q", ErrInvalidArgument, name, t.name)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.registered(name) {
		return nil, fmt.Errorf("%w: alias %q already registered on %q", ErrInvalidArgument, name, t.name)
	}
	a := &TableAlias{Relation: t, Name: name}
	t.aliases = append(t.aliases, a)
	return a, nil
}

// Aliases returns the registered aliases in manufacture order.
func (t *Table) Aliases() []*TableAlias {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]*TableAlias, len(t.aliases))
	copy(out, t.aliases)
	return out
}

// LookupAlias returns the registered alias with the given name.
func (t *Table) LookupAlias(name string) (*TableAlias, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, a := range t.aliases {
		if a.Name == name {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: alias %q was never registered on %q", ErrInvalidState, name, t.name)
}

// registered must be called with mu held.
func (t *Table) registered(name string) bool {
	for _, a := range t.aliases {
		if a.Name == name {
			return true
		}
	}
	return false
}

// From starts a select over this table.
func (t *Table) From() *SelectManager {
	return NewSelectManager(t)
}

// Project starts a select over this table with the given projections.
func (t *Table) Project(exprs ...any) *SelectManager {
	return t.From().Project(exprs...)
}

// Where starts a select over this table filtered by predicate.
func (t *Table) Where(predicate Node) *SelectManager {
	return t.From().Where(predicate)
}

// Having starts a select over this table with a HAVING predicate.
func (t *Table) Having(predicate Node) *SelectManager {
	return t.From().Having(predicate)
}

// Group starts a select over this table grouped by exprs.
func (t *Table) Group(exprs ...any) *SelectManager {
	return t.From().Group(exprs...)
}

// Order starts a select over this table ordered by exprs.
func (t *Table) Order(exprs ...any) *SelectManager {
	return t.From().Order(exprs...)
}

// Join starts a select over this table joined to relation.
func (t *Table) Join(relation any, kind ...JoinKind) *SelectManager {
	return t.From().Join(relation, kind...)
}

// OuterJoin starts a select over this table left-outer-joined to relation.
func (t *Table) OuterJoin(relation any) *SelectManager {
	return t.From().OuterJoin(relation)
}

// Skip starts a select over this table with an offset.
func (t *Table) Skip(n int) *SelectManager {
	return t.From().Skip(n)
}

// Take starts a select over this table with a limit.
func (t *Table) Take(n int) *SelectManager {
	return t.From().Take(n)
}

// CompileInsert starts an insert into this table with the given values.
func (t *Table) CompileInsert(values any) *InsertManager {
	return NewInsertManager().Into(t).Insert(values)
}

// CreateJoin builds a join node between left and right.
func (t *Table) CreateJoin(left, right Node, kind ...JoinKind) (*Join, error) {
	return CreateJoin(left, right, kind...)
}

// CreateStringJoin builds a join from a raw SQL fragment.
func (t *Table) CreateStringJoin(fragment string) *Join {
	return CreateStringJoin(fragment)
}

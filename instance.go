package arel

import (
	"fmt"
	"sort"

	"github.com/zoobzio/dbml"
)

// Catalog hands out tables described by a DBML schema. Each table is
// created once, carries a SchemaCaster, and is shared by every caller so
// its alias registry spans the whole session.
type Catalog struct {
	project *dbml.Project
	tables  map[string]*Table
	columns map[string]map[string]*dbml.Column // table -> column -> definition
}

// NewFromDBML creates a catalog from a DBML project.
func NewFromDBML(project *dbml.Project) (*Catalog, error) {
	if project == nil {
		return nil, fmt.Errorf("%w: project cannot be nil", ErrInvalidArgument)
	}

	c := &Catalog{
		project: project,
		tables:  make(map[string]*Table),
		columns: make(map[string]map[string]*dbml.Column),
	}

	for _, table := range project.Tables {
		if table == nil || table.Name == "" {
			return nil, fmt.Errorf("%w: schema contains an unnamed table", ErrInvalidArgument)
		}
		cols := make(map[string]*dbml.Column)
		for _, col := range table.Columns {
			cols[col.Name] = col
		}
		c.columns[table.Name] = cols
		c.tables[table.Name] = NewTable(table.Name, WithTypeCaster(NewSchemaCaster(table)))
	}

	return c, nil
}

// Project returns the underlying DBML project.
func (c *Catalog) Project() *dbml.Project {
	return c.project
}

// Tables returns the table names in sorted order.
func (c *Catalog) Tables() []string {
	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TryTable returns the named table, or an error if the schema has no such table.
func (c *Catalog) TryTable(name string) (*Table, error) {
	t, ok := c.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: table %q not found in schema", ErrInvalidState, name)
	}
	return t, nil
}

// Table returns the named table and panics if it does not exist.
func (c *Catalog) Table(name string) *Table {
	t, err := c.TryTable(name)
	if err != nil {
		panic(err)
	}
	return t
}

// TryAttribute returns a column of a table, validated against the schema.
func (c *Catalog) TryAttribute(table, column string) (*Attribute, error) {
	t, err := c.TryTable(table)
	if err != nil {
		return nil, err
	}
	if _, ok := c.columns[table][column]; !ok {
		return nil, fmt.Errorf("%w: column %q not found in table %q", ErrInvalidArgument, column, table)
	}
	return t.Get(column), nil
}

// Attribute returns a validated column and panics if it does not exist.
func (c *Catalog) Attribute(table, column string) *Attribute {
	a, err := c.TryAttribute(table, column)
	if err != nil {
		panic(err)
	}
	return a
}

// HasColumn reports whether the schema declares column on table.
func (c *Catalog) HasColumn(table, column string) bool {
	_, ok := c.columns[table][column]
	return ok
}

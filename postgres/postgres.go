// Package postgres provides the PostgreSQL dialect for arel.
package postgres

import (
	"github.com/zoobzio/arel"
	"github.com/zoobzio/arel/internal/render"
)

// Renderer implements the PostgreSQL dialect.
type Renderer struct{}

// New creates a new PostgreSQL renderer.
func New() *Renderer {
	return &Renderer{}
}

// Name returns the dialect name.
func (r *Renderer) Name() string {
	return "postgres"
}

// QuoteIdentifier wraps name in double quotes.
func (r *Renderer) QuoteIdentifier(name string) string {
	return arel.QuoteIdentifier(name, '"', '"')
}

// QuoteString renders a string literal. Assumes standard_conforming_strings,
// the default since PostgreSQL 9.1.
func (r *Renderer) QuoteString(s string) string {
	return arel.QuoteString(s)
}

// Render compiles a node tree to PostgreSQL SQL.
func (r *Renderer) Render(n arel.Node) (string, error) {
	return arel.Compile(r, n)
}

// Capabilities returns the SQL features supported by PostgreSQL.
func (r *Renderer) Capabilities() render.Capabilities {
	return render.Capabilities{
		Pagination:      render.PaginationLimitOffset,
		RowLocking:      render.RowLockingFull,
		FullOuterJoin:   true,
		RightOuterJoin:  true,
		BooleanLiterals: true,
	}
}

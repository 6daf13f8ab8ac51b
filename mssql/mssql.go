// Package mssql provides the SQL Server dialect for arel.
package mssql

import (
	"github.com/zoobzio/arel"
	"github.com/zoobzio/arel/internal/render"
)

// Renderer implements the SQL Server dialect.
type Renderer struct{}

// New creates a new SQL Server renderer.
func New() *Renderer {
	return &Renderer{}
}

// Name returns the dialect name.
func (r *Renderer) Name() string {
	return "mssql"
}

// QuoteIdentifier wraps name in square brackets.
func (r *Renderer) QuoteIdentifier(name string) string {
	return arel.QuoteIdentifier(name, '[', ']')
}

// QuoteString renders a Unicode string literal.
func (r *Renderer) QuoteString(s string) string {
	return "N" + arel.QuoteString(s)
}

// Render compiles a node tree to SQL Server SQL.
func (r *Renderer) Render(n arel.Node) (string, error) {
	return arel.Compile(r, n)
}

// Capabilities returns the SQL features supported by SQL Server. Locking
// is expressed with table hints, which are not generated.
func (r *Renderer) Capabilities() render.Capabilities {
	return render.Capabilities{
		Pagination:         render.PaginationOffsetFetch,
		FetchRequiresOrder: true,
		RowLocking:         render.RowLockingNone,
		FullOuterJoin:      true,
		RightOuterJoin:     true,
	}
}

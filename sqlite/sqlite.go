// Package sqlite provides the SQLite dialect for arel.
package sqlite

import (
	"github.com/zoobzio/arel"
	"github.com/zoobzio/arel/internal/render"
)

// Renderer implements the SQLite dialect.
type Renderer struct{}

// New creates a new SQLite renderer.
func New() *Renderer {
	return &Renderer{}
}

// Name returns the dialect name.
func (r *Renderer) Name() string {
	return "sqlite"
}

// QuoteIdentifier wraps name in double quotes.
func (r *Renderer) QuoteIdentifier(name string) string {
	return arel.QuoteIdentifier(name, '"', '"')
}

// QuoteString renders a string literal.
func (r *Renderer) QuoteString(s string) string {
	return arel.QuoteString(s)
}

// Render compiles a node tree to SQLite SQL.
func (r *Renderer) Render(n arel.Node) (string, error) {
	return arel.Compile(r, n)
}

// Capabilities returns the SQL features supported by SQLite. OFFSET is
// only valid after LIMIT, so a bare offset is written as LIMIT -1 OFFSET n.
// RIGHT and FULL OUTER JOIN need SQLite 3.39 or later.
func (r *Renderer) Capabilities() render.Capabilities {
	return render.Capabilities{
		Pagination:     render.PaginationLimitOffset,
		UnboundedLimit: "-1",
		RowLocking:     render.RowLockingNone,
		FullOuterJoin:  true,
		RightOuterJoin: true,
	}
}

// Package mysql provides the MySQL and MariaDB dialect for arel.
package mysql

import (
	"strings"

	"github.com/zoobzio/arel"
	"github.com/zoobzio/arel/internal/render"
)

// unboundedLimit is the largest row count MySQL accepts, used when only an
// offset is set.
const unboundedLimit = "18446744073709551615"

var stringEscaper = strings.NewReplacer(`\`, `\\`, `'`, `''`, "\x00", `\0`)

// Renderer implements the MySQL dialect.
type Renderer struct{}

// New creates a new MySQL renderer.
func New() *Renderer {
	return &Renderer{}
}

// Name returns the dialect name.
func (r *Renderer) Name() string {
	return "mysql"
}

// QuoteIdentifier wraps name in backticks.
func (r *Renderer) QuoteIdentifier(name string) string {
	return arel.QuoteIdentifier(name, '`', '`')
}

// QuoteString renders a string literal. Backslash is an escape character
// unless NO_BACKSLASH_ESCAPES is set, so it is doubled.
func (r *Renderer) QuoteString(s string) string {
	return "'" + stringEscaper.Replace(s) + "'"
}

// Render compiles a node tree to MySQL SQL.
func (r *Renderer) Render(n arel.Node) (string, error) {
	return arel.Compile(r, n)
}

// Capabilities returns the SQL features supported by MySQL.
func (r *Renderer) Capabilities() render.Capabilities {
	return render.Capabilities{
		Pagination:      render.PaginationLimitOffset,
		UnboundedLimit:  unboundedLimit,
		RowLocking:      render.RowLockingBasic,
		FullOuterJoin:   false,
		RightOuterJoin:  true,
		BooleanLiterals: true,
	}
}

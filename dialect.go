package arel

import (
	"strings"

	"github.com/zoobzio/arel/internal/render"
)

// Dialect supplies the textual rules that differ between databases.
type Dialect interface {
	Name() string
	QuoteIdentifier(name string) string
	QuoteString(s string) string
	Capabilities() render.Capabilities
}

// ANSI is the default dialect: double-quoted identifiers, OFFSET before
// LIMIT, TRUE/FALSE booleans.
var ANSI Dialect = ansi{}

type ansi struct{}

func (ansi) Name() string { return "ansi" }

func (ansi) QuoteIdentifier(name string) string {
	return QuoteIdentifier(name, '"', '"')
}

func (ansi) QuoteString(s string) string {
	return QuoteString(s)
}

func (ansi) Capabilities() render.Capabilities {
	return render.Capabilities{
		Pagination:      render.PaginationOffsetLimit,
		RowLocking:      render.RowLockingBasic,
		FullOuterJoin:   true,
		RightOuterJoin:  true,
		BooleanLiterals: true,
	}
}

// QuoteIdentifier wraps name in open/close, doubling any close character
// inside it.
func QuoteIdentifier(name string, open, closer byte) string {
	var b strings.Builder
	b.Grow(len(name) + 2)
	b.WriteByte(open)
	for i := 0; i < len(name); i++ {
		if name[i] == closer {
			b.WriteByte(closer)
		}
		b.WriteByte(name[i])
	}
	b.WriteByte(closer)
	return b.String()
}

// QuoteString renders s as a single-quoted SQL string literal.
func QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Package render holds the dialect capability model shared by the compiler
// and the dialect packages.
package render

// RowLockingLevel indicates the level of row-level locking support.
type RowLockingLevel int

const (
	RowLockingNone  RowLockingLevel = iota // No row locking
	RowLockingBasic                        // FOR UPDATE, FOR SHARE
	RowLockingFull                         // + FOR NO KEY UPDATE, FOR KEY SHARE
)

func (l RowLockingLevel) String() string {
	switch l {
	case RowLockingNone:
		return "none"
	case RowLockingBasic:
		return "basic"
	case RowLockingFull:
		return "full"
	}
	return "unknown"
}

// PaginationStyle is the shape of the offset/limit clause.
type PaginationStyle int

const (
	PaginationOffsetLimit PaginationStyle = iota // OFFSET n LIMIT m
	PaginationLimitOffset                        // LIMIT m OFFSET n
	PaginationOffsetFetch                        // OFFSET n ROWS FETCH NEXT m ROWS ONLY
)

func (p PaginationStyle) String() string {
	switch p {
	case PaginationOffsetLimit:
		return "offset-limit"
	case PaginationLimitOffset:
		return "limit-offset"
	case PaginationOffsetFetch:
		return "offset-fetch"
	}
	return "unknown"
}

// Capabilities describes the SQL features supported by a dialect.
type Capabilities struct {
	// UnboundedLimit is written as the LIMIT when only an offset is set,
	// for dialects that reject OFFSET without LIMIT.
	UnboundedLimit  string
	Pagination      PaginationStyle
	RowLocking      RowLockingLevel // FOR UPDATE/SHARE support
	FullOuterJoin   bool            // FULL OUTER JOIN
	RightOuterJoin  bool            // RIGHT OUTER JOIN
	BooleanLiterals bool            // TRUE/FALSE rather than 1/0
	// FetchRequiresOrder rejects OFFSET/FETCH without ORDER BY.
	FetchRequiresOrder bool
}

// SupportsLock reports whether a lock clause of the given level is allowed.
func (c Capabilities) SupportsLock(level RowLockingLevel) bool {
	return level != RowLockingNone && c.RowLocking >= level
}

package arel

// SelectCore is one SELECT core: projections, the source relation, its
// joins, and the filtering and grouping clauses.
type SelectCore struct {
	From        Node
	Projections []Node
	Joins       []*Join
	Wheres      []Node
	Groups      []Node
	Havings     []Node
	Distinct    bool
}

// SelectStatement owns its cores and carries the statement-level clauses.
type SelectStatement struct {
	Offset *Offset
	Limit  *Limit
	Lock   *Lock
	Cores  []*SelectCore
	Orders []Node
}

// Limit caps the number of rows.
type Limit struct {
	Count int
}

// Offset skips rows.
type Offset struct {
	Count int
}

// LockMode is a row-locking clause.
type LockMode string

const (
	ForUpdate      LockMode = "FOR UPDATE"
	ForShare       LockMode = "FOR SHARE"
	ForNoKeyUpdate LockMode = "FOR NO KEY UPDATE"
	ForKeyShare    LockMode = "FOR KEY SHARE"
)

// Lock requests row locking.
type Lock struct {
	Mode LockMode
}

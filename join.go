package arel

import "fmt"

// JoinKind selects the join variant.
type JoinKind int

const (
	InnerJoin JoinKind = iota
	OuterJoin
	FullOuterJoin
	RightOuterJoin
	StringJoin
)

// LeftOuterJoin is OuterJoin under its SQL name.
const LeftOuterJoin = OuterJoin

var joinKindNames = map[JoinKind]string{
	InnerJoin:      "InnerJoin",
	OuterJoin:      "OuterJoin",
	FullOuterJoin:  "FullOuterJoin",
	RightOuterJoin: "RightOuterJoin",
	StringJoin:     "StringJoin",
}

func (k JoinKind) String() string {
	if name, ok := joinKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("JoinKind(%d)", int(k))
}

// Join relates Left to Right. On is attached after construction and stays
// nil for a StringJoin, whose raw fragment is held in Left.
type Join struct {
	Left  Node
	Right Node
	On    *On
	Kind  JoinKind
}

// On is the condition of a join.
type On struct {
	Expr Node
}

// CreateJoin builds a join of the given kind, InnerJoin when none is
// given. Unknown kinds, more than one kind, and StringJoin (which has its
// own constructor) are rejected.
func CreateJoin(left, right Node, kind ...JoinKind) (*Join, error) {
	k := InnerJoin
	switch len(kind) {
	case 0:
	case 1:
		k = kind[0]
	default:
		return nil, fmt.Errorf("%w: expected at most one join kind, got %d", ErrInvalidArgument, len(kind))
	}

	switch k {
	case InnerJoin, OuterJoin, FullOuterJoin, RightOuterJoin:
	case StringJoin:
		return nil, fmt.Errorf("%w: string joins are created with CreateStringJoin", ErrInvalidArgument)
	default:
		return nil, fmt.Errorf("%w: unknown join kind %s", ErrInvalidArgument, k)
	}

	return &Join{Kind: k, Left: left, Right: right}, nil
}

// CreateStringJoin builds a join from a raw SQL fragment.
func CreateStringJoin(fragment string) *Join {
	return &Join{Kind: StringJoin, Left: SQLLiteral(fragment)}
}

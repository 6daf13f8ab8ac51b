package arel

// Operator is a binary comparison operator.
type Operator string

const (
	OpEq           Operator = "="
	OpNotEq        Operator = "!="
	OpLt           Operator = "<"
	OpLteq         Operator = "<="
	OpGt           Operator = ">"
	OpGteq         Operator = ">="
	OpMatches      Operator = "LIKE"
	OpDoesNotMatch Operator = "NOT LIKE"
)

// Comparison is a binary predicate. A nil Right is only valid for OpEq and
// OpNotEq, where it renders IS NULL and IS NOT NULL.
type Comparison struct {
	Left  Node
	Right Node
	Op    Operator
}

// And conjoins the comparison with other predicates.
func (c *Comparison) And(others ...Node) *And {
	return NewAnd(append([]Node{c}, others...)...)
}

// Or disjoins the comparison with other.
func (c *Comparison) Or(other Node) *Or {
	return &Or{Left: c, Right: other}
}

// Not negates the comparison.
func (c *Comparison) Not() *Not {
	return &Not{Expr: c}
}

// In is a membership test. An empty list renders a predicate that is
// always false (or always true when negated).
type In struct {
	Left    Node
	Values  []Node
	Negated bool
}

// And is a conjunction of predicates.
type And struct {
	Children []Node
}

// NewAnd conjoins predicates.
func NewAnd(children ...Node) *And {
	return &And{Children: children}
}

// Or is a disjunction of two predicates. It always renders parenthesized.
type Or struct {
	Left  Node
	Right Node
}

// NewOr disjoins two predicates.
func NewOr(left, right Node) *Or {
	return &Or{Left: left, Right: right}
}

// Not negates a predicate.
type Not struct {
	Expr Node
}

// Grouping wraps an expression in parentheses.
type Grouping struct {
	Expr Node
}

// NewGrouping wraps expr in parentheses.
func NewGrouping(expr Node) *Grouping {
	return &Grouping{Expr: expr}
}

// Direction is a sort direction.
type Direction string

const (
	Ascending  Direction = "ASC"
	Descending Direction = "DESC"
)

// Ordering is an ORDER BY term.
type Ordering struct {
	Expr      Node
	Direction Direction
}

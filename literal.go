package arel

// SQLLiteral is raw SQL rendered verbatim.
type SQLLiteral string

// Star is the literal "*".
const Star SQLLiteral = "*"

// Lit wraps raw SQL as a node.
func Lit(raw string) SQLLiteral {
	return SQLLiteral(raw)
}

// Casted is a native value compared against an attribute. The value passes
// through the attribute's type caster before it is quoted.
type Casted struct {
	Value     any
	Attribute *Attribute
}

// Quoted is a native value quoted without type casting.
type Quoted struct {
	Value any
}

// Quote wraps a native value as a node.
func Quote(v any) *Quoted {
	return &Quoted{Value: v}
}

// nodeOf converts a builder argument to a node. Strings become raw SQL.
func nodeOf(v any) (Node, bool) {
	switch v := v.(type) {
	case Node:
		return v, !isNil(v)
	case string:
		return SQLLiteral(v), true
	case *SelectManager:
		if v == nil {
			return nil, false
		}
		return v.AST(), true
	default:
		return nil, false
	}
}

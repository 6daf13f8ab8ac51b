package arel

import "reflect"

// Attribute names one column of one relation. The relation is a
// back-reference used only to qualify the column when rendering.
type Attribute struct {
	Relation Node
	Name     string
}

// Eq compares the attribute for equality. A nil value renders IS NULL.
func (a *Attribute) Eq(v any) *Comparison { return a.compare(OpEq, v) }

// NotEq compares the attribute for inequality. A nil value renders IS NOT NULL.
func (a *Attribute) NotEq(v any) *Comparison { return a.compare(OpNotEq, v) }

// Gt builds a > comparison.
func (a *Attribute) Gt(v any) *Comparison { return a.compare(OpGt, v) }

// Gteq builds a >= comparison.
func (a *Attribute) Gteq(v any) *Comparison { return a.compare(OpGteq, v) }

// Lt builds a < comparison.
func (a *Attribute) Lt(v any) *Comparison { return a.compare(OpLt, v) }

// Lteq builds a <= comparison.
func (a *Attribute) Lteq(v any) *Comparison { return a.compare(OpLteq, v) }

// Matches builds a LIKE comparison.
func (a *Attribute) Matches(pattern any) *Comparison { return a.compare(OpMatches, pattern) }

// DoesNotMatch builds a NOT LIKE comparison.
func (a *Attribute) DoesNotMatch(pattern any) *Comparison {
	return a.compare(OpDoesNotMatch, pattern)
}

// In builds a membership test. A single slice argument is expanded; a
// single *SelectManager or *SelectStatement becomes a sub-select.
func (a *Attribute) In(values ...any) *In {
	return &In{Left: a, Values: a.list(values)}
}

// NotIn builds a negated membership test.
func (a *Attribute) NotIn(values ...any) *In {
	return &In{Left: a, Values: a.list(values), Negated: true}
}

// Asc orders by the attribute ascending.
func (a *Attribute) Asc() *Ordering {
	return &Ordering{Expr: a, Direction: Ascending}
}

// Desc orders by the attribute descending.
func (a *Attribute) Desc() *Ordering {
	return &Ordering{Expr: a, Direction: Descending}
}

func (a *Attribute) compare(op Operator, v any) *Comparison {
	return &Comparison{Op: op, Left: a, Right: a.operand(v)}
}

// operand converts v to the right-hand side of a predicate. Nodes are used
// as is, nil stays nil and anything else is cast through the relation.
func (a *Attribute) operand(v any) Node {
	switch v := v.(type) {
	case nil:
		return nil
	case *SelectManager:
		if v == nil {
			return nil
		}
		return v.AST()
	case Node:
		if isNil(v) {
			return nil
		}
		return v
	default:
		return &Casted{Value: v, Attribute: a}
	}
}

func (a *Attribute) list(values []any) []Node {
	if len(values) == 1 {
		rv := reflect.ValueOf(values[0])
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() != reflect.Uint8 {
			expanded := make([]any, rv.Len())
			for i := range expanded {
				expanded[i] = rv.Index(i).Interface()
			}
			values = expanded
		}
	}
	nodes := make([]Node, 0, len(values))
	for _, v := range values {
		n := a.operand(v)
		if n == nil {
			n = &Casted{Attribute: a}
		}
		nodes = append(nodes, n)
	}
	return nodes
}

package arel

// TypeCaster converts a native value into the representation stored in a
// column. It is supplied by the host that knows the schema; the compiler
// renders whatever it returns.
type TypeCaster interface {
	TypeCastForDatabase(column string, value any) (any, error)
}

// TypeCasterFunc adapts a function to TypeCaster.
type TypeCasterFunc func(column string, value any) (any, error)

// TypeCastForDatabase calls f.
func (f TypeCasterFunc) TypeCastForDatabase(column string, value any) (any, error) {
	return f(column, value)
}

// casterFor returns the caster of the relation an attribute belongs to.
func casterFor(relation Node) TypeCaster {
	switch r := relation.(type) {
	case *Table:
		if r != nil {
			return r.caster
		}
	case *TableAlias:
		if r != nil {
			return r.TypeCaster()
		}
	}
	return nil
}

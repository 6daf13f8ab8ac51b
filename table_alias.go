package arel

// TableAlias is a relation referenced under a substituted name. The
// relation is usually a *Table, but may be a sub-select.
type TableAlias struct {
	Relation Node
	Name     string
}

// Get returns the attribute for column, bound to the alias so it renders
// qualified by the alias name.
func (a *TableAlias) Get(column string) *Attribute {
	return &Attribute{Relation: a, Name: column}
}

// TableName returns the alias name.
func (a *TableAlias) TableName() string {
	return a.Name
}

// TypeCaster returns the caster of the underlying table, or nil.
func (a *TableAlias) TypeCaster() TypeCaster {
	if t, ok := a.Relation.(*Table); ok && t != nil {
		return t.caster
	}
	return nil
}

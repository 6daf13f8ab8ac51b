// Package arel builds SQL statements as relational-algebra trees and
// compiles them to dialect SQL.
//
// A tree is assembled from a Table, its attributes and aliases, and the
// select and insert managers. Nodes are plain data; every rendering rule
// lives in the compiler, which walks the tree through a Visitor.
//
// # Basic Usage
//
//	users := arel.NewTable("users")
//	sql, err := users.
//		Project(users.Get("id")).
//		Where(users.Get("id").Eq(1)).
//		ToSQL()
//	// SELECT "users"."id" FROM "users" WHERE "users"."id" = 1
//
// # Self-Joins
//
// Aliases are manufactured per table and numbered from 2:
//
//	other := users.Alias() // "users_2"
//	sql, err := users.From().
//		OuterJoin(other).
//		On(users.Get("id").Eq(other.Get("id"))).
//		ToSQL()
//	// SELECT FROM "users" LEFT OUTER JOIN "users" "users_2" ON "users"."id" = "users_2"."id"
//
// # Dialects
//
// ToSQL renders ANSI SQL. Dialect packages (postgres, sqlite, mysql, mssql)
// supply quoting, pagination and locking rules:
//
//	import "github.com/zoobzio/arel/postgres"
//
//	sql, err := manager.Compile(postgres.New())
package arel

import "reflect"

// Node is implemented by every element of a relational-algebra tree.
// The set of variants is closed; Accept dispatches over all of them.
type Node interface {
	IsNode()
}

func (*Table) IsNode()           {}
func (*TableAlias) IsNode()      {}
func (*Attribute) IsNode()       {}
func (SQLLiteral) IsNode()       {}
func (*Casted) IsNode()          {}
func (*Quoted) IsNode()          {}
func (*Comparison) IsNode()      {}
func (*In) IsNode()              {}
func (*And) IsNode()             {}
func (*Or) IsNode()              {}
func (*Not) IsNode()             {}
func (*Grouping) IsNode()        {}
func (*Ordering) IsNode()        {}
func (*Join) IsNode()            {}
func (*On) IsNode()              {}
func (*SelectCore) IsNode()      {}
func (*SelectStatement) IsNode() {}
func (*Limit) IsNode()           {}
func (*Offset) IsNode()          {}
func (*Lock) IsNode()            {}
func (*InsertStatement) IsNode() {}
func (*Values) IsNode()          {}

// isNil reports whether n is nil or a typed nil pointer.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

package arel_test

import (
	"testing"

	"github.com/zoobzio/arel"
	arelt "github.com/zoobzio/arel/testing"
)

func TestInsertManager_RawValues(t *testing.T) {
	users := arel.NewTable("users")
	sql, err := arel.NewInsertManager().Into(users).Insert("VALUES(NULL)").ToSQL()
	arelt.AssertNoError(t, err)
	arelt.AssertSQL(t, `INSERT INTO "users" VALUES(NULL)`, sql)
}

func TestInsertManager_NoRelation(t *testing.T) {
	_, err := arel.NewInsertManager().Insert("VALUES(NULL)").ToSQL()
	arelt.AssertErrorIs(t, err, arel.ErrInvalidState)
	arelt.AssertErrorContains(t, err, "no target relation")
}

func TestInsertManager_Assignments(t *testing.T) {
	users := arel.NewTable("users")
	sql, err := arel.NewInsertManager().Insert([]arel.Assignment{
		users.Get("id").Assign(1),
		users.Get("name").Assign("alice"),
		users.Get("bio").Assign(nil),
	}).ToSQL()
	arelt.AssertNoError(t, err)
	arelt.AssertSQL(t, `INSERT INTO "users" ("id", "name", "bio") VALUES (1, 'alice', NULL)`, sql)
}

func TestInsertManager_ColumnsAndValues(t *testing.T) {
	users := arel.NewTable("users")
	cols := []*arel.Attribute{users.Get("id"), users.Get("name")}
	sql, err := arel.NewInsertManager().
		Into(users).
		Columns(cols...).
		Values(arel.CreateValues([]any{7, arel.Lit("DEFAULT")}, cols)).
		ToSQL()
	arelt.AssertNoError(t, err)
	arelt.AssertSQL(t, `INSERT INTO "users" ("id", "name") VALUES (7, DEFAULT)`, sql)
}

func TestInsertManager_ValueCountMismatch(t *testing.T) {
	users := arel.NewTable("users")
	cols := []*arel.Attribute{users.Get("id"), users.Get("name")}
	_, err := arel.NewInsertManager().
		Into(users).
		Columns(cols...).
		Values(arel.CreateValues([]any{7}, cols)).
		ToSQL()
	arelt.AssertErrorIs(t, err, arel.ErrInvalidArgument)
}

func TestInsertManager_Select(t *testing.T) {
	users := arel.NewTable("users")
	archive := arel.NewTable("users_archive")

	sql, err := arel.NewInsertManager().
		Into(archive).
		Columns(archive.Get("id"), archive.Get("name")).
		Select(users.Project(users.Get("id"), users.Get("name")).Where(users.Get("active").Eq(false))).
		ToSQL()
	arelt.AssertNoError(t, err)
	arelt.AssertSQL(t,
		`INSERT INTO "users_archive" ("id", "name") SELECT "users"."id", "users"."name" FROM "users" WHERE "users"."active" = FALSE`,
		sql)
}

func TestInsertManager_IncompleteStatements(t *testing.T) {
	users := arel.NewTable("users")

	t.Run("neither values nor select", func(t *testing.T) {
		_, err := arel.NewInsertManager().Into(users).ToSQL()
		arelt.AssertErrorIs(t, err, arel.ErrInvalidState)
	})

	t.Run("both values and select", func(t *testing.T) {
		_, err := arel.NewInsertManager().
			Into(users).
			Insert("VALUES(1)").
			Select(users.Project(users.Get("id"))).
			ToSQL()
		arelt.AssertErrorIs(t, err, arel.ErrInvalidState)
	})
}

func TestInsertManager_InvalidArguments(t *testing.T) {
	users := arel.NewTable("users")

	tests := []struct {
		name    string
		manager *arel.InsertManager
	}{
		{"nil target", arel.NewInsertManager().Into(nil)},
		{"empty raw", arel.NewInsertManager().Insert("")},
		{"unsupported payload", arel.NewInsertManager().Insert(42)},
		{"empty assignments", arel.NewInsertManager().Insert([]arel.Assignment{})},
		{"assignment without attribute", arel.NewInsertManager().Insert([]arel.Assignment{{Value: 1}})},
		{"nil column", arel.NewInsertManager().Into(users).Columns(nil)},
		{"nil values", arel.NewInsertManager().Into(users).Values(nil)},
		{"nil select", arel.NewInsertManager().Into(users).Select(nil)},
		{"failed select", arel.NewInsertManager().Into(users).Select(users.Take(-1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arelt.AssertErrorIs(t, tt.manager.Err(), arel.ErrInvalidArgument)
			if _, err := tt.manager.ToSQL(); err == nil {
				t.Error("Expected ToSQL to fail")
			}
		})
	}
}

func TestInsertStatement_ChainableSetters(t *testing.T) {
	users := arel.NewTable("users")
	stmt := &arel.InsertStatement{}

	got := stmt.SetRelation(users).
		SetColumns(users.Get("id")).
		SetValues(arel.CreateValues([]any{1}, []*arel.Attribute{users.Get("id")}))
	if got != stmt {
		t.Fatal("Expected setters to return the same instance")
	}

	sql, err := arel.ToSQL(stmt)
	arelt.AssertNoError(t, err)
	arelt.AssertSQL(t, `INSERT INTO "users" ("id") VALUES (1)`, sql)

	sub := users.Project(users.Get("id")).MustBuild()
	if stmt.SetValues(nil).SetSelect(sub) != stmt {
		t.Fatal("Expected SetSelect to return the same instance")
	}
	sql, err = arel.ToSQL(stmt)
	arelt.AssertNoError(t, err)
	arelt.AssertSQL(t, `INSERT INTO "users" ("id") SELECT "users"."id" FROM "users"`, sql)
}

func TestInsertManager_MustSQL(t *testing.T) {
	arelt.AssertPanics(t, func() {
		arel.NewInsertManager().MustSQL()
	})
	users := arel.NewTable("users")
	arelt.AssertSQL(t, `INSERT INTO "users" DEFAULT VALUES`,
		arel.NewInsertManager().Into(users).Insert("DEFAULT VALUES").MustSQL())
}

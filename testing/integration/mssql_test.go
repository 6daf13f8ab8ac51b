package integration

import (
	"context"
	"database/sql"
	"testing"

	"github.com/testcontainers/testcontainers-go/modules/mssql"
	"github.com/zoobzio/arel"
	mssqldialect "github.com/zoobzio/arel/mssql"
)

// MSSQLContainer wraps a testcontainers SQL Server instance.
type MSSQLContainer struct {
	container *mssql.MSSQLServerContainer
	db        *sql.DB
}

func TestIntegration_MSSQL(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	mc := getMSSQLContainer(t)
	runScenarios(context.Background(), t, sqlDatabase{db: mc.db}, mssqldialect.New(), "BIT")
}

// TestIntegration_MSSQLUnicode checks that N-prefixed literals keep
// characters outside the server code page.
func TestIntegration_MSSQLUnicode(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	mc := getMSSQLContainer(t)
	db := sqlDatabase{db: mc.db}
	d := mssqldialect.New()
	prepare(ctx, t, db, d, "BIT")
	db.Exec(ctx, t, `DROP TABLE IF EXISTS notes`)
	db.Exec(ctx, t, `CREATE TABLE notes (id INT PRIMARY KEY, body NVARCHAR(100))`)

	notes := arel.NewTable("notes")
	insert, err := notes.CompileInsert([]arel.Assignment{
		notes.Get("id").Assign(1),
		notes.Get("body").Assign("héllo 世界"),
	}).Compile(d)
	if err != nil {
		t.Fatalf("Compile insert failed: %v", err)
	}
	db.Exec(ctx, t, insert)

	query, err := notes.Project(notes.Get("id")).Where(notes.Get("body").Eq("héllo 世界")).Compile(d)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if got := db.Count(ctx, t, query); got != 1 {
		t.Errorf("Expected unicode body to round-trip, matched %d rows\nSQL: %s", got, query)
	}
}

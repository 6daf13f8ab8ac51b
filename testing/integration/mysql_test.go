package integration

import (
	"context"
	"database/sql"
	"testing"

	"github.com/testcontainers/testcontainers-go/modules/mariadb"
	"github.com/zoobzio/arel"
	mysqldialect "github.com/zoobzio/arel/mysql"
)

// MariaDBContainer wraps a testcontainers MariaDB instance.
type MariaDBContainer struct {
	container *mariadb.MariaDBContainer
	db        *sql.DB
}

func TestIntegration_MariaDB(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	mc := getMariaDBContainer(t)
	runScenarios(context.Background(), t, sqlDatabase{db: mc.db}, mysqldialect.New(), "BOOLEAN")
}

// TestIntegration_MariaDBEscapes round-trips strings that need backslash
// escaping under the default sql_mode.
func TestIntegration_MariaDBEscapes(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	mc := getMariaDBContainer(t)
	db := sqlDatabase{db: mc.db}
	d := mysqldialect.New()
	posts := prepare(ctx, t, db, d, "BOOLEAN").Table("posts")

	titles := []string{`back\slash`, `it's`, "nul\x00byte", `"double"`, `trailing\`}
	for i, title := range titles {
		insert, err := posts.CompileInsert([]arel.Assignment{
			posts.Get("id").Assign(100 + i),
			posts.Get("user_id").Assign(1),
			posts.Get("title").Assign(title),
		}).Compile(d)
		if err != nil {
			t.Fatalf("Compile insert failed: %v", err)
		}
		db.Exec(ctx, t, insert)

		query, err := posts.Project(posts.Get("id")).Where(posts.Get("title").Eq(title)).Compile(d)
		if err != nil {
			t.Fatalf("Compile failed: %v", err)
		}
		if got := db.Count(ctx, t, query); got != 1 {
			t.Errorf("Expected title %q to round-trip, matched %d rows\nSQL: %s", title, got, query)
		}
	}
}

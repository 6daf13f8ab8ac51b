package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/zoobzio/arel"
	"github.com/zoobzio/arel/internal/render"
	"github.com/zoobzio/dbml"
)

// database is the minimum each backend exposes to the shared scenarios.
type database interface {
	Exec(ctx context.Context, t *testing.T, sql string)
	Count(ctx context.Context, t *testing.T, sql string) int
}

// sqlDatabase adapts a database/sql handle.
type sqlDatabase struct {
	db *sql.DB
}

func (s sqlDatabase) Exec(ctx context.Context, t *testing.T, query string) {
	t.Helper()
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		t.Fatalf("Failed to execute SQL: %v\nSQL: %s", err, query)
	}
}

func (s sqlDatabase) Count(ctx context.Context, t *testing.T, query string) int {
	t.Helper()
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		t.Fatalf("Failed to execute query: %v\nSQL: %s", err, query)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		count++
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("Row iteration failed: %v\nSQL: %s", err, query)
	}
	return count
}

// newCatalog describes the shared schema in logical DBML types. The
// per-database DDL maps these onto native column types.
func newCatalog(t *testing.T) *arel.Catalog {
	t.Helper()

	project := dbml.NewProject("integration")

	users := dbml.NewTable("users")
	users.AddColumn(dbml.NewColumn("id", "bigint"))
	users.AddColumn(dbml.NewColumn("username", "varchar"))
	users.AddColumn(dbml.NewColumn("email", "varchar"))
	users.AddColumn(dbml.NewColumn("age", "int"))
	users.AddColumn(dbml.NewColumn("active", "boolean"))
	project.AddTable(users)

	posts := dbml.NewTable("posts")
	posts.AddColumn(dbml.NewColumn("id", "bigint"))
	posts.AddColumn(dbml.NewColumn("user_id", "bigint"))
	posts.AddColumn(dbml.NewColumn("title", "varchar"))
	posts.AddColumn(dbml.NewColumn("views", "int"))
	posts.AddColumn(dbml.NewColumn("published", "boolean"))
	project.AddTable(posts)

	orders := dbml.NewTable("orders")
	orders.AddColumn(dbml.NewColumn("id", "bigint"))
	orders.AddColumn(dbml.NewColumn("user_id", "bigint"))
	orders.AddColumn(dbml.NewColumn("total", "numeric(10,2)"))
	orders.AddColumn(dbml.NewColumn("status", "varchar"))
	project.AddTable(orders)

	catalog, err := arel.NewFromDBML(project)
	if err != nil {
		t.Fatalf("Failed to create catalog: %v", err)
	}
	return catalog
}

// schemaDDL drops and recreates the shared tables. boolType is the native
// type backing boolean columns.
func schemaDDL(boolType string) []string {
	return []string{
		`DROP TABLE IF EXISTS orders`,
		`DROP TABLE IF EXISTS posts`,
		`DROP TABLE IF EXISTS users`,
		fmt.Sprintf(`CREATE TABLE users (
			id BIGINT PRIMARY KEY,
			username VARCHAR(255) NOT NULL,
			email VARCHAR(255),
			age INT,
			active %s
		)`, boolType),
		fmt.Sprintf(`CREATE TABLE posts (
			id BIGINT PRIMARY KEY,
			user_id BIGINT,
			title VARCHAR(255) NOT NULL,
			views INT,
			published %s
		)`, boolType),
		`CREATE TABLE orders (
			id BIGINT PRIMARY KEY,
			user_id BIGINT,
			total NUMERIC(10,2) NOT NULL,
			status VARCHAR(50)
		)`,
	}
}

// seedRows builds the fixture inserts with arel itself, so seeding also
// covers insert compilation and value quoting per dialect.
func seedRows(c *arel.Catalog) []*arel.InsertManager {
	users := c.Table("users")
	posts := c.Table("posts")
	orders := c.Table("orders")

	user := func(id int, name string, email any, age int, active bool) *arel.InsertManager {
		return arel.NewInsertManager().Insert([]arel.Assignment{
			users.Get("id").Assign(id),
			users.Get("username").Assign(name),
			users.Get("email").Assign(email),
			users.Get("age").Assign(age),
			users.Get("active").Assign(active),
		})
	}
	post := func(id, userID int, title string, views int, published bool) *arel.InsertManager {
		return arel.NewInsertManager().Insert([]arel.Assignment{
			posts.Get("id").Assign(id),
			posts.Get("user_id").Assign(userID),
			posts.Get("title").Assign(title),
			posts.Get("views").Assign(views),
			posts.Get("published").Assign(published),
		})
	}
	order := func(id, userID int, total float64, status string) *arel.InsertManager {
		return arel.NewInsertManager().Insert([]arel.Assignment{
			orders.Get("id").Assign(id),
			orders.Get("user_id").Assign(userID),
			orders.Get("total").Assign(total),
			orders.Get("status").Assign(status),
		})
	}

	return []*arel.InsertManager{
		user(1, "alice", "alice@example.com", 30, true),
		user(2, "bob", "bob@example.com", 25, true),
		user(3, "charlie", nil, 35, false),
		user(4, "diana", "diana@example.com", 28, true),

		post(1, 1, "First Post", 100, true),
		post(2, 1, "Second Post", 50, true),
		post(3, 2, "Bob's Post", 75, true),
		post(4, 3, "Draft Post", 0, false),

		order(1, 1, 99.99, "completed"),
		order(2, 1, 149.99, "completed"),
		order(3, 2, 49.99, "pending"),
		order(4, 4, 199.99, "completed"),
	}
}

// scenario is one select compiled for every dialect. When requires is set
// and the dialect lacks the capability, compilation must fail with an
// unsupported-feature error instead of running.
type scenario struct {
	name     string
	build    func(c *arel.Catalog) *arel.SelectManager
	rows     int
	requires func(render.Capabilities) bool
}

var scenarios = []scenario{
	{
		name: "where boolean",
		build: func(c *arel.Catalog) *arel.SelectManager {
			users := c.Table("users")
			return users.Project(users.Get("username")).Where(users.Get("active").Eq(true))
		},
		rows: 3,
	},
	{
		name: "in list",
		build: func(c *arel.Catalog) *arel.SelectManager {
			users := c.Table("users")
			return users.Project(users.Get("id")).Where(users.Get("id").In(1, 2))
		},
		rows: 2,
	},
	{
		name: "or grouping",
		build: func(c *arel.Catalog) *arel.SelectManager {
			users := c.Table("users")
			id := users.Get("id")
			return users.Project(id).Where(id.Eq(1).Or(id.Eq(3)))
		},
		rows: 2,
	},
	{
		name: "is null",
		build: func(c *arel.Catalog) *arel.SelectManager {
			users := c.Table("users")
			return users.Project(users.Get("id")).Where(users.Get("email").Eq(nil))
		},
		rows: 1,
	},
	{
		name: "like",
		build: func(c *arel.Catalog) *arel.SelectManager {
			users := c.Table("users")
			return users.Project(users.Get("id")).Where(users.Get("username").Matches("a%"))
		},
		rows: 1,
	},
	{
		name: "string with quote",
		build: func(c *arel.Catalog) *arel.SelectManager {
			posts := c.Table("posts")
			return posts.Project(posts.Get("id")).Where(posts.Get("title").Eq("Bob's Post"))
		},
		rows: 1,
	},
	{
		name: "numeric comparison",
		build: func(c *arel.Catalog) *arel.SelectManager {
			orders := c.Table("orders")
			return orders.Project(orders.Get("id")).Where(orders.Get("total").Gt(100))
		},
		rows: 2,
	},
	{
		name: "inner join",
		build: func(c *arel.Catalog) *arel.SelectManager {
			users, posts := c.Table("users"), c.Table("posts")
			return users.Project(users.Get("username"), posts.Get("title")).
				Join(posts).On(users.Get("id").Eq(posts.Get("user_id")))
		},
		rows: 4,
	},
	{
		name: "left outer join",
		build: func(c *arel.Catalog) *arel.SelectManager {
			users, posts := c.Table("users"), c.Table("posts")
			return users.Project(users.Get("username"), posts.Get("title")).
				OuterJoin(posts).On(users.Get("id").Eq(posts.Get("user_id")))
		},
		rows: 5,
	},
	{
		name: "right outer join",
		build: func(c *arel.Catalog) *arel.SelectManager {
			users, posts := c.Table("users"), c.Table("posts")
			return posts.Project(users.Get("username")).
				Join(users, arel.RightOuterJoin).On(users.Get("id").Eq(posts.Get("user_id")))
		},
		rows:     5,
		requires: func(c render.Capabilities) bool { return c.RightOuterJoin },
	},
	{
		name: "full outer join",
		build: func(c *arel.Catalog) *arel.SelectManager {
			users, orders := c.Table("users"), c.Table("orders")
			return users.Project(users.Get("id"), orders.Get("id")).
				Join(orders, arel.FullOuterJoin).On(users.Get("id").Eq(orders.Get("user_id")))
		},
		rows:     5,
		requires: func(c render.Capabilities) bool { return c.FullOuterJoin },
	},
	{
		name: "self join through alias",
		build: func(c *arel.Catalog) *arel.SelectManager {
			users := c.Table("users")
			other := users.Alias()
			return users.Project(users.Get("id"), other.Get("id")).
				Join(other).On(users.Get("id").Eq(other.Get("id")))
		},
		rows: 4,
	},
	{
		name: "subquery in",
		build: func(c *arel.Catalog) *arel.SelectManager {
			users, posts := c.Table("users"), c.Table("posts")
			authors := posts.Project(posts.Get("user_id")).Where(posts.Get("published").Eq(true))
			return users.Project(users.Get("id")).Where(users.Get("id").In(authors))
		},
		rows: 2,
	},
	{
		name: "distinct",
		build: func(c *arel.Catalog) *arel.SelectManager {
			posts := c.Table("posts")
			return posts.Project(posts.Get("user_id")).Distinct()
		},
		rows: 3,
	},
	{
		name: "group having",
		build: func(c *arel.Catalog) *arel.SelectManager {
			orders := c.Table("orders")
			return orders.Project(orders.Get("user_id"), arel.Lit("COUNT(*)")).
				Group(orders.Get("user_id")).
				Having(arel.Lit("COUNT(*) > 1"))
		},
		rows: 1,
	},
	{
		name: "ordered page",
		build: func(c *arel.Catalog) *arel.SelectManager {
			users := c.Table("users")
			return users.Project(users.Get("id")).Order(users.Get("id").Asc()).Skip(1).Take(2)
		},
		rows: 2,
	},
	{
		name: "offset only",
		build: func(c *arel.Catalog) *arel.SelectManager {
			users := c.Table("users")
			return users.Project(users.Get("id")).Order(users.Get("id").Desc()).Skip(3)
		},
		rows: 1,
	},
	{
		name: "row lock",
		build: func(c *arel.Catalog) *arel.SelectManager {
			users := c.Table("users")
			return users.Project(users.Get("id")).Where(users.Get("id").Eq(1)).Lock()
		},
		rows:     1,
		requires: func(c render.Capabilities) bool { return c.SupportsLock(render.RowLockingBasic) },
	},
}

// prepare rebuilds the schema and seeds it through compiled inserts.
func prepare(ctx context.Context, t *testing.T, db database, d arel.Dialect, boolType string) *arel.Catalog {
	t.Helper()

	for _, stmt := range schemaDDL(boolType) {
		db.Exec(ctx, t, stmt)
	}

	catalog := newCatalog(t)
	for _, insert := range seedRows(catalog) {
		query, err := insert.Compile(d)
		if err != nil {
			t.Fatalf("Compile insert failed: %v", err)
		}
		db.Exec(ctx, t, query)
	}
	return catalog
}

// runScenarios checks every scenario against a freshly seeded db.
func runScenarios(ctx context.Context, t *testing.T, db database, d arel.Dialect, boolType string) {
	t.Helper()

	catalog := prepare(ctx, t, db, d, boolType)
	caps := d.Capabilities()
	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			query, err := sc.build(catalog).Compile(d)

			if sc.requires != nil && !sc.requires(caps) {
				if !render.IsUnsupported(err) || !errors.Is(err, arel.ErrInvalidState) {
					t.Fatalf("Expected unsupported feature error on %s, got %v (%q)", d.Name(), err, query)
				}
				return
			}
			if err != nil {
				t.Fatalf("Compile failed: %v", err)
			}

			if got := db.Count(ctx, t, query); got != sc.rows {
				t.Errorf("Expected %d rows, got %d\nSQL: %s", sc.rows, got, query)
			}
		})
	}

	t.Run("insert from select", func(t *testing.T) {
		orders, users := catalog.Table("orders"), catalog.Table("users")
		query, err := arel.NewInsertManager().
			Into(orders).
			Columns(orders.Get("id"), orders.Get("user_id"), orders.Get("total"), orders.Get("status")).
			Select(users.Project(
				arel.Lit("100 + "+d.QuoteIdentifier("users")+"."+d.QuoteIdentifier("id")),
				users.Get("id"),
				arel.Lit("1"),
				arel.Quote("backfill"),
			).Where(users.Get("active").Eq(false))).
			Compile(d)
		if err != nil {
			t.Fatalf("Compile failed: %v", err)
		}
		db.Exec(ctx, t, query)

		check, err := orders.Project(orders.Get("id")).Where(orders.Get("status").Eq("backfill")).Compile(d)
		if err != nil {
			t.Fatalf("Compile failed: %v", err)
		}
		if got := db.Count(ctx, t, check); got != 1 {
			t.Errorf("Expected 1 backfilled order, got %d", got)
		}
	})
}

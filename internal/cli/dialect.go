package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zoobzio/arel"
	"github.com/zoobzio/arel/mssql"
	"github.com/zoobzio/arel/mysql"
	"github.com/zoobzio/arel/postgres"
	"github.com/zoobzio/arel/sqlite"
)

var dialects = map[string]arel.Dialect{
	"ansi":     arel.ANSI,
	"postgres": postgres.New(),
	"mysql":    mysql.New(),
	"sqlite":   sqlite.New(),
	"mssql":    mssql.New(),
}

// Alternate spellings accepted on the command line.
var dialectAliases = map[string]string{
	"postgresql": "postgres",
	"pg":         "postgres",
	"pgx":        "postgres",
	"mariadb":    "mysql",
	"sqlite3":    "sqlite",
	"sqlserver":  "mssql",
}

// driverDialects maps database/sql driver names to their dialect.
var driverDialects = map[string]string{
	"pgx":       "postgres",
	"mysql":     "mysql",
	"sqlserver": "mssql",
	"sqlite":    "sqlite",
}

// DialectNames lists the canonical dialect names.
func DialectNames() []string {
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupDialect returns the dialect registered under name.
func LookupDialect(name string) (arel.Dialect, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := dialectAliases[key]; ok {
		key = canonical
	}
	d, ok := dialects[key]
	if !ok {
		return nil, fmt.Errorf("unknown dialect %q (known: %s)", name, strings.Join(DialectNames(), ", "))
	}
	return d, nil
}

// DialectForDriver returns the dialect that matches a database/sql driver.
func DialectForDriver(driver string) (arel.Dialect, error) {
	name, ok := driverDialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	return dialects[name], nil
}

// ResolveDialect picks the dialect with precedence flag > config > driver > ansi.
func (c *Config) ResolveDialect(flag string) (arel.Dialect, error) {
	if flag != "" {
		return LookupDialect(flag)
	}
	if c.Dialect != "" {
		return LookupDialect(c.Dialect)
	}
	if c.Database.Driver != "" {
		return DialectForDriver(c.Database.Driver)
	}
	return arel.ANSI, nil
}

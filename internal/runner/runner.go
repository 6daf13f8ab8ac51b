// Package runner executes compiled statements through database/sql.
package runner

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	// Drivers selectable with --driver.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"
)

// Drivers lists the database/sql driver names the CLI accepts.
var Drivers = []string{"mysql", "pgx", "sqlite", "sqlserver"}

// Open opens a handle for one of Drivers. It does not connect.
func Open(driver, dsn string) (*sql.DB, error) {
	i := sort.SearchStrings(Drivers, driver)
	if i == len(Drivers) || Drivers[i] != driver {
		return nil, fmt.Errorf("unsupported driver %q (known: %s)", driver, strings.Join(Drivers, ", "))
	}
	return sql.Open(driver, dsn)
}

// Runner executes statements and reports slow ones.
type Runner struct {
	db            *sql.DB
	logger        *slog.Logger
	slowThreshold time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithSlowThreshold sets the duration above which statements are logged as
// slow. Default is 1s.
func WithSlowThreshold(d time.Duration) Option {
	return func(r *Runner) {
		r.slowThreshold = d
	}
}

// New wraps db.
func New(db *sql.DB, opts ...Option) *Runner {
	r := &Runner{
		db:            db,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		slowThreshold: time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result holds what a statement produced. Queries fill Columns and Rows;
// other statements fill RowsAffected.
type Result struct {
	Columns      []string
	Rows         [][]any
	RowsAffected int64
	query        bool
}

// Run executes query, reading rows when isQuery is set.
func (r *Runner) Run(ctx context.Context, query string, isQuery bool) (*Result, error) {
	if isQuery {
		return r.Query(ctx, query)
	}
	return r.Exec(ctx, query)
}

// Query runs a statement that returns rows and buffers them.
func (r *Runner) Query(ctx context.Context, query string) (*Result, error) {
	start := time.Now()
	defer r.observe(ctx, query, start)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}

	res := &Result{Columns: columns, query: true}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		res.Rows = append(res.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}
	return res, nil
}

// Exec runs a statement that does not return rows.
func (r *Runner) Exec(ctx context.Context, query string) (*Result, error) {
	start := time.Now()
	defer r.observe(ctx, query, start)

	out, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("exec: %w", err)
	}
	n, err := out.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	return &Result{RowsAffected: n}, nil
}

func (r *Runner) observe(ctx context.Context, query string, start time.Time) {
	duration := time.Since(start)
	r.logger.DebugContext(ctx, "statement executed", "duration", duration, "query", query)
	if duration > r.slowThreshold {
		r.logger.WarnContext(ctx, "slow query detected", "duration", duration, "query", query)
	}
}

// Write prints the result: tab-separated rows with a header for queries,
// a rows-affected line otherwise.
func (res *Result) Write(w io.Writer) error {
	if !res.query {
		_, err := fmt.Fprintf(w, "%d rows affected\n", res.RowsAffected)
		return err
	}

	if _, err := fmt.Fprintln(w, strings.Join(res.Columns, "\t")); err != nil {
		return err
	}
	cells := make([]string, len(res.Columns))
	for _, row := range res.Rows {
		for i, v := range row {
			cells[i] = formatValue(v)
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return nil
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(v)
	}
}

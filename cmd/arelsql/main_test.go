package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoobzio/arel/internal/cli"
	"github.com/zoobzio/arel/internal/runner"
)

// execute runs the root command. Flag values persist across calls, so every
// test passes the flags it depends on.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr), "expected ExitError, got %v", err)
	return exitErr.Code
}

const selectDoc = `
select:
  from: users
  project: [id, name]
  order: [id]
  limit: 1
`

func TestRender(t *testing.T) {
	dir := t.TempDir()
	config := writeFile(t, dir, "arelsql.yaml", "dialect: mssql\nlog:\n  level: error\n")
	query := writeFile(t, dir, "q.yaml", selectDoc)

	out, err := execute(t, "render", "--config", config, "-f", query, "--dialect", "postgres")
	require.NoError(t, err)
	assert.Equal(t, `SELECT "users"."id", "users"."name" FROM "users" ORDER BY "users"."id" LIMIT 1`+"\n", out)

	out, err = execute(t, "render", "--config", config, "-f", query, "--dialect=")
	require.NoError(t, err)
	assert.Equal(t, `SELECT [users].[id], [users].[name] FROM [users] ORDER BY [users].[id] OFFSET 0 ROWS FETCH NEXT 1 ROWS ONLY`+"\n", out)
}

func TestRender_Errors(t *testing.T) {
	dir := t.TempDir()
	config := writeFile(t, dir, "arelsql.yaml", "log:\n  level: error\n")

	bad := writeFile(t, dir, "bad.yaml", "select: {project: [id]}")
	_, err := execute(t, "render", "--config", config, "-f", bad, "--dialect", "ansi")
	assert.Equal(t, cli.ExitDocument, exitCode(t, err))

	unpaged := writeFile(t, dir, "unpaged.yaml", "select: {from: users, project: [id], limit: 1}")
	_, err = execute(t, "render", "--config", config, "-f", unpaged, "--dialect", "mssql")
	assert.Equal(t, cli.ExitCompile, exitCode(t, err))

	_, err = execute(t, "render", "--config", config, "-f", unpaged, "--dialect", "oracle")
	assert.Equal(t, cli.ExitConfig, exitCode(t, err))

	_, err = execute(t, "render", "--config", filepath.Join(dir, "missing.yaml"), "-f", unpaged)
	assert.Equal(t, cli.ExitConfig, exitCode(t, err))
}

func TestRun_SQLite(t *testing.T) {
	dir := t.TempDir()
	dsn := filepath.Join(dir, "app.db")
	config := writeFile(t, dir, "arelsql.yaml", "database:\n  driver: sqlite\n  dsn: "+dsn+"\nlog:\n  level: error\n")

	db, err := runner.Open("sqlite", dsn)
	require.NoError(t, err)
	_, err = db.ExecContext(context.Background(), `CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	insert := writeFile(t, dir, "insert.yaml", "insert: {into: users, columns: [id, name], values: [1, alice]}")
	out, err := execute(t, "run", "--config", config, "-f", insert, "--driver=", "--dsn=")
	require.NoError(t, err)
	assert.Equal(t, "1 rows affected\n", out)

	query := writeFile(t, dir, "q.yaml", selectDoc)
	out, err = execute(t, "run", "--config", config, "-f", query, "--driver=", "--dsn=")
	require.NoError(t, err)
	assert.Equal(t, "id\tname\n1\talice\n", out)
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	config := writeFile(t, dir, "arelsql.yaml", "log:\n  level: error\n")
	query := writeFile(t, dir, "q.yaml", selectDoc)

	_, err := execute(t, "run", "--config", config, "-f", query, "--driver=", "--dsn=")
	assert.Equal(t, cli.ExitConfig, exitCode(t, err), "missing driver")

	_, err = execute(t, "run", "--config", config, "-f", query, "--driver", "sqlite", "--dsn=")
	assert.Equal(t, cli.ExitConfig, exitCode(t, err), "missing dsn")

	_, err = execute(t, "run", "--config", config, "-f", query, "--driver", "oci8", "--dsn", "x")
	assert.Equal(t, cli.ExitConfig, exitCode(t, err), "unknown driver")

	_, err = execute(t, "run", "--config", config, "-f", query, "--driver", "sqlite", "--dsn", filepath.Join(dir, "empty.db"))
	assert.Equal(t, cli.ExitDatabase, exitCode(t, err), "missing table")
}

func TestDialects(t *testing.T) {
	out, err := execute(t, "dialects")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "mssql")
	assert.Contains(t, out, "offset-fetch")
	assert.Contains(t, out, "postgres")
}

func TestConfigShow(t *testing.T) {
	dir := t.TempDir()
	config := writeFile(t, dir, "arelsql.yaml", "dialect: sqlite\nlog:\n  level: error\n")

	out, err := execute(t, "config", "show", "--config", config, "--source")
	require.NoError(t, err)
	assert.Contains(t, out, "Config file: "+config)
	assert.Contains(t, out, "dialect: sqlite")
	assert.Contains(t, out, "level: error")
}

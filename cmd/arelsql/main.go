// Package main provides arelsql, a CLI that compiles YAML query documents
// to SQL and optionally runs them.
//
// The CLI supports:
//   - render: Compile a query document for a dialect and print the SQL
//   - run: Compile a query document for a driver and execute it
//   - dialects: List the available dialects
//   - config show: Print the effective configuration
//
// Usage:
//
//	arelsql [flags] <command>
//
// Configuration is read from arelsql.yaml (discovered upward from the working
// directory) and ARELSQL_* environment variables; flags take precedence.
package main

func main() {
	Execute()
}

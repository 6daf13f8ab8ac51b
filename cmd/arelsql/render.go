package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zoobzio/arel"
	"github.com/zoobzio/arel/internal/cli"
	"github.com/zoobzio/arel/internal/querydoc"
)

var (
	renderFile    string
	renderDialect string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Compile a query document and print the SQL",
	Example: `  # Render for PostgreSQL
  arelsql render -f query.yaml --dialect postgres

  # Render with the dialect implied by database.driver in arelsql.yaml
  arelsql render -f query.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := cfg.ResolveDialect(renderDialect)
		if err != nil {
			return cli.ConfigError("resolving dialect", err)
		}

		sql, _, err := compileDocument(renderFile, d)
		if err != nil {
			return err
		}
		logger.Debug("rendered query", "dialect", d.Name(), "file", renderFile)

		_, err = fmt.Fprintln(cmd.OutOrStdout(), sql)
		return err
	},
}

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&renderFile, "file", "f", "", "query document (YAML)")
	f.StringVar(&renderDialect, "dialect", "", "SQL dialect (see arelsql dialects)")
	_ = renderCmd.MarkFlagRequired("file")
}

// compileDocument loads, builds, and compiles the document at path. It
// reports whether the document is a query that returns rows.
func compileDocument(path string, d arel.Dialect) (string, bool, error) {
	doc, err := querydoc.Load(path)
	if err != nil {
		return "", false, cli.DocumentError("loading query document", err)
	}

	stmt, err := doc.Build()
	if err != nil {
		return "", false, cli.DocumentError("building query", err)
	}

	sql, err := stmt.Compile(d)
	if err != nil {
		return "", false, cli.CompileError("compiling query for "+d.Name(), err)
	}
	return sql, doc.IsQuery(), nil
}

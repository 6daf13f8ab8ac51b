package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/zoobzio/arel/internal/cli"
	"github.com/zoobzio/arel/internal/runner"
)

var (
	runFile    string
	runDriver  string
	runDSN     string
	runTimeout time.Duration
	runSlow    time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Compile a query document and execute it",
	Long: `Compile a query document with the dialect matching the driver and execute it.

Selects print tab-separated rows with a header line. Inserts print the number
of rows affected.`,
	Example: `  # Run against PostgreSQL
  arelsql run -f query.yaml --driver pgx --dsn postgres://localhost/app

  # Run against a SQLite file
  arelsql run -f query.yaml --driver sqlite --dsn app.db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		driver := cfg.ResolvedDriver(runDriver)
		if driver == "" {
			return cli.ConfigError("resolving driver", errMissingDriver)
		}
		dsn, err := cfg.ResolvedDSN(runDSN)
		if err != nil {
			return cli.ConfigError("resolving dsn", err)
		}
		d, err := cli.DialectForDriver(driver)
		if err != nil {
			return cli.ConfigError("resolving dialect", err)
		}

		sql, isQuery, err := compileDocument(runFile, d)
		if err != nil {
			return err
		}

		db, err := runner.Open(driver, dsn)
		if err != nil {
			return cli.DatabaseError("opening database", err)
		}
		defer func() { _ = db.Close() }()

		ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			return cli.DatabaseError("connecting to database", err)
		}

		r := runner.New(db, runner.WithLogger(logger), runner.WithSlowThreshold(runSlow))
		res, err := r.Run(ctx, sql, isQuery)
		if err != nil {
			return cli.DatabaseError("executing statement", err)
		}
		return res.Write(cmd.OutOrStdout())
	},
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&runFile, "file", "f", "", "query document (YAML)")
	f.StringVar(&runDriver, "driver", "", "database driver: mysql, pgx, sqlite, sqlserver")
	f.StringVar(&runDSN, "dsn", "", "data source name")
	f.DurationVar(&runTimeout, "timeout", 30*time.Second, "statement timeout")
	f.DurationVar(&runSlow, "slow", time.Second, "log statements slower than this")
	_ = runCmd.MarkFlagRequired("file")
}

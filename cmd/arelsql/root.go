package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zoobzio/arel/internal/cli"
)

var (
	// Global state set during PersistentPreRunE
	cfg        *cli.Config
	configPath string
	logger     *slog.Logger

	// Persistent flags
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "arelsql",
	Short: "Compile relational-algebra query documents to SQL",
	Long: `arelsql - relational-algebra SQL compiler

arelsql builds SELECT and INSERT statements from YAML query documents,
compiles them for a SQL dialect, and can execute them against a database.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for commands that never read it
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "dialects" {
			return nil
		}

		var err error
		cfg, configPath, err = cli.LoadConfig(cfgFile)
		if err != nil {
			return cli.ConfigError("loading configuration", err)
		}

		logger, err = cli.NewLogger(cmd.ErrOrStderr(), resolveString(logLevel, cfg.Log.Level))
		if err != nil {
			return cli.ConfigError("configuring logging", err)
		}
		logger.Debug("configuration loaded", "path", configPath)

		return nil
	},
	SilenceUsage:  true, // Don't show usage on errors
	SilenceErrors: true, // We handle errors ourselves
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: auto-discover arelsql.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(dialectsCmd)
	rootCmd.AddCommand(configCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(cli.Report(os.Stderr, err))
	}
}

// resolveString returns the first non-empty string from the provided values.
// Used to implement precedence: flag > config > default.
func resolveString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

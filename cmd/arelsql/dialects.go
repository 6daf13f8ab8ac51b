package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zoobzio/arel/internal/cli"
)

var dialectsCmd = &cobra.Command{
	Use:   "dialects",
	Short: "List available SQL dialects",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tPAGINATION\tLOCKING\tFULL JOIN")
		for _, name := range cli.DialectNames() {
			d, err := cli.LookupDialect(name)
			if err != nil {
				return err
			}
			caps := d.Capabilities()
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", name, caps.Pagination, caps.RowLocking, caps.FullOuterJoin)
		}
		return w.Flush()
	},
}

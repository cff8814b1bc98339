package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/dengine/engine"
	"github.com/satishbabariya/dengine/internal/ui"
	"github.com/satishbabariya/dengine/sqlgen"
	"github.com/satishbabariya/dengine/value"
)

// newQueryCommand creates the query command.
func newQueryCommand(a *app) *cobra.Command {
	var (
		params    string
		foundRows bool
		explain   bool
	)

	cmd := &cobra.Command{
		Use:   "query <sql>",
		Short: "Run a query and print its rows",
		Long: `Run a query and print its rows as a table.

With --found-rows the count printed below the table is the number of rows the
query matches without its LIMIT clause. --explain prints the statements that
would run instead of running them.`,
		Example: `  dengine query "select id, name from users where age > ? limit 10" --params "18" --found-rows`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseParams(params)
			if err != nil {
				return err
			}
			if explain {
				return explainQuery(args[0], p, foundRows)
			}
			return a.withConnection(cmd.Context(), func(conn connection) error {
				return runQuery(cmd.Context(), conn, args[0], p, foundRows)
			})
		},
	}

	cmd.Flags().StringVar(&params, "params", "", "comma-separated parameter literals")
	cmd.Flags().BoolVar(&foundRows, "found-rows", false, "count the rows matched without LIMIT")
	cmd.Flags().BoolVar(&explain, "explain", false, "print the statements instead of running them")

	return cmd
}

func runQuery(ctx context.Context, conn connection, sql string, params value.Params, foundRows bool) error {
	page, err := engine.Select[engine.Record](ctx, conn, sql, foundRows, params)
	if err != nil {
		return err
	}

	if len(page.Data) > 0 {
		rows := make([][]string, len(page.Data))
		for i, rec := range page.Data {
			rows[i] = rec.Strings()
		}
		if err := ui.PrintTable(page.Data[0].Columns, rows); err != nil {
			return err
		}
	}
	ui.PrintCount(len(page.Data), page.Count)
	return nil
}

func explainQuery(sql string, params value.Params, foundRows bool) error {
	md := ui.StatementMarkdown("query", sql, params)
	if foundRows {
		count, err := sqlgen.FoundRows(sql, params)
		if err != nil {
			return fmt.Errorf("found rows: %w", err)
		}
		md += "\n" + ui.StatementMarkdown("found rows", count.SQL, count.Args)
	}
	return ui.PrintMarkdown(md)
}

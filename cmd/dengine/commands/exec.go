package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/dengine/engine"
	"github.com/satishbabariya/dengine/internal/ui"
	"github.com/satishbabariya/dengine/value"
)

func newExecCommand(a *app) *cobra.Command {
	var params string

	cmd := &cobra.Command{
		Use:   "exec <sql>",
		Short: "Run a statement that returns no rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseParams(params)
			if err != nil {
				return err
			}
			return a.withConnection(cmd.Context(), func(conn connection) error {
				res, err := engine.ExecAffected(cmd.Context(), conn, args[0], p)
				if err != nil {
					return err
				}
				ui.PrintSuccess("%d rows affected", res.RowsAffected)
				if res.LastInsertID != 0 {
					ui.PrintInfo("last insert id %d", res.LastInsertID)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&params, "params", "", "comma-separated parameter literals")
	return cmd
}

func newValueCommand(a *app) *cobra.Command {
	var params string

	cmd := &cobra.Command{
		Use:   "value <sql> <column>",
		Short: "Print one column of the first row",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseParams(params)
			if err != nil {
				return err
			}
			return a.withConnection(cmd.Context(), func(conn connection) error {
				v, err := engine.QueryValue[value.Value](cmd.Context(), conn, args[0], args[1], p)
				if err != nil {
					return err
				}
				fmt.Fprintln(ui.Out, v.String())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&params, "params", "", "comma-separated parameter literals")
	return cmd
}

func newDeleteCommand(a *app) *cobra.Command {
	var (
		keys    string
		exclude bool
	)

	cmd := &cobra.Command{
		Use:   "delete <table> <column>",
		Short: "Delete rows whose key is (or with --exclude, is not) in a key set",
		Example: `  dengine delete sessions user_id --keys "1, 2, 3"
  dengine delete sessions user_id --keys "7" --exclude`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseParams(keys)
			if err != nil {
				return err
			}
			return a.withConnection(cmd.Context(), func(conn connection) error {
				res, err := engine.DeleteByKeys(cmd.Context(), conn, args[0], args[1], []value.Value(p), !exclude)
				if err != nil {
					return err
				}
				ui.PrintSuccess("%d rows deleted", res.RowsAffected)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&keys, "keys", "", "comma-separated key literals")
	cmd.Flags().BoolVar(&exclude, "exclude", false, "delete rows whose key is not in the set")
	_ = cmd.MarkFlagRequired("keys")
	return cmd
}

func newConcatCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "concat <columns...>",
		Short: "Print the backend's expression joining columns with a space",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withConnection(cmd.Context(), func(conn connection) error {
				fmt.Fprintln(ui.Out, engine.ConcatColumns(conn, args...))
				return nil
			})
		},
	}
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/dengine/adapter/sqlite"
	"github.com/satishbabariya/dengine/internal/ui"
	"github.com/satishbabariya/dengine/internal/version"
)

// newVersionCommand creates the version command.
func newVersionCommand(a *app) *cobra.Command {
	var withEngine bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			if !withEngine {
				fmt.Fprintln(ui.Out, info.FullString())
				return nil
			}
			return a.withConnection(cmd.Context(), func(conn connection) error {
				info.Engine = a.config.Database.Provider
				if db, ok := conn.(*sqlite.Adapter); ok {
					info.Engine += " " + db.Version().String()
				}
				fmt.Fprintln(ui.Out, info.FullString())
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&withEngine, "engine", false, "connect and report the backend")
	return cmd
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/dengine/adapter/sqlite"
	"github.com/satishbabariya/dengine/internal/ui"
)

func newAttachCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "attach <path> <alias>",
		Short: "Attach a SQLite database file and list the attached aliases",
		Long: `Attach a SQLite database file under an alias, next to the databases listed
in database.attach. Only the sqlite provider supports attachments.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withConnection(cmd.Context(), func(conn connection) error {
				db, ok := conn.(*sqlite.Adapter)
				if !ok {
					return fmt.Errorf("attach requires the sqlite provider, not %q", a.config.Database.Provider)
				}
				if err := db.Attach(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				ui.PrintSuccess("attached %s as %s", args[0], args[1])
				ui.PrintList(db.Attached())
				return nil
			})
		},
	}
}

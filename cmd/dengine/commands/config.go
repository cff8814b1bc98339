package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/dengine/internal/config"
	"github.com/satishbabariya/dengine/internal/ui"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or save the resolved configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file := a.viper.ConfigFileUsed(); file != "" {
				ui.PrintInfo("config file %s", file)
			}
			return ui.PrintTable([]string{"key", "value"}, settings(a.config))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "save",
		Short: "Write the resolved configuration to ~/.config/dengine/.dengine.yaml",
		Long: `Write the resolved configuration to ~/.config/dengine/.dengine.yaml.
The password is never written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Save(a.config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			ui.PrintSuccess("saved %s", path)
			db := a.config.Database
			if db.Password != "" || config.RedactURL(db.URL, "") != db.URL {
				ui.PrintWarning("the password was not saved; use --ask-password or DENGINE_DATABASE_PASSWORD")
			}
			return nil
		},
	})

	return cmd
}

func settings(cfg *config.Config) [][]string {
	db := cfg.Database
	password := ""
	if db.Password != "" {
		password = "********"
	}

	attach := make([]string, 0, len(db.Attach))
	for alias, path := range db.Attach {
		attach = append(attach, alias+"="+path)
	}
	sort.Strings(attach)

	return [][]string{
		{"provider", db.Provider},
		{"url", config.RedactURL(db.URL, "********")},
		{"path", db.Path},
		{"busy_timeout", db.BusyTimeout.String()},
		{"wal", fmt.Sprint(db.WALMode)},
		{"attach", strings.Join(attach, ", ")},
		{"host", db.Host},
		{"port", fmt.Sprint(db.Port)},
		{"user", db.User},
		{"password", password},
		{"name", db.Name},
		{"conflict_columns", strings.Join(db.ConflictColumns, ", ")},
		{"max_connections", fmt.Sprint(db.MaxConnections)},
		{"max_idle_time", db.MaxIdleTime.String()},
		{"connect_timeout", db.ConnectTimeout.String()},
		{"debug", fmt.Sprint(cfg.Debug)},
	}
}

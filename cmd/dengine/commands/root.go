// Package commands implements the dengine CLI commands.
package commands

import (
	"context"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/satishbabariya/dengine/adapter/mysql"
	"github.com/satishbabariya/dengine/adapter/postgres"
	"github.com/satishbabariya/dengine/adapter/sqlite"
	"github.com/satishbabariya/dengine/engine"
	"github.com/satishbabariya/dengine/internal/config"
	"github.com/satishbabariya/dengine/internal/debug"
	"github.com/satishbabariya/dengine/internal/paramlit"
	"github.com/satishbabariya/dengine/internal/version"
	"github.com/satishbabariya/dengine/value"
)

// connection is an adapter the CLI can close when a command is done.
type connection interface {
	engine.Connectionable
	Close() error
}

// app carries the state shared by every command of one invocation.
type app struct {
	url         string
	askPassword bool

	viper  *viper.Viper
	config *config.Config
}

// NewRootCommand creates the dengine root command.
func NewRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "dengine",
		Short: "Query MySQL, SQLite and PostgreSQL through one engine",
		Long: `dengine runs statements against MySQL, SQLite or PostgreSQL with the same
value model, parameter binding and error taxonomy on every backend.

Settings come from .dengine.yaml, DENGINE_* environment variables, .env files
and the flags below, in increasing order of priority.`,
		Version:           version.Get().Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
	}

	flags := cmd.PersistentFlags()
	flags.String("provider", "", "database provider: sqlite, mysql or postgres")
	flags.StringVar(&a.url, "url", "", "connection URL or DSN")
	flags.String("path", "", "sqlite database file")
	flags.Bool("debug", false, "log statements and pool activity to stderr")
	flags.BoolVar(&a.askPassword, "ask-password", false, "prompt for the mysql password")

	cmd.AddCommand(
		newQueryCommand(a),
		newExecCommand(a),
		newValueCommand(a),
		newDeleteCommand(a),
		newConcatCommand(a),
		newAttachCommand(a),
		newWatchCommand(a),
		newConfigCommand(a),
		newVersionCommand(a),
	)

	return cmd
}

// load resolves the configuration once flags are parsed.
func (a *app) load(cmd *cobra.Command, args []string) error {
	v, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	flags := cmd.Flags()
	for key, flag := range map[string]string{
		"database.provider": "provider",
		"database.path":     "path",
		"debug":             "debug",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return err
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	// The flag outranks DATABASE_URL, which Load applies.
	if flags.Changed("url") {
		cfg.Database.URL = a.url
	}

	if a.askPassword {
		prompt := &survey.Password{Message: "Database password:"}
		if err := survey.AskOne(prompt, &cfg.Database.Password); err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}

	debug.Init(cfg.Debug)
	debug.Debug("config loaded", "provider", cfg.Database.Provider, "file", v.ConfigFileUsed())

	a.viper = v
	a.config = cfg
	return nil
}

// connect opens the configured backend.
func (a *app) connect(ctx context.Context) (connection, error) {
	db := a.config.Database
	switch db.Provider {
	case "sqlite", "sqlite3":
		c, err := sqlite.Open(ctx, db.SQLite())
		if err != nil {
			return nil, err
		}
		return c, nil
	case "mysql":
		c, err := mysql.Open(ctx, db.MySQL())
		if err != nil {
			return nil, err
		}
		return c, nil
	case "postgres", "postgresql":
		c, err := postgres.Open(ctx, db.Postgres())
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", db.Provider)
	}
}

// withConnection opens the backend, runs fn and closes the backend.
func (a *app) withConnection(ctx context.Context, fn func(connection) error) error {
	conn, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			debug.Warn("close", "error", cerr)
		}
	}()
	return fn(conn)
}

func parseParams(list string) (value.Params, error) {
	p, err := paramlit.Parse(list)
	if err != nil {
		return nil, fmt.Errorf("invalid --params: %w", err)
	}
	return p, nil
}

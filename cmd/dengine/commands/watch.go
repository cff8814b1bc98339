package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/dengine/internal/ui"
	"github.com/satishbabariya/dengine/internal/watch"
)

func newWatchCommand(a *app) *cobra.Command {
	var (
		params    string
		foundRows bool
		debounce  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch <file.sql>",
		Short: "Re-run the query in a file every time it is saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseParams(params)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			return a.withConnection(ctx, func(conn connection) error {
				rerun := func() error {
					src, err := os.ReadFile(args[0])
					if err != nil {
						return err
					}
					sql := strings.TrimSpace(string(src))
					if sql == "" {
						return nil
					}
					ui.PrintSection(fmt.Sprintf("%s (%s)", args[0], time.Now().Format(time.TimeOnly)))
					if err := runQuery(ctx, conn, sql, p, foundRows); err != nil {
						ui.PrintError("%v", err)
					}
					return nil
				}

				w, err := watch.NewWatcher(args[0], debounce, rerun)
				if err != nil {
					return err
				}
				if err := w.Start(); err != nil {
					return err
				}
				ui.PrintInfo("watching %s, press Ctrl+C to stop", args[0])

				<-ctx.Done()
				return w.Stop()
			})
		},
	}

	cmd.Flags().StringVar(&params, "params", "", "comma-separated parameter literals")
	cmd.Flags().BoolVar(&foundRows, "found-rows", false, "count the rows matched without LIMIT")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "wait this long after a save before re-running")
	return cmd
}

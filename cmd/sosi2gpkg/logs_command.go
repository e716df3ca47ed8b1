package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sosi2gpkg/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool
	var runID string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the import log file",
		Long: "Show the tail of the log file written when logging.to_file is enabled.\n" +
			"Use --run with an id from `sosi2gpkg history --json` to see a single import.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := cfg.LogFilePath()
			out := cmd.OutOrStdout()
			if !cfg.Logging.ToFile {
				fmt.Fprintln(cmd.ErrOrStderr(), "logging.to_file is disabled; showing any existing log at", path)
			}

			filter := logs.Filter{runID}
			tail, offset, err := logs.Last(path, lines, filter)
			if err != nil {
				return err
			}
			for _, line := range tail {
				fmt.Fprintln(out, line)
			}
			if !follow {
				if len(tail) == 0 {
					fmt.Fprintln(cmd.ErrOrStderr(), "No log entries")
				}
				return nil
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return logs.Follow(runCtx, path, offset, 500*time.Millisecond, filter, func(line string) {
				fmt.Fprintln(out, line)
			})
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines until interrupted")
	cmd.Flags().StringVar(&runID, "run", "", "Only show lines for this run id")
	return cmd
}

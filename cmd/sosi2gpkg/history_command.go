package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"sosi2gpkg/internal/history"
)

type historyEntry struct {
	ID         string    `json:"id" yaml:"id"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	DurationMS int64     `json:"duration_ms" yaml:"duration_ms"`
	Input      string    `json:"input" yaml:"input"`
	Output     string    `json:"output" yaml:"output"`
	Koordsys   *int      `json:"koordsys" yaml:"koordsys"`
	CRS        string    `json:"crs" yaml:"crs"`
	Mode       string    `json:"mode" yaml:"mode"`
	Workaround bool      `json:"workaround" yaml:"workaround"`
	Layers     int       `json:"layers" yaml:"layers"`
	Status     string    `json:"status" yaml:"status"`
	Error      string    `json:"error,omitempty" yaml:"error,omitempty"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOut, yamlOut bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent imports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOut || yamlOut {
				entries := make([]historyEntry, 0, len(runs))
				for _, run := range runs {
					entries = append(entries, historyEntry{
						ID:         run.ID,
						StartedAt:  run.StartedAt,
						DurationMS: run.Duration().Milliseconds(),
						Input:      run.Input,
						Output:     run.Output,
						Koordsys:   run.Koordsys,
						CRS:        run.CRS,
						Mode:       run.Mode,
						Workaround: run.Workaround,
						Layers:     run.Layers,
						Status:     run.Status,
						Error:      run.Error,
					})
				}
				if yamlOut {
					return writeYAML(cmd, entries)
				}
				return writeJSON(cmd, entries)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No imports recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				mode := run.Mode
				if run.Workaround && mode != "" {
					mode += "+workaround"
				}
				rows = append(rows, []string{
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					run.Status,
					mode,
					strconv.Itoa(run.Layers),
					run.Duration().Round(100 * time.Millisecond).String(),
					run.Output,
				})
			}
			fmt.Fprintln(out, renderTable([]column{
				{title: "Started"},
				{title: "Status"},
				{title: "Mode"},
				{title: "Layers", right: true},
				{title: "Duration", right: true},
				{title: "Output"},
			}, rows))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	addStructuredFlags(cmd, &jsonOut, &yamlOut, "runs")
	return cmd
}

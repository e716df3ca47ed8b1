package main

import (
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"sosi2gpkg/internal/config"
	"sosi2gpkg/internal/deps"
	"sosi2gpkg/internal/history"
	"sosi2gpkg/internal/importer"
	"sosi2gpkg/internal/logging"
	"sosi2gpkg/internal/preflight"
	"sosi2gpkg/internal/progress"
	"sosi2gpkg/internal/services"
	"sosi2gpkg/internal/services/ogr2ogr"
	"sosi2gpkg/internal/workspace"
)

type importResult struct {
	RunID      string `json:"run_id"`
	Input      string `json:"input"`
	Output     string `json:"output"`
	Layers     int    `json:"layers"`
	Mode       string `json:"mode"`
	Koordsys   *int   `json:"koordsys"`
	Known      bool   `json:"known"`
	CRS        string `json:"crs"`
	Workaround bool   `json:"workaround"`
	Partial    bool   `json:"partial"`
}

func newImportResult(s importer.Summary) importResult {
	result := importResult{
		RunID:      s.RunID,
		Input:      s.Input,
		Output:     s.Output,
		Layers:     s.Layers,
		Mode:       string(s.Mode),
		Known:      s.Known,
		CRS:        s.CRSText(),
		Workaround: s.Workaround,
		Partial:    s.Partial,
	}
	if s.HasCode {
		code := s.Koordsys
		result.Koordsys = &code
	}
	return result
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	var output string
	var assumeYes bool
	var noInput bool
	var jsonOut bool
	var sourceEPSG string
	var targetEPSG string

	cmd := &cobra.Command{
		Use:   "import [input.sos]",
		Short: "Convert a SOSI file to GeoPackage and add its layers to the project",
		Long: `Convert a SOSI file to GeoPackage with ogr2ogr and register every layer of
the result in the workspace project.

The coordinate system is taken from the file's KOORDSYS directive when it is
a known code. Otherwise you are asked for one, or it can be given up front
with --source-epsg (and --target-epsg to reproject).

Conversion runs in fast mode first and falls back to robust mode, which
skips malformed features. If both fail, a copy of the input with a rewritten
encoding declaration is tried. Press Ctrl+C to cancel.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			req := importer.Request{Output: output}
			if len(args) == 1 {
				req.Input = args[0]
			}
			if req.CRS, err = crsFromFlags(sourceEPSG, targetEPSG); err != nil {
				return err
			}

			if failed := preflight.Failed(preflight.RunAll(cmd.Context(), cfg)); len(failed) > 0 {
				return services.Wrap(services.ErrConfiguration, "preflight", failed[0].Name, failed[0].Detail, nil)
			}
			binary, err := deps.FindOgr2ogr(cfg.Ogr2ogr.Binary, cfg.Ogr2ogr.InstallPrefixes)
			if err != nil {
				return err
			}

			useBar := !jsonOut && isTerminal(cmd.ErrOrStderr())
			logger, err := ctx.logger(cmd, useBar)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			prompter := newTerminalPrompter(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			prompter.assumeYes = assumeYes
			prompter.noInput = noInput
			prompter.json = jsonOut

			var sink progress.Sink
			if useBar {
				bar := progress.NewTerminal(cmd.ErrOrStderr())
				defer bar.Close()
				prompter.beforeOutput = bar.Close
				sink = bar
			} else {
				sink = progress.NewLog(logger)
			}

			imp, cleanup, err := buildImporter(cfg, binary, logger, prompter)
			if err != nil {
				return err
			}
			defer cleanup()

			summary, err := imp.Run(runCtx, req, sink)
			if err != nil {
				if services.IsSilent(err) {
					return err
				}
				return reportedError{err: err}
			}
			if jsonOut {
				return writeJSON(cmd, newImportResult(summary))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output GeoPackage (the .gpkg extension is added when missing)")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Overwrite an existing output without asking")
	cmd.Flags().BoolVar(&noInput, "no-input", false, "Never prompt; fail when a question would be asked")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the import summary as JSON")
	cmd.Flags().StringVar(&sourceEPSG, "source-epsg", "", "EPSG code of the input when KOORDSYS is missing or unknown")
	cmd.Flags().StringVar(&targetEPSG, "target-epsg", "", "Reproject to this EPSG code (default: same as source)")
	return cmd
}

func crsFromFlags(source, target string) (*importer.CRSOverride, error) {
	source = strings.TrimSpace(source)
	target = strings.TrimSpace(target)
	if source == "" {
		if target != "" {
			return nil, services.Wrap(services.ErrValidation, "import", "crs", "--target-epsg requires --source-epsg", nil)
		}
		return nil, nil
	}
	code, err := importer.ParseEPSG(source)
	if err != nil {
		return nil, err
	}
	to, err := importer.ParseTarget(target)
	if err != nil {
		return nil, err
	}
	return &importer.CRSOverride{Source: code, Target: to}, nil
}

func buildImporter(cfg *config.Config, binary string, logger *slog.Logger, prompter importer.Prompter) (*importer.Importer, func(), error) {
	runner := &ogr2ogr.Runner{
		StartTimeout: cfg.StartTimeout(),
		KillTimeout:  cfg.KillTimeout(),
		PollInterval: cfg.PollInterval(),
		Logger:       logger,
	}
	client, err := ogr2ogr.New(binary,
		ogr2ogr.WithExecutor(runner),
		ogr2ogr.WithBatchSize(cfg.Ogr2ogr.BatchSize),
		ogr2ogr.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, err
	}

	project, err := workspace.OpenProject(cfg.Paths.ProjectFile)
	if err != nil {
		return nil, nil, err
	}

	imp := &importer.Importer{
		Converter:    client,
		Workspace:    project,
		Materializer: workspace.Materializer{Logger: logger},
		Prompter:     prompter,
		Workaround:   importer.PolicyFromConfig(cfg),
		Logger:       logger,
	}

	cleanup := func() {}
	store, err := history.Open(cfg)
	if err != nil {
		logging.WarnWithContext(logger, "run history unavailable", "history_open_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run will not be recorded"),
		)
	} else {
		imp.History = store
		cleanup = func() { _ = store.Close() }
	}
	return imp, cleanup, nil
}

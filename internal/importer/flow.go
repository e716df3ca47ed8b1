package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"sosi2gpkg/internal/config"
	"sosi2gpkg/internal/fileutil"
	"sosi2gpkg/internal/history"
	"sosi2gpkg/internal/logging"
	"sosi2gpkg/internal/progress"
	"sosi2gpkg/internal/services"
	"sosi2gpkg/internal/services/ogr2ogr"
	"sosi2gpkg/internal/sosi"
	"sosi2gpkg/internal/workspace"
)

const outputExt = ".gpkg"

// Request is the caller-supplied part of an import. Empty paths are asked
// for through the Prompter. CRS answers the coordinate-system question up
// front and is only used when the input's KOORDSYS is not a known code.
type Request struct {
	Input  string
	Output string
	CRS    *CRSOverride
}

// RunRecorder persists a record of each run that reaches conversion.
type RunRecorder interface {
	Record(ctx context.Context, run history.Run) error
}

// WorkaroundPolicy controls the encoding-workaround retry.
type WorkaroundPolicy struct {
	Enabled bool
	Options sosi.WorkaroundOptions
	// KeepCopy leaves the rewritten copy on disk for inspection.
	KeepCopy bool
}

// PolicyFromConfig builds the workaround policy from configuration.
func PolicyFromConfig(cfg *config.Config) WorkaroundPolicy {
	return WorkaroundPolicy{
		Enabled: cfg.Workaround.Enabled,
		Options: sosi.WorkaroundOptions{
			ForceVersion:   cfg.Workaround.ForceVersion,
			TargetEncoding: cfg.Workaround.TargetEncoding,
			TempDir:        cfg.Paths.TempDir,
		},
		KeepCopy: cfg.Workaround.KeepCopy,
	}
}

// Importer sequences one import from path selection to summary.
type Importer struct {
	Converter    ogr2ogr.Converter
	Workspace    workspace.Workspace
	Materializer workspace.Materializer
	Prompter     Prompter
	// History is optional.
	History    RunRecorder
	Workaround WorkaroundPolicy
	Logger     *slog.Logger

	now func() time.Time
}

// NormalizeOutput cleans path and appends the .gpkg extension unless the
// path already ends with it in any case.
func NormalizeOutput(path string) string {
	path = filepath.Clean(strings.TrimSpace(path))
	if !strings.EqualFold(filepath.Ext(path), outputExt) {
		path += outputExt
	}
	return path
}

// Run performs the import. Errors other than cancellation and declined
// prompts are shown through the Prompter before being returned. Nothing done
// before a failure is rolled back.
func (im *Importer) Run(ctx context.Context, req Request, sink progress.Sink) (Summary, error) {
	summary, err := im.run(ctx, req, progress.OrNop(sink))
	if err != nil && !services.IsSilent(err) {
		im.Prompter.ShowError(ctx, err)
	}
	return summary, err
}

func (im *Importer) run(ctx context.Context, req Request, sink progress.Sink) (Summary, error) {
	logger := logging.NewComponentLogger(im.Logger, "import")

	paths, err := im.resolvePaths(ctx, req)
	if err != nil {
		return Summary{}, err
	}
	if fileutil.Exists(paths.Output) && !im.Prompter.ConfirmOverwrite(ctx, paths.Output) {
		return Summary{}, aborted("overwrite declined")
	}

	code, hasCode := sosi.ExtractKoordsys(paths.Input)
	known := sosi.IsKnown(code, hasCode)
	summary := Summary{
		Input:    paths.Input,
		Output:   paths.Output,
		Koordsys: code,
		HasCode:  hasCode,
		Known:    known,
	}

	switch {
	case !known && req.CRS != nil:
		crs := *req.CRS
		summary.Override = &crs
	case !known:
		crs, ok := im.Prompter.ResolveCRS(ctx, code, hasCode)
		if !ok {
			return Summary{}, aborted("coordinate system not chosen")
		}
		summary.Override = &crs
	case req.CRS != nil:
		logger.Warn("ignoring coordinate system override; input declares a known KOORDSYS",
			"koordsys", code,
			logging.FieldEventType, "crs_override_ignored",
		)
	}
	var crsArgs []string
	if summary.Override != nil {
		crsArgs = summary.Override.Args()
	}

	if err := os.MkdirAll(filepath.Dir(paths.Output), 0o755); err != nil {
		return Summary{}, services.Wrap(services.ErrFilesystem, "import", "output dir", filepath.Dir(paths.Output), err)
	}
	lock, err := lockOutput(paths.Output)
	if err != nil {
		return Summary{}, err
	}
	defer lock.release()

	summary.RunID = uuid.NewString()
	ctx = services.WithRequestID(ctx, summary.RunID)
	logging.WithContext(ctx, logger).Info("import started",
		"input", paths.Input,
		"output", paths.Output,
		"crs", summary.CRSText(),
	)

	started := im.clock()
	summary, err = im.convertAndLoad(ctx, summary, crsArgs, sink)
	im.record(ctx, logger, summary, started, err)
	if err != nil {
		return summary, err
	}

	logging.WithContext(ctx, logger).Info("import finished",
		"layers", summary.Layers,
		logging.FieldMode, string(summary.Mode),
		"partial", summary.Partial,
	)
	im.Prompter.ShowSummary(ctx, summary)
	return summary, nil
}

func (im *Importer) resolvePaths(ctx context.Context, req Request) (Paths, error) {
	paths := Paths{Input: strings.TrimSpace(req.Input), Output: strings.TrimSpace(req.Output)}
	if paths.Input == "" || paths.Output == "" {
		selected, ok := im.Prompter.SelectPaths(ctx, paths)
		if !ok {
			return Paths{}, aborted("no files selected")
		}
		paths = Paths{Input: strings.TrimSpace(selected.Input), Output: strings.TrimSpace(selected.Output)}
		if paths.Input == "" || paths.Output == "" {
			return Paths{}, aborted("no files selected")
		}
	}
	paths.Input = filepath.Clean(paths.Input)
	paths.Output = NormalizeOutput(paths.Output)

	info, err := os.Stat(paths.Input)
	if err != nil {
		return Paths{}, services.Wrap(services.ErrValidation, "import", "input", "cannot read "+paths.Input, err)
	}
	if info.IsDir() {
		return Paths{}, services.Wrap(services.ErrValidation, "import", "input", paths.Input+" is a directory", nil)
	}
	return paths, nil
}

func (im *Importer) convertAndLoad(ctx context.Context, summary Summary, crsArgs []string, sink progress.Sink) (Summary, error) {
	sink.Indeterminate()
	sink.SetLabel("Starting...")

	mode, usedWorkaround, err := im.convert(services.WithStage(ctx, "convert"), summary.Input, summary.Output, crsArgs, sink)
	summary.Mode = mode
	summary.Workaround = usedWorkaround
	if err != nil {
		return summary, err
	}
	if ctx.Err() != nil || sink.Canceled() {
		return summary, canceled()
	}

	sink.SetLabel("Converted. Loading layers...")
	added, err := im.Materializer.Materialize(services.WithStage(ctx, "load"), im.Workspace, summary.Output, sink)
	if err != nil {
		return summary, err
	}
	summary.Layers = added
	summary.Partial = ctx.Err() != nil || sink.Canceled()
	if summary.Partial && added == 0 {
		return summary, canceled()
	}
	return summary, nil
}

// convert runs the fast/robust strategy and, when both fail, one more time
// on a copy with rewritten encoding and version directives. The copy is
// removed once that retry returns.
func (im *Importer) convert(ctx context.Context, input, output string, crsArgs []string, sink progress.Sink) (ogr2ogr.Mode, bool, error) {
	mode, err := im.Converter.Convert(ctx, input, output, crsArgs, sink)
	if err == nil || services.IsCanceled(err) || !im.Workaround.Enabled {
		return mode, false, err
	}

	logger := logging.WithContext(ctx, logging.NewComponentLogger(im.Logger, "import"))
	logging.WarnWithContext(logger, "direct conversion failed; retrying with encoding workaround", "workaround_retry",
		logging.Error(err),
		logging.String(logging.FieldImpact, "input is re-encoded before conversion"),
	)
	sink.SetLabel("Direct conversion failed, trying workaround...")

	wa, werr := sosi.MakeWorkaroundCopy(input, im.Workaround.Options)
	if werr != nil {
		return "", false, werr
	}
	if im.Workaround.KeepCopy {
		logger.Info("keeping workaround copy", "path", wa.Path)
	} else {
		defer wa.Remove()
	}
	logger.Debug("workaround copy written", "path", wa.Path, "rewrites", wa.Rewrites)

	mode, err = im.Converter.Convert(ctx, wa.Path, output, crsArgs, sink)
	return mode, true, err
}

func (im *Importer) record(ctx context.Context, logger *slog.Logger, summary Summary, started time.Time, runErr error) {
	if im.History == nil {
		return
	}
	run := history.Run{
		ID:         summary.RunID,
		StartedAt:  started,
		FinishedAt: im.clock(),
		Input:      summary.Input,
		Output:     summary.Output,
		CRS:        summary.CRSText(),
		Mode:       string(summary.Mode),
		Workaround: summary.Workaround,
		Layers:     summary.Layers,
		Status:     services.Outcome(runErr),
	}
	if summary.HasCode {
		code := summary.Koordsys
		run.Koordsys = &code
	}
	if runErr != nil && !services.IsSilent(runErr) {
		run.Error = runErr.Error()
	}
	if err := im.History.Record(context.WithoutCancel(ctx), run); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, logger), "failed to record run history", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run will be missing from history"),
		)
	}
}

func (im *Importer) clock() time.Time {
	if im.now != nil {
		return im.now()
	}
	return time.Now()
}

func aborted(reason string) error {
	return fmt.Errorf("%w: %s", services.ErrAborted, reason)
}

func canceled() error {
	return fmt.Errorf("import: %w", services.ErrCanceled)
}

// IsAborted reports whether err ended the import because a prompt was
// declined.
func IsAborted(err error) bool {
	return errors.Is(err, services.ErrAborted)
}

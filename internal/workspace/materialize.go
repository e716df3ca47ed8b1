package workspace

import (
	"context"
	"fmt"
	"log/slog"

	"sosi2gpkg/internal/gpkg"
	"sosi2gpkg/internal/logging"
	"sosi2gpkg/internal/progress"
)

// LayerSource lists and validates the layers of an opened container.
type LayerSource interface {
	Layers(ctx context.Context) ([]gpkg.Layer, error)
	Valid(ctx context.Context, layer gpkg.Layer) bool
	Close() error
}

// Opener opens a container for reading.
type Opener func(ctx context.Context, path string) (LayerSource, error)

// OpenGeoPackage is the Opener backed by the gpkg reader.
func OpenGeoPackage(ctx context.Context, path string) (LayerSource, error) {
	r, err := gpkg.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Materializer loads every layer of a container into a workspace.
type Materializer struct {
	Open   Opener
	Logger *slog.Logger
}

// Materialize registers each layer of the container at path, in storage
// order, and returns how many were added. Invalid layers are skipped and not
// counted. Cancellation is checked before each layer and stops the batch
// early without removing layers already added; a container that cannot be
// read because ctx was canceled yields no layers and no error. Rendering is
// suspended for the batch and restored to its previous state afterwards. A
// failure to persist the batch on restore is returned with a zero count.
func (m Materializer) Materialize(ctx context.Context, ws Workspace, path string, sink progress.Sink) (added int, err error) {
	sink = progress.OrNop(sink)
	open := m.Open
	if open == nil {
		open = OpenGeoPackage
	}
	logger := logging.WithContext(ctx, logging.NewComponentLogger(m.Logger, "workspace"))

	if ctx.Err() != nil || sink.Canceled() {
		return 0, nil
	}
	source, err := open(ctx, path)
	if err != nil {
		if ctx.Err() != nil {
			return 0, nil
		}
		return 0, err
	}
	defer source.Close()

	layers, err := source.Layers(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return 0, nil
		}
		return 0, err
	}
	if len(layers) == 0 {
		return 0, nil
	}

	previous := ws.RenderingSuspended()
	if err := ws.SuspendRendering(true); err != nil {
		return 0, err
	}
	defer func() {
		if restoreErr := ws.SuspendRendering(previous); restoreErr != nil && err == nil {
			added, err = 0, restoreErr
		}
	}()

	sink.Determinate()
	sink.SetValue(0)

	total := len(layers)
	for i, layer := range layers {
		if ctx.Err() != nil || sink.Canceled() {
			logger.Info("layer loading canceled", "added", added, "remaining", total-i)
			break
		}
		ref := LayerRef{
			Source:   gpkg.SourceURI(path, layer.Name),
			Name:     layer.Name,
			Provider: "ogr",
		}
		switch {
		case !source.Valid(ctx, layer):
			logging.WarnWithContext(logger, "skipping invalid layer", "layer_invalid",
				logging.String("layer", layer.Name),
				logging.String(logging.FieldImpact, "layer not added to the project"),
			)
		case ws.AddLayer(ref):
			added++
			logger.Debug("layer added", "layer", layer.Name, "source", ref.Source)
		default:
			logging.WarnWithContext(logger, "workspace rejected layer", "layer_rejected",
				logging.String("layer", layer.Name),
				logging.String(logging.FieldImpact, "layer not added to the project"),
			)
		}
		sink.SetLabel(fmt.Sprintf("Loading layer: %s (%d/%d)", layer.Name, i+1, total))
		sink.SetValue((i + 1) * 100 / total)
	}
	return added, nil
}

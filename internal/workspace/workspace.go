package workspace

// LayerRef addresses one layer of a converted container.
type LayerRef struct {
	// Source is "<path>|layername=<name>".
	Source   string
	Name     string
	Provider string
}

// Workspace owns the shared layer collection.
type Workspace interface {
	// AddLayer registers a layer and reports whether it was accepted.
	AddLayer(ref LayerRef) bool
	LayerCount() int
	RenderingSuspended() bool
	// SuspendRendering defers persistence while suspended. Resuming flushes
	// pending changes and reports a failed flush.
	SuspendRendering(suspended bool) error
}

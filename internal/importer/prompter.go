package importer

import "context"

// Paths are the input and output files of an import.
type Paths struct {
	Input  string
	Output string
}

// Prompter collects decisions from the user. Each question returns false
// when the user declines, which aborts the import without an error report.
type Prompter interface {
	SelectPaths(ctx context.Context, defaults Paths) (Paths, bool)
	ConfirmOverwrite(ctx context.Context, path string) bool
	// ResolveCRS asks for an explicit coordinate system. code and hasCode
	// describe the KOORDSYS value found in the input, if any.
	ResolveCRS(ctx context.Context, code int, hasCode bool) (CRSOverride, bool)
	ShowSummary(ctx context.Context, summary Summary)
	ShowError(ctx context.Context, err error)
}

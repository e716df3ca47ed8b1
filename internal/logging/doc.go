// Package logging assembles structured slog loggers for sosi2gpkg.
//
// It owns the console and JSON handlers, level and output plumbing, and
// context helpers that tag log lines with the import stage, conversion mode,
// and run correlation ID. Log output goes to stderr (plus an optional file) so
// command output on stdout stays machine readable.
package logging

// Package services defines shared utilities consumed by the import pipeline
// and its external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp stage names, conversion modes, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that separate user
//     cancellation from genuine failures, so callers know when a fallback
//     attempt is allowed and how a run is recorded.
//
// Subpackages wrap individual external tools (currently ogr2ogr) behind small,
// testable interfaces.
package services

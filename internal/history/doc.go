// Package history persists one record per import run in a SQLite database
// under the state directory, so past conversions (their strategy, CRS
// decision, and outcome) can be listed later.
package history

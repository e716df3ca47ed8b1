// Package workspace registers converted layers in the user's project.
//
// The Workspace interface is the boundary to whatever owns the layer
// collection. Project is the file-backed implementation used by the CLI: a
// TOML document listing layer sources, rewritten atomically. Suspending
// rendering defers those rewrites until the batch is done.
package workspace

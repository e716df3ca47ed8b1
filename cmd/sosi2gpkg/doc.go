// Package main hosts the sosi2gpkg CLI entrypoint and command graph.
//
// The Cobra-based command tree exposes the interactive import, quick
// inspection helpers (sniff, layers), run history and logs, environment
// checks, and configuration scaffolding. It centralizes configuration
// resolution, logger construction, and progress sink selection so
// subcommands only wire internal packages together.
//
// Keep this package lean: new behaviour belongs in the internal packages
// first and is surfaced here through a command or flag.
package main

// Package importer runs the interactive SOSI import: it collects paths,
// resolves the coordinate system, drives the ogr2ogr strategy with one
// encoding-workaround retry, loads the produced layers into the workspace,
// and reports a summary.
//
// User interaction goes through the Prompter interface so the flow can be
// driven from a terminal, flags, or tests.
package importer

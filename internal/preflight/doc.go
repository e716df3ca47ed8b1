// Package preflight provides readiness checks for the converter and the
// filesystem paths sosi2gpkg writes to.
//
// The doctor command renders every check; the import command runs RunAll and
// stops before prompting when a check fails.
package preflight

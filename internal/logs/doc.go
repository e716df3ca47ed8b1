// Package logs reads the import log file written when logging.to_file is
// enabled.
//
// Last returns the trailing lines with bounded memory and Follow polls for
// appended lines until the context ends, which backs `sosi2gpkg logs
// --follow`. Only complete lines are emitted; a line still being written is
// picked up on the next poll.
package logs

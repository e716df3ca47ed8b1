// Package ogr2ogr drives the GDAL ogr2ogr command line tool.
//
// Runner launches one process, merges its stdout and stderr, scrapes the
// free-text progress output into a progress.Sink, and kills the process
// group when the caller cancels. Client layers the conversion strategy on
// top: a fast attempt tuned for throughput, then a robust attempt that skips
// failing features.
package ogr2ogr

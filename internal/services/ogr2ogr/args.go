package ogr2ogr

import "strconv"

// Mode names the conversion strategy of one attempt.
type Mode string

const (
	ModeFast   Mode = "fast"
	ModeRobust Mode = "robust"
)

// DefaultBatchSize is the -gt transaction size used in fast mode.
const DefaultBatchSize = 50000

// BaseArgs are shared by every attempt: relaxed SQLite durability, no spatial
// index at creation, multi-part geometry promotion, and progress output.
func BaseArgs() []string {
	return []string{
		"--config", "OGR_SQLITE_SYNCHRONOUS", "OFF",
		"--config", "OGR_SQLITE_JOURNAL_MODE", "MEMORY",
		"-lco", "SPATIAL_INDEX=NO",
		"-nlt", "PROMOTE_TO_MULTI",
		"-progress",
	}
}

// FastArgs builds the argument list for a fast attempt.
func FastArgs(input, output string, crsArgs []string, batchSize int) []string {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	args := leadingArgs(input, output, crsArgs)
	args = append(args, "-gt", strconv.Itoa(batchSize))
	return append(args, BaseArgs()...)
}

// RobustArgs builds the argument list for a robust attempt.
func RobustArgs(input, output string, crsArgs []string) []string {
	args := leadingArgs(input, output, crsArgs)
	args = append(args, "-skipfailures")
	return append(args, BaseArgs()...)
}

func leadingArgs(input, output string, crsArgs []string) []string {
	args := make([]string, 0, 4+len(crsArgs)+16)
	args = append(args, "-f", "GPKG", output)
	args = append(args, crsArgs...)
	return append(args, input)
}

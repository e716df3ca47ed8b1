package sosi

import (
	"io"
	"os"
	"regexp"
	"slices"
	"strconv"
)

// sniffLimit bounds how much of a file is inspected for the header.
const sniffLimit = 200_000

var koordsysPattern = regexp.MustCompile(`(?mi)^\s*\.{1,6}KOORDSYS\s+(\d+)\b`)

// knownKoordsys are the SOSI coordinate-system codes ogr2ogr maps on its own
// (EUREF89 UTM zones 32 through 35).
var knownKoordsys = []int{22, 23, 24, 25}

// ExtractKoordsys returns the ..KOORDSYS code declared in the file header.
// It reports false when the directive is missing, the value is not numeric,
// or the file cannot be read; it never fails.
func ExtractKoordsys(path string) (int, bool) {
	f, err := os.Open(path)
	if err != nil {
		return 0, false
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, sniffLimit+int64(len(utf8BOM))))
	if err != nil {
		return 0, false
	}
	return ParseKoordsys(raw)
}

// ParseKoordsys is ExtractKoordsys over an in-memory header prefix.
func ParseKoordsys(raw []byte) (int, bool) {
	raw = trimPreamble(raw)
	if len(raw) > sniffLimit {
		raw = raw[:sniffLimit]
	}
	m := koordsysPattern.FindStringSubmatch(decodeLossy(raw))
	if m == nil {
		return 0, false
	}
	code, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return code, true
}

// IsKnown reports whether a sniffed code is self-describing, i.e. no manual
// CRS selection is needed. A missing code is never known.
func IsKnown(code int, ok bool) bool {
	return ok && slices.Contains(knownKoordsys, code)
}

// KnownCodes returns the fixed set of self-describing codes.
func KnownCodes() []int {
	return slices.Clone(knownKoordsys)
}

package importer

import (
	"fmt"
	"strconv"
	"strings"

	"sosi2gpkg/internal/services/ogr2ogr"
)

// Summary describes a finished import.
type Summary struct {
	RunID      string
	Input      string
	Output     string
	Layers     int
	Mode       ogr2ogr.Mode
	Koordsys   int
	HasCode    bool
	Known      bool
	Override   *CRSOverride
	Workaround bool
	// Partial is set when layer loading was canceled before every layer
	// was added.
	Partial bool
}

// CRSText describes how the coordinate system was decided, for example
// "KOORDSYS: 25 (known)" or
// "KOORDSYS: missing (unknown) | Input EPSG:25832 | Output: same".
func (s Summary) CRSText() string {
	code := "missing"
	if s.HasCode {
		code = strconv.Itoa(s.Koordsys)
	}
	switch {
	case s.Known:
		return "KOORDSYS: " + code + " (known)"
	case s.Override == nil:
		return "KOORDSYS: " + code + " (unknown)"
	}
	return fmt.Sprintf("KOORDSYS: %s (unknown) | Input %s | Output: %s",
		code, epsg(s.Override.Source), s.Override.TargetText())
}

// Text renders the summary the way it is shown to the user.
func (s Summary) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Saved:\n%s\n\n", s.Output)
	fmt.Fprintf(&b, "Added %d layers to the project.", s.Layers)
	if s.Partial {
		b.WriteString(" Loading was canceled before all layers were added.")
	}
	fmt.Fprintf(&b, "\n\n%s\nMode: %s", s.CRSText(), s.Mode)
	if s.Workaround {
		b.WriteString(" (encoding workaround)")
	}
	return b.String()
}

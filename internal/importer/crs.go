package importer

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"sosi2gpkg/internal/services"
)

// SourceChoices are the EPSG codes offered when the input's coordinate
// system cannot be detected.
var SourceChoices = []int{25832, 25833, 25834, 25835, 3857}

// TargetChoices are the reprojection targets offered after "same".
var TargetChoices = SourceChoices

// CRSOverride is an explicit coordinate system chosen by the user. A nil
// Target keeps the source system and only assigns it to the output.
type CRSOverride struct {
	Source int
	Target *int
}

// Args returns the ogr2ogr flags for the override.
func (o CRSOverride) Args() []string {
	if o.Target == nil {
		return []string{"-a_srs", epsg(o.Source)}
	}
	return []string{"-s_srs", epsg(o.Source), "-t_srs", epsg(*o.Target)}
}

// TargetText renders the target as shown in summaries.
func (o CRSOverride) TargetText() string {
	if o.Target == nil {
		return "same"
	}
	return epsg(*o.Target)
}

func epsg(code int) string {
	return "EPSG:" + strconv.Itoa(code)
}

var fold = cases.Fold()

// ParseEPSG accepts "25832" or "EPSG:25832" in any case.
func ParseEPSG(value string) (int, error) {
	trimmed := strings.TrimSpace(fold.String(value))
	trimmed = strings.TrimPrefix(trimmed, "epsg:")
	code, err := strconv.Atoi(strings.TrimSpace(trimmed))
	if err != nil || code <= 0 {
		return 0, services.Wrap(services.ErrValidation, "crs", "parse", fmt.Sprintf("invalid EPSG code %q", value), nil)
	}
	return code, nil
}

// ParseTarget accepts an EPSG code or "same" (also "samme" or empty) for no
// reprojection.
func ParseTarget(value string) (*int, error) {
	switch strings.TrimSpace(fold.String(value)) {
	case "", "same", "samme":
		return nil, nil
	}
	code, err := ParseEPSG(value)
	if err != nil {
		return nil, err
	}
	return &code, nil
}

// IsOffered reports whether code is one of the listed choices.
func IsOffered(code int) bool {
	return slices.Contains(SourceChoices, code)
}

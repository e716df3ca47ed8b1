package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"sosi2gpkg/internal/services"
)

const ogr2ogrName = "ogr2ogr"

// FindOgr2ogr resolves the converter executable. An explicit binary is
// resolved on its own and never falls back. Otherwise each install prefix is
// searched for bin/ogr2ogr and apps/gdal/bin/ogr2ogr (the layout of GIS
// desktop bundles), then PATH.
func FindOgr2ogr(binary string, prefixes []string) (string, error) {
	if binary = strings.TrimSpace(binary); binary != "" {
		resolved, err := exec.LookPath(binary)
		if err != nil {
			return "", services.Wrap(services.ErrToolNotFound, "deps", "ogr2ogr", fmt.Sprintf("configured binary %q not found", binary), err)
		}
		return resolved, nil
	}

	for _, candidate := range prefixCandidates(prefixes) {
		if info, err := os.Stat(candidate); err == nil && isExecutable(info) {
			return candidate, nil
		}
	}

	if resolved, err := exec.LookPath(ogr2ogrName); err == nil {
		return resolved, nil
	}
	return "", services.Wrap(services.ErrToolNotFound, "deps", "ogr2ogr",
		"ogr2ogr not found; install GDAL or set ogr2ogr.binary / ogr2ogr.install_prefixes", nil)
}

// CheckOgr2ogr reports converter availability in the shape used by doctor.
func CheckOgr2ogr(binary string, prefixes []string) Status {
	status := Status{
		Name:        "ogr2ogr",
		Description: "Required for SOSI to GeoPackage conversion",
	}
	resolved, err := FindOgr2ogr(binary, prefixes)
	if err != nil {
		status.Command = ogr2ogrName
		if strings.TrimSpace(binary) != "" {
			status.Command = strings.TrimSpace(binary)
		}
		status.Detail = fmt.Sprintf("binary %q not found", status.Command)
		return status
	}
	status.Command = resolved
	status.Available = true
	return status
}

func prefixCandidates(prefixes []string) []string {
	names := []string{ogr2ogrName}
	if runtime.GOOS == "windows" {
		names = []string{ogr2ogrName + ".exe", ogr2ogrName}
	}
	var out []string
	for _, prefix := range prefixes {
		prefix = strings.TrimSpace(prefix)
		if prefix == "" {
			continue
		}
		for _, sub := range []string{"bin", filepath.Join("apps", "gdal", "bin")} {
			for _, name := range names {
				out = append(out, filepath.Join(prefix, sub, name))
			}
		}
	}
	return out
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}

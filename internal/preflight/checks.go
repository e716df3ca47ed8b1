package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"sosi2gpkg/internal/config"
	"sosi2gpkg/internal/deps"
)

var gdalVersionPattern = regexp.MustCompile(`GDAL\s+([0-9][0-9A-Za-z.\-]*)`)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := checkAccess(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the external tools for the given config. The
// import command and doctor share this list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	statuses := []deps.Status{deps.CheckOgr2ogr(cfg.Ogr2ogr.Binary, cfg.Ogr2ogr.InstallPrefixes)}
	return append(statuses, deps.CheckBinaries([]deps.Requirement{
		{
			Name:        "ogrinfo",
			Command:     "ogrinfo",
			Description: "Useful for inspecting converted GeoPackages",
			Optional:    true,
		},
	})...)
}

// CheckOgr2ogrVersion runs "ogr2ogr --version" and reports the GDAL release.
// It uses a 5-second timeout.
func CheckOgr2ogrVersion(ctx context.Context, binary string) Result {
	const name = "GDAL version"

	if strings.TrimSpace(binary) == "" {
		return Result{Name: name, Detail: "ogr2ogr not resolved"}
	}
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out, err := exec.CommandContext(checkCtx, binary, "--version").CombinedOutput() //nolint:gosec
	if err != nil {
		if errors.Is(checkCtx.Err(), context.DeadlineExceeded) {
			return Result{Name: name, Detail: "version check timed out"}
		}
		return Result{Name: name, Detail: fmt.Sprintf("version check failed (%v)", err)}
	}
	m := gdalVersionPattern.FindStringSubmatch(string(out))
	if m == nil {
		return Result{Name: name, Passed: true, Detail: strings.TrimSpace(string(out))}
	}
	return Result{Name: name, Passed: true, Detail: "GDAL " + strings.TrimRight(m[1], ",.")}
}

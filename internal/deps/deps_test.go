package deps

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"sosi2gpkg/internal/services"
)

func writeStub(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
}

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}

func TestCheckBinaries(t *testing.T) {
	present := filepath.Join(t.TempDir(), "present")
	writeStub(t, present)
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary", Optional: true},
		{Name: "Blank"},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Detail != "" {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" || !results[1].Optional {
		t.Fatalf("expected missing optional binary with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[2].Detail)
	}
}

func TestFindOgr2ogrPrefersInstallPrefix(t *testing.T) {
	tmp := t.TempDir()
	prefix := filepath.Join(tmp, "qgis")
	bundled := filepath.Join(prefix, "apps", "gdal", "bin", executableName("ogr2ogr"))
	writeStub(t, bundled)

	pathDir := filepath.Join(tmp, "path")
	writeStub(t, filepath.Join(pathDir, executableName("ogr2ogr")))
	t.Setenv("PATH", pathDir)

	got, err := FindOgr2ogr("", []string{filepath.Join(tmp, "empty-prefix"), prefix})
	if err != nil {
		t.Fatalf("FindOgr2ogr returned error: %v", err)
	}
	if got != bundled {
		t.Fatalf("expected %q, got %q", bundled, got)
	}
}

func TestFindOgr2ogrBinDirWinsOverAppsDir(t *testing.T) {
	prefix := t.TempDir()
	binPath := filepath.Join(prefix, "bin", executableName("ogr2ogr"))
	writeStub(t, binPath)
	writeStub(t, filepath.Join(prefix, "apps", "gdal", "bin", executableName("ogr2ogr")))
	t.Setenv("PATH", "")

	got, err := FindOgr2ogr("", []string{prefix})
	if err != nil {
		t.Fatalf("FindOgr2ogr returned error: %v", err)
	}
	if got != binPath {
		t.Fatalf("expected %q, got %q", binPath, got)
	}
}

func TestFindOgr2ogrFallsBackToPath(t *testing.T) {
	pathDir := t.TempDir()
	want := filepath.Join(pathDir, executableName("ogr2ogr"))
	writeStub(t, want)
	t.Setenv("PATH", pathDir)

	got, err := FindOgr2ogr("", nil)
	if err != nil {
		t.Fatalf("FindOgr2ogr returned error: %v", err)
	}
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFindOgr2ogrExplicitBinary(t *testing.T) {
	explicit := filepath.Join(t.TempDir(), "custom-ogr2ogr")
	writeStub(t, explicit)

	got, err := FindOgr2ogr(explicit, nil)
	if err != nil {
		t.Fatalf("FindOgr2ogr returned error: %v", err)
	}
	if got != explicit {
		t.Fatalf("expected %q, got %q", explicit, got)
	}

	pathDir := t.TempDir()
	writeStub(t, filepath.Join(pathDir, executableName("ogr2ogr")))
	t.Setenv("PATH", pathDir)
	if _, err := FindOgr2ogr(filepath.Join(t.TempDir(), "missing"), nil); !errors.Is(err, services.ErrToolNotFound) {
		t.Fatalf("explicit binary must not fall back to PATH, got %v", err)
	}
}

func TestFindOgr2ogrNotFound(t *testing.T) {
	t.Setenv("PATH", "")
	_, err := FindOgr2ogr("", []string{t.TempDir()})
	if !errors.Is(err, services.ErrToolNotFound) {
		t.Fatalf("expected ErrToolNotFound, got %v", err)
	}
}

func TestCheckOgr2ogr(t *testing.T) {
	t.Setenv("PATH", "")
	status := CheckOgr2ogr("", nil)
	if status.Available || status.Detail == "" {
		t.Fatalf("expected unavailable status with detail, got %#v", status)
	}

	prefix := t.TempDir()
	want := filepath.Join(prefix, "bin", executableName("ogr2ogr"))
	writeStub(t, want)
	status = CheckOgr2ogr("", []string{prefix})
	if !status.Available || status.Command != want {
		t.Fatalf("expected available %q, got %#v", want, status)
	}
}

package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"sosi2gpkg/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestRunAllCreatesDirectories(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	results := RunAll(context.Background(), cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d: %#v", len(results), results)
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("expected all checks to pass, got %#v", failed)
	}
	if _, err := os.Stat(cfg.Paths.StateDir); err != nil {
		t.Fatalf("state dir not created: %v", err)
	}
}

func TestRunAllNilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatalf("expected nil results, got %#v", results)
	}
}

func TestCheckSystemDeps(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithOgr2ogrScript("exit 0\n"))
	statuses := CheckSystemDeps(cfg)
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if !statuses[0].Available || statuses[0].Command != cfg.Ogr2ogr.Binary {
		t.Fatalf("expected configured ogr2ogr to be available, got %#v", statuses[0])
	}
	if !statuses[1].Optional {
		t.Fatalf("expected ogrinfo to be optional, got %#v", statuses[1])
	}
}

func TestCheckOgr2ogrVersion(t *testing.T) {
	binary := testsupport.WriteScript(t, t.TempDir(), "ogr2ogr", `echo 'GDAL 3.8.4, released 2024/02/08'`+"\n")
	result := CheckOgr2ogrVersion(context.Background(), binary)
	if !result.Passed || result.Detail != "GDAL 3.8.4" {
		t.Fatalf("unexpected result %#v", result)
	}

	failing := testsupport.WriteScript(t, t.TempDir(), "ogr2ogr", "exit 1\n")
	if result := CheckOgr2ogrVersion(context.Background(), failing); result.Passed {
		t.Fatalf("expected failure, got %#v", result)
	}
	if result := CheckOgr2ogrVersion(context.Background(), ""); result.Passed {
		t.Fatalf("expected failure for empty binary, got %#v", result)
	}
}
